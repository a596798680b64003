package booking

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spacevoyager/bookings/internal/domain"
	"github.com/spacevoyager/bookings/internal/pricing"
	"github.com/spacevoyager/bookings/internal/validate"
)

var ErrDraftNotFound = errors.New("booking: draft not found")

// Command ops. Every state-affecting op is followed by a full quote
// recomputation when the view is built; there is no incremental diffing.
const (
	OpSelectDestination = "selectDestination"
	OpSelectPackage     = "selectPackage"
	OpSetPassengers     = "setPassengers"
	OpAddTraveler       = "addTraveler"
	OpRemoveTraveler    = "removeTraveler"
	OpSetAccommodation  = "setAccommodation"
	OpToggleExtra       = "toggleExtra"
	OpSetField          = "setField"
	OpValidateField     = "validateField"
)

// Command is one user interaction with the booking form, expressed as
// data. Which parameters matter depends on Op.
type Command struct {
	Op    string `json:"op"`
	Value string `json:"value,omitempty"`
	Field string `json:"field,omitempty"`
	Count int    `json:"count,omitempty"`
	Index int    `json:"index,omitempty"`
}

// Manager owns all live drafts. Commands are applied under a single lock,
// so one interaction is always handled to completion before the next, the
// same ordering guarantee a browser event loop gives.
type Manager struct {
	mu      sync.Mutex
	catalog *domain.Catalog
	drafts  map[string]*Draft
	now     func() time.Time
}

// NewManager accepts a nil catalog: the form then renders empty option
// lists and zero prices rather than failing.
func NewManager(catalog *domain.Catalog) *Manager {
	return &Manager{
		catalog: catalog,
		drafts:  make(map[string]*Draft),
		now:     time.Now,
	}
}

func (m *Manager) Create() *View {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := newDraft(uuid.NewString())
	m.drafts[d.ID] = d
	return m.buildView(d)
}

func (m *Manager) View(id string) (*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return m.buildView(d), nil
}

// Apply runs a single command against a draft and returns the refreshed
// view, price summary included.
func (m *Manager) Apply(id string, cmd Command) (*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}

	switch cmd.Op {
	case OpSelectDestination:
		d.SelectDestination(m.catalog, cmd.Value)
		d.ValidateField(m.catalog, "destination", m.now())
	case OpSelectPackage:
		d.SelectPackage(m.catalog, cmd.Value)
		d.ValidateField(m.catalog, "package", m.now())
	case OpSetPassengers:
		if cmd.Count < 1 {
			return nil, fmt.Errorf("passenger count must be at least 1")
		}
		d.SetPassengers(cmd.Count)
	case OpAddTraveler:
		d.AddTraveler()
	case OpRemoveTraveler:
		d.RemoveTraveler(cmd.Index)
	case OpSetAccommodation:
		if !d.SetAccommodation(cmd.Value) {
			return nil, fmt.Errorf("unknown accommodation %q", cmd.Value)
		}
	case OpToggleExtra:
		d.ToggleExtra(cmd.Value)
	case OpSetField:
		if err := d.SetField(m.catalog, cmd.Field, cmd.Value, m.now()); err != nil {
			return nil, err
		}
	case OpValidateField:
		d.ValidateField(m.catalog, cmd.Field, m.now())
	default:
		return nil, fmt.Errorf("unknown op %q", cmd.Op)
	}

	return m.buildView(d), nil
}

// ValidateAll runs the full-form validation gate over a draft.
func (m *Manager) ValidateAll(id string) ([]validate.FieldError, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d.ValidateAll(m.catalog, m.now()), nil
}

// Snapshot returns a copy of the draft plus its current quote, for the
// submission path to assemble a booking record from.
func (m *Manager) Snapshot(id string) (*Draft, domain.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[id]
	if !ok {
		return nil, domain.Quote{}, ErrDraftNotFound
	}

	snap := *d
	snap.Extras = append([]string(nil), d.Extras...)
	snap.Travelers = append([]domain.Traveler(nil), d.Travelers...)
	snap.FieldErrors = nil
	return &snap, pricing.Calculate(m.catalog, d.selection()), nil
}

func (m *Manager) Discard(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, id)
}
