package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spacevoyager/bookings/internal/domain"
	"github.com/spacevoyager/bookings/internal/pricing"
	"github.com/spacevoyager/bookings/internal/validate"
)

// Draft is the in-progress, unsaved set of booking selections. It lives
// only inside the Manager until submission; nothing is persisted from it
// until the submit gate passes.
type Draft struct {
	ID            string
	DestinationID string
	PackageID     string
	DepartureDate string
	Accommodation domain.Accommodation
	SuitSize      string
	Extras        []string // insertion order of selection
	Travelers     []domain.Traveler

	// suitShown flips on the first time a package requires a suit size;
	// after that the field exists permanently and only its visibility
	// tracks the current package.
	suitShown bool

	FieldErrors map[string]string
}

func newDraft(id string) *Draft {
	return &Draft{
		ID:            id,
		Accommodation: domain.AccommodationStandard,
		Travelers:     make([]domain.Traveler, 1),
		FieldErrors:   make(map[string]string),
	}
}

// Passengers is derived from the sub-forms so the two can never diverge.
func (d *Draft) Passengers() int {
	return len(d.Travelers)
}

// SelectDestination repopulates the package options, which clears any
// prior package selection, and re-evaluates the suit-size requirement.
func (d *Draft) SelectDestination(c *domain.Catalog, id string) {
	d.DestinationID = id
	d.PackageID = ""
	d.refreshSuitSize(c)
}

func (d *Draft) SelectPackage(c *domain.Catalog, id string) {
	dest := c.DestinationByID(d.DestinationID)
	if dest.PackageByID(id) == nil {
		id = ""
	}
	d.PackageID = id
	d.refreshSuitSize(c)
}

func (d *Draft) refreshSuitSize(c *domain.Catalog) {
	if d.suitRequired(c) {
		d.suitShown = true
	}
}

func (d *Draft) suitRequired(c *domain.Catalog) bool {
	pkg := c.DestinationByID(d.DestinationID).PackageByID(d.PackageID)
	return pkg != nil && pkg.RequiresSuitSize
}

// SetPassengers synchronizes the traveler sub-forms to the new count:
// forms are appended to grow and removed from the end to shrink, so the
// remaining forms keep a contiguous 1..N numbering.
func (d *Draft) SetPassengers(n int) {
	if n < 1 {
		n = 1
	}
	for len(d.Travelers) < n {
		d.Travelers = append(d.Travelers, domain.Traveler{})
	}
	if len(d.Travelers) > n {
		d.dropTravelerErrorsFrom(n)
		d.Travelers = d.Travelers[:n]
	}
}

// AddTraveler appends one sub-form regardless of the preset options.
func (d *Draft) AddTraveler() {
	d.Travelers = append(d.Travelers, domain.Traveler{})
}

// RemoveTraveler removes the i-th sub-form (1-based). Removing the sole
// remaining form is a no-op: at least one traveler always exists.
func (d *Draft) RemoveTraveler(i int) {
	if len(d.Travelers) <= 1 || i < 1 || i > len(d.Travelers) {
		return
	}
	d.dropTravelerErrorsFrom(i - 1)
	d.Travelers = append(d.Travelers[:i-1], d.Travelers[i:]...)
}

// dropTravelerErrorsFrom clears recorded errors for sub-forms at or past
// index idx (0-based); their numbering is about to shift or disappear.
func (d *Draft) dropTravelerErrorsFrom(idx int) {
	for field := range d.FieldErrors {
		n, _, ok := splitTravelerField(field)
		if ok && n-1 >= idx {
			delete(d.FieldErrors, field)
		}
	}
}

func (d *Draft) SetAccommodation(tier string) bool {
	a, ok := domain.ParseAccommodation(tier)
	if !ok {
		return false
	}
	d.Accommodation = a
	return true
}

// ToggleExtra flips an extra in or out of the selection, preserving the
// insertion order of everything still selected.
func (d *Draft) ToggleExtra(id string) {
	for i, e := range d.Extras {
		if e == id {
			d.Extras = append(d.Extras[:i], d.Extras[i+1:]...)
			return
		}
	}
	d.Extras = append(d.Extras, id)
}

func (d *Draft) selection() pricing.Selection {
	return pricing.Selection{
		DestinationID: d.DestinationID,
		PackageID:     d.PackageID,
		Accommodation: d.Accommodation,
		Passengers:    d.Passengers(),
		ExtraIDs:      d.Extras,
	}
}

// Field kinds drive which format check applies after the required check.
type fieldKind int

const (
	kindSelect fieldKind = iota
	kindText
	kindEmail
	kindPhone
	kindDate
)

func splitTravelerField(field string) (n int, attr string, ok bool) {
	parts := strings.Split(field, ".")
	if len(parts) != 3 || parts[0] != "traveler" {
		return 0, "", false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil || n < 1 {
		return 0, "", false
	}
	return n, parts[2], true
}

func (d *Draft) lookupField(c *domain.Catalog, field string) (value string, kind fieldKind, required bool, ok bool) {
	switch field {
	case "destination":
		return d.DestinationID, kindSelect, true, true
	case "package":
		return d.PackageID, kindSelect, true, true
	case "departureDate":
		return d.DepartureDate, kindDate, true, true
	case "suitSize":
		return d.SuitSize, kindSelect, d.suitRequired(c), true
	}

	n, attr, isTraveler := splitTravelerField(field)
	if !isTraveler || n > len(d.Travelers) {
		return "", 0, false, false
	}
	t := d.Travelers[n-1]
	switch attr {
	case "firstName":
		return t.FirstName, kindText, true, true
	case "lastName":
		return t.LastName, kindText, true, true
	case "email":
		return t.Email, kindEmail, true, true
	case "phone":
		return t.Phone, kindPhone, true, true
	}
	return "", 0, false, false
}

// SetField writes a value into a named form field. Email and phone fields
// are re-validated on every write, mirroring per-keystroke checking; the
// rest only validate on an explicit validateField command or at submit.
func (d *Draft) SetField(c *domain.Catalog, field, value string, now time.Time) error {
	switch field {
	case "departureDate":
		d.DepartureDate = value
	case "suitSize":
		d.SuitSize = value
	default:
		n, attr, ok := splitTravelerField(field)
		if !ok || n > len(d.Travelers) {
			return fmt.Errorf("unknown field %q", field)
		}
		t := &d.Travelers[n-1]
		switch attr {
		case "firstName":
			t.FirstName = value
		case "lastName":
			t.LastName = value
		case "email":
			t.Email = value
		case "phone":
			t.Phone = value
		default:
			return fmt.Errorf("unknown field %q", field)
		}
	}

	_, kind, _, _ := d.lookupField(c, field)
	if kind == kindEmail || kind == kindPhone {
		d.ValidateField(c, field, now)
	}
	return nil
}

// ValidateField runs the per-field check and records the outcome in the
// field's error slot. Required-but-empty wins over format checks; format
// checks only fire on non-empty values.
func (d *Draft) ValidateField(c *domain.Catalog, field string, now time.Time) (bool, string) {
	value, kind, required, ok := d.lookupField(c, field)
	if !ok {
		return false, fmt.Sprintf("unknown field %q", field)
	}

	valid, message := true, ""
	switch {
	case required && !validate.Required(value):
		valid, message = false, validate.MsgRequired
	case kind == kindEmail && validate.Required(value) && !validate.Email(value):
		valid, message = false, validate.MsgEmail
	case kind == kindPhone && validate.Required(value) && !validate.Phone(value):
		valid, message = false, validate.MsgPhone
	case kind == kindDate && value != "":
		valid, message = validate.DepartureDate(value, now)
	}

	if valid {
		delete(d.FieldErrors, field)
	} else {
		d.FieldErrors[field] = message
	}
	return valid, message
}

// requiredFields lists every required field in display order. suitSize
// joins the list only while the selected package demands it.
func (d *Draft) requiredFields(c *domain.Catalog) []string {
	fields := []string{"destination", "package", "departureDate"}
	if d.suitRequired(c) {
		fields = append(fields, "suitSize")
	}
	for i := range d.Travelers {
		n := i + 1
		fields = append(fields,
			fmt.Sprintf("traveler.%d.firstName", n),
			fmt.Sprintf("traveler.%d.lastName", n),
			fmt.Sprintf("traveler.%d.email", n),
			fmt.Sprintf("traveler.%d.phone", n),
		)
	}
	return fields
}

// ValidateAll re-runs the per-field check over every required field. It is
// the single gate before submission.
func (d *Draft) ValidateAll(c *domain.Catalog, now time.Time) []validate.FieldError {
	var errs []validate.FieldError
	for _, field := range d.requiredFields(c) {
		if ok, message := d.ValidateField(c, field, now); !ok {
			errs = append(errs, validate.FieldError{Field: field, Message: message})
		}
	}
	return errs
}
