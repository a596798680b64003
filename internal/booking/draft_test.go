package booking

import (
	"fmt"
	"testing"
	"time"

	"github.com/spacevoyager/bookings/internal/domain"
	"github.com/spacevoyager/bookings/internal/validate"
)

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		Destinations: []domain.Destination{
			{
				ID: "mars", Name: "Mars Base One", BasePrice: 1000,
				Packages: []domain.Package{
					{ID: "orbit", Name: "Orbital Survey", Price: 0},
					{ID: "colony", Name: "Colony Visit", Price: 200, RequiresSuitSize: true},
				},
			},
			{
				ID: "moon", Name: "Lunar Gateway", BasePrice: 500,
				Packages: []domain.Package{
					{ID: "flyby", Name: "Orbital Flyby", Price: 0},
				},
			},
		},
		Extras: []domain.Extra{
			{ID: "insurance", Name: "Voyage Insurance", Price: 50},
			{ID: "training", Name: "Training Week", Price: 100},
		},
	}
}

func mustApply(t *testing.T, m *Manager, id string, cmd Command) *View {
	t.Helper()
	view, err := m.Apply(id, cmd)
	if err != nil {
		t.Fatalf("Apply(%+v): %v", cmd, err)
	}
	return view
}

func TestNewDraftStartsWithOneTraveler(t *testing.T) {
	m := NewManager(testCatalog())
	view := m.Create()

	if view.Passengers != 1 {
		t.Errorf("Passengers = %d, want 1", view.Passengers)
	}
	if len(view.Travelers) != 1 || view.Travelers[0].Number != 1 {
		t.Errorf("Travelers = %+v, want one form numbered 1", view.Travelers)
	}
	if view.Accommodation != string(domain.AccommodationStandard) {
		t.Errorf("Accommodation = %q, want standard", view.Accommodation)
	}
}

func TestPassengerFormsTrackCount(t *testing.T) {
	m := NewManager(testCatalog())
	id := m.Create().DraftID

	steps := []struct {
		cmd  Command
		want int
	}{
		{Command{Op: OpSetPassengers, Count: 4}, 4},
		{Command{Op: OpSetPassengers, Count: 2}, 2},
		{Command{Op: OpAddTraveler}, 3},
		{Command{Op: OpRemoveTraveler, Index: 2}, 2},
		{Command{Op: OpRemoveTraveler, Index: 1}, 1},
		{Command{Op: OpRemoveTraveler, Index: 1}, 1}, // sole remaining form: no-op
		{Command{Op: OpSetPassengers, Count: 3}, 3},
	}

	for _, step := range steps {
		view := mustApply(t, m, id, step.cmd)
		if view.Passengers != step.want {
			t.Fatalf("after %+v: Passengers = %d, want %d", step.cmd, view.Passengers, step.want)
		}
		if len(view.Travelers) != step.want {
			t.Fatalf("after %+v: %d traveler forms, want %d", step.cmd, len(view.Travelers), step.want)
		}
		for i, tf := range view.Travelers {
			if tf.Number != i+1 {
				t.Fatalf("after %+v: form %d numbered %d, want contiguous 1..N", step.cmd, i, tf.Number)
			}
		}
	}
}

func TestRemoveTravelerKeepsRemainingDetails(t *testing.T) {
	m := NewManager(testCatalog())
	id := m.Create().DraftID

	mustApply(t, m, id, Command{Op: OpSetPassengers, Count: 3})
	mustApply(t, m, id, Command{Op: OpSetField, Field: "traveler.1.firstName", Value: "Ada"})
	mustApply(t, m, id, Command{Op: OpSetField, Field: "traveler.3.firstName", Value: "Grace"})

	view := mustApply(t, m, id, Command{Op: OpRemoveTraveler, Index: 2})
	if view.Travelers[0].FirstName != "Ada" || view.Travelers[1].FirstName != "Grace" {
		t.Errorf("travelers after removal = %+v, want Ada then Grace", view.Travelers)
	}
	if view.Travelers[1].Number != 2 {
		t.Errorf("renumbering: second form numbered %d, want 2", view.Travelers[1].Number)
	}
}

func TestSelectDestinationClearsPackage(t *testing.T) {
	m := NewManager(testCatalog())
	id := m.Create().DraftID

	mustApply(t, m, id, Command{Op: OpSelectDestination, Value: "mars"})
	view := mustApply(t, m, id, Command{Op: OpSelectPackage, Value: "colony"})
	for _, opt := range view.Packages {
		if opt.ID == "colony" && !opt.Selected {
			t.Errorf("colony should be selected")
		}
	}

	view = mustApply(t, m, id, Command{Op: OpSelectDestination, Value: "moon"})
	for _, opt := range view.Packages {
		if opt.Selected {
			t.Errorf("package %q still selected after destination change", opt.ID)
		}
	}
	if len(view.Packages) != 1 || view.Packages[0].ID != "flyby" {
		t.Errorf("Packages = %+v, want the moon packages", view.Packages)
	}
}

func TestSuitSizeFieldLifecycle(t *testing.T) {
	m := NewManager(testCatalog())
	id := m.Create().DraftID

	view := mustApply(t, m, id, Command{Op: OpSelectDestination, Value: "mars"})
	if view.SuitSize.Present || view.SuitSize.Required {
		t.Fatalf("suit size should not exist before a package requires it: %+v", view.SuitSize)
	}

	view = mustApply(t, m, id, Command{Op: OpSelectPackage, Value: "colony"})
	if !view.SuitSize.Present || !view.SuitSize.Visible || !view.SuitSize.Required {
		t.Fatalf("colony requires a suit size: %+v", view.SuitSize)
	}

	// Switching to a package without the requirement hides the field but
	// keeps it around.
	view = mustApply(t, m, id, Command{Op: OpSelectPackage, Value: "orbit"})
	if !view.SuitSize.Present {
		t.Errorf("suit size field should persist once created")
	}
	if view.SuitSize.Visible || view.SuitSize.Required {
		t.Errorf("suit size should be hidden and optional for orbit: %+v", view.SuitSize)
	}
}

func TestToggleExtra(t *testing.T) {
	m := NewManager(testCatalog())
	id := m.Create().DraftID
	mustApply(t, m, id, Command{Op: OpSelectDestination, Value: "mars"})

	view := mustApply(t, m, id, Command{Op: OpToggleExtra, Value: "insurance"})
	if view.Price.Total != 1050 {
		t.Errorf("Total with insurance = %v, want 1050", view.Price.Total)
	}

	view = mustApply(t, m, id, Command{Op: OpToggleExtra, Value: "insurance"})
	if view.Price.Total != 1000 {
		t.Errorf("Total after toggle off = %v, want 1000", view.Price.Total)
	}
	for _, e := range view.Extras {
		if e.Checked {
			t.Errorf("extra %q still checked after toggle off", e.ID)
		}
	}
}

func TestEveryCommandRefreshesPrice(t *testing.T) {
	m := NewManager(testCatalog())
	id := m.Create().DraftID

	mustApply(t, m, id, Command{Op: OpSelectDestination, Value: "mars"})
	mustApply(t, m, id, Command{Op: OpSelectPackage, Value: "colony"})
	mustApply(t, m, id, Command{Op: OpSetAccommodation, Value: "luxury"})
	mustApply(t, m, id, Command{Op: OpSetPassengers, Count: 2})
	view := mustApply(t, m, id, Command{Op: OpToggleExtra, Value: "insurance"})

	if view.Price.Total != 3700 {
		t.Errorf("Total = %v, want 3700", view.Price.Total)
	}
	if view.Price.TotalDisplay != "$3,700" {
		t.Errorf("TotalDisplay = %q, want $3,700", view.Price.TotalDisplay)
	}

	var included int
	for _, line := range view.Price.Lines {
		if line.Display == "Included" {
			included++
		}
	}
	if included != 1 {
		t.Errorf("want exactly one Included line (the passenger count), got %d", included)
	}
}

func TestFieldValidationOnSet(t *testing.T) {
	m := NewManager(testCatalog())
	id := m.Create().DraftID

	view := mustApply(t, m, id, Command{Op: OpSetField, Field: "traveler.1.email", Value: "bad email"})
	if view.FieldErrors["traveler.1.email"] != validate.MsgEmail {
		t.Errorf("email error = %q, want %q", view.FieldErrors["traveler.1.email"], validate.MsgEmail)
	}

	view = mustApply(t, m, id, Command{Op: OpSetField, Field: "traveler.1.email", Value: "ada@example.com"})
	if _, ok := view.FieldErrors["traveler.1.email"]; ok {
		t.Errorf("email error should clear once the value is valid")
	}

	// Plain text fields only validate on an explicit blur command.
	view = mustApply(t, m, id, Command{Op: OpSetField, Field: "traveler.1.firstName", Value: ""})
	if _, ok := view.FieldErrors["traveler.1.firstName"]; ok {
		t.Errorf("text field should not validate on set")
	}
	view = mustApply(t, m, id, Command{Op: OpValidateField, Field: "traveler.1.firstName"})
	if view.FieldErrors["traveler.1.firstName"] != validate.MsgRequired {
		t.Errorf("blur on empty required field should record %q", validate.MsgRequired)
	}
}

func TestValidateAllCoversRequiredFields(t *testing.T) {
	m := NewManager(testCatalog())
	id := m.Create().DraftID

	errs, err := m.ValidateAll(id)
	if err != nil {
		t.Fatal(err)
	}

	got := make(map[string]string, len(errs))
	for _, e := range errs {
		got[e.Field] = e.Message
	}
	for _, field := range []string{
		"destination", "package", "departureDate",
		"traveler.1.firstName", "traveler.1.lastName", "traveler.1.email", "traveler.1.phone",
	} {
		if got[field] != validate.MsgRequired {
			t.Errorf("field %q: message %q, want %q", field, got[field], validate.MsgRequired)
		}
	}
	if _, ok := got["suitSize"]; ok {
		t.Errorf("suitSize should not be required without a suit package")
	}

	// Selecting a suit package adds it to the gate.
	mustApply(t, m, id, Command{Op: OpSelectDestination, Value: "mars"})
	mustApply(t, m, id, Command{Op: OpSelectPackage, Value: "colony"})
	errs, _ = m.ValidateAll(id)
	found := false
	for _, e := range errs {
		if e.Field == "suitSize" {
			found = true
		}
	}
	if !found {
		t.Errorf("suitSize missing from validation gate for a suit package")
	}
}

func TestValidDraftPassesTheGate(t *testing.T) {
	m := NewManager(testCatalog())
	id := m.Create().DraftID
	depart := time.Now().AddDate(0, 0, 10).Format("2006-01-02")

	mustApply(t, m, id, Command{Op: OpSelectDestination, Value: "mars"})
	mustApply(t, m, id, Command{Op: OpSelectPackage, Value: "colony"})
	mustApply(t, m, id, Command{Op: OpSetField, Field: "suitSize", Value: "medium"})
	mustApply(t, m, id, Command{Op: OpSetField, Field: "departureDate", Value: depart})
	mustApply(t, m, id, Command{Op: OpSetPassengers, Count: 2})
	for i := 1; i <= 2; i++ {
		mustApply(t, m, id, Command{Op: OpSetField, Field: fmt.Sprintf("traveler.%d.firstName", i), Value: "Ada"})
		mustApply(t, m, id, Command{Op: OpSetField, Field: fmt.Sprintf("traveler.%d.lastName", i), Value: "Lovelace"})
		mustApply(t, m, id, Command{Op: OpSetField, Field: fmt.Sprintf("traveler.%d.email", i), Value: "ada@example.com"})
		mustApply(t, m, id, Command{Op: OpSetField, Field: fmt.Sprintf("traveler.%d.phone", i), Value: "+15551234567"})
	}

	errs, err := m.ValidateAll(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) != 0 {
		t.Errorf("unexpected validation errors: %+v", errs)
	}
}

func TestApplyUnknownDraft(t *testing.T) {
	m := NewManager(testCatalog())
	if _, err := m.Apply("nope", Command{Op: OpAddTraveler}); err != ErrDraftNotFound {
		t.Errorf("err = %v, want ErrDraftNotFound", err)
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{450000, "450,000"},
		{3700, "3,700"},
		{1250.5, "1,250.50"},
		{999, "999"},
		{-12345, "-12,345"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
