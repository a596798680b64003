package booking

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spacevoyager/bookings/internal/pricing"
)

// View is the render model of the booking form: everything a UI layer
// needs to draw the current draft, with no pricing or validation logic of
// its own.
type View struct {
	DraftID          string            `json:"draftId"`
	Destinations     []Option          `json:"destinations"`
	Packages         []Option          `json:"packages"`
	DepartureDate    string            `json:"departureDate"`
	DepartureMin     string            `json:"departureMin"`
	DepartureMax     string            `json:"departureMax"`
	Accommodation    string            `json:"accommodation"`
	PassengerPresets []int             `json:"passengerPresets"`
	Passengers       int               `json:"passengers"`
	SuitSize         SuitSizeField     `json:"suitSize"`
	Travelers        []TravelerForm    `json:"travelers"`
	Extras           []ExtraOption     `json:"extras"`
	Price            PriceSummary      `json:"price"`
	FieldErrors      map[string]string `json:"fieldErrors"`
}

type Option struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// SuitSizeField mirrors the lazily created suit-size control: Present once
// any package has required it, Visible and Required only while the current
// package does.
type SuitSizeField struct {
	Present  bool     `json:"present"`
	Visible  bool     `json:"visible"`
	Required bool     `json:"required"`
	Value    string   `json:"value"`
	Options  []string `json:"options"`
}

type TravelerForm struct {
	Number    int    `json:"number"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type ExtraOption struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Checked     bool    `json:"checked"`
}

type PriceSummary struct {
	Lines        []PriceLine `json:"lines"`
	Total        float64     `json:"total"`
	TotalDisplay string      `json:"totalDisplay"`
}

// PriceLine carries both the raw amount and its display form; zero-amount
// lines render as "Included".
type PriceLine struct {
	Item    string  `json:"item"`
	Amount  float64 `json:"amount"`
	Display string  `json:"display"`
}

var suitSizes = []string{"small", "medium", "large", "xlarge"}

var passengerPresets = []int{1, 2, 3, 4}

func (m *Manager) buildView(d *Draft) *View {
	now := m.now()
	quote := pricing.Calculate(m.catalog, d.selection())

	v := &View{
		DraftID:          d.ID,
		DepartureDate:    d.DepartureDate,
		DepartureMin:     now.Format("2006-01-02"),
		DepartureMax:     now.AddDate(0, 0, 30).Format("2006-01-02"),
		Accommodation:    string(d.Accommodation),
		PassengerPresets: passengerPresets,
		Passengers:       d.Passengers(),
		SuitSize: SuitSizeField{
			Present:  d.suitShown,
			Visible:  d.suitRequired(m.catalog),
			Required: d.suitRequired(m.catalog),
			Value:    d.SuitSize,
			Options:  suitSizes,
		},
		FieldErrors: map[string]string{},
	}
	for field, message := range d.FieldErrors {
		v.FieldErrors[field] = message
	}

	if m.catalog != nil {
		for _, dest := range m.catalog.Destinations {
			v.Destinations = append(v.Destinations, Option{
				ID:       dest.ID,
				Label:    fmt.Sprintf("%s - $%s", dest.Name, FormatMoney(dest.BasePrice)),
				Selected: dest.ID == d.DestinationID,
			})
		}
		if dest := m.catalog.DestinationByID(d.DestinationID); dest != nil {
			for _, pkg := range dest.Packages {
				label := pkg.Name
				if pkg.Price > 0 {
					label = fmt.Sprintf("%s (+$%s)", pkg.Name, FormatMoney(pkg.Price))
				}
				v.Packages = append(v.Packages, Option{
					ID:       pkg.ID,
					Label:    label,
					Selected: pkg.ID == d.PackageID,
				})
			}
		}
		for _, extra := range m.catalog.Extras {
			v.Extras = append(v.Extras, ExtraOption{
				ID:          extra.ID,
				Label:       fmt.Sprintf("%s - $%s", extra.Name, FormatMoney(extra.Price)),
				Description: extra.Description,
				Price:       extra.Price,
				Checked:     d.hasExtra(extra.ID),
			})
		}
	}

	for i, t := range d.Travelers {
		v.Travelers = append(v.Travelers, TravelerForm{
			Number:    i + 1,
			FirstName: t.FirstName,
			LastName:  t.LastName,
			Email:     t.Email,
			Phone:     t.Phone,
		})
	}

	v.Price = PriceSummary{
		Total:        quote.Total,
		TotalDisplay: "$" + FormatMoney(quote.Total),
	}
	for _, line := range quote.Breakdown {
		display := "Included"
		if line.Amount > 0 {
			display = "$" + FormatMoney(line.Amount)
		}
		v.Price.Lines = append(v.Price.Lines, PriceLine{
			Item:    line.Item,
			Amount:  line.Amount,
			Display: display,
		})
	}

	return v
}

func (d *Draft) hasExtra(id string) bool {
	for _, e := range d.Extras {
		if e == id {
			return true
		}
	}
	return false
}

// FormatMoney renders an amount with thousands separators, dropping the
// decimals when the amount is whole: 450000 -> "450,000", 1250.5 ->
// "1,250.50".
func FormatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := sign + strings.Join(groups, ",")
	if hasFrac {
		if len(fracPart) == 1 {
			fracPart += "0"
		}
		out += "." + fracPart
	}
	return out
}
