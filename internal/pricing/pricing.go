// Package pricing computes booking quotes. Calculate is pure: the same
// catalog and selection always produce the same quote, and nothing here
// touches stored state.
package pricing

import (
	"fmt"

	"github.com/spacevoyager/bookings/internal/domain"
)

// Selection is the subset of a booking draft that affects price.
type Selection struct {
	DestinationID string
	PackageID     string
	Accommodation domain.Accommodation
	Passengers    int
	ExtraIDs      []string // insertion order of selection
}

// Calculate prices a selection against the catalog.
//
// The luxury and zero-g breakdown lines are informational: they show the
// upgrade cost relative to the base price but are NOT added into Total.
// Only the tier multiplier moves the total. That asymmetry is inherited
// behavior that confirmation pages and historical records depend on, so it
// is kept as-is.
func Calculate(c *domain.Catalog, sel Selection) domain.Quote {
	var total float64
	breakdown := []domain.Line{}

	dest := c.DestinationByID(sel.DestinationID)
	if dest != nil {
		total += dest.BasePrice
		breakdown = append(breakdown, domain.Line{Item: dest.Name, Amount: dest.BasePrice})

		if pkg := dest.PackageByID(sel.PackageID); pkg != nil {
			total += pkg.Price
			if pkg.Price > 0 {
				breakdown = append(breakdown, domain.Line{Item: pkg.Name, Amount: pkg.Price})
			}
		}
	}

	switch sel.Accommodation {
	case domain.AccommodationLuxury:
		line := domain.Line{Item: "Luxury Suite Upgrade"}
		if dest != nil {
			line.Amount = dest.BasePrice * 0.5
		}
		breakdown = append(breakdown, line)
	case domain.AccommodationZeroG:
		line := domain.Line{Item: "Zero-G Pod Upgrade"}
		if dest != nil {
			line.Amount = dest.BasePrice
		}
		breakdown = append(breakdown, line)
	}
	total *= sel.Accommodation.Multiplier()

	passengers := sel.Passengers
	if passengers < 1 {
		passengers = 1
	}
	total *= float64(passengers)
	if passengers > 1 {
		breakdown = append(breakdown, domain.Line{
			Item: fmt.Sprintf("%d passengers", passengers),
		})
	}

	for _, id := range sel.ExtraIDs {
		extra := c.ExtraByID(id)
		if extra == nil {
			continue
		}
		amount := extra.Price * float64(passengers)
		total += amount
		breakdown = append(breakdown, domain.Line{
			Item:   fmt.Sprintf("%s (x%d)", extra.Name, passengers),
			Amount: amount,
		})
	}

	return domain.Quote{Total: total, Breakdown: breakdown}
}
