package domain

// Catalog is the static reference data behind the booking form: the
// bookable destinations with their packages, and the optional extras.
// It is loaded once per process and never mutated afterwards.
type Catalog struct {
	Destinations []Destination `json:"destinations"`
	Extras       []Extra       `json:"extras"`
}

type Destination struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BasePrice float64   `json:"basePrice"`
	Packages  []Package `json:"packages"`
}

// Package is a trip variant under a destination. Price is a delta over the
// destination base price, not an absolute amount.
type Package struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	RequiresSuitSize bool    `json:"requiresSuitSize"`
}

type Extra struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

func (c *Catalog) DestinationByID(id string) *Destination {
	if c == nil || id == "" {
		return nil
	}
	for i := range c.Destinations {
		if c.Destinations[i].ID == id {
			return &c.Destinations[i]
		}
	}
	return nil
}

func (c *Catalog) ExtraByID(id string) *Extra {
	if c == nil || id == "" {
		return nil
	}
	for i := range c.Extras {
		if c.Extras[i].ID == id {
			return &c.Extras[i]
		}
	}
	return nil
}

func (d *Destination) PackageByID(id string) *Package {
	if d == nil || id == "" {
		return nil
	}
	for i := range d.Packages {
		if d.Packages[i].ID == id {
			return &d.Packages[i]
		}
	}
	return nil
}
