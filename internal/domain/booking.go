package domain

import (
	"fmt"
	"time"
)

type Accommodation string

const (
	AccommodationStandard Accommodation = "standard"
	AccommodationLuxury   Accommodation = "luxury"
	AccommodationZeroG    Accommodation = "zero-g"
)

func ParseAccommodation(s string) (Accommodation, bool) {
	switch Accommodation(s) {
	case AccommodationStandard, AccommodationLuxury, AccommodationZeroG:
		return Accommodation(s), true
	default:
		return "", false
	}
}

// Multiplier is the factor an accommodation tier applies to the subtotal.
func (a Accommodation) Multiplier() float64 {
	switch a {
	case AccommodationLuxury:
		return 1.5
	case AccommodationZeroG:
		return 2
	default:
		return 1
	}
}

type BookingStatus string

const BookingConfirmed BookingStatus = "confirmed"

// Line is one priced row of a quote breakdown. Amount 0 renders as
// "Included" rather than a price.
type Line struct {
	Item   string  `json:"item"`
	Amount float64 `json:"amount"`
}

type Quote struct {
	Total     float64 `json:"total"`
	Breakdown []Line  `json:"breakdown"`
}

type Traveler struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Booking is the persisted record of a submitted booking. Records are
// append-only: once written they are never mutated or deleted.
type Booking struct {
	ID            string        `json:"id"`
	Destination   string        `json:"destination"`
	Package       string        `json:"package"`
	DepartureDate string        `json:"departureDate"`
	Passengers    int           `json:"passengers"`
	Accommodation Accommodation `json:"accommodation"`
	SuitSize      string        `json:"suitSize,omitempty"`
	Extras        []string      `json:"extras"`
	Travelers     []Traveler    `json:"travelers"`
	Total         float64       `json:"total"`
	Breakdown     []Line        `json:"breakdown"`
	CreatedAt     time.Time     `json:"date"`
	Status        BookingStatus `json:"status"`
}

// NewBookingID derives a booking id from the submission time, the same
// "BK"+milliseconds scheme confirmation pages link by.
func NewBookingID(at time.Time) string {
	return fmt.Sprintf("BK%d", at.UnixMilli())
}
