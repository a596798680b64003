package domain

import "time"

// Session is the lightweight "a login happened" flag written by the login
// form. It lives under a different storage key than User; see the session
// store for why both exist.
type Session struct {
	Email      string `json:"email"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}

// User is a registered voyager account with its booking history attached.
type User struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Bookings     []Booking `json:"bookings"`
	CreatedAt    time.Time `json:"createdAt"`
}
