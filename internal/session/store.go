// Package session reads and writes the three records the site keeps in
// browser-local storage: the login session flag, the registered voyager
// account with its booking history, and the guest booking list.
package session

import (
	"context"
	"encoding/json"

	"github.com/spacevoyager/bookings/internal/domain"
	"github.com/spacevoyager/bookings/internal/kv"
	"github.com/spacevoyager/bookings/pkg/logger"
)

// Two separate identity keys exist on purpose: KeySession is the "is a
// session active" flag the login page writes, KeyUser is the full account
// record the booking page reads. They are logically the same identity,
// but stored data depends on both keys existing separately. Callers
// must not merge them. TODO: collapse into one record once a migration for
// existing stored users is written.
const (
	KeySession       = "userSession"
	KeyUser          = "spaceVoyagerUser"
	KeyGuestBookings = "guestBookings"
)

type Store struct {
	kv kv.Store
}

func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// Session returns the active login session, or nil when the key is absent
// or holds something unreadable. A broken read degrades to "logged out",
// never to an error.
func (s *Store) Session(ctx context.Context) *domain.Session {
	raw, err := s.kv.Get(ctx, KeySession)
	if err != nil {
		if err != kv.ErrNotFound {
			logger.WarnContext(ctx, "session read failed", "error", err)
		}
		return nil
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		logger.WarnContext(ctx, "session record is malformed, treating as logged out", "error", err)
		return nil
	}
	return &sess
}

func (s *Store) SetSession(ctx context.Context, sess domain.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, KeySession, raw)
}

func (s *Store) ClearSession(ctx context.Context) error {
	return s.kv.Remove(ctx, KeySession)
}

// User returns the registered account, nil when absent or unreadable.
func (s *Store) User(ctx context.Context) *domain.User {
	raw, err := s.kv.Get(ctx, KeyUser)
	if err != nil {
		if err != kv.ErrNotFound {
			logger.WarnContext(ctx, "user read failed", "error", err)
		}
		return nil
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		logger.WarnContext(ctx, "user record is malformed, treating as guest", "error", err)
		return nil
	}
	return &user
}

func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyUser, raw)
}

// GuestBookings returns the guest list, empty when absent or unreadable.
func (s *Store) GuestBookings(ctx context.Context) []domain.Booking {
	raw, err := s.kv.Get(ctx, KeyGuestBookings)
	if err != nil {
		if err != kv.ErrNotFound {
			logger.WarnContext(ctx, "guest bookings read failed", "error", err)
		}
		return nil
	}

	var bookings []domain.Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		logger.WarnContext(ctx, "guest booking list is malformed, treating as empty", "error", err)
		return nil
	}
	return bookings
}

// AppendGuestBooking creates the guest list lazily on first use.
func (s *Store) AppendGuestBooking(ctx context.Context, booking domain.Booking) error {
	bookings := append(s.GuestBookings(ctx), booking)
	raw, err := json.Marshal(bookings)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyGuestBookings, raw)
}

// FindBooking looks a booking up by id, checking the registered account's
// history first and the guest list second.
func (s *Store) FindBooking(ctx context.Context, id string) *domain.Booking {
	if user := s.User(ctx); user != nil {
		for i := range user.Bookings {
			if user.Bookings[i].ID == id {
				return &user.Bookings[i]
			}
		}
	}
	for _, b := range s.GuestBookings(ctx) {
		if b.ID == id {
			booking := b
			return &booking
		}
	}
	return nil
}
