package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/spacevoyager/bookings/internal/domain"
	"github.com/spacevoyager/bookings/internal/platform/mailer"
	"github.com/spacevoyager/bookings/internal/session"
	"github.com/spacevoyager/bookings/internal/validate"
	"github.com/spacevoyager/bookings/pkg/events"
	"github.com/spacevoyager/bookings/pkg/logger"
)

type Outcome string

const (
	// OutcomeConfirmed: the booking was persisted and the caller should
	// follow Redirect to the confirmation page.
	OutcomeConfirmed Outcome = "confirmed"
	// OutcomeInvalid: full-form validation failed; nothing was persisted.
	OutcomeInvalid Outcome = "invalid"
	// OutcomeGuestPromptRequired: no account is present and the caller has
	// not yet answered the continue-as-guest prompt.
	OutcomeGuestPromptRequired Outcome = "guest_prompt_required"
	// OutcomeLoginRedirect: the guest prompt was declined; nothing was
	// persisted and the caller should go to the login page.
	OutcomeLoginRedirect Outcome = "login_redirect"
)

const (
	submitAlert = "Please fix the validation errors before submitting."
	guestPrompt = "Would you like to continue as guest? Your booking will be saved but you won't be able to access it later without an account."
)

type SubmitResult struct {
	Outcome  Outcome
	Booking  *domain.Booking
	Redirect string
	Alert    string
	Prompt   string
	Errors   []validate.FieldError
}

// Service runs the submission flow: validation gate, record assembly,
// persistence into the account or guest list, then the notification side
// effects.
type Service struct {
	manager *Manager
	store   *session.Store
	bus     events.Publisher
	mail    mailer.Service
	now     func() time.Time
}

func NewService(manager *Manager, store *session.Store, bus events.Publisher, mail mailer.Service) *Service {
	return &Service{
		manager: manager,
		store:   store,
		bus:     bus,
		mail:    mail,
		now:     time.Now,
	}
}

// Submit finalizes a draft. continueAsGuest is the caller's answer to the
// guest prompt: nil means not asked yet, false declines, true accepts.
func (s *Service) Submit(ctx context.Context, draftID string, continueAsGuest *bool) (*SubmitResult, error) {
	errs, err := s.manager.ValidateAll(draftID)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return &SubmitResult{Outcome: OutcomeInvalid, Alert: submitAlert, Errors: errs}, nil
	}

	draft, quote, err := s.manager.Snapshot(draftID)
	if err != nil {
		return nil, err
	}

	createdAt := s.now()
	booking := domain.Booking{
		ID:            domain.NewBookingID(createdAt),
		Destination:   draft.DestinationID,
		Package:       draft.PackageID,
		DepartureDate: draft.DepartureDate,
		Passengers:    draft.Passengers(),
		Accommodation: draft.Accommodation,
		SuitSize:      draft.SuitSize,
		Extras:        append([]string{}, draft.Extras...),
		Travelers:     draft.Travelers,
		Total:         quote.Total,
		Breakdown:     quote.Breakdown,
		CreatedAt:     createdAt,
		Status:        domain.BookingConfirmed,
	}

	user := s.store.User(ctx)
	guest := user == nil
	switch {
	case user != nil:
		user.Bookings = append(user.Bookings, booking)
		if err := s.store.SaveUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to save booking to account: %w", err)
		}
	case continueAsGuest == nil:
		return &SubmitResult{Outcome: OutcomeGuestPromptRequired, Prompt: guestPrompt}, nil
	case !*continueAsGuest:
		return &SubmitResult{
			Outcome:  OutcomeLoginRedirect,
			Redirect: "login.html?redirect=booking",
		}, nil
	default:
		if err := s.store.AppendGuestBooking(ctx, booking); err != nil {
			return nil, fmt.Errorf("failed to save guest booking: %w", err)
		}
	}

	s.notify(ctx, user, &booking, guest)
	s.manager.Discard(draftID)

	return &SubmitResult{
		Outcome:  OutcomeConfirmed,
		Booking:  &booking,
		Redirect: "booking-confirmation.html?id=" + booking.ID,
	}, nil
}

// notify publishes the created event and sends the confirmation email.
// Both are best-effort: a booking that persisted is confirmed even when
// the broker or mailer is down.
func (s *Service) notify(ctx context.Context, user *domain.User, booking *domain.Booking, guest bool) {
	email, name := "", ""
	if user != nil {
		email, name = user.Email, user.Name
	} else if len(booking.Travelers) > 0 {
		email, name = booking.Travelers[0].Email, booking.Travelers[0].FirstName
	}

	event := events.BookingCreatedEvent{
		BookingID:     booking.ID,
		Email:         email,
		Guest:         guest,
		Destination:   booking.Destination,
		Package:       booking.Package,
		DepartureDate: booking.DepartureDate,
		Passengers:    booking.Passengers,
		Accommodation: string(booking.Accommodation),
		Total:         booking.Total,
		CreatedAt:     booking.CreatedAt,
	}
	if err := s.bus.Publish(ctx, events.BookingCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking created event", "error", err, "booking_id", booking.ID)
	}

	if email != "" {
		if err := s.mail.SendBookingConfirmation(email, name, booking); err != nil {
			logger.ErrorContext(ctx, "Failed to send booking confirmation email", "error", err, "booking_id", booking.ID)
		}
	}
}
