package mailer

import "github.com/spacevoyager/bookings/internal/domain"

type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
	SendBookingConfirmation(toEmail, toName string, booking *domain.Booking) error
}
