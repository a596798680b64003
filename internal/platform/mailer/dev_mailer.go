package mailer

import (
	"github.com/spacevoyager/bookings/internal/domain"
	"github.com/spacevoyager/bookings/pkg/logger"
)

// DevMailer prints emails to the log instead of sending them.
type DevMailer struct{}

func NewDevMailer() *DevMailer { return &DevMailer{} }

func (*DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("dev mailer: email not sent",
		"to", toEmail,
		"subject", subject,
		"text", text,
	)
	return "dev", nil
}

func (d *DevMailer) SendBookingConfirmation(toEmail, toName string, booking *domain.Booking) error {
	logger.Info("dev mailer: booking confirmation not sent",
		"to", toEmail,
		"booking_id", booking.ID,
		"total", booking.Total,
	)
	return nil
}
