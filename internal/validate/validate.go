// Package validate holds the per-field checks behind the booking and login
// forms. Checks are synchronous and side-effect free; callers decide how to
// surface the returned messages.
package validate

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

const (
	MsgRequired      = "This field is required"
	MsgEmail         = "Please enter a valid email address"
	MsgPhone         = "Please enter a valid phone number"
	MsgDatePast      = "Departure date must be in the future"
	MsgDateFar       = "Departure date must be within 30 days"
	MsgLoginEmail    = "Invalid email format: example@domain.com"
	MsgLoginPassword = "Password must be at least 8 characters with an uppercase letter, a lowercase letter and a digit"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe      = regexp.MustCompile(`^\+?[1-9][0-9]{0,15}$`)
	loginEmailRe = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w{2,}$`)
	phoneNoise   = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

func Email(value string) bool {
	return emailRe.MatchString(value)
}

// NormalizePhone strips the spaces, hyphens and parentheses users type into
// phone fields. Other characters are left alone so they still fail Phone.
func NormalizePhone(value string) string {
	return phoneNoise.Replace(value)
}

func Phone(value string) bool {
	return phoneRe.MatchString(NormalizePhone(value))
}

// DepartureDate accepts a YYYY-MM-DD date between today and 30 days out,
// inclusive on both ends. The bound that failed picks the message.
func DepartureDate(value string, now time.Time) (bool, string) {
	d, err := time.ParseInLocation("2006-01-02", value, now.Location())
	if err != nil {
		return false, MsgDatePast
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return false, MsgDatePast
	}
	if d.After(today.AddDate(0, 0, 30)) {
		return false, MsgDateFar
	}
	return true, ""
}

// LoginEmail is the stricter pattern used on the login page.
func LoginEmail(value string) bool {
	return loginEmailRe.MatchString(strings.TrimSpace(value))
}

// LoginPassword requires at least 8 characters with one lowercase letter,
// one uppercase letter and one digit.
func LoginPassword(value string) bool {
	if len(value) < 8 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range value {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}
