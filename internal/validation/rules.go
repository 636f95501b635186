// Package validation holds the form rules shared by the booking and contact
// flows. Every function is a pure function of its arguments; rules are
// independent and re-evaluated from scratch on each pass.
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/cidcomitra/mitra-api/internal/models"
)

const (
	// DateLayout is the calendar date format used on the wire.
	DateLayout = "2006-01-02"
	// TimeLayout is the wall-clock slot format used on the wire.
	TimeLayout = "15:04:05"

	minNameLength    = 2
	minMessageLength = 10
)

var (
	// No whitespace, exactly one @-separated split, dotted domain.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Applied after stripping spaces and hyphens.
	phonePattern    = regexp.MustCompile(`^[+]?[0-9]{10,15}$`)
	phoneStripChars = strings.NewReplacer(" ", "", "-", "")
)

// Name reports the error message for an invalid customer name, or "".
func Name(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "Full name is required"
	}
	if len([]rune(trimmed)) < minNameLength {
		return "Name must be at least 2 characters"
	}
	return ""
}

// Email reports the error message for an invalid email address, or "".
func Email(email string) string {
	if strings.TrimSpace(email) == "" {
		return "Email is required"
	}
	if !emailPattern.MatchString(email) {
		return "Please enter a valid email address"
	}
	return ""
}

// Phone reports the error message for an invalid phone number, or "".
// Spaces and hyphens are presentation; they are stripped before matching.
func Phone(phone string) string {
	if strings.TrimSpace(phone) == "" {
		return "Phone number is required"
	}
	if !phonePattern.MatchString(phoneStripChars.Replace(phone)) {
		return "Please enter a valid phone number (10-15 digits)"
	}
	return ""
}

// OptionalPhone is Phone for forms where the field may be left blank.
func OptionalPhone(phone string) string {
	if strings.TrimSpace(phone) == "" {
		return ""
	}
	if !phonePattern.MatchString(phoneStripChars.Replace(phone)) {
		return "Please enter a valid phone number"
	}
	return ""
}

// Message reports the error message for an invalid inquiry body, or "".
func Message(message string) string {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "Message is required"
	}
	if len([]rune(trimmed)) < minMessageLength {
		return "Message must be at least 10 characters"
	}
	return ""
}

// FutureDate reports the error message unless date is a valid calendar date
// strictly later than "today" in now's location.
func FutureDate(date string, now time.Time) string {
	if date == "" {
		return "Please select a date"
	}
	parsed, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return "Please select a valid date"
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !parsed.After(today) {
		return "Please select a future date"
	}
	return ""
}

// SlotTime reports the error message unless t matches a start time in the
// latest slot snapshot. A stale or unlisted time is a local failure; the
// backend never sees it.
func SlotTime(t string, slots []models.AvailableSlot) string {
	if t == "" {
		return "Please select a time slot"
	}
	for _, slot := range slots {
		if slot.Time == t {
			return ""
		}
	}
	return "Selected time slot is no longer available, please pick another"
}

// BookingFields validates the parts of a booking that need no slot
// snapshot: identity fields and the future-date rule. Callers run this
// before issuing any availability query, so a locally invalid submission
// never reaches the network.
func BookingFields(req *models.BookingRequest, now time.Time) map[string]string {
	errs := make(map[string]string)

	if req.ServiceID <= 0 {
		errs["service_id"] = "Service is required"
	}
	if msg := Name(req.Name); msg != "" {
		errs["name"] = msg
	}
	if msg := Email(req.Email); msg != "" {
		errs["email"] = msg
	}
	if msg := Phone(req.Phone); msg != "" {
		errs["phone"] = msg
	}
	if msg := FutureDate(req.AppointmentDate, now); msg != "" {
		errs["appointment_date"] = msg
	}

	return errs
}

// BookingRequest validates a full booking submission against the latest slot
// snapshot for its date. Returns a field-keyed error map; empty means
// submittable. The time is only judged once the date itself is valid.
func BookingRequest(req *models.BookingRequest, slots []models.AvailableSlot, now time.Time) map[string]string {
	errs := BookingFields(req, now)

	if _, badDate := errs["appointment_date"]; !badDate {
		if msg := SlotTime(req.AppointmentTime, slots); msg != "" {
			errs["appointment_time"] = msg
		}
	}

	return errs
}

// ContactMessage validates a general-inquiry submission.
func ContactMessage(msg *models.ContactMessage) map[string]string {
	errs := make(map[string]string)

	if m := Name(msg.Name); m != "" {
		errs["name"] = m
	}
	if m := Email(msg.Email); m != "" {
		errs["email"] = m
	}
	if m := OptionalPhone(msg.Phone); m != "" {
		errs["phone"] = m
	}
	if m := Message(msg.Message); m != "" {
		errs["message"] = m
	}

	return errs
}
