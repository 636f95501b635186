package validation_test

import (
	"testing"
	"time"

	"github.com/cidcomitra/mitra-api/internal/models"
	"github.com/cidcomitra/mitra-api/internal/validation"
	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"simple name", "Jane Doe", true},
		{"two characters", "Jo", true},
		{"padded two characters", "  Jo  ", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"single character", "J", false},
		{"single character padded", " J ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validation.Name(tt.input)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"short valid", "a@b.co", true},
		{"typical", "jane@example.com", true},
		{"subdomain", "jane@mail.example.co.in", true},
		{"no dot in domain", "a@b", false},
		{"whitespace in local part", "a b@c.com", false},
		{"missing at", "jane.example.com", false},
		{"two ats", "a@b@c.com", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validation.Email(tt.input)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"ten digits", "9876543210", true},
		{"with country code and spaces", "+91 98765 43210", true},
		{"with hyphens", "98765-43210", true},
		{"fifteen digits", "123456789012345", true},
		{"plus and fifteen digits", "+123456789012345", true},
		{"too short", "12345", false},
		{"sixteen digits", "1234567890123456", false},
		{"letters", "98765abcde", false},
		{"plus in the middle", "98765+43210", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validation.Phone(tt.input)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestOptionalPhone(t *testing.T) {
	assert.Empty(t, validation.OptionalPhone(""))
	assert.Empty(t, validation.OptionalPhone("+91 98765 43210"))
	assert.NotEmpty(t, validation.OptionalPhone("12345"))
}

func TestMessage(t *testing.T) {
	assert.Empty(t, validation.Message("I need help with my plot transfer"))
	assert.Empty(t, validation.Message("1234567890"))
	assert.NotEmpty(t, validation.Message(""))
	assert.NotEmpty(t, validation.Message("too short"))
	assert.NotEmpty(t, validation.Message("  padding does not count   "))
}

func TestFutureDate(t *testing.T) {
	now := time.Date(2025, time.March, 10, 15, 30, 0, 0, time.Local)

	assert.Empty(t, validation.FutureDate("2025-03-11", now))
	assert.Empty(t, validation.FutureDate("2025-04-01", now))

	assert.NotEmpty(t, validation.FutureDate("2025-03-10", now), "today is not a future date")
	assert.NotEmpty(t, validation.FutureDate("2025-03-09", now))
	assert.NotEmpty(t, validation.FutureDate("", now))
	assert.NotEmpty(t, validation.FutureDate("not-a-date", now))
	assert.NotEmpty(t, validation.FutureDate("2025-13-40", now))
}

func TestSlotTime(t *testing.T) {
	slots := []models.AvailableSlot{{Time: "10:00:00"}, {Time: "10:30:00"}}

	assert.Empty(t, validation.SlotTime("10:00:00", slots))
	assert.NotEmpty(t, validation.SlotTime("", slots))
	assert.NotEmpty(t, validation.SlotTime("11:00:00", slots), "unlisted time must fail locally")
	assert.NotEmpty(t, validation.SlotTime("10:00:00", nil), "empty snapshot accepts nothing")
}

func TestBookingFields(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)

	t.Run("never reports the time field", func(t *testing.T) {
		req := &models.BookingRequest{
			ServiceID:       42,
			Name:            "Jane Doe",
			Email:           "jane@example.com",
			Phone:           "9876543210",
			AppointmentDate: "2025-03-11",
		}
		assert.Empty(t, validation.BookingFields(req, now))
	})

	t.Run("past date rejected without a snapshot", func(t *testing.T) {
		req := &models.BookingRequest{
			ServiceID:       42,
			Name:            "Jane Doe",
			Email:           "jane@example.com",
			Phone:           "9876543210",
			AppointmentDate: "2020-01-01",
			AppointmentTime: "10:00:00",
		}
		errs := validation.BookingFields(req, now)
		assert.Len(t, errs, 1)
		assert.Contains(t, errs, "appointment_date")
	})
}

func TestBookingRequest(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)
	slots := []models.AvailableSlot{{Time: "10:00:00"}}

	t.Run("fully valid", func(t *testing.T) {
		req := &models.BookingRequest{
			ServiceID:       42,
			Name:            "Jane Doe",
			Email:           "jane@example.com",
			Phone:           "9876543210",
			AppointmentDate: "2025-03-11",
			AppointmentTime: "10:00:00",
		}
		assert.Empty(t, validation.BookingRequest(req, slots, now))
	})

	t.Run("all fields invalid simultaneously", func(t *testing.T) {
		req := &models.BookingRequest{}
		errs := validation.BookingRequest(req, slots, now)
		assert.Contains(t, errs, "service_id")
		assert.Contains(t, errs, "name")
		assert.Contains(t, errs, "email")
		assert.Contains(t, errs, "phone")
		assert.Contains(t, errs, "appointment_date")
	})

	t.Run("time not in snapshot", func(t *testing.T) {
		req := &models.BookingRequest{
			ServiceID:       42,
			Name:            "Jane Doe",
			Email:           "jane@example.com",
			Phone:           "9876543210",
			AppointmentDate: "2025-03-11",
			AppointmentTime: "17:00:00",
		}
		errs := validation.BookingRequest(req, slots, now)
		assert.Len(t, errs, 1)
		assert.Contains(t, errs, "appointment_time")
	})

	t.Run("message is optional", func(t *testing.T) {
		req := &models.BookingRequest{
			ServiceID:       42,
			Name:            "Jane Doe",
			Email:           "jane@example.com",
			Phone:           "9876543210",
			AppointmentDate: "2025-03-11",
			AppointmentTime: "10:00:00",
			Message:         "",
		}
		assert.Empty(t, validation.BookingRequest(req, slots, now))
	})
}

func TestContactMessage(t *testing.T) {
	t.Run("valid without phone", func(t *testing.T) {
		msg := &models.ContactMessage{
			Name:    "Jane Doe",
			Email:   "jane@example.com",
			Message: "I would like to know more about plot allotments.",
		}
		assert.Empty(t, validation.ContactMessage(msg))
	})

	t.Run("invalid phone when present", func(t *testing.T) {
		msg := &models.ContactMessage{
			Name:    "Jane Doe",
			Email:   "jane@example.com",
			Phone:   "12345",
			Message: "I would like to know more about plot allotments.",
		}
		errs := validation.ContactMessage(msg)
		assert.Len(t, errs, 1)
		assert.Contains(t, errs, "phone")
	})

	t.Run("short message", func(t *testing.T) {
		msg := &models.ContactMessage{
			Name:    "Jane Doe",
			Email:   "jane@example.com",
			Message: "hi",
		}
		assert.Contains(t, validation.ContactMessage(msg), "message")
	})
}
