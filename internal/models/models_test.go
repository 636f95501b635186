package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalizedText_Resolve(t *testing.T) {
	text := LocalizedText{"en": "Plot Transfer", "mr": "भूखंड हस्तांतरण"}

	assert.Equal(t, "भूखंड हस्तांतरण", text.Resolve("mr"))
	assert.Equal(t, "Plot Transfer", text.Resolve("en"))

	// Missing translation falls back to English, not to an empty string.
	assert.Equal(t, "Plot Transfer", text.Resolve("hi"))

	// Empty translation is treated as missing.
	assert.Equal(t, "Plot Transfer", LocalizedText{"en": "Plot Transfer", "mr": ""}.Resolve("mr"))

	// No English either: lowest language code wins, deterministically.
	assert.Equal(t, "हिंदी", LocalizedText{"mr": "मराठी", "hi": "हिंदी"}.Resolve("fr"))

	assert.Equal(t, "", LocalizedText{}.Resolve("en"))
	assert.Equal(t, "", LocalizedText(nil).Resolve("en"))
}

func TestLocalizedText_IsEmpty(t *testing.T) {
	assert.True(t, LocalizedText{}.IsEmpty())
	assert.True(t, LocalizedText{"en": ""}.IsEmpty())
	assert.False(t, LocalizedText{"mr": "मजकूर"}.IsEmpty())
}

func TestDayOfWeek_Valid(t *testing.T) {
	assert.True(t, Monday.Valid())
	assert.True(t, Sunday.Valid())
	assert.False(t, DayOfWeek("funday").Valid())
	assert.False(t, DayOfWeek("Monday").Valid(), "day names are lowercase on the wire")
}

func TestWeeklySchedule_Overlaps(t *testing.T) {
	base := WeeklySchedule{DayOfWeek: Monday, StartTime: "09:00:00", EndTime: "12:00:00"}

	assert.True(t, base.Overlaps(WeeklySchedule{DayOfWeek: Monday, StartTime: "11:00:00", EndTime: "14:00:00"}))
	assert.True(t, base.Overlaps(WeeklySchedule{DayOfWeek: Monday, StartTime: "08:00:00", EndTime: "09:30:00"}))

	// Touching windows do not overlap.
	assert.False(t, base.Overlaps(WeeklySchedule{DayOfWeek: Monday, StartTime: "12:00:00", EndTime: "15:00:00"}))
	// Same times on another day never overlap.
	assert.False(t, base.Overlaps(WeeklySchedule{DayOfWeek: Tuesday, StartTime: "09:00:00", EndTime: "12:00:00"}))
}
