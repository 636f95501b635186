package models

// Service is a public catalog entry. Created and edited by the admin panel;
// strictly read-only from this service's perspective.
type Service struct {
	ID          int64         `json:"id"`
	Title       LocalizedText `json:"title"`
	Description LocalizedText `json:"description"`
	Overview    LocalizedText `json:"overview,omitempty"`
	Pricing     LocalizedText `json:"pricing,omitempty"`
	Documents   LocalizedText `json:"documents,omitempty"`
	Timeline    LocalizedText `json:"timeline,omitempty"`
	Phone       string        `json:"phone,omitempty"`
	WhatsApp    string        `json:"whatsapp,omitempty"`
	IsActive    bool          `json:"is_active"`
}

// DayOfWeek is one of the seven lowercase day names used on the wire.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// Valid reports whether d is one of the seven enumerated values.
func (d DayOfWeek) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// WeeklySchedule is one recurring availability window for a service.
// Start and end are same-day wall-clock times in "HH:MM:SS" form, start < end.
type WeeklySchedule struct {
	ID        int64     `json:"id"`
	ServiceID int64     `json:"service_id"`
	DayOfWeek DayOfWeek `json:"day_of_week"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	IsActive  bool      `json:"is_active"`
}

// Overlaps reports whether two windows on the same day share any time.
// Zero-padded "HH:MM:SS" strings order correctly under lexicographic compare.
func (s WeeklySchedule) Overlaps(other WeeklySchedule) bool {
	if s.DayOfWeek != other.DayOfWeek {
		return false
	}
	return s.StartTime < other.EndTime && other.StartTime < s.EndTime
}

// AvailableSlot is a concrete bookable unit for one service on one requested
// date. It is a snapshot, not a reservation: the backend may hand the same
// slot to a faster submitter.
type AvailableSlot struct {
	Time string `json:"time"` // "HH:MM:SS"
}
