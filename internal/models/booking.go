package models

// BookingRequest is the appointment submission sent to POST /appointments.
// Binding tags cover shape; the business rules (future date, time must come
// from the latest slot snapshot) live in internal/validation.
type BookingRequest struct {
	ServiceID       int64  `json:"service_id" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
	AppointmentDate string `json:"appointment_date" binding:"required"` // "YYYY-MM-DD"
	AppointmentTime string `json:"appointment_time" binding:"required"` // "HH:MM:SS"
	Message         string `json:"message"`
}

// BookingResponse is the acknowledgment returned after a booking attempt.
type BookingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
