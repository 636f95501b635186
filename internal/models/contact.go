package models

// ContactMessage is a general-inquiry submission. It shares the booking
// form's name/email/phone rules; phone is optional here.
type ContactMessage struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Message string `json:"message" binding:"required"`
}

// ContactResponse is the acknowledgment returned after a contact submission.
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
