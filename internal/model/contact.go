package model

import "time"

type ContactInterest string

const (
	InterestClasses        ContactInterest = "classes"
	InterestPrivateLessons ContactInterest = "private_lessons"
	InterestEvents         ContactInterest = "events"
	InterestOther          ContactInterest = "other"
)

type ContactStatus string

const (
	ContactNew       ContactStatus = "new"
	ContactContacted ContactStatus = "contacted"
	ContactConverted ContactStatus = "converted"
	ContactClosed    ContactStatus = "closed"
)

// ContactSubmission is a message sent through the contact form.
type ContactSubmission struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Interest   ContactInterest `json:"interest"`
	Message    string          `json:"message"`
	Status     ContactStatus   `json:"status"`
	AdminNotes string          `json:"admin_notes"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ContactRequest is the public contact form.
type ContactRequest struct {
	Name     string          `json:"name" binding:"required,min=2,max=100"`
	Email    string          `json:"email" binding:"required,email,max=254"`
	Phone    string          `json:"phone" binding:"omitempty,min=7,max=20"`
	Interest ContactInterest `json:"interest" binding:"required,oneof=classes private_lessons events other"`
	Message  string          `json:"message" binding:"required,min=10,max=2000"`
}

// UpdateContactRequest is the admin payload for triaging a submission.
type UpdateContactRequest struct {
	Status     ContactStatus `json:"status" binding:"required,oneof=new contacted converted closed"`
	AdminNotes string        `json:"admin_notes" binding:"max=2000"`
}
