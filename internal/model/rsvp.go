package model

import "time"

// RSVPSubmission is a sign-up for a class or Facebook event.
type RSVPSubmission struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	ClassID         *int      `json:"class_id,omitempty"`
	FacebookEventID *int      `json:"facebook_event_id,omitempty"`
	Guests          int       `json:"guests"`
	CreatedAt       time.Time `json:"created_at"`
}

// RSVPRequest is the JSON body of the RSVP endpoint.
type RSVPRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=100"`
	Email           string `json:"email" binding:"required,email,max=254"`
	Phone           string `json:"phone" binding:"omitempty,min=7,max=20"`
	ClassID         *int   `json:"class_id" binding:"omitempty,min=1"`
	FacebookEventID *int   `json:"facebook_event_id" binding:"omitempty,min=1"`
	Guests          int    `json:"guests" binding:"min=0,max=5"`
}
