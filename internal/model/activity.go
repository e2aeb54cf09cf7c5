package model

import "time"

// ActivityEvent is pushed to the admin live feed when something happens on the site.
type ActivityEvent struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	At      time.Time   `json:"at"`
}

// Activity event types.
const (
	ActivityTestimonialSubmitted = "testimonial.submitted"
	ActivityTestimonialModerated = "testimonial.moderated"
	ActivityContactSubmitted     = "contact.submitted"
	ActivityBookingCreated       = "booking.created"
	ActivityBookingUpdated       = "booking.updated"
	ActivityRSVPSubmitted        = "rsvp.submitted"
	ActivitySyncCompleted        = "sync.completed"
)
