package model

import "time"

// TestimonialStatus is the moderation state of a testimonial.
type TestimonialStatus string

const (
	TestimonialPending  TestimonialStatus = "pending"
	TestimonialApproved TestimonialStatus = "approved"
	TestimonialRejected TestimonialStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s TestimonialStatus) Valid() bool {
	switch s {
	case TestimonialPending, TestimonialApproved, TestimonialRejected:
		return true
	}
	return false
}

// Testimonial is a student review awaiting moderation before public display.
type Testimonial struct {
	ID             int               `json:"id"`
	StudentName    string            `json:"student_name"`
	Email          string            `json:"email,omitempty"`
	ClassType      string            `json:"class_type"`
	Rating         int               `json:"rating"`
	Content        string            `json:"content"`
	VideoURL       string            `json:"video_url,omitempty"`
	PhotoURL       string            `json:"photo_url,omitempty"`
	Status         TestimonialStatus `json:"status"`
	Featured       bool              `json:"featured"`
	InstructorID   *int              `json:"instructor_id,omitempty"`
	ReviewLinkID   *int              `json:"review_link_id,omitempty"`
	GoogleReviewID *string           `json:"google_review_id,omitempty"`
	RejectReason   string            `json:"reject_reason,omitempty"`
	PublishedAt    *time.Time        `json:"published_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Public strips fields that must not leave the admin API.
func (t Testimonial) Public() Testimonial {
	t.Email = ""
	t.RejectReason = ""
	return t
}

// SubmitTestimonialRequest is the public testimonial form.
type SubmitTestimonialRequest struct {
	StudentName  string `json:"student_name" binding:"required,min=2,max=100"`
	Email        string `json:"email" binding:"required,email,max=254"`
	ClassType    string `json:"class_type" binding:"required,min=2,max=50"`
	Rating       int    `json:"rating" binding:"required,min=1,max=5"`
	Content      string `json:"content" binding:"required,min=10,max=1000"`
	VideoURL     string `json:"video_url" binding:"omitempty,url,max=500"`
	PhotoURL     string `json:"photo_url" binding:"omitempty,url,max=500"`
	InstructorID *int   `json:"instructor_id" binding:"omitempty,min=1"`
	ReviewToken  string `json:"review_token" binding:"omitempty,max=64"`
}

// RejectTestimonialRequest optionally records why a testimonial was rejected.
type RejectTestimonialRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// FeatureTestimonialRequest toggles the featured flag.
type FeatureTestimonialRequest struct {
	Featured bool `json:"featured"`
}

// TestimonialFilter narrows testimonial listings.
type TestimonialFilter struct {
	Status    TestimonialStatus
	MinRating int
	ClassType string
	Limit     int
	Offset    int
}

// TestimonialStats summarises approved testimonials.
type TestimonialStats struct {
	AverageRating float64     `json:"average_rating"`
	TotalApproved int         `json:"total_approved"`
	ByRating      map[int]int `json:"by_rating"`
}
