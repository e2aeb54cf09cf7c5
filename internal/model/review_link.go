package model

import "time"

// ReviewLink is a tokenized URL that pre-fills and attributes testimonial submissions.
type ReviewLink struct {
	ID              int        `json:"id"`
	Token           string     `json:"token"`
	CampaignName    string     `json:"campaign_name"`
	InstructorID    *int       `json:"instructor_id,omitempty"`
	InstructorName  string     `json:"instructor_name,omitempty"`
	ClassType       string     `json:"class_type"`
	IsActive        bool       `json:"is_active"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	ClickCount      int        `json:"click_count"`
	ConversionCount int        `json:"conversion_count"`
	URL             string     `json:"url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Usable reports whether the link can still attribute submissions at t.
func (l *ReviewLink) Usable(t time.Time) bool {
	if !l.IsActive {
		return false
	}
	return l.ExpiresAt == nil || t.Before(*l.ExpiresAt)
}

// CreateReviewLinkRequest is the payload for generating a review link.
type CreateReviewLinkRequest struct {
	CampaignName  string `json:"campaign_name" binding:"required,min=2,max=100"`
	InstructorID  *int   `json:"instructor_id" binding:"omitempty,min=1"`
	ClassType     string `json:"class_type" binding:"omitempty,max=50"`
	ExpiresInDays int    `json:"expires_in_days" binding:"omitempty,min=1,max=365"`
}

// ReviewLinkPrefill is returned to the testimonial form when a link is opened.
type ReviewLinkPrefill struct {
	Token          string `json:"token"`
	CampaignName   string `json:"campaign_name"`
	ClassType      string `json:"class_type"`
	InstructorID   *int   `json:"instructor_id,omitempty"`
	InstructorName string `json:"instructor_name,omitempty"`
}
