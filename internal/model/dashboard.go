package model

import "time"

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	PendingTestimonials int     `json:"pending_testimonials"`
	NewContacts         int     `json:"new_contacts"`
	UpcomingBookings    int     `json:"upcoming_bookings"`
	AverageRating       float64 `json:"average_rating"`
	ActiveReviewLinks   int     `json:"active_review_links"`
}

// WeeklySummary is the data of the weekly summary email.
type WeeklySummary struct {
	From                 time.Time `json:"from"`
	To                   time.Time `json:"to"`
	NewTestimonials      int       `json:"new_testimonials"`
	ApprovedTestimonials int       `json:"approved_testimonials"`
	PendingTestimonials  int       `json:"pending_testimonials"`
	AverageRating        float64   `json:"average_rating"`
	NewContacts          int       `json:"new_contacts"`
	NewBookings          int       `json:"new_bookings"`
	NewRSVPs             int       `json:"new_rsvps"`
	ReviewLinkClicks     int       `json:"review_link_clicks"`
}

// HomePage is the aggregated home page payload.
type HomePage struct {
	FeaturedTestimonials []Testimonial     `json:"featured_testimonials"`
	UpcomingEvents       []FacebookEvent   `json:"upcoming_events"`
	FeaturedInstructors  []Instructor      `json:"featured_instructors"`
	Stats                *TestimonialStats `json:"stats"`
}

// PricingPage is the pricing page payload: the editable pricing copy plus the active classes.
type PricingPage struct {
	Settings map[string]string `json:"settings"`
	Classes  []Class           `json:"classes"`
}

// AdminDashboard combines the headline numbers with the per-status testimonial counts.
type AdminDashboard struct {
	Stats                *DashboardStats           `json:"stats"`
	TestimonialsByStatus map[TestimonialStatus]int `json:"testimonials_by_status"`
	RecentMetrics        []MetricSummary           `json:"recent_metrics"`
}
