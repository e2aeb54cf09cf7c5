package model

import "time"

// Instructor is a studio teacher shown on the instructors pages.
type Instructor struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Bio             string    `json:"bio"`
	PhotoURL        string    `json:"photo_url"`
	InstagramHandle string    `json:"instagram_handle"`
	Specialties     []string  `json:"specialties"`
	IsFeatured      bool      `json:"is_featured"`
	DisplayOrder    int       `json:"display_order"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// InstructorProfile is the instructor detail page payload.
type InstructorProfile struct {
	Instructor
	Classes      []Class       `json:"classes"`
	Testimonials []Testimonial `json:"testimonials"`
}

// InstructorRequest is the payload for creating or updating an instructor.
type InstructorRequest struct {
	Name            string   `json:"name" binding:"required,min=2,max=100"`
	Slug            string   `json:"slug" binding:"omitempty,min=2,max=100"`
	Bio             string   `json:"bio" binding:"max=5000"`
	PhotoURL        string   `json:"photo_url" binding:"omitempty,max=500"`
	InstagramHandle string   `json:"instagram_handle" binding:"omitempty,max=50"`
	Specialties     []string `json:"specialties" binding:"omitempty,max=10,dive,min=1,max=50"`
	IsFeatured      bool     `json:"is_featured"`
	DisplayOrder    int      `json:"display_order" binding:"min=0"`
}
