package model

import "time"

// ClassLevel is the difficulty level of a class.
type ClassLevel string

const (
	LevelBeginner     ClassLevel = "beginner"
	LevelIntermediate ClassLevel = "intermediate"
	LevelAdvanced     ClassLevel = "advanced"
	LevelAllLevels    ClassLevel = "all_levels"
)

// Class is a recurring weekly class on the schedule.
type Class struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	ClassType      string     `json:"class_type"`
	Level          ClassLevel `json:"level"`
	Description    string     `json:"description"`
	InstructorID   *int       `json:"instructor_id"`
	InstructorName string     `json:"instructor_name,omitempty"`
	DayOfWeek      int        `json:"day_of_week"` // 0 = Sunday
	StartTime      string     `json:"start_time"`  // HH:MM, studio time zone
	EndTime        string     `json:"end_time"`
	Location       string     `json:"location"`
	Capacity       int        `json:"capacity"`
	PriceCents     int        `json:"price_cents"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ClassRequest is the payload for creating or updating a class.
type ClassRequest struct {
	Name         string     `json:"name" binding:"required,min=2,max=100"`
	Slug         string     `json:"slug" binding:"omitempty,min=2,max=100"`
	ClassType    string     `json:"class_type" binding:"required,max=50"`
	Level        ClassLevel `json:"level" binding:"required,oneof=beginner intermediate advanced all_levels"`
	Description  string     `json:"description" binding:"max=5000"`
	InstructorID *int       `json:"instructor_id" binding:"omitempty,min=1"`
	DayOfWeek    *int       `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime    string     `json:"start_time" binding:"required,datetime=15:04"`
	EndTime      string     `json:"end_time" binding:"required,datetime=15:04"`
	Location     string     `json:"location" binding:"max=200"`
	Capacity     int        `json:"capacity" binding:"min=0,max=500"`
	PriceCents   int        `json:"price_cents" binding:"min=0"`
	IsActive     *bool      `json:"is_active"`
}

// DaySchedule groups the active classes of one weekday.
type DaySchedule struct {
	DayOfWeek int     `json:"day_of_week"`
	DayName   string  `json:"day_name"`
	Classes   []Class `json:"classes"`
}
