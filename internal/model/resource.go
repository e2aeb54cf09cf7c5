package model

import "time"

type ResourceType string

const (
	ResourceVideo ResourceType = "video"
	ResourcePDF   ResourceType = "pdf"
	ResourceLink  ResourceType = "link"
	ResourceMusic ResourceType = "music"
)

// Resource is a practice video, handout or link for students.
type Resource struct {
	ID           int          `json:"id"`
	Title        string       `json:"title"`
	Slug         string       `json:"slug"`
	ResourceType ResourceType `json:"resource_type"`
	ClassType    string       `json:"class_type"`
	Level        ClassLevel   `json:"level"`
	URL          string       `json:"url"`
	Description  string       `json:"description"`
	DisplayOrder int          `json:"display_order"`
	IsPublic     bool         `json:"is_public"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ResourceRequest is the payload for creating or updating a resource.
type ResourceRequest struct {
	Title        string       `json:"title" binding:"required,min=2,max=200"`
	Slug         string       `json:"slug" binding:"omitempty,min=2,max=200"`
	ResourceType ResourceType `json:"resource_type" binding:"required,oneof=video pdf link music"`
	ClassType    string       `json:"class_type" binding:"max=50"`
	Level        ClassLevel   `json:"level" binding:"omitempty,oneof=beginner intermediate advanced all_levels"`
	URL          string       `json:"url" binding:"required,url,max=500"`
	Description  string       `json:"description" binding:"max=5000"`
	DisplayOrder int          `json:"display_order" binding:"min=0"`
	IsPublic     *bool        `json:"is_public"`
}
