package model

import "time"

type MediaType string

const (
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
)

// MediaItem is one entry of the gallery, either uploaded or mirrored from Instagram.
type MediaItem struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	MediaType    MediaType  `json:"media_type"`
	URL          string     `json:"url"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Caption      string     `json:"caption"`
	Category     string     `json:"category"`
	InstagramID  *string    `json:"instagram_id,omitempty"`
	Permalink    string     `json:"permalink,omitempty"`
	IsFeatured   bool       `json:"is_featured"`
	DisplayOrder int        `json:"display_order"`
	TakenAt      *time.Time `json:"taken_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// MediaItemRequest is the payload for adding or editing a gallery entry by URL.
type MediaItemRequest struct {
	Title        string    `json:"title" binding:"required,max=200"`
	MediaType    MediaType `json:"media_type" binding:"required,oneof=photo video"`
	URL          string    `json:"url" binding:"required,max=500"`
	ThumbnailURL string    `json:"thumbnail_url" binding:"omitempty,max=500"`
	Caption      string    `json:"caption" binding:"max=2000"`
	Category     string    `json:"category" binding:"max=50"`
	IsFeatured   bool      `json:"is_featured"`
	DisplayOrder int       `json:"display_order" binding:"min=0"`
}
