package model

import "time"

// SpotifyPlaylist is a practice playlist embedded on the resources page.
type SpotifyPlaylist struct {
	ID           int       `json:"id"`
	SpotifyID    string    `json:"spotify_id"`
	ClassType    string    `json:"class_type"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	EmbedURL     string    `json:"embed_url"`
	ImageURL     string    `json:"image_url"`
	TrackCount   int       `json:"track_count"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PlaylistRequest is the admin payload and the seed-file entry for a playlist.
type PlaylistRequest struct {
	SpotifyID    string `json:"spotify_id" binding:"required,alphanum,min=10,max=40"`
	ClassType    string `json:"class_type" binding:"required,max=50"`
	Title        string `json:"title" binding:"required,max=200"`
	Description  string `json:"description" binding:"max=2000"`
	DisplayOrder int    `json:"display_order" binding:"min=0"`
	IsActive     *bool  `json:"is_active"`
}
