package model

import "time"

// FacebookEvent mirrors an event published on the studio's Facebook page.
type FacebookEvent struct {
	ID           int        `json:"id"`
	FacebookID   string     `json:"facebook_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	PlaceName    string     `json:"place_name"`
	CoverURL     string     `json:"cover_url"`
	EventURL     string     `json:"event_url"`
	IsActive     bool       `json:"is_active"`
	LastSyncedAt time.Time  `json:"last_synced_at"`
}

// SyncResult reports what an integration sync changed.
type SyncResult struct {
	Fetched     int `json:"fetched"`
	Upserted    int `json:"upserted"`
	Deactivated int `json:"deactivated"`
}
