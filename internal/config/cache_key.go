package config

import (
	"fmt"
	"time"
)

// Key families. Every cached value lives under one of these prefixes so a
// whole family can be invalidated at once.
const (
	PrefixPage        = "page:"
	PrefixTestimonial = "testimonials:"
	PrefixSchedule    = "schedule:"
	PrefixInstructor  = "instructors:"
	PrefixGallery     = "gallery:"
	PrefixEvent       = "events:"
	PrefixResource    = "resources:"
	PrefixPlaylist    = "playlists:"
	PrefixAPI         = "api:"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// HomePageKey returns the cache key for the aggregated home page payload.
func (r *CacheKeyStruct) HomePageKey() string {
	return PrefixPage + "home"
}

// PricingPageKey returns the cache key for the pricing page payload.
func (r *CacheKeyStruct) PricingPageKey() string {
	return PrefixPage + "pricing"
}

// ApprovedTestimonialsKey returns the cache key for one page of approved testimonials.
func (r *CacheKeyStruct) ApprovedTestimonialsKey(page, perPage, minRating int) string {
	return fmt.Sprintf("%sapproved:p%d:n%d:r%d", PrefixTestimonial, page, perPage, minRating)
}

// FeaturedTestimonialsKey returns the cache key for featured testimonials.
func (r *CacheKeyStruct) FeaturedTestimonialsKey(limit int) string {
	return fmt.Sprintf("%sfeatured:%d", PrefixTestimonial, limit)
}

// TestimonialStatsKey returns the cache key for aggregate rating stats.
func (r *CacheKeyStruct) TestimonialStatsKey() string {
	return PrefixTestimonial + "stats"
}

// WeeklyScheduleKey returns the cache key for the grouped weekly schedule.
func (r *CacheKeyStruct) WeeklyScheduleKey() string {
	return PrefixSchedule + "weekly"
}

// InstructorListKey returns the cache key for the instructor list.
func (r *CacheKeyStruct) InstructorListKey() string {
	return PrefixInstructor + "list"
}

// InstructorDetailKey returns the cache key for one instructor profile.
func (r *CacheKeyStruct) InstructorDetailKey(slug string) string {
	return PrefixInstructor + "detail:" + slug
}

// GalleryKey returns the cache key for a gallery listing.
func (r *CacheKeyStruct) GalleryKey(category, mediaType string) string {
	return fmt.Sprintf("%slist:%s:%s", PrefixGallery, category, mediaType)
}

// UpcomingEventsKey returns the cache key for upcoming Facebook events.
func (r *CacheKeyStruct) UpcomingEventsKey(limit int) string {
	return fmt.Sprintf("%supcoming:%d", PrefixEvent, limit)
}

// ResourceListKey returns the cache key for a resource listing.
func (r *CacheKeyStruct) ResourceListKey(classType, resourceType string) string {
	return fmt.Sprintf("%slist:%s:%s", PrefixResource, classType, resourceType)
}

// PlaylistListKey returns the cache key for active playlists.
func (r *CacheKeyStruct) PlaylistListKey() string {
	return PrefixPlaylist + "active"
}

// FacebookEventsAPIKey returns the cache key for the raw Graph API events response.
func (r *CacheKeyStruct) FacebookEventsAPIKey(pageID string) string {
	return fmt.Sprintf("%sfacebook:%s:events", PrefixAPI, pageID)
}

// InstagramMediaAPIKey returns the cache key for the raw Instagram media response.
func (r *CacheKeyStruct) InstagramMediaAPIKey(userID string, limit int) string {
	return fmt.Sprintf("%sinstagram:%s:media:%d", PrefixAPI, userID, limit)
}

// GoogleReviewsAPIKey returns the cache key for the Google Business reviews response.
func (r *CacheKeyStruct) GoogleReviewsAPIKey(locationID string) string {
	return fmt.Sprintf("%sgoogle:%s:reviews", PrefixAPI, locationID)
}

// SpotifyPlaylistAPIKey returns the cache key for one Spotify playlist lookup.
func (r *CacheKeyStruct) SpotifyPlaylistAPIKey(playlistID string) string {
	return fmt.Sprintf("%sspotify:playlist:%s", PrefixAPI, playlistID)
}

// RateLimitKey returns the fixed-window counter key for an IP and route group.
func (r *CacheKeyStruct) RateLimitKey(group, ip string, window int64) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", group, ip, window)
}

// ReviewLinkClicksKey returns the counter of review link opens in one ISO week.
func (r *CacheKeyStruct) ReviewLinkClicksKey(year, week int) string {
	return fmt.Sprintf("reviewlinks:clicks:%d-W%02d", year, week)
}

// AdminActivityChannel returns the Redis PubSub channel for admin activity events.
func (r *CacheKeyStruct) AdminActivityChannel() string {
	return "admin:activity"
}

// CronLockKey returns the lock held while a scheduled job runs, so only one
// instance executes it.
func (r *CacheKeyStruct) CronLockKey(job string) string {
	return "lock:cron:" + job
}

// MetricsQueue returns the Redis list used to buffer performance metrics.
func (r *CacheKeyStruct) MetricsQueue() string {
	return "queue:performance_metrics"
}

var CacheKey = NewCacheKeyStruct()

// CacheTTLStruct holds the expiry used for each key family.
type CacheTTLStruct struct {
	Page         time.Duration
	Testimonials time.Duration
	Schedule     time.Duration
	Instructors  time.Duration
	Gallery      time.Duration
	Events       time.Duration
	Resources    time.Duration
	Playlists    time.Duration
	FacebookAPI  time.Duration
	InstagramAPI time.Duration
	GoogleAPI    time.Duration
	SpotifyAPI   time.Duration
}

var CacheTTL = &CacheTTLStruct{
	Page:         5 * time.Minute,
	Testimonials: 15 * time.Minute,
	Schedule:     time.Hour,
	Instructors:  time.Hour,
	Gallery:      30 * time.Minute,
	Events:       30 * time.Minute,
	Resources:    time.Hour,
	Playlists:    6 * time.Hour,
	FacebookAPI:  time.Hour,
	InstagramAPI: time.Hour,
	GoogleAPI:    6 * time.Hour,
	SpotifyAPI:   24 * time.Hour,
}
