package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/integration"
	"github.com/saborconflow/studio-backend/internal/model"
)

const (
	defaultGalleryLimit = 60
	instagramSyncLimit  = 25
)

type galleryStore interface {
	List(ctx context.Context, category string, mediaType model.MediaType, limit int) ([]model.MediaItem, error)
	GetByID(ctx context.Context, id int) (*model.MediaItem, error)
	Create(ctx context.Context, m *model.MediaItem) error
	Update(ctx context.Context, m *model.MediaItem) error
	Delete(ctx context.Context, id int) error
	UpsertInstagram(ctx context.Context, m *model.MediaItem) (bool, error)
}

type instagramSource interface {
	IsConfigured() bool
	RecentMedia(ctx context.Context, limit int) ([]integration.InstagramMedia, error)
	ForgetRecentMedia(ctx context.Context, limit int) error
}

// GalleryService serves the photo and video gallery.
type GalleryService struct {
	repo      galleryStore
	instagram instagramSource
	media     *MediaService
	activity  *ActivityService
	cache     *cache.Cache
	log       zerolog.Logger
}

func NewGalleryService(repo galleryStore, instagram instagramSource, media *MediaService, activity *ActivityService, c *cache.Cache, log zerolog.Logger) *GalleryService {
	return &GalleryService{
		repo:      repo,
		instagram: instagram,
		media:     media,
		activity:  activity,
		cache:     c,
		log:       log.With().Str("component", "gallery_service").Logger(),
	}
}

// List returns gallery items for the public page.
func (s *GalleryService) List(ctx context.Context, category string, mediaType model.MediaType) ([]model.MediaItem, error) {
	key := config.CacheKey.GalleryKey(category, string(mediaType))
	return cache.Remember(ctx, s.cache, key, config.CacheTTL.Gallery, func(ctx context.Context) ([]model.MediaItem, error) {
		return s.repo.List(ctx, category, mediaType, defaultGalleryLimit)
	})
}

func (s *GalleryService) GetByID(ctx context.Context, id int) (*model.MediaItem, error) {
	return s.repo.GetByID(ctx, id)
}

// Create adds an item that is already hosted somewhere (e.g. a YouTube video).
func (s *GalleryService) Create(ctx context.Context, req model.MediaItemRequest) (*model.MediaItem, error) {
	m := mediaFromRequest(req)
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.cache.Invalidate().Gallery(ctx)
	return m, nil
}

// Upload stores a file and adds it to the gallery. The media type follows the file.
func (s *GalleryService) Upload(ctx context.Context, req model.MediaItemRequest, file multipart.File, header *multipart.FileHeader) (*model.MediaItem, error) {
	up, err := s.media.SaveUpload(ctx, "gallery", file, header)
	if err != nil {
		return nil, err
	}
	req.URL = up.URL
	req.ThumbnailURL = up.ThumbnailURL
	req.MediaType = model.MediaPhoto
	if up.IsVideo() {
		req.MediaType = model.MediaVideo
	}
	return s.Create(ctx, req)
}

func (s *GalleryService) Update(ctx context.Context, id int, req model.MediaItemRequest) (*model.MediaItem, error) {
	m := mediaFromRequest(req)
	m.ID = id
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	s.cache.Invalidate().Gallery(ctx)
	return s.repo.GetByID(ctx, id)
}

func (s *GalleryService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate().Gallery(ctx)
	return nil
}

// SyncInstagram mirrors the latest Instagram posts into the gallery.
func (s *GalleryService) SyncInstagram(ctx context.Context) (*model.SyncResult, error) {
	if !s.instagram.IsConfigured() {
		return nil, integration.ErrNotConfigured
	}
	posts, err := s.instagram.RecentMedia(ctx, instagramSyncLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch instagram media: %w", err)
	}

	result := &model.SyncResult{Fetched: len(posts)}
	for _, p := range posts {
		if p.MediaURL == "" {
			continue
		}
		inserted, err := s.repo.UpsertInstagram(ctx, p.ToModel())
		if err != nil {
			return result, fmt.Errorf("store instagram media %s: %w", p.ID, err)
		}
		if inserted {
			result.Upserted++
		}
	}
	s.cache.Invalidate().Gallery(ctx)
	s.log.Info().Int("fetched", result.Fetched).Int("new", result.Upserted).Msg("Instagram media synced")
	s.activity.Publish(ctx, model.ActivitySyncCompleted,
		fmt.Sprintf("Instagram sync: %d new posts", result.Upserted), fields{"source": "instagram"})
	return result, nil
}

// RefreshInstagram drops the memoized media response and syncs again. Used by the webhook.
func (s *GalleryService) RefreshInstagram(ctx context.Context) (*model.SyncResult, error) {
	if err := s.instagram.ForgetRecentMedia(ctx, instagramSyncLimit); err != nil {
		s.log.Warn().Err(err).Msg("Failed to drop cached instagram media")
	}
	return s.SyncInstagram(ctx)
}

func mediaFromRequest(req model.MediaItemRequest) *model.MediaItem {
	return &model.MediaItem{
		Title:        strings.TrimSpace(req.Title),
		MediaType:    req.MediaType,
		URL:          req.URL,
		ThumbnailURL: req.ThumbnailURL,
		Caption:      req.Caption,
		Category:     strings.ToLower(strings.TrimSpace(req.Category)),
		IsFeatured:   req.IsFeatured,
		DisplayOrder: req.DisplayOrder,
	}
}
