package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/integration"
	"github.com/saborconflow/studio-backend/internal/model"
)

type resourceStore interface {
	List(ctx context.Context, classType string, resourceType model.ResourceType, publicOnly bool) ([]model.Resource, error)
	GetByID(ctx context.Context, id int) (*model.Resource, error)
	Create(ctx context.Context, r *model.Resource) error
	Update(ctx context.Context, r *model.Resource) error
	Delete(ctx context.Context, id int) error
}

// ResourceService manages practice material for students.
type ResourceService struct {
	repo  resourceStore
	cache *cache.Cache
	log   zerolog.Logger
}

func NewResourceService(repo resourceStore, c *cache.Cache, log zerolog.Logger) *ResourceService {
	return &ResourceService{repo: repo, cache: c, log: log.With().Str("component", "resource_service").Logger()}
}

// ListPublic returns the public resources, optionally narrowed by class and type.
func (s *ResourceService) ListPublic(ctx context.Context, classType string, resourceType model.ResourceType) ([]model.Resource, error) {
	if classType != "" {
		classType = integration.NormalizeClassType(classType)
	}
	key := config.CacheKey.ResourceListKey(classType, string(resourceType))
	return cache.Remember(ctx, s.cache, key, config.CacheTTL.Resources, func(ctx context.Context) ([]model.Resource, error) {
		return s.repo.List(ctx, classType, resourceType, true)
	})
}

// ListAll returns every resource for the admin.
func (s *ResourceService) ListAll(ctx context.Context) ([]model.Resource, error) {
	return s.repo.List(ctx, "", "", false)
}

func (s *ResourceService) GetByID(ctx context.Context, id int) (*model.Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ResourceService) Create(ctx context.Context, req model.ResourceRequest) (*model.Resource, error) {
	r := resourceFromRequest(req)
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	s.cache.Invalidate().Resources(ctx)
	return r, nil
}

func (s *ResourceService) Update(ctx context.Context, id int, req model.ResourceRequest) (*model.Resource, error) {
	r := resourceFromRequest(req)
	r.ID = id
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	s.cache.Invalidate().Resources(ctx)
	return s.repo.GetByID(ctx, id)
}

func (s *ResourceService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate().Resources(ctx)
	return nil
}

func resourceFromRequest(req model.ResourceRequest) *model.Resource {
	r := &model.Resource{
		Title:        strings.TrimSpace(req.Title),
		Slug:         req.Slug,
		ResourceType: req.ResourceType,
		Level:        req.Level,
		URL:          req.URL,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
		IsPublic:     true,
	}
	if req.ClassType != "" {
		r.ClassType = integration.NormalizeClassType(req.ClassType)
	}
	if r.Level == "" {
		r.Level = model.LevelAllLevels
	}
	if req.IsPublic != nil {
		r.IsPublic = *req.IsPublic
	}
	if r.Slug == "" {
		r.Slug = Slugify(r.Title)
	}
	return r
}
