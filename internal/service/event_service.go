package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/integration"
	"github.com/saborconflow/studio-backend/internal/model"
)

type eventStore interface {
	Upcoming(ctx context.Context, now time.Time, limit int) ([]model.FacebookEvent, error)
	GetByID(ctx context.Context, id int) (*model.FacebookEvent, error)
	Upsert(ctx context.Context, e *model.FacebookEvent) error
	DeactivateMissing(ctx context.Context, keep []string, now time.Time) (int, error)
}

type facebookSource interface {
	IsConfigured() bool
	UpcomingEvents(ctx context.Context) ([]integration.GraphEvent, error)
}

// EventService keeps the local mirror of the studio's Facebook events.
type EventService struct {
	repo     eventStore
	facebook facebookSource
	activity *ActivityService
	cache    *cache.Cache
	now      func() time.Time
	log      zerolog.Logger
}

func NewEventService(repo eventStore, facebook facebookSource, activity *ActivityService, c *cache.Cache, log zerolog.Logger) *EventService {
	return &EventService{
		repo:     repo,
		facebook: facebook,
		activity: activity,
		cache:    c,
		now:      time.Now,
		log:      log.With().Str("component", "event_service").Logger(),
	}
}

// Upcoming returns events that have not ended, soonest first.
func (s *EventService) Upcoming(ctx context.Context, limit int) ([]model.FacebookEvent, error) {
	return cache.Remember(ctx, s.cache, config.CacheKey.UpcomingEventsKey(limit), config.CacheTTL.Events,
		func(ctx context.Context) ([]model.FacebookEvent, error) {
			return s.repo.Upcoming(ctx, s.now(), limit)
		})
}

func (s *EventService) GetByID(ctx context.Context, id int) (*model.FacebookEvent, error) {
	return s.repo.GetByID(ctx, id)
}

// Sync upserts the page's upcoming events and hides future events that were
// removed from Facebook. Events with unparseable times are skipped.
func (s *EventService) Sync(ctx context.Context) (*model.SyncResult, error) {
	if !s.facebook.IsConfigured() {
		return nil, integration.ErrNotConfigured
	}
	events, err := s.facebook.UpcomingEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch facebook events: %w", err)
	}

	now := s.now()
	result := &model.SyncResult{Fetched: len(events)}
	keep := make([]string, 0, len(events))
	for _, ge := range events {
		e, err := ge.ToModel(now)
		if err != nil {
			s.log.Warn().Err(err).Str("facebook_id", ge.ID).Msg("Skipping event with invalid time")
			continue
		}
		if err := s.repo.Upsert(ctx, e); err != nil {
			return result, fmt.Errorf("store event %s: %w", ge.ID, err)
		}
		keep = append(keep, e.FacebookID)
		result.Upserted++
	}

	result.Deactivated, err = s.repo.DeactivateMissing(ctx, keep, now)
	if err != nil {
		return result, fmt.Errorf("deactivate removed events: %w", err)
	}

	s.cache.Invalidate().Events(ctx)
	s.log.Info().Int("fetched", result.Fetched).Int("upserted", result.Upserted).
		Int("deactivated", result.Deactivated).Msg("Facebook events synced")
	s.activity.Publish(ctx, model.ActivitySyncCompleted,
		fmt.Sprintf("Facebook sync: %d events", result.Upserted), fields{"source": "facebook"})
	return result, nil
}
