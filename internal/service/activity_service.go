package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/model"
)

// fields is a shorthand for activity payloads.
type fields map[string]interface{}

// ActivityService fans site activity out to connected admin dashboards over Redis Pub/Sub,
// so every server instance's WebSocket clients see every event.
// A nil *ActivityService drops events.
type ActivityService struct {
	rdb     *redis.Client
	channel string
	log     zerolog.Logger
}

func NewActivityService(rdb *redis.Client, log zerolog.Logger) *ActivityService {
	return &ActivityService{
		rdb:     rdb,
		channel: config.CacheKey.AdminActivityChannel(),
		log:     log.With().Str("component", "activity").Logger(),
	}
}

// Publish broadcasts an event. Failures are logged, never returned.
func (s *ActivityService) Publish(ctx context.Context, eventType, message string, data interface{}) {
	if s == nil || s.rdb == nil {
		return
	}
	payload, err := json.Marshal(model.ActivityEvent{Type: eventType, Message: message, Data: data, At: time.Now().UTC()})
	if err != nil {
		s.log.Error().Err(err).Str("type", eventType).Msg("Failed to encode activity event")
		return
	}
	if err := s.rdb.Publish(context.WithoutCancel(ctx), s.channel, payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("type", eventType).Msg("Failed to publish activity event")
	}
}

// Subscribe opens a subscription to the activity channel. Callers must Close it.
func (s *ActivityService) Subscribe(ctx context.Context) *redis.PubSub {
	return s.rdb.Subscribe(ctx, s.channel)
}
