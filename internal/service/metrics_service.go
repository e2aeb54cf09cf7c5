package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/model"
)

// MetricsRetention is how long Web Vitals samples are kept.
const MetricsRetention = 90 * 24 * time.Hour

type metricStore interface {
	InsertBatch(ctx context.Context, metrics []model.PerformanceMetric) (int64, error)
	Summary(ctx context.Context, since time.Time) ([]model.MetricSummary, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// MetricsService buffers front-end performance samples in Redis and
// exposes the aggregated numbers. The worker drains the queue.
type MetricsService struct {
	repo  metricStore
	rdb   *redis.Client
	queue string
	now   func() time.Time
	log   zerolog.Logger
}

func NewMetricsService(repo metricStore, rdb *redis.Client, log zerolog.Logger) *MetricsService {
	return &MetricsService{
		repo:  repo,
		rdb:   rdb,
		queue: config.CacheKey.MetricsQueue(),
		now:   time.Now,
		log:   log.With().Str("component", "metrics_service").Logger(),
	}
}

// Queue returns the Redis list the samples are pushed to.
func (s *MetricsService) Queue() string { return s.queue }

// Enqueue pushes one JSON-encoded row per sample onto the queue.
func (s *MetricsService) Enqueue(ctx context.Context, req model.PerformanceMetricRequest, userAgent string) (int, error) {
	at := s.now().UTC()
	if len(userAgent) > 500 {
		userAgent = userAgent[:500]
	}
	values := make([]interface{}, 0, len(req.Metrics))
	for _, m := range req.Metrics {
		row := model.PerformanceMetric{
			Page:       strings.TrimSpace(req.Page),
			Metric:     m.Name,
			Value:      m.Value,
			Rating:     m.Rating,
			UserAgent:  userAgent,
			RecordedAt: at,
		}
		raw, err := json.Marshal(row)
		if err != nil {
			return 0, err
		}
		values = append(values, raw)
	}
	if err := s.rdb.RPush(ctx, s.queue, values...).Err(); err != nil {
		return 0, fmt.Errorf("enqueue metrics: %w", err)
	}
	return len(values), nil
}

// Persist decodes queued rows and writes them in one batch. Rows that fail to
// decode are logged and dropped.
func (s *MetricsService) Persist(ctx context.Context, raw []string) (int64, error) {
	rows := make([]model.PerformanceMetric, 0, len(raw))
	for _, r := range raw {
		var m model.PerformanceMetric
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			s.log.Warn().Err(err).Msg("Dropping malformed metric")
			continue
		}
		rows = append(rows, m)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return s.repo.InsertBatch(ctx, rows)
}

// Summary aggregates the samples recorded in the last window.
func (s *MetricsService) Summary(ctx context.Context, window time.Duration) ([]model.MetricSummary, error) {
	return s.repo.Summary(ctx, s.now().Add(-window))
}

// Prune deletes samples older than the retention period.
func (s *MetricsService) Prune(ctx context.Context) (int64, error) {
	return s.repo.Prune(ctx, s.now().Add(-MetricsRetention))
}
