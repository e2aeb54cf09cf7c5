package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saborconflow/studio-backend/internal/model"
)

type fakeMetrics struct {
	inserted []model.PerformanceMetric
	prunedAt time.Time
}

func (f *fakeMetrics) InsertBatch(_ context.Context, m []model.PerformanceMetric) (int64, error) {
	f.inserted = append(f.inserted, m...)
	return int64(len(m)), nil
}

func (f *fakeMetrics) Summary(context.Context, time.Time) ([]model.MetricSummary, error) {
	return []model.MetricSummary{}, nil
}

func (f *fakeMetrics) Prune(_ context.Context, before time.Time) (int64, error) {
	f.prunedAt = before
	return 3, nil
}

func newMetricsFixture(t *testing.T) (*MetricsService, *fakeMetrics, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	repo := &fakeMetrics{}
	return NewMetricsService(repo, rdb, zerolog.Nop()), repo, rdb
}

func TestEnqueueThenPersist(t *testing.T) {
	svc, repo, rdb := newMetricsFixture(t)
	ctx := context.Background()

	n, err := svc.Enqueue(ctx, model.PerformanceMetricRequest{
		Page: " /schedule ",
		Metrics: []model.PerformanceSampleReq{
			{Name: "LCP", Value: 1830.5, Rating: "good"},
			{Name: "CLS", Value: 0.02, Rating: "good"},
		},
	}, "Mozilla/5.0")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	raw, err := rdb.LRange(ctx, svc.Queue(), 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, raw, 2)

	saved, err := svc.Persist(ctx, append(raw, "{not json"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, saved)
	require.Len(t, repo.inserted, 2)
	assert.Equal(t, "/schedule", repo.inserted[0].Page)
	assert.Equal(t, "LCP", repo.inserted[0].Metric)
	assert.Equal(t, "Mozilla/5.0", repo.inserted[1].UserAgent)
}

func TestPruneUsesRetention(t *testing.T) {
	svc, repo, _ := newMetricsFixture(t)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	n, err := svc.Prune(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, now.Add(-MetricsRetention), repo.prunedAt)
}
