package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborconflow/studio-backend/internal/model"
)

// MetricRepository persists Web Vitals samples.
type MetricRepository struct {
	pool *pgxpool.Pool
}

func NewMetricRepository(pool *pgxpool.Pool) *MetricRepository {
	return &MetricRepository{pool: pool}
}

// InsertBatch bulk-loads samples with COPY.
func (r *MetricRepository) InsertBatch(ctx context.Context, metrics []model.PerformanceMetric) (int64, error) {
	if len(metrics) == 0 {
		return 0, nil
	}
	return r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"performance_metrics"},
		[]string{"page", "metric", "value", "rating", "user_agent", "recorded_at"},
		pgx.CopyFromSlice(len(metrics), func(i int) ([]interface{}, error) {
			m := metrics[i]
			return []interface{}{m.Page, m.Metric, m.Value, m.Rating, m.UserAgent, m.RecordedAt}, nil
		}),
	)
}

// Summary aggregates samples recorded since the given time per page and metric.
func (r *MetricRepository) Summary(ctx context.Context, since time.Time) ([]model.MetricSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT page, metric, COUNT(*),
		        percentile_cont(0.75) WITHIN GROUP (ORDER BY value),
		        AVG(value),
		        COUNT(*) FILTER (WHERE rating = 'good'),
		        COUNT(*) FILTER (WHERE rating = 'poor')
		 FROM performance_metrics
		 WHERE recorded_at >= $1
		 GROUP BY page, metric
		 ORDER BY page, metric`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.MetricSummary{}
	for rows.Next() {
		var s model.MetricSummary
		if err := rows.Scan(&s.Page, &s.Metric, &s.Samples, &s.P75, &s.Average, &s.Good, &s.Poor); err != nil {
			return nil, err
		}
		s.P75 = roundTenth(s.P75)
		s.Average = roundTenth(s.Average)
		list = append(list, s)
	}
	return list, rows.Err()
}

// Prune deletes samples older than the cutoff.
func (r *MetricRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM performance_metrics WHERE recorded_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
