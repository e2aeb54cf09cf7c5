package worker

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	MetricsBatchSize    = 100
	MetricsBatchTimeout = 2 * time.Second
	MetricsPollTimeout  = 1 * time.Second
	MetricsRetryDelay   = 5 * time.Second
	// MetricsMaxAttempts is how many times one row may fail before it is
	// parked on the dead-letter list.
	MetricsMaxAttempts  = 3
)

type metricsPersister interface {
	Queue() string
	Persist(ctx context.Context, raw []string) (int64, error)
}

// MetricsWorker consumes the performance metrics queue and inserts rows in batches.
type MetricsWorker struct {
	rdb      *redis.Client
	metrics  metricsPersister
	log      zerolog.Logger
	done     chan struct{}
	attempts map[string]int
}

func NewMetricsWorker(rdb *redis.Client, metrics metricsPersister, log zerolog.Logger) *MetricsWorker {
	return &MetricsWorker{
		rdb:      rdb,
		metrics:  metrics,
		log:      log.With().Str("component", "metrics_worker").Logger(),
		done:     make(chan struct{}),
		attempts: make(map[string]int),
	}
}

// Done is closed once Start has drained the queue and returned.
func (w *MetricsWorker) Done() <-chan struct{} {
	return w.done
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start runs until ctx is cancelled, then drains what is left. Call in a goroutine.
func (w *MetricsWorker) Start(ctx context.Context) {
	defer close(w.done)
	w.log.Info().Msg("MetricsWorker started")

	queue := w.metrics.Queue()
	batch := make([]string, 0, MetricsBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= MetricsBatchSize || time.Since(lastFlush) >= MetricsBatchTimeout) {

			if !w.flush(ctx, batch) {
				w.sleep(ctx, MetricsRetryDelay)
			}
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("MetricsWorker stopping...")
			bg := context.Background()
			if len(batch) > 0 {
				w.flush(bg, batch)
			}
			w.drain(bg)
			w.log.Info().Msg("MetricsWorker stopped")
			return
		default:
		}

		result, err := w.rdb.BLPop(ctx, MetricsPollTimeout, queue).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				w.log.Error().Err(err).Msg("BLPop error")
				w.sleep(ctx, MetricsPollTimeout)
			}
			continue
		}
		if len(result) == 2 {
			batch = append(batch, result[1])
		}
	}
}

// flush persists a batch. When the batch fails each row is retried alone so
// one bad row cannot hold back the rest; rows that keep failing are requeued
// until MetricsMaxAttempts and then moved to the dead-letter list.
func (w *MetricsWorker) flush(ctx context.Context, batch []string) bool {
	n, err := w.metrics.Persist(ctx, batch)
	if err == nil {
		w.forget(batch)
		w.log.Debug().Int64("rows", n).Msg("Metrics batch persisted")
		return true
	}
	if len(batch) == 1 {
		w.requeue(ctx, batch[0], err)
		return false
	}

	w.log.Warn().Err(err).Int("rows", len(batch)).Msg("Persist error, retrying rows one by one")
	ok := true
	for _, raw := range batch {
		if _, err := w.metrics.Persist(ctx, []string{raw}); err != nil {
			w.requeue(ctx, raw, err)
			ok = false
			continue
		}
		delete(w.attempts, raw)
	}
	return ok
}

func (w *MetricsWorker) requeue(ctx context.Context, raw string, cause error) {
	w.attempts[raw]++
	target := w.metrics.Queue()
	if w.attempts[raw] >= MetricsMaxAttempts {
		delete(w.attempts, raw)
		target = DeadLetterQueue(target)
		w.log.Error().Err(cause).Int("attempts", MetricsMaxAttempts).Msg("Metric row moved to dead-letter queue")
	}
	if err := w.rdb.RPush(context.WithoutCancel(ctx), target, raw).Err(); err != nil {
		w.log.Error().Err(err).Msg("Requeue failed, metric lost")
	}
}

func (w *MetricsWorker) forget(batch []string) {
	if len(w.attempts) == 0 {
		return
	}
	for _, raw := range batch {
		delete(w.attempts, raw)
	}
}

// DeadLetterQueue names the list holding rows that could not be persisted.
func DeadLetterQueue(queue string) string {
	return queue + ":dead"
}

// drain processes all remaining items in the queue before shutdown.
func (w *MetricsWorker) drain(ctx context.Context) {
	var drained int
	for {
		items, err := w.rdb.LPopCount(ctx, w.metrics.Queue(), MetricsBatchSize).Result()
		if err != nil || len(items) == 0 {
			break
		}
		if !w.flush(ctx, items) {
			break
		}
		drained += len(items)
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining metrics")
	}
}

func (w *MetricsWorker) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
