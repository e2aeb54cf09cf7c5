package worker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testQueue = "queue:test_metrics"

type fakePersister struct {
	mu     sync.Mutex
	rows   []string
	err    error
	reject func(raw string) bool
}

func (f *fakePersister) Queue() string { return testQueue }

func (f *fakePersister) Persist(_ context.Context, raw []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	for _, r := range raw {
		if f.reject != nil && f.reject(r) {
			return 0, errors.New("invalid byte sequence for encoding \"UTF8\": 0x00")
		}
	}
	f.rows = append(f.rows, raw...)
	return int64(len(raw)), nil
}

func (f *fakePersister) persisted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.rows...)
}

func newTestWorker(t *testing.T, p *fakePersister) (*MetricsWorker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewMetricsWorker(rdb, p, zerolog.Nop()), mr
}

func TestMetricsWorkerPersistsQueuedRowsOnStop(t *testing.T) {
	p := &fakePersister{}
	w, mr := newTestWorker(t, p)
	_, err := mr.Push(testQueue, `{"metric":"LCP"}`, `{"metric":"CLS"}`, `{"metric":"INP"}`)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	require.Eventually(t, func() bool {
		n, _ := mr.List(testQueue)
		return len(n) == 0
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}

	assert.Equal(t, []string{`{"metric":"LCP"}`, `{"metric":"CLS"}`, `{"metric":"INP"}`}, p.persisted())
}

func TestMetricsWorkerDrainsWhenAlreadyCancelled(t *testing.T) {
	p := &fakePersister{}
	w, mr := newTestWorker(t, p)
	_, err := mr.Push(testQueue, "a", "b")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)

	assert.Equal(t, []string{"a", "b"}, p.persisted())
	assert.False(t, mr.Exists(testQueue))
}

func TestMetricsWorkerRequeuesOnPersistFailure(t *testing.T) {
	p := &fakePersister{err: errors.New("db down")}
	w, mr := newTestWorker(t, p)
	_, err := mr.Push(testQueue, "a", "b")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)

	items, err := mr.List(testQueue)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, items)
	assert.Empty(t, p.persisted())
}

func TestMetricsWorkerIsolatesBadRow(t *testing.T) {
	bad := "{\"page\":\"a\x00b\",\"metric\":\"LCP\"}"
	p := &fakePersister{reject: func(raw string) bool { return strings.Contains(raw, "\x00") }}
	w, mr := newTestWorker(t, p)
	ctx := context.Background()

	assert.False(t, w.flush(ctx, []string{"good-1", bad, "good-2"}))
	assert.Equal(t, []string{"good-1", "good-2"}, p.persisted())

	items, err := mr.List(testQueue)
	require.NoError(t, err)
	assert.Equal(t, []string{bad}, items)
}

func TestMetricsWorkerDeadLettersAfterMaxAttempts(t *testing.T) {
	p := &fakePersister{err: errors.New("db down")}
	w, mr := newTestWorker(t, p)
	ctx := context.Background()

	batch := []string{"a", "b"}
	for i := 1; i <= MetricsMaxAttempts; i++ {
		assert.False(t, w.flush(ctx, batch))
		if i < MetricsMaxAttempts {
			items, err := mr.List(testQueue)
			require.NoError(t, err)
			require.Equal(t, batch, items, "attempt %d", i)
			mr.Del(testQueue)
		}
	}

	assert.False(t, mr.Exists(testQueue))
	dead, err := mr.List(DeadLetterQueue(testQueue))
	require.NoError(t, err)
	assert.Equal(t, batch, dead)
	assert.Empty(t, w.attempts)
}

func TestMetricsWorkerSuccessClearsAttempts(t *testing.T) {
	p := &fakePersister{err: errors.New("db down")}
	w, _ := newTestWorker(t, p)
	ctx := context.Background()

	w.flush(ctx, []string{"a"})
	assert.Equal(t, 1, w.attempts["a"])

	p.mu.Lock()
	p.err = nil
	p.mu.Unlock()
	assert.True(t, w.flush(ctx, []string{"a"}))
	assert.Empty(t, w.attempts)
}
