package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/integration"
	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/notify"
	"github.com/saborconflow/studio-backend/internal/repository"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup(time.UTC)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   response.ErrCode
	}{
		{"not found", fmt.Errorf("get class: %w", repository.ErrNotFound), http.StatusNotFound, response.ErrNotFound},
		{"duplicate", repository.ErrDuplicate, http.StatusConflict, response.ErrConflict},
		{"referenced", repository.ErrReferenced, http.StatusConflict, response.ErrDependencyExists},
		{"role in use", service.ErrRoleInUse, http.StatusConflict, response.ErrDependencyExists},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
		{"owner role", service.ErrProtectedRole, http.StatusForbidden, response.ErrActionForbidden},
		{"self delete", service.ErrSelfDelete, http.StatusForbidden, response.ErrActionForbidden},
		{"review link", service.ErrReviewLinkInvalid, http.StatusNotFound, response.ErrReviewLinkInvalid},
		{"duplicate rsvp", service.ErrDuplicateRSVP, http.StatusConflict, response.ErrDuplicateRSVP},
		{"rsvp target", service.ErrRSVPTargetRequired, http.StatusBadRequest, response.ErrRSVPTargetRequired},
		{"past date", service.ErrDateInPast, http.StatusBadRequest, response.ErrDateInPast},
		{"transition", service.ErrInvalidTransition, http.StatusConflict, response.ErrInvalidTransition},
		{"class unavailable", service.ErrClassUnavailable, http.StatusUnprocessableEntity, response.ErrClassUnavailable},
		{"file type", fmt.Errorf("%w: text/plain", service.ErrUnsupportedFileType), http.StatusBadRequest, response.ErrUnsupportedFile},
		{"file size", service.ErrFileTooLarge, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge},
		{"integration", integration.ErrNotConfigured, http.StatusServiceUnavailable, response.ErrNotConfigured},
		{"email backend", notify.ErrNotConfigured, http.StatusServiceUnavailable, response.ErrNotConfigured},
		{"upstream", fmt.Errorf("fetch: %w", &integration.APIError{Service: "facebook", StatusCode: 500}), http.StatusBadGateway, response.ErrUpstream},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, response.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			require.Equal(t, tt.status, w.Code)
			body := decodeEnvelope(t, w)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestRespondErrorFieldErrors(t *testing.T) {
	t.Run("business rule", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/", nil)

		respondError(c, service.ErrInvalidTimeRange)

		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeEnvelope(t, w)
		assert.Equal(t, response.ErrValidation, body.Error.Code)
		assert.Equal(t, "end_time must be after start_time", body.Error.Fields["end_time"])
	})

	t.Run("password required", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/", nil)

		respondError(c, service.ErrPasswordRequired)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeEnvelope(t, w).Error.Fields, "password")
	})
}

func TestParamID(t *testing.T) {
	r := gin.New()
	r.GET("/classes/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	for target, want := range map[string]int{
		"/classes/12":  http.StatusOK,
		"/classes/0":   http.StatusBadRequest,
		"/classes/-3":  http.StatusBadRequest,
		"/classes/abc": http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, want, w.Code, target)
	}
}

func TestPageParams(t *testing.T) {
	tests := []struct {
		query         string
		page, perPage int
	}{
		{"", 1, defaultPerPage},
		{"page=3&per_page=50", 3, 50},
		{"page=0&per_page=0", 1, defaultPerPage},
		{"page=-1&per_page=1000", 1, maxPerPage},
		{"page=x&per_page=y", 1, defaultPerPage},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)

		page, perPage := pageParams(c)
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.perPage, perPage, tt.query)
	}
}

// ─── Webhooks ──────────────────────────────────────────────────────────

type fakeVerifier struct{}

func (fakeVerifier) VerifyChallenge(mode, token string) bool {
	return mode == "subscribe" && token == "verify-me"
}

func (fakeVerifier) VerifySignature(body []byte, header string) bool {
	return header == "sha256=good" && len(body) > 0
}

type fakeRefresher struct {
	called chan struct{}
}

func (f *fakeRefresher) RefreshInstagram(ctx context.Context) (*model.SyncResult, error) {
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("refresh must run with a deadline")
	}
	f.called <- struct{}{}
	return &model.SyncResult{}, nil
}

func webhookRouter(refresher *fakeRefresher) *gin.Engine {
	h := NewWebhookHandler(fakeVerifier{}, refresher, zerolog.Nop())
	r := gin.New()
	r.GET("/webhooks/instagram", h.VerifyInstagram)
	r.POST("/webhooks/instagram", h.ReceiveInstagram)
	return r
}

func TestVerifyInstagram(t *testing.T) {
	r := webhookRouter(&fakeRefresher{called: make(chan struct{}, 1)})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/webhooks/instagram?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=1158201444", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1158201444", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/webhooks/instagram?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=1", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.ErrInvalidSignature, decodeEnvelope(t, w).Error.Code)
}

func TestReceiveInstagram(t *testing.T) {
	payload := `{"object":"instagram","entry":[{"id":"17841400000000000","changes":[{"field":"media"}]}]}`

	t.Run("valid signature refreshes gallery", func(t *testing.T) {
		refresher := &fakeRefresher{called: make(chan struct{}, 1)}
		r := webhookRouter(refresher)

		req := httptest.NewRequest(http.MethodPost, "/webhooks/instagram", strings.NewReader(payload))
		req.Header.Set("X-Hub-Signature-256", "sha256=good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		select {
		case <-refresher.called:
		case <-time.After(2 * time.Second):
			t.Fatal("gallery refresh was not triggered")
		}
	})

	t.Run("bad signature is rejected", func(t *testing.T) {
		refresher := &fakeRefresher{called: make(chan struct{}, 1)}
		r := webhookRouter(refresher)

		req := httptest.NewRequest(http.MethodPost, "/webhooks/instagram", strings.NewReader(payload))
		req.Header.Set("X-Hub-Signature-256", "sha256=forged")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		select {
		case <-refresher.called:
			t.Fatal("refresh must not run for unsigned deliveries")
		case <-time.After(50 * time.Millisecond):
		}
	})
}

type blockingRefresher struct {
	started   chan struct{}
	release   chan struct{}
	active    atomic.Int32
	maxActive atomic.Int32
	calls     atomic.Int32
}

func (b *blockingRefresher) RefreshInstagram(ctx context.Context) (*model.SyncResult, error) {
	n := b.active.Add(1)
	defer b.active.Add(-1)
	for {
		m := b.maxActive.Load()
		if n <= m || b.maxActive.CompareAndSwap(m, n) {
			break
		}
	}
	b.calls.Add(1)
	b.started <- struct{}{}
	<-b.release
	return &model.SyncResult{}, nil
}

func TestReceiveInstagramCoalescesRefreshes(t *testing.T) {
	refresher := &blockingRefresher{started: make(chan struct{}, 10), release: make(chan struct{})}
	h := NewWebhookHandler(fakeVerifier{}, refresher, zerolog.Nop())
	r := gin.New()
	r.POST("/webhooks/instagram", h.ReceiveInstagram)

	deliver := func() {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/instagram", strings.NewReader(`{"object":"instagram"}`))
		req.Header.Set("X-Hub-Signature-256", "sha256=good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	deliver()
	select {
	case <-refresher.started:
	case <-time.After(2 * time.Second):
		t.Fatal("gallery refresh was not triggered")
	}
	for i := 0; i < 5; i++ {
		deliver()
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), refresher.calls.Load())

	close(refresher.release)
	require.Eventually(t, func() bool {
		return refresher.calls.Load() == 2 && !h.refreshing.Load()
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), refresher.maxActive.Load())
}

// ─── Metrics ───────────────────────────────────────────────────────────

func TestCollectMetricsQueuesSamples(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h := NewMetricsHandler(service.NewMetricsService(nil, rdb, zerolog.Nop()))
	r := gin.New()
	r.POST("/metrics", h.Collect)

	body := `{"page":"/schedule","metrics":[{"name":"LCP","value":1830.5,"rating":"good"},{"name":"CLS","value":0.02}]}`
	req := httptest.NewRequest(http.MethodPost, "/metrics", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone)")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, map[string]interface{}{"queued": float64(2)}, decodeEnvelope(t, w).Data)

	queued, err := mr.List(config.CacheKey.MetricsQueue())
	require.NoError(t, err)
	require.Len(t, queued, 2)
	assert.Contains(t, queued[0], `"LCP"`)
}

func TestCollectMetricsRejectsUnknownMetric(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h := NewMetricsHandler(service.NewMetricsService(nil, rdb, zerolog.Nop()))
	r := gin.New()
	r.POST("/metrics", h.Collect)

	body := `{"page":"/","metrics":[{"name":"FPS","value":60}]}`
	req := httptest.NewRequest(http.MethodPost, "/metrics", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrValidation, decodeEnvelope(t, w).Error.Code)
	assert.False(t, mr.Exists(config.CacheKey.MetricsQueue()))
}
