package handler

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
)

const (
	maxWebhookBody      = 1 << 20
	webhookSyncDeadline = 2 * time.Minute
)

type webhookVerifier interface {
	VerifyChallenge(mode, token string) bool
	VerifySignature(body []byte, header string) bool
}

type instagramRefresher interface {
	RefreshInstagram(ctx context.Context) (*model.SyncResult, error)
}

// WebhookHandler receives Instagram Graph API webhooks.
type WebhookHandler struct {
	verifier webhookVerifier
	gallery  instagramRefresher
	log      zerolog.Logger

	// At most one refresh runs; deliveries during it queue a single rerun.
	refreshing atomic.Bool
	pending    atomic.Bool
}

func NewWebhookHandler(verifier webhookVerifier, gallery instagramRefresher, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier: verifier,
		gallery:  gallery,
		log:      log.With().Str("component", "webhook_handler").Logger(),
	}
}

// VerifyInstagram godoc
// GET /api/v1/webhooks/instagram?hub.mode=subscribe&hub.verify_token=...&hub.challenge=...
// Echoes hub.challenge as plain text when the verify token matches.
func (h *WebhookHandler) VerifyInstagram(c *gin.Context) {
	if !h.verifier.VerifyChallenge(c.Query("hub.mode"), c.Query("hub.verify_token")) {
		response.Fail(c, http.StatusForbidden, response.ErrInvalidSignature)
		return
	}
	c.String(http.StatusOK, c.Query("hub.challenge"))
}

// ReceiveInstagram godoc
// POST /api/v1/webhooks/instagram
// Checks X-Hub-Signature-256 and refreshes the gallery in the background.
func (h *WebhookHandler) ReceiveInstagram(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	if !h.verifier.VerifySignature(body, c.GetHeader("X-Hub-Signature-256")) {
		h.log.Warn().Str("ip", c.ClientIP()).Msg("Rejected Instagram webhook with bad signature")
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidSignature)
		return
	}

	// Instagram retries slow deliveries, so answer before syncing.
	h.scheduleRefresh(context.WithoutCancel(c.Request.Context()))

	response.Success(c, http.StatusOK, gin.H{"received": true})
}

func (h *WebhookHandler) scheduleRefresh(ctx context.Context) {
	h.pending.Store(true)
	if h.refreshing.CompareAndSwap(false, true) {
		go h.refreshLoop(ctx)
	}
}

func (h *WebhookHandler) refreshLoop(ctx context.Context) {
	for {
		for h.pending.Swap(false) {
			h.refreshOnce(ctx)
		}
		h.refreshing.Store(false)
		// A delivery may have landed between the last Swap and the Store.
		if !h.pending.Load() || !h.refreshing.CompareAndSwap(false, true) {
			return
		}
	}
}

func (h *WebhookHandler) refreshOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, webhookSyncDeadline)
	defer cancel()
	if _, err := h.gallery.RefreshInstagram(ctx); err != nil {
		h.log.Error().Err(err).Msg("Instagram refresh after webhook failed")
	}
}
