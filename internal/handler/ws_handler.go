package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/middleware"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
	ws "github.com/saborconflow/studio-backend/internal/websocket"
)

const keepAliveInterval = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the admin activity feed.
type WSHandler struct {
	activity *service.ActivityService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(activity *service.ActivityService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		activity: activity,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// ActivityStream godoc
// WS /ws/v1/admin/activity?token=...
// Forwards every published activity event (new testimonials, contacts,
// bookings, RSVPs, sync results) to the connected dashboard.
func (h *WSHandler) ActivityStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub := h.activity.Subscribe(ctx)
	defer sub.Close()

	// Wait for the subscription to be confirmed so no event is missed after the greeting.
	if _, err := sub.Receive(ctx); err != nil {
		h.log.Error().Err(err).Msg("Activity subscription failed")
		ws.WriteError(conn, "activity feed unavailable")
		return
	}

	wsLog := h.log.With().Int("admin_id", claims.UserID).Logger()
	wsLog.Info().Msg("Admin connected to activity feed")
	defer wsLog.Info().Msg("Admin disconnected from activity feed")

	if err := ws.WriteTyped(conn, ws.ConnectedResponse{Event: ws.EventConnected, AdminID: claims.UserID}); err != nil {
		return
	}

	pings := make(chan struct{}, 1)
	go h.readLoop(conn, wsLog, pings, cancel)

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := ws.WriteTyped(conn, ws.ActivityResponse{Event: ws.EventActivity, Activity: []byte(msg.Payload)}); err != nil {
				wsLog.Debug().Err(err).Msg("Activity write failed")
				return
			}
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case <-keepAlive.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

// readLoop consumes client messages until the connection closes.
// Replies are handed to the writer goroutine through pings.
func (h *WSHandler) readLoop(conn *websocket.Conn, wsLog zerolog.Logger, pings chan<- struct{}, done context.CancelFunc) {
	defer done()

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(ws.ReadWait))
	})

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			select {
			case pings <- struct{}{}:
			default:
			}
		default:
			wsLog.Debug().Str("action", string(msg.Action)).Msg("Ignoring unknown action")
		}
	}
}
