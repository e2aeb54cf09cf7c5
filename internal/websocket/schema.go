package websocket

import "encoding/json"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is the only message shape the activity feed accepts.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventConnected Event = "connected"
	EventActivity  Event = "activity"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// ConnectedResponse greets a staff member once the subscription is live.
type ConnectedResponse struct {
	Event   Event `json:"event"`
	AdminID int   `json:"admin_id"`
}

// ActivityResponse wraps one published activity event, forwarded verbatim.
type ActivityResponse struct {
	Event    Event           `json:"event"`
	Activity json.RawMessage `json:"activity"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
