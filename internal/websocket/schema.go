package websocket

import "github.com/stemsi/transfer-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing   Action = "ping"
	ActionLatest Action = "latest"
)

// RequestEnvelope is the only client message shape; every action is
// identified by name alone.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventSnapshot Event = "snapshot"
	EventReport   Event = "report"
	EventPong     Event = "pong"
)

// ReportResponse carries a stored report. Snapshot events have a nil Report
// when the student has not been verified yet.
type ReportResponse struct {
	Event  Event                    `json:"event"`
	Report *model.EligibilityRecord `json:"report"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
