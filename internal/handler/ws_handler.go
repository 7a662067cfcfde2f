package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stemsi/transfer-backend/internal/service"
	ws "github.com/stemsi/transfer-backend/internal/websocket"
)

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

// ReportFeed opens a student's report channel.
type ReportFeed interface {
	Subscribe(ctx context.Context, studentID int) *redis.PubSub
}

// WSHandler streams report updates to connected clients.
type WSHandler struct {
	studentService     *service.StudentService
	eligibilityService *service.EligibilityService
	feed               ReportFeed
	log                zerolog.Logger
	upgrader           websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(
	studentService *service.StudentService,
	eligibilityService *service.EligibilityService,
	feed ReportFeed,
	log zerolog.Logger,
	allowedOrigins []string,
) *WSHandler {
	return &WSHandler{
		studentService:     studentService,
		eligibilityService: eligibilityService,
		feed:               feed,
		log:                log.With().Str("component", "ws_handler").Logger(),
		upgrader:           buildUpgrader(allowedOrigins),
	}
}

// ReportStream godoc
// WS /ws/v1/students/:email/reports
// Sends the latest report on connect, then every new version as it is stored,
// whether from an explicit verify or the background re-evaluation.
func (h *WSHandler) ReportStream(c *gin.Context) {
	student, err := h.studentService.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.Wrap(raw)
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wsLog := h.log.With().Int("student_id", student.ID).Logger()
	wsLog.Info().Msg("Report stream connected")

	sub := h.feed.Subscribe(ctx, student.ID)
	defer sub.Close()

	if err := h.sendLatest(ctx, conn, student.Email); err != nil {
		wsLog.Debug().Err(err).Msg("Snapshot write failed")
		return
	}

	go h.forward(conn, sub, wsLog)

	for {
		var msg ws.RequestEnvelope
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		case ws.ActionLatest:
			if err := h.sendLatest(ctx, conn, student.Email); err != nil {
				return
			}
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			conn.WriteError("unknown action: " + string(msg.Action))
		}
	}
}

// forward relays published reports until the subscription closes.
func (h *WSHandler) forward(conn *ws.Conn, sub *redis.PubSub, wsLog zerolog.Logger) {
	for msg := range sub.Channel() {
		var rec model.EligibilityRecord
		if err := json.Unmarshal([]byte(msg.Payload), &rec); err != nil {
			wsLog.Warn().Err(err).Msg("Dropping undecodable report event")
			continue
		}
		if err := conn.WriteTyped(ws.ReportResponse{Event: ws.EventReport, Report: &rec}); err != nil {
			wsLog.Debug().Err(err).Msg("Report write failed")
			return
		}
	}
}

func (h *WSHandler) sendLatest(ctx context.Context, conn *ws.Conn, email string) error {
	rec, err := h.eligibilityService.Results(ctx, email)
	if err != nil && !errors.Is(err, service.ErrNoResults) {
		h.log.Error().Err(err).Msg("Load latest report failed")
		return conn.WriteError("failed to load latest report")
	}
	return conn.WriteTyped(ws.ReportResponse{Event: ws.EventSnapshot, Report: rec})
}
