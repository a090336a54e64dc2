// Package websocket exposes the realtime entry point: it validates and
// filters the upgrade request, then hands the socket to the hub.
package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/hub"
)

// Handler upgrades meeting connections.
type Handler struct {
	upgrader websocket.Upgrader
	hub      *hub.Hub
	isBot    BotPolicy
}

// NewHandler creates the websocket handler. A nil policy falls back to
// DefaultBotPolicy.
func NewHandler(h *hub.Hub, isBot BotPolicy) *Handler {
	if h == nil {
		panic("hub cannot be nil for websocket Handler")
	}
	if isBot == nil {
		isBot = DefaultBotPolicy
	}
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The meeting id is the only credential; origins stay open.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		hub:   h,
		isBot: isBot,
	}
}

// HandleConnection serves GET /ws/meeting/:meetingId. The optional
// participantId query parameter carries the client's previous identity
// for reconnects. Bots and malformed meeting ids are rejected with an
// HTTP status before any upgrade happens.
func (h *Handler) HandleConnection(c *gin.Context) {
	meetingID := c.Param("meetingId")
	logCtx := logrus.WithField("room_id", meetingID)

	if _, err := uuid.Parse(meetingID); err != nil {
		logCtx.WithError(err).Warn("Rejecting connection with malformed meeting id")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid meeting ID format"})
		return
	}

	if userAgent := c.GetHeader("User-Agent"); h.isBot(userAgent) {
		logCtx.WithField("user_agent", userAgent).Info("Rejecting automated agent")
		c.JSON(http.StatusForbidden, gin.H{"error": "Automated agents are not allowed"})
		return
	}

	participantID := c.Query("participantId")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logCtx.WithError(err).Error("Failed to upgrade connection")
		return
	}

	h.hub.Connect(c.Request.Context(), meetingID, participantID, conn)
}
