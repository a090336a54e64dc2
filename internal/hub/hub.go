// Package hub owns the realtime side of the server: one Room per live
// meeting, the websocket connections attached to it, and the
// disconnect/reconnect lifecycle around them.
package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/domain"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/namegen"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/protocol"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/service"
)

// Hub is the connection lifecycle manager. Rooms are created on first
// join and destroyed when the last participant retires.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]*domain.Room

	sessions *service.SessionService
	meetings *service.MeetingService
	names    *namegen.Allocator
	registry *DisconnectRegistry
	timeouts Timeouts
}

// NewHub wires the hub. The registry's sweep loop starts immediately.
func NewHub(sessions *service.SessionService, meetings *service.MeetingService, names *namegen.Allocator, timeouts Timeouts) *Hub {
	return &Hub{
		rooms:    make(map[string]*domain.Room),
		sessions: sessions,
		meetings: meetings,
		names:    names,
		registry: NewDisconnectRegistry(timeouts.SweepInterval),
		timeouts: timeouts,
	}
}

// Shutdown stops the background lifecycle machinery. Pending grace
// windows are dropped without retiring anyone.
func (h *Hub) Shutdown() {
	h.registry.Stop()
}

// Room returns the live room for a meeting, if one exists.
func (h *Hub) Room(meetingID string) (*domain.Room, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[meetingID]
	return room, ok
}

// RoomCount returns how many rooms are currently live.
func (h *Hub) RoomCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

func (h *Hub) getOrCreateRoom(ctx context.Context, meetingID string) *domain.Room {
	h.mu.Lock()
	if room, ok := h.rooms[meetingID]; ok {
		h.mu.Unlock()
		return room
	}
	h.mu.Unlock()

	// Resolve settings outside the hub lock: the meeting lookup may
	// touch a database.
	theme, questions := h.meetings.SessionConfig(ctx, meetingID)

	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[meetingID]; ok {
		return room
	}
	h.names.ConfigureTheme(meetingID, theme)
	room := domain.NewRoom(meetingID, questions)
	h.rooms[meetingID] = room
	logrus.WithFields(logrus.Fields{
		"room_id": meetingID,
		"theme":   theme,
	}).Info("Room created")
	return room
}

// Connect attaches one upgraded websocket to a meeting's room and runs
// its read loop until the connection drops. requestedID carries the
// client's previous participant id, empty for a first visit; an id the
// room no longer knows yields a fresh identity.
func (h *Hub) Connect(ctx context.Context, meetingID, requestedID string, conn *websocket.Conn) {
	client := newClient(h, conn, meetingID, "")

	var (
		room              *domain.Room
		p                 *domain.Participant
		becameFacilitator bool
		isReconnection    bool
	)
	for {
		room = h.getOrCreateRoom(ctx, meetingID)
		if requestedID != "" {
			h.registry.Cancel(meetingID, requestedID)
			if rp, became, ok := room.Reconnect(requestedID, client); ok {
				p, becameFacilitator, isReconnection = rp, became, true
				break
			}
		}
		joiner := &domain.Participant{
			ID:       uuid.NewString(),
			Name:     h.names.Allocate(meetingID),
			JoinedAt: time.Now().UTC(),
		}
		became, ok := room.Join(joiner, client)
		if ok {
			p, becameFacilitator = joiner, became
			if err := h.meetings.RegisterParticipant(ctx, meetingID, p.ID, p.Name); err != nil {
				// Registration is bookkeeping; the session goes on.
				logrus.WithError(err).WithField("room_id", meetingID).
					Warn("Failed to record participant registration")
			}
			break
		}
		// The last retained participant's grace timer fired between the
		// room lookup and the attach, sealing the aggregate. Resolve
		// again; the next pass gets a fresh room.
	}
	client.participantID = p.ID

	logrus.WithFields(logrus.Fields{
		"room_id":        meetingID,
		"participant_id": p.ID,
		"name":           p.Name,
		"reconnection":   isReconnection,
		"facilitator":    p.IsFacilitator,
	}).Info("Participant connected")

	go client.writePump()

	h.sendJSON(client, protocol.UserJoined{
		Type:           protocol.TypeUserJoined,
		ParticipantID:  p.ID,
		Name:           p.Name,
		IsFacilitator:  p.IsFacilitator,
		IsReconnection: isReconnection,
		State:          room.Snapshot(),
	})
	h.broadcastRoster(room)
	if becameFacilitator {
		h.sendToParticipant(room, p.ID, protocol.CreatorAssigned{
			Type:          protocol.TypeCreatorAssigned,
			ParticipantID: p.ID,
		})
	}

	client.readPump()
}

// handleMessage applies one inbound frame. Called from the client's
// read loop, so frames of one connection are processed in arrival order.
func (h *Hub) handleMessage(c *Client, raw []byte) {
	room, ok := h.Room(c.roomID)
	if !ok {
		return
	}
	broadcasts := h.sessions.HandleEnvelope(room, c.participantID, raw)
	h.deliver(room, c.participantID, broadcasts)
}

func (h *Hub) deliver(room *domain.Room, senderID string, broadcasts []service.Broadcast) {
	for _, b := range broadcasts {
		payload, err := json.Marshal(b.Message)
		if err != nil {
			logrus.WithError(err).WithField("room_id", room.ID).
				Error("Failed to marshal outbound envelope")
			continue
		}
		switch b.Fanout {
		case service.FanoutAll:
			for _, s := range room.ConnectedSenders("") {
				s.Send(payload)
			}
		case service.FanoutExceptSender:
			for _, s := range room.ConnectedSenders(senderID) {
				s.Send(payload)
			}
		case service.FanoutParticipant:
			if s, ok := room.SenderOf(b.TargetID); ok {
				s.Send(payload)
			}
		}
	}
}

// disconnect handles one dropped connection: retire immediately for
// bounce-probes, otherwise retain the slot for the grace window.
func (h *Hub) disconnect(c *Client) {
	c.close()
	if c.participantID == "" {
		return
	}
	room, ok := h.Room(c.roomID)
	if !ok {
		return
	}
	// A reconnect may already have replaced this connection; the slot
	// then belongs to the newer one.
	if s, open := room.SenderOf(c.participantID); open && s != domain.Sender(c) {
		return
	}
	room.Detach(c.participantID)

	if c.ConnectedFor() < h.timeouts.QuickDisconnect && c.InboundCount() == 0 {
		logrus.WithFields(logrus.Fields{
			"room_id":        c.roomID,
			"participant_id": c.participantID,
		}).Info("Quick disconnect, retiring immediately")
		h.retire(c.roomID, c.participantID)
		return
	}

	grace := h.timeouts.IdleGrace
	if c.InboundCount() > 0 {
		grace = h.timeouts.InteractiveGrace
	}
	roomID, participantID := c.roomID, c.participantID
	h.registry.Schedule(roomID, participantID, grace, func() {
		h.retire(roomID, participantID)
	})
	logrus.WithFields(logrus.Fields{
		"room_id":        roomID,
		"participant_id": participantID,
		"grace":          grace.String(),
	}).Info("Participant disconnected, grace window armed")
	h.broadcastRoster(room)
}

// retire removes the participant for good, releasing their name and
// destroying the room when it empties.
func (h *Hub) retire(roomID, participantID string) {
	room, ok := h.Room(roomID)
	if !ok {
		return
	}
	name, empty := room.Retire(participantID)
	logrus.WithFields(logrus.Fields{
		"room_id":        roomID,
		"participant_id": participantID,
		"name":           name,
	}).Info("Participant retired")

	if empty {
		h.mu.Lock()
		if h.rooms[roomID] == room {
			delete(h.rooms, roomID)
		}
		h.mu.Unlock()
		h.names.ReleaseAll(roomID)
		logrus.WithField("room_id", roomID).Info("Room destroyed")
		return
	}
	h.broadcastRoster(room)
}

func (h *Hub) broadcastRoster(room *domain.Room) {
	update := protocol.ParticipantsUpdate{
		Type:         protocol.TypeParticipantsUpdate,
		Participants: room.Roster(),
	}
	payload, err := json.Marshal(update)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal roster update")
		return
	}
	for _, s := range room.ConnectedSenders("") {
		s.Send(payload)
	}
}

func (h *Hub) sendJSON(c *Client, message any) {
	payload, err := json.Marshal(message)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal envelope")
		return
	}
	c.Send(payload)
}

func (h *Hub) sendToParticipant(room *domain.Room, participantID string, message any) {
	payload, err := json.Marshal(message)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal envelope")
		return
	}
	if s, ok := room.SenderOf(participantID); ok {
		s.Send(payload)
	}
}
