package domain

import "time"

// Sender is the transport handle a Participant holds while connected.
// It is a non-owning reference: the hub owns the underlying connection,
// the room only uses it to enqueue outbound frames.
type Sender interface {
	// Send enqueues one serialized envelope without blocking.
	// It returns false when the frame was dropped (queue full or closed).
	Send(message []byte) bool
	// Open reports whether the connection is currently usable.
	Open() bool
}

// Participant is one human in a room, identified by its logical id
// rather than by a physical connection. The id and display name are
// stable across reconnects within the grace window.
type Participant struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	IsFacilitator bool      `json:"isFacilitator"`
	Connected     bool      `json:"connected"`
	JoinedAt      time.Time `json:"joinedAt"`

	// Conn is nil while the participant is disconnected but retained.
	Conn Sender `json:"-"`
}

// ParticipantInfo is the roster entry broadcast to clients.
type ParticipantInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	IsFacilitator bool   `json:"isFacilitator"`
	Connected     bool   `json:"connected"`
}

// Info returns the broadcastable view of the participant.
func (p *Participant) Info() ParticipantInfo {
	return ParticipantInfo{
		ID:            p.ID,
		Name:          p.Name,
		IsFacilitator: p.IsFacilitator,
		Connected:     p.Connected,
	}
}
