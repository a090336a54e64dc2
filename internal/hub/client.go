package hub

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendQueueSize  = 256
)

// Client is one physical websocket connection bound to a logical
// participant. It implements domain.Sender: the room enqueues frames
// through it without ever touching the socket directly.
type Client struct {
	hub           *Hub
	conn          *websocket.Conn
	roomID        string
	participantID string

	send        chan []byte
	done        chan struct{}
	closeOnce   sync.Once
	closed      atomic.Bool
	connectedAt time.Time
	inbound     atomic.Int64
}

func newClient(h *Hub, conn *websocket.Conn, roomID, participantID string) *Client {
	return &Client{
		hub:           h,
		conn:          conn,
		roomID:        roomID,
		participantID: participantID,
		send:          make(chan []byte, sendQueueSize),
		done:          make(chan struct{}),
		connectedAt:   time.Now(),
	}
}

// Send enqueues one frame without blocking. A full queue means the
// reader is too slow; the frame is dropped and delivery moves on. The
// queue is never closed, so Send is safe against a concurrent close.
func (c *Client) Send(message []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- message:
		return true
	case <-c.done:
		return false
	default:
		logrus.WithFields(logrus.Fields{
			"room_id":        c.roomID,
			"participant_id": c.participantID,
		}).Warn("Send queue full, dropping frame")
		return false
	}
}

// Open reports whether the connection still accepts frames.
func (c *Client) Open() bool {
	return !c.closed.Load()
}

// InboundCount returns how many frames this connection has delivered.
func (c *Client) InboundCount() int64 {
	return c.inbound.Load()
}

// ConnectedFor returns how long this physical connection lasted.
func (c *Client) ConnectedFor() time.Duration {
	return time.Since(c.connectedAt)
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
	})
}

// readPump drains inbound frames and hands each to the hub in arrival
// order. It blocks until the connection drops, then triggers the
// disconnect path exactly once.
func (c *Client) readPump() {
	defer func() {
		c.hub.disconnect(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithFields(logrus.Fields{
					"room_id":        c.roomID,
					"participant_id": c.participantID,
					"error":          err.Error(),
				}).Warn("Websocket read failed")
			}
			return
		}
		c.inbound.Add(1)
		c.hub.handleMessage(c, message)
	}
}

// writePump flushes the send queue to the socket and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
