package hub

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type pendingRetirement struct {
	roomID        string
	participantID string
	expiresAt     time.Time
	timer         *time.Timer
	retire        func()
}

type registryKey struct {
	roomID        string
	participantID string
}

// DisconnectRegistry tracks participants whose connection dropped but
// whose room slot is retained for a grace window. Each entry holds a
// cancellable timer; a periodic sweep backstops timers that were
// stopped without firing.
type DisconnectRegistry struct {
	mu      sync.Mutex
	pending map[registryKey]*pendingRetirement
	done    chan struct{}
	once    sync.Once
}

// NewDisconnectRegistry starts the registry and its sweep loop.
func NewDisconnectRegistry(sweepInterval time.Duration) *DisconnectRegistry {
	r := &DisconnectRegistry{
		pending: make(map[registryKey]*pendingRetirement),
		done:    make(chan struct{}),
	}
	go r.sweepLoop(sweepInterval)
	return r
}

// Schedule arms a retirement for the participant after the grace
// window. Re-scheduling an already pending participant replaces the
// earlier deadline.
func (r *DisconnectRegistry) Schedule(roomID, participantID string, grace time.Duration, retire func()) {
	key := registryKey{roomID: roomID, participantID: participantID}

	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.pending[key]; ok {
		old.timer.Stop()
	}
	entry := &pendingRetirement{
		roomID:        roomID,
		participantID: participantID,
		expiresAt:     time.Now().Add(grace),
		retire:        retire,
	}
	entry.timer = time.AfterFunc(grace, func() {
		r.fire(key)
	})
	r.pending[key] = entry
}

// Cancel removes the pending retirement if it has not fired yet. It
// returns true when the participant was in the grace window, which is
// the signal that an incoming connection is a reconnect.
func (r *DisconnectRegistry) Cancel(roomID, participantID string) bool {
	key := registryKey{roomID: roomID, participantID: participantID}

	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.pending[key]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(r.pending, key)
	return true
}

// Pending reports whether the participant is currently in a grace window.
func (r *DisconnectRegistry) Pending(roomID, participantID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pending[registryKey{roomID: roomID, participantID: participantID}]
	return ok
}

// Stop halts the sweep loop and cancels every pending timer without
// retiring anyone.
func (r *DisconnectRegistry) Stop() {
	r.once.Do(func() { close(r.done) })

	r.mu.Lock()
	defer r.mu.Unlock()
	for key, entry := range r.pending {
		entry.timer.Stop()
		delete(r.pending, key)
	}
}

func (r *DisconnectRegistry) fire(key registryKey) {
	r.mu.Lock()
	entry, ok := r.pending[key]
	if ok {
		delete(r.pending, key)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	entry.retire()
}

func (r *DisconnectRegistry) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.sweep(time.Now())
		}
	}
}

// sweep retires entries whose deadline passed without the timer
// firing. Under normal operation it finds nothing.
func (r *DisconnectRegistry) sweep(now time.Time) {
	r.mu.Lock()
	var expired []*pendingRetirement
	for key, entry := range r.pending {
		if now.After(entry.expiresAt) {
			entry.timer.Stop()
			delete(r.pending, key)
			expired = append(expired, entry)
		}
	}
	r.mu.Unlock()

	for _, entry := range expired {
		logrus.WithFields(logrus.Fields{
			"room_id":        entry.roomID,
			"participant_id": entry.participantID,
		}).Warn("Sweep retired participant missed by its timer")
		entry.retire()
	}
}
