package hub

import "time"

// Timeouts groups the tunable disconnect thresholds so tests can run
// the full lifecycle with short windows.
type Timeouts struct {
	// QuickDisconnect bounds the probe window: a connection that drops
	// within it having sent nothing is retired immediately.
	QuickDisconnect time.Duration
	// IdleGrace is the reconnect window for participants that never
	// sent an event on their last connection.
	IdleGrace time.Duration
	// InteractiveGrace is the longer reconnect window for participants
	// that were actively contributing.
	InteractiveGrace time.Duration
	// SweepInterval drives the registry's periodic backstop sweep.
	SweepInterval time.Duration
}

// DefaultTimeouts returns the production thresholds.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		QuickDisconnect:  5 * time.Second,
		IdleGrace:        10 * time.Second,
		InteractiveGrace: 30 * time.Second,
		SweepInterval:    30 * time.Second,
	}
}
