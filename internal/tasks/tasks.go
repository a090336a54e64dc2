// Package tasks defines the asynq task types and their payloads.
package tasks

import (
	"encoding/json"
	"time"
)

// Task type constants.
const (
	// TypeMeetingRetention purges meeting records older than the
	// configured retention period.
	TypeMeetingRetention = "meeting:retention"
)

// MeetingRetentionPayload carries the retention window for one sweep.
type MeetingRetentionPayload struct {
	MaxAge time.Duration `json:"maxAge"`
}

// NewMeetingRetentionPayload serializes the sweep parameters.
func NewMeetingRetentionPayload(maxAge time.Duration) ([]byte, error) {
	return json.Marshal(MeetingRetentionPayload{MaxAge: maxAge})
}
