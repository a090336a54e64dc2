package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/service"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/tasks"
)

// MeetingRetentionHandler runs the periodic meeting purge.
type MeetingRetentionHandler struct {
	meetings *service.MeetingService
	maxAge   time.Duration
}

// NewMeetingRetentionHandler creates the handler. maxAge is the
// fallback window for tasks whose payload carries none.
func NewMeetingRetentionHandler(meetings *service.MeetingService, maxAge time.Duration) *MeetingRetentionHandler {
	if meetings == nil {
		panic("MeetingService cannot be nil for MeetingRetentionHandler")
	}
	return &MeetingRetentionHandler{meetings: meetings, maxAge: maxAge}
}

// ProcessTask implements asynq.Handler.
func (h *MeetingRetentionHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := logrus.WithField("task_type", t.Type())

	maxAge := h.maxAge
	var payload tasks.MeetingRetentionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err == nil && payload.MaxAge > 0 {
		maxAge = payload.MaxAge
	}

	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	removed, err := h.meetings.RetentionSweep(sweepCtx, maxAge)
	if err != nil {
		logCtx.WithError(err).Error("Meeting retention sweep failed")
		return fmt.Errorf("retention sweep: %w", err)
	}
	logCtx.WithField("removed", removed).Info("Meeting retention sweep completed")
	return nil
}
