package repository

import (
	"context"
	"time"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/domain"
)

// MeetingRepository stores meeting records and their registered
// participant lists. The realtime core only reads through it (naming
// theme lookup) and writes participant registrations; everything else
// serves the REST layer.
type MeetingRepository interface {
	// Save inserts the meeting, or updates it when the id exists.
	Save(ctx context.Context, meeting *domain.Meeting) error

	// FindByID returns the meeting or ErrMeetingNotFound.
	FindByID(ctx context.Context, id string) (*domain.Meeting, error)

	// FindAll lists meetings, newest first.
	FindAll(ctx context.Context) ([]domain.Meeting, error)

	// Delete removes the meeting and its participant registrations.
	// Deleting an absent meeting returns ErrMeetingNotFound.
	Delete(ctx context.Context, id string) error

	// AddParticipant appends one registration to the meeting's
	// non-realtime participant list.
	AddParticipant(ctx context.Context, p *domain.MeetingParticipant) error

	// ParticipantsByMeeting lists registrations in join order.
	ParticipantsByMeeting(ctx context.Context, meetingID string) ([]domain.MeetingParticipant, error)

	// DeleteCreatedBefore purges meetings older than the cutoff and
	// returns how many were removed. Used by the retention sweep.
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
