package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/domain"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/repository"
)

// MeetingService owns the durable meeting records and the per-meeting
// settings the realtime core reads at room creation time.
type MeetingService struct {
	repo      repository.MeetingRepository
	templates *TemplateService
}

// NewMeetingService wires the repository and template catalog.
func NewMeetingService(repo repository.MeetingRepository, templates *TemplateService) *MeetingService {
	if repo == nil {
		panic("meeting repository cannot be nil")
	}
	if templates == nil {
		panic("template service cannot be nil")
	}
	return &MeetingService{repo: repo, templates: templates}
}

// CreateMeeting registers a new meeting. Unknown template IDs fall
// back to the first built-in template rather than failing the call.
func (s *MeetingService) CreateMeeting(ctx context.Context, name, templateID, nameTheme string) (*domain.Meeting, error) {
	if _, err := s.templates.FindByID(templateID); err != nil {
		logrus.WithFields(logrus.Fields{
			"template_id": templateID,
			"name":        name,
		}).Warn("Unknown template on meeting creation, using default")
		templateID = builtInTemplates()[0].ID
	}

	meeting := &domain.Meeting{
		ID:         uuid.NewString(),
		Name:       name,
		TemplateID: templateID,
		NameTheme:  nameTheme,
	}
	if err := s.repo.Save(ctx, meeting); err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"meeting_id":  meeting.ID,
		"template_id": meeting.TemplateID,
	}).Info("Meeting created")
	return meeting, nil
}

// GetMeeting returns one meeting record.
func (s *MeetingService) GetMeeting(ctx context.Context, id string) (*domain.Meeting, error) {
	meeting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMeetingNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	return meeting, nil
}

// ListMeetings returns every meeting record, newest first.
func (s *MeetingService) ListMeetings(ctx context.Context) ([]domain.Meeting, error) {
	meetings, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	return meetings, nil
}

// DeleteMeeting removes a meeting record and its registrations.
func (s *MeetingService) DeleteMeeting(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMeetingNotFound) {
			return ErrMeetingNotFound
		}
		return fmt.Errorf("delete meeting: %w", err)
	}
	logrus.WithField("meeting_id", id).Info("Meeting deleted")
	return nil
}

// RegisterParticipant records that a participant joined the meeting.
// Called by the session core on each fresh join; failures are the
// caller's to log, the realtime path must not depend on them.
func (s *MeetingService) RegisterParticipant(ctx context.Context, meetingID, participantID, name string) error {
	p := &domain.MeetingParticipant{
		MeetingID:     meetingID,
		ParticipantID: participantID,
		Name:          name,
		JoinedAt:      time.Now().UTC(),
	}
	if err := s.repo.AddParticipant(ctx, p); err != nil {
		return fmt.Errorf("register participant: %w", err)
	}
	return nil
}

// ListParticipants returns the meeting's registration history.
func (s *MeetingService) ListParticipants(ctx context.Context, meetingID string) ([]domain.MeetingParticipant, error) {
	participants, err := s.repo.ParticipantsByMeeting(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return participants, nil
}

// SessionConfig resolves the naming theme and icebreaker questions for
// a meeting's room. Absent meetings and unknown templates resolve to
// defaults: a socket join must never fail on missing metadata.
func (s *MeetingService) SessionConfig(ctx context.Context, meetingID string) (theme string, questions []string) {
	questions = domain.DefaultIcebreakerQuestions

	meeting, err := s.repo.FindByID(ctx, meetingID)
	if err != nil {
		if !errors.Is(err, repository.ErrMeetingNotFound) {
			logrus.WithError(err).WithField("meeting_id", meetingID).
				Warn("Failed to load meeting for session config")
		}
		return "", questions
	}

	theme = meeting.NameTheme
	if tmpl, err := s.templates.FindByID(meeting.TemplateID); err == nil && len(tmpl.IcebreakerQuestions) > 0 {
		questions = tmpl.IcebreakerQuestions
	}
	return theme, questions
}

// RetentionSweep deletes meetings created before now minus maxAge and
// returns how many were removed. Driven by the background worker.
func (s *MeetingService) RetentionSweep(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	removed, err := s.repo.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("retention sweep: %w", err)
	}
	if removed > 0 {
		logrus.WithFields(logrus.Fields{
			"removed": removed,
			"cutoff":  cutoff.Format(time.RFC3339),
		}).Info("Retention sweep removed expired meetings")
	}
	return removed, nil
}
