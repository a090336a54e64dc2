// Package memory holds the default, process-local persistence used when
// no database is configured: meeting records as a plain in-memory list.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/domain"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/repository"
)

// MeetingRepository is a mutex-guarded in-memory implementation of
// repository.MeetingRepository.
type MeetingRepository struct {
	mu           sync.RWMutex
	meetings     map[string]domain.Meeting
	participants map[string][]domain.MeetingParticipant
}

// NewMeetingRepository creates an empty in-memory repository.
func NewMeetingRepository() *MeetingRepository {
	return &MeetingRepository{
		meetings:     make(map[string]domain.Meeting),
		participants: make(map[string][]domain.MeetingParticipant),
	}
}

// Save inserts or updates the meeting record.
func (r *MeetingRepository) Save(_ context.Context, meeting *domain.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.meetings[meeting.ID]; ok {
		meeting.CreatedAt = existing.CreatedAt
	} else if meeting.CreatedAt.IsZero() {
		meeting.CreatedAt = now
	}
	meeting.UpdatedAt = now
	r.meetings[meeting.ID] = *meeting
	return nil
}

// FindByID returns a copy of the meeting record.
func (r *MeetingRepository) FindByID(_ context.Context, id string) (*domain.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meetings[id]
	if !ok {
		return nil, repository.ErrMeetingNotFound
	}
	copied := m
	return &copied, nil
}

// FindAll lists meetings, newest first.
func (r *MeetingRepository) FindAll(_ context.Context) ([]domain.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meetings := make([]domain.Meeting, 0, len(r.meetings))
	for _, m := range r.meetings {
		meetings = append(meetings, m)
	}
	sort.Slice(meetings, func(i, j int) bool {
		if meetings[i].CreatedAt.Equal(meetings[j].CreatedAt) {
			return meetings[i].ID < meetings[j].ID
		}
		return meetings[i].CreatedAt.After(meetings[j].CreatedAt)
	})
	return meetings, nil
}

// Delete removes the meeting and its registrations.
func (r *MeetingRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meetings[id]; !ok {
		return repository.ErrMeetingNotFound
	}
	delete(r.meetings, id)
	delete(r.participants, id)
	return nil
}

// AddParticipant appends one registration in join order.
func (r *MeetingRepository) AddParticipant(_ context.Context, p *domain.MeetingParticipant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now().UTC()
	}
	r.participants[p.MeetingID] = append(r.participants[p.MeetingID], *p)
	return nil
}

// ParticipantsByMeeting returns the registration list in join order.
func (r *MeetingRepository) ParticipantsByMeeting(_ context.Context, meetingID string) ([]domain.MeetingParticipant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.MeetingParticipant(nil), r.participants[meetingID]...), nil
}

// DeleteCreatedBefore purges meetings older than the cutoff.
func (r *MeetingRepository) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, m := range r.meetings {
		if m.CreatedAt.Before(cutoff) {
			delete(r.meetings, id)
			delete(r.participants, id)
			removed++
		}
	}
	return removed, nil
}
