// Package gormpersistence implements the meeting repository on gorm.
// It is an optional backend: meetings survive restarts, while realtime
// room state intentionally never touches it.
package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/domain"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/repository"
)

// MeetingRepository persists meeting records through gorm.
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository wraps the given gorm handle.
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	if db == nil {
		panic("gorm DB cannot be nil for MeetingRepository")
	}
	return &MeetingRepository{db: db}
}

// Save inserts or updates the meeting record.
func (r *MeetingRepository) Save(ctx context.Context, meeting *domain.Meeting) error {
	err := r.db.WithContext(ctx).Save(meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("save meeting: %w", err)
	}
	return nil
}

// FindByID returns the meeting or repository.ErrMeetingNotFound.
func (r *MeetingRepository) FindByID(ctx context.Context, id string) (*domain.Meeting, error) {
	var meeting domain.Meeting
	err := r.db.WithContext(ctx).First(&meeting, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("find meeting by id: %w", err)
	}
	return &meeting, nil
}

// FindAll lists meetings, newest first.
func (r *MeetingRepository) FindAll(ctx context.Context) ([]domain.Meeting, error) {
	var meetings []domain.Meeting
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&meetings).Error
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	return meetings, nil
}

// Delete removes the meeting and its participant registrations.
func (r *MeetingRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Meeting{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete meeting: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return repository.ErrMeetingNotFound
		}
		if err := tx.Delete(&domain.MeetingParticipant{}, "meeting_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete meeting participants: %w", err)
		}
		return nil
	})
}

// AddParticipant appends one registration row.
func (r *MeetingRepository) AddParticipant(ctx context.Context, p *domain.MeetingParticipant) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("add meeting participant: %w", err)
	}
	return nil
}

// ParticipantsByMeeting lists registrations in join order.
func (r *MeetingRepository) ParticipantsByMeeting(ctx context.Context, meetingID string) ([]domain.MeetingParticipant, error) {
	var participants []domain.MeetingParticipant
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("joined_at ASC, id ASC").
		Find(&participants).Error
	if err != nil {
		return nil, fmt.Errorf("list meeting participants: %w", err)
	}
	return participants, nil
}

// DeleteCreatedBefore purges meetings older than the cutoff.
func (r *MeetingRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&domain.Meeting{}).
			Where("created_at < ?", cutoff).
			Pluck("id", &ids).Error; err != nil {
			return fmt.Errorf("select expired meetings: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}
		res := tx.Delete(&domain.Meeting{}, "id IN ?", ids)
		if res.Error != nil {
			return fmt.Errorf("delete expired meetings: %w", res.Error)
		}
		removed = res.RowsAffected
		if err := tx.Delete(&domain.MeetingParticipant{}, "meeting_id IN ?", ids).Error; err != nil {
			return fmt.Errorf("delete expired registrations: %w", err)
		}
		return nil
	})
	return removed, err
}
