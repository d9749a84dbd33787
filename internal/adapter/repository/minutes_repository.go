package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meeting-minutes-team/meeting-minutes/internal/domain/entities"
)

// MinutesRepository handles minutes and action item persistence
type MinutesRepository struct {
	db *gorm.DB
}

// NewMinutesRepository creates a new minutes repository
func NewMinutesRepository(db *gorm.DB) *MinutesRepository {
	return &MinutesRepository{db: db}
}

// ReplaceMinutes atomically swaps in the generated output for a meeting:
// previous minutes and action items are deleted, the new documents are
// inserted, and the meeting is marked completed -- all in one transaction.
// A failure at any step rolls back the whole swap, so readers never observe
// half-written output and the operation is safe to re-run.
func (r *MinutesRepository) ReplaceMinutes(ctx context.Context, minutes *entities.Minutes, actionItems []entities.ActionItem) error {
	if minutes == nil {
		return errors.New("minutes cannot be nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", minutes.MeetingID).Delete(&entities.Minutes{}).Error; err != nil {
			return err
		}
		if err := tx.Where("meeting_id = ?", minutes.MeetingID).Delete(&entities.ActionItem{}).Error; err != nil {
			return err
		}
		if err := tx.Create(minutes).Error; err != nil {
			return err
		}
		if len(actionItems) > 0 {
			if err := tx.Create(&actionItems).Error; err != nil {
				return err
			}
		}
		return tx.Model(&entities.Meeting{}).
			Where("id = ?", minutes.MeetingID).
			Updates(map[string]interface{}{
				"status":           entities.MeetingStatusCompleted,
				"processing_error": nil,
				"updated_at":       time.Now(),
			}).Error
	})
}

// GetMinutesByMeetingID retrieves the minutes for a meeting
func (r *MinutesRepository) GetMinutesByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Minutes, error) {
	var minutes entities.Minutes
	if err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&minutes).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &minutes, nil
}

// ListActionItemsByMeetingID retrieves action items in generator order
func (r *MinutesRepository) ListActionItemsByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entities.ActionItem, error) {
	var items []entities.ActionItem
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("position ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteMinutesByMeetingID removes minutes and action items for a meeting
func (r *MinutesRepository) DeleteMinutesByMeetingID(ctx context.Context, meetingID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", meetingID).Delete(&entities.Minutes{}).Error; err != nil {
			return err
		}
		return tx.Where("meeting_id = ?", meetingID).Delete(&entities.ActionItem{}).Error
	})
}
