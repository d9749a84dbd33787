package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meeting-minutes-team/meeting-minutes/internal/domain/entities"
)

// MeetingRepository handles meeting data operations
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// CreateMeeting creates a new meeting
func (r *MeetingRepository) CreateMeeting(ctx context.Context, meeting *entities.Meeting) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	return r.db.WithContext(ctx).Create(meeting).Error
}

// GetMeetingByID retrieves a meeting by ID
func (r *MeetingRepository) GetMeetingByID(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", meetingID).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// GetMeetingByZoomUUID retrieves a meeting by the provider's per-occurrence UUID
func (r *MeetingRepository) GetMeetingByZoomUUID(ctx context.Context, zoomUUID string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("zoom_uuid = ?", zoomUUID).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// ListMeetings retrieves meetings newest-first with optional status filter
func (r *MeetingRepository) ListMeetings(ctx context.Context, status entities.MeetingStatus, limit, offset int) ([]entities.Meeting, int64, error) {
	var (
		meetings []entities.Meeting
		total    int64
	)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := r.db.WithContext(ctx).Model(&entities.Meeting{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.
		Order("start_time DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&meetings).Error; err != nil {
		return nil, 0, err
	}
	return meetings, total, nil
}

// UpdateMeeting persists all fields of a meeting
func (r *MeetingRepository) UpdateMeeting(ctx context.Context, meeting *entities.Meeting) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", meeting.ID).
		Save(meeting).Error
}

// UpdateMeetingStatus updates only the status column
func (r *MeetingRepository) UpdateMeetingStatus(ctx context.Context, meetingID uuid.UUID, status entities.MeetingStatus) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", meetingID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// MarkMeetingAsFailed records a terminal failure with its reason
func (r *MeetingRepository) MarkMeetingAsFailed(ctx context.Context, meetingID uuid.UUID, errMsg string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", meetingID).
		Updates(map[string]interface{}{
			"status":           entities.MeetingStatusFailed,
			"processing_error": errMsg,
			"updated_at":       time.Now(),
		}).Error
}

// UpdateClassification stores the classifier verdict on the meeting row
func (r *MeetingRepository) UpdateClassification(ctx context.Context, meetingID uuid.UUID, meetingType entities.MeetingType, subType string, stage entities.InterviewStage) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", meetingID).
		Updates(map[string]interface{}{
			"meeting_type":     meetingType,
			"meeting_sub_type": subType,
			"interview_stage":  stage,
			"updated_at":       time.Now(),
		}).Error
}
