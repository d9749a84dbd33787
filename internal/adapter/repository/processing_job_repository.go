package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meeting-minutes-team/meeting-minutes/internal/domain/entities"
)

// ProcessingJobRepository handles pipeline job data operations
type ProcessingJobRepository struct {
	db *gorm.DB
}

// NewProcessingJobRepository creates a new processing job repository
func NewProcessingJobRepository(db *gorm.DB) *ProcessingJobRepository {
	return &ProcessingJobRepository{db: db}
}

// CreateJob enqueues a job. The partial unique index on (meeting_id) for
// active jobs makes this fail when the meeting already has work in flight;
// callers treat that conflict as "already queued".
func (r *ProcessingJobRepository) CreateJob(ctx context.Context, job *entities.ProcessingJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// GetJobByID retrieves a job by ID
func (r *ProcessingJobRepository) GetJobByID(ctx context.Context, jobID uuid.UUID) (*entities.ProcessingJob, error) {
	var job entities.ProcessingJob
	if err := r.db.WithContext(ctx).Where("id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// GetActiveJobByMeetingID retrieves the in-flight job for a meeting, if any
func (r *ProcessingJobRepository) GetActiveJobByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.ProcessingJob, error) {
	var job entities.ProcessingJob
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND status IN ?", meetingID, []entities.ProcessingJobStatus{
			entities.ProcessingJobStatusPending,
			entities.ProcessingJobStatusProcessing,
			entities.ProcessingJobStatusRetrying,
		}).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// GetJobsForProcessing retrieves claimable jobs oldest-first
func (r *ProcessingJobRepository) GetJobsForProcessing(ctx context.Context, limit int) ([]entities.ProcessingJob, error) {
	var jobs []entities.ProcessingJob
	if limit == 0 {
		limit = 10
	}
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []entities.ProcessingJobStatus{
			entities.ProcessingJobStatusPending,
			entities.ProcessingJobStatusRetrying,
		}).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// ClaimJob atomically transitions a job to processing. Returns false when
// another worker claimed it first; the compare-and-set on status is the
// only coordination workers need.
func (r *ProcessingJobRepository) ClaimJob(ctx context.Context, jobID uuid.UUID, fromStatus entities.ProcessingJobStatus) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("id = ? AND status = ?", jobID, fromStatus).
		Updates(map[string]interface{}{
			"status":     entities.ProcessingJobStatusProcessing,
			"started_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkJobAsCompleted marks a job as finished
func (r *ProcessingJobRepository) MarkJobAsCompleted(ctx context.Context, jobID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":       entities.ProcessingJobStatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// MarkJobAsFailed marks a job as terminally failed
func (r *ProcessingJobRepository) MarkJobAsFailed(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":       entities.ProcessingJobStatusFailed,
			"last_error":   errMsg,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// IncrementRetryCount records a transient failure and returns the job to
// the claimable pool
func (r *ProcessingJobRepository) IncrementRetryCount(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	return r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"retry_count": gorm.Expr("retry_count + 1"),
			"status":      entities.ProcessingJobStatusRetrying,
			"last_error":  errMsg,
			"updated_at":  time.Now(),
		}).Error
}

// GetStuckJobs retrieves jobs stuck in processing longer than maxAge.
// A worker that died mid-job leaves its row in processing forever; the
// zombie sweep feeds those back through retry accounting.
func (r *ProcessingJobRepository) GetStuckJobs(ctx context.Context, maxAge time.Duration, limit int) ([]entities.ProcessingJob, error) {
	var jobs []entities.ProcessingJob
	if limit == 0 {
		limit = 10
	}
	cutoff := time.Now().Add(-maxAge)
	if err := r.db.WithContext(ctx).
		Where("status = ? AND started_at < ?", entities.ProcessingJobStatusProcessing, cutoff).
		Order("started_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}
