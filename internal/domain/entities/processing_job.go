package entities

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingJobStatus represents the status of a pipeline job
type ProcessingJobStatus string

const (
	ProcessingJobStatusPending    ProcessingJobStatus = "pending"    // Waiting for a worker
	ProcessingJobStatusProcessing ProcessingJobStatus = "processing" // Claimed by a worker
	ProcessingJobStatusCompleted  ProcessingJobStatus = "completed"  // Pipeline finished
	ProcessingJobStatusFailed     ProcessingJobStatus = "failed"     // Gave up; see LastError
	ProcessingJobStatusRetrying   ProcessingJobStatus = "retrying"   // Transient failure, will be re-claimed
)

// ProcessingJobStage selects which pipeline the worker runs
type ProcessingJobStage string

const (
	// ProcessingStageIngest runs the full pipeline: download transcript,
	// classify, generate, persist.
	ProcessingStageIngest ProcessingJobStage = "ingest"
	// ProcessingStageRegenerate re-runs classification and generation from
	// the stored transcript, replacing previous output.
	ProcessingStageRegenerate ProcessingJobStage = "regenerate"
)

// ProcessingJob is the durable unit of work that decouples webhook receipt
// from minutes generation. At most one active (pending/processing/retrying)
// job may exist per meeting; the database enforces this with a partial
// unique index.
type ProcessingJob struct {
	ID        uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID uuid.UUID          `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Stage     ProcessingJobStage `json:"stage" gorm:"type:varchar(50);not null;index"`

	Status ProcessingJobStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'pending'"`

	// Optional prompt override carried from a reprocess request
	PromptTemplateID *uuid.UUID `json:"prompt_template_id,omitempty" gorm:"type:uuid"`
	CustomPrompt     string     `json:"custom_prompt,omitempty" gorm:"type:text"`

	StartedAt   *time.Time `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`
	RetryCount  int        `json:"retry_count" gorm:"type:integer;default:0"`
	MaxRetries  int        `json:"max_retries" gorm:"type:integer;default:3"`
	LastError   *string    `json:"last_error,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewProcessingJob creates a pending job for a meeting
func NewProcessingJob(meetingID uuid.UUID, stage ProcessingJobStage) *ProcessingJob {
	return &ProcessingJob{
		ID:         uuid.New(),
		MeetingID:  meetingID,
		Stage:      stage,
		Status:     ProcessingJobStatusPending,
		RetryCount: 0,
		MaxRetries: 3,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// IsRetryable checks if the job has retry budget left
func (j *ProcessingJob) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries
}

// IsActive reports whether the job still occupies the per-meeting slot
func (j *ProcessingJob) IsActive() bool {
	switch j.Status {
	case ProcessingJobStatusPending, ProcessingJobStatusProcessing, ProcessingJobStatusRetrying:
		return true
	}
	return false
}

// MarkAsProcessing marks the job as claimed by a worker
func (j *ProcessingJob) MarkAsProcessing() {
	j.Status = ProcessingJobStatusProcessing
	now := time.Now()
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkAsCompleted marks the job as finished
func (j *ProcessingJob) MarkAsCompleted() {
	j.Status = ProcessingJobStatusCompleted
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkAsFailed marks the job as terminally failed
func (j *ProcessingJob) MarkAsFailed(errMsg string) {
	j.Status = ProcessingJobStatusFailed
	j.LastError = &errMsg
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// IncrementRetry records a transient failure and schedules re-claim
func (j *ProcessingJob) IncrementRetry(errMsg string) {
	j.RetryCount++
	j.Status = ProcessingJobStatusRetrying
	j.LastError = &errMsg
	j.UpdatedAt = time.Now()
}

// TableName specifies the table name for GORM
func (ProcessingJob) TableName() string {
	return "processing_jobs"
}
