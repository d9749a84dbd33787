package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meeting-minutes-team/meeting-minutes/internal/domain/entities"
)

// MeetingRepository defines persistence operations for meetings
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, meeting *entities.Meeting) error
	GetMeetingByID(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error)
	GetMeetingByZoomUUID(ctx context.Context, zoomUUID string) (*entities.Meeting, error)
	UpdateMeetingStatus(ctx context.Context, meetingID uuid.UUID, status entities.MeetingStatus) error
	MarkMeetingAsFailed(ctx context.Context, meetingID uuid.UUID, errMsg string) error
	UpdateClassification(ctx context.Context, meetingID uuid.UUID, meetingType entities.MeetingType, subType string, stage entities.InterviewStage) error
}

// TranscriptRepository defines persistence operations for transcripts
type TranscriptRepository interface {
	SaveTranscript(ctx context.Context, transcript *entities.Transcript) error
	GetTranscriptByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error)
}

// MinutesRepository defines persistence operations for generated output
type MinutesRepository interface {
	ReplaceMinutes(ctx context.Context, minutes *entities.Minutes, actionItems []entities.ActionItem) error
	GetMinutesByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Minutes, error)
}

// ProcessingJobRepository defines persistence operations for the durable
// job queue
type ProcessingJobRepository interface {
	CreateJob(ctx context.Context, job *entities.ProcessingJob) error
	GetJobsForProcessing(ctx context.Context, limit int) ([]entities.ProcessingJob, error)
	ClaimJob(ctx context.Context, jobID uuid.UUID, fromStatus entities.ProcessingJobStatus) (bool, error)
	MarkJobAsCompleted(ctx context.Context, jobID uuid.UUID) error
	MarkJobAsFailed(ctx context.Context, jobID uuid.UUID, errMsg string) error
	IncrementRetryCount(ctx context.Context, jobID uuid.UUID, errMsg string) error
	GetStuckJobs(ctx context.Context, maxAge time.Duration, limit int) ([]entities.ProcessingJob, error)
}

// PromptRepository defines persistence operations for prompt templates
type PromptRepository interface {
	GetPromptByID(ctx context.Context, promptID uuid.UUID) (*entities.PromptTemplate, error)
}
