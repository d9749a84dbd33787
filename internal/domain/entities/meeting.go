package entities

import (
	"time"

	"github.com/google/uuid"
)

// MeetingStatus tracks a meeting through the minutes pipeline
type MeetingStatus string

const (
	MeetingStatusPending    MeetingStatus = "pending"    // Webhook received, not yet picked up
	MeetingStatusProcessing MeetingStatus = "processing" // Transcript fetch / generation in progress
	MeetingStatusCompleted  MeetingStatus = "completed"  // Minutes and action items persisted
	MeetingStatusFailed     MeetingStatus = "failed"     // Pipeline gave up; see ProcessingError
)

// MeetingType is the classified category of a meeting
type MeetingType string

const (
	MeetingTypeInterview    MeetingType = "interview"
	MeetingTypeInternal     MeetingType = "internal_meeting"
	MeetingTypeClient       MeetingType = "client_meeting"
	MeetingTypeOneOnOne     MeetingType = "one_on_one"
	MeetingTypeTraining     MeetingType = "training"
	MeetingTypePresentation MeetingType = "presentation"
	MeetingTypeOther        MeetingType = "other"
)

// InterviewStage distinguishes interview rounds
type InterviewStage string

const (
	InterviewStageFirst  InterviewStage = "first"
	InterviewStageSecond InterviewStage = "second"
	InterviewStageFinal  InterviewStage = "final"
	InterviewStageOther  InterviewStage = "other"
)

// ValidMeetingType reports whether t is one of the known categories.
func ValidMeetingType(t MeetingType) bool {
	switch t {
	case MeetingTypeInterview, MeetingTypeInternal, MeetingTypeClient,
		MeetingTypeOneOnOne, MeetingTypeTraining, MeetingTypePresentation, MeetingTypeOther:
		return true
	}
	return false
}

// ValidInterviewStage reports whether s is a known interview stage.
func ValidInterviewStage(s InterviewStage) bool {
	switch s {
	case InterviewStageFirst, InterviewStageSecond, InterviewStageFinal, InterviewStageOther:
		return true
	}
	return false
}

// Meeting is one recorded meeting ingested from a provider webhook.
// ZoomUUID is the provider's per-occurrence identifier and is the
// deduplication key for redelivered webhooks.
type Meeting struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ZoomMeetingID   int64     `json:"zoom_meeting_id" gorm:"type:bigint;not null;index"`
	ZoomUUID        string    `json:"zoom_uuid" gorm:"type:varchar(255);not null;uniqueIndex"`
	ZoomRecordingID string    `json:"zoom_recording_id" gorm:"type:varchar(255)"`
	Topic           string    `json:"topic" gorm:"type:text;not null"`
	HostID          string    `json:"host_id" gorm:"type:varchar(255)"`
	HostEmail       string    `json:"host_email" gorm:"type:varchar(320)"`
	StartTime       time.Time `json:"start_time" gorm:"type:timestamp"`
	Duration        int       `json:"duration" gorm:"type:integer"` // minutes
	ShareURL        string    `json:"share_url" gorm:"type:text"`
	DownloadURL     string    `json:"download_url" gorm:"type:text"`
	DownloadToken   string    `json:"-" gorm:"type:text"` // short-lived, never serialized out

	Status          MeetingStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'pending'"`
	ProcessingError *string       `json:"processing_error,omitempty" gorm:"type:text"`

	// Classification result, empty until the pipeline runs
	MeetingType    MeetingType    `json:"meeting_type,omitempty" gorm:"type:varchar(50);index"`
	MeetingSubType string         `json:"meeting_sub_type,omitempty" gorm:"type:varchar(100)"`
	InterviewStage InterviewStage `json:"interview_stage,omitempty" gorm:"type:varchar(50)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewMeeting creates a pending meeting from webhook fields
func NewMeeting(zoomMeetingID int64, zoomUUID, topic string) *Meeting {
	return &Meeting{
		ID:            uuid.New(),
		ZoomMeetingID: zoomMeetingID,
		ZoomUUID:      zoomUUID,
		Topic:         topic,
		Status:        MeetingStatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

// MarkAsProcessing marks the meeting as picked up by a worker
func (m *Meeting) MarkAsProcessing() {
	m.Status = MeetingStatusProcessing
	m.ProcessingError = nil
	m.UpdatedAt = time.Now()
}

// MarkAsCompleted records successful minutes generation
func (m *Meeting) MarkAsCompleted() {
	m.Status = MeetingStatusCompleted
	m.ProcessingError = nil
	m.UpdatedAt = time.Now()
}

// MarkAsFailed records a terminal pipeline failure
func (m *Meeting) MarkAsFailed(errMsg string) {
	m.Status = MeetingStatusFailed
	m.ProcessingError = &errMsg
	m.UpdatedAt = time.Now()
}

// SetClassification stores the classifier verdict
func (m *Meeting) SetClassification(t MeetingType, subType string, stage InterviewStage) {
	m.MeetingType = t
	m.MeetingSubType = subType
	m.InterviewStage = stage
	m.UpdatedAt = time.Now()
}

// CanReprocess reports whether the meeting holds enough state to be
// regenerated. Only terminal states qualify; a meeting mid-pipeline
// must not be raced.
func (m *Meeting) CanReprocess() bool {
	return m.Status == MeetingStatusCompleted || m.Status == MeetingStatusFailed
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}
