package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EvaluationPoints is the per-axis interview assessment
type EvaluationPoints struct {
	Technical     string `json:"technical,omitempty"`
	Communication string `json:"communication,omitempty"`
	Motivation    string `json:"motivation,omitempty"`
	CulturalFit   string `json:"cultural_fit,omitempty"`
	Overall       string `json:"overall,omitempty"`
}

// Minutes is the generated minutes document for one meeting. Which fields
// are populated depends on the meeting type: interviews fill the candidate
// block, client meetings fill client/agreement fields, internal meetings
// fill decisions. Ordered lists are stored as JSONB arrays so item order
// survives the round trip.
type Minutes struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`

	Summary   string                        `json:"summary" gorm:"type:text;not null"`
	KeyPoints datatypes.JSONSlice[string]   `json:"key_points,omitempty" gorm:"type:jsonb"`
	Decisions datatypes.JSONSlice[string]   `json:"decisions,omitempty" gorm:"type:jsonb"`
	Attendees datatypes.JSONSlice[string]   `json:"attendees,omitempty" gorm:"type:jsonb"`
	NextSteps datatypes.JSONSlice[string]   `json:"next_steps,omitempty" gorm:"type:jsonb"`

	// Interview fields
	CandidateName    string            `json:"candidate_name,omitempty" gorm:"type:varchar(255)"`
	EvaluationPoints *EvaluationPoints `json:"evaluation_points,omitempty" gorm:"type:jsonb;serializer:json"`
	Recommendation   string            `json:"recommendation,omitempty" gorm:"type:text"`

	// Client meeting fields
	ClientName       string                      `json:"client_name,omitempty" gorm:"type:varchar(255)"`
	DiscussionPoints datatypes.JSONSlice[string] `json:"discussion_points,omitempty" gorm:"type:jsonb"`
	Agreements       datatypes.JSONSlice[string] `json:"agreements,omitempty" gorm:"type:jsonb"`

	// Outbound drafts. Distinct fields: one goes to the candidate, one to
	// the client -- they must never be conflated.
	CandidateMessage string `json:"candidate_message,omitempty" gorm:"type:text"`
	FollowUpEmail    string `json:"follow_up_email,omitempty" gorm:"type:text"`

	// Non-empty when generation used an operator-supplied prompt
	CustomPrompt string `json:"custom_prompt,omitempty" gorm:"type:text"`

	GeneratedAt time.Time `json:"generated_at" gorm:"type:timestamp;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewMinutes creates a minutes document for a meeting
func NewMinutes(meetingID uuid.UUID, summary string) *Minutes {
	return &Minutes{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		Summary:     summary,
		GeneratedAt: time.Now(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// TableName specifies the table name for GORM
func (Minutes) TableName() string {
	return "minutes"
}
