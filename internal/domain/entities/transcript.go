package entities

import (
	"time"

	"github.com/google/uuid"
)

// Transcript is the stored caption text for one meeting. VTTContent keeps
// the raw provider asset so regenerations never re-download; FullText is
// the decoded plain text actually fed to the models.
type Transcript struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID  uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`
	VTTContent string    `json:"-" gorm:"type:text"`
	FullText   string    `json:"full_text" gorm:"type:text;not null"`
	Language   string    `json:"language,omitempty" gorm:"type:varchar(20)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewTranscript creates a transcript for a meeting. The provider's caption
// assets carry no language tag, so the tag defaults to English.
func NewTranscript(meetingID uuid.UUID, vttContent, fullText string) *Transcript {
	return &Transcript{
		ID:         uuid.New(),
		MeetingID:  meetingID,
		VTTContent: vttContent,
		FullText:   fullText,
		Language:   "en",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}
