package meeting

import (
	"time"

	"github.com/meeting-minutes-team/meeting-minutes/internal/domain/entities"
)

// MeetingResponse represents a meeting in responses
type MeetingResponse struct {
	ID              string     `json:"id"`
	ZoomMeetingID   int64      `json:"zoom_meeting_id"`
	ZoomUUID        string     `json:"zoom_uuid"`
	Topic           string     `json:"topic"`
	HostEmail       string     `json:"host_email,omitempty"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	Duration        int        `json:"duration,omitempty"`
	Status          string     `json:"status"`
	ProcessingError *string    `json:"processing_error,omitempty"`
	MeetingType     string     `json:"meeting_type,omitempty"`
	MeetingSubType  string     `json:"meeting_sub_type,omitempty"`
	InterviewStage  string     `json:"interview_stage,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ActionItemResponse represents an action item in responses
type ActionItemResponse struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Assignee    *string    `json:"assignee,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
}

// MinutesResponse represents generated minutes in responses
type MinutesResponse struct {
	ID               string                     `json:"id"`
	Summary          string                     `json:"summary"`
	KeyPoints        []string                   `json:"key_points,omitempty"`
	Decisions        []string                   `json:"decisions,omitempty"`
	Attendees        []string                   `json:"attendees,omitempty"`
	NextSteps        []string                   `json:"next_steps,omitempty"`
	CandidateName    string                     `json:"candidate_name,omitempty"`
	EvaluationPoints *entities.EvaluationPoints `json:"evaluation_points,omitempty"`
	Recommendation   string                     `json:"recommendation,omitempty"`
	ClientName       string                     `json:"client_name,omitempty"`
	DiscussionPoints []string                   `json:"discussion_points,omitempty"`
	Agreements       []string                   `json:"agreements,omitempty"`
	CandidateMessage string                     `json:"candidate_message,omitempty"`
	FollowUpEmail    string                     `json:"follow_up_email,omitempty"`
	GeneratedAt      time.Time                  `json:"generated_at"`
}

// TranscriptResponse carries the decoded transcript text
type TranscriptResponse struct {
	Language  string    `json:"language,omitempty"`
	FullText  string    `json:"full_text"`
	CreatedAt time.Time `json:"created_at"`
}

// MeetingDetailResponse bundles a meeting with its transcript and
// generated output
type MeetingDetailResponse struct {
	Meeting     *MeetingResponse     `json:"meeting"`
	Transcript  *TranscriptResponse  `json:"transcript,omitempty"`
	Minutes     *MinutesResponse     `json:"minutes,omitempty"`
	ActionItems []ActionItemResponse `json:"action_items"`
}

// ListMeetingsResponse is a paginated meeting listing
type ListMeetingsResponse struct {
	Meetings []MeetingResponse `json:"meetings"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ReprocessResponse acknowledges a queued regeneration
type ReprocessResponse struct {
	JobID     string `json:"job_id"`
	MeetingID string `json:"meeting_id"`
	Status    string `json:"status"`
}

// FromMeeting maps a meeting entity to its response shape
func FromMeeting(m *entities.Meeting) *MeetingResponse {
	resp := &MeetingResponse{
		ID:              m.ID.String(),
		ZoomMeetingID:   m.ZoomMeetingID,
		ZoomUUID:        m.ZoomUUID,
		Topic:           m.Topic,
		HostEmail:       m.HostEmail,
		Duration:        m.Duration,
		Status:          string(m.Status),
		ProcessingError: m.ProcessingError,
		MeetingType:     string(m.MeetingType),
		MeetingSubType:  m.MeetingSubType,
		InterviewStage:  string(m.InterviewStage),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if !m.StartTime.IsZero() {
		t := m.StartTime
		resp.StartTime = &t
	}
	return resp
}

// FromTranscript maps a transcript entity to its response shape
func FromTranscript(t *entities.Transcript) *TranscriptResponse {
	return &TranscriptResponse{
		Language:  t.Language,
		FullText:  t.FullText,
		CreatedAt: t.CreatedAt,
	}
}

// FromMinutes maps a minutes entity to its response shape
func FromMinutes(m *entities.Minutes) *MinutesResponse {
	return &MinutesResponse{
		ID:               m.ID.String(),
		Summary:          m.Summary,
		KeyPoints:        m.KeyPoints,
		Decisions:        m.Decisions,
		Attendees:        m.Attendees,
		NextSteps:        m.NextSteps,
		CandidateName:    m.CandidateName,
		EvaluationPoints: m.EvaluationPoints,
		Recommendation:   m.Recommendation,
		ClientName:       m.ClientName,
		DiscussionPoints: m.DiscussionPoints,
		Agreements:       m.Agreements,
		CandidateMessage: m.CandidateMessage,
		FollowUpEmail:    m.FollowUpEmail,
		GeneratedAt:      m.GeneratedAt,
	}
}

// FromActionItems maps action item entities preserving order
func FromActionItems(items []entities.ActionItem) []ActionItemResponse {
	out := make([]ActionItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ActionItemResponse{
			ID:          item.ID.String(),
			Description: item.Description,
			Assignee:    item.Assignee,
			DueDate:     item.DueDate,
			Priority:    string(item.Priority),
			Status:      string(item.Status),
		})
	}
	return out
}
