package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/meeting-minutes-team/meeting-minutes/errors"
	"github.com/meeting-minutes-team/meeting-minutes/internal/domain/entities"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/llm"
)

// GeneratedMinutes bundles the minutes document with its extracted action
// items, ready for atomic persistence.
type GeneratedMinutes struct {
	Minutes     *entities.Minutes
	ActionItems []entities.ActionItem
}

// rawActionItem is the shape action items take inside model output
type rawActionItem struct {
	Description string `json:"description"`
	Assignee    string `json:"assignee,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// Generator produces minutes documents from classified transcripts. Each
// meeting type has its own strategy: prompt, output schema, and mapper.
type Generator struct {
	llm *llm.Client
}

// NewGenerator creates a generator backed by the given model client
func NewGenerator(client *llm.Client) *Generator {
	return &Generator{llm: client}
}

// Generate dispatches to the strategy matching the classification. An
// operator-supplied customPrompt replaces the strategy's system prompt
// verbatim; the output schema stays in force either way.
func (g *Generator) Generate(ctx context.Context, meeting *entities.Meeting, transcript string, classification *Classification, customPrompt string) (*GeneratedMinutes, error) {
	switch classification.MeetingType {
	case entities.MeetingTypeInterview:
		return g.generateInterview(ctx, meeting, transcript, classification, customPrompt)
	case entities.MeetingTypeClient:
		return g.generateClient(ctx, meeting.ID, transcript, customPrompt)
	case entities.MeetingTypeInternal:
		return g.generateInternal(ctx, meeting.ID, transcript, customPrompt)
	default:
		return g.generateGeneric(ctx, meeting.ID, transcript, customPrompt)
	}
}

func (g *Generator) complete(ctx context.Context, systemPrompt, customPrompt, transcript string, schema llm.JSONSchema, out interface{}) error {
	if customPrompt != "" {
		systemPrompt = customPrompt
	}
	content, err := g.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: "Meeting transcript:\n\n" + transcript},
	}, schema)
	if err != nil {
		return fmt.Errorf("generation request failed: %w", err)
	}
	if err := json.Unmarshal([]byte(llm.ExtractJSON(content)), out); err != nil {
		return errors.ErrSchemaViolation("minutes", err)
	}
	return nil
}

// --- Interview strategy ---

type interviewOutput struct {
	CandidateName    string `json:"candidateName"`
	Summary          string `json:"summary"`
	EvaluationPoints struct {
		Technical     string `json:"technical"`
		Communication string `json:"communication"`
		Motivation    string `json:"motivation"`
		CulturalFit   string `json:"cultural_fit"`
		Overall       string `json:"overall"`
	} `json:"evaluationPoints"`
	Recommendation string `json:"recommendation"`
	LineMessage    string `json:"lineMessage"`
}

var interviewSchema = llm.JSONSchema{
	Name:   "interview_minutes",
	Strict: true,
	Schema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"candidateName": {"type": "string"},
			"summary": {"type": "string"},
			"evaluationPoints": {
				"type": "object",
				"properties": {
					"technical": {"type": "string"},
					"communication": {"type": "string"},
					"motivation": {"type": "string"},
					"cultural_fit": {"type": "string"},
					"overall": {"type": "string"}
				},
				"required": ["technical", "communication", "motivation", "cultural_fit", "overall"],
				"additionalProperties": false
			},
			"recommendation": {"type": "string"},
			"lineMessage": {"type": "string"}
		},
		"required": ["candidateName", "summary", "evaluationPoints", "recommendation", "lineMessage"],
		"additionalProperties": false
	}`),
}

const interviewSystemPrompt = `You are an HR assistant producing interview records. From the transcript, extract the candidate's name, summarize the interview, assess the candidate on each axis (technical, communication, motivation, cultural_fit, overall), give a hiring recommendation, and draft a short friendly message to send the candidate thanking them for their time. Respond with JSON only.`

const interviewStageContext = `This was a %s-round interview; weight your assessment accordingly.`

// generateInterview produces an interview record. Interviews never yield
// action items; candidate follow-ups live in the drafted message, not in a
// task list surfaced to the whole team.
func (g *Generator) generateInterview(ctx context.Context, meeting *entities.Meeting, transcript string, classification *Classification, customPrompt string) (*GeneratedMinutes, error) {
	systemPrompt := interviewSystemPrompt
	if classification.InterviewStage != "" && classification.InterviewStage != entities.InterviewStageOther {
		systemPrompt += "\n" + fmt.Sprintf(interviewStageContext, classification.InterviewStage)
	}

	var out interviewOutput
	if err := g.complete(ctx, systemPrompt, customPrompt, transcript, interviewSchema, &out); err != nil {
		return nil, err
	}
	if out.Summary == "" || out.CandidateName == "" {
		return nil, errors.ErrSchemaViolation("minutes", fmt.Errorf("interview output missing required fields"))
	}

	minutes := entities.NewMinutes(meeting.ID, out.Summary)
	minutes.CandidateName = out.CandidateName
	minutes.EvaluationPoints = &entities.EvaluationPoints{
		Technical:     out.EvaluationPoints.Technical,
		Communication: out.EvaluationPoints.Communication,
		Motivation:    out.EvaluationPoints.Motivation,
		CulturalFit:   out.EvaluationPoints.CulturalFit,
		Overall:       out.EvaluationPoints.Overall,
	}
	minutes.Recommendation = out.Recommendation
	minutes.CandidateMessage = out.LineMessage
	minutes.CustomPrompt = customPrompt

	return &GeneratedMinutes{Minutes: minutes, ActionItems: nil}, nil
}

// --- Client meeting strategy ---

type clientOutput struct {
	Summary          string          `json:"summary"`
	ClientName       string          `json:"clientName"`
	Attendees        []string        `json:"attendees"`
	DiscussionPoints []string        `json:"discussionPoints"`
	Agreements       []string        `json:"agreements"`
	NextSteps        []string        `json:"nextSteps"`
	ActionItems      []rawActionItem `json:"actionItems"`
	FollowUpEmail    string          `json:"followUpEmail"`
}

var clientSchema = llm.JSONSchema{
	Name:   "client_meeting_minutes",
	Strict: true,
	Schema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"summary": {"type": "string"},
			"clientName": {"type": "string"},
			"attendees": {"type": "array", "items": {"type": "string"}},
			"discussionPoints": {"type": "array", "items": {"type": "string"}},
			"agreements": {"type": "array", "items": {"type": "string"}},
			"nextSteps": {"type": "array", "items": {"type": "string"}},
			"actionItems": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"description": {"type": "string"},
						"assignee": {"type": "string"},
						"dueDate": {"type": "string"},
						"priority": {"type": "string", "enum": ["low", "medium", "high"]}
					},
					"required": ["description"],
					"additionalProperties": false
				}
			},
			"followUpEmail": {"type": "string"}
		},
		"required": ["summary", "clientName", "attendees", "discussionPoints", "agreements", "nextSteps", "actionItems", "followUpEmail"],
		"additionalProperties": false
	}`),
}

const clientSystemPrompt = `You are an assistant producing client meeting minutes. From the transcript, identify the client, list attendees, summarize the meeting, capture the discussion points and any agreements reached, list next steps, extract action items (with assignee, due date and priority where stated), and draft a professional follow-up email to the client. Respond with JSON only.`

func (g *Generator) generateClient(ctx context.Context, meetingID uuid.UUID, transcript, customPrompt string) (*GeneratedMinutes, error) {
	var out clientOutput
	if err := g.complete(ctx, clientSystemPrompt, customPrompt, transcript, clientSchema, &out); err != nil {
		return nil, err
	}
	if out.Summary == "" {
		return nil, errors.ErrSchemaViolation("minutes", fmt.Errorf("client output missing summary"))
	}

	minutes := entities.NewMinutes(meetingID, out.Summary)
	minutes.ClientName = out.ClientName
	minutes.Attendees = datatypes.NewJSONSlice(out.Attendees)
	minutes.DiscussionPoints = datatypes.NewJSONSlice(out.DiscussionPoints)
	minutes.Agreements = datatypes.NewJSONSlice(out.Agreements)
	minutes.NextSteps = datatypes.NewJSONSlice(out.NextSteps)
	minutes.FollowUpEmail = out.FollowUpEmail
	minutes.CustomPrompt = customPrompt

	return &GeneratedMinutes{
		Minutes:     minutes,
		ActionItems: mapActionItems(meetingID, out.ActionItems),
	}, nil
}

// --- Internal meeting strategy ---

type internalOutput struct {
	Summary     string          `json:"summary"`
	KeyPoints   []string        `json:"keyPoints"`
	Decisions   []string        `json:"decisions"`
	ActionItems []rawActionItem `json:"actionItems"`
}

var internalSchema = llm.JSONSchema{
	Name:   "internal_meeting_minutes",
	Strict: true,
	Schema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"summary": {"type": "string"},
			"keyPoints": {"type": "array", "items": {"type": "string"}},
			"decisions": {"type": "array", "items": {"type": "string"}},
			"actionItems": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"description": {"type": "string"},
						"assignee": {"type": "string"},
						"dueDate": {"type": "string"},
						"priority": {"type": "string", "enum": ["low", "medium", "high"]}
					},
					"required": ["description"],
					"additionalProperties": false
				}
			}
		},
		"required": ["summary", "keyPoints", "decisions", "actionItems"],
		"additionalProperties": false
	}`),
}

const internalSystemPrompt = `You are an assistant producing internal meeting minutes. From the transcript, summarize the meeting, list the key points, record every decision made, and extract action items (with assignee, due date and priority where stated). Respond with JSON only.`

func (g *Generator) generateInternal(ctx context.Context, meetingID uuid.UUID, transcript, customPrompt string) (*GeneratedMinutes, error) {
	var out internalOutput
	if err := g.complete(ctx, internalSystemPrompt, customPrompt, transcript, internalSchema, &out); err != nil {
		return nil, err
	}
	if out.Summary == "" {
		return nil, errors.ErrSchemaViolation("minutes", fmt.Errorf("internal output missing summary"))
	}

	minutes := entities.NewMinutes(meetingID, out.Summary)
	minutes.KeyPoints = datatypes.NewJSONSlice(out.KeyPoints)
	minutes.Decisions = datatypes.NewJSONSlice(out.Decisions)
	minutes.CustomPrompt = customPrompt

	return &GeneratedMinutes{
		Minutes:     minutes,
		ActionItems: mapActionItems(meetingID, out.ActionItems),
	}, nil
}

// --- Generic strategy (one-on-one, training, presentation, other) ---

type genericOutput struct {
	Summary     string          `json:"summary"`
	KeyPoints   []string        `json:"keyPoints"`
	ActionItems []rawActionItem `json:"actionItems"`
}

var genericSchema = llm.JSONSchema{
	Name:   "meeting_minutes",
	Strict: true,
	Schema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"summary": {"type": "string"},
			"keyPoints": {"type": "array", "items": {"type": "string"}},
			"actionItems": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"description": {"type": "string"},
						"assignee": {"type": "string"},
						"dueDate": {"type": "string"},
						"priority": {"type": "string", "enum": ["low", "medium", "high"]}
					},
					"required": ["description"],
					"additionalProperties": false
				}
			}
		},
		"required": ["summary", "keyPoints", "actionItems"],
		"additionalProperties": false
	}`),
}

const genericSystemPrompt = `You are an assistant producing meeting minutes. From the transcript, summarize the meeting, list the key points, and extract action items (with assignee, due date and priority where stated). Respond with JSON only.`

func (g *Generator) generateGeneric(ctx context.Context, meetingID uuid.UUID, transcript, customPrompt string) (*GeneratedMinutes, error) {
	var out genericOutput
	if err := g.complete(ctx, genericSystemPrompt, customPrompt, transcript, genericSchema, &out); err != nil {
		return nil, err
	}
	if out.Summary == "" {
		return nil, errors.ErrSchemaViolation("minutes", fmt.Errorf("output missing summary"))
	}

	minutes := entities.NewMinutes(meetingID, out.Summary)
	minutes.KeyPoints = datatypes.NewJSONSlice(out.KeyPoints)
	minutes.CustomPrompt = customPrompt

	return &GeneratedMinutes{
		Minutes:     minutes,
		ActionItems: mapActionItems(meetingID, out.ActionItems),
	}, nil
}

// mapActionItems converts model output to entities, preserving order and
// normalizing loose priority values to the known set.
func mapActionItems(meetingID uuid.UUID, raw []rawActionItem) []entities.ActionItem {
	items := make([]entities.ActionItem, 0, len(raw))
	for i, r := range raw {
		desc := strings.TrimSpace(r.Description)
		if desc == "" {
			continue
		}
		item := entities.NewActionItem(meetingID, desc, i)
		if assignee := strings.TrimSpace(r.Assignee); assignee != "" {
			item.Assignee = &assignee
		}
		if due := parseDueDate(r.DueDate); due != nil {
			item.DueDate = due
		}
		if p := entities.ActionItemPriority(strings.ToLower(strings.TrimSpace(r.Priority))); entities.ValidActionItemPriority(p) {
			item.Priority = p
		}
		items = append(items, *item)
	}
	return items
}

// parseDueDate accepts the date formats models actually emit. Anything
// unparseable becomes nil rather than a bogus timestamp.
func parseDueDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
