package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meeting-minutes-team/meeting-minutes/errors"
	"github.com/meeting-minutes-team/meeting-minutes/internal/domain/entities"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/llm"
)

// classificationExcerptLimit caps how much transcript the classifier sees.
// The opening minutes carry the signal (introductions, agenda, who is in
// the room); sending the full transcript costs tokens without moving the
// verdict.
const classificationExcerptLimit = 3000

// Classification is the validated classifier verdict
type Classification struct {
	MeetingType    entities.MeetingType    `json:"meetingType"`
	SubType        string                  `json:"subType,omitempty"`
	InterviewStage entities.InterviewStage `json:"interviewStage,omitempty"`
	Confidence     float64                 `json:"confidence"`
	Reasoning      string                  `json:"reasoning,omitempty"`
}

var classificationSchema = llm.JSONSchema{
	Name:   "meeting_classification",
	Strict: true,
	Schema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"meetingType": {
				"type": "string",
				"enum": ["interview", "internal_meeting", "client_meeting", "one_on_one", "training", "presentation", "other"]
			},
			"subType": {"type": "string"},
			"interviewStage": {
				"type": "string",
				"enum": ["first", "second", "final", "other", ""]
			},
			"confidence": {"type": "number"},
			"reasoning": {"type": "string"}
		},
		"required": ["meetingType", "confidence"],
		"additionalProperties": false
	}`),
}

const classificationSystemPrompt = `You are a meeting classifier. Given the topic and the opening excerpt of a meeting transcript, classify the meeting.

Rules:
- meetingType must be one of: interview, internal_meeting, client_meeting, one_on_one, training, presentation, other.
- If meetingType is "interview", also set interviewStage to one of: first, second, final, other.
- confidence is 0-100.
- Respond with JSON only.`

// Classifier decides a meeting's category from its topic and transcript
type Classifier struct {
	llm *llm.Client
}

// NewClassifier creates a classifier backed by the given model client
func NewClassifier(client *llm.Client) *Classifier {
	return &Classifier{llm: client}
}

// Classify returns the meeting's category. A model response that does not
// conform to the schema is an error, never a silent fallback: a
// misclassified interview would leak candidate assessments into the wrong
// output format.
func (c *Classifier) Classify(ctx context.Context, topic, transcript string) (*Classification, error) {
	excerpt := transcript
	if len(excerpt) > classificationExcerptLimit {
		excerpt = excerpt[:classificationExcerptLimit]
	}

	userPrompt := fmt.Sprintf("Meeting topic: %s\n\nTranscript excerpt:\n%s", topic, excerpt)

	content, err := c.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: classificationSystemPrompt},
		{Role: "user", Content: userPrompt},
	}, classificationSchema)
	if err != nil {
		return nil, fmt.Errorf("classification request failed: %w", err)
	}

	var result Classification
	if err := json.Unmarshal([]byte(llm.ExtractJSON(content)), &result); err != nil {
		return nil, errors.ErrSchemaViolation("classification", err)
	}

	if err := validateClassification(&result); err != nil {
		return nil, errors.ErrSchemaViolation("classification", err)
	}

	return &result, nil
}

func validateClassification(c *Classification) error {
	if !entities.ValidMeetingType(c.MeetingType) {
		return fmt.Errorf("unknown meeting type %q", c.MeetingType)
	}
	if c.Confidence < 0 || c.Confidence > 100 {
		return fmt.Errorf("confidence %v out of range", c.Confidence)
	}
	if c.MeetingType == entities.MeetingTypeInterview {
		if c.InterviewStage == "" {
			c.InterviewStage = entities.InterviewStageOther
		}
		if !entities.ValidInterviewStage(c.InterviewStage) {
			return fmt.Errorf("unknown interview stage %q", c.InterviewStage)
		}
	} else {
		c.InterviewStage = ""
	}
	return nil
}
