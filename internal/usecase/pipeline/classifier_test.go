package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meeting-minutes-team/meeting-minutes/errors"
	"github.com/meeting-minutes-team/meeting-minutes/internal/domain/entities"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/config"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/llm"
)

// newTestLLM returns a client pointed at a server that always answers with
// the given completion content.
func newTestLLM(t *testing.T, handler http.HandlerFunc) (*llm.Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	client := llm.NewClient(&config.LLMConfig{
		APIKey:  "test-key",
		BaseURL: ts.URL,
		Model:   "test-model",
		Timeout: 5 * time.Second,
	})
	return client, ts
}

func cannedCompletion(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
	}
}

func TestClassify_Interview(t *testing.T) {
	client, _ := newTestLLM(t, cannedCompletion(`{"meetingType":"interview","interviewStage":"first","confidence":92,"reasoning":"candidate introduction"}`))
	c := NewClassifier(client)

	result, err := c.Classify(context.Background(), "Engineer interview", "Interviewer: tell me about yourself...")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.MeetingType != entities.MeetingTypeInterview {
		t.Fatalf("unexpected type %q", result.MeetingType)
	}
	if result.InterviewStage != entities.InterviewStageFirst {
		t.Fatalf("unexpected stage %q", result.InterviewStage)
	}
}

func TestClassify_UnknownTypeRejected(t *testing.T) {
	client, _ := newTestLLM(t, cannedCompletion(`{"meetingType":"standup","confidence":80}`))
	c := NewClassifier(client)

	_, err := c.Classify(context.Background(), "Daily", "...")
	if err == nil {
		t.Fatal("expected schema violation for unknown meeting type")
	}
	var appErr errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_SCHEMA_VIOLATION {
		t.Fatalf("expected schema violation error, got %v", err)
	}
}

func TestClassify_ConfidenceOutOfRange(t *testing.T) {
	client, _ := newTestLLM(t, cannedCompletion(`{"meetingType":"internal_meeting","confidence":250}`))
	c := NewClassifier(client)

	if _, err := c.Classify(context.Background(), "Sync", "..."); err == nil {
		t.Fatal("expected schema violation for out-of-range confidence")
	}
}

func TestClassify_StageClearedForNonInterview(t *testing.T) {
	client, _ := newTestLLM(t, cannedCompletion(`{"meetingType":"internal_meeting","interviewStage":"first","confidence":70}`))
	c := NewClassifier(client)

	result, err := c.Classify(context.Background(), "Sync", "...")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.InterviewStage != "" {
		t.Fatalf("stage should be cleared for non-interview, got %q", result.InterviewStage)
	}
}

func TestClassify_TruncatesExcerpt(t *testing.T) {
	var seenLen int
	client, _ := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		var req llm.ChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		for _, m := range req.Messages {
			if m.Role == "user" {
				seenLen = len(m.Content)
			}
		}
		cannedCompletion(`{"meetingType":"other","confidence":50}`)(w, r)
	})
	c := NewClassifier(client)

	long := strings.Repeat("a", 50000)
	if _, err := c.Classify(context.Background(), "Topic", long); err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	// Prompt wrapper plus at most the excerpt limit
	if seenLen > classificationExcerptLimit+200 {
		t.Fatalf("excerpt not truncated, user prompt length %d", seenLen)
	}
}
