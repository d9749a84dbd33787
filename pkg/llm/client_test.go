package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meeting-minutes-team/meeting-minutes/pkg/config"
)

func testConfig(url string) *config.LLMConfig {
	return &config.LLMConfig{
		APIKey:      "test-key",
		BaseURL:     url,
		Model:       "test-model",
		Timeout:     5 * time.Second,
		Temperature: 0.3,
		MaxTokens:   1000,
	}
}

func TestComplete_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header %q", got)
		}
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_schema" {
			t.Fatal("response_format not set")
		}
		if req.ResponseFormat.JSONSchema.Name != "test_schema" {
			t.Fatalf("unexpected schema name %q", req.ResponseFormat.JSONSchema.Name)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": `{"value":"ok"}`}},
			},
		})
	}))
	defer ts.Close()

	client := NewClient(testConfig(ts.URL))
	schema := JSONSchema{Name: "test_schema", Strict: true, Schema: json.RawMessage(`{"type":"object"}`)}

	content, err := client.Complete(context.Background(), []Message{
		{Role: "system", Content: "system prompt"},
		{Role: "user", Content: "user prompt"},
	}, schema)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if content != `{"value":"ok"}` {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestComplete_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := NewClient(testConfig(ts.URL))
	if _, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "x"}}, JSONSchema{Name: "s", Schema: json.RawMessage(`{}`)}); err == nil {
		t.Fatal("expected error for 429 response")
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer ts.Close()

	client := NewClient(testConfig(ts.URL))
	if _, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "x"}}, JSONSchema{Name: "s", Schema: json.RawMessage(`{}`)}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                        `{"a":1}`,
		"```json\n{\"a\":1}\n```":        `{"a":1}`,
		"```\n{\"a\":1}\n```":            `{"a":1}`,
		"  {\"a\":1}  ":                  `{"a":1}`,
	}
	for in, want := range cases {
		if got := ExtractJSON(in); got != want {
			t.Fatalf("ExtractJSON(%q) = %q, want %q", in, got, want)
		}
	}
}
