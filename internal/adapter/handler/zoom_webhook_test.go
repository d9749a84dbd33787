package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/meeting-minutes-team/meeting-minutes/internal/domain/entities"
	"github.com/meeting-minutes-team/meeting-minutes/internal/usecase/pipeline"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/config"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/zoom"
)

type fakePipeline struct {
	handled       int
	lastUUID      string
	lastToken     string
	meetingResult *entities.Meeting
}

func (f *fakePipeline) HandleRecordingCompleted(ctx context.Context, payload *zoom.RecordingCompletedPayload, downloadToken string) (*entities.Meeting, error) {
	f.handled++
	f.lastUUID = payload.Object.UUID
	f.lastToken = downloadToken
	return f.meetingResult, nil
}

func (f *fakePipeline) Reprocess(ctx context.Context, meetingID uuid.UUID, opts pipeline.ReprocessOptions) (*entities.ProcessingJob, error) {
	return nil, nil
}

func (f *fakePipeline) StartWorkerPool(ctx context.Context, workerCount int) error { return nil }
func (f *fakePipeline) StopWorkerPool() error                                      { return nil }

const webhookSecret = "webhook-secret"

func deliverWebhook(t *testing.T, h *ZoomWebhook, body string, sign bool) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/zoom", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	timestamp := "1700000000"
	req.Header.Set(zoom.HeaderTimestamp, timestamp)
	if sign {
		req.Header.Set(zoom.HeaderSignature, zoom.SignPayload(webhookSecret, timestamp, []byte(body)))
	} else {
		req.Header.Set(zoom.HeaderSignature, "v0=deadbeef")
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Handle(c); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	return rec
}

func TestWebhook_InvalidSignatureRejected(t *testing.T) {
	svc := &fakePipeline{}
	h := NewZoomWebhook(svc, &config.ZoomConfig{WebhookSecret: webhookSecret}, nil)

	body := `{"event":"recording.completed","payload":{"object":{"uuid":"abc"}}}`
	rec := deliverWebhook(t, h, body, false)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.handled != 0 {
		t.Fatal("unverified delivery must not reach the pipeline")
	}
}

func TestWebhook_NoSecretSkipsVerification(t *testing.T) {
	svc := &fakePipeline{meetingResult: entities.NewMeeting(7, "uuid-7", "Standup")}
	h := NewZoomWebhook(svc, &config.ZoomConfig{}, nil)

	body := `{"event":"recording.completed","payload":{"object":{"uuid":"uuid-7","id":7,"recording_files":[]}}}`
	rec := deliverWebhook(t, h, body, false)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 in permissive mode, got %d", rec.Code)
	}
	if svc.handled != 1 {
		t.Fatalf("expected pipeline call, got %d", svc.handled)
	}
}

func TestWebhook_URLValidationChallenge(t *testing.T) {
	h := NewZoomWebhook(&fakePipeline{}, &config.ZoomConfig{WebhookSecret: webhookSecret}, nil)

	body := `{"event":"endpoint.url_validation","payload":{"plainToken":"tok-123"}}`
	rec := deliverWebhook(t, h, body, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["plainToken"] != "tok-123" {
		t.Fatalf("plain token not echoed: %q", resp["plainToken"])
	}
	if resp["encryptedToken"] != zoom.ChallengeDigest(webhookSecret, "tok-123") {
		t.Fatal("encrypted token does not match expected digest")
	}
}

func TestWebhook_RecordingCompleted(t *testing.T) {
	meeting := entities.NewMeeting(42, "meeting-uuid", "Sync")
	svc := &fakePipeline{meetingResult: meeting}
	h := NewZoomWebhook(svc, &config.ZoomConfig{WebhookSecret: webhookSecret}, nil)

	body := `{"event":"recording.completed","download_token":"dl-token","payload":{"account_id":"acc","object":{"uuid":"meeting-uuid","id":42,"topic":"Sync","recording_files":[]}}}`
	rec := deliverWebhook(t, h, body, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.handled != 1 {
		t.Fatalf("expected pipeline call, got %d", svc.handled)
	}
	if svc.lastUUID != "meeting-uuid" {
		t.Fatalf("uuid not forwarded: %q", svc.lastUUID)
	}
	if svc.lastToken != "dl-token" {
		t.Fatalf("download token not forwarded: %q", svc.lastToken)
	}
}

func TestWebhook_UnknownEventAcknowledged(t *testing.T) {
	svc := &fakePipeline{}
	h := NewZoomWebhook(svc, &config.ZoomConfig{WebhookSecret: webhookSecret}, nil)

	body := `{"event":"meeting.started","payload":{}}`
	rec := deliverWebhook(t, h, body, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("unknown events must be acked with 200, got %d", rec.Code)
	}
	if svc.handled != 0 {
		t.Fatal("unknown event must not reach the pipeline")
	}
}

func TestWebhook_MalformedPayload(t *testing.T) {
	h := NewZoomWebhook(&fakePipeline{}, &config.ZoomConfig{WebhookSecret: webhookSecret}, nil)

	rec := deliverWebhook(t, h, `{not json`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
