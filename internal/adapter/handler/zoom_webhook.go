package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meeting-minutes-team/meeting-minutes/errors"
	"github.com/meeting-minutes-team/meeting-minutes/internal/usecase/pipeline"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/config"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/zoom"
)

// ZoomWebhook receives provider webhook deliveries
type ZoomWebhook struct {
	svc    pipeline.Service
	cfg    *config.ZoomConfig
	logger *zap.Logger
}

// NewZoomWebhook creates the webhook handler
func NewZoomWebhook(svc pipeline.Service, cfg *config.ZoomConfig, logger *zap.Logger) *ZoomWebhook {
	return &ZoomWebhook{svc: svc, cfg: cfg, logger: logger}
}

// Handle processes one webhook delivery. The signature is verified over
// the raw body before any JSON parsing; an unverifiable delivery gets 401
// and leaves no state behind.
func (h *ZoomWebhook) Handle(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	if h.cfg.WebhookSecret == "" {
		// Permissive mode: no secret means no way to verify. Accepted so
		// local setups work, logged loudly so it never goes unnoticed.
		if h.logger != nil {
			h.logger.Warn("⚠️ No webhook secret configured, accepting unverified delivery",
				zap.String("request_id", getRequestID(c)),
			)
		}
	} else {
		signature := c.Request().Header.Get(zoom.HeaderSignature)
		timestamp := c.Request().Header.Get(zoom.HeaderTimestamp)
		if !zoom.VerifySignature(h.cfg.WebhookSecret, timestamp, body, signature) {
			if h.logger != nil {
				h.logger.Warn("🚫 Webhook signature rejected",
					zap.String("request_id", getRequestID(c)),
				)
			}
			return HandleError(h.logger, c, errors.ErrInvalidSignature())
		}
	}

	var envelope zoom.WebhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	switch envelope.Event {
	case zoom.EventEndpointURLValidation:
		return h.handleURLValidation(c, &envelope)

	case zoom.EventRecordingCompleted:
		return h.handleRecordingCompleted(c, &envelope)

	default:
		// Unknown events are acknowledged so the provider stops retrying
		if h.logger != nil {
			h.logger.Info("⏭️ Ignoring webhook event", zap.String("event", envelope.Event))
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "event ignored"})
	}
}

// handleURLValidation answers the provider's endpoint ownership challenge
func (h *ZoomWebhook) handleURLValidation(c echo.Context, envelope *zoom.WebhookEnvelope) error {
	var payload zoom.URLValidationPayload
	if err := json.Unmarshal(envelope.Payload, &payload); err != nil || payload.PlainToken == "" {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"plainToken":     payload.PlainToken,
		"encryptedToken": zoom.ChallengeDigest(h.cfg.WebhookSecret, payload.PlainToken),
	})
}

// handleRecordingCompleted registers the recording and acks immediately;
// the pipeline runs in the worker pool.
func (h *ZoomWebhook) handleRecordingCompleted(c echo.Context, envelope *zoom.WebhookEnvelope) error {
	var payload zoom.RecordingCompletedPayload
	if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	meeting, err := h.svc.HandleRecordingCompleted(c.Request().Context(), &payload, envelope.DownloadToken)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := map[string]string{"message": "accepted"}
	if meeting != nil {
		resp["meeting_id"] = meeting.ID.String()
	}
	return c.JSON(http.StatusOK, resp)
}
