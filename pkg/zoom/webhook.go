package zoom

import "encoding/json"

// Webhook event names handled by the gateway
const (
	EventEndpointURLValidation = "endpoint.url_validation"
	EventRecordingCompleted    = "recording.completed"
)

// Header names carrying the webhook signature material
const (
	HeaderSignature = "x-zm-signature"
	HeaderTimestamp = "x-zm-request-timestamp"
)

// WebhookEnvelope is the outer shape of every webhook delivery. Payload is
// kept raw so each event type can decode its own object.
type WebhookEnvelope struct {
	Event         string          `json:"event"`
	EventTS       int64           `json:"event_ts"`
	Payload       json.RawMessage `json:"payload"`
	DownloadToken string          `json:"download_token,omitempty"`
}

// URLValidationPayload carries the challenge token for
// endpoint.url_validation events
type URLValidationPayload struct {
	PlainToken string `json:"plainToken"`
}

// RecordingCompletedPayload is the payload of a recording.completed event
type RecordingCompletedPayload struct {
	AccountID string           `json:"account_id"`
	Object    MeetingRecording `json:"object"`
}
