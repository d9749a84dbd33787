package zoom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/meeting-minutes-team/meeting-minutes/errors"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/config"
)

// TranscriptFileType tags the recording asset holding closed captions.
const TranscriptFileType = "TRANSCRIPT"

// Client is a minimal client for the provider REST API
type Client struct {
	baseURL string
	tokens  oauth2.TokenSource
	client  *http.Client
}

// NewClient creates a provider API client backed by a cached token source.
func NewClient(cfg *config.ZoomConfig, tokens oauth2.TokenSource) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.zoom.us/v2"
	}
	return &Client{
		baseURL: base,
		tokens:  tokens,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// RecordingFile is one asset attached to a finished recording
type RecordingFile struct {
	ID             string `json:"id"`
	MeetingID      string `json:"meeting_id"`
	RecordingStart string `json:"recording_start"`
	RecordingEnd   string `json:"recording_end"`
	FileType       string `json:"file_type"` // "MP4", "M4A", "TRANSCRIPT", "CHAT", "CC", ...
	FileSize       int64  `json:"file_size"`
	PlayURL        string `json:"play_url"`
	DownloadURL    string `json:"download_url"`
	Status         string `json:"status"`
	RecordingType  string `json:"recording_type"`
}

// MeetingRecording is the recording object for a meeting
type MeetingRecording struct {
	UUID           string          `json:"uuid"`
	ID             int64           `json:"id"`
	AccountID      string          `json:"account_id"`
	HostID         string          `json:"host_id"`
	HostEmail      string          `json:"host_email"`
	Topic          string          `json:"topic"`
	StartTime      string          `json:"start_time"`
	Duration       int             `json:"duration"`
	TotalSize      int64           `json:"total_size"`
	RecordingCount int             `json:"recording_count"`
	ShareURL       string          `json:"share_url"`
	RecordingFiles []RecordingFile `json:"recording_files"`
}

// GetMeetingRecordings fetches the recording object for a meeting id
func (c *Client) GetMeetingRecordings(ctx context.Context, meetingID string) (*MeetingRecording, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, errors.ErrProviderAuthFailed(err)
	}

	endpoint := fmt.Sprintf("%s/meetings/%s/recordings", c.baseURL, meetingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	token.SetAuthHeader(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, errors.ErrProviderAPIFailed("get meeting recordings", fmt.Errorf("status %d", resp.StatusCode))
	}

	var rec MeetingRecording
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode recordings response: %w", err)
	}
	return &rec, nil
}

// DownloadFile fetches an asset using the one-time download token delivered
// with the webhook event. The token authorizes a single short download
// window, independent of the OAuth credential. No retry here; the worker
// owns retry policy.
func (c *Client) DownloadFile(ctx context.Context, downloadURL, downloadToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+downloadToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("download endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read download body: %w", err)
	}
	return data, nil
}

// FindTranscriptFile returns the transcript asset, or nil if the recording
// carries none.
func FindTranscriptFile(files []RecordingFile) *RecordingFile {
	for i := range files {
		if files[i].FileType == TranscriptFileType {
			return &files[i]
		}
	}
	return nil
}

// DownloadFileOAuth fetches an asset using the account OAuth credential.
// Fallback for when the one-time download token has expired.
func (c *Client) DownloadFileOAuth(ctx context.Context, downloadURL string) ([]byte, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, errors.ErrProviderAuthFailed(err)
	}
	return c.DownloadFile(ctx, downloadURL, token.AccessToken)
}
