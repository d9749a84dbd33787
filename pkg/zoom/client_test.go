package zoom

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"

	"github.com/meeting-minutes-team/meeting-minutes/pkg/config"
)

func TestFindTranscriptFile(t *testing.T) {
	files := []RecordingFile{
		{ID: "f1", FileType: "MP4"},
		{ID: "f2", FileType: "CHAT"},
		{ID: "f3", FileType: TranscriptFileType, DownloadURL: "https://example.com/f3"},
		{ID: "f4", FileType: TranscriptFileType},
	}

	got := FindTranscriptFile(files)
	if got == nil {
		t.Fatal("expected transcript asset, got nil")
	}
	if got.ID != "f3" {
		t.Fatalf("expected first transcript asset f3, got %s", got.ID)
	}
}

func TestFindTranscriptFile_None(t *testing.T) {
	files := []RecordingFile{
		{ID: "f1", FileType: "MP4"},
		{ID: "f2", FileType: "M4A"},
	}
	if got := FindTranscriptFile(files); got != nil {
		t.Fatalf("expected nil for recording without captions, got %+v", got)
	}
}

func TestDownloadFile_UsesDownloadToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer one-time-token" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		w.Write([]byte("WEBVTT\n\nhello"))
	}))
	defer srv.Close()

	c := NewClient(&config.ZoomConfig{}, nil)
	data, err := c.DownloadFile(context.Background(), srv.URL+"/asset", "one-time-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "WEBVTT\n\nhello" {
		t.Fatalf("unexpected body %q", string(data))
	}
}

func TestDownloadFile_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(&config.ZoomConfig{}, nil)
	if _, err := c.DownloadFile(context.Background(), srv.URL+"/asset", "expired"); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestDownloadFileOAuth_UsesAccountCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer account-token" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		w.Write([]byte("body"))
	}))
	defer srv.Close()

	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "account-token", TokenType: "Bearer"})
	c := NewClient(&config.ZoomConfig{}, tokens)
	data, err := c.DownloadFileOAuth(context.Background(), srv.URL+"/asset")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "body" {
		t.Fatalf("unexpected body %q", string(data))
	}
}
