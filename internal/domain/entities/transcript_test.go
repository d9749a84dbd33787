package entities

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewTranscript_DefaultsToEnglish(t *testing.T) {
	meetingID := uuid.New()
	tr := NewTranscript(meetingID, "WEBVTT\n\ncue", "cue")

	if tr.MeetingID != meetingID {
		t.Fatalf("unexpected meeting id %s", tr.MeetingID)
	}
	if tr.VTTContent == "" || tr.FullText != "cue" {
		t.Fatal("content not carried over")
	}
	if tr.Language != "en" {
		t.Fatalf("expected language tag to default to en, got %q", tr.Language)
	}
}
