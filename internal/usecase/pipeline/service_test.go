package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/meeting-minutes-team/meeting-minutes/internal/domain/entities"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/config"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/zoom"
)

type fakeMeetingStore struct {
	meetings map[string]*entities.Meeting
	created  int
	failed   map[uuid.UUID]string
	statuses map[uuid.UUID]entities.MeetingStatus
}

func newFakeMeetingStore() *fakeMeetingStore {
	return &fakeMeetingStore{
		meetings: make(map[string]*entities.Meeting),
		failed:   make(map[uuid.UUID]string),
		statuses: make(map[uuid.UUID]entities.MeetingStatus),
	}
}

func (f *fakeMeetingStore) CreateMeeting(ctx context.Context, meeting *entities.Meeting) error {
	f.created++
	f.meetings[meeting.ZoomUUID] = meeting
	return nil
}

func (f *fakeMeetingStore) GetMeetingByID(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
	for _, m := range f.meetings {
		if m.ID == meetingID {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMeetingStore) GetMeetingByZoomUUID(ctx context.Context, zoomUUID string) (*entities.Meeting, error) {
	return f.meetings[zoomUUID], nil
}

func (f *fakeMeetingStore) UpdateMeetingStatus(ctx context.Context, meetingID uuid.UUID, status entities.MeetingStatus) error {
	f.statuses[meetingID] = status
	return nil
}

func (f *fakeMeetingStore) MarkMeetingAsFailed(ctx context.Context, meetingID uuid.UUID, errMsg string) error {
	f.failed[meetingID] = errMsg
	return nil
}

func (f *fakeMeetingStore) UpdateClassification(ctx context.Context, meetingID uuid.UUID, meetingType entities.MeetingType, subType string, stage entities.InterviewStage) error {
	return nil
}

type fakeTranscriptStore struct {
	transcripts map[uuid.UUID]*entities.Transcript
}

func (f *fakeTranscriptStore) SaveTranscript(ctx context.Context, transcript *entities.Transcript) error {
	if f.transcripts == nil {
		f.transcripts = make(map[uuid.UUID]*entities.Transcript)
	}
	f.transcripts[transcript.MeetingID] = transcript
	return nil
}

func (f *fakeTranscriptStore) GetTranscriptByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error) {
	return f.transcripts[meetingID], nil
}

type fakeMinutesStore struct {
	replaced int
}

func (f *fakeMinutesStore) ReplaceMinutes(ctx context.Context, minutes *entities.Minutes, actionItems []entities.ActionItem) error {
	f.replaced++
	return nil
}

func (f *fakeMinutesStore) GetMinutesByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Minutes, error) {
	return nil, nil
}

type fakeJobStore struct {
	jobs      []*entities.ProcessingJob
	failed    map[uuid.UUID]string
	completed map[uuid.UUID]bool
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{
		failed:    make(map[uuid.UUID]string),
		completed: make(map[uuid.UUID]bool),
	}
}

func (f *fakeJobStore) CreateJob(ctx context.Context, job *entities.ProcessingJob) error {
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeJobStore) GetJobsForProcessing(ctx context.Context, limit int) ([]entities.ProcessingJob, error) {
	return nil, nil
}

func (f *fakeJobStore) ClaimJob(ctx context.Context, jobID uuid.UUID, fromStatus entities.ProcessingJobStatus) (bool, error) {
	return true, nil
}

func (f *fakeJobStore) MarkJobAsCompleted(ctx context.Context, jobID uuid.UUID) error {
	f.completed[jobID] = true
	return nil
}

func (f *fakeJobStore) MarkJobAsFailed(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	f.failed[jobID] = errMsg
	return nil
}

func (f *fakeJobStore) IncrementRetryCount(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	return nil
}

func (f *fakeJobStore) GetStuckJobs(ctx context.Context, maxAge time.Duration, limit int) ([]entities.ProcessingJob, error) {
	return nil, nil
}

type fakePromptStore struct{}

func (f *fakePromptStore) GetPromptByID(ctx context.Context, promptID uuid.UUID) (*entities.PromptTemplate, error) {
	return nil, nil
}

type fakeDedup struct {
	first bool
	err   error
}

func (f *fakeDedup) SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return f.first, f.err
}

type serviceFixture struct {
	meetings    *fakeMeetingStore
	transcripts *fakeTranscriptStore
	minutes     *fakeMinutesStore
	jobs        *fakeJobStore
	svc         *pipelineService
}

func newServiceFixture(t *testing.T, zoomClient *zoom.Client, dedup *fakeDedup) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		meetings:    newFakeMeetingStore(),
		transcripts: &fakeTranscriptStore{},
		minutes:     &fakeMinutesStore{},
		jobs:        newFakeJobStore(),
	}
	cfg := &config.Config{}
	cfg.Worker.MaxRetries = 3
	cfg.Worker.JobTimeout = time.Minute

	f.svc = NewService(
		f.meetings, f.transcripts, f.minutes, f.jobs, &fakePromptStore{},
		zoomClient, nil, nil, dedup, cfg, nil,
	).(*pipelineService)
	return f
}

func recordingPayload(zoomUUID string, files []zoom.RecordingFile) *zoom.RecordingCompletedPayload {
	return &zoom.RecordingCompletedPayload{
		Object: zoom.MeetingRecording{
			UUID:           zoomUUID,
			ID:             101,
			Topic:          "Weekly sync",
			StartTime:      "2026-08-31T10:00:00Z",
			Duration:       30,
			RecordingFiles: files,
		},
	}
}

func transcriptAsset(url string) []zoom.RecordingFile {
	return []zoom.RecordingFile{
		{ID: "rec-1", FileType: "MP4", DownloadURL: url + "/video"},
		{ID: "rec-2", FileType: zoom.TranscriptFileType, DownloadURL: url + "/captions"},
	}
}

func TestHandleRecordingCompleted_CreatesMeetingAndJob(t *testing.T) {
	f := newServiceFixture(t, nil, &fakeDedup{first: true})

	meeting, err := f.svc.HandleRecordingCompleted(context.Background(), recordingPayload("uuid-1", transcriptAsset("https://rec.example.com")), "dl-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meeting == nil || meeting.Status != entities.MeetingStatusPending {
		t.Fatalf("expected pending meeting, got %+v", meeting)
	}
	if meeting.DownloadURL != "https://rec.example.com/captions" {
		t.Fatalf("transcript asset URL not recorded: %q", meeting.DownloadURL)
	}
	if len(f.jobs.jobs) != 1 {
		t.Fatalf("expected 1 ingest job, got %d", len(f.jobs.jobs))
	}
	job := f.jobs.jobs[0]
	if job.Stage != entities.ProcessingStageIngest || job.MeetingID != meeting.ID {
		t.Fatalf("unexpected job %+v", job)
	}
	if job.MaxRetries != 3 {
		t.Fatalf("job retry budget not taken from config: %d", job.MaxRetries)
	}
}

func TestHandleRecordingCompleted_StaleDedupMarkerStillCreates(t *testing.T) {
	// The marker was set by an earlier delivery that then failed before
	// writing any row. The redelivery must create the meeting, not ack a
	// phantom.
	f := newServiceFixture(t, nil, &fakeDedup{first: false})

	meeting, err := f.svc.HandleRecordingCompleted(context.Background(), recordingPayload("uuid-2", transcriptAsset("https://rec.example.com")), "dl-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meeting == nil {
		t.Fatal("expected a meeting despite the dedup marker")
	}
	if f.meetings.created != 1 {
		t.Fatalf("expected meeting row created, got %d", f.meetings.created)
	}
	if len(f.jobs.jobs) != 1 {
		t.Fatalf("expected ingest job enqueued, got %d", len(f.jobs.jobs))
	}
}

func TestHandleRecordingCompleted_DuplicateReturnsExisting(t *testing.T) {
	f := newServiceFixture(t, nil, &fakeDedup{first: false})
	existing := entities.NewMeeting(101, "uuid-3", "Weekly sync")
	f.meetings.meetings["uuid-3"] = existing

	meeting, err := f.svc.HandleRecordingCompleted(context.Background(), recordingPayload("uuid-3", transcriptAsset("https://rec.example.com")), "dl-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meeting != existing {
		t.Fatal("expected the already-known meeting")
	}
	if f.meetings.created != 0 || len(f.jobs.jobs) != 0 {
		t.Fatal("redelivered event must not create new rows")
	}
}

func TestHandleRecordingCompleted_NoTranscriptAsset(t *testing.T) {
	f := newServiceFixture(t, nil, &fakeDedup{first: true})

	files := []zoom.RecordingFile{{ID: "rec-1", FileType: "MP4"}}
	meeting, err := f.svc.HandleRecordingCompleted(context.Background(), recordingPayload("uuid-4", files), "dl-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meeting.Status != entities.MeetingStatusFailed {
		t.Fatalf("expected failed meeting, got %s", meeting.Status)
	}
	if meeting.ProcessingError == nil || *meeting.ProcessingError != "no transcript available" {
		t.Fatalf("unexpected processing error %v", meeting.ProcessingError)
	}
	if len(f.jobs.jobs) != 0 {
		t.Fatal("asset-less recording must not enqueue a job")
	}
}

func TestHandleRecordingCompleted_MissingDownloadToken(t *testing.T) {
	f := newServiceFixture(t, nil, &fakeDedup{first: true})

	meeting, err := f.svc.HandleRecordingCompleted(context.Background(), recordingPayload("uuid-5", transcriptAsset("https://rec.example.com")), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meeting.Status != entities.MeetingStatusFailed {
		t.Fatalf("expected failed meeting, got %s", meeting.Status)
	}
	if len(f.jobs.jobs) != 0 {
		t.Fatal("tokenless recording must not enqueue a job")
	}
}

func TestHandleRecordingCompleted_FetchesMissingAssetList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(zoom.MeetingRecording{
			UUID:           "uuid-6",
			RecordingFiles: transcriptAsset("https://rec.example.com"),
		})
	}))
	defer srv.Close()

	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok", TokenType: "Bearer"})
	client := zoom.NewClient(&config.ZoomConfig{BaseURL: srv.URL}, tokens)
	f := newServiceFixture(t, client, &fakeDedup{first: true})

	meeting, err := f.svc.HandleRecordingCompleted(context.Background(), recordingPayload("uuid-6", nil), "dl-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meeting.Status != entities.MeetingStatusPending {
		t.Fatalf("expected pending meeting, got %s", meeting.Status)
	}
	if meeting.DownloadURL != "https://rec.example.com/captions" {
		t.Fatalf("fetched asset list not used: %q", meeting.DownloadURL)
	}
	if len(f.jobs.jobs) != 1 {
		t.Fatalf("expected ingest job, got %d", len(f.jobs.jobs))
	}
}

func TestRunClaimedJob_RetryBudgetExhausted(t *testing.T) {
	f := newServiceFixture(t, nil, &fakeDedup{first: true})

	meetingID := uuid.New()
	job := entities.NewProcessingJob(meetingID, entities.ProcessingStageIngest)
	job.MaxRetries = 3
	job.RetryCount = 3

	// The nil model clients would panic if the pipeline ran; an
	// exhausted job must be closed out without a single attempt.
	f.svc.runClaimedJob(context.Background(), job, 0)

	if f.jobs.failed[job.ID] != "retry budget exhausted" {
		t.Fatalf("job not failed: %q", f.jobs.failed[job.ID])
	}
	if f.meetings.failed[meetingID] != "processing retries exhausted" {
		t.Fatalf("meeting not failed: %q", f.meetings.failed[meetingID])
	}
	if f.jobs.completed[job.ID] {
		t.Fatal("exhausted job must not complete")
	}
}
