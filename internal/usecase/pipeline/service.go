package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meeting-minutes-team/meeting-minutes/errors"
	"github.com/meeting-minutes-team/meeting-minutes/internal/domain/entities"
	domainrepo "github.com/meeting-minutes-team/meeting-minutes/internal/domain/repositories"
	"github.com/meeting-minutes-team/meeting-minutes/internal/infrastructure/cache"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/config"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/jobcontext"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/vtt"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/zoom"
)

// dedupTTL covers the provider's webhook retry window with margin
const dedupTTL = 24 * time.Hour

// ReprocessOptions carries prompt overrides for a regenerate request
type ReprocessOptions struct {
	PromptTemplateID *uuid.UUID
	CustomPrompt     string
}

// Service orchestrates the recording-to-minutes pipeline
type Service interface {
	HandleRecordingCompleted(ctx context.Context, payload *zoom.RecordingCompletedPayload, downloadToken string) (*entities.Meeting, error)
	Reprocess(ctx context.Context, meetingID uuid.UUID, opts ReprocessOptions) (*entities.ProcessingJob, error)
	StartWorkerPool(ctx context.Context, workerCount int) error
	StopWorkerPool() error
}

type pipelineService struct {
	meetingRepo    domainrepo.MeetingRepository
	transcriptRepo domainrepo.TranscriptRepository
	minutesRepo    domainrepo.MinutesRepository
	jobRepo        domainrepo.ProcessingJobRepository
	promptRepo     domainrepo.PromptRepository
	zoomClient     *zoom.Client
	classifier     *Classifier
	generator      *Generator
	dedup          cache.DedupStore
	cfg            *config.Config
	logger         *zap.Logger

	workerStopChan      chan struct{}
	workerWg            sync.WaitGroup
	isWorkerPoolRunning bool
	workerMutex         sync.Mutex
}

// NewService constructs the pipeline service
func NewService(
	meetingRepo domainrepo.MeetingRepository,
	transcriptRepo domainrepo.TranscriptRepository,
	minutesRepo domainrepo.MinutesRepository,
	jobRepo domainrepo.ProcessingJobRepository,
	promptRepo domainrepo.PromptRepository,
	zoomClient *zoom.Client,
	classifier *Classifier,
	generator *Generator,
	dedup cache.DedupStore,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &pipelineService{
		meetingRepo:    meetingRepo,
		transcriptRepo: transcriptRepo,
		minutesRepo:    minutesRepo,
		jobRepo:        jobRepo,
		promptRepo:     promptRepo,
		zoomClient:     zoomClient,
		classifier:     classifier,
		generator:      generator,
		dedup:          dedup,
		cfg:            cfg,
		logger:         logger,
		workerStopChan: make(chan struct{}),
	}
}

// HandleRecordingCompleted registers the meeting and enqueues an ingest
// job. It does no provider or model calls; webhook acknowledgement must
// not wait on the pipeline. Redelivered events return the already-known
// meeting.
func (s *pipelineService) HandleRecordingCompleted(ctx context.Context, payload *zoom.RecordingCompletedPayload, downloadToken string) (*entities.Meeting, error) {
	obj := &payload.Object
	if obj.UUID == "" {
		return nil, errors.ErrInvalidPayload()
	}

	// Fast dedup path. A cache miss or error is not fatal; the unique
	// index on zoom_uuid is the real guarantee.
	if s.dedup != nil {
		first, err := s.dedup.SetIfAbsent(ctx, "webhook:recording.completed:"+obj.UUID, dedupTTL)
		if err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Dedup store unavailable, relying on database constraint",
				zap.Error(errors.ErrCacheFailed("set dedup marker", err)))
		}
		if err == nil && !first {
			existing, err := s.meetingRepo.GetMeetingByZoomUUID(ctx, obj.UUID)
			if err != nil {
				return nil, errors.ErrDBQueryFailed("get meeting by zoom uuid", err)
			}
			if existing != nil {
				if s.logger != nil {
					s.logger.Info("⏭️ Duplicate webhook event dropped", zap.String("zoom_uuid", obj.UUID))
				}
				return existing, nil
			}
			// Marker set but no row: the earlier delivery failed after
			// marking. Fall through and create the meeting this time.
		}
	}

	if existing, err := s.meetingRepo.GetMeetingByZoomUUID(ctx, obj.UUID); err != nil {
		return nil, errors.ErrDBQueryFailed("get meeting by zoom uuid", err)
	} else if existing != nil {
		return existing, nil
	}

	meeting := entities.NewMeeting(obj.ID, obj.UUID, obj.Topic)
	meeting.HostID = obj.HostID
	meeting.HostEmail = obj.HostEmail
	meeting.Duration = obj.Duration
	meeting.ShareURL = obj.ShareURL
	if t, err := time.Parse(time.RFC3339, obj.StartTime); err == nil {
		meeting.StartTime = t
	}

	files := obj.RecordingFiles
	if len(files) == 0 && s.zoomClient != nil {
		// Some deliveries omit the asset list; the recordings endpoint
		// holds the authoritative copy.
		rec, err := s.zoomClient.GetMeetingRecordings(ctx, obj.UUID)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("⚠️ Failed to fetch recording assets",
					zap.String("zoom_uuid", obj.UUID),
					zap.Error(err),
				)
			}
		} else if rec != nil {
			files = rec.RecordingFiles
		}
	}

	transcriptFile := zoom.FindTranscriptFile(files)
	if transcriptFile == nil || downloadToken == "" {
		// No caption asset, or no credential to fetch it with; nothing the
		// pipeline can do for this recording.
		meeting.MarkAsFailed(errors.ErrNoTranscriptAvailable().Message)
		if err := s.meetingRepo.CreateMeeting(ctx, meeting); err != nil {
			return s.handleCreateConflict(ctx, obj.UUID, err)
		}
		if s.logger != nil {
			s.logger.Warn("⚠️ Recording has no fetchable transcript asset",
				zap.String("zoom_uuid", obj.UUID),
				zap.String("topic", obj.Topic),
				zap.Bool("has_asset", transcriptFile != nil),
			)
		}
		return meeting, nil
	}

	meeting.ZoomRecordingID = transcriptFile.ID
	meeting.DownloadURL = transcriptFile.DownloadURL
	meeting.DownloadToken = downloadToken

	if err := s.meetingRepo.CreateMeeting(ctx, meeting); err != nil {
		return s.handleCreateConflict(ctx, obj.UUID, err)
	}

	job := entities.NewProcessingJob(meeting.ID, entities.ProcessingStageIngest)
	job.MaxRetries = s.cfg.Worker.MaxRetries
	if err := s.jobRepo.CreateJob(ctx, job); err != nil {
		// Partial unique index conflict: work already queued for this meeting
		if isUniqueViolation(err) {
			return meeting, nil
		}
		return nil, errors.ErrDBQueryFailed("enqueue ingest job", err)
	}

	if s.logger != nil {
		s.logger.Info("📥 Recording registered for processing",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("zoom_uuid", obj.UUID),
			zap.String("topic", obj.Topic),
		)
	}
	return meeting, nil
}

// handleCreateConflict resolves the race where two deliveries insert the
// same zoom_uuid concurrently: the loser re-reads the winner's row.
func (s *pipelineService) handleCreateConflict(ctx context.Context, zoomUUID string, createErr error) (*entities.Meeting, error) {
	if !isUniqueViolation(createErr) {
		return nil, errors.ErrDBQueryFailed("create meeting", createErr)
	}
	existing, err := s.meetingRepo.GetMeetingByZoomUUID(ctx, zoomUUID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("get meeting by zoom uuid", err)
	}
	if existing == nil {
		return nil, errors.ErrDBQueryFailed("create meeting", createErr)
	}
	return existing, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "23505") ||
		strings.Contains(msg, "unique constraint")
}

// Reprocess enqueues a regenerate job that re-runs classification and
// generation from the stored transcript. Previous minutes stay readable
// until the new output replaces them atomically.
func (s *pipelineService) Reprocess(ctx context.Context, meetingID uuid.UUID, opts ReprocessOptions) (*entities.ProcessingJob, error) {
	meeting, err := s.meetingRepo.GetMeetingByID(ctx, meetingID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("get meeting", err)
	}
	if meeting == nil {
		return nil, errors.ErrMeetingNotFound(meetingID.String())
	}
	if !meeting.CanReprocess() {
		return nil, errors.ErrReprocessNotPossible(fmt.Sprintf("meeting is %s", meeting.Status))
	}

	transcript, err := s.transcriptRepo.GetTranscriptByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("get transcript", err)
	}
	if transcript == nil {
		return nil, errors.ErrReprocessNotPossible("no stored transcript")
	}

	customPrompt := opts.CustomPrompt
	if opts.PromptTemplateID != nil {
		prompt, err := s.promptRepo.GetPromptByID(ctx, *opts.PromptTemplateID)
		if err != nil {
			return nil, errors.ErrDBQueryFailed("get prompt template", err)
		}
		if prompt == nil {
			return nil, errors.ErrPromptNotFound(opts.PromptTemplateID.String())
		}
		customPrompt = prompt.Content
	}

	job := entities.NewProcessingJob(meetingID, entities.ProcessingStageRegenerate)
	job.MaxRetries = s.cfg.Worker.MaxRetries
	job.PromptTemplateID = opts.PromptTemplateID
	job.CustomPrompt = customPrompt
	if err := s.jobRepo.CreateJob(ctx, job); err != nil {
		if isUniqueViolation(err) {
			return nil, errors.ErrReprocessNotPossible("meeting already has a job in flight")
		}
		return nil, errors.ErrDBQueryFailed("enqueue regenerate job", err)
	}

	if err := s.meetingRepo.UpdateMeetingStatus(ctx, meetingID, entities.MeetingStatusProcessing); err != nil {
		return nil, errors.ErrDBQueryFailed("update meeting status", err)
	}

	if s.logger != nil {
		s.logger.Info("🔄 Reprocess queued",
			zap.String("meeting_id", meetingID.String()),
			zap.String("job_id", job.ID.String()),
		)
	}
	return job, nil
}

// StartWorkerPool starts background workers that drain the job queue
func (s *pipelineService) StartWorkerPool(ctx context.Context, workerCount int) error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool already running")
	}

	s.isWorkerPoolRunning = true
	s.workerStopChan = make(chan struct{})

	if s.logger != nil {
		s.logger.Info("🚀 Starting pipeline worker pool",
			zap.Int("worker_count", workerCount),
		)
	}

	for i := 0; i < workerCount; i++ {
		s.workerWg.Add(1)
		go s.jobWorker(ctx, i)
	}

	// Sweep for jobs orphaned by a dead worker
	s.workerWg.Add(1)
	go s.zombieJobSweeper(ctx)

	return nil
}

// StopWorkerPool gracefully stops all worker goroutines
func (s *pipelineService) StopWorkerPool() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool not running")
	}

	if s.logger != nil {
		s.logger.Info("🛑 Stopping pipeline worker pool...")
	}

	close(s.workerStopChan)
	s.workerWg.Wait()
	s.isWorkerPoolRunning = false

	if s.logger != nil {
		s.logger.Info("✅ Pipeline worker pool stopped")
	}

	return nil
}

// jobWorker polls for claimable jobs and runs them one at a time
func (s *pipelineService) jobWorker(parentCtx context.Context, workerID int) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(s.cfg.Worker.PollInterval)
	defer ticker.Stop()

	if s.logger != nil {
		s.logger.Info("👷 Worker started", zap.Int("worker_id", workerID))
	}

	for {
		select {
		case <-s.workerStopChan:
			if s.logger != nil {
				s.logger.Info("👷 Worker stopping", zap.Int("worker_id", workerID))
			}
			return

		case <-ticker.C:
			jobs, err := s.jobRepo.GetJobsForProcessing(parentCtx, 10)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Failed to poll jobs",
						zap.Int("worker_id", workerID),
						zap.Error(err),
					)
				}
				continue
			}

			for i := range jobs {
				job := jobs[i]

				// Atomic claim; only one worker wins the CAS
				claimed, err := s.jobRepo.ClaimJob(parentCtx, job.ID, job.Status)
				if err != nil {
					if s.logger != nil {
						s.logger.Error("❌ Failed to claim job",
							zap.String("job_id", job.ID.String()),
							zap.Error(err),
						)
					}
					continue
				}
				if !claimed {
					continue
				}

				s.runClaimedJob(parentCtx, &job, workerID)
				break
			}
		}
	}
}

// runClaimedJob executes one claimed job under a deadline with retries,
// then records the terminal outcome on both the job and the meeting.
func (s *pipelineService) runClaimedJob(parentCtx context.Context, job *entities.ProcessingJob, workerID int) {
	if s.logger != nil {
		s.logger.Info("👷 Worker claimed job",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("meeting_id", job.MeetingID.String()),
			zap.String("stage", string(job.Stage)),
		)
	}

	// The zombie sweeper can hand back a job whose retry budget is
	// already spent; it must not buy another round of model calls.
	retriesLeft := job.MaxRetries - job.RetryCount
	if retriesLeft <= 0 {
		if markErr := s.jobRepo.MarkJobAsFailed(parentCtx, job.ID, "retry budget exhausted"); markErr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to record job failure", zap.Error(markErr))
		}
		if markErr := s.meetingRepo.MarkMeetingAsFailed(parentCtx, job.MeetingID, "processing retries exhausted"); markErr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to record meeting failure", zap.Error(markErr))
		}
		return
	}

	if err := s.meetingRepo.UpdateMeetingStatus(parentCtx, job.MeetingID, entities.MeetingStatusProcessing); err != nil && s.logger != nil {
		s.logger.Error("❌ Failed to mark meeting processing",
			zap.String("meeting_id", job.MeetingID.String()),
			zap.Error(err),
		)
	}

	jobCtx, cancel := jobcontext.JobBegin(parentCtx, job.ID, string(job.Stage), workerID, s.cfg.Worker.JobTimeout, retriesLeft)
	err := jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
		return s.runJob(ctx, job)
	})
	cancel()

	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Job failed",
				zap.String("job_id", job.ID.String()),
				zap.String("meeting_id", job.MeetingID.String()),
				zap.Error(err),
			)
		}
		if markErr := s.jobRepo.MarkJobAsFailed(parentCtx, job.ID, err.Error()); markErr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to record job failure", zap.Error(markErr))
		}
		if markErr := s.meetingRepo.MarkMeetingAsFailed(parentCtx, job.MeetingID, failureMessage(err)); markErr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to record meeting failure", zap.Error(markErr))
		}
		return
	}

	// Meeting status was set to completed inside the persistence
	// transaction; only the job row remains to close out.
	if markErr := s.jobRepo.MarkJobAsCompleted(parentCtx, job.ID); markErr != nil && s.logger != nil {
		s.logger.Error("❌ Failed to record job completion", zap.Error(markErr))
	}
	if s.logger != nil {
		s.logger.Info("✅ Job completed",
			zap.String("job_id", job.ID.String()),
			zap.String("meeting_id", job.MeetingID.String()),
		)
	}
}

// failureMessage keeps the user-visible failure reason stable for known
// pipeline errors while preserving detail for unexpected ones.
func failureMessage(err error) string {
	var appErr errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// runJob dispatches on the job stage
func (s *pipelineService) runJob(ctx context.Context, job *entities.ProcessingJob) error {
	meeting, err := s.meetingRepo.GetMeetingByID(ctx, job.MeetingID)
	if err != nil {
		return fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return errors.ErrMeetingNotFound(job.MeetingID.String())
	}

	switch job.Stage {
	case entities.ProcessingStageIngest:
		return s.runIngest(ctx, meeting, job)
	case entities.ProcessingStageRegenerate:
		return s.runRegenerate(ctx, meeting, job)
	default:
		return fmt.Errorf("unknown job stage %q", job.Stage)
	}
}

// runIngest downloads and decodes the transcript, then classifies and
// generates minutes.
func (s *pipelineService) runIngest(ctx context.Context, meeting *entities.Meeting, job *entities.ProcessingJob) error {
	if meeting.DownloadURL == "" {
		return errors.ErrNoTranscriptAvailable()
	}

	var raw []byte
	download := func() error {
		var err error
		raw, err = s.zoomClient.DownloadFile(ctx, meeting.DownloadURL, meeting.DownloadToken)
		if err != nil && strings.Contains(err.Error(), "status 4") {
			// The one-time token can expire while the job waits in the
			// queue; the account credential still authorizes the asset.
			raw, err = s.zoomClient.DownloadFileOAuth(ctx, meeting.DownloadURL)
			if err != nil && strings.Contains(err.Error(), "status 4") {
				return backoff.Permanent(err)
			}
		}
		return err
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(download, backoff.WithContext(bo, ctx)); err != nil {
		return errors.ErrTranscriptFetchFailed(err)
	}

	fullText := vtt.ExtractText(string(raw))
	if strings.TrimSpace(fullText) == "" {
		return errors.ErrTranscriptDecodeFailed(fmt.Errorf("decoded transcript is empty"))
	}

	transcript := entities.NewTranscript(meeting.ID, string(raw), fullText)
	if err := s.transcriptRepo.SaveTranscript(ctx, transcript); err != nil {
		return fmt.Errorf("failed to store transcript: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("📄 Transcript stored",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Int("chars", len(fullText)),
		)
	}

	return s.classifyAndGenerate(ctx, meeting, fullText, job.CustomPrompt)
}

// runRegenerate re-runs classification and generation from stored text
func (s *pipelineService) runRegenerate(ctx context.Context, meeting *entities.Meeting, job *entities.ProcessingJob) error {
	transcript, err := s.transcriptRepo.GetTranscriptByMeetingID(ctx, meeting.ID)
	if err != nil {
		return fmt.Errorf("failed to load transcript: %w", err)
	}
	if transcript == nil {
		return errors.ErrTranscriptNotFound(meeting.ID.String())
	}
	return s.classifyAndGenerate(ctx, meeting, transcript.FullText, job.CustomPrompt)
}

// classifyAndGenerate runs the model stages and commits the result in one
// transaction.
func (s *pipelineService) classifyAndGenerate(ctx context.Context, meeting *entities.Meeting, fullText, customPrompt string) error {
	classification, err := s.classifier.Classify(ctx, meeting.Topic, fullText)
	if err != nil {
		return errors.ErrClassificationFailed(err)
	}

	if err := s.meetingRepo.UpdateClassification(ctx, meeting.ID, classification.MeetingType, classification.SubType, classification.InterviewStage); err != nil {
		return fmt.Errorf("failed to store classification: %w", err)
	}
	meeting.SetClassification(classification.MeetingType, classification.SubType, classification.InterviewStage)

	if s.logger != nil {
		s.logger.Info("🏷️ Meeting classified",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("meeting_type", string(classification.MeetingType)),
			zap.Float64("confidence", classification.Confidence),
		)
	}

	generated, err := s.generator.Generate(ctx, meeting, fullText, classification, customPrompt)
	if err != nil {
		return errors.ErrGenerationFailed(err)
	}

	if err := s.minutesRepo.ReplaceMinutes(ctx, generated.Minutes, generated.ActionItems); err != nil {
		return errors.ErrDBTransactionFailed(err)
	}

	if s.logger != nil {
		s.logger.Info("📝 Minutes generated",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Int("action_items", len(generated.ActionItems)),
		)
	}
	return nil
}

// zombieJobSweeper feeds jobs orphaned by dead workers back through retry
// accounting.
func (s *pipelineService) zombieJobSweeper(parentCtx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	// A healthy job never outlives its deadline by this much
	maxAge := 2 * s.cfg.Worker.JobTimeout

	for {
		select {
		case <-s.workerStopChan:
			return

		case <-ticker.C:
			jobs, err := s.jobRepo.GetStuckJobs(parentCtx, maxAge, 10)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Zombie sweep failed", zap.Error(err))
				}
				continue
			}

			for i := range jobs {
				job := jobs[i]
				if s.logger != nil {
					s.logger.Warn("🧟 Recovering stuck job",
						zap.String("job_id", job.ID.String()),
						zap.Int("retry_count", job.RetryCount),
					)
				}
				if job.IsRetryable() {
					if err := s.jobRepo.IncrementRetryCount(parentCtx, job.ID, "worker lost"); err != nil && s.logger != nil {
						s.logger.Error("❌ Failed to requeue stuck job", zap.Error(err))
					}
					continue
				}
				if err := s.jobRepo.MarkJobAsFailed(parentCtx, job.ID, "worker lost, retries exhausted"); err != nil && s.logger != nil {
					s.logger.Error("❌ Failed to fail stuck job", zap.Error(err))
				}
				if err := s.meetingRepo.MarkMeetingAsFailed(parentCtx, job.MeetingID, "processing worker lost"); err != nil && s.logger != nil {
					s.logger.Error("❌ Failed to fail stuck job's meeting", zap.Error(err))
				}
			}
		}
	}
}
