package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meeting-minutes-team/meeting-minutes/errors"
	meetingdto "github.com/meeting-minutes-team/meeting-minutes/internal/adapter/dto/meeting"
	"github.com/meeting-minutes-team/meeting-minutes/internal/adapter/repository"
	"github.com/meeting-minutes-team/meeting-minutes/internal/domain/entities"
	"github.com/meeting-minutes-team/meeting-minutes/internal/usecase/pipeline"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/validator"
)

// Meeting exposes read access to meetings and the reprocess operation
type Meeting struct {
	svc            pipeline.Service
	meetingRepo    *repository.MeetingRepository
	transcriptRepo *repository.TranscriptRepository
	minutesRepo    *repository.MinutesRepository
	validator      *validator.CustomValidator
	logger         *zap.Logger
}

// NewMeeting creates the meeting handler
func NewMeeting(svc pipeline.Service, meetingRepo *repository.MeetingRepository, transcriptRepo *repository.TranscriptRepository, minutesRepo *repository.MinutesRepository, v *validator.CustomValidator, logger *zap.Logger) *Meeting {
	return &Meeting{
		svc:            svc,
		meetingRepo:    meetingRepo,
		transcriptRepo: transcriptRepo,
		minutesRepo:    minutesRepo,
		validator:      v,
		logger:         logger,
	}
}

// List returns meetings newest-first with optional status filter
func (h *Meeting) List(c echo.Context) error {
	var req meetingdto.ListMeetingsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid query parameters"))
	}
	if err := h.validator.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	meetings, total, err := h.meetingRepo.ListMeetings(
		c.Request().Context(),
		entities.MeetingStatus(req.Status),
		req.PageSize,
		(req.Page-1)*req.PageSize,
	)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("list meetings", err))
	}

	resp := meetingdto.ListMeetingsResponse{
		Meetings: make([]meetingdto.MeetingResponse, 0, len(meetings)),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	for i := range meetings {
		resp.Meetings = append(resp.Meetings, *meetingdto.FromMeeting(&meetings[i]))
	}
	return HandleSuccess(h.logger, c, resp)
}

// Get returns one meeting with its transcript, minutes and action items
func (h *Meeting) Get(c echo.Context) error {
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	ctx := c.Request().Context()
	meeting, err := h.meetingRepo.GetMeetingByID(ctx, meetingID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("get meeting", err))
	}
	if meeting == nil {
		return HandleError(h.logger, c, errors.ErrMeetingNotFound(meetingID.String()))
	}

	resp := meetingdto.MeetingDetailResponse{
		Meeting:     meetingdto.FromMeeting(meeting),
		ActionItems: []meetingdto.ActionItemResponse{},
	}

	transcript, err := h.transcriptRepo.GetTranscriptByMeetingID(ctx, meetingID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("get transcript", err))
	}
	if transcript != nil {
		resp.Transcript = meetingdto.FromTranscript(transcript)
	}

	minutes, err := h.minutesRepo.GetMinutesByMeetingID(ctx, meetingID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("get minutes", err))
	}
	if minutes != nil {
		resp.Minutes = meetingdto.FromMinutes(minutes)
		items, err := h.minutesRepo.ListActionItemsByMeetingID(ctx, meetingID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrDBQueryFailed("list action items", err))
		}
		resp.ActionItems = meetingdto.FromActionItems(items)
	}

	return HandleSuccess(h.logger, c, resp)
}

// Reprocess queues regeneration of a meeting's minutes
func (h *Meeting) Reprocess(c echo.Context) error {
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	var req meetingdto.ReprocessRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid request body"))
	}
	if err := h.validator.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	opts := pipeline.ReprocessOptions{CustomPrompt: req.CustomPrompt}
	if req.PromptTemplateID != nil {
		promptID, err := uuid.Parse(*req.PromptTemplateID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid prompt template id"))
		}
		opts.PromptTemplateID = &promptID
	}

	job, err := h.svc.Reprocess(c.Request().Context(), meetingID, opts)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, meetingdto.ReprocessResponse{
		JobID:     job.ID.String(),
		MeetingID: meetingID.String(),
		Status:    string(job.Status),
	})
}
