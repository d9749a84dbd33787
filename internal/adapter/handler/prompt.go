package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meeting-minutes-team/meeting-minutes/errors"
	promptdto "github.com/meeting-minutes-team/meeting-minutes/internal/adapter/dto/prompt"
	"github.com/meeting-minutes-team/meeting-minutes/internal/adapter/repository"
	"github.com/meeting-minutes-team/meeting-minutes/internal/domain/entities"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/validator"
)

// Prompt manages operator-defined prompt templates
type Prompt struct {
	promptRepo *repository.PromptRepository
	validator  *validator.CustomValidator
	logger     *zap.Logger
}

// NewPrompt creates the prompt handler
func NewPrompt(promptRepo *repository.PromptRepository, v *validator.CustomValidator, logger *zap.Logger) *Prompt {
	return &Prompt{promptRepo: promptRepo, validator: v, logger: logger}
}

// Create registers a new prompt template
func (h *Prompt) Create(c echo.Context) error {
	var req promptdto.CreatePromptRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid request body"))
	}
	if err := h.validator.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	prompt := entities.NewPromptTemplate(req.Name, entities.PromptTemplateType(req.Type), req.Content)
	prompt.Description = req.Description
	prompt.IsDefault = req.IsDefault

	if err := h.promptRepo.CreatePrompt(c.Request().Context(), prompt); err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("create prompt", err))
	}
	return HandleSuccess(h.logger, c, promptdto.FromPrompt(prompt))
}

// List returns all prompt templates, optionally filtered by type
func (h *Prompt) List(c echo.Context) error {
	promptType := entities.PromptTemplateType(c.QueryParam("type"))
	prompts, err := h.promptRepo.ListPrompts(c.Request().Context(), promptType)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("list prompts", err))
	}

	out := make([]promptdto.PromptResponse, 0, len(prompts))
	for i := range prompts {
		out = append(out, *promptdto.FromPrompt(&prompts[i]))
	}
	return HandleSuccess(h.logger, c, out)
}

// Get returns one prompt template
func (h *Prompt) Get(c echo.Context) error {
	promptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid prompt id"))
	}
	prompt, err := h.promptRepo.GetPromptByID(c.Request().Context(), promptID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("get prompt", err))
	}
	if prompt == nil {
		return HandleError(h.logger, c, errors.ErrPromptNotFound(promptID.String()))
	}
	return HandleSuccess(h.logger, c, promptdto.FromPrompt(prompt))
}

// Update modifies a prompt template
func (h *Prompt) Update(c echo.Context) error {
	promptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid prompt id"))
	}

	var req promptdto.UpdatePromptRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid request body"))
	}
	if err := h.validator.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	ctx := c.Request().Context()
	prompt, err := h.promptRepo.GetPromptByID(ctx, promptID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("get prompt", err))
	}
	if prompt == nil {
		return HandleError(h.logger, c, errors.ErrPromptNotFound(promptID.String()))
	}

	if req.Name != nil {
		prompt.Name = *req.Name
	}
	if req.Type != nil {
		prompt.Type = entities.PromptTemplateType(*req.Type)
	}
	if req.Content != nil {
		prompt.Content = *req.Content
	}
	if req.Description != nil {
		prompt.Description = *req.Description
	}
	if req.IsDefault != nil {
		prompt.IsDefault = *req.IsDefault
	}

	if err := h.promptRepo.UpdatePrompt(ctx, prompt); err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("update prompt", err))
	}
	return HandleSuccess(h.logger, c, promptdto.FromPrompt(prompt))
}

// Delete removes a prompt template
func (h *Prompt) Delete(c echo.Context) error {
	promptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid prompt id"))
	}
	if err := h.promptRepo.DeletePrompt(c.Request().Context(), promptID); err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("delete prompt", err))
	}
	return HandleSuccess(h.logger, c, map[string]string{"id": promptID.String()})
}
