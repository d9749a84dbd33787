package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meeting-minutes-team/meeting-minutes/internal/domain/entities"
)

// PromptRepository handles prompt template data operations
type PromptRepository struct {
	db *gorm.DB
}

// NewPromptRepository creates a new prompt repository
func NewPromptRepository(db *gorm.DB) *PromptRepository {
	return &PromptRepository{db: db}
}

// CreatePrompt creates a new prompt template
func (r *PromptRepository) CreatePrompt(ctx context.Context, prompt *entities.PromptTemplate) error {
	if prompt == nil {
		return errors.New("prompt cannot be nil")
	}
	return r.db.WithContext(ctx).Create(prompt).Error
}

// GetPromptByID retrieves a prompt template by ID
func (r *PromptRepository) GetPromptByID(ctx context.Context, promptID uuid.UUID) (*entities.PromptTemplate, error) {
	var prompt entities.PromptTemplate
	if err := r.db.WithContext(ctx).Where("id = ?", promptID).First(&prompt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prompt, nil
}

// ListPrompts retrieves all prompt templates, optionally filtered by type
func (r *PromptRepository) ListPrompts(ctx context.Context, promptType entities.PromptTemplateType) ([]entities.PromptTemplate, error) {
	var prompts []entities.PromptTemplate
	query := r.db.WithContext(ctx)
	if promptType != "" {
		query = query.Where("type = ?", promptType)
	}
	if err := query.Order("created_at DESC").Find(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

// UpdatePrompt persists all fields of a prompt template
func (r *PromptRepository) UpdatePrompt(ctx context.Context, prompt *entities.PromptTemplate) error {
	if prompt == nil {
		return errors.New("prompt cannot be nil")
	}
	return r.db.WithContext(ctx).
		Model(&entities.PromptTemplate{}).
		Where("id = ?", prompt.ID).
		Save(prompt).Error
}

// DeletePrompt removes a prompt template
func (r *PromptRepository) DeletePrompt(ctx context.Context, promptID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entities.PromptTemplate{}, promptID).Error
}
