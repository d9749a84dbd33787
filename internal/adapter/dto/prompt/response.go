package prompt

import (
	"time"

	"github.com/meeting-minutes-team/meeting-minutes/internal/domain/entities"
)

// PromptResponse represents a prompt template in responses
type PromptResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Content     string    `json:"content"`
	Description string    `json:"description,omitempty"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromPrompt maps a prompt template entity to its response shape
func FromPrompt(p *entities.PromptTemplate) *PromptResponse {
	return &PromptResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Type:        string(p.Type),
		Content:     p.Content,
		Description: p.Description,
		IsDefault:   p.IsDefault,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
