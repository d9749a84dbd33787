package prompt

// CreatePromptRequest represents the request to create a prompt template
type CreatePromptRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Type        string `json:"type" validate:"required,prompttype"`
	Content     string `json:"content" validate:"required,min=1,max=20000"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
	IsDefault   bool   `json:"is_default,omitempty"`
}

// UpdatePromptRequest represents the request to update a prompt template
type UpdatePromptRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Type        *string `json:"type,omitempty" validate:"omitempty,prompttype"`
	Content     *string `json:"content,omitempty" validate:"omitempty,min=1,max=20000"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	IsDefault   *bool   `json:"is_default,omitempty"`
}
