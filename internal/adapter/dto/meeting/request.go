package meeting

// ListMeetingsRequest represents query parameters for listing meetings
type ListMeetingsRequest struct {
	Status   string `query:"status" validate:"omitempty,oneof=pending processing completed failed"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// ReprocessRequest carries optional prompt overrides for regeneration.
// PromptTemplateID and CustomPrompt are mutually exclusive; the template
// wins when both are sent.
type ReprocessRequest struct {
	PromptTemplateID *string `json:"prompt_template_id,omitempty" validate:"omitempty,uuid"`
	CustomPrompt     string  `json:"custom_prompt,omitempty" validate:"omitempty,max=20000"`
}
