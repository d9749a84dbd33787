package entities

import (
	"time"

	"github.com/google/uuid"
)

// PromptTemplateType selects which generation path a template applies to
type PromptTemplateType string

const (
	PromptTypeInterviewFirst  PromptTemplateType = "interview_first"
	PromptTypeInterviewSecond PromptTemplateType = "interview_second"
	PromptTypeRegularMeeting  PromptTemplateType = "regular_meeting"
	PromptTypeCustom          PromptTemplateType = "custom"
)

// PromptTemplate is an operator-managed system prompt override. When a
// reprocess request names one, its content replaces the built-in system
// prompt verbatim.
type PromptTemplate struct {
	ID          uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string             `json:"name" gorm:"type:varchar(255);not null"`
	Type        PromptTemplateType `json:"type" gorm:"type:varchar(50);not null;index"`
	Content     string             `json:"content" gorm:"type:text;not null"`
	Description string             `json:"description,omitempty" gorm:"type:text"`
	IsDefault   bool               `json:"is_default" gorm:"type:boolean;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewPromptTemplate creates a prompt template
func NewPromptTemplate(name string, promptType PromptTemplateType, content string) *PromptTemplate {
	return &PromptTemplate{
		ID:        uuid.New(),
		Name:      name,
		Type:      promptType,
		Content:   content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// TableName specifies the table name for GORM
func (PromptTemplate) TableName() string {
	return "prompt_templates"
}
