package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActionItemPriority is the urgency bucket of an action item
type ActionItemPriority string

const (
	ActionItemPriorityLow    ActionItemPriority = "low"
	ActionItemPriorityMedium ActionItemPriority = "medium"
	ActionItemPriorityHigh   ActionItemPriority = "high"
)

// ActionItemStatus is the lifecycle state of an action item
type ActionItemStatus string

const (
	ActionItemStatusPending    ActionItemStatus = "pending"
	ActionItemStatusInProgress ActionItemStatus = "in_progress"
	ActionItemStatusCompleted  ActionItemStatus = "completed"
	ActionItemStatusCancelled  ActionItemStatus = "cancelled"
)

// ValidActionItemPriority reports whether p is a known priority.
func ValidActionItemPriority(p ActionItemPriority) bool {
	switch p {
	case ActionItemPriorityLow, ActionItemPriorityMedium, ActionItemPriorityHigh:
		return true
	}
	return false
}

// ActionItem is one task extracted from a meeting. Position preserves the
// order the generator emitted them in.
type ActionItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;index"`

	Description string             `json:"description" gorm:"type:text;not null"`
	Assignee    *string            `json:"assignee,omitempty" gorm:"type:varchar(255)"`
	DueDate     *time.Time         `json:"due_date,omitempty" gorm:"type:timestamp"`
	Priority    ActionItemPriority `json:"priority" gorm:"type:varchar(20);not null;default:'medium'"`
	Status      ActionItemStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Position    int                `json:"position" gorm:"type:integer;not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewActionItem creates a pending action item for a meeting
func NewActionItem(meetingID uuid.UUID, description string, position int) *ActionItem {
	return &ActionItem{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		Description: description,
		Priority:    ActionItemPriorityMedium,
		Status:      ActionItemStatusPending,
		Position:    position,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// TableName specifies the table name for GORM
func (ActionItem) TableName() string {
	return "action_items"
}
