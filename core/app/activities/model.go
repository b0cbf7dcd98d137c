package activities

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Activity is an entry of the activity sidebar
type Activity struct {
	Id        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// zero for system actions
	UserId uint `json:"user_id" gorm:"index"`

	// e.g. "tasks", "news", "dashboard"
	EntityType string `json:"entity_type" gorm:"index"`
	EntityId   string `json:"entity_id" gorm:"index"`

	Action      string          `json:"action" gorm:"index"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata" gorm:"type:json"`
}

// TableName returns the table name for the Activity model
func (m *Activity) TableName() string {
	return "activities"
}

// GetId returns the Id of the model
func (m *Activity) GetId() uint {
	return m.Id
}

// GetModelName returns the model name
func (m *Activity) GetModelName() string {
	return "activity"
}

// Entry describes an event for the sidebar
type Entry struct {
	UserId      uint
	EntityId    string
	Description string
}

// Describer is implemented by event payloads that know how to describe themselves
type Describer interface {
	ActivityEntry() Entry
}
