package notifications

import (
	"time"

	"gorm.io/gorm"
)

// Notification is an entry in a user's alerts dialog
type Notification struct {
	Id        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	UserId    uint           `json:"user_id" gorm:"index"`
	Title     string         `json:"title" gorm:"type:varchar(255)"`
	Body      string         `json:"body" gorm:"type:text"`
	Type      string         `json:"type" gorm:"type:varchar(50)"`
	IsRead    bool           `json:"read" gorm:"index"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	ActionUrl string         `json:"action_url,omitempty" gorm:"type:varchar(255)"`
}

// TableName returns the table name for the Notification model
func (m *Notification) TableName() string {
	return "notifications"
}

// GetId returns the Id of the model
func (m *Notification) GetId() uint {
	return m.Id
}

// GetModelName returns the model name
func (m *Notification) GetModelName() string {
	return "notification"
}

// TargetUserId routes the realtime push to the owner only
func (m *Notification) TargetUserId() uint {
	return m.UserId
}

// Notice is a notification another module asks to be delivered
type Notice struct {
	UserId    uint
	Title     string
	Body      string
	Type      string
	ActionUrl string
}

// Noticer is implemented by event payloads that should raise notifications
type Noticer interface {
	Notices() []Notice
}

// UnreadCountResponse is the badge count of the alerts button
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
