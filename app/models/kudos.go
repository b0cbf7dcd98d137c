package models

import (
	"fmt"
	"time"

	"intranet/core/app/activities"
	"intranet/core/app/notifications"

	"gorm.io/gorm"
)

// Badge classifies a kudos
type Badge string

const (
	BadgeTeamwork   Badge = "teamwork"
	BadgeInnovation Badge = "innovation"
	BadgeHelpful    Badge = "helpful"
	BadgeLeadership Badge = "leadership"
	BadgeCustomer   Badge = "customer-first"
)

var badgeLabels = map[Badge]string{
	BadgeTeamwork:   "Teamwork",
	BadgeInnovation: "Innovation",
	BadgeHelpful:    "Always Helpful",
	BadgeLeadership: "Leadership",
	BadgeCustomer:   "Customer First",
}

func (b Badge) Valid() bool {
	_, ok := badgeLabels[b]
	return ok
}

func (b Badge) Label() string {
	if label, ok := badgeLabels[b]; ok {
		return label
	}
	return string(b)
}

// Kudos is a public thank-you from one colleague to another
type Kudos struct {
	Id         uint           `json:"id" gorm:"primarykey"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
	FromUserId uint           `json:"from_user_id" gorm:"index"`
	FromName   string         `json:"from_name" gorm:"type:varchar(255)"`
	ToUserId   uint           `json:"to_user_id" gorm:"index"`
	ToName     string         `json:"to_name" gorm:"type:varchar(255)"`
	Badge      Badge          `json:"badge" gorm:"type:varchar(50)"`
	Message    string         `json:"message" gorm:"type:text"`
}

// TableName returns the table name for the Kudos model
func (m *Kudos) TableName() string {
	return "kudos"
}

// GetId returns the Id of the model
func (m *Kudos) GetId() uint {
	return m.Id
}

// GetModelName returns the model name
func (m *Kudos) GetModelName() string {
	return "kudos"
}

// TargetUserId routes realtime pushes to the recipient
func (m *Kudos) TargetUserId() uint {
	return m.ToUserId
}

// Notices tells the recipient about the kudos
func (m *Kudos) Notices() []notifications.Notice {
	return []notifications.Notice{{
		UserId:    m.ToUserId,
		Title:     fmt.Sprintf("%s gave you kudos", m.FromName),
		Body:      fmt.Sprintf("%s: %s", m.Badge.Label(), m.Message),
		Type:      "recognition",
		ActionUrl: "/recognition",
	}}
}

// CreateKudosRequest represents the request payload for giving kudos
type CreateKudosRequest struct {
	ToUserId uint   `json:"to_user_id" binding:"required"`
	Badge    Badge  `json:"badge" binding:"required,oneof=teamwork innovation helpful leadership customer-first"`
	Message  string `json:"message" binding:"required,max=1000"`
}

// ActivityEntry credits the giver in the activity sidebar
func (m *Kudos) ActivityEntry() activities.Entry {
	return activities.Entry{
		UserId:      m.FromUserId,
		EntityId:    fmt.Sprint(m.Id),
		Description: fmt.Sprintf("%s recognized %s for %s", m.FromName, m.ToName, m.Badge.Label()),
	}
}
