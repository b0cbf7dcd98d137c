package models

import (
	"time"

	"gorm.io/gorm"
)

// Event is a company calendar entry
type Event struct {
	Id          uint           `json:"id" gorm:"primarykey"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Title       string         `json:"title" gorm:"type:varchar(255)"`
	Description string         `json:"description" gorm:"type:text"`
	Location    string         `json:"location" gorm:"type:varchar(255)"`
	Category    string         `json:"category" gorm:"type:varchar(100);index"`
	StartsAt    time.Time      `json:"starts_at" gorm:"index"`
	EndsAt      time.Time      `json:"ends_at"`
	AllDay      bool           `json:"all_day"`
	OrganizerId uint           `json:"organizer_id"`
	Source      string         `json:"source" gorm:"type:varchar(50);default:'portal'"`
	ExternalId  string         `json:"external_id,omitempty" gorm:"type:varchar(255);index"`
}

// TableName returns the table name for the Event model
func (m *Event) TableName() string {
	return "events"
}

// GetId returns the Id of the model
func (m *Event) GetId() uint {
	return m.Id
}

// GetModelName returns the model name
func (m *Event) GetModelName() string {
	return "event"
}

// CreateEventRequest represents the request payload for creating an Event
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,max=255"`
	Description string    `json:"description"`
	Location    string    `json:"location" binding:"omitempty,max=255"`
	Category    string    `json:"category" binding:"omitempty,max=100"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at"`
	AllDay      bool      `json:"all_day"`
}
