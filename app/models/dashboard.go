package models

import "time"

// DashboardWidget is the persisted placement of one dashboard widget
type DashboardWidget struct {
	Id        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	WidgetKey string    `json:"widget_key" gorm:"type:varchar(64);uniqueIndex"`
	Kind      string    `json:"kind" gorm:"type:varchar(32)"`
	Title     string    `json:"title" gorm:"type:varchar(128)"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	W         int       `json:"w"`
	H         int       `json:"h"`
	Visible   bool      `json:"visible"`
	SortOrder int       `json:"sort_order"`
}

// TableName returns the table name for the DashboardWidget model
func (m *DashboardWidget) TableName() string {
	return "dashboard_widgets"
}

// GetId returns the Id of the model
func (m *DashboardWidget) GetId() uint {
	return m.Id
}

// GetModelName returns the model name
func (m *DashboardWidget) GetModelName() string {
	return "dashboard_widget"
}
