package events

import (
	"intranet/app/models"
	"intranet/core/app/search"
	"intranet/core/module"
	"intranet/core/router"

	"gorm.io/gorm"
)

type Module struct {
	module.DefaultModule
	DB         *gorm.DB
	Service    *EventService
	Controller *EventController
}

// Init creates and initializes the Events module. Google Calendar import is
// enabled when both GOOGLE_API_KEY and GOOGLE_CALENDAR_ID are set.
func Init(deps module.Dependencies) *Module {
	var source Source
	if deps.Config != nil && deps.Config.CalendarSyncEnabled() {
		source = NewGoogleCalendar(deps.Config.GoogleAPIKey, deps.Config.GoogleCalendarID)
	}
	service := NewEventService(deps.DB, deps.Emitter, deps.Logger, source)
	controller := NewEventController(service)

	return &Module{
		DB:         deps.DB,
		Service:    service,
		Controller: controller,
	}
}

// Routes registers the module routes
func (m *Module) Routes(router *router.RouterGroup) {
	m.Controller.Routes(router)
}

func (m *Module) Migrate() error {
	return m.DB.AutoMigrate(&models.Event{})
}

func (m *Module) GetModels() []any {
	return []any{
		&models.Event{},
	}
}

// SearchProducers returns the dashboard search sources of this module
func (m *Module) SearchProducers() map[string]search.Producer {
	return map[string]search.Producer{"calendar": m.Service.Records}
}
