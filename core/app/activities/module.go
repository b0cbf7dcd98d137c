package activities

import (
	"intranet/core/module"
	"intranet/core/router"

	"gorm.io/gorm"
)

// DefaultEvents feed the activity sidebar
var DefaultEvents = []string{
	"tasks.create",
	"tasks.moved",
	"news.published",
	"events.create",
	"recognition.create",
	"actions.invoked",
	"dashboard.swapped",
	"dashboard.reset",
}

type Module struct {
	module.DefaultModule
	DB          *gorm.DB
	Service     *ActivityService
	Controller  *ActivityController
	unsubscribe func()
}

// Init creates and initializes the Activity module with all dependencies
func Init(deps module.Dependencies) *Module {
	service := NewActivityService(deps.DB, deps.Emitter, deps.Logger)
	return &Module{
		DB:         deps.DB,
		Service:    service,
		Controller: NewActivityController(service),
	}
}

// Init subscribes to the sidebar events
func (m *Module) Init() error {
	if m.unsubscribe == nil {
		m.unsubscribe = m.Service.Subscribe(DefaultEvents...)
	}
	return nil
}

// Routes registers the module routes
func (m *Module) Routes(router *router.RouterGroup) {
	m.Controller.Routes(router)
}

func (m *Module) Migrate() error {
	return m.DB.AutoMigrate(&Activity{})
}

func (m *Module) GetModels() []any {
	return []any{
		&Activity{},
	}
}
