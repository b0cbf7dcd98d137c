package notifications

import (
	"intranet/core/module"
	"intranet/core/router"

	"gorm.io/gorm"
)

// DefaultEvents are the events whose payloads raise notifications
var DefaultEvents = []string{
	"tasks.status_changed",
	"tasks.due_soon",
	"recognition.create",
}

type Module struct {
	module.DefaultModule
	DB          *gorm.DB
	Service     *NotificationService
	Controller  *NotificationController
	unsubscribe func()
}

// Init creates the notifications module; recipients may be nil, which disables the digest
func Init(deps module.Dependencies, recipients Recipients) *Module {
	service := NewNotificationService(deps.DB, deps.Emitter, deps.Logger, deps.EmailSender, recipients)
	return &Module{
		DB:         deps.DB,
		Service:    service,
		Controller: NewNotificationController(service),
	}
}

// Init subscribes to the notifying events
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
	return m.DB.AutoMigrate(&Notification{})
}

func (m *Module) GetModels() []any {
	return []any{
		&Notification{},
	}
}
