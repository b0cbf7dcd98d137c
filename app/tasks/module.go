package tasks

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
	Service    *TaskService
	Controller *TaskController
}

// Init creates and initializes the Task module with all dependencies
func Init(deps module.Dependencies) *Module {
	service := NewTaskService(deps.DB, deps.Emitter, deps.Logger)
	controller := NewTaskController(service)

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
	return m.DB.AutoMigrate(&models.Task{})
}

func (m *Module) GetModels() []any {
	return []any{
		&models.Task{},
	}
}

// SearchProducers returns the dashboard search sources of this module
func (m *Module) SearchProducers() map[string]search.Producer {
	return map[string]search.Producer{"tasks": m.Service.Records}
}
