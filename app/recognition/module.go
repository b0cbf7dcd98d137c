package recognition

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
	Service    *KudosService
	Controller *KudosController
}

// Init creates the Recognition module; directory may be nil
func Init(deps module.Dependencies, directory Directory) *Module {
	service := NewKudosService(deps.DB, deps.Emitter, deps.Logger, directory)
	controller := NewKudosController(service)

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
	return m.DB.AutoMigrate(&models.Kudos{})
}

func (m *Module) GetModels() []any {
	return []any{
		&models.Kudos{},
	}
}

// SearchProducers returns the dashboard search sources of this module
func (m *Module) SearchProducers() map[string]search.Producer {
	return map[string]search.Producer{"recognition": m.Service.Records}
}
