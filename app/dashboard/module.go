package dashboard

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
	Service    *DashboardService
	Controller *DashboardController
}

// Init creates the dashboard module. sources maps search source names to the
// producers mounted while a widget of that kind is visible.
func Init(deps module.Dependencies, registry *search.Registry, sources map[string]search.Producer) *Module {
	service := NewDashboardService(deps.DB, deps.Emitter, deps.Logger, registry, sources)
	controller := NewDashboardController(service)

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

// Init seeds the default layout and mounts the visible widgets' search sources
func (m *Module) Init() error {
	if err := m.Service.Seed(); err != nil {
		return err
	}
	return m.Service.Mount()
}

func (m *Module) Migrate() error {
	return m.DB.AutoMigrate(&models.DashboardWidget{})
}

func (m *Module) GetModels() []any {
	return []any{
		&models.DashboardWidget{},
	}
}
