package analytics

import (
	"intranet/core/app/search"
	"intranet/core/module"
	"intranet/core/router"
)

type Module struct {
	module.DefaultModule
	Service    *AnalyticsService
	Controller *AnalyticsController
}

// Init creates the analytics module. It owns no tables; the metrics are read
// from the tasks, kudos, events and news tables.
func Init(deps module.Dependencies) *Module {
	service := NewAnalyticsService(deps.DB, deps.Logger)
	return &Module{
		Service:    service,
		Controller: NewAnalyticsController(service),
	}
}

// Routes registers the module routes
func (m *Module) Routes(router *router.RouterGroup) {
	m.Controller.Routes(router)
}

// SearchProducers returns the dashboard search sources of this module
func (m *Module) SearchProducers() map[string]search.Producer {
	return map[string]search.Producer{"analytics": m.Service.Records}
}
