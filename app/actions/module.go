package actions

import (
	"intranet/core/app/search"
	"intranet/core/module"
	"intranet/core/router"
)

type Module struct {
	module.DefaultModule
	Service    *ActionService
	Controller *ActionController
}

// Init creates the quick actions module
func Init(deps module.Dependencies) *Module {
	service := NewActionService(deps.Emitter, deps.Logger)
	return &Module{
		Service:    service,
		Controller: NewActionController(service),
	}
}

// Routes registers the module routes
func (m *Module) Routes(router *router.RouterGroup) {
	m.Controller.Routes(router)
}

// SearchProducers returns the dashboard search sources of this module
func (m *Module) SearchProducers() map[string]search.Producer {
	return map[string]search.Producer{"quickActions": m.Service.Records}
}
