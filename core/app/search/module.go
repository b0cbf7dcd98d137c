package search

import (
	"intranet/core/module"
	"intranet/core/router"
)

type Module struct {
	module.DefaultModule
	Service    *SearchService
	Controller *SearchController
	Registry   *Registry
}

// Init creates the search module around the shared registry; nil creates an empty one
func Init(deps module.Dependencies, registry *Registry) module.Module {
	if registry == nil {
		registry = NewRegistry(deps.Logger)
	}

	limit := 0
	if deps.Config != nil {
		registry.SetThreshold(deps.Config.SearchThreshold)
		limit = deps.Config.SearchDefaultLimit
	}

	service := NewSearchService(deps.Emitter, deps.Logger, registry, limit)
	controller := NewSearchController(service)

	return &Module{
		Service:    service,
		Controller: controller,
		Registry:   registry,
	}
}

// Routes registers the module routes
func (m *Module) Routes(router *router.RouterGroup) {
	m.Controller.Routes(router)
}
