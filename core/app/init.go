package app

import (
	"intranet/core/app/activities"
	"intranet/core/app/notifications"
	"intranet/core/app/search"
	"intranet/core/app/users"
	"intranet/core/module"
)

// CoreModules implements module.CoreModuleProvider interface
type CoreModules struct {
	SearchRegistry *search.Registry
}

// GetCoreModules returns the list of core modules to initialize
// This is the only function that needs to be updated when adding new core modules
func (cm *CoreModules) GetCoreModules(deps module.Dependencies) map[string]module.Module {
	modules := make(map[string]module.Module)

	userModule := users.Init(deps)
	modules["users"] = userModule

	// the digest resolves email addresses through the directory
	modules["notifications"] = notifications.Init(deps, userModule.Service)
	modules["activities"] = activities.Init(deps)

	// Initialize search with registry (can be nil, will create empty registry)
	modules["search"] = search.Init(deps, cm.SearchRegistry)

	return modules
}

// NewCoreModules creates a new core modules provider
func NewCoreModules(searchRegistry *search.Registry) *CoreModules {
	return &CoreModules{
		SearchRegistry: searchRegistry,
	}
}
