package app

import (
	"intranet/app/actions"
	"intranet/app/analytics"
	"intranet/app/dashboard"
	"intranet/app/events"
	"intranet/app/jobs"
	"intranet/app/news"
	"intranet/app/recognition"
	"intranet/app/tasks"
	"intranet/core/app/notifications"
	"intranet/core/app/search"
	"intranet/core/app/users"
	"intranet/core/module"
)

// AppModules implements module.AppModuleProvider interface
type AppModules struct {
	SearchRegistry *search.Registry
}

// NewAppModules creates a new app modules provider sharing the core search registry
func NewAppModules(searchRegistry *search.Registry) *AppModules {
	return &AppModules{
		SearchRegistry: searchRegistry,
	}
}

// GetAppModules returns the list of app modules to initialize.
// Core modules must be registered first for the directory to resolve kudos names.
func (am *AppModules) GetAppModules(deps module.Dependencies) map[string]module.Module {
	modules := make(map[string]module.Module)

	var directory recognition.Directory
	userModule := lookup[*users.Module]("users")
	if userModule != nil {
		directory = userModule.Service
	}

	modules["tasks"] = tasks.Init(deps)
	modules["news"] = news.Init(deps)
	modules["events"] = events.Init(deps)
	modules["recognition"] = recognition.Init(deps, directory)
	modules["actions"] = actions.Init(deps)
	modules["analytics"] = analytics.Init(deps)

	// widgets mount these sources while visible
	sources := make(map[string]search.Producer)
	for _, mod := range modules {
		addSources(sources, mod)
	}
	dashboardModule := dashboard.Init(deps, am.SearchRegistry, sources)

	// core sources are mounted alongside, before the dashboard initializes
	if userModule != nil {
		for name, producer := range userModule.SearchProducers() {
			dashboardModule.Service.AddSource(name, producer)
		}
	}
	modules["dashboard"] = dashboardModule

	return modules
}

// JobServices collects the scheduled job targets from the registered modules
func JobServices() jobs.Services {
	var services jobs.Services
	if m := lookup[*tasks.Module]("tasks"); m != nil {
		services.Tasks = m.Service
	}
	if m := lookup[*events.Module]("events"); m != nil && m.Service.Source != nil {
		services.Calendar = m.Service
	}
	if m := lookup[*notifications.Module]("notifications"); m != nil {
		services.Notifications = m.Service
	}
	return services
}

func addSources(sources map[string]search.Producer, mod any) {
	if source, ok := mod.(search.Contributor); ok {
		for name, producer := range source.SearchProducers() {
			sources[name] = producer
		}
	}
}

func lookup[T module.Module](name string) T {
	var zero T
	mod, ok := module.GetModule(name)
	if !ok {
		return zero
	}
	typed, ok := mod.(T)
	if !ok {
		return zero
	}
	return typed
}
