package module

// CoreModuleProvider supplies the framework modules (core/app/init.go)
type CoreModuleProvider interface {
	GetCoreModules(deps Dependencies) map[string]Module
}

// AppModuleProvider supplies the portal modules (app/init.go)
type AppModuleProvider interface {
	GetAppModules(deps Dependencies) map[string]Module
}

// orchestrator runs one provider's modules through an Initializer
type orchestrator struct {
	initializer *Initializer
	modules     func(Dependencies) map[string]Module
}

func (o orchestrator) initialize(deps Dependencies) []Module {
	modules := o.modules(deps)
	if len(modules) == 0 {
		return []Module{}
	}
	return o.initializer.Initialize(modules, deps)
}

func (o orchestrator) migrate(deps Dependencies) error {
	return o.initializer.MigrateAll(o.modules(deps))
}

// CoreOrchestrator initializes core modules. Core modules go first so app
// modules can look them up with GetModule.
type CoreOrchestrator struct {
	orchestrator
}

func NewCoreOrchestrator(initializer *Initializer, provider CoreModuleProvider) *CoreOrchestrator {
	return &CoreOrchestrator{orchestrator{initializer: initializer, modules: provider.GetCoreModules}}
}

// InitializeCoreModules registers, migrates, initializes and mounts the core modules
func (co *CoreOrchestrator) InitializeCoreModules(deps Dependencies) ([]Module, error) {
	return co.initialize(deps), nil
}

// MigrateCoreModules migrates core modules only, used by the migrate command
func (co *CoreOrchestrator) MigrateCoreModules(deps Dependencies) error {
	return co.migrate(deps)
}

// AppOrchestrator initializes app modules
type AppOrchestrator struct {
	orchestrator
}

func NewAppOrchestrator(initializer *Initializer, provider AppModuleProvider) *AppOrchestrator {
	return &AppOrchestrator{orchestrator{initializer: initializer, modules: provider.GetAppModules}}
}

// InitializeAppModules registers, migrates, initializes and mounts the app modules
func (ao *AppOrchestrator) InitializeAppModules(deps Dependencies) ([]Module, error) {
	return ao.initialize(deps), nil
}

// MigrateAppModules migrates app modules only, used by the migrate command
func (ao *AppOrchestrator) MigrateAppModules(deps Dependencies) error {
	return ao.migrate(deps)
}
