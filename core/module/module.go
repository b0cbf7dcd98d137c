package module

import (
	"fmt"
	"sort"
	"sync"

	"intranet/core/config"
	"intranet/core/email"
	"intranet/core/emitter"
	"intranet/core/logger"
	"intranet/core/router"
	"intranet/core/scheduler"
	"intranet/core/storage"

	"gorm.io/gorm"
)

// Module is a self-contained feature mounted under /api
type Module interface {
	Init() error
	Migrate() error
	GetModels() []any
	Routes(router *router.RouterGroup)
}

// DefaultModule provides no-op implementations for optional module hooks
type DefaultModule struct{}

func (DefaultModule) Init() error                  { return nil }
func (DefaultModule) Migrate() error               { return nil }
func (DefaultModule) GetModels() []any             { return nil }
func (DefaultModule) Routes(_ *router.RouterGroup) {}

// Dependencies carries the shared infrastructure handed to every module
type Dependencies struct {
	DB          *gorm.DB
	Router      *router.RouterGroup
	Logger      logger.Logger
	Emitter     *emitter.Emitter
	Storage     *storage.ActiveStorage
	EmailSender email.Sender
	Config      *config.Config
	Scheduler   *scheduler.CronScheduler
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Module)
)

// RegisterModule records a module by name; names must be unique per process
func RegisterModule(name string, mod Module) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		return fmt.Errorf("module %s already registered", name)
	}
	registry[name] = mod
	return nil
}

// GetModule returns a registered module
func GetModule(name string) (Module, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	mod, ok := registry[name]
	return mod, ok
}

// Initializer runs the Init/Migrate/Routes lifecycle over a set of modules
type Initializer struct {
	logger logger.Logger
}

// NewInitializer creates a module initializer
func NewInitializer(log logger.Logger) *Initializer {
	return &Initializer{logger: log}
}

// Initialize registers, migrates, initializes and mounts modules in name order.
// A module that fails a step is logged and skipped.
func (i *Initializer) Initialize(modules map[string]Module, deps Dependencies) []Module {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)

	var initialized []Module
	for _, name := range names {
		mod := modules[name]
		if err := RegisterModule(name, mod); err != nil {
			i.logger.Error("Failed to register module", logger.String("module", name), logger.Err(err))
			continue
		}
		if err := mod.Migrate(); err != nil {
			i.logger.Error("Failed to migrate module", logger.String("module", name), logger.Err(err))
			continue
		}
		if err := mod.Init(); err != nil {
			i.logger.Error("Failed to initialize module", logger.String("module", name), logger.Err(err))
			continue
		}
		if deps.Router != nil {
			mod.Routes(deps.Router)
		}
		initialized = append(initialized, mod)
	}
	return initialized
}

// MigrateAll migrates modules without mounting routes
func (i *Initializer) MigrateAll(modules map[string]Module) error {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := modules[name].Migrate(); err != nil {
			return fmt.Errorf("migrate %s: %w", name, err)
		}
	}
	return nil
}
