package users

import (
	"time"

	"intranet/core/app/search"
	"intranet/core/module"
	"intranet/core/router"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Module struct {
	module.DefaultModule
	DB         *gorm.DB
	Service    *UserService
	Controller *UserController
}

// Init creates and initializes the User module with all dependencies
func Init(deps module.Dependencies) *Module {
	tokens := TokenConfig{Secret: "change-me-in-production", TTL: 24 * time.Hour}
	if deps.Config != nil {
		tokens = TokenConfig{Secret: deps.Config.JWTSecret, TTL: deps.Config.JWTTTL}
	}
	service := NewUserService(deps.DB, deps.Emitter, deps.Storage, deps.Logger, tokens)
	controller := NewUserController(service, deps.Logger)

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
	if err := m.DB.AutoMigrate(&User{}); err != nil {
		return err
	}
	return m.SeedDefaultUser()
}

// SeedDefaultUser creates the first administrator account on an empty database
func (m *Module) SeedDefaultUser() error {
	var count int64
	if err := m.DB.Model(&User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	defaultUser := User{
		FirstName:  "Portal",
		LastName:   "Admin",
		Email:      "admin@example.com",
		Department: "IT",
		JobTitle:   "Administrator",
		Password:   string(hashedPassword),
	}
	return m.DB.Create(&defaultUser).Error
}

func (m *Module) GetModels() []any {
	return []any{
		&User{},
	}
}

// SearchProducers returns the dashboard search sources of this module
func (m *Module) SearchProducers() map[string]search.Producer {
	return map[string]search.Producer{"directory": m.Service.Records}
}
