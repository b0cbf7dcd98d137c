package news

import (
	"intranet/app/models"
	"intranet/core/app/search"
	"intranet/core/module"
	"intranet/core/router"
	"intranet/core/storage"

	"gorm.io/gorm"
)

type Module struct {
	module.DefaultModule
	DB         *gorm.DB
	Service    *PostService
	Controller *PostController
}

// Init creates and initializes the News module with all dependencies
func Init(deps module.Dependencies) *Module {
	service := NewPostService(deps.DB, deps.Emitter, deps.Storage, deps.Logger)
	controller := NewPostController(service)

	if deps.Storage != nil {
		deps.Storage.RegisterAttachment("post", storage.AttachmentConfig{
			Field:             coverField,
			Path:              "news",
			AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".heic"},
			MaxFileSize:       10 << 20,
		})
	}

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
	return m.DB.AutoMigrate(&models.Post{})
}

func (m *Module) GetModels() []any {
	return []any{
		&models.Post{},
	}
}

// SearchProducers returns the dashboard search sources of this module
func (m *Module) SearchProducers() map[string]search.Producer {
	return map[string]search.Producer{"news": m.Service.Records}
}
