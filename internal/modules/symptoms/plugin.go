package symptoms

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cardiocompanion/cardio-api/internal/config"
	"github.com/cardiocompanion/cardio-api/internal/models"
)

type Module struct{}

func New() *Module {
	return &Module{}
}

func (m *Module) ID() string { return "symptoms" }

func (m *Module) Models() []interface{} {
	return []interface{}{
		&models.SymptomLog{},
	}
}

func (m *Module) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(NewService(db))

	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Delete("/:id", handler.Delete)
}
