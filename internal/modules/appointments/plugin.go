package appointments

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

func (m *Module) ID() string { return "appointments" }

func (m *Module) Models() []interface{} {
	return []interface{}{
		&models.Appointment{},
	}
}

func (m *Module) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(NewService(db))

	router.Get("/", handler.List)
	router.Post("/", handler.Create)
	router.Delete("/:id", handler.Delete)
}
