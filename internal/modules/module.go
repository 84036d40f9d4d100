package modules

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cardiocompanion/cardio-api/internal/config"
)

// Module is one user-owned resource mounted under /api.
type Module interface {
	// ID names the module and is its path segment under /api.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts the module's routes on a group already prefixed
	// with /api/<ID> and guarded by the auth gate.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}
