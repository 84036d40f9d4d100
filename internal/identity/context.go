package identity

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cardiocompanion/cardio-api/internal/apperr"
	"github.com/cardiocompanion/cardio-api/internal/models"
)

const localsKey = "account"

// SetUser stores the authenticated account on the request.
func SetUser(c *fiber.Ctx, user *models.User) {
	c.Locals(localsKey, user)
}

// User returns the authenticated account placed by the auth middleware.
func User(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(localsKey).(*models.User)
	if !ok || user == nil {
		return nil, apperr.Unauthenticated("Authentication required")
	}
	return user, nil
}

// UserID extracts the authenticated user's id from context.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	user, err := User(c)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}
