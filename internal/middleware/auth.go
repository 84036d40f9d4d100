package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/cardiocompanion/cardio-api/internal/apperr"
	"github.com/cardiocompanion/cardio-api/internal/identity"
	"github.com/cardiocompanion/cardio-api/internal/services"
)

const tokenLocalsKey = "jwt"

// Authenticated admits requests carrying a bearer token the gate accepts:
// either an access token we issued or an Apple identity token. The resolved
// account is stored with identity.SetUser.
func Authenticated(gate *services.AuthGate) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc:    gate.KeyFunc,
		ContextKey: tokenLocalsKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals(tokenLocalsKey).(*jwt.Token)
			user, err := gate.Resolve(c.UserContext(), token)
			if err != nil {
				return err
			}
			identity.SetUser(c, user)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return apperr.Wrap(apperr.KindAuthentication, "Unauthorized: invalid or expired token", err)
		},
	})
}
