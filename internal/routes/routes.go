package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/cardiocompanion/cardio-api/internal/config"
	"github.com/cardiocompanion/cardio-api/internal/handlers"
	"github.com/cardiocompanion/cardio-api/internal/metrics"
	"github.com/cardiocompanion/cardio-api/internal/modules"
)

// Handlers groups the HTTP handlers the route table binds.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Password *handlers.PasswordHandler
	Profile  *handlers.ProfileHandler
	Health   *handlers.HealthHandler
	Webhook  *handlers.WebhookHandler
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	h Handlers,
	authenticated fiber.Handler,
	resources []modules.Module,
) {
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Account routes: 10 req/min per IP
	users := app.Group("/users")
	users.Use(perIPLimiter(10))
	users.Post("/register", h.Auth.Register)
	users.Post("/login", h.Auth.Login)
	users.Post("/register-apple", h.Auth.RegisterWithApple)
	users.Post("/request-password-reset", h.Password.RequestReset)
	users.Post("/verify-otp", h.Password.VerifyOTP)
	users.Post("/reset-password", h.Password.ResetPassword)
	users.Get("/profile", authenticated, h.Profile.Get)
	users.Patch("/profile", authenticated, h.Profile.Update)

	// General API rate limiter: 60 req/min per IP
	api := app.Group("/api")
	api.Use(perIPLimiter(60))

	api.Get("/health", h.Health.Check)
	api.Post("/webhooks/revenuecat", h.Webhook.HandleRevenueCat)

	// Resource routes, bearer-protected per module so unknown /api paths
	// still fall through to the 404 below
	for _, m := range resources {
		m.RegisterRoutes(api.Group("/"+m.ID(), authenticated), db, cfg)
	}

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Route not found")
	})
}

func perIPLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
