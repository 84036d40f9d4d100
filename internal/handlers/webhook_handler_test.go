package handlers

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/cardiocompanion/cardio-api/internal/dto"
	"github.com/cardiocompanion/cardio-api/internal/models"
	"github.com/cardiocompanion/cardio-api/internal/services"
)

func newWebhookApp(users *memUsers, secret string) *fiber.App {
	h := NewWebhookHandler(services.NewSubscriptionService(users), secret)
	app := newApp()
	app.Post("/api/webhooks/revenuecat", h.HandleRevenueCat)
	return app
}

func TestWebhook_UpgradesSubscription(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "nadia@example.com", SubscriptionStatus: models.SubscriptionFree}
	users := newMemUsers(user)
	app := newWebhookApp(users, "Bearer hook-secret")

	payload := dto.RevenueCatWebhook{Event: dto.RevenueCatEvent{Type: "INITIAL_PURCHASE", AppUserID: user.ID.String()}}
	status, _ := do(t, app, "POST", "/api/webhooks/revenuecat", payload, "Authorization", "Bearer hook-secret")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, models.SubscriptionPremium, users.get(user.ID).SubscriptionStatus)
}

func TestWebhook_Unauthorized(t *testing.T) {
	users := newMemUsers()
	app := newWebhookApp(users, "Bearer hook-secret")
	payload := dto.RevenueCatWebhook{Event: dto.RevenueCatEvent{Type: "RENEWAL"}}

	status, _ := do(t, app, "POST", "/api/webhooks/revenuecat", payload, "Authorization", "Bearer wrong")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, "POST", "/api/webhooks/revenuecat", payload)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestWebhook_NotConfigured(t *testing.T) {
	app := newWebhookApp(newMemUsers(), "")

	status, _ := do(t, app, "POST", "/api/webhooks/revenuecat", dto.RevenueCatWebhook{}, "Authorization", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHealth(t *testing.T) {
	healthy := NewHealthHandler(func() error { return nil }, "memory")
	broken := NewHealthHandler(func() error { return errors.New("connection refused") }, "redis")

	app := newApp()
	app.Get("/ok", healthy.Check)
	app.Get("/down", broken.Check)

	status, body := do(t, app, "GET", "/ok", nil)
	assert.Equal(t, fiber.StatusOK, status)
	resp := decode[dto.HealthResponse](t, body)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "memory", resp.OTPStore)

	status, body = do(t, app, "GET", "/down", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	resp = decode[dto.HealthResponse](t, body)
	assert.Equal(t, "degraded", resp.Status)
	assert.Contains(t, resp.DB, "connection refused")
}
