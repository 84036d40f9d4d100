package handlers

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/cardiocompanion/cardio-api/internal/apperr"
	"github.com/cardiocompanion/cardio-api/internal/dto"
	"github.com/cardiocompanion/cardio-api/internal/metrics"
	"github.com/cardiocompanion/cardio-api/internal/services"
)

type WebhookHandler struct {
	subscriptionService *services.SubscriptionService
	expectedAuth        string
}

func NewWebhookHandler(subscriptionService *services.SubscriptionService, expectedAuth string) *WebhookHandler {
	return &WebhookHandler{
		subscriptionService: subscriptionService,
		expectedAuth:        expectedAuth,
	}
}

// HandleRevenueCat applies subscription events. The Authorization header must
// equal the configured shared secret; an empty secret disables the endpoint.
func (h *WebhookHandler) HandleRevenueCat(c *fiber.Ctx) error {
	if h.expectedAuth == "" {
		return apperr.NotFound("Webhooks not configured")
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(h.expectedAuth)) != 1 {
		return apperr.Unauthenticated("Unauthorized")
	}

	var webhook dto.RevenueCatWebhook
	if err := c.BodyParser(&webhook); err != nil {
		return apperr.Validation("Invalid webhook payload")
	}

	if err := h.subscriptionService.HandleWebhookEvent(c.UserContext(), &webhook.Event); err != nil {
		return err
	}
	metrics.RecordWebhook(webhook.Event.Type)

	slog.Info("webhook processed", "event_type", webhook.Event.Type, "request_id", requestID(c))
	return c.JSON(fiber.Map{"received": true})
}
