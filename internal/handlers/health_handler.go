package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cardiocompanion/cardio-api/internal/dto"
)

type HealthHandler struct {
	ping     func() error
	otpStore string
}

// NewHealthHandler reports the database through ping and names the OTP
// challenge store in use ("memory" or "redis").
func NewHealthHandler(ping func() error, otpStore string) *HealthHandler {
	return &HealthHandler{ping: ping, otpStore: otpStore}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"
	if err := h.ping(); err != nil {
		status = "degraded"
		dbStatus = "unhealthy: " + err.Error()
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		OTPStore:  h.otpStore,
	})
}
