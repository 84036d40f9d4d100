package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cardiocompanion/cardio-api/internal/dto"
	"github.com/cardiocompanion/cardio-api/internal/metrics"
	"github.com/cardiocompanion/cardio-api/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ParseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	metrics.RecordAuth("register", err == nil)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ParseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	metrics.RecordAuth("login", err == nil)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// RegisterWithApple answers 201 when the Apple account was created by this
// call and 200 when it already existed.
func (h *AuthHandler) RegisterWithApple(c *fiber.Ctx) error {
	var req dto.AppleSignInRequest
	if err := ParseBody(c, &req); err != nil {
		return err
	}

	resp, created, err := h.authService.RegisterWithApple(c.UserContext(), &req)
	metrics.RecordAuth("apple", err == nil)
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(resp)
}
