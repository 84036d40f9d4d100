package appointments

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cardiocompanion/cardio-api/internal/handlers"
	"github.com/cardiocompanion/cardio-api/internal/identity"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return err
	}

	appointments, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(appointments)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return err
	}

	var req CreateRequest
	if err := handlers.ParseBody(c, &req); err != nil {
		return err
	}

	appt, err := h.service.Create(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(appt)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return err
	}
	id, err := handlers.ParamUUID(c, "id", "Appointment")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
