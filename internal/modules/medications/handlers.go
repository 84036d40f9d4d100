package medications

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

	meds, err := h.service.ListByUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(meds)
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

	med, err := h.service.Create(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(med)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return err
	}
	id, err := handlers.ParamUUID(c, "id", "Medication")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ToggleTaken(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return err
	}
	id, err := handlers.ParamUUID(c, "id", "Medication")
	if err != nil {
		return err
	}

	var req ToggleRequest
	if err := handlers.ParseBody(c, &req); err != nil {
		return err
	}

	med, err := h.service.ToggleTaken(c.UserContext(), userID, id, *req.ScheduleTime, *req.IsTaken)
	if err != nil {
		return err
	}
	return c.JSON(med)
}
