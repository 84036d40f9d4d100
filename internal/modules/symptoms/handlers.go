package symptoms

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cardiocompanion/cardio-api/internal/apperr"
	"github.com/cardiocompanion/cardio-api/internal/dto"
	"github.com/cardiocompanion/cardio-api/internal/handlers"
	"github.com/cardiocompanion/cardio-api/internal/identity"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
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

	log, err := h.service.Create(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(log)
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return err
	}

	start, err := parseDate(c.Query("startDate"), "startDate")
	if err != nil {
		return err
	}
	end, err := parseDate(c.Query("endDate"), "endDate")
	if err != nil {
		return err
	}

	logs, err := h.service.List(c.UserContext(), userID, start, end)
	if err != nil {
		return err
	}
	return c.JSON(logs)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return err
	}
	id, err := handlers.ParamUUID(c, "id", "Symptom log")
	if err != nil {
		return err
	}

	log, err := h.service.Get(c.UserContext(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(log)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return err
	}
	id, err := handlers.ParamUUID(c, "id", "Symptom log")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Symptom log deleted successfully"})
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func parseDate(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, apperr.Validation(field + " must be an ISO 8601 date")
}
