package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cardiocompanion/cardio-api/internal/dto"
	"github.com/cardiocompanion/cardio-api/internal/identity"
	"github.com/cardiocompanion/cardio-api/internal/services"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.Get(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := ParseBody(c, &req); err != nil {
		return err
	}

	profile, err := h.profiles.Update(c.UserContext(), userID, &req)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}
