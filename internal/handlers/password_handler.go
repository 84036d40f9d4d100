package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cardiocompanion/cardio-api/internal/dto"
	"github.com/cardiocompanion/cardio-api/internal/services"
)

type PasswordHandler struct {
	resets *services.PasswordResetService
}

func NewPasswordHandler(resets *services.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{resets: resets}
}

func (h *PasswordHandler) RequestReset(c *fiber.Ctx) error {
	var req dto.RequestResetRequest
	if err := ParseBody(c, &req); err != nil {
		return err
	}

	if err := h.resets.RequestReset(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "OTP sent successfully to your email"})
}

func (h *PasswordHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := ParseBody(c, &req); err != nil {
		return err
	}

	token, err := h.resets.VerifyOTP(c.UserContext(), req.Email, req.OTP)
	if err != nil {
		return err
	}
	return c.JSON(dto.VerifyOTPResponse{Message: "OTP verified successfully", Token: token})
}

func (h *PasswordHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := ParseBody(c, &req); err != nil {
		return err
	}

	if err := h.resets.ResetPassword(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Password reset successful"})
}
