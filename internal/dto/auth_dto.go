package dto

import (
	"github.com/google/uuid"

	"github.com/cardiocompanion/cardio-api/internal/adherence"
	"github.com/cardiocompanion/cardio-api/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AppleUser is the optional profile the app forwards on the first Apple sign-in.
type AppleUser struct {
	Email string `json:"email" validate:"omitempty,email"`
	Name  string `json:"name" validate:"max=255"`
}

type AppleSignInRequest struct {
	IdentityToken string     `json:"identityToken" validate:"required"`
	User          *AppleUser `json:"user,omitempty"`
}

type AuthResponse struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	SubscriptionStatus string    `json:"subscriptionStatus"`
	Token              string    `json:"token"`
}

func NewAuthResponse(user *models.User, token string) *AuthResponse {
	return &AuthResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		SubscriptionStatus: user.SubscriptionStatus,
		Token:              token,
	}
}

type RequestResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type VerifyOTPResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

type UpdateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitempty,max=32"`
}

type ProfileResponse struct {
	ID                 uuid.UUID           `json:"id"`
	Email              string              `json:"email"`
	Name               string              `json:"name"`
	Address            string              `json:"address,omitempty"`
	DateOfBirth        string              `json:"dateOfBirth,omitempty"`
	SubscriptionStatus string              `json:"subscriptionStatus"`
	Stats              adherence.Stats     `json:"stats"`
	RecentSymptoms     []models.SymptomLog `json:"recentSymptoms"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error             bool   `json:"error"`
	Message           string `json:"message"`
	RemainingAttempts *int   `json:"remainingAttempts,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	OTPStore  string `json:"otpStore"`
}
