package services

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/cardiocompanion/cardio-api/internal/apperr"
	"github.com/cardiocompanion/cardio-api/internal/mailer"
	"github.com/cardiocompanion/cardio-api/internal/metrics"
	"github.com/cardiocompanion/cardio-api/internal/otp"
	"github.com/cardiocompanion/cardio-api/internal/repository"
)

// PasswordResetService runs the request, verify, reset flow. A code is
// emailed, exchanged for a short-lived reset token, and the token then
// authorizes one password change.
type PasswordResetService struct {
	users  UserStore
	otps   *otp.Manager
	mailer mailer.Mailer
	tokens *TokenIssuer
}

func NewPasswordResetService(users UserStore, otps *otp.Manager, m mailer.Mailer, tokens *TokenIssuer) *PasswordResetService {
	return &PasswordResetService{users: users, otps: otps, mailer: m, tokens: tokens}
}

func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal("failed to look up user", err)
	}

	// The code is stored only once the email is out. A failed send keeps the
	// code the user already holds.
	var sendErr error
	err := s.otps.Deliver(ctx, email, func(code string) error {
		sendErr = s.mailer.SendOTP(ctx, email, code, s.otps.TTL())
		return sendErr
	})
	switch {
	case sendErr != nil:
		slog.Error("otp email delivery failed", "action", "request_password_reset", "error", sendErr)
		return apperr.External("Failed to send OTP email", sendErr)
	case err != nil:
		return apperr.Internal("failed to issue code", err)
	}
	metrics.RecordOTP("issued")
	return nil
}

// VerifyOTP exchanges a valid code for a password-reset token.
func (s *PasswordResetService) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	email = normalizeEmail(email)

	if err := s.otps.Verify(ctx, email, code); err != nil {
		return "", otpError(err)
	}
	metrics.RecordOTP("verified")

	token, err := s.tokens.ResetToken(email)
	if err != nil {
		return "", apperr.Internal("failed to issue reset token", err)
	}
	return token, nil
}

func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := s.tokens.ParseResetToken(token)
	if err != nil {
		return apperr.Wrap(apperr.KindValidation, "Invalid or expired token", err)
	}
	if len(newPassword) < 8 {
		return apperr.Validation("Password must be at least 8 characters")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal("failed to look up user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}
	if err := s.users.Update(ctx, user, map[string]interface{}{"password": string(hash)}); err != nil {
		return apperr.Internal("failed to update password", err)
	}
	return nil
}

func otpError(err error) error {
	var mismatch *otp.MismatchError
	switch {
	case errors.As(err, &mismatch):
		metrics.RecordOTP("mismatch")
		return apperr.Validation("Invalid OTP").WithDetail("remainingAttempts", mismatch.Remaining)
	case errors.Is(err, otp.ErrTooManyAttempts):
		metrics.RecordOTP("exhausted")
		return apperr.Validation("Too many attempts. Please request a new OTP.")
	case errors.Is(err, otp.ErrExpired):
		metrics.RecordOTP("expired")
		return apperr.Validation("OTP expired. Please request a new one.")
	case errors.Is(err, otp.ErrNotFound):
		metrics.RecordOTP("not_found")
		return apperr.Validation("OTP expired or not found. Please request a new one.")
	default:
		return apperr.Internal("failed to verify code", err)
	}
}
