package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cardiocompanion/cardio-api/internal/models"
)

const PurposePasswordReset = "password_reset"

var ErrInvalidResetToken = errors.New("invalid or expired reset token")

// TokenIssuer signs and checks the HS256 tokens the API hands out: 24h
// session tokens carrying the user id, and short-lived password-reset tokens
// carrying the email.
type TokenIssuer struct {
	secret    []byte
	accessTTL time.Duration
	resetTTL  time.Duration
	now       func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, resetTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		resetTTL:  resetTTL,
		now:       time.Now,
	}
}

func (t *TokenIssuer) AccessToken(user *models.User) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(t.accessTTL).Unix(),
	}
	return t.sign(claims)
}

func (t *TokenIssuer) ResetToken(email string) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"email":   email,
		"purpose": PurposePasswordReset,
		"iat":     now.Unix(),
		"exp":     now.Add(t.resetTTL).Unix(),
	}
	return t.sign(claims)
}

// ParseResetToken returns the email of a valid password-reset token.
func (t *TokenIssuer) ParseResetToken(raw string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, t.hmacKey,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResetToken, err)
	}

	if purpose, _ := claims["purpose"].(string); purpose != PurposePasswordReset {
		return "", ErrInvalidResetToken
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", ErrInvalidResetToken
	}
	return email, nil
}

func (t *TokenIssuer) sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (t *TokenIssuer) hmacKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok || token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return t.secret, nil
}
