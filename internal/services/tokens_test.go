package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardiocompanion/cardio-api/internal/models"
)

func TestAccessToken_Claims(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 24*time.Hour, 15*time.Minute)
	user := &models.User{ID: uuid.New()}

	raw, err := issuer.AccessToken(user)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), claims["sub"])
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp.Time, 5*time.Second)
	assert.NotContains(t, claims, "purpose")
}

func TestResetToken_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour, 15*time.Minute)

	raw, err := issuer.ResetToken("patient@example.com")
	require.NoError(t, err)

	email, err := issuer.ParseResetToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "patient@example.com", email)
}

func TestParseResetToken_Rejects(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour, 15*time.Minute)
	other := NewTokenIssuer("other-secret", time.Hour, 15*time.Minute)

	access, err := issuer.AccessToken(&models.User{ID: uuid.New()})
	require.NoError(t, err)
	forged, err := other.ResetToken("patient@example.com")
	require.NoError(t, err)

	expiredIssuer := NewTokenIssuer(testSecret, time.Hour, 15*time.Minute)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiredIssuer.ResetToken("patient@example.com")
	require.NoError(t, err)

	tests := map[string]string{
		"session token": access,
		"wrong secret":  forged,
		"expired":       expired,
		"garbage":       "not-a-token",
		"empty":         "",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.ParseResetToken(raw)
			assert.ErrorIs(t, err, ErrInvalidResetToken)
		})
	}
}
