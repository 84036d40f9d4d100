package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("OTP_TTL", "")
	t.Setenv("OTP_MAX_ATTEMPTS", "")
	t.Setenv("JWT_ACCESS_EXPIRY", "")

	cfg := Load()

	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 3, cfg.OTPMaxAttempts)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessExpiry)
	assert.Equal(t, "https://appleid.apple.com", cfg.AppleIssuer)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("OTP_TTL", "5m")
	t.Setenv("OTP_MAX_ATTEMPTS", "5")
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("APP_ENV", "production")

	cfg := Load()

	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 5, cfg.OTPMaxAttempts)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.True(t, cfg.IsProduction())
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "Asia/Colombo"}
	assert.Equal(t, "Asia/Colombo", cfg.Location().String())

	cfg.Timezone = "Mars/Olympus"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
