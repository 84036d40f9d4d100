package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	AppEnv      string
	LogLevel    string
	CORSOrigins string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Tokens
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	ResetTokenExpiry time.Duration

	// Password reset OTP
	OTPTTL         time.Duration
	OTPMaxAttempts int
	RedisURL       string

	// Apple Sign-In
	AppleJWKSURL  string
	AppleIssuer   string
	AppleAudience string

	// Outbound mail
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	MailFromName string

	// Streak day boundary
	Timezone string

	// Integrations
	RevenueCatAuth   string
	SentryDSN        string
	LogRetentionDays int
}

// Load reads configuration from the environment. Values in an optional .env
// file (ENV_FILE, default ".env") never override variables already set.
func Load() *Config {
	_ = godotenv.Load(getEnv("ENV_FILE", ".env"))

	return &Config{
		Port:        getEnv("PORT", "3000"),
		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "cardio_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "24h"), 24*time.Hour),
		ResetTokenExpiry: parseDuration(getEnv("RESET_TOKEN_EXPIRY", "15m"), 15*time.Minute),

		OTPTTL:         parseDuration(getEnv("OTP_TTL", "10m"), 10*time.Minute),
		OTPMaxAttempts: parseInt(getEnv("OTP_MAX_ATTEMPTS", "3"), 3),
		RedisURL:       getEnv("REDIS_URL", ""),

		AppleJWKSURL:  getEnv("APPLE_JWKS_URL", "https://appleid.apple.com/auth/keys"),
		AppleIssuer:   getEnv("APPLE_ISSUER", "https://appleid.apple.com"),
		AppleAudience: getEnv("APPLE_AUDIENCE", "bhanuka.CardioCompanionApp"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     parseInt(getEnv("SMTP_PORT", "465"), 465),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", getEnv("SMTP_USERNAME", "")),
		MailFromName: getEnv("MAIL_FROM_NAME", "CardioCompanion"),

		Timezone: getEnv("TIMEZONE", "UTC"),

		RevenueCatAuth:   getEnv("REVENUECAT_WEBHOOK_AUTH", ""),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Location resolves Timezone, falling back to UTC for unknown names.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
