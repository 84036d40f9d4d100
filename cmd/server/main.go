package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/cardiocompanion/cardio-api/internal/config"
	"github.com/cardiocompanion/cardio-api/internal/database"
	"github.com/cardiocompanion/cardio-api/internal/handlers"
	"github.com/cardiocompanion/cardio-api/internal/logging"
	"github.com/cardiocompanion/cardio-api/internal/mailer"
	"github.com/cardiocompanion/cardio-api/internal/middleware"
	"github.com/cardiocompanion/cardio-api/internal/modules"
	"github.com/cardiocompanion/cardio-api/internal/modules/appointments"
	"github.com/cardiocompanion/cardio-api/internal/modules/medications"
	"github.com/cardiocompanion/cardio-api/internal/modules/symptoms"
	"github.com/cardiocompanion/cardio-api/internal/otp"
	"github.com/cardiocompanion/cardio-api/internal/repository"
	"github.com/cardiocompanion/cardio-api/internal/routes"
	"github.com/cardiocompanion/cardio-api/internal/services"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdoutHandler := logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	resources := []modules.Module{
		medications.New(),
		symptoms.New(),
		appointments.New(),
	}
	for _, m := range resources {
		if models := m.Models(); len(models) > 0 {
			if err := database.MigrateModels(models); err != nil {
				slog.Error("module migration failed", "module", m.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("module migrated", "module", m.ID(), "models", len(models))
		}
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewFanout(
		logging.Output{Name: "stdout", Handler: stdoutHandler},
		logging.Output{Name: "postgres", Handler: pgLogHandler},
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// OTP challenges
	store, storeKind, closeStore, err := newChallengeStore(cfg)
	if err != nil {
		slog.Error("otp store unavailable", "error", err)
		os.Exit(1)
	}
	slog.Info("otp store ready", "kind", storeKind)
	otps := otp.NewManager(store,
		otp.WithTTL(cfg.OTPTTL),
		otp.WithMaxAttempts(cfg.OTPMaxAttempts),
	)

	// Services
	users := repository.NewUserRepository(database.DB)
	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.ResetTokenExpiry)
	apple := services.NewAppleVerifier(cfg.AppleJWKSURL, cfg.AppleIssuer, cfg.AppleAudience,
		&http.Client{Timeout: 10 * time.Second})
	smtp := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
	})

	authService := services.NewAuthService(users, tokens, apple)
	resetService := services.NewPasswordResetService(users, otps, smtp, tokens)
	profileService := services.NewProfileService(users,
		medications.NewService(database.DB),
		symptoms.NewService(database.DB),
		cfg.Location(),
	)
	subscriptionService := services.NewSubscriptionService(users)
	gate := services.NewAuthGate(users, tokens, apple)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler(cfg.IsProduction()),
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.Metrics())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, database.DB, routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Password: handlers.NewPasswordHandler(resetService),
		Profile:  handlers.NewProfileHandler(profileService),
		Health:   handlers.NewHealthHandler(database.Ping, storeKind),
		Webhook:  handlers.NewWebhookHandler(subscriptionService, cfg.RevenueCatAuth),
	}, middleware.Authenticated(gate), resources)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	closeStore()
	sentry.Flush(2 * time.Second)

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

// newChallengeStore uses Redis when REDIS_URL is set so codes survive
// restarts and are shared across instances. Otherwise codes live in memory.
func newChallengeStore(cfg *config.Config) (otp.ChallengeStore, string, func(), error) {
	if cfg.RedisURL == "" {
		return otp.NewMemoryStore(), "memory", func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, "", nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, "", nil, err
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	return otp.NewRedisStore(client, cfg.OTPTTL), "redis", closeFn, nil
}
