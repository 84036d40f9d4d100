package routes

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardiocompanion/cardio-api/internal/apperr"
	"github.com/cardiocompanion/cardio-api/internal/config"
	"github.com/cardiocompanion/cardio-api/internal/handlers"
	"github.com/cardiocompanion/cardio-api/internal/modules"
	"github.com/cardiocompanion/cardio-api/internal/modules/appointments"
	"github.com/cardiocompanion/cardio-api/internal/modules/medications"
	"github.com/cardiocompanion/cardio-api/internal/modules/symptoms"
)

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler(true)})

	denyAll := func(c *fiber.Ctx) error {
		return apperr.Unauthenticated("Unauthorized: invalid or expired token")
	}

	Setup(app, &config.Config{}, nil, Handlers{
		Auth:     handlers.NewAuthHandler(nil),
		Password: handlers.NewPasswordHandler(nil),
		Profile:  handlers.NewProfileHandler(nil),
		Health:   handlers.NewHealthHandler(func() error { return nil }, "memory"),
		Webhook:  handlers.NewWebhookHandler(nil, ""),
	}, denyAll, []modules.Module{medications.New(), symptoms.New(), appointments.New()})

	return app
}

func request(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestSetup_Routing(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/api/health", fiber.StatusOK},
		{"GET", "/metrics", fiber.StatusOK},
		{"GET", "/api/medications", fiber.StatusUnauthorized},
		{"PATCH", "/api/medications/abc/toggle-taken", fiber.StatusUnauthorized},
		{"GET", "/api/symptoms/abc", fiber.StatusUnauthorized},
		{"DELETE", "/api/appointments/abc", fiber.StatusUnauthorized},
		{"GET", "/users/profile", fiber.StatusUnauthorized},
		{"GET", "/api/unknown", fiber.StatusNotFound},
		{"GET", "/nowhere", fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			status, _ := request(t, app, tt.method, tt.path, "")
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestSetup_NotFoundBody(t *testing.T) {
	status, body := request(t, newTestApp(), "GET", "/nowhere", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.JSONEq(t, `{"error":true,"message":"Route not found"}`, body)
}

func TestSetup_UsersRateLimit(t *testing.T) {
	app := newTestApp()

	for i := 0; i < 10; i++ {
		status, _ := request(t, app, "POST", "/users/login", `{}`)
		require.Equal(t, fiber.StatusBadRequest, status, "request %d", i+1)
	}

	status, _ := request(t, app, "POST", "/users/login", `{}`)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
}
