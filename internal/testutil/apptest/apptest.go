// Package apptest builds Fiber apps for handler-level tests.
package apptest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cardiocompanion/cardio-api/internal/handlers"
	"github.com/cardiocompanion/cardio-api/internal/identity"
	"github.com/cardiocompanion/cardio-api/internal/models"
)

// NewApp returns a Fiber app with the production error boundary whose /api
// group treats every request as coming from userID.
func NewApp(userID uuid.UUID) (*fiber.App, fiber.Router) {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler(true)})
	api := app.Group("/api", func(c *fiber.Ctx) error {
		identity.SetUser(c, &models.User{ID: userID})
		return c.Next()
	})
	return app, api
}

// Do sends a JSON request and returns the status and raw body.
func Do(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, out
}

