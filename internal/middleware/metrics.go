package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cardiocompanion/cardio-api/internal/metrics"
)

// Metrics records request count, latency and in-flight gauge per route
// pattern. Errors are rendered here so the recorded status is final.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		done := metrics.TrackInFlight()
		defer done()

		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		route := ""
		if r := c.Route(); r != nil && r.Method != "USE" {
			route = r.Path
		}
		metrics.RecordHTTP(c.Method(), route, c.Response().StatusCode(), time.Since(start))
		return nil
	}
}
