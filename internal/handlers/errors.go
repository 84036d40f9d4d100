package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/cardiocompanion/cardio-api/internal/apperr"
	"github.com/cardiocompanion/cardio-api/internal/dto"
)

const genericServerError = "Internal server error"

// ErrorHandler is the single place errors become HTTP responses. Service
// errors map by kind; *fiber.Error keeps its code. In production 5xx bodies
// never carry internal detail.
func ErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		body := dto.ErrorResponse{Error: true, Message: genericServerError}

		var fe *fiber.Error
		var ae *apperr.Error
		switch {
		case errors.As(err, &fe):
			status = fe.Code
			body.Message = fe.Message
		case errors.As(err, &ae):
			status = ae.Kind.Status()
			body.Message = ae.Message
			if n, ok := ae.Details["remainingAttempts"].(int); ok {
				body.RemainingAttempts = &n
			}
			if ae.Kind == apperr.KindInternal && production {
				body.Message = genericServerError
			}
		}

		if status >= fiber.StatusInternalServerError {
			slog.Error("request failed",
				"request_id", requestID(c),
				"action", c.Method()+" "+c.Path(),
				"status", status,
				"error", err.Error(),
			)
			if !production {
				body.Message = err.Error()
			}
		}

		return c.Status(status).JSON(body)
	}
}

func requestID(c *fiber.Ctx) string {
	if id := c.Locals("requestid"); id != nil {
		return fmt.Sprint(id)
	}
	return ""
}
