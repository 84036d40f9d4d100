package medications

import (
	"time"

	"github.com/google/uuid"

	"github.com/cardiocompanion/cardio-api/internal/models"
)

// CreateRequest may carry a client-generated id so offline-created
// medications keep their identity once synced.
type CreateRequest struct {
	ID         *uuid.UUID          `json:"id"`
	Name       string              `json:"name" validate:"required,max=255"`
	Dosage     string              `json:"dosage" validate:"max=255"`
	Schedule   []time.Time         `json:"schedule" validate:"max=48"`
	TakenToday []models.DoseRecord `json:"takenToday" validate:"max=1000"`
}

type ToggleRequest struct {
	ScheduleTime *time.Time `json:"scheduleTime" validate:"required"`
	IsTaken      *bool      `json:"isTaken" validate:"required"`
}
