package appointments

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardiocompanion/cardio-api/internal/apperr"
	"github.com/cardiocompanion/cardio-api/internal/identity"
	"github.com/cardiocompanion/cardio-api/internal/models"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns the user's appointments, soonest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	appointments := []models.Appointment{}
	err := s.db.WithContext(ctx).
		Scopes(identity.ForUser(userID)).
		Order("date ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, apperr.Internal("failed to list appointments", err)
	}
	return appointments, nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*models.Appointment, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || req.Date == nil {
		return nil, apperr.Validation("Title and date are required")
	}

	appt := &models.Appointment{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    title,
		Date:     req.Date.UTC(),
		Location: strings.TrimSpace(req.Location),
		Notes:    req.Notes,
	}
	if err := s.db.WithContext(ctx).Create(appt).Error; err != nil {
		return nil, apperr.Internal("failed to create appointment", err)
	}
	return appt, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Scopes(identity.ForUser(userID)).
		Where("id = ?", id).
		Delete(&models.Appointment{})
	if result.Error != nil {
		return apperr.Internal("failed to delete appointment", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Appointment not found")
	}
	return nil
}
