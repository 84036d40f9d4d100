package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cardiocompanion/cardio-api/internal/apperr"
	"github.com/cardiocompanion/cardio-api/internal/identity"
	"github.com/cardiocompanion/cardio-api/internal/models"
)

var errNotFound = apperr.NotFound("Medication not found")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Medication, error) {
	meds := []models.Medication{}
	err := s.db.WithContext(ctx).
		Scopes(identity.ForUser(userID)).
		Order("created_at ASC").
		Find(&meds).Error
	if err != nil {
		return nil, apperr.Internal("failed to list medications", err)
	}
	return meds, nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*models.Medication, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	med := &models.Medication{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       name,
		Dosage:     strings.TrimSpace(req.Dosage),
		Schedule:   req.Schedule,
		TakenToday: req.TakenToday,
	}
	if req.ID != nil && *req.ID != uuid.Nil {
		med.ID = *req.ID
	}
	if med.Schedule == nil {
		med.Schedule = []time.Time{}
	}
	if med.TakenToday == nil {
		med.TakenToday = []models.DoseRecord{}
	}
	for _, r := range med.TakenToday {
		if !med.HasScheduleEntry(r.Date) {
			return nil, apperr.Validation("takenToday entries must match a schedule time")
		}
	}

	if err := s.db.WithContext(ctx).Create(med).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Medication already exists")
		}
		return nil, apperr.Internal("failed to create medication", err)
	}
	return med, nil
}

// Delete removes the user's medication. Another user's id reports not found.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Scopes(identity.ForUser(userID)).
		Where("id = ?", id).
		Delete(&models.Medication{})
	if result.Error != nil {
		return apperr.Internal("failed to delete medication", result.Error)
	}
	if result.RowsAffected == 0 {
		return errNotFound
	}
	return nil
}

// ToggleTaken upserts the dose record for an exact schedule time. The row is
// locked for the read-modify-write so concurrent toggles don't drop records.
func (s *Service) ToggleTaken(ctx context.Context, userID, id uuid.UUID, at time.Time, taken bool) (*models.Medication, error) {
	var med models.Medication
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(identity.ForUser(userID)).
			Where("id = ?", id).
			First(&med).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound
			}
			return err
		}

		if !med.HasScheduleEntry(at) {
			return apperr.Validation("scheduleTime does not match any scheduled dose")
		}
		med.SetTaken(at, taken)

		return tx.Model(&med).Update("taken_today", med.TakenToday).Error
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, apperr.Internal("failed to update medication", err)
	}
	return &med, nil
}
