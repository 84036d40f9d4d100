package symptoms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cardiocompanion/cardio-api/internal/apperr"
	"github.com/cardiocompanion/cardio-api/internal/identity"
	"github.com/cardiocompanion/cardio-api/internal/models"
)

const listLimit = 100

var newestFirst = clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Validate checks a log before it is stored: at least one named symptom,
// and every severity rating in range and naming one of the symptoms.
func Validate(req *CreateRequest) error {
	if req.Timestamp == nil || req.Timestamp.IsZero() {
		return apperr.Validation("timestamp is required")
	}
	if len(req.Symptoms) == 0 {
		return apperr.Validation("at least one symptom is required")
	}

	names := make(map[string]bool, len(req.Symptoms))
	for _, s := range req.Symptoms {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return apperr.Validation("symptom name is required")
		}
		names[name] = true
	}

	for name, rating := range req.SeverityRatings {
		if !names[name] {
			return apperr.Validation(fmt.Sprintf("severity rating for unknown symptom %q", name))
		}
		if rating < MinSeverity || rating > MaxSeverity {
			return apperr.Validation(fmt.Sprintf("severity for %q must be between %d and %d", name, MinSeverity, MaxSeverity))
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*models.SymptomLog, error) {
	if err := Validate(&req); err != nil {
		return nil, err
	}

	symptoms := make([]models.Symptom, 0, len(req.Symptoms))
	for _, in := range req.Symptoms {
		symptoms = append(symptoms, models.Symptom{Name: strings.TrimSpace(in.Name), IsUrgent: in.IsUrgent})
	}
	ratings := req.SeverityRatings
	if ratings == nil {
		ratings = map[string]int{}
	}

	log := &models.SymptomLog{
		ID:              uuid.New(),
		UserID:          userID,
		Timestamp:       req.Timestamp.UTC(),
		Symptoms:        symptoms,
		SeverityRatings: datatypes.NewJSONType(ratings),
	}
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return nil, apperr.Internal("failed to create symptom log", err)
	}
	return log, nil
}

// List returns the newest logs first, capped at 100. The range filter applies
// only when both bounds are given.
func (s *Service) List(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]models.SymptomLog, error) {
	q := s.db.WithContext(ctx).Scopes(identity.ForUser(userID))
	if start != nil && end != nil {
		q = q.Where(`"timestamp" >= ? AND "timestamp" <= ?`, start.UTC(), end.UTC())
	}

	logs := []models.SymptomLog{}
	if err := q.Order(newestFirst).Limit(listLimit).Find(&logs).Error; err != nil {
		return nil, apperr.Internal("failed to list symptom logs", err)
	}
	return logs, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*models.SymptomLog, error) {
	var log models.SymptomLog
	err := s.db.WithContext(ctx).
		Scopes(identity.ForUser(userID)).
		Where("id = ?", id).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Symptom log not found")
		}
		return nil, apperr.Internal("failed to load symptom log", err)
	}
	return &log, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Scopes(identity.ForUser(userID)).
		Where("id = ?", id).
		Delete(&models.SymptomLog{})
	if result.Error != nil {
		return apperr.Internal("failed to delete symptom log", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Symptom log not found")
	}
	return nil
}

func (s *Service) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.SymptomLog{}).
		Scopes(identity.ForUser(userID)).
		Count(&n).Error
	return n, err
}

// Recent returns the user's newest limit logs.
func (s *Service) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.SymptomLog, error) {
	logs := []models.SymptomLog{}
	err := s.db.WithContext(ctx).
		Scopes(identity.ForUser(userID)).
		Order(newestFirst).
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
