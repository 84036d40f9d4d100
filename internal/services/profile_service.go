package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cardiocompanion/cardio-api/internal/adherence"
	"github.com/cardiocompanion/cardio-api/internal/apperr"
	"github.com/cardiocompanion/cardio-api/internal/dto"
	"github.com/cardiocompanion/cardio-api/internal/models"
	"github.com/cardiocompanion/cardio-api/internal/repository"
)

const recentSymptomLimit = 5

type MedicationLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Medication, error)
}

type SymptomLogReader interface {
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.SymptomLog, error)
}

type ProfileService struct {
	users    UserStore
	meds     MedicationLister
	symptoms SymptomLogReader
	loc      *time.Location
	now      func() time.Time
}

func NewProfileService(users UserStore, meds MedicationLister, symptoms SymptomLogReader, loc *time.Location) *ProfileService {
	return &ProfileService{
		users:    users,
		meds:     meds,
		symptoms: symptoms,
		loc:      loc,
		now:      time.Now,
	}
}

// Get returns the account with its adherence stats and latest symptom logs.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, user)
}

// Update changes only the fields present in req.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("Name cannot be empty")
		}
		fields["name"] = name
		user.Name = name
	}
	if req.Address != nil {
		fields["address"] = strings.TrimSpace(*req.Address)
		user.Address = strings.TrimSpace(*req.Address)
	}
	if req.DateOfBirth != nil {
		fields["date_of_birth"] = strings.TrimSpace(*req.DateOfBirth)
		user.DateOfBirth = strings.TrimSpace(*req.DateOfBirth)
	}

	if len(fields) > 0 {
		if err := s.users.Update(ctx, user, fields); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperr.NotFound("User not found")
			}
			return nil, apperr.Internal("failed to update profile", err)
		}
	}
	return s.build(ctx, user)
}

func (s *ProfileService) load(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return user, nil
}

func (s *ProfileService) build(ctx context.Context, user *models.User) (*dto.ProfileResponse, error) {
	meds, err := s.meds.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load medications", err)
	}
	count, err := s.symptoms.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, apperr.Internal("failed to count symptom logs", err)
	}
	recent, err := s.symptoms.Recent(ctx, user.ID, recentSymptomLimit)
	if err != nil {
		return nil, apperr.Internal("failed to load symptom logs", err)
	}
	if recent == nil {
		recent = []models.SymptomLog{}
	}

	return &dto.ProfileResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		Address:            user.Address,
		DateOfBirth:        user.DateOfBirth,
		SubscriptionStatus: user.SubscriptionStatus,
		Stats:              adherence.Summarize(meds, count, s.now(), s.loc),
		RecentSymptoms:     recent,
	}, nil
}
