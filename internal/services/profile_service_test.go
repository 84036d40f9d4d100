package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardiocompanion/cardio-api/internal/adherence"
	"github.com/cardiocompanion/cardio-api/internal/apperr"
	"github.com/cardiocompanion/cardio-api/internal/dto"
	"github.com/cardiocompanion/cardio-api/internal/models"
)

type stubMeds struct {
	meds []models.Medication
	err  error
}

func (s *stubMeds) ListByUser(context.Context, uuid.UUID) ([]models.Medication, error) {
	return s.meds, s.err
}

type stubSymptoms struct {
	count  int64
	recent []models.SymptomLog
	limit  int
}

func (s *stubSymptoms) CountByUser(context.Context, uuid.UUID) (int64, error) {
	return s.count, nil
}

func (s *stubSymptoms) Recent(_ context.Context, _ uuid.UUID, limit int) ([]models.SymptomLog, error) {
	s.limit = limit
	return s.recent, nil
}

func TestProfileService_Get(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "patient@example.com", Name: "Pat", SubscriptionStatus: models.SubscriptionFree}
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2026, 3, d, 8, 0, 0, 0, time.UTC) }

	meds := &stubMeds{meds: []models.Medication{{
		Schedule:   []time.Time{day(8), day(9), day(10), day(11)},
		TakenToday: []models.DoseRecord{{Date: day(8), Taken: true}, {Date: day(9), Taken: true}, {Date: day(10), Taken: true}},
	}}}
	symptoms := &stubSymptoms{count: 2}

	svc := NewProfileService(newMemUsers(user), meds, symptoms, time.UTC)
	svc.now = func() time.Time { return now }

	profile, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, "Pat", profile.Name)
	assert.Equal(t, adherence.Stats{Streak: 3, Points: 40, AdherenceRate: 75}, profile.Stats)
	assert.Equal(t, 5, symptoms.limit)
	assert.NotNil(t, profile.RecentSymptoms)
}

func TestProfileService_GetUnknownUser(t *testing.T) {
	svc := NewProfileService(newMemUsers(), &stubMeds{}, &stubSymptoms{}, time.UTC)
	_, err := svc.Get(context.Background(), uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestProfileService_GetStoreFailure(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	svc := NewProfileService(newMemUsers(user), &stubMeds{err: errors.New("timeout")}, &stubSymptoms{}, time.UTC)
	_, err := svc.Get(context.Background(), user.ID)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestProfileService_UpdateOnlyProvidedFields(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "Pat", Address: "1 Main St", DateOfBirth: "1970-01-01"}
	users := newMemUsers(user)
	svc := NewProfileService(users, &stubMeds{}, &stubSymptoms{}, time.UTC)

	name := "  Patricia "
	profile, err := svc.Update(context.Background(), user.ID, &dto.UpdateProfileRequest{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Patricia", profile.Name)
	assert.Equal(t, "1 Main St", profile.Address)
	assert.Equal(t, "Patricia", users.get(user.ID).Name)
	assert.Equal(t, "1970-01-01", users.get(user.ID).DateOfBirth)
}

func TestProfileService_UpdateRejectsBlankName(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "Pat"}
	users := newMemUsers(user)
	svc := NewProfileService(users, &stubMeds{}, &stubSymptoms{}, time.UTC)

	blank := "   "
	_, err := svc.Update(context.Background(), user.ID, &dto.UpdateProfileRequest{Name: &blank})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "Pat", users.get(user.ID).Name)
}
