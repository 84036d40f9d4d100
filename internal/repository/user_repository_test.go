package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardiocompanion/cardio-api/internal/models"
	"github.com/cardiocompanion/cardio-api/internal/testutil"
)

func TestFindByEmail(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewUserRepository(db)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 AND "users"."deleted_at" IS NULL`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "subscription_status"}).
			AddRow(id.String(), "patient@example.com", "Pat", "free"))

	user, err := repo.FindByEmail(context.Background(), "patient@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "Pat", user.Name)
	assert.Equal(t, models.SubscriptionFree, user.SubscriptionStatus)
}

func TestFindByAppleUserID_NotFound(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE apple_user_id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByAppleUserID(context.Background(), "001234.abcd")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByID_DatabaseError(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(errors.New("connection reset"))

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "failed to load user")
}

func TestUpdate(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewUserRepository(db)
	user := &models.User{ID: uuid.New()}

	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), user, map[string]interface{}{"name": "Patricia"}))

	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Update(context.Background(), user, map[string]interface{}{"name": "Patricia"}), ErrNotFound)
}
