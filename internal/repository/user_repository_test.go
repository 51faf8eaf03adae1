package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kmadriaga/resort-booking-api/internal/model"
)

func newUserMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

func TestCreateTxNormalizesEmail(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("Ana Reyes", "ana@resort.local", nil, sqlmock.AnyArg(), model.RoleUser, "tokhash").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectCommit()

	tx, err := repo.DB.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	id, err := repo.CreateTx(context.Background(), tx, "Ana Reyes", "  ANA@Resort.Local ",
		nil, "supersecret", model.RoleUser, "tokhash", bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), id)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTxDuplicateEmail(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(errors.New("Error 1062: Duplicate entry 'ana@resort.local' for key 'users.email'"))
	mock.ExpectRollback()

	tx, err := repo.DB.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	_, err = repo.CreateTx(context.Background(), tx, "Ana Reyes", "ana@resort.local",
		nil, "supersecret", model.RoleUser, "tokhash", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrEmailExists)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMarksVerifiedUsers(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	now := time.Now()
	mock.ExpectQuery(`SELECT id, name, email, phone, role, email_verified_at, created_at FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "phone", "role", "email_verified_at", "created_at",
		}).
			AddRow(2, "Ben Cruz", "ben@resort.local", nil, "customer", nil, now).
			AddRow(1, "Ana Reyes", "ana@resort.local", nil, "admin", now, now))

	page, err := repo.List(context.Background(), "", 1, 15)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 2)
	assert.False(t, page.Items[0].Verified)
	assert.True(t, page.Items[1].Verified)
	assert.NoError(t, mock.ExpectationsWereMet())
}
