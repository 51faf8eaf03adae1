package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTaken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewHallBookingRepo(db)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(uint64(2), "2026-12-24").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repo.DateTaken(context.Background(), 2, "2026-12-24")
	require.NoError(t, err)
	assert.True(t, taken)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(uint64(2), "2026-12-25").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	taken, err = repo.DateTaken(context.Background(), 2, "2026-12-25")
	require.NoError(t, err)
	assert.False(t, taken)

	assert.NoError(t, mock.ExpectationsWereMet())
}
