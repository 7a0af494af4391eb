package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-ledger/internal/errors"
)

func TestAllocateFormatsNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	alloc := NewSequenceAllocator(db, testLogger())

	mock.ExpectQuery(`UPDATE sequences`).
		WithArgs("SAV").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(1)))

	number, err := alloc.Allocate("SAV")
	require.NoError(t, err)
	assert.Equal(t, "SAV0001", number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocateGrowsPastPadding(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	alloc := NewSequenceAllocator(db, testLogger())

	mock.ExpectQuery(`UPDATE sequences`).
		WithArgs("CHK").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(12345)))

	number, err := alloc.Allocate("CHK")
	require.NoError(t, err)
	assert.Equal(t, "CHK12345", number)
}

func TestAllocateMissingSequenceRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	alloc := NewSequenceAllocator(db, testLogger())

	mock.ExpectQuery(`UPDATE sequences`).
		WithArgs("XYZ").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err = alloc.Allocate("XYZ")
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.PersistenceFailure, appErr.Code)
}
