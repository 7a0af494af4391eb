package repository

import (
	stderrors "errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-ledger/internal/domain"
	"account-ledger/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var accountRows = []string{
	"account_number", "type", "balance",
	"id", "name", "address",
	"interest_rate", "overdraft_limit",
}

func TestInsertCustomer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db, testLogger())

	mock.ExpectQuery(`INSERT INTO customers`).
		WithArgs("Alice", "12 Main St").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := repo.InsertCustomer("Alice", "12 Main St")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertCustomerStorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db, testLogger())

	mock.ExpectQuery(`INSERT INTO customers`).
		WillReturnError(stderrors.New("connection refused"))

	_, err = repo.InsertCustomer("Alice", "")
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.StorageUnavailable, appErr.Code)
}

func TestInsertAccountDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db, testLogger())

	mock.ExpectExec(`INSERT INTO accounts`).
		WithArgs("SAV0001", int64(1), "Savings", "100").
		WillReturnError(&pq.Error{Code: "23505"})

	err = repo.InsertAccount("SAV0001", 1, domain.KindSavings, decimal.NewFromInt(100))
	assert.Equal(t, errors.ErrDuplicateAccount, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadAccountSavings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db, testLogger())

	rows := sqlmock.NewRows(accountRows).
		AddRow("SAV0001", "Savings", "100", int64(1), "Alice", "12 Main St", "2.0", nil)
	mock.ExpectQuery(`SELECT\s+a\.account_number`).
		WithArgs("SAV0001").
		WillReturnRows(rows)

	account, err := repo.LoadAccount("SAV0001")
	require.NoError(t, err)
	assert.Equal(t, "SAV0001", account.Number)
	assert.Equal(t, domain.KindSavings, account.Kind)
	assert.Equal(t, "Alice", account.Customer.Name)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(100)))
	assert.True(t, account.InterestRate.Equal(decimal.NewFromFloat(2.0)))
	assert.True(t, account.OverdraftLimit.IsZero())
}

func TestLoadAccountCheckingCaseInsensitiveType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db, testLogger())

	rows := sqlmock.NewRows(accountRows).
		AddRow("CHK0001", "checking", "-70", int64(2), "Bob", "", nil, "100")
	mock.ExpectQuery(`SELECT\s+a\.account_number`).
		WithArgs("CHK0001").
		WillReturnRows(rows)

	account, err := repo.LoadAccount("CHK0001")
	require.NoError(t, err)
	assert.Equal(t, domain.KindChecking, account.Kind)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(-70)))
	assert.True(t, account.OverdraftLimit.Equal(decimal.NewFromInt(100)))
}

func TestLoadAccountNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db, testLogger())

	mock.ExpectQuery(`SELECT\s+a\.account_number`).
		WithArgs("SAV9999").
		WillReturnRows(sqlmock.NewRows(accountRows))

	_, err = repo.LoadAccount("SAV9999")
	assert.Equal(t, errors.ErrAccountNotFound, err)
}

func TestLoadAccountForUpdateLocksRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db, testLogger())

	rows := sqlmock.NewRows(accountRows).
		AddRow("SAV0001", "Savings", "100", int64(1), "Alice", "", "2.0", nil)
	mock.ExpectQuery(`FOR UPDATE OF a`).
		WithArgs("SAV0001").
		WillReturnRows(rows)

	_, err = repo.LoadAccountForUpdate("SAV0001")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadAllAccountsOrdered(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db, testLogger())

	rows := sqlmock.NewRows(accountRows).
		AddRow("CHK0001", "Checking", "50", int64(2), "Bob", "", nil, "100").
		AddRow("SAV0001", "Savings", "100", int64(1), "Alice", "", "2.0", nil)
	mock.ExpectQuery(`ORDER BY a\.account_number ASC`).
		WillReturnRows(rows)

	accounts, err := repo.LoadAllAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "CHK0001", accounts[0].Number)
	assert.Equal(t, "SAV0001", accounts[1].Number)
}

func TestUpdateBalanceNoRowUpdated(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db, testLogger())

	mock.ExpectExec(`UPDATE accounts`).
		WithArgs("10", "SAV0001").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateBalance("SAV0001", decimal.NewFromInt(10))
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.PersistenceFailure, appErr.Code)
}
