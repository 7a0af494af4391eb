package repository

import (
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"account-ledger/internal/domain"
	"account-ledger/internal/errors"
)

type accountRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewAccountRepository(db SQLExecutor, logger *slog.Logger) domain.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

const accountColumns = `
	a.account_number, a.type, a.balance,
	c.id, c.name, c.address,
	s.interest_rate, chk.overdraft_limit
`

const accountJoins = `
	FROM accounts a
	JOIN customers c ON a.customer_id = c.id
	LEFT JOIN savings_accounts s ON a.account_number = s.account_number
	LEFT JOIN checking_accounts chk ON a.account_number = chk.account_number
`

func (r *accountRepository) InsertCustomer(name, address string) (int64, error) {
	query := `
		INSERT INTO customers (name, address)
		VALUES ($1, $2)
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRow(query, name, address).Scan(&id); err != nil {
		r.logger.Error("Failed to insert customer", "name", name, "error", err)
		return 0, errors.NewAppError(errors.StorageUnavailable, "failed to insert customer").WithDetails(err.Error())
	}

	r.logger.Info("Customer inserted", "customer_id", id, "name", name)
	return id, nil
}

func (r *accountRepository) InsertAccount(number string, customerID int64, kind domain.Kind, balance decimal.Decimal) error {
	query := `
		INSERT INTO accounts (account_number, customer_id, type, balance)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(query, number, customerID, string(kind), balance.String())
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				r.logger.Warn("Duplicate account number", "account_number", number)
				return errors.ErrDuplicateAccount
			}
		}
		r.logger.Error("Failed to insert account", "account_number", number, "error", err)
		return errors.NewAppError(errors.StorageUnavailable, "failed to insert account").WithDetails(err.Error())
	}

	r.logger.Info("Account inserted", "account_number", number, "type", kind)
	return nil
}

func (r *accountRepository) InsertSavingsAttributes(number string, interestRate decimal.Decimal) error {
	query := `
		INSERT INTO savings_accounts (account_number, interest_rate)
		VALUES ($1, $2)
	`

	if _, err := r.db.Exec(query, number, interestRate.String()); err != nil {
		r.logger.Error("Failed to insert savings attributes", "account_number", number, "error", err)
		return errors.NewAppError(errors.StorageUnavailable, "failed to insert savings attributes").WithDetails(err.Error())
	}
	return nil
}

func (r *accountRepository) InsertCheckingAttributes(number string, overdraftLimit decimal.Decimal) error {
	query := `
		INSERT INTO checking_accounts (account_number, overdraft_limit)
		VALUES ($1, $2)
	`

	if _, err := r.db.Exec(query, number, overdraftLimit.String()); err != nil {
		r.logger.Error("Failed to insert checking attributes", "account_number", number, "error", err)
		return errors.NewAppError(errors.StorageUnavailable, "failed to insert checking attributes").WithDetails(err.Error())
	}
	return nil
}

func (r *accountRepository) LoadAccount(number string) (*domain.Account, error) {
	query := `SELECT` + accountColumns + accountJoins + `WHERE a.account_number = $1`

	return r.scanAccount(r.db.QueryRow(query, number), number)
}

// LoadAccountForUpdate locks the base account row until the surrounding
// transaction commits, serializing read-modify-write of the balance across
// processes sharing the store.
func (r *accountRepository) LoadAccountForUpdate(number string) (*domain.Account, error) {
	query := `SELECT` + accountColumns + accountJoins + `WHERE a.account_number = $1 FOR UPDATE OF a`

	return r.scanAccount(r.db.QueryRow(query, number), number)
}

func (r *accountRepository) LoadAllAccounts() ([]*domain.Account, error) {
	query := `SELECT` + accountColumns + accountJoins + `ORDER BY a.account_number ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to load accounts", "error", err)
		return nil, errors.NewAppError(errors.StorageUnavailable, "failed to load accounts").WithDetails(err.Error())
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := r.scanAccount(rows, "")
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate accounts", "error", err)
		return nil, errors.NewAppError(errors.StorageUnavailable, "failed to load accounts").WithDetails(err.Error())
	}

	return accounts, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *accountRepository) scanAccount(row rowScanner, number string) (*domain.Account, error) {
	var (
		account        domain.Account
		typeStr        string
		balanceStr     string
		interestRate   sql.NullString
		overdraftLimit sql.NullString
	)

	err := row.Scan(
		&account.Number,
		&typeStr,
		&balanceStr,
		&account.Customer.ID,
		&account.Customer.Name,
		&account.Customer.Address,
		&interestRate,
		&overdraftLimit,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Account not found", "account_number", number)
			return nil, errors.ErrAccountNotFound
		}
		r.logger.Error("Failed to scan account", "account_number", number, "error", err)
		return nil, errors.NewAppError(errors.StorageUnavailable, "failed to load account").WithDetails(err.Error())
	}

	kind, ok := domain.ParseKind(typeStr)
	if !ok {
		r.logger.Error("Unknown account type", "account_number", account.Number, "type", typeStr)
		return nil, errors.NewAppErrorf(errors.InternalError, "unknown account type %q", typeStr)
	}
	account.Kind = kind

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		r.logger.Error("Failed to parse balance", "account_number", account.Number, "balance_str", balanceStr, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to parse balance").WithDetails(err.Error())
	}
	account.Balance = balance

	switch kind {
	case domain.KindSavings:
		if interestRate.Valid {
			rate, err := decimal.NewFromString(interestRate.String)
			if err != nil {
				return nil, errors.NewAppError(errors.InternalError, "failed to parse interest rate").WithDetails(err.Error())
			}
			account.InterestRate = rate
		}
	case domain.KindChecking:
		if overdraftLimit.Valid {
			limit, err := decimal.NewFromString(overdraftLimit.String)
			if err != nil {
				return nil, errors.NewAppError(errors.InternalError, "failed to parse overdraft limit").WithDetails(err.Error())
			}
			account.OverdraftLimit = limit
		}
	}

	return &account, nil
}

func (r *accountRepository) UpdateBalance(number string, newBalance decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = $1
		WHERE account_number = $2
	`

	result, err := r.db.Exec(query, newBalance.String(), number)
	if err != nil {
		r.logger.Error("Failed to update balance", "account_number", number, "error", err)
		return errors.NewAppError(errors.StorageUnavailable, "failed to update balance").WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewAppError(errors.PersistenceFailure, "failed to get rows affected").WithDetails(err.Error())
	}

	if rowsAffected == 0 {
		r.logger.Warn("No account row updated", "account_number", number)
		return errors.NewAppErrorf(errors.PersistenceFailure, "no account row updated for %s", number)
	}

	r.logger.Info("Account balance updated", "account_number", number, "new_balance", newBalance)
	return nil
}
