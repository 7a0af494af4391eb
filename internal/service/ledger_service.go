package service

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"account-ledger/internal/domain"
	"account-ledger/internal/errors"
	"account-ledger/internal/repository"
)

// LedgerService orchestrates account creation, deposits, withdrawals and
// transfers. It is the only component that knows the balance invariants; the
// store underneath is policy-free.
type LedgerService struct {
	store  *repository.Store
	logger *slog.Logger
}

func NewLedgerService(store *repository.Store, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		store:  store,
		logger: logger,
	}
}

// CreateAccountRequest carries the inputs for opening an account. RateOrLimit
// is the interest rate for savings accounts and the overdraft limit for
// checking accounts.
type CreateAccountRequest struct {
	Kind           domain.Kind
	OwnerName      string
	OwnerAddress   string
	InitialDeposit decimal.Decimal
	RateOrLimit    decimal.Decimal
}

// CreateAccount opens an account together with its owning customer. The
// customer row, the account row, the variant-attribute row and the sequence
// increment all commit in one transaction: a failed create leaves no orphaned
// rows behind.
func (s *LedgerService) CreateAccount(req *CreateAccountRequest) (*domain.Account, error) {
	s.logger.Info("Creating account",
		"type", req.Kind,
		"owner", req.OwnerName,
		"initial_deposit", req.InitialDeposit)

	if req.Kind != domain.KindSavings && req.Kind != domain.KindChecking {
		return nil, errors.NewAppErrorf(errors.InvalidInput, "unknown account type %q", req.Kind)
	}
	if req.OwnerName == "" {
		return nil, errors.NewAppError(errors.InvalidInput, "owner name is required")
	}
	if req.InitialDeposit.IsNegative() {
		return nil, errors.NewAppError(errors.InvalidAmount, "initial deposit cannot be negative")
	}
	if req.RateOrLimit.IsNegative() {
		return nil, errors.NewAppError(errors.InvalidAmount, "rate or overdraft limit cannot be negative")
	}

	var account *domain.Account
	err := s.store.WithTransaction(func(tx *repository.Store) error {
		accounts := tx.Accounts()

		customerID, err := accounts.InsertCustomer(req.OwnerName, req.OwnerAddress)
		if err != nil {
			return err
		}

		number, err := tx.Sequences().Allocate(req.Kind.Prefix())
		if err != nil {
			return err
		}

		if err := accounts.InsertAccount(number, customerID, req.Kind, req.InitialDeposit); err != nil {
			return err
		}

		switch req.Kind {
		case domain.KindSavings:
			err = accounts.InsertSavingsAttributes(number, req.RateOrLimit)
		case domain.KindChecking:
			err = accounts.InsertCheckingAttributes(number, req.RateOrLimit)
		}
		if err != nil {
			return err
		}

		account, err = accounts.LoadAccount(number)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Account created", "account_number", account.Number, "type", account.Kind)
	return account, nil
}

// Deposit adds amount to the account's balance. There is no upper bound.
func (s *LedgerService) Deposit(number string, amount decimal.Decimal) (*domain.Account, error) {
	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	var account *domain.Account
	err := s.store.WithTransaction(func(tx *repository.Store) error {
		accounts := tx.Accounts()

		var err error
		account, err = accounts.LoadAccountForUpdate(number)
		if err != nil {
			return err
		}

		account.Balance = account.Balance.Add(amount)
		return accounts.UpdateBalance(number, account.Balance)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Deposit completed", "account_number", number, "amount", amount, "balance", account.Balance)
	return account, nil
}

// Withdraw subtracts amount from the account's balance, subject to the
// variant's balance invariant: savings may not go below zero, checking may not
// go below the negated overdraft limit.
func (s *LedgerService) Withdraw(number string, amount decimal.Decimal) (*domain.Account, error) {
	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	var account *domain.Account
	err := s.store.WithTransaction(func(tx *repository.Store) error {
		accounts := tx.Accounts()

		var err error
		account, err = accounts.LoadAccountForUpdate(number)
		if err != nil {
			return err
		}

		if !account.CanWithdraw(amount) {
			return errors.ErrInsufficientFunds
		}

		account.Balance = account.Balance.Sub(amount)
		return accounts.UpdateBalance(number, account.Balance)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Withdrawal completed", "account_number", number, "amount", amount, "balance", account.Balance)
	return account, nil
}

// Transfer moves amount from one account to another in a single transaction.
// Both balance writes commit together or not at all; a concurrent reader sees
// either the pre-transfer or the post-transfer balances, never one leg alone.
func (s *LedgerService) Transfer(fromNumber, toNumber string, amount decimal.Decimal) error {
	s.logger.Info("Processing transfer", "from", fromNumber, "to", toNumber, "amount", amount)

	if !amount.IsPositive() {
		return errors.ErrInvalidAmount
	}
	if fromNumber == toNumber {
		return errors.ErrSameAccountTransfer
	}

	err := s.store.WithTransaction(func(tx *repository.Store) error {
		accounts := tx.Accounts()

		// Lock rows in lexical order so two opposite-direction transfers
		// cannot deadlock.
		first, second := fromNumber, toNumber
		if second < first {
			first, second = second, first
		}

		locked := make(map[string]*domain.Account, 2)
		for _, number := range []string{first, second} {
			account, err := accounts.LoadAccountForUpdate(number)
			if err != nil {
				return err
			}
			locked[number] = account
		}

		from := locked[fromNumber]
		to := locked[toNumber]

		if !from.CanWithdraw(amount) {
			return errors.ErrInsufficientFunds
		}

		if err := accounts.UpdateBalance(fromNumber, from.Balance.Sub(amount)); err != nil {
			return err
		}
		return accounts.UpdateBalance(toNumber, to.Balance.Add(amount))
	})
	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return err
		}
		s.logger.Error("Transfer failed", "from", fromNumber, "to", toNumber, "error", err)
		return errors.NewAppError(errors.TransferFailed, "transfer aborted").WithDetails(err.Error())
	}

	s.logger.Info("Transfer completed", "from", fromNumber, "to", toNumber, "amount", amount)
	return nil
}

// FindAccount returns the fully materialized account for the number.
func (s *LedgerService) FindAccount(number string) (*domain.Account, error) {
	return s.store.Accounts().LoadAccount(number)
}

// ListAccounts returns all accounts ordered by account number. The list is a
// point-in-time snapshot and is safe to call concurrently with writers.
func (s *LedgerService) ListAccounts() ([]*domain.Account, error) {
	return s.store.Accounts().LoadAllAccounts()
}
