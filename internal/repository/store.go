package repository

import (
	"database/sql"
	"log/slog"

	"account-ledger/internal/domain"
	"account-ledger/internal/errors"
)

// Store provides a unified interface for all repository operations with transaction support
type Store struct {
	executor SQLExecutor
	logger   *slog.Logger
}

// NewStore creates a new Store instance
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		executor: db,
		logger:   logger,
	}
}

// Accounts returns an AccountRepository using the current executor
func (s *Store) Accounts() domain.AccountRepository {
	return NewAccountRepository(s.executor, s.logger)
}

// Sequences returns a SequenceAllocator using the current executor
func (s *Store) Sequences() domain.SequenceAllocator {
	return NewSequenceAllocator(s.executor, s.logger)
}

// WithTransaction executes a function within a database transaction. The
// function's repositories share one sql.Tx; an error or panic rolls the whole
// transaction back, so no partial write is ever visible to readers.
func (s *Store) WithTransaction(fn func(*Store) error) error {
	// Only sql.DB can begin transactions
	db, ok := s.executor.(*sql.DB)
	if !ok {
		return errors.ErrCannotBeginTransaction
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.NewAppError(errors.StorageUnavailable, "failed to begin transaction").WithDetails(err.Error())
	}

	txStore := &Store{
		executor: &TxWrapper{Tx: tx},
		logger:   s.logger,
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txStore); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewAppError(errors.PersistenceFailure, "failed to commit transaction").WithDetails(err.Error())
	}
	return nil
}
