package repository

import (
	"database/sql"
	"fmt"
	"log/slog"

	"account-ledger/internal/domain"
	"account-ledger/internal/errors"
)

type sequenceAllocator struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewSequenceAllocator(db SQLExecutor, logger *slog.Logger) domain.SequenceAllocator {
	return &sequenceAllocator{
		db:     db,
		logger: logger,
	}
}

// Allocate reserves the next number for the prefix and returns it formatted as
// an account number, e.g. SAV0001. The increment and the read happen in one
// statement, so two concurrent allocators can never observe the same value.
// Run against a plain sql.DB the number is consumed even if the caller never
// uses it; inside a Store transaction it rolls back with the transaction.
func (s *sequenceAllocator) Allocate(prefix string) (string, error) {
	query := `
		UPDATE sequences
		SET value = value + 1
		WHERE key = $1
		RETURNING value - 1
	`

	var seq int64
	if err := s.db.QueryRow(query, prefix).Scan(&seq); err != nil {
		if err == sql.ErrNoRows {
			s.logger.Error("Sequence row missing", "prefix", prefix)
			return "", errors.NewAppErrorf(errors.PersistenceFailure, "no sequence row for prefix %s", prefix)
		}
		s.logger.Error("Failed to allocate sequence number", "prefix", prefix, "error", err)
		return "", errors.NewAppError(errors.StorageUnavailable, "failed to allocate account number").WithDetails(err.Error())
	}

	number := fmt.Sprintf("%s%04d", prefix, seq)
	s.logger.Info("Account number allocated", "account_number", number)
	return number, nil
}
