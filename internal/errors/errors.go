package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidInput       ErrorCode = "invalid_input"
	InvalidAmount      ErrorCode = "invalid_amount"
	AccountNotFound    ErrorCode = "account_not_found"
	InsufficientFunds  ErrorCode = "insufficient_funds"
	DuplicateAccount   ErrorCode = "duplicate_account"
	StorageUnavailable ErrorCode = "storage_unavailable"
	PersistenceFailure ErrorCode = "persistence_failure"
	TransferFailed     ErrorCode = "transfer_failed"
	InternalError      ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// HTTPStatus maps the error code to the status the presentation layer should
// respond with.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case InvalidInput, InvalidAmount:
		return http.StatusBadRequest
	case AccountNotFound:
		return http.StatusNotFound
	case InsufficientFunds:
		return http.StatusUnprocessableEntity
	case DuplicateAccount:
		return http.StatusConflict
	case StorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrInvalidAmount          = NewAppError(InvalidAmount, "amount must be positive")
	ErrAccountNotFound        = NewAppError(AccountNotFound, "account not found")
	ErrInsufficientFunds      = NewAppError(InsufficientFunds, "insufficient funds")
	ErrDuplicateAccount       = NewAppError(DuplicateAccount, "account already exists")
	ErrSameAccountTransfer    = NewAppError(InvalidInput, "cannot transfer to the same account")
	ErrCannotBeginTransaction = NewAppError(InternalError, "cannot begin transaction from within a transaction")
)
