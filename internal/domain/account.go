package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Kind discriminates the account variants. The value doubles as the type
// discriminator stored in the accounts table.
type Kind string

const (
	KindSavings  Kind = "Savings"
	KindChecking Kind = "Checking"
)

// Prefix returns the account-number prefix for the kind.
func (k Kind) Prefix() string {
	if k == KindChecking {
		return "CHK"
	}
	return "SAV"
}

// ParseKind matches a stored type discriminator case-insensitively.
func ParseKind(s string) (Kind, bool) {
	switch {
	case strings.EqualFold(s, string(KindSavings)):
		return KindSavings, true
	case strings.EqualFold(s, string(KindChecking)):
		return KindChecking, true
	}
	return "", false
}

type Customer struct {
	ID      int64  `json:"customer_id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Account is a tagged variant: the shared fields plus a payload selected by
// Kind. InterestRate is set for savings accounts and is informational only;
// OverdraftLimit is set for checking accounts and bounds how far the balance
// may go below zero.
type Account struct {
	Number         string          `json:"account_number"`
	Customer       Customer        `json:"customer"`
	Kind           Kind            `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	OverdraftLimit decimal.Decimal `json:"overdraft_limit"`
}

// CanWithdraw reports whether withdrawing amount keeps the account within its
// balance invariant: balance >= 0 for savings, balance >= -overdraftLimit for
// checking.
func (a *Account) CanWithdraw(amount decimal.Decimal) bool {
	switch a.Kind {
	case KindSavings:
		return a.Balance.GreaterThanOrEqual(amount)
	case KindChecking:
		return a.Balance.Add(a.OverdraftLimit).GreaterThanOrEqual(amount)
	}
	return false
}

// AccountRepository is the durable account store. Implementations are
// policy-free: balance-invariant checks live in the ledger service.
type AccountRepository interface {
	InsertCustomer(name, address string) (int64, error)
	InsertAccount(number string, customerID int64, kind Kind, balance decimal.Decimal) error
	InsertSavingsAttributes(number string, interestRate decimal.Decimal) error
	InsertCheckingAttributes(number string, overdraftLimit decimal.Decimal) error
	LoadAccount(number string) (*Account, error)
	LoadAccountForUpdate(number string) (*Account, error)
	LoadAllAccounts() ([]*Account, error)
	UpdateBalance(number string, newBalance decimal.Decimal) error
}

// SequenceAllocator produces unique account numbers. A number handed out is
// never handed out again, even across processes sharing the store.
type SequenceAllocator interface {
	Allocate(prefix string) (string, error)
}
