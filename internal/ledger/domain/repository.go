package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// AccountRepository stores account balances.
type AccountRepository interface {
	// FindByIBAN returns ErrAccountNotFound when the account does not exist.
	FindByIBAN(ctx context.Context, iban string) (*Account, error)

	// Create inserts a new account at version 1. Returns ErrAccountExists on duplicates.
	Create(ctx context.Context, iban string, balance decimal.Decimal) (*Account, error)

	// Save writes acc.Balance under optimistic locking.
	// Returns ErrConflict when acc.Version no longer matches the stored one.
	// On success acc.Version is advanced.
	Save(ctx context.Context, acc *Account) error

	// ListIBANs returns up to limit account ids other than exclude.
	ListIBANs(ctx context.Context, exclude string, limit int) ([]string, error)
}

// TransactionRepository is the append-only ledger of records.
type TransactionRepository interface {
	Append(ctx context.Context, t *Transaction) error

	// ListByAccount returns all records of the account, most recent first.
	ListByAccount(ctx context.Context, accountID string) ([]Transaction, error)
}

// Store groups both repositories behind one transactional boundary.
type Store interface {
	Accounts() AccountRepository
	Transactions() TransactionRepository

	// WithTransaction runs fn against a Store bound to a single store transaction.
	// Every write made through tx is committed when fn returns nil and rolled back otherwise.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
