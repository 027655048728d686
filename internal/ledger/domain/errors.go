package domain

import "errors"

// User-visible failures. These are detected before any write.
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameAccount       = errors.New("sender and recipient accounts are the same")
	ErrAccountNotFound   = errors.New("account not found")
	ErrMissingFields     = errors.New("missing required fields")
)

// Store-level failures.
var (
	// ErrAccountExists is returned by Create when the IBAN is already taken.
	ErrAccountExists = errors.New("account already exists")

	// ErrConflict means the account was modified by someone else since it was read.
	ErrConflict = errors.New("optimistic lock conflict: account modified by others")

	// ErrTimeout means the transactional boundary ran out of time. Safe to retry.
	ErrTimeout = errors.New("ledger operation timed out")
)

// IsUserError reports whether err is caused by the caller's input or the
// account state rather than by the store.
func IsUserError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrSameAccount) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrMissingFields)
}
