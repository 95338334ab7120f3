package store

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/flatbank/internal/record"
)

var (
	// ErrInvalidAmount is returned for a negative opening balance, a
	// non-positive deposit or withdrawal, or any non-finite amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrDuplicateAccount is returned when creating an account number that is
	// already in the store.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrAccountNotFound is returned when a full scan finds no matching record.
	ErrAccountNotFound = errors.New("account not found")
	// ErrStoreEmpty is returned when the store file does not exist yet.
	ErrStoreEmpty = errors.New("no accounts exist yet")
	// ErrInsufficientFunds is returned when a withdrawal exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrCorruptRecord is returned when a slot in the file cannot be decoded.
	ErrCorruptRecord = record.ErrCorruptRecord
)

// InsufficientFundsError reports a rejected withdrawal together with the
// balance that was left untouched.
type InsufficientFundsError struct {
	Number  int64
	Balance float32
	Amount  float32
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("account %d: %s: balance %.2f, requested %.2f", e.Number, ErrInsufficientFunds, e.Balance, e.Amount)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }
