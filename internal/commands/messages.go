package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/cleared-dev/flatbank/internal/amount"
	"github.com/cleared-dev/flatbank/internal/model"
	"github.com/cleared-dev/flatbank/internal/store"
)

// userError carries a message meant for the person at the terminal while
// keeping the underlying error for errors.Is.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }

func (e *userError) Unwrap() error { return e.err }

// describe turns a store error into the message shown to the user.
func describe(number int64, err error) error {
	var insufficient *store.InsufficientFundsError
	switch {
	case errors.As(err, &insufficient):
		return &userError{fmt.Sprintf("Insufficient balance. Current balance: %s", amount.Format(insufficient.Balance)), err}
	case errors.Is(err, store.ErrDuplicateAccount):
		return &userError{fmt.Sprintf("Account with number %d already exists.", number), err}
	case errors.Is(err, store.ErrAccountNotFound):
		return &userError{fmt.Sprintf("Account number %d not found.", number), err}
	case errors.Is(err, store.ErrStoreEmpty):
		return &userError{"No accounts exist yet.", err}
	case errors.Is(err, store.ErrInvalidAmount):
		return &userError{"Invalid amount.", err}
	default:
		return err
	}
}

func printAccount(w io.Writer, a model.Account) {
	fmt.Fprintf(w, "Account No: %d\nName: %s\nBalance: %s\n", a.Number, a.Holder, amount.Format(a.Balance))
}

func warnTruncated(w io.Writer, holder string, a model.Account) {
	if a.Holder.Truncated(holder) {
		fmt.Fprintf(w, "warning: holder name truncated to %d bytes\n", model.MaxHolderNameLen)
	}
}
