// Package store keeps accounts as fixed-size records in a single flat file.
//
// Every lookup is a full scan from the start of the file. New accounts are
// appended; deposits and withdrawals overwrite the matched record in place at
// the offset it was read from, so file length only changes on create.
package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"

	"github.com/cleared-dev/flatbank/internal/model"
	"github.com/cleared-dev/flatbank/internal/record"
)

// Store is a handle to one store file. It holds no open file between calls.
//
// A Store must not be used concurrently, from one process or several: two
// operations racing on the same file can lose an update or read a record
// while it is half written. Nothing here detects that.
type Store struct {
	path string
	sync bool
	log  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithSync controls whether every write is followed by an fsync. Defaults to true.
func WithSync(sync bool) Option {
	return func(s *Store) { s.sync = sync }
}

// WithLogger sets the logger used for debug tracing of scans and writes.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a Store backed by the file at path. The file is not touched
// until the first operation.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path: path,
		sync: true,
		log:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the location of the store file.
func (s *Store) Path() string { return s.path }

// Exists reports whether an account with the given number is stored.
// A missing store file holds no accounts and is not an error.
func (s *Store) Exists(number int64) (bool, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("opening store: %w", err)
	}
	defer f.Close()

	found := false
	err = scan(f, func(_ int64, a model.Account) bool {
		found = a.Number == number
		return found
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Create appends a new account and returns it as stored, with the holder name
// already truncated to the field bound.
func (s *Store) Create(number int64, holder string, initialBalance float32) (model.Account, error) {
	if !finite(initialBalance) || initialBalance < 0 {
		return model.Account{}, fmt.Errorf("opening balance %v: %w", initialBalance, ErrInvalidAmount)
	}

	exists, err := s.Exists(number)
	if err != nil {
		return model.Account{}, err
	}
	if exists {
		return model.Account{}, fmt.Errorf("account %d: %w", number, ErrDuplicateAccount)
	}

	acct := model.Account{
		Number:  number,
		Holder:  model.NewHolderName(holder),
		Balance: initialBalance,
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return model.Account{}, fmt.Errorf("opening store for append: %w", err)
	}
	defer f.Close()

	n, err := f.Write(record.Encode(acct))
	if err == nil && n != record.Size {
		err = io.ErrShortWrite
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("appending account %d: %w", number, err)
	}
	if err := s.flush(f); err != nil {
		return model.Account{}, err
	}

	s.log.Debug("account created", "account", number, "holder", acct.Holder.String(), "balance", acct.Balance)
	return acct, nil
}

// Deposit adds amount to the account's balance and rewrites its record in place.
func (s *Store) Deposit(number int64, amount float32) (model.Account, error) {
	if !positive(amount) {
		return model.Account{}, fmt.Errorf("deposit %v: %w", amount, ErrInvalidAmount)
	}
	return s.update(number, func(a *model.Account) error {
		next := a.Balance + amount
		if !finite(next) {
			return fmt.Errorf("deposit %v overflows balance: %w", amount, ErrInvalidAmount)
		}
		a.Balance = next
		return nil
	})
}

// Withdraw subtracts amount from the account's balance and rewrites its record
// in place. The record is left untouched if the balance is too small.
func (s *Store) Withdraw(number int64, amount float32) (model.Account, error) {
	if !positive(amount) {
		return model.Account{}, fmt.Errorf("withdrawal %v: %w", amount, ErrInvalidAmount)
	}
	return s.update(number, func(a *model.Account) error {
		if a.Balance < amount {
			return &InsufficientFundsError{Number: a.Number, Balance: a.Balance, Amount: amount}
		}
		a.Balance -= amount
		return nil
	})
}

// Query returns the stored account with the given number.
func (s *Store) Query(number int64) (model.Account, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Account{}, ErrStoreEmpty
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("opening store: %w", err)
	}
	defer f.Close()

	var acct model.Account
	found := false
	err = scan(f, func(_ int64, a model.Account) bool {
		if a.Number != number {
			return false
		}
		acct, found = a, true
		return true
	})
	if err != nil {
		return model.Account{}, err
	}
	if !found {
		return model.Account{}, fmt.Errorf("account %d: %w", number, ErrAccountNotFound)
	}
	return acct, nil
}

// List returns every account in file order. A missing store file yields no
// accounts.
func (s *Store) List() ([]model.Account, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	defer f.Close()

	var accts []model.Account
	err = scan(f, func(_ int64, a model.Account) bool {
		accts = append(accts, a)
		return false
	})
	if err != nil {
		return nil, err
	}
	return accts, nil
}

// Len returns the number of records in the store file.
func (s *Store) Len() (int, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("stat store: %w", err)
	}
	if info.Size()%record.Size != 0 {
		return 0, fmt.Errorf("%w: store is %d bytes, not a multiple of %d", ErrCorruptRecord, info.Size(), record.Size)
	}
	return int(info.Size() / record.Size), nil
}

// update finds the account by full scan, applies fn to a copy and, if fn
// succeeds, overwrites the record at the offset it was read from. When fn
// fails nothing is written.
func (s *Store) update(number int64, fn func(*model.Account) error) (model.Account, error) {
	f, err := os.OpenFile(s.path, os.O_RDWR, 0)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Account{}, ErrStoreEmpty
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("opening store: %w", err)
	}
	defer f.Close()

	var (
		acct   model.Account
		offset int64
		found  bool
	)
	err = scan(f, func(off int64, a model.Account) bool {
		if a.Number != number {
			return false
		}
		acct, offset, found = a, off, true
		return true
	})
	if err != nil {
		return model.Account{}, err
	}
	if !found {
		return model.Account{}, fmt.Errorf("account %d: %w", number, ErrAccountNotFound)
	}

	if err := fn(&acct); err != nil {
		return model.Account{}, err
	}

	n, err := f.WriteAt(record.Encode(acct), offset)
	if err == nil && n != record.Size {
		err = io.ErrShortWrite
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("rewriting account %d at offset %d: %w", number, offset, err)
	}
	if err := s.flush(f); err != nil {
		return model.Account{}, err
	}

	s.log.Debug("account updated", "account", number, "offset", offset, "balance", acct.Balance)
	return acct, nil
}

func (s *Store) flush(f *os.File) error {
	if !s.sync {
		return nil
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing store: %w", err)
	}
	return nil
}

// scan reads records from the start of f, calling fn with each record and the
// offset it began at, until fn returns true or the file ends. A trailing
// partial record is reported as ErrCorruptRecord.
func scan(f io.ReaderAt, fn func(off int64, a model.Account) bool) error {
	buf := make([]byte, record.Size)
	var off int64
	for {
		n, err := f.ReadAt(buf, off)
		if n == 0 && errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading record at offset %d: %w", off, err)
		}
		a, err := record.Decode(buf[:n])
		if err != nil {
			return fmt.Errorf("record at offset %d: %w", off, err)
		}
		if fn(off, a) {
			return nil
		}
		off += record.Size
	}
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func positive(v float32) bool {
	return finite(v) && v > 0
}
