package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/flatbank/internal/model"
	"github.com/cleared-dev/flatbank/internal/record"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "accounts.dat"), WithSync(false))
}

func readFile(t *testing.T, s *Store) []byte {
	t.Helper()
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	return data
}

func TestExists_MissingFile(t *testing.T) {
	s := newTestStore(t)

	ok, err := s.Exists(1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = os.Stat(s.Path())
	assert.ErrorIs(t, err, os.ErrNotExist, "Exists must not create the file")
}

func TestCreate(t *testing.T) {
	s := newTestStore(t)

	acct, err := s.Create(1001, "Alice", 100)
	require.NoError(t, err)
	assert.Equal(t, model.Account{Number: 1001, Holder: "Alice", Balance: 100}, acct)

	ok, err := s.Exists(1001)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, readFile(t, s), record.Size)
}

func TestCreate_ZeroOpeningBalance(t *testing.T) {
	s := newTestStore(t)
	acct, err := s.Create(5, "Zero", 0)
	require.NoError(t, err)
	assert.Zero(t, acct.Balance)
}

func TestCreate_InvalidAmount(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create(1, "Neg", -0.01)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = os.Stat(s.Path())
	assert.ErrorIs(t, err, os.ErrNotExist, "rejected create must not touch the store")
}

func TestCreate_TruncatesHolder(t *testing.T) {
	s := newTestStore(t)
	long := strings.Repeat("h", 180)

	acct, err := s.Create(7, long, 1)
	require.NoError(t, err)
	assert.Len(t, acct.Holder.String(), model.MaxHolderNameLen)

	got, err := s.Query(7)
	require.NoError(t, err)
	assert.Equal(t, acct, got)
}

func TestCreate_Duplicate(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create(1001, "Alice", 100)
	require.NoError(t, err)

	before := readFile(t, s)

	_, err = s.Create(1001, "Bob", 50)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateAccount)

	assert.Equal(t, before, readFile(t, s), "duplicate create must leave the file unchanged")

	got, err := s.Query(1001)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Holder.String())
}

func TestCreate_DuplicateAmongMany(t *testing.T) {
	s := newTestStore(t)
	for i := int64(1); i <= 20; i++ {
		_, err := s.Create(i, "holder", float32(i))
		require.NoError(t, err)
	}
	before := readFile(t, s)

	for _, n := range []int64{1, 10, 20} {
		_, err := s.Create(n, "again", 0)
		assert.ErrorIs(t, err, ErrDuplicateAccount)
	}
	assert.Equal(t, before, readFile(t, s))
}

func TestDeposit_FreshStore(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Deposit(2002, 10)
	assert.ErrorIs(t, err, ErrStoreEmpty)

	_, err = s.Withdraw(2002, 10)
	assert.ErrorIs(t, err, ErrStoreEmpty)

	_, err = s.Query(2002)
	assert.ErrorIs(t, err, ErrStoreEmpty)
}

func TestDeposit_EmptyFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), nil, 0o644))

	_, err := s.Deposit(2002, 10)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestDeposit_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Create(1, "One", 1)
	require.NoError(t, err)
	before := readFile(t, s)

	_, err = s.Deposit(2, 5)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = s.Withdraw(2, 5)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = s.Query(2)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	assert.Equal(t, before, readFile(t, s))
}

func TestDepositWithdraw_InvalidAmount(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Create(1, "One", 10)
	require.NoError(t, err)

	inf := float32(1)
	for range 200 {
		inf *= 10
	}
	for _, amt := range []float32{0, -1, inf, -inf} {
		_, err := s.Deposit(1, amt)
		assert.ErrorIs(t, err, ErrInvalidAmount, "deposit %v", amt)
		_, err = s.Withdraw(1, amt)
		assert.ErrorIs(t, err, ErrInvalidAmount, "withdraw %v", amt)
	}

	got, err := s.Query(1)
	require.NoError(t, err)
	assert.Equal(t, float32(10), got.Balance)
}

func TestDeposit_Overflow(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Create(1, "Rich", 3e38)
	require.NoError(t, err)
	before := readFile(t, s)

	_, err = s.Deposit(1, 3e38)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, before, readFile(t, s))
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Create(3003, "Carl", 20)
	require.NoError(t, err)
	before := readFile(t, s)

	_, err = s.Withdraw(3003, 25)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	var ife *InsufficientFundsError
	require.ErrorAs(t, err, &ife)
	assert.Equal(t, float32(20), ife.Balance)
	assert.Equal(t, float32(25), ife.Amount)

	assert.Equal(t, before, readFile(t, s))

	got, err := s.Query(3003)
	require.NoError(t, err)
	assert.Equal(t, float32(20), got.Balance)
}

func TestDepositWithdraw_ToZero(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Create(4004, "Dana", 50)
	require.NoError(t, err)

	acct, err := s.Deposit(4004, 25)
	require.NoError(t, err)
	assert.Equal(t, float32(75), acct.Balance)

	acct, err = s.Withdraw(4004, 75)
	require.NoError(t, err)
	assert.Equal(t, float32(0), acct.Balance)

	got, err := s.Query(4004)
	require.NoError(t, err)
	assert.Equal(t, float32(0), got.Balance)
	assert.Equal(t, "Dana", got.Holder.String())
}

func TestOffsetStability(t *testing.T) {
	s := newTestStore(t)

	const n = 12
	names := make([]string, n)
	for i := range n {
		names[i] = strings.Repeat(string(rune('A'+i)), i+1)
		_, err := s.Create(int64(100+i), names[i], float32(i))
		require.NoError(t, err)
	}
	before := readFile(t, s)

	for i := n - 1; i >= 0; i-- {
		_, err := s.Deposit(int64(100+i), 1000)
		require.NoError(t, err)
	}
	after := readFile(t, s)
	require.Len(t, after, len(before), "updates must not change file length")

	for i := range n {
		slot := after[i*record.Size : (i+1)*record.Size]
		a, err := record.Decode(slot)
		require.NoError(t, err)
		assert.Equal(t, int64(100+i), a.Number)
		assert.Equal(t, names[i], a.Holder.String())
		assert.Equal(t, float32(i)+1000, a.Balance)

		// Number and name bytes are untouched; only the balance changed.
		orig := before[i*record.Size : (i+1)*record.Size]
		assert.True(t, bytes.Equal(orig[:record.Size-4], slot[:record.Size-4]), "slot %d prefix changed", i)
	}
}

func TestUpdate_OnlyTouchesMatchedSlot(t *testing.T) {
	s := newTestStore(t)
	for i := int64(1); i <= 3; i++ {
		_, err := s.Create(i, "acct", 10)
		require.NoError(t, err)
	}
	before := readFile(t, s)

	_, err := s.Withdraw(2, 4)
	require.NoError(t, err)
	after := readFile(t, s)

	assert.Equal(t, before[:record.Size], after[:record.Size])
	assert.NotEqual(t, before[record.Size:2*record.Size], after[record.Size:2*record.Size])
	assert.Equal(t, before[2*record.Size:], after[2*record.Size:])
}

func TestBalanceNeverNegative(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Create(9, "Nine", 10)
	require.NoError(t, err)

	ops := []struct {
		deposit bool
		amount  float32
	}{
		{false, 3}, {false, 8}, {true, 1}, {false, 8}, {false, 0.5}, {true, 2.25}, {false, 2.25}, {false, 0.01},
	}
	for _, op := range ops {
		if op.deposit {
			_, err = s.Deposit(9, op.amount)
			require.NoError(t, err)
		} else {
			before, qerr := s.Query(9)
			require.NoError(t, qerr)
			_, err = s.Withdraw(9, op.amount)
			if op.amount > before.Balance {
				assert.ErrorIs(t, err, ErrInsufficientFunds)
			} else {
				assert.NoError(t, err)
			}
		}
		got, qerr := s.Query(9)
		require.NoError(t, qerr)
		assert.GreaterOrEqual(t, got.Balance, float32(0))
	}
}

func TestList(t *testing.T) {
	s := newTestStore(t)

	accts, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, accts)

	_, err = s.Create(2, "Two", 2)
	require.NoError(t, err)
	_, err = s.Create(1, "One", 1)
	require.NoError(t, err)

	accts, err = s.List()
	require.NoError(t, err)
	require.Len(t, accts, 2)
	assert.Equal(t, int64(2), accts[0].Number, "file order, not sorted")
	assert.Equal(t, int64(1), accts[1].Number)
}

func TestCorruptTail(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Create(1, "One", 1)
	require.NoError(t, err)

	f, err := os.OpenFile(s.Path(), os.O_WRONLY|os.O_APPEND, 0)
	require.NoError(t, err)
	_, err = f.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = s.Len()
	assert.ErrorIs(t, err, ErrCorruptRecord)

	_, err = s.Exists(2)
	assert.ErrorIs(t, err, ErrCorruptRecord)

	_, err = s.Create(2, "Two", 2)
	assert.ErrorIs(t, err, ErrCorruptRecord)

	_, err = s.Deposit(2, 1)
	assert.ErrorIs(t, err, ErrCorruptRecord)

	// Account 1 precedes the torn tail, so the scan stops before reaching it.
	got, err := s.Query(1)
	require.NoError(t, err)
	assert.Equal(t, float32(1), got.Balance)
}

func TestReadsCStructLayout(t *testing.T) {
	// A record as written by a C program storing struct {long; char[100]; float}.
	raw := make([]byte, record.Size)
	raw[0], raw[1] = 0xE9, 0x03 // 1001
	copy(raw[8:], "Alice\x00garbage after the terminator")
	raw[108], raw[109], raw[110], raw[111] = 0x00, 0x00, 0xC8, 0x42 // 100.0

	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), raw, 0o644))

	got, err := s.Query(1001)
	require.NoError(t, err)
	assert.Equal(t, model.Account{Number: 1001, Holder: "Alice", Balance: 100}, got)
}

func TestWithSyncEnabled(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "synced.dat"))
	_, err := s.Create(1, "One", 1)
	require.NoError(t, err)
	acct, err := s.Deposit(1, 1)
	require.NoError(t, err)
	assert.Equal(t, float32(2), acct.Balance)
}
