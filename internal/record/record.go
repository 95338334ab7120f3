// Package record converts accounts to and from the fixed-size slots of the
// store file.
//
// Layout, little-endian, matching a C struct {long; char[100]; float} on
// 64-bit platforms:
//
//	| number int64 (8) | holder [100]byte NUL-padded | balance float32 (4) |
//	0                  8                             108                   112
package record

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cleared-dev/flatbank/internal/model"
)

const (
	numberOffset  = 0
	numberSize    = 8
	holderOffset  = numberOffset + numberSize
	balanceOffset = holderOffset + model.HolderNameSize
	balanceSize   = 4
)

// Size is the encoded length of every record.
const Size = balanceOffset + balanceSize // 112 bytes

// ErrCorruptRecord is returned when a block cannot be a valid record.
var ErrCorruptRecord = errors.New("corrupt record")

// Encode returns the Size-byte encoding of a. The holder name is truncated
// by model.NewHolderName and zero-padded.
func Encode(a model.Account) []byte {
	buf := make([]byte, Size)
	EncodeTo(buf, a)
	return buf
}

// EncodeTo writes the encoding of a into dst, which must be Size bytes long.
func EncodeTo(dst []byte, a model.Account) {
	_ = dst[Size-1]
	binary.LittleEndian.PutUint64(dst[numberOffset:holderOffset], uint64(a.Number))

	name := dst[holderOffset:balanceOffset]
	n := copy(name, string(model.NewHolderName(string(a.Holder))))
	clear(name[n:])

	binary.LittleEndian.PutUint32(dst[balanceOffset:Size], math.Float32bits(a.Balance))
}

// Decode parses one record. The block must be exactly Size bytes.
func Decode(block []byte) (model.Account, error) {
	if len(block) != Size {
		return model.Account{}, fmt.Errorf("%w: block is %d bytes, want %d", ErrCorruptRecord, len(block), Size)
	}

	number := int64(binary.LittleEndian.Uint64(block[numberOffset:holderOffset]))

	name := block[holderOffset:balanceOffset]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}

	balance := math.Float32frombits(binary.LittleEndian.Uint32(block[balanceOffset:Size]))
	if math.IsNaN(float64(balance)) || math.IsInf(float64(balance), 0) || balance < 0 {
		return model.Account{}, fmt.Errorf("%w: account %d has balance %v", ErrCorruptRecord, number, balance)
	}

	return model.Account{
		Number:  number,
		Holder:  model.HolderName(name),
		Balance: balance,
	}, nil
}
