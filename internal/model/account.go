package model

import "unicode/utf8"

// HolderNameSize is the width in bytes of the holder name field on disk,
// including the terminating NUL.
const HolderNameSize = 100

// MaxHolderNameLen is the longest holder name, in bytes, that survives a
// round trip through the store.
const MaxHolderNameLen = HolderNameSize - 1

// HolderName is an account holder's name bounded to MaxHolderNameLen bytes.
// Construct it with NewHolderName so the bound always holds.
type HolderName string

// NewHolderName cuts s at the first NUL byte and then truncates it to at most
// MaxHolderNameLen bytes without splitting a UTF-8 sequence.
func NewHolderName(s string) HolderName {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			s = s[:i]
			break
		}
	}
	if len(s) <= MaxHolderNameLen {
		return HolderName(s)
	}
	cut := MaxHolderNameLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return HolderName(s[:cut])
}

// Truncated reports whether NewHolderName(s) lost any part of s.
func (n HolderName) Truncated(s string) bool {
	return string(n) != s
}

// String returns the name as plain text.
func (n HolderName) String() string {
	return string(n)
}

// Account is one bank account held in the store.
type Account struct {
	Number  int64
	Holder  HolderName
	Balance float32
}
