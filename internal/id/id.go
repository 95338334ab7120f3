package id

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAccountNumber parses a decimal account number such as "1001".
// Surrounding whitespace is ignored; signs and other bases are rejected.
func ParseAccountNumber(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty account number")
	}
	if s[0] == '+' || s[0] == '-' {
		return 0, fmt.Errorf("invalid account number %q: must be unsigned", s)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid account number %q: %w", s, err)
	}
	return n, nil
}

// FormatAccountNumber returns the decimal form accepted by ParseAccountNumber.
func FormatAccountNumber(n int64) string {
	return strconv.FormatInt(n, 10)
}
