// Package amount converts between user-entered money strings and the
// single-precision balances kept in the store.
package amount

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places accepted on input and shown on output.
const Places = 2

var maxAmount = decimal.NewFromFloat32(math.MaxFloat32)

// Parse reads an amount such as "100", "25.5" or "0.01". The sign is kept so
// callers and the store decide what counts as valid; more than two decimal
// places or a magnitude beyond float32 range is rejected.
func Parse(s string) (float32, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if !d.Equal(d.Truncate(Places)) {
		return 0, fmt.Errorf("amount %q has more than %d decimal places", s, Places)
	}
	if d.Abs().GreaterThan(maxAmount) {
		return 0, fmt.Errorf("amount %q is out of range", s)
	}
	f, _ := d.Float64()
	return float32(f), nil
}

// Format renders a balance with two decimal places, e.g. "75.00".
func Format(v float32) string {
	return decimal.NewFromFloat32(v).StringFixed(Places)
}
