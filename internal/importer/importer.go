// Package importer opens accounts in bulk from a CSV file.
//
// Expected columns, with a header row:
//
//	account_number,holder_name,opening_balance
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/flatbank/internal/amount"
	"github.com/cleared-dev/flatbank/internal/id"
	"github.com/cleared-dev/flatbank/internal/model"
)

// Header is the CSV header row.
const Header = "account_number,holder_name,opening_balance"

const (
	numFields  = 3
	colNumber  = 0
	colHolder  = 1
	colBalance = 2
)

// Opening is one account to create.
type Opening struct {
	Row     int // 1-based line in the source file
	Number  int64
	Holder  string
	Balance float32
}

// Creator creates a single account.
type Creator interface {
	Create(number int64, holder string, initialBalance float32) (model.Account, error)
}

// Result is the outcome of applying one Opening.
type Result struct {
	Opening Opening
	Account model.Account
	Err     error
}

// ReadOpenings parses the import CSV. The header row is required and must
// match Header.
func ReadOpenings(r io.Reader) ([]Opening, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}
	if got := strings.Join(records[0], ","); got != Header {
		return nil, fmt.Errorf("unexpected header %q, want %q", got, Header)
	}

	var openings []Opening
	for i, rec := range records[1:] {
		o, err := UnmarshalOpening(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		o.Row = i + 2
		openings = append(openings, o)
	}
	return openings, nil
}

// UnmarshalOpening converts a CSV row to an Opening.
func UnmarshalOpening(record []string) (Opening, error) {
	if len(record) != numFields {
		return Opening{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	number, err := id.ParseAccountNumber(record[colNumber])
	if err != nil {
		return Opening{}, err
	}

	balance, err := amount.Parse(record[colBalance])
	if err != nil {
		return Opening{}, err
	}

	return Opening{
		Number:  number,
		Holder:  record[colHolder],
		Balance: balance,
	}, nil
}

// Apply creates each opening in order. A failed row does not stop the rows
// after it; inspect Result.Err for each.
func Apply(c Creator, openings []Opening) []Result {
	results := make([]Result, 0, len(openings))
	for _, o := range openings {
		acct, err := c.Create(o.Number, o.Holder, o.Balance)
		results = append(results, Result{Opening: o, Account: acct, Err: err})
	}
	return results
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
