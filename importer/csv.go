package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ledger "github.com/Softwareologists/feed-my-ledger"
)

// CSV parses a statement with a
// "description,debit_account,credit_account,amount,currency" header into
// records. Column order follows the header, so extra columns are ignored.
func CSV(r io.Reader) ([]ledger.Record, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, name := range []string{"description", "debit_account", "credit_account", "amount", "currency"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrParse, name)
		}
	}
	var records []ledger.Record
	for i, row := range rows[1:] {
		amount, err := decimal.NewFromString(row[col["amount"]])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d amount %q", ErrParse, i+1, row[col["amount"]])
		}
		rec, err := ledger.New(
			row[col["description"]],
			ledger.Account(row[col["debit_account"]]),
			ledger.Account(row[col["credit_account"]]),
			amount,
			row[col["currency"]],
			uuid.Nil, "", nil,
		)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
