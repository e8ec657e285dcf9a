// Package importer turns bank statements in common interchange formats
// (CSV, JSON, QIF) into ledger records, and filters out records already
// present on a remote sheet using their row hashes.
package importer

import (
	"errors"

	"github.com/Softwareologists/feed-my-ledger/sheet"

	ledger "github.com/Softwareologists/feed-my-ledger"
)

// ErrParse wraps statement syntax problems; record validation failures
// propagate the ledger's own errors.
var ErrParse = errors.New("statement parse error")

// FilterNew drops records whose hashed row already exists on the sheet and
// returns the remaining rows, hashed and ready to append. Existing rows are
// identified by their trailing hash column; the first row is assumed to be a
// header and skipped. Because the hash covers every column salted with the
// signature, a re-imported statement produces identical hashes and its rows
// are filtered out — this is the dedup layer that makes retried or repeated
// imports safe.
func FilterNew(svc sheet.Service, sheetID string, records []ledger.Record, signature string) ([][]string, error) {
	existing, err := svc.ListRows(sheetID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for i, row := range existing {
		if i == 0 || len(row) == 0 {
			continue
		}
		seen[row[len(row)-1]] = true
	}
	var rows [][]string
	for _, r := range records {
		row := r.RowHashed(signature)
		if seen[row[len(row)-1]] {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
