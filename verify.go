package ledger

import (
	"github.com/Softwareologists/feed-my-ledger/sheet"
)

// VerifySheet recomputes the hash of every data row in the remote sheet and
// returns the zero-based indices of rows whose stored trailing hash does not
// match. Rows too short to carry a hash and status rows are skipped. Forging
// a matching hash requires the signature, so a mismatch means the row was
// edited or corrupted after it was written.
func VerifySheet(svc sheet.Service, sheetID, signature string) ([]int, error) {
	rows, err := svc.ListRows(sheetID)
	if err != nil {
		return nil, err
	}
	var mismatched []int
	for i, row := range rows {
		if len(row) < 2 || row[0] == statusMarker {
			continue
		}
		stored := row[len(row)-1]
		if HashRow(row[:len(row)-1], signature) != stored {
			mismatched = append(mismatched, i)
		}
	}
	return mismatched, nil
}
