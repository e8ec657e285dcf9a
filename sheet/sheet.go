// Package sheet defines the storage port every remote or local tabular
// backend must satisfy, the transport error taxonomy, and composable
// decorators (retry, batching+cache) that wrap any implementation of the
// port.
package sheet

import "errors"

// Service is the single seam between the ledger core and a tabular backend.
// A row is an ordered sequence of string columns. Implementations may block
// on network I/O; none of the operations carry a deadline, so callers
// needing bounded latency must impose it externally.
type Service interface {
	// CreateSheet creates a new sheet and returns its id.
	CreateSheet(title string) (string, error)
	// AppendRow appends one row to the sheet.
	AppendRow(sheetID string, values []string) error
	// AppendRows appends several rows in order.
	AppendRows(sheetID string, rows [][]string) error
	// ReadRow returns the row at the zero-based index.
	ReadRow(sheetID string, index int) ([]string, error)
	// ListRows returns every row of the sheet in order.
	ListRows(sheetID string) ([][]string, error)
	// ShareSheet grants another user access to the sheet.
	ShareSheet(sheetID, email string) error
}

// Transport errors. Backends map their native failures onto these.
var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrRowNotFound   = errors.New("row not found")
	ErrShareFailed   = errors.New("share failed")
	ErrUnknown       = errors.New("unknown spreadsheet error")
)

// TransientError is a failure worth retrying: rate limits, timeouts,
// connection resets.
type TransientError struct {
	Reason string
}

func (e *TransientError) Error() string { return "transient: " + e.Reason }

// PermanentError is a failure that will not go away by retrying.
type PermanentError struct {
	Reason string
}

func (e *PermanentError) Error() string { return "permanent: " + e.Reason }

// Transient wraps a reason into a retryable error.
func Transient(reason string) error { return &TransientError{Reason: reason} }

// Permanent wraps a reason into a non-retryable error.
func Permanent(reason string) error { return &PermanentError{Reason: reason} }

// Retryable reports whether the error is transient and safe to retry.
func Retryable(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}
