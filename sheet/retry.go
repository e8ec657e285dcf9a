package sheet

import "time"

// Retrying decorates a Service with bounded retries and exponential backoff.
// Only transient errors are retried; anything else is returned immediately.
// After MaxRetries failed retries the last error is returned unchanged.
//
// Retried operations are re-issued as-is, so a retry after a write that
// succeeded remotely but failed to report may duplicate the write. That risk
// is accepted here and mitigated by the row-hash dedup at the import layer,
// not by this decorator.
type Retrying struct {
	inner      Service
	maxRetries int
	baseDelay  time.Duration
}

// NewRetrying wraps inner. maxRetries is the number of retries after the
// first attempt; baseDelay is the sleep before the first retry and doubles
// after each one (no jitter).
func NewRetrying(inner Service, maxRetries int, baseDelay time.Duration) *Retrying {
	return &Retrying{inner: inner, maxRetries: maxRetries, baseDelay: baseDelay}
}

func withRetry[T any](r *Retrying, op func() (T, error)) (T, error) {
	for attempt := 0; ; attempt++ {
		v, err := op()
		if err == nil || !Retryable(err) || attempt >= r.maxRetries {
			return v, err
		}
		time.Sleep(r.baseDelay << attempt)
	}
}

func (r *Retrying) CreateSheet(title string) (string, error) {
	return withRetry(r, func() (string, error) { return r.inner.CreateSheet(title) })
}

func (r *Retrying) AppendRow(sheetID string, values []string) error {
	_, err := withRetry(r, func() (struct{}, error) {
		return struct{}{}, r.inner.AppendRow(sheetID, values)
	})
	return err
}

func (r *Retrying) AppendRows(sheetID string, rows [][]string) error {
	_, err := withRetry(r, func() (struct{}, error) {
		return struct{}{}, r.inner.AppendRows(sheetID, rows)
	})
	return err
}

func (r *Retrying) ReadRow(sheetID string, index int) ([]string, error) {
	return withRetry(r, func() ([]string, error) { return r.inner.ReadRow(sheetID, index) })
}

func (r *Retrying) ListRows(sheetID string) ([][]string, error) {
	return withRetry(r, func() ([][]string, error) { return r.inner.ListRows(sheetID) })
}

func (r *Retrying) ShareSheet(sheetID, email string) error {
	_, err := withRetry(r, func() (struct{}, error) {
		return struct{}{}, r.inner.ShareSheet(sheetID, email)
	})
	return err
}

var _ Service = (*Retrying)(nil)
