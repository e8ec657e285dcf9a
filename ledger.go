package ledger

import (
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger lookup and mutation errors.
var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrImmutableRecord = errors.New("committed records are immutable")
)

// Ledger is an append-only ordered collection of records. It never shrinks
// and never mutates an entry once committed; corrections happen by
// committing adjustment records. Ledger itself is not safe for concurrent
// use — SharedLedger owns one and guards it.
type Ledger struct {
	records []Record
	index   map[uuid.UUID]int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{index: make(map[uuid.UUID]int)}
}

// Commit appends a record unconditionally.
func (l *Ledger) Commit(r Record) {
	if l.index == nil {
		l.index = make(map[uuid.UUID]int)
	}
	l.index[r.ID] = len(l.records)
	l.records = append(l.records, r)
}

// Record returns the committed record with the given id.
func (l *Ledger) Record(id uuid.UUID) (Record, error) {
	i, ok := l.index[id]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return l.records[i], nil
}

// Records returns a copy of all committed records in commit order.
func (l *Ledger) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of committed records.
func (l *Ledger) Len() int { return len(l.records) }

// ModifyRecord always fails: committed records are immutable. The sanctioned
// correction path is ApplyAdjustment.
func (l *Ledger) ModifyRecord(id uuid.UUID, replacement Record) error {
	return ErrImmutableRecord
}

// DeleteRecord always fails: the ledger is append-only.
func (l *Ledger) DeleteRecord(id uuid.UUID) error {
	return ErrImmutableRecord
}

// ApplyAdjustment commits adjustment as a correction of the record with id
// originalID. The adjustment's reference id is set to originalID, chaining
// corrections into a forest: an adjustment can itself be adjusted later.
func (l *Ledger) ApplyAdjustment(originalID uuid.UUID, adjustment Record) error {
	if _, ok := l.index[originalID]; !ok {
		return ErrRecordNotFound
	}
	adjustment.ReferenceID = originalID
	l.Commit(adjustment)
	return nil
}

// AdjustmentHistory returns every record that directly or transitively
// adjusts the record with the given id, sorted ascending by timestamp.
func (l *Ledger) AdjustmentHistory(id uuid.UUID) []Record {
	ids := map[uuid.UUID]bool{id: true}
	var history []Record
	// Records are in commit order and an adjustment always references an
	// already-committed record, so one forward pass finds all descendants.
	for _, r := range l.records {
		if r.HasReference() && ids[r.ReferenceID] {
			ids[r.ID] = true
			history = append(history, r)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp.Before(history[j].Timestamp)
	})
	return history
}

// AccountBalance sums, over every posting of every record, the amounts
// debited to account minus the amounts credited to it, converted into the
// target currency. Conversion uses the last rate known at or before the
// record's date; a posting whose currency has no applicable rate contributes
// zero rather than failing the whole balance.
func (l *Ledger) AccountBalance(account Account, target string, rates *RateDatabase) decimal.Decimal {
	return l.balance(func(a Account) bool { return a == account }, target, rates)
}

// AccountTreeBalance is AccountBalance rolled up over the whole subtree:
// postings on any account whose path starts with account are included.
func (l *Ledger) AccountTreeBalance(account Account, target string, rates *RateDatabase) decimal.Decimal {
	return l.balance(func(a Account) bool { return a.StartsWith(account) }, target, rates)
}

func (l *Ledger) balance(match func(Account) bool, target string, rates *RateDatabase) decimal.Decimal {
	total := decimal.Zero
	for _, r := range l.records {
		for _, p := range r.Postings {
			amount := p.Amount
			if r.Currency != target {
				rate, ok := rates.Rate(r.Timestamp, r.Currency, target)
				if !ok {
					continue
				}
				amount = amount.Mul(rate)
			}
			if match(p.Debit) {
				total = total.Add(amount)
			}
			if match(p.Credit) {
				total = total.Sub(amount)
			}
		}
	}
	return total
}
