package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Validation errors returned by the Record constructors.
var (
	ErrSameAccount         = errors.New("posting debits and credits the same account")
	ErrNonPositiveAmount   = errors.New("posting amount must be positive")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrEmptyPostings       = errors.New("record needs at least one posting")
)

// now is the clock used to stamp new records. It is a variable so tests can
// commit records with deterministic timestamps. Truncated to the second so
// the RFC3339 wire format round-trips exactly.
var now = func() time.Time { return time.Now().UTC().Truncate(time.Second) }

// Posting moves an amount from a credit account to a debit account. The
// amount is denominated in the owning record's currency.
type Posting struct {
	Debit  Account         `json:"debit_account"`
	Credit Account         `json:"credit_account"`
	Amount decimal.Decimal `json:"amount"`
}

func (p Posting) validate() error {
	if p.Debit == p.Credit {
		return ErrSameAccount
	}
	if !p.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return nil
}

// Record is a single immutable double-entry transaction. Its ID and
// Timestamp are assigned once at construction and never change; committed
// records are corrected by adjustments, never edited.
type Record struct {
	ID          uuid.UUID
	Timestamp   time.Time
	Description string
	Currency    string
	// Postings holds the first posting plus any additional splits.
	Postings               []Posting
	ReferenceID            uuid.UUID // uuid.Nil when the record adjusts nothing
	ExternalReference      string
	Tags                   []string
	TransactionDescription string
	// Cleared is the reconciliation status merged in by SharedLedger when
	// records are read back. It is not part of the record's row encoding;
	// durable clearing state travels in separate status rows.
	Cleared bool
}

// New creates a record with a single posting. It validates the posting and
// the currency, then assigns a fresh random id and the current UTC time.
func New(description string, debit, credit Account, amount decimal.Decimal, currency string, referenceID uuid.UUID, externalReference string, tags []string) (Record, error) {
	return NewSplit(description, []Posting{{Debit: debit, Credit: credit, Amount: amount}}, currency, referenceID, externalReference, tags)
}

// NewSplit creates a record split across several postings. Every posting must
// debit and credit different accounts with a positive amount, and currency
// must be a known ISO code.
func NewSplit(description string, postings []Posting, currency string, referenceID uuid.UUID, externalReference string, tags []string) (Record, error) {
	if len(postings) == 0 {
		return Record{}, ErrEmptyPostings
	}
	for _, p := range postings {
		if err := p.validate(); err != nil {
			return Record{}, err
		}
	}
	if money.GetCurrency(currency) == nil {
		return Record{}, fmt.Errorf("%w %q", ErrUnsupportedCurrency, currency)
	}
	return Record{
		ID:                uuid.New(),
		Timestamp:         now(),
		Description:       description,
		Currency:          currency,
		Postings:          append([]Posting(nil), postings...),
		ReferenceID:       referenceID,
		ExternalReference: externalReference,
		Tags:              append([]string(nil), tags...),
	}, nil
}

// HasReference reports whether the record adjusts an earlier record.
func (r Record) HasReference() bool { return r.ReferenceID != uuid.Nil }

// recordColumns is the number of columns in the row encoding, excluding the
// optional trailing hash.
const recordColumns = 12

// Row encodes the record as the ordered string columns of the wire format:
// id, timestamp, description, debit, credit, amount, currency, reference id,
// external reference, tags, splits, transaction description.
func (r Record) Row() []string {
	var reference string
	if r.HasReference() {
		reference = r.ReferenceID.String()
	}
	first := r.Postings[0]
	var splits string
	if len(r.Postings) > 1 {
		b, err := json.Marshal(r.Postings[1:])
		if err != nil {
			// Postings hold only strings and decimals; marshaling cannot fail.
			panic(err)
		}
		splits = string(b)
	}
	return []string{
		r.ID.String(),
		r.Timestamp.UTC().Format(time.RFC3339),
		r.Description,
		first.Debit.String(),
		first.Credit.String(),
		first.Amount.String(),
		r.Currency,
		reference,
		r.ExternalReference,
		strings.Join(r.Tags, ","),
		splits,
		r.TransactionDescription,
	}
}

// RowHashed encodes the record as Row does and appends the hex SHA-256 hash
// of the columns salted with signature.
func (r Record) RowHashed(signature string) []string {
	row := r.Row()
	return append(row, HashRow(row, signature))
}

// RecordFromRow decodes a wire-format row back into a Record. A trailing
// hash column, if present, is ignored.
func RecordFromRow(cols []string) (Record, error) {
	if len(cols) < recordColumns {
		return Record{}, fmt.Errorf("record row needs %d columns, got %d", recordColumns, len(cols))
	}
	id, err := uuid.Parse(cols[0])
	if err != nil {
		return Record{}, fmt.Errorf("record id: %w", err)
	}
	ts, err := time.Parse(time.RFC3339, cols[1])
	if err != nil {
		return Record{}, fmt.Errorf("record timestamp: %w", err)
	}
	amount, err := decimal.NewFromString(cols[5])
	if err != nil {
		return Record{}, fmt.Errorf("record amount: %w", err)
	}
	var reference uuid.UUID
	if cols[7] != "" {
		if reference, err = uuid.Parse(cols[7]); err != nil {
			return Record{}, fmt.Errorf("record reference id: %w", err)
		}
	}
	var tags []string
	if cols[9] != "" {
		tags = strings.Split(cols[9], ",")
	}
	postings := []Posting{{Debit: Account(cols[3]), Credit: Account(cols[4]), Amount: amount}}
	if cols[10] != "" {
		var splits []Posting
		if err := json.Unmarshal([]byte(cols[10]), &splits); err != nil {
			return Record{}, fmt.Errorf("record splits: %w", err)
		}
		postings = append(postings, splits...)
	}
	return Record{
		ID:                     id,
		Timestamp:              ts.UTC(),
		Description:            cols[2],
		Currency:               cols[6],
		Postings:               postings,
		ReferenceID:            reference,
		ExternalReference:      cols[8],
		Tags:                   tags,
		TransactionDescription: cols[11],
	}, nil
}
