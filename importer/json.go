package importer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ledger "github.com/Softwareologists/feed-my-ledger"
)

// jsonRecord is the interchange shape: the first posting is inline, extra
// postings travel in splits, matching the row wire format field for field.
type jsonRecord struct {
	Description            string           `json:"description"`
	DebitAccount           ledger.Account   `json:"debit_account"`
	CreditAccount          ledger.Account   `json:"credit_account"`
	Amount                 decimal.Decimal  `json:"amount"`
	Currency               string           `json:"currency"`
	ExternalReference      string           `json:"external_reference,omitempty"`
	Tags                   []string         `json:"tags,omitempty"`
	Splits                 []ledger.Posting `json:"splits,omitempty"`
	TransactionDescription string           `json:"transaction_description,omitempty"`
}

// JSON parses an array of record objects. A record without a transaction
// description inherits its description, so the original statement line
// survives even when the description is later normalized.
func JSON(r io.Reader) ([]ledger.Record, error) {
	var raw []jsonRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return buildRecords(raw)
}

// JSONWithCurrency parses like JSON but forces every record into the given
// currency, for statements that omit or misreport it.
func JSONWithCurrency(r io.Reader, currency string) ([]ledger.Record, error) {
	var raw []jsonRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	for i := range raw {
		raw[i].Currency = currency
	}
	return buildRecords(raw)
}

func buildRecords(raw []jsonRecord) ([]ledger.Record, error) {
	records := make([]ledger.Record, 0, len(raw))
	for i, jr := range raw {
		postings := append([]ledger.Posting{{Debit: jr.DebitAccount, Credit: jr.CreditAccount, Amount: jr.Amount}}, jr.Splits...)
		rec, err := ledger.NewSplit(jr.Description, postings, jr.Currency, uuid.Nil, jr.ExternalReference, jr.Tags)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rec.TransactionDescription = jr.TransactionDescription
		if rec.TransactionDescription == "" {
			rec.TransactionDescription = jr.Description
		}
		records = append(records, rec)
	}
	return records, nil
}

// ExportJSON writes records back out in the interchange shape.
func ExportJSON(w io.Writer, records []ledger.Record) error {
	out := make([]jsonRecord, len(records))
	for i, r := range records {
		first := r.Postings[0]
		out[i] = jsonRecord{
			Description:            r.Description,
			DebitAccount:           first.Debit,
			CreditAccount:          first.Credit,
			Amount:                 first.Amount,
			Currency:               r.Currency,
			ExternalReference:      r.ExternalReference,
			Tags:                   r.Tags,
			Splits:                 r.Postings[1:],
			TransactionDescription: r.TransactionDescription,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
