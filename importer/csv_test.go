package importer

import (
	"errors"
	"strings"
	"testing"

	ledger "github.com/Softwareologists/feed-my-ledger"
)

func TestCSV(t *testing.T) {
	input := `description,debit_account,credit_account,amount,currency
coffee,expenses:cafe,assets:cash,3.20,EUR
rent,expenses:rent,assets:bank,800,EUR
`
	records, err := CSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("CSV() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	first := records[0]
	if first.Description != "coffee" {
		t.Errorf("Description = %q, want %q", first.Description, "coffee")
	}
	if first.Postings[0].Debit != "expenses:cafe" || first.Postings[0].Credit != "assets:cash" {
		t.Errorf("posting accounts = %q/%q, want expenses:cafe/assets:cash", first.Postings[0].Debit, first.Postings[0].Credit)
	}
	if first.Postings[0].Amount.String() != "3.2" {
		t.Errorf("Amount = %s, want 3.2", first.Postings[0].Amount)
	}
	if first.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", first.Currency)
	}
}

func TestCSV_ColumnOrderFollowsHeader(t *testing.T) {
	input := `amount,currency,credit_account,debit_account,description,note
3,EUR,assets:cash,expenses:cafe,coffee,ignored
`
	records, err := CSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("CSV() error = %v", err)
	}
	if len(records) != 1 || records[0].Description != "coffee" {
		t.Fatalf("records = %+v, want one coffee record", records)
	}
	if records[0].Postings[0].Debit != "expenses:cafe" {
		t.Errorf("Debit = %q, want expenses:cafe", records[0].Postings[0].Debit)
	}
}

func TestCSV_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "Missing column",
			input:   "description,amount,currency\ncoffee,3,EUR\n",
			wantErr: ErrParse,
		},
		{
			name:    "Bad amount",
			input:   "description,debit_account,credit_account,amount,currency\ncoffee,a,b,lots,EUR\n",
			wantErr: ErrParse,
		},
		{
			name:    "Invalid record",
			input:   "description,debit_account,credit_account,amount,currency\ncoffee,same,same,3,EUR\n",
			wantErr: ledger.ErrSameAccount,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := CSV(strings.NewReader(tc.input)); !errors.Is(err, tc.wantErr) {
				t.Errorf("CSV() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCSV_Empty(t *testing.T) {
	records, err := CSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("CSV() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}
