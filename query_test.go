package ledger

import (
	"reflect"
	"testing"
	"time"
)

func TestParseQuery(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    Query
		wantErr bool
	}{
		{
			name:  "Empty string",
			input: "",
			want:  Query{},
		},
		{
			name:  "Accounts and tags",
			input: "account:expenses:food tag:weekly tag:cash",
			want: Query{
				Accounts: []Account{"expenses:food"},
				Tags:     []string{"weekly", "cash"},
			},
		},
		{
			name:  "Start and end",
			input: "start:2026-03-01 end:2026-03-31",
			want: Query{
				Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name:  "Date range shorthand",
			input: "date:2026-03-01..2026-03-31",
			want: Query{
				Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name:  "Open-ended date range",
			input: "date:2026-03-01..",
			want: Query{
				Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name:    "Unknown token",
			input:   "amount:10",
			wantErr: true,
		},
		{
			name:    "Bad date",
			input:   "start:tomorrow",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseQuery(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseQuery(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if err == nil && !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseQuery(%q) = %+v, want %+v", tc.input, got, tc.want)
			}
		})
	}
}

func TestQuery_Filter(t *testing.T) {
	l := NewLedger()

	coffee := mustRecord(t, "coffee", "expenses:cafe", "assets:cash", 3, "EUR")
	coffee.Timestamp = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	coffee.Tags = []string{"daily"}
	l.Commit(coffee)

	rent := mustRecord(t, "rent", "expenses:rent", "assets:bank", 800, "EUR")
	rent.Timestamp = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	l.Commit(rent)

	april := mustRecord(t, "april coffee", "expenses:cafe", "assets:cash", 3, "EUR")
	april.Timestamp = time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	l.Commit(april)

	ids := func(records []Record) []string {
		var out []string
		for _, r := range records {
			out = append(out, r.Description)
		}
		return out
	}

	testCases := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "Everything",
			query: "",
			want:  []string{"coffee", "rent", "april coffee"},
		},
		{
			name:  "By account",
			query: "account:expenses:cafe",
			want:  []string{"coffee", "april coffee"},
		},
		{
			name:  "By tag",
			query: "tag:daily",
			want:  []string{"coffee"},
		},
		{
			name:  "By date range",
			query: "date:2026-03-01..2026-03-31",
			want:  []string{"coffee", "rent"},
		},
		{
			name:  "Account and date combined",
			query: "account:expenses:cafe start:2026-04-01",
			want:  []string{"april coffee"},
		},
		{
			name:  "No match",
			query: "account:liabilities:loan",
			want:  nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := ParseQuery(tc.query)
			if err != nil {
				t.Fatalf("ParseQuery(%q) error = %v", tc.query, err)
			}
			if got := ids(q.Filter(l)); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Filter(%q) = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}
