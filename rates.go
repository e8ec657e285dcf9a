package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type ratePair struct{ from, to string }

// RateDatabase stores currency conversion rates indexed by day. Looking up a
// rate returns the most recent rate at or before the requested day, so sparse
// daily data still converts later postings.
type RateDatabase struct {
	days  []time.Time // sorted ascending, normalized to midnight UTC
	rates map[time.Time]map[ratePair]decimal.Decimal
}

// NewRateDatabase creates an empty rate database.
func NewRateDatabase() *RateDatabase {
	return &RateDatabase{rates: make(map[time.Time]map[ratePair]decimal.Decimal)}
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddRate records the conversion rate from one currency to another on the
// given day. Adding a rate twice for the same day and pair overwrites it.
func (db *RateDatabase) AddRate(on time.Time, from, to string, rate decimal.Decimal) {
	d := day(on)
	if _, ok := db.rates[d]; !ok {
		db.rates[d] = make(map[ratePair]decimal.Decimal)
		i := sort.Search(len(db.days), func(i int) bool { return db.days[i].After(d) })
		db.days = append(db.days, time.Time{})
		copy(db.days[i+1:], db.days[i:])
		db.days[i] = d
	}
	db.rates[d][ratePair{from, to}] = rate
}

// Rate returns the last known rate for the pair at or before the given day,
// or false when no such rate exists.
func (db *RateDatabase) Rate(on time.Time, from, to string) (decimal.Decimal, bool) {
	d := day(on)
	pair := ratePair{from, to}
	// Walk days backwards from the latest day not after d.
	i := sort.Search(len(db.days), func(i int) bool { return db.days[i].After(d) })
	for i--; i >= 0; i-- {
		if rate, ok := db.rates[db.days[i]][pair]; ok {
			return rate, true
		}
	}
	return decimal.Zero, false
}

const rateDateFormat = "2006-01-02"

// ReadRates loads a rate database from CSV with a "date,from,to,rate" header.
func ReadRates(r io.Reader) (*RateDatabase, error) {
	db := NewRateDatabase()
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rates: %w", err)
	}
	for i, row := range rows {
		if i == 0 || len(row) != 4 {
			continue
		}
		on, err := time.Parse(rateDateFormat, row[0])
		if err != nil {
			return nil, fmt.Errorf("rate date %q: %w", row[0], err)
		}
		rate, err := decimal.NewFromString(row[3])
		if err != nil {
			return nil, fmt.Errorf("rate value %q: %w", row[3], err)
		}
		db.AddRate(on, row[1], row[2], rate)
	}
	return db, nil
}

// WriteRates writes the database as CSV in date order, suitable for ReadRates.
func (db *RateDatabase) WriteRates(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "from", "to", "rate"}); err != nil {
		return err
	}
	for _, d := range db.days {
		pairs := make([]ratePair, 0, len(db.rates[d]))
		for p := range db.rates[d] {
			pairs = append(pairs, p)
		}
		sort.Slice(pairs, func(i, j int) bool {
			if pairs[i].from != pairs[j].from {
				return pairs[i].from < pairs[j].from
			}
			return pairs[i].to < pairs[j].to
		})
		for _, p := range pairs {
			row := []string{d.Format(rateDateFormat), p.from, p.to, db.rates[d][p].String()}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
