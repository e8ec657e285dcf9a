package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is the recurrence of a budget.
type Period int

const (
	Monthly Period = iota
	Yearly
)

// Budget caps spending on an account subtree for one period.
type Budget struct {
	Account  Account
	Amount   decimal.Decimal
	Currency string
	Period   Period
}

type monthKey struct {
	account Account
	year    int
	month   time.Month
}

type yearKey struct {
	account Account
	year    int
}

// BudgetBook holds budgets keyed by account and period.
type BudgetBook struct {
	monthly map[monthKey]Budget
	yearly  map[yearKey]Budget
}

// NewBudgetBook creates an empty budget book.
func NewBudgetBook() *BudgetBook {
	return &BudgetBook{
		monthly: make(map[monthKey]Budget),
		yearly:  make(map[yearKey]Budget),
	}
}

// Add registers a budget for the given year (and month, for monthly
// budgets). Zero year or month default to the current one.
func (b *BudgetBook) Add(budget Budget, year int, month time.Month) {
	nowY, nowM, _ := now().Date()
	if year == 0 {
		year = nowY
	}
	switch budget.Period {
	case Monthly:
		if month == 0 {
			month = nowM
		}
		b.monthly[monthKey{budget.Account, year, month}] = budget
	case Yearly:
		b.yearly[yearKey{budget.Account, year}] = budget
	}
}

// CompareMonth returns the remaining monthly budget (budget minus actual
// spending on the account subtree during the month, in the budget's
// currency). The second return is false when no budget is registered.
func (b *BudgetBook) CompareMonth(l *Ledger, rates *RateDatabase, account Account, year int, month time.Month) (decimal.Decimal, bool) {
	budget, ok := b.monthly[monthKey{account, year, month}]
	if !ok {
		return decimal.Zero, false
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return budget.Amount.Sub(accountSum(l, account, start, end, budget.Currency, rates)), true
}

// CompareYear returns the remaining yearly budget for the account subtree.
func (b *BudgetBook) CompareYear(l *Ledger, rates *RateDatabase, account Account, year int) (decimal.Decimal, bool) {
	budget, ok := b.yearly[yearKey{account, year}]
	if !ok {
		return decimal.Zero, false
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return budget.Amount.Sub(accountSum(l, account, start, end, budget.Currency, rates)), true
}

// accountSum folds postings touching the account subtree between start and
// end (inclusive) into the target currency. Like balances, postings with no
// applicable rate contribute zero.
func accountSum(l *Ledger, account Account, start, end time.Time, target string, rates *RateDatabase) decimal.Decimal {
	total := decimal.Zero
	for _, r := range l.Records() {
		d := day(r.Timestamp)
		if d.Before(start) || d.After(end) {
			continue
		}
		for _, p := range r.Postings {
			amount := p.Amount
			if r.Currency != target {
				rate, ok := rates.Rate(r.Timestamp, r.Currency, target)
				if !ok {
					continue
				}
				amount = amount.Mul(rate)
			}
			if p.Debit.StartsWith(account) {
				total = total.Add(amount)
			}
			if p.Credit.StartsWith(account) {
				total = total.Sub(amount)
			}
		}
	}
	return total
}
