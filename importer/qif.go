package importer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ledger "github.com/Softwareologists/feed-my-ledger"
)

// QIF parses the Quicken Interchange Format: line-oriented entries where
// the first character is the field code (T amount, P payee, M memo) and "^"
// terminates a transaction. Only transaction sections (Bank, Cash, CCard,
// Oth A, Oth L) are read; amounts are assumed USD since QIF carries no
// currency. Negative amounts debit expenses against the bank account,
// positive ones debit the bank against income, mirroring how a bank
// statement reads.
func QIF(r io.Reader) ([]ledger.Record, error) {
	var (
		records     []ledger.Record
		amount      decimal.Decimal
		hasAmount   bool
		payee, memo string
		inSection   = true
	)
	flush := func() error {
		defer func() { amount, hasAmount, payee, memo = decimal.Zero, false, "", "" }()
		if !inSection || !hasAmount {
			return nil
		}
		description := memo
		if description == "" {
			description = payee
		}
		debit, credit := ledger.Account("bank"), ledger.Account("income")
		if amount.IsNegative() {
			debit, credit = "expenses", "bank"
		}
		rec, err := ledger.New(description, debit, credit, amount.Abs(), "USD", uuid.Nil, "", nil)
		if err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "!Type:") {
			section := strings.TrimPrefix(line, "!Type:")
			switch section {
			case "Bank", "Cash", "CCard", "Oth A", "Oth L":
				inSection = true
			default:
				inSection = false
			}
			continue
		}
		code, rest := line[0], line[1:]
		switch code {
		case '^':
			if err := flush(); err != nil {
				return nil, err
			}
		case 'T', 'U':
			// Quicken writes thousands separators.
			a, err := decimal.NewFromString(strings.ReplaceAll(rest, ",", ""))
			if err != nil {
				return nil, fmt.Errorf("%w: amount %q", ErrParse, rest)
			}
			amount, hasAmount = a, true
		case 'P':
			payee = rest
		case 'M':
			memo = rest
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return records, nil
}
