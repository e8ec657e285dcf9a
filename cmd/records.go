package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	ledger "github.com/Softwareologists/feed-my-ledger"
)

// recordsCmd lists records, optionally filtered by a query expression.
type recordsCmd struct {
	query string
}

func (*recordsCmd) Name() string     { return "records" }
func (*recordsCmd) Synopsis() string { return "list ledger records" }
func (*recordsCmd) Usage() string {
	return `fml records [-q "account:cash tag:food date:2024-01-01..2024-01-31"]

  Lists records in commit order with their cleared status.
`
}

func (c *recordsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "Filter query (account:, tag:, start:, end:, date:a..b)")
}

func (c *recordsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	query, err := ledger.ParseQuery(c.query)
	if err != nil {
		return fail(err)
	}
	svc, _, err := newService()
	if err != nil {
		return fail(err)
	}
	shared, err := openLedger(svc)
	if err != nil {
		return fail(err)
	}
	records, err := shared.Records(*user)
	if err != nil {
		return fail(err)
	}
	for _, r := range records {
		if !query.Matches(r) {
			continue
		}
		status := " "
		if r.Cleared {
			status = "*"
		}
		first := r.Postings[0]
		line := fmt.Sprintf("%s %s %s  %s -> %s  %s %s  %s",
			status, r.ID, r.Timestamp.Format("2006-01-02"),
			first.Credit, first.Debit, first.Amount, r.Currency, r.Description)
		if len(r.Tags) > 0 {
			line += "  [" + strings.Join(r.Tags, ",") + "]"
		}
		fmt.Println(line)
	}
	return subcommands.ExitSuccess
}
