package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ledger "github.com/Softwareologists/feed-my-ledger"
)

// addCmd commits a new record to the shared ledger.
type addCmd struct {
	description string
	debit       string
	credit      string
	amount      string
	currency    string
	external    string
	tags        string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "commit a new double-entry record" }
func (*addCmd) Usage() string {
	return `fml add -desc <text> -debit <account> -credit <account> -amount <n> -currency <code> [-ref <id>] [-tags a,b]

  Validates the record, appends it to the remote sheet with its row hash,
  and reflects it locally.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.description, "desc", "", "Record description")
	f.StringVar(&c.debit, "debit", "", "Debit account (colon-delimited path)")
	f.StringVar(&c.credit, "credit", "", "Credit account")
	f.StringVar(&c.amount, "amount", "", "Posting amount (decimal)")
	f.StringVar(&c.currency, "currency", "USD", "ISO currency code")
	f.StringVar(&c.external, "ext", "", "External reference, e.g. an invoice number")
	f.StringVar(&c.tags, "tags", "", "Comma-separated tags")
}

func (c *addCmd) record() (ledger.Record, error) {
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		return ledger.Record{}, fmt.Errorf("invalid amount %q", c.amount)
	}
	var tags []string
	if c.tags != "" {
		tags = strings.Split(c.tags, ",")
	}
	return ledger.New(c.description, ledger.Account(c.debit), ledger.Account(c.credit), amount, c.currency, uuid.Nil, c.external, tags)
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	rec, err := c.record()
	if err != nil {
		return fail(err)
	}
	svc, closeSvc, err := newService()
	if err != nil {
		return fail(err)
	}
	shared, err := openLedger(svc)
	if err != nil {
		return fail(err)
	}
	if err := shared.Commit(*user, rec); err != nil {
		return fail(err)
	}
	if err := closeSvc(); err != nil {
		return fail(fmt.Errorf("flushing pending writes: %w", err))
	}
	fmt.Printf("committed %s\n", rec.ID)
	return subcommands.ExitSuccess
}
