package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// adjustCmd commits a correction for an earlier record. The ledger never
// edits committed records; an adjustment is the only sanctioned fix.
type adjustCmd struct {
	addCmd
	original string
}

func (*adjustCmd) Name() string     { return "adjust" }
func (*adjustCmd) Synopsis() string { return "commit a correction referencing an earlier record" }
func (*adjustCmd) Usage() string {
	return `fml adjust -of <record-id> -desc <text> -debit <account> -credit <account> -amount <n> -currency <code>

  Commits a new record whose reference id names the record it corrects.
`
}

func (c *adjustCmd) SetFlags(f *flag.FlagSet) {
	c.addCmd.SetFlags(f)
	f.StringVar(&c.original, "of", "", "Id of the record being corrected")
}

func (c *adjustCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	originalID, err := parseRecordID(c.original)
	if err != nil {
		return fail(err)
	}
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
	if err := shared.ApplyAdjustment(*user, originalID, rec); err != nil {
		return fail(err)
	}
	if err := closeSvc(); err != nil {
		return fail(fmt.Errorf("flushing pending writes: %w", err))
	}
	fmt.Printf("committed adjustment %s of %s\n", rec.ID, originalID)
	return subcommands.ExitSuccess
}
