package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// clearCmd flips the reconciliation status of a record.
type clearCmd struct {
	id      string
	pending bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "mark a record cleared (or pending again)" }
func (*clearCmd) Usage() string {
	return `fml clear -id <record-id> [-pending]

  Appends a status row to the remote sheet; on replay the latest status row
  for a record wins.
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Record id")
	f.BoolVar(&c.pending, "pending", false, "Mark pending instead of cleared")
}

func (c *clearCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	id, err := parseRecordID(c.id)
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
	if err := shared.SetCleared(*user, id, !c.pending); err != nil {
		return fail(err)
	}
	if err := closeSvc(); err != nil {
		return fail(fmt.Errorf("flushing pending writes: %w", err))
	}
	return subcommands.ExitSuccess
}
