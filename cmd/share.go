package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	ledger "github.com/Softwareologists/feed-my-ledger"
)

// shareCmd grants another user access to the ledger.
type shareCmd struct {
	email    string
	readOnly bool
}

func (*shareCmd) Name() string     { return "share" }
func (*shareCmd) Synopsis() string { return "share the ledger with another user" }
func (*shareCmd) Usage() string {
	return `fml share -with <email> [-read-only]

  Shares the remote sheet and records the user's permission. Write access
  implies read access.
`
}

func (c *shareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "with", "", "Email of the user to share with")
	f.BoolVar(&c.readOnly, "read-only", false, "Grant read access only")
}

func (c *shareCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	svc, _, err := newService()
	if err != nil {
		return fail(err)
	}
	shared, err := openLedger(svc)
	if err != nil {
		return fail(err)
	}
	perm := ledger.Write
	if c.readOnly {
		perm = ledger.Read
	}
	if err := shared.ShareWith(*user, c.email, perm); err != nil {
		return fail(err)
	}
	fmt.Printf("shared with %s (%s)\n", c.email, perm)
	return subcommands.ExitSuccess
}
