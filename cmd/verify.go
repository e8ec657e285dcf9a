package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	ledger "github.com/Softwareologists/feed-my-ledger"
)

// verifyCmd recomputes every row hash on the remote sheet and reports rows
// that were edited or corrupted after being written.
type verifyCmd struct{}

func (*verifyCmd) Name() string     { return "verify" }
func (*verifyCmd) Synopsis() string { return "detect out-of-band edits of the remote sheet" }
func (*verifyCmd) Usage() string {
	return `fml verify

  Exits non-zero when any row's stored hash does not match its recomputed
  value, printing the zero-based row indices.
`
}

func (*verifyCmd) SetFlags(f *flag.FlagSet) {}

func (c *verifyCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	sig, err := signature()
	if err != nil {
		return fail(err)
	}
	svc, _, err := newService()
	if err != nil {
		return fail(err)
	}
	if *sheetID == "" {
		return fail(fmt.Errorf("missing -sheet (or FML_SHEET_ID)"))
	}
	mismatched, err := ledger.VerifySheet(svc, *sheetID, sig)
	if err != nil {
		return fail(err)
	}
	if len(mismatched) == 0 {
		fmt.Println("ok: every row hash matches")
		return subcommands.ExitSuccess
	}
	fmt.Printf("tampered rows: %v\n", mismatched)
	return subcommands.ExitFailure
}
