package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	ledger "github.com/Softwareologists/feed-my-ledger"
)

// balanceCmd reports the balance of an account or account subtree.
type balanceCmd struct {
	account   string
	currency  string
	tree      bool
	ratesFile string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show an account balance" }
func (*balanceCmd) Usage() string {
	return `fml balance -account <path> [-currency <code>] [-tree] [-rates rates.csv]

  Folds every posting into the target currency using the last known rate at
  or before each record's date. Postings with no applicable rate are
  excluded from the sum.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account path")
	f.StringVar(&c.currency, "currency", "USD", "Target currency")
	f.BoolVar(&c.tree, "tree", false, "Roll up the whole account subtree")
	f.StringVar(&c.ratesFile, "rates", "", "CSV rate database (date,from,to,rate)")
}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	rates := ledger.NewRateDatabase()
	if c.ratesFile != "" {
		file, err := os.Open(c.ratesFile)
		if err != nil {
			return fail(err)
		}
		rates, err = ledger.ReadRates(file)
		file.Close()
		if err != nil {
			return fail(err)
		}
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
	l := ledger.NewLedger()
	for _, r := range records {
		l.Commit(r)
	}
	account := ledger.Account(c.account)
	balance := l.AccountBalance(account, c.currency, rates)
	if c.tree {
		balance = l.AccountTreeBalance(account, c.currency, rates)
	}
	fmt.Printf("%s %s %s\n", account, balance, c.currency)
	return subcommands.ExitSuccess
}
