package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	ledger "github.com/Softwareologists/feed-my-ledger"
	"github.com/Softwareologists/feed-my-ledger/importer"
)

// importCmd parses a bank statement and appends its records to the sheet,
// skipping records whose hashed rows are already present.
type importCmd struct {
	file     string
	format   string
	currency string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a bank statement (csv, json or qif)" }
func (*importCmd) Usage() string {
	return `fml import -file statement.csv [-format csv|json|qif] [-currency EUR]

  The format defaults to the file extension. Records already present on the
  sheet (identical row hash) are skipped, so re-importing a statement is
  safe.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "Statement file to import")
	f.StringVar(&c.format, "format", "", "Statement format; defaults to the file extension")
	f.StringVar(&c.currency, "currency", "", "Force this currency on every imported record (json only)")
}

func (c *importCmd) parse() ([]ledger.Record, error) {
	file, err := os.Open(c.file)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	format := c.format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(c.file), ".")
	}
	switch format {
	case "csv":
		return importer.CSV(file)
	case "json":
		if c.currency != "" {
			return importer.JSONWithCurrency(file, c.currency)
		}
		return importer.JSON(file)
	case "qif":
		return importer.QIF(file)
	default:
		return nil, fmt.Errorf("unknown statement format %q", format)
	}
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	records, err := c.parse()
	if err != nil {
		return fail(err)
	}
	sig, err := signature()
	if err != nil {
		return fail(err)
	}
	svc, closeSvc, err := newService()
	if err != nil {
		return fail(err)
	}
	if *sheetID == "" {
		return fail(fmt.Errorf("missing -sheet (or FML_SHEET_ID)"))
	}
	rows, err := importer.FilterNew(svc, *sheetID, records, sig)
	if err != nil {
		return fail(err)
	}
	if err := svc.AppendRows(*sheetID, rows); err != nil {
		return fail(err)
	}
	if err := closeSvc(); err != nil {
		return fail(fmt.Errorf("flushing pending writes: %w", err))
	}
	fmt.Printf("imported %d of %d records\n", len(rows), len(records))
	return subcommands.ExitSuccess
}
