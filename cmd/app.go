// Package cmd implements the fml command-line application: a shared,
// sheet-backed bookkeeping ledger.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	ledger "github.com/Softwareologists/feed-my-ledger"
	"github.com/Softwareologists/feed-my-ledger/sheet"
)

// Register registers every subcommand on the commander.
func Register(c *subcommands.Commander) {
	c.Register(&addCmd{}, "ledger")
	c.Register(&adjustCmd{}, "ledger")
	c.Register(&recordsCmd{}, "ledger")
	c.Register(&balanceCmd{}, "ledger")
	c.Register(&clearCmd{}, "ledger")

	c.Register(&shareCmd{}, "sharing")
	c.Register(&verifyCmd{}, "integrity")
	c.Register(&importCmd{}, "import")
}

func init() {
	// Optional .env next to the binary; flags still win over the environment.
	_ = godotenv.Load()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// As a CLI application the process is short lived, so global flags are fine.
var (
	backend     = flag.String("backend", envOr("FML_BACKEND", "file"), "Storage backend: memory, file or postgres")
	dataDir     = flag.String("data-dir", envOr("FML_DATA_DIR", "."), "Directory holding sheet files for the file backend")
	databaseURL = flag.String("database-url", envOr("FML_DATABASE_URL", ""), "Postgres connection string for the postgres backend")
	sheetID     = flag.String("sheet", envOr("FML_SHEET_ID", ""), "Existing sheet id; empty creates a new sheet")
	ledgerName  = flag.String("ledger-name", envOr("FML_LEDGER_NAME", "ledger"), "Ledger name used to derive the row-hash signature")
	password    = flag.String("password", envOr("FML_PASSWORD", ""), "Optional password mixed into the signature")
	user        = flag.String("user", envOr("FML_USER", ""), "Acting user (email)")
	maxRetries  = flag.Int("retries", 3, "Retries for transient backend failures")
	retryDelay  = flag.Duration("retry-delay", 0, "Base delay before the first retry (doubles each retry)")
	batchSize   = flag.Int("batch-size", 1, "Rows buffered per sheet before one bulk append")
	cacheSize   = flag.Int("cache-size", 0, "Read cache capacity; 0 keeps the cache unbounded")
)

// newService builds the storage stack: backend, wrapped in retry, wrapped in
// batching+cache. The returned closer flushes pending writes; its error must
// not be ignored on write paths.
func newService() (sheet.Service, func() error, error) {
	var inner sheet.Service
	switch *backend {
	case "memory":
		inner = sheet.NewMemory()
	case "file":
		inner = sheet.NewFile(*dataDir)
	case "postgres":
		pg, err := sheet.OpenPostgres(*databaseURL)
		if err != nil {
			return nil, nil, err
		}
		inner = pg
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", *backend)
	}
	policy := sheet.EvictNone()
	if *cacheSize > 0 {
		policy = sheet.EvictLRU(*cacheSize)
	}
	batching := sheet.NewBatchingCache(sheet.NewRetrying(inner, *maxRetries, *retryDelay), *batchSize, policy)
	return batching, batching.Close, nil
}

// signature derives the per-ledger secret from the configured name and
// password.
func signature() (string, error) {
	return ledger.GenerateSignature(*ledgerName, *password)
}

// openLedger opens the configured sheet as a SharedLedger, creating a new
// sheet when none is configured.
func openLedger(svc sheet.Service) (*ledger.SharedLedger, error) {
	if *user == "" {
		return nil, fmt.Errorf("missing -user (or FML_USER)")
	}
	sig, err := signature()
	if err != nil {
		return nil, err
	}
	if *sheetID == "" {
		shared, err := ledger.NewSharedLedger(svc, *user, sig)
		if err != nil {
			return nil, err
		}
		_, id := shared.Parts()
		fmt.Printf("created sheet %s\n", id)
		return shared, nil
	}
	return ledger.SharedLedgerFromSheet(svc, *sheetID, *user, sig)
}

func parseRecordID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid record id %q: %v", s, err)
	}
	return id, nil
}

// fail prints the error and maps it onto an exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
