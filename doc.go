// Package ledger provides a permissioned, append-only double-entry
// bookkeeping store whose durable state lives in a remote tabular backend
// (a spreadsheet-like service accessed through the sheet.Service port).
//
// The core pieces are:
//   - Record Management: immutable double-entry records with splits, tags and
//     correction-by-adjustment chaining. Committed records are never modified
//     or deleted; mistakes are fixed by committing adjustments that reference
//     the record they correct.
//   - SharedLedger: a concurrency-safe orchestrator that enforces per-user
//     read/write permissions, appends records to the remote sheet before
//     reflecting them locally, and rebuilds its in-memory state by replaying
//     the remote log.
//   - Integrity: every row written to the remote sheet carries a trailing
//     SHA-256 hash salted with a per-ledger signature, so out-of-band edits
//     of the remote data are detectable with VerifySheet.
//   - Balances: currency-aware account and subtree balances, converting
//     amounts through a date-indexed rate database.
//
// The remote sheet is the single source of truth; the in-memory ledger and
// status tables are caches that can always be rebuilt by a full replay.
package ledger
