package ledger

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/Softwareologists/feed-my-ledger/sheet"
)

// Permission is a per-user grant on a shared ledger. Write subsumes Read.
type Permission int

const (
	Read Permission = iota
	Write
)

func (p Permission) String() string {
	switch p {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return "unknown"
	}
}

// Access errors returned by SharedLedger operations.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrShareFailed  = errors.New("share failed")
)

// statusMarker is the first column of status rows on the remote sheet. A
// status row has exactly three columns: the marker, a record id, and a
// boolean cleared flag.
const statusMarker = "status"

// SharedLedger is a permissioned, concurrency-safe facade over a Ledger
// backed by a remote sheet. The remote sheet is the single source of truth:
// every write goes to the remote first and is reflected locally only on
// success, and the whole local state can be rebuilt by replaying the remote
// log with SharedLedgerFromSheet.
//
// Each field group is guarded by its own lock so unrelated operations do not
// contend. There is no cross-lock atomicity: under concurrency a reader may
// observe a remote append before the local ledger reflects it. Callers needing
// a consistent snapshot must serialize externally.
type SharedLedger struct {
	svcMu     sync.Mutex
	svc       sheet.Service
	sheetID   string
	signature string

	ledgerMu sync.RWMutex
	ledger   *Ledger

	permMu sync.RWMutex
	perms  map[string]Permission

	statusMu sync.RWMutex
	statuses map[uuid.UUID]bool
}

// NewSharedLedger creates a fresh remote sheet and an empty ledger over it,
// granting owner write access. The signature (from GenerateSignature) salts
// every row hash written to the sheet.
func NewSharedLedger(svc sheet.Service, owner, signature string) (*SharedLedger, error) {
	sheetID, err := svc.CreateSheet("ledger")
	if err != nil {
		return nil, err
	}
	return &SharedLedger{
		svc:       svc,
		sheetID:   sheetID,
		signature: signature,
		ledger:    NewLedger(),
		perms:     map[string]Permission{owner: Write},
		statuses:  make(map[uuid.UUID]bool),
	}, nil
}

// SharedLedgerFromSheet rebuilds a shared ledger by replaying every row of an
// existing remote sheet. Status rows populate the status table (the most
// recently appended row for an id wins); every other row is decoded into a
// record. Rows that decode as neither — header rows, for instance — are
// skipped with a warning.
func SharedLedgerFromSheet(svc sheet.Service, sheetID, owner, signature string) (*SharedLedger, error) {
	rows, err := svc.ListRows(sheetID)
	if err != nil {
		return nil, err
	}
	l := NewLedger()
	statuses := make(map[uuid.UUID]bool)
	for i, row := range rows {
		if len(row) > 0 && row[0] == statusMarker {
			if len(row) != 3 {
				log.Printf("sheet %s row %d: malformed status row skipped", sheetID, i)
				continue
			}
			id, err := uuid.Parse(row[1])
			if err != nil {
				log.Printf("sheet %s row %d: bad status id %q skipped", sheetID, i, row[1])
				continue
			}
			cleared, err := strconv.ParseBool(row[2])
			if err != nil {
				log.Printf("sheet %s row %d: bad status flag %q skipped", sheetID, i, row[2])
				continue
			}
			statuses[id] = cleared
			continue
		}
		rec, err := RecordFromRow(row)
		if err != nil {
			log.Printf("sheet %s row %d: undecodable row skipped: %v", sheetID, i, err)
			continue
		}
		l.Commit(rec)
	}
	return &SharedLedger{
		svc:       svc,
		sheetID:   sheetID,
		signature: signature,
		ledger:    l,
		perms:     map[string]Permission{owner: Write},
		statuses:  statuses,
	}, nil
}

// check verifies that user holds at least the required permission. A Write
// grant satisfies both Read and Write requests.
func (s *SharedLedger) check(user string, required Permission) error {
	s.permMu.RLock()
	defer s.permMu.RUnlock()
	p, ok := s.perms[user]
	if !ok {
		return ErrUnauthorized
	}
	if p == Write || required == Read {
		return nil
	}
	return ErrUnauthorized
}

// Commit appends the record to the remote sheet (hashed) and, only once the
// remote append succeeded, commits it locally with an initial cleared=false
// status. A remote failure leaves all local state untouched.
func (s *SharedLedger) Commit(user string, r Record) error {
	if err := s.check(user, Write); err != nil {
		return err
	}
	if err := s.append(r.RowHashed(s.signature)); err != nil {
		return err
	}
	s.ledgerMu.Lock()
	s.ledger.Commit(r)
	s.ledgerMu.Unlock()
	s.statusMu.Lock()
	s.statuses[r.ID] = false
	s.statusMu.Unlock()
	return nil
}

// ApplyAdjustment commits adjustment as a correction of the record with id
// originalID. The adjustment is written to the remote sheet like any record,
// with its reference id pointing at the original.
func (s *SharedLedger) ApplyAdjustment(user string, originalID uuid.UUID, adjustment Record) error {
	if err := s.check(user, Write); err != nil {
		return err
	}
	s.ledgerMu.RLock()
	_, err := s.ledger.Record(originalID)
	s.ledgerMu.RUnlock()
	if err != nil {
		return fmt.Errorf("apply adjustment: %w", err)
	}
	adjustment.ReferenceID = originalID
	if err := s.append(adjustment.RowHashed(s.signature)); err != nil {
		return err
	}
	s.ledgerMu.Lock()
	err = s.ledger.ApplyAdjustment(originalID, adjustment)
	s.ledgerMu.Unlock()
	if err != nil {
		return fmt.Errorf("apply adjustment: %w", err)
	}
	s.statusMu.Lock()
	s.statuses[adjustment.ID] = false
	s.statusMu.Unlock()
	return nil
}

// ShareWith grants another user access. It requires Write, and the remote
// share must succeed before the grant is recorded locally.
func (s *SharedLedger) ShareWith(user, email string, p Permission) error {
	if err := s.check(user, Write); err != nil {
		return err
	}
	s.svcMu.Lock()
	err := s.svc.ShareSheet(s.sheetID, email)
	s.svcMu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrShareFailed, err)
	}
	s.permMu.Lock()
	s.perms[email] = p
	s.permMu.Unlock()
	return nil
}

// SetCleared records the reconciliation status of a committed record as an
// append-only status row, then updates the local status table. On replay the
// most recently appended status row for the id wins.
func (s *SharedLedger) SetCleared(user string, id uuid.UUID, cleared bool) error {
	if err := s.check(user, Write); err != nil {
		return err
	}
	s.ledgerMu.RLock()
	_, err := s.ledger.Record(id)
	s.ledgerMu.RUnlock()
	if err != nil {
		return fmt.Errorf("set cleared: %w", err)
	}
	if err := s.append([]string{statusMarker, id.String(), strconv.FormatBool(cleared)}); err != nil {
		return err
	}
	s.statusMu.Lock()
	s.statuses[id] = cleared
	s.statusMu.Unlock()
	return nil
}

// MarkCleared marks the record as reconciled against an external statement.
func (s *SharedLedger) MarkCleared(user string, id uuid.UUID) error {
	return s.SetCleared(user, id, true)
}

// MarkPending marks the record as not yet reconciled.
func (s *SharedLedger) MarkPending(user string, id uuid.UUID) error {
	return s.SetCleared(user, id, false)
}

// Records returns all committed records in commit order, each merged with
// its current cleared status (false if never set).
func (s *SharedLedger) Records(user string) ([]Record, error) {
	if err := s.check(user, Read); err != nil {
		return nil, err
	}
	s.ledgerMu.RLock()
	records := s.ledger.Records()
	s.ledgerMu.RUnlock()
	s.statusMu.RLock()
	for i := range records {
		records[i].Cleared = s.statuses[records[i].ID]
	}
	s.statusMu.RUnlock()
	return records, nil
}

// GetRecord returns one committed record merged with its cleared status.
func (s *SharedLedger) GetRecord(user string, id uuid.UUID) (Record, error) {
	if err := s.check(user, Read); err != nil {
		return Record{}, err
	}
	s.ledgerMu.RLock()
	r, err := s.ledger.Record(id)
	s.ledgerMu.RUnlock()
	if err != nil {
		return Record{}, fmt.Errorf("get record: %w", err)
	}
	s.statusMu.RLock()
	r.Cleared = s.statuses[id]
	s.statusMu.RUnlock()
	return r, nil
}

// AdjustmentHistory returns every record transitively adjusting the record
// with the given id, sorted ascending by timestamp.
func (s *SharedLedger) AdjustmentHistory(user string, id uuid.UUID) ([]Record, error) {
	if err := s.check(user, Read); err != nil {
		return nil, err
	}
	s.ledgerMu.RLock()
	defer s.ledgerMu.RUnlock()
	return s.ledger.AdjustmentHistory(id), nil
}

// Verify recomputes every row hash on the remote sheet and returns the
// indices of tampered rows.
func (s *SharedLedger) Verify(user string) ([]int, error) {
	if err := s.check(user, Read); err != nil {
		return nil, err
	}
	s.svcMu.Lock()
	defer s.svcMu.Unlock()
	return VerifySheet(s.svc, s.sheetID, s.signature)
}

// Parts releases the underlying service and sheet id, for callers that want
// to rebuild the ledger from the same sheet or hand the service elsewhere.
// The SharedLedger must not be used afterwards.
func (s *SharedLedger) Parts() (sheet.Service, string) {
	return s.svc, s.sheetID
}

func (s *SharedLedger) append(row []string) error {
	s.svcMu.Lock()
	defer s.svcMu.Unlock()
	return s.svc.AppendRow(s.sheetID, row)
}
