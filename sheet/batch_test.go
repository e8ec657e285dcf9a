package sheet

import (
	"errors"
	"reflect"
	"testing"
)

// recordingService counts inner calls and delegates to an in-memory service.
type recordingService struct {
	*Memory
	appendRows int
	readRow    int
}

func (r *recordingService) AppendRows(sheetID string, rows [][]string) error {
	r.appendRows++
	return r.Memory.AppendRows(sheetID, rows)
}

func (r *recordingService) ReadRow(sheetID string, index int) ([]string, error) {
	r.readRow++
	return r.Memory.ReadRow(sheetID, index)
}

func TestBatchingCache_BuffersUntilBatchSize(t *testing.T) {
	inner := &recordingService{Memory: NewMemory()}
	id, _ := inner.CreateSheet("ledger")
	b := NewBatchingCache(inner, 2, EvictNone())

	if err := b.AppendRow(id, []string{"a"}); err != nil {
		t.Fatalf("AppendRow() error = %v", err)
	}
	if inner.appendRows != 0 {
		t.Fatalf("inner AppendRows calls = %d after one row, want 0", inner.appendRows)
	}
	rows, _ := inner.Memory.ListRows(id)
	if len(rows) != 0 {
		t.Fatalf("buffered row leaked to the inner service: %v", rows)
	}

	// Second row completes the batch: one inner call with both rows.
	if err := b.AppendRow(id, []string{"b"}); err != nil {
		t.Fatalf("AppendRow() error = %v", err)
	}
	if inner.appendRows != 1 {
		t.Errorf("inner AppendRows calls = %d, want 1", inner.appendRows)
	}
	rows, _ = inner.Memory.ListRows(id)
	if want := [][]string{{"a"}, {"b"}}; !reflect.DeepEqual(rows, want) {
		t.Errorf("flushed rows = %v, want %v", rows, want)
	}

	// Third row sits pending until Flush.
	if err := b.AppendRow(id, []string{"c"}); err != nil {
		t.Fatalf("AppendRow() error = %v", err)
	}
	if inner.appendRows != 1 {
		t.Errorf("inner AppendRows calls = %d before Flush, want 1", inner.appendRows)
	}
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if inner.appendRows != 2 {
		t.Errorf("inner AppendRows calls = %d after Flush, want 2", inner.appendRows)
	}
	rows, _ = inner.Memory.ListRows(id)
	if want := [][]string{{"a"}, {"b"}, {"c"}}; !reflect.DeepEqual(rows, want) {
		t.Errorf("rows after Flush = %v, want %v", rows, want)
	}
}

func TestBatchingCache_AppendRowsTakesPartInBatching(t *testing.T) {
	inner := &recordingService{Memory: NewMemory()}
	id, _ := inner.CreateSheet("ledger")
	b := NewBatchingCache(inner, 2, EvictNone())

	if err := b.AppendRows(id, [][]string{{"a"}, {"b"}, {"c"}}); err != nil {
		t.Fatalf("AppendRows() error = %v", err)
	}
	// Two rows flushed as one batch, the third pending.
	if inner.appendRows != 1 {
		t.Errorf("inner AppendRows calls = %d, want 1", inner.appendRows)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	rows, _ := inner.Memory.ListRows(id)
	if want := [][]string{{"a"}, {"b"}, {"c"}}; !reflect.DeepEqual(rows, want) {
		t.Errorf("rows after Close = %v, want %v", rows, want)
	}
}

func TestBatchingCache_FlushIsEmptySafe(t *testing.T) {
	b := NewBatchingCache(&recordingService{Memory: NewMemory()}, 2, EvictNone())
	if err := b.Flush(); err != nil {
		t.Errorf("Flush() on empty buffer error = %v", err)
	}
}

func TestBatchingCache_CloseReportsFlushError(t *testing.T) {
	// Buffer a row for a sheet that does not exist: the append is deferred,
	// so the failure only surfaces at Close.
	b := NewBatchingCache(NewMemory(), 10, EvictNone())
	if err := b.AppendRow("nope", []string{"a"}); err != nil {
		t.Fatalf("AppendRow() error = %v", err)
	}
	if err := b.Close(); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("Close() error = %v, want %v", err, ErrSheetNotFound)
	}
}

func TestBatchingCache_ReadRowCaches(t *testing.T) {
	inner := &recordingService{Memory: NewMemory()}
	id, _ := inner.CreateSheet("ledger")
	if err := inner.Memory.AppendRows(id, [][]string{{"a"}, {"b"}}); err != nil {
		t.Fatalf("AppendRows() error = %v", err)
	}
	b := NewBatchingCache(inner, 1, EvictNone())

	for i := 0; i < 3; i++ {
		row, err := b.ReadRow(id, 0)
		if err != nil {
			t.Fatalf("ReadRow() error = %v", err)
		}
		if want := []string{"a"}; !reflect.DeepEqual(row, want) {
			t.Fatalf("ReadRow() = %v, want %v", row, want)
		}
	}
	if inner.readRow != 1 {
		t.Errorf("inner ReadRow calls = %d, want 1", inner.readRow)
	}
}

func TestBatchingCache_LRUEvicts(t *testing.T) {
	inner := &recordingService{Memory: NewMemory()}
	id, _ := inner.CreateSheet("ledger")
	if err := inner.Memory.AppendRows(id, [][]string{{"a"}, {"b"}}); err != nil {
		t.Fatalf("AppendRows() error = %v", err)
	}
	b := NewBatchingCache(inner, 1, EvictLRU(1))

	mustRead := func(index int) {
		t.Helper()
		if _, err := b.ReadRow(id, index); err != nil {
			t.Fatalf("ReadRow(%d) error = %v", index, err)
		}
	}

	mustRead(0) // miss, cached
	mustRead(0) // hit
	if inner.readRow != 1 {
		t.Fatalf("inner ReadRow calls = %d, want 1", inner.readRow)
	}
	mustRead(1) // miss, evicts row 0
	mustRead(0) // miss again
	if inner.readRow != 3 {
		t.Errorf("inner ReadRow calls = %d, want 3", inner.readRow)
	}
}

func TestBatchingCache_ErrorsAreNotCached(t *testing.T) {
	inner := &recordingService{Memory: NewMemory()}
	id, _ := inner.CreateSheet("ledger")
	b := NewBatchingCache(inner, 1, EvictNone())

	if _, err := b.ReadRow(id, 0); !errors.Is(err, ErrRowNotFound) {
		t.Fatalf("ReadRow(empty sheet) error = %v, want %v", err, ErrRowNotFound)
	}
	if err := inner.Memory.AppendRow(id, []string{"a"}); err != nil {
		t.Fatalf("AppendRow() error = %v", err)
	}
	row, err := b.ReadRow(id, 0)
	if err != nil {
		t.Fatalf("ReadRow() after append error = %v", err)
	}
	if want := []string{"a"}; !reflect.DeepEqual(row, want) {
		t.Errorf("ReadRow() = %v, want %v", row, want)
	}
}
