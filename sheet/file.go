package sheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File is a Service storing each sheet as one CSV file under a base
// directory. It is meant for local, offline ledgers and for inspecting the
// raw log with ordinary tools.
type File struct {
	mu      sync.Mutex
	baseDir string
	nextID  int
}

// NewFile creates a file-backed service rooted at baseDir.
func NewFile(baseDir string) *File {
	return &File{baseDir: baseDir, nextID: 1}
}

func (f *File) sheetPath(id string) string {
	return filepath.Join(f.baseDir, id+".csv")
}

func (f *File) CreateSheet(title string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("sheet%d", f.nextID)
	f.nextID++
	file, err := os.Create(f.sheetPath(id))
	if err != nil {
		return "", Permanent(err.Error())
	}
	if err := file.Close(); err != nil {
		return "", Permanent(err.Error())
	}
	return id, nil
}

func (f *File) AppendRow(sheetID string, values []string) error {
	return f.AppendRows(sheetID, [][]string{values})
}

func (f *File) AppendRows(sheetID string, rows [][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := f.sheetPath(sheetID)
	if _, err := os.Stat(path); err != nil {
		return ErrSheetNotFound
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return Transient(err.Error())
	}
	defer file.Close()
	w := csv.NewWriter(file)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return Transient(err.Error())
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Transient(err.Error())
	}
	return nil
}

func (f *File) ReadRow(sheetID string, index int) ([]string, error) {
	rows, err := f.ListRows(sheetID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(rows) {
		return nil, ErrRowNotFound
	}
	return rows[index], nil
}

func (f *File) ListRows(sheetID string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := f.sheetPath(sheetID)
	if _, err := os.Stat(path); err != nil {
		return nil, ErrSheetNotFound
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, Transient(err.Error())
	}
	defer file.Close()
	r := csv.NewReader(file)
	// Record rows and status rows have different widths.
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, Transient(err.Error())
	}
	return rows, nil
}

func (f *File) ShareSheet(sheetID, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := os.Stat(f.sheetPath(sheetID)); err != nil {
		return ErrShareFailed
	}
	// Local files have no access control; sharing succeeds if the sheet exists.
	return nil
}

var _ Service = (*File)(nil)
