package sheet

import (
	"fmt"
	"sync"
)

// Memory is an in-memory Service, safe for concurrent use. It backs tests
// and doubles as a scratch backend; data does not survive the process.
type Memory struct {
	mu     sync.Mutex
	nextID int
	sheets map[string][][]string
	shares map[string][]string
}

// NewMemory creates an empty in-memory service.
func NewMemory() *Memory {
	return &Memory{
		nextID: 1,
		sheets: make(map[string][][]string),
		shares: make(map[string][]string),
	}
}

func (m *Memory) CreateSheet(title string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := fmt.Sprintf("sheet%d", m.nextID)
	m.nextID++
	m.sheets[id] = nil
	return id, nil
}

func (m *Memory) AppendRow(sheetID string, values []string) error {
	return m.AppendRows(sheetID, [][]string{values})
}

func (m *Memory) AppendRows(sheetID string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.sheets[sheetID]
	if !ok {
		return ErrSheetNotFound
	}
	for _, row := range rows {
		existing = append(existing, append([]string(nil), row...))
	}
	m.sheets[sheetID] = existing
	return nil
}

func (m *Memory) ReadRow(sheetID string, index int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[sheetID]
	if !ok {
		return nil, ErrSheetNotFound
	}
	if index < 0 || index >= len(rows) {
		return nil, ErrRowNotFound
	}
	return append([]string(nil), rows[index]...), nil
}

func (m *Memory) ListRows(sheetID string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[sheetID]
	if !ok {
		return nil, ErrSheetNotFound
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (m *Memory) ShareSheet(sheetID, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[sheetID]; !ok {
		return ErrShareFailed
	}
	m.shares[sheetID] = append(m.shares[sheetID], email)
	return nil
}

var _ Service = (*Memory)(nil)
