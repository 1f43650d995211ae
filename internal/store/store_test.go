package store

import (
	"context"
	"errors"
	"sync"

	"kassa/internal/core"
)

// memPersistence is an in-memory fake for both persistence ports, with an
// optional injected failure for degradation tests.
type memPersistence struct {
	mu       sync.Mutex
	boards   map[string]*BoardDocument
	bills    map[string][]core.Bill
	saves    int
	saveErr  error
	loadErr  error
}

func newMemPersistence() *memPersistence {
	return &memPersistence{
		boards: make(map[string]*BoardDocument),
		bills:  make(map[string][]core.Bill),
	}
}

func (m *memPersistence) LoadBoards(ctx context.Context, userID string) (*BoardDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	doc, ok := m.boards[userID]
	if !ok {
		return nil, nil
	}
	// Deep copy through the same shape callers would get from disk.
	out := &BoardDocument{ActiveBoardID: doc.ActiveBoardID}
	for _, b := range doc.Boards {
		out.Boards = append(out.Boards, b.Clone())
	}
	return out, nil
}

func (m *memPersistence) SaveBoards(ctx context.Context, userID string, doc *BoardDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := &BoardDocument{ActiveBoardID: doc.ActiveBoardID}
	for _, b := range doc.Boards {
		cp.Boards = append(cp.Boards, b.Clone())
	}
	m.boards[userID] = cp
	return nil
}

func (m *memPersistence) LoadBills(ctx context.Context, userID string) ([]core.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]core.Bill(nil), m.bills[userID]...), nil
}

func (m *memPersistence) SaveBills(ctx context.Context, userID string, bills []core.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.bills[userID] = append([]core.Bill(nil), bills...)
	return nil
}

func (m *memPersistence) Users(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]string, 0, len(m.bills))
	for u := range m.bills {
		users = append(users, u)
	}
	return users, nil
}

func (m *memPersistence) failSaves() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = errors.New("disk full")
}
