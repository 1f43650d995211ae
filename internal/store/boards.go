package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"kassa/internal/core"
)

var (
	// ErrNotFound signals an update or delete referencing a missing id.
	ErrNotFound = errors.New("not found")
	// ErrNoActiveBoard blocks ledger mutations when no board is selected.
	ErrNoActiveBoard = errors.New("no active board")
)

// DefaultBoardName is the name of the bootstrapped first-run board.
const DefaultBoardName = "Min budget"

// defaultCategories is the fixed template every new board starts with:
// one income category and a handful of expense categories.
func defaultCategories() []core.Category {
	return []core.Category{
		{ID: uuid.NewString(), Name: "Lön", Type: core.Income, Icon: "💰"},
		{ID: uuid.NewString(), Name: "Mat", Type: core.Expense, Icon: "🍎"},
		{ID: uuid.NewString(), Name: "Boende", Type: core.Expense, Icon: "🏠"},
		{ID: uuid.NewString(), Name: "Transport", Type: core.Expense, Icon: "🚌"},
		{ID: uuid.NewString(), Name: "Nöje", Type: core.Expense, Icon: "🎉"},
		{ID: uuid.NewString(), Name: "Övrigt", Type: core.Expense, Icon: "📦"},
	}
}

func newBoard(name string, now time.Time) core.Board {
	return core.Board{
		ID:         uuid.NewString(),
		Name:       name,
		Categories: defaultCategories(),
		CreatedAt:  now.UTC(),
	}
}

// BoardStore owns one user's board collection and the active-board pointer,
// and drives persistence. Every mutation updates the in-memory view
// synchronously and persists before returning; a failed write is logged and
// tolerated so a storage hiccup never loses the session (known risk: the
// persisted copy lags until the next successful write).
type BoardStore struct {
	mu      sync.RWMutex
	persist BoardPersistence
	userID  string

	boards   []core.Board
	activeID string
}

func NewBoardStore(persist BoardPersistence, userID string) *BoardStore {
	return &BoardStore{persist: persist, userID: userID}
}

// Init loads the persisted collection and repairs it into a usable state:
// an empty or absent record bootstraps a default board, and a stale active
// pointer falls back to the first board. After Init the store always has at
// least one board and a resolving active id.
func (s *BoardStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.persist.LoadBoards(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("load boards: %w", err)
	}

	if doc == nil || len(doc.Boards) == 0 {
		b := newBoard(DefaultBoardName, time.Now())
		s.boards = []core.Board{b}
		s.activeID = b.ID
		s.persistLocked(ctx)
		slog.InfoContext(ctx, "Bootstrapped default board",
			"user", s.userID, "board_id", b.ID)
		return nil
	}

	s.boards = doc.Boards
	s.activeID = doc.ActiveBoardID
	if s.indexOfLocked(s.activeID) < 0 {
		s.activeID = s.boards[0].ID
		s.persistLocked(ctx)
		slog.WarnContext(ctx, "Active board id did not resolve, fell back to first board",
			"user", s.userID, "board_id", s.activeID)
	}
	return nil
}

// Boards returns a copy of the collection in insertion order.
func (s *BoardStore) Boards() []core.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Board, len(s.boards))
	for i, b := range s.boards {
		out[i] = b.Clone()
	}
	return out
}

// ActiveBoardID returns the current active-board pointer.
func (s *BoardStore) ActiveBoardID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// ActiveBoard returns a copy of the active board, or nil when none resolves.
func (s *BoardStore) ActiveBoard() *core.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOfLocked(s.activeID); i >= 0 {
		b := s.boards[i].Clone()
		return &b
	}
	return nil
}

// SetActiveBoard selects an existing board and persists the new pointer.
func (s *BoardStore) SetActiveBoard(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOfLocked(id) < 0 {
		return ErrNotFound
	}
	s.activeID = id
	s.persistLocked(ctx)
	return nil
}

// AddBoard creates a board from the default category template, appends it
// and makes it the new active board.
func (s *BoardStore) AddBoard(ctx context.Context, name string) (core.Board, error) {
	if strings.TrimSpace(name) == "" {
		return core.Board{}, core.ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b := newBoard(strings.TrimSpace(name), time.Now())
	s.boards = append(s.boards, b)
	s.activeID = b.ID
	s.persistLocked(ctx)
	slog.InfoContext(ctx, "Board created", "user", s.userID, "board_id", b.ID, "name", b.Name)
	return b.Clone(), nil
}

// RenameBoard renames a board by id.
func (s *BoardStore) RenameBoard(ctx context.Context, id, name string) (*core.Board, error) {
	if strings.TrimSpace(name) == "" {
		return nil, core.ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	s.boards[i].Name = strings.TrimSpace(name)
	s.persistLocked(ctx)
	b := s.boards[i].Clone()
	return &b, nil
}

// ShareBoard records an email on the board's share list. Adding an email
// twice is a no-op (set semantics).
func (s *BoardStore) ShareBoard(ctx context.Context, id, email string) (*core.Board, error) {
	return s.updateShares(ctx, id, email, true)
}

// UnshareBoard removes an email from the share list; absent emails no-op.
func (s *BoardStore) UnshareBoard(ctx context.Context, id, email string) (*core.Board, error) {
	return s.updateShares(ctx, id, email, false)
}

func (s *BoardStore) updateShares(ctx context.Context, id, email string, add bool) (*core.Board, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, core.ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	b := &s.boards[i]
	switch {
	case add && !b.IsSharedWith(email):
		b.SharedWith = append(b.SharedWith, email)
	case !add:
		kept := b.SharedWith[:0]
		for _, e := range b.SharedWith {
			if e != email {
				kept = append(kept, e)
			}
		}
		b.SharedWith = kept
	}
	s.persistLocked(ctx)
	out := b.Clone()
	return &out, nil
}

// DeleteBoard removes a board. The collection is never left empty and the
// active pointer always resolves afterwards: deleting the active board
// selects the first remaining one, and deleting the last board bootstraps a
// fresh default board.
func (s *BoardStore) DeleteBoard(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	s.boards = append(s.boards[:i], s.boards[i+1:]...)

	if len(s.boards) == 0 {
		b := newBoard(DefaultBoardName, time.Now())
		s.boards = []core.Board{b}
		s.activeID = b.ID
		slog.InfoContext(ctx, "Last board deleted, bootstrapped a fresh default board",
			"user", s.userID, "board_id", b.ID)
	} else if s.activeID == id {
		s.activeID = s.boards[0].ID
	}
	s.persistLocked(ctx)
	return nil
}

// AddCategory appends a category with a fresh id to the active board.
func (s *BoardStore) AddCategory(ctx context.Context, data core.Category) (*core.Category, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	var created core.Category
	b := s.modifyActive(ctx, func(b core.Board) core.Board {
		created = data
		created.ID = uuid.NewString()
		b.Categories = append(b.Categories, created)
		return b
	})
	if b == nil {
		return nil, ErrNoActiveBoard
	}
	return &created, nil
}

// EnsureCategory returns the active board's category with the exact name and
// type, creating it when absent. The paid-bills bridge relies on this; the
// name match is a known fragility, renaming the category silently breaks the
// lookup.
func (s *BoardStore) EnsureCategory(ctx context.Context, name string, typ core.CategoryType, icon string) (*core.Category, error) {
	var found core.Category
	b := s.modifyActive(ctx, func(b core.Board) core.Board {
		if c, ok := b.CategoryByNameAndType(name, typ); ok {
			found = c
			return b
		}
		found = core.Category{ID: uuid.NewString(), Name: name, Type: typ, Icon: icon}
		b.Categories = append(b.Categories, found)
		return b
	})
	if b == nil {
		return nil, ErrNoActiveBoard
	}
	return &found, nil
}

// DeleteCategory removes the category and every transaction referencing it
// from the active board in one combined update, so orphaned transactions are
// never persisted.
func (s *BoardStore) DeleteCategory(ctx context.Context, categoryID string) (*core.Board, error) {
	b := s.modifyActive(ctx, func(b core.Board) core.Board {
		cats := b.Categories[:0]
		for _, c := range b.Categories {
			if c.ID != categoryID {
				cats = append(cats, c)
			}
		}
		b.Categories = cats
		txs := b.Transactions[:0]
		for _, t := range b.Transactions {
			if t.CategoryID != categoryID {
				txs = append(txs, t)
			}
		}
		b.Transactions = txs
		return b
	})
	if b == nil {
		return nil, ErrNoActiveBoard
	}
	return b, nil
}

// AddTransaction appends a transaction with a fresh id to the active board.
// The ledger does not re-verify the category reference or amount sign; that
// validation belongs to the caller at the business boundary. An unresolvable
// category id yields a structurally valid but dangling transaction.
func (s *BoardStore) AddTransaction(ctx context.Context, data core.Transaction) (*core.Transaction, error) {
	var created core.Transaction
	b := s.modifyActive(ctx, func(b core.Board) core.Board {
		created = data
		created.ID = uuid.NewString()
		if created.Date.IsZero() {
			created.Date = time.Now().UTC()
		}
		b.Transactions = append(b.Transactions, created)
		return b
	})
	if b == nil {
		return nil, ErrNoActiveBoard
	}
	return &created, nil
}

// UpdateTransaction replaces the transaction with a matching id on the
// active board. A missing id is reported as ErrNotFound, never a silent
// no-op.
func (s *BoardStore) UpdateTransaction(ctx context.Context, updated core.Transaction) (*core.Transaction, error) {
	found := false
	b := s.modifyActive(ctx, func(b core.Board) core.Board {
		for i, t := range b.Transactions {
			if t.ID == updated.ID {
				b.Transactions[i] = updated
				found = true
				break
			}
		}
		return b
	})
	if b == nil {
		return nil, ErrNoActiveBoard
	}
	if !found {
		return nil, ErrNotFound
	}
	return &updated, nil
}

// DeleteTransaction removes a transaction by id from the active board.
// An absent id is a no-op, not an error.
func (s *BoardStore) DeleteTransaction(ctx context.Context, transactionID string) (*core.Board, error) {
	b := s.modifyActive(ctx, func(b core.Board) core.Board {
		txs := b.Transactions[:0]
		for _, t := range b.Transactions {
			if t.ID != transactionID {
				txs = append(txs, t)
			}
		}
		b.Transactions = txs
		return b
	})
	if b == nil {
		return nil, ErrNoActiveBoard
	}
	return b, nil
}

// modifyActive is the single primitive every ledger mutation funnels
// through: locate the active board, apply a pure transform on a copy,
// replace it in the collection, persist, and return the new value. Returns
// nil when no active board resolves, in which case nothing was applied.
func (s *BoardStore) modifyActive(ctx context.Context, transform func(core.Board) core.Board) *core.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(s.activeID)
	if i < 0 {
		return nil
	}
	next := transform(s.boards[i].Clone())
	s.boards[i] = next
	s.persistLocked(ctx)
	out := next.Clone()
	return &out
}

func (s *BoardStore) indexOfLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, b := range s.boards {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the full document. Failures degrade gracefully: the
// in-memory state stays authoritative for this session and the error is
// logged for the operator.
func (s *BoardStore) persistLocked(ctx context.Context) {
	doc := &BoardDocument{Boards: s.boards, ActiveBoardID: s.activeID}
	if err := s.persist.SaveBoards(ctx, s.userID, doc); err != nil {
		slog.ErrorContext(ctx, "Board state not persisted, continuing in memory",
			"user", s.userID, "boards", len(s.boards), "error", err)
	}
}
