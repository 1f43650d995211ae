package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"kassa/internal/core"
)

// BillStore owns one user's bills, independent of any board. Payment
// transitions are purely local here; emitting a ledger transaction is the
// calling layer's job (see services.SettleBill) so both stores stay
// testable in isolation.
type BillStore struct {
	mu      sync.RWMutex
	persist BillPersistence
	userID  string

	bills []core.Bill
}

func NewBillStore(persist BillPersistence, userID string) *BillStore {
	return &BillStore{persist: persist, userID: userID}
}

// Init loads the persisted bill collection; an absent record means an empty
// collection.
func (s *BillStore) Init(ctx context.Context) error {
	bills, err := s.persist.LoadBills(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("load bills: %w", err)
	}
	s.mu.Lock()
	s.bills = bills
	s.mu.Unlock()
	return nil
}

// Bills returns a copy of the collection in insertion order.
func (s *BillStore) Bills() []core.Bill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Bill(nil), s.bills...)
}

// Bill returns a copy of the bill with the given id, or nil.
func (s *BillStore) Bill(id string) *core.Bill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOfLocked(id); i >= 0 {
		b := s.bills[i]
		return &b
	}
	return nil
}

// AddBill creates a bill with a fresh id. New bills always start unpaid
// with no paid date, whatever the input says.
func (s *BillStore) AddBill(ctx context.Context, data core.Bill) (core.Bill, error) {
	if err := data.Validate(); err != nil {
		return core.Bill{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b := data
	b.ID = uuid.NewString()
	b.IsPaid = false
	b.PaidDate = nil
	s.bills = append(s.bills, b)
	s.persistLocked(ctx)
	slog.InfoContext(ctx, "Bill created",
		"user", s.userID, "bill_id", b.ID, "title", b.Title, "amount_cents", b.AmountCents)
	return b, nil
}

// ToggleBillPaidStatus flips the paid flag. The paid date is set on the
// false→true transition and cleared on the way back; the returned copy lets
// the caller detect the direction. Returns nil when the id does not exist.
func (s *BillStore) ToggleBillPaidStatus(ctx context.Context, id string) *core.Bill {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(id)
	if i < 0 {
		return nil
	}
	b := &s.bills[i]
	b.IsPaid = !b.IsPaid
	if b.IsPaid {
		now := time.Now().UTC()
		b.PaidDate = &now
	} else {
		b.PaidDate = nil
	}
	s.persistLocked(ctx)
	out := *b
	return &out
}

// UpdateBill replaces the bill with a matching id. Unset optional fields
// (notes, category) retain their prior values; the payment state is owned
// by ToggleBillPaidStatus and never changed here.
func (s *BillStore) UpdateBill(ctx context.Context, updated core.Bill) (*core.Bill, error) {
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(updated.ID)
	if i < 0 {
		return nil, ErrNotFound
	}
	prev := s.bills[i]
	next := updated
	if next.Notes == "" {
		next.Notes = prev.Notes
	}
	if next.CategoryID == "" {
		next.CategoryID = prev.CategoryID
	}
	next.IsPaid = prev.IsPaid
	next.PaidDate = prev.PaidDate
	s.bills[i] = next
	s.persistLocked(ctx)
	out := next
	return &out, nil
}

// DeleteBill removes the bill and returns a copy of it, or nil when the id
// is absent. Transactions previously emitted by paying the bill are left
// untouched; they are independent entries the user manages separately.
func (s *BillStore) DeleteBill(ctx context.Context, id string) *core.Bill {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(id)
	if i < 0 {
		return nil
	}
	removed := s.bills[i]
	s.bills = append(s.bills[:i], s.bills[i+1:]...)
	s.persistLocked(ctx)
	return &removed
}

// UnpaidDueWithin returns unpaid bills whose due date falls before
// now+window, overdue ones included. The reminder worker feeds on this.
func (s *BillStore) UnpaidDueWithin(now time.Time, window time.Duration) []core.Bill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var due []core.Bill
	cutoff := now.Add(window)
	for _, b := range s.bills {
		if !b.IsPaid && b.DueDate.Before(cutoff) {
			due = append(due, b)
		}
	}
	return due
}

func (s *BillStore) indexOfLocked(id string) int {
	for i, b := range s.bills {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (s *BillStore) persistLocked(ctx context.Context) {
	if err := s.persist.SaveBills(ctx, s.userID, s.bills); err != nil {
		slog.ErrorContext(ctx, "Bill state not persisted, continuing in memory",
			"user", s.userID, "bills", len(s.bills), "error", err)
	}
}
