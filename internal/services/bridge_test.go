package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"kassa/internal/core"
	"kassa/internal/store"
)

// nullPersistence satisfies both persistence ports without retaining
// anything; the bridge tests only care about in-memory behavior.
type nullPersistence struct{}

func (nullPersistence) LoadBoards(ctx context.Context, userID string) (*store.BoardDocument, error) {
	return nil, nil
}
func (nullPersistence) SaveBoards(ctx context.Context, userID string, doc *store.BoardDocument) error {
	return nil
}
func (nullPersistence) LoadBills(ctx context.Context, userID string) ([]core.Bill, error) {
	return nil, nil
}
func (nullPersistence) SaveBills(ctx context.Context, userID string, bills []core.Bill) error {
	return nil
}
func (nullPersistence) Users(ctx context.Context) ([]string, error) {
	return nil, nil
}

func newStores(t *testing.T) (*store.BillStore, *store.BoardStore) {
	t.Helper()
	ctx := context.Background()
	boards := store.NewBoardStore(nullPersistence{}, "u")
	if err := boards.Init(ctx); err != nil {
		t.Fatalf("init boards: %v", err)
	}
	bills := store.NewBillStore(nullPersistence{}, "u")
	if err := bills.Init(ctx); err != nil {
		t.Fatalf("init bills: %v", err)
	}
	return bills, boards
}

func addHyra(t *testing.T, bills *store.BillStore) core.Bill {
	t.Helper()
	b, err := bills.AddBill(context.Background(), core.Bill{
		Title:       "Hyra",
		AmountCents: 5000,
		DueDate:     time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("add bill: %v", err)
	}
	return b
}

func TestSettleBillEmitsTransaction(t *testing.T) {
	ctx := context.Background()
	bills, boards := newStores(t)
	bill := addHyra(t, bills)

	res, err := SettleBill(ctx, bills, boards, bill.ID)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !res.Bill.IsPaid || res.Bill.PaidDate == nil {
		t.Fatalf("bill not marked paid: %+v", res.Bill)
	}
	if !res.TransactionCreated || res.Transaction == nil {
		t.Fatalf("expected transaction, got %+v", res)
	}

	board := boards.ActiveBoard()
	cat, ok := board.CategoryByNameAndType(PaidBillsCategoryName, core.Expense)
	if !ok {
		t.Fatalf("paid-bills category missing")
	}
	if len(board.Transactions) != 1 {
		t.Fatalf("expected exactly 1 transaction, got %d", len(board.Transactions))
	}
	tx := board.Transactions[0]
	if tx.Title != "Hyra" || tx.AmountCents != 5000 || tx.CategoryID != cat.ID {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if !tx.Date.Equal(*res.Bill.PaidDate) {
		t.Fatalf("transaction date should equal paid date")
	}
}

func TestSettleBillReusesExistingCategory(t *testing.T) {
	ctx := context.Background()
	bills, boards := newStores(t)

	existing, err := boards.EnsureCategory(ctx, PaidBillsCategoryName, core.Expense, "🧾")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}

	first := addHyra(t, bills)
	second, _ := bills.AddBill(ctx, core.Bill{
		Title: "El", AmountCents: 89900, DueDate: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
	})
	if _, err := SettleBill(ctx, bills, boards, first.ID); err != nil {
		t.Fatalf("settle first: %v", err)
	}
	if _, err := SettleBill(ctx, bills, boards, second.ID); err != nil {
		t.Fatalf("settle second: %v", err)
	}

	board := boards.ActiveBoard()
	count := 0
	for _, c := range board.Categories {
		if c.Name == PaidBillsCategoryName {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 paid-bills category, got %d", count)
	}
	for _, tx := range board.Transactions {
		if tx.CategoryID != existing.ID {
			t.Fatalf("transaction booked against wrong category: %+v", tx)
		}
	}
}

func TestSettleBillUnknownID(t *testing.T) {
	bills, boards := newStores(t)
	_, err := SettleBill(context.Background(), bills, boards, "missing")
	if !errors.Is(err, ErrBillNotFound) {
		t.Fatalf("expected ErrBillNotFound, got %v", err)
	}
}

func TestSettleBillBackToUnpaidEmitsNothing(t *testing.T) {
	ctx := context.Background()
	bills, boards := newStores(t)
	bill := addHyra(t, bills)

	if _, err := SettleBill(ctx, bills, boards, bill.ID); err != nil {
		t.Fatalf("settle: %v", err)
	}
	res, err := SettleBill(ctx, bills, boards, bill.ID)
	if err != nil {
		t.Fatalf("settle back: %v", err)
	}
	if res.Bill.IsPaid {
		t.Fatalf("expected unpaid after second toggle")
	}
	if res.TransactionCreated {
		t.Fatalf("paid->unpaid must not create transactions")
	}
	// The first transaction stays; nothing is deleted on the way back.
	if got := len(boards.ActiveBoard().Transactions); got != 1 {
		t.Fatalf("expected the original transaction to remain, got %d", got)
	}
}

func TestSettleBillPartialFailureKeepsPaidFlag(t *testing.T) {
	ctx := context.Background()
	bills, _ := newStores(t)
	bill := addHyra(t, bills)

	// A board store that was never initialized has no active board, so the
	// ledger half of the bridge cannot run.
	emptyBoards := store.NewBoardStore(nullPersistence{}, "u")

	res, err := SettleBill(ctx, bills, emptyBoards, bill.ID)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !res.Bill.IsPaid {
		t.Fatalf("paid flag must not be rolled back")
	}
	if res.TransactionCreated || res.Transaction != nil {
		t.Fatalf("no transaction should exist: %+v", res)
	}
	if res.Reason == "" {
		t.Fatalf("partial failure must carry a reason")
	}
	// The divergence is observable from the bill store too.
	if got := bills.Bill(bill.ID); got == nil || !got.IsPaid {
		t.Fatalf("bill store lost the paid state")
	}
}
