// Package services holds orchestration that spans more than one store.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kassa/internal/core"
	"kassa/internal/store"
)

const (
	// PaidBillsCategoryName is the expense category paid bills are booked
	// under. The bridge matches it by exact name and type; renaming the
	// category makes the bridge create a fresh one.
	PaidBillsCategoryName = "Betalda Räkningar"

	paidBillsIcon = "🧾"
)

// ErrBillNotFound is returned when the bill id does not resolve at all.
var ErrBillNotFound = errors.New("bill not found")

// SettleResult reports what the bill→board bridge actually did. A paid bill
// without a created transaction is the partial-failure state: the paid flag
// is not rolled back, but no ledger entry exists, and Reason says why.
type SettleResult struct {
	Bill               *core.Bill        `json:"bill"`
	Category           *core.Category    `json:"category,omitempty"`
	Transaction        *core.Transaction `json:"transaction,omitempty"`
	TransactionCreated bool              `json:"transaction_created"`
	Reason             string            `json:"reason,omitempty"`
}

// SettleBill toggles the bill's paid status and, on the unpaid→paid
// transition, emits a matching transaction into the active board's ledger:
// it ensures the paid-bills expense category exists and appends a
// transaction dated at the payment time, describing the source bill.
//
// The orchestration lives outside both stores on purpose; each store stays
// independent and the one cross-store coupling is explicit here. On the
// paid→unpaid transition nothing is emitted or deleted.
func SettleBill(ctx context.Context, bills *store.BillStore, boards *store.BoardStore, billID string) (SettleResult, error) {
	bill := bills.ToggleBillPaidStatus(ctx, billID)
	if bill == nil {
		return SettleResult{}, ErrBillNotFound
	}
	res := SettleResult{Bill: bill}
	if !bill.IsPaid {
		slog.InfoContext(ctx, "Bill marked unpaid", "bill_id", bill.ID, "title", bill.Title)
		return res, nil
	}

	cat, err := boards.EnsureCategory(ctx, PaidBillsCategoryName, core.Expense, paidBillsIcon)
	if err != nil {
		// The bill stays paid; surface the divergence instead of rolling
		// back, matching the documented partial-failure contract.
		res.Reason = "no active board"
		slog.WarnContext(ctx, "Bill marked paid but no transaction created",
			"bill_id", bill.ID, "reason", res.Reason, "error", err)
		return res, nil
	}
	res.Category = cat

	tx, err := boards.AddTransaction(ctx, core.Transaction{
		Title:       bill.Title,
		AmountCents: bill.AmountCents,
		Date:        *bill.PaidDate,
		Description: fmt.Sprintf("Betald räkning %s", bill.ID),
		CategoryID:  cat.ID,
	})
	if err != nil {
		res.Reason = "transaction not created"
		slog.WarnContext(ctx, "Bill marked paid but no transaction created",
			"bill_id", bill.ID, "reason", res.Reason, "error", err)
		return res, nil
	}

	res.Transaction = tx
	res.TransactionCreated = true
	slog.InfoContext(ctx, "Bill settled into active board",
		"bill_id", bill.ID,
		"transaction_id", tx.ID,
		"category_id", cat.ID,
		"amount_cents", tx.AmountCents)
	return res, nil
}
