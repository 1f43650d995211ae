package core

import (
	"testing"
	"time"
)

func TestCategoryValidate(t *testing.T) {
	good := Category{Name: "Mat", Type: Expense, Icon: "🍎"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Category{
		{Name: "", Type: Expense},
		{Name: "   ", Type: Income},
		{Name: "Mat", Type: "savings"},
		{Name: "Mat", Type: ""},
	}
	for i, c := range bads {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Title:       "ICA",
		AmountCents: 12300,
		Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CategoryID:  "cat-1",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// Zero amounts are allowed on transactions; negatives are not.
	good.AmountCents = 0
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok for zero amount, got %v", err)
	}

	bads := []Transaction{
		{Title: "", AmountCents: 1, Date: good.Date, CategoryID: "c"},
		{Title: "a", AmountCents: -1, Date: good.Date, CategoryID: "c"},
		{Title: "a", AmountCents: 1, Date: time.Time{}, CategoryID: "c"},
		{Title: "a", AmountCents: 1, Date: good.Date, CategoryID: ""},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBillValidate(t *testing.T) {
	good := Bill{
		Title:       "Hyra",
		AmountCents: 500000,
		DueDate:     time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Bill{
		{Title: "", AmountCents: 1, DueDate: good.DueDate},
		{Title: "Hyra", AmountCents: 0, DueDate: good.DueDate},
		{Title: "Hyra", AmountCents: -1, DueDate: good.DueDate},
		{Title: "Hyra", AmountCents: 1, DueDate: time.Time{}},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBoardClone(t *testing.T) {
	b := Board{
		ID:           "b1",
		Name:         "Min budget",
		Categories:   []Category{{ID: "c1", Name: "Mat", Type: Expense}},
		Transactions: []Transaction{{ID: "t1", Title: "ICA", CategoryID: "c1"}},
		SharedWith:   []string{"anna@example.com"},
	}
	c := b.Clone()
	c.Categories[0].Name = "changed"
	c.Transactions[0].Title = "changed"
	c.SharedWith[0] = "changed"

	if b.Categories[0].Name != "Mat" || b.Transactions[0].Title != "ICA" || b.SharedWith[0] != "anna@example.com" {
		t.Fatalf("clone shares backing arrays with original")
	}
}

func TestBoardLookups(t *testing.T) {
	b := Board{
		Categories: []Category{
			{ID: "c1", Name: "Mat", Type: Expense},
			{ID: "c2", Name: "Mat", Type: Income},
		},
		Transactions: []Transaction{{ID: "t1", Title: "ICA", CategoryID: "c1"}},
	}

	if c, ok := b.CategoryByID("c2"); !ok || c.Type != Income {
		t.Fatalf("CategoryByID c2: got %+v ok=%v", c, ok)
	}
	if _, ok := b.CategoryByID("nope"); ok {
		t.Fatalf("expected miss for unknown id")
	}

	// Same name, different type: the type disambiguates.
	if c, ok := b.CategoryByNameAndType("Mat", Income); !ok || c.ID != "c2" {
		t.Fatalf("CategoryByNameAndType: got %+v ok=%v", c, ok)
	}
	if _, ok := b.CategoryByNameAndType("Hyra", Expense); ok {
		t.Fatalf("expected miss for unknown name")
	}

	if tx, ok := b.TransactionByID("t1"); !ok || tx.Title != "ICA" {
		t.Fatalf("TransactionByID: got %+v ok=%v", tx, ok)
	}
}
