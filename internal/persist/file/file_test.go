package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"kassa/internal/core"
	"kassa/internal/store"
)

func TestLoadBoardsMissingRecord(t *testing.T) {
	s := New(t.TempDir())
	doc, err := s.LoadBoards(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc != nil {
		t.Fatalf("expected nil for absent record, got %+v", doc)
	}
}

func TestBoardsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(t.TempDir())
	user := "anna@example.com"

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	in := &store.BoardDocument{
		ActiveBoardID: "b1",
		Boards: []core.Board{
			{
				ID:        "b1",
				Name:      "Min budget",
				CreatedAt: now,
				Categories: []core.Category{
					{ID: "c1", Name: "Lön", Type: core.Income, Icon: "💰"},
					{ID: "c2", Name: "Mat", Type: core.Expense, Icon: "🍎"},
					{ID: "c3", Name: "Boende", Type: core.Expense, Icon: "🏠"},
				},
				Transactions: []core.Transaction{
					{ID: "t1", Title: "Lön mars", AmountCents: 3000000, Date: now, CategoryID: "c1"},
					{ID: "t2", Title: "ICA", AmountCents: 45000, Date: now, CategoryID: "c2"},
					{ID: "t3", Title: "Willys", AmountCents: 32000, Date: now, CategoryID: "c2"},
					{ID: "t4", Title: "Hyra", AmountCents: 850000, Date: now, CategoryID: "c3"},
					{ID: "t5", Title: "El", AmountCents: 89900, Date: now, CategoryID: "c3"},
				},
				SharedWith: []string{"sambo@example.com"},
			},
			{ID: "b2", Name: "Semester", CreatedAt: now},
		},
	}
	if err := s.SaveBoards(ctx, user, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := s.LoadBoards(ctx, user)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out == nil || out.ActiveBoardID != "b1" || len(out.Boards) != 2 {
		t.Fatalf("document shape lost: %+v", out)
	}
	b := out.Boards[0]
	if len(b.Categories) != 3 || len(b.Transactions) != 5 {
		t.Fatalf("board contents lost: %d categories, %d transactions", len(b.Categories), len(b.Transactions))
	}
	if b.Categories[0].Name != "Lön" || b.Categories[0].Type != core.Income {
		t.Fatalf("category fields lost: %+v", b.Categories[0])
	}
	if b.Transactions[3].Title != "Hyra" || b.Transactions[3].AmountCents != 850000 {
		t.Fatalf("transaction fields lost: %+v", b.Transactions[3])
	}
	if !b.CreatedAt.Equal(now) {
		t.Fatalf("created at lost: %v", b.CreatedAt)
	}
	if len(b.SharedWith) != 1 || b.SharedWith[0] != "sambo@example.com" {
		t.Fatalf("share list lost: %v", b.SharedWith)
	}
}

func TestBillsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(t.TempDir())
	user := "anna@example.com"

	paid := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	in := []core.Bill{
		{ID: "r1", Title: "Hyra", AmountCents: 850000, DueDate: paid.AddDate(0, 0, 28), IsPaid: true, PaidDate: &paid},
		{ID: "r2", Title: "El", AmountCents: 89900, DueDate: paid.AddDate(0, 0, 10), Notes: "vinterpris"},
	}
	if err := s.SaveBills(ctx, user, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := s.LoadBills(ctx, user)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 bills, got %d", len(out))
	}
	if !out[0].IsPaid || out[0].PaidDate == nil || !out[0].PaidDate.Equal(paid) {
		t.Fatalf("pay state lost: %+v", out[0])
	}
	if out[1].IsPaid || out[1].PaidDate != nil || out[1].Notes != "vinterpris" {
		t.Fatalf("second bill lost fields: %+v", out[1])
	}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s := New(base)

	if users, err := s.Users(ctx); err != nil || users != nil {
		t.Fatalf("fresh dir: users=%v err=%v", users, err)
	}

	if err := s.SaveBills(ctx, "anna@example.com", []core.Bill{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	// A user with only boards has no bill record and is not listed.
	if err := s.SaveBoards(ctx, "bjorn@example.com", &store.BoardDocument{}); err != nil {
		t.Fatalf("save boards: %v", err)
	}

	users, err := s.Users(ctx)
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if len(users) != 1 || users[0] != "anna@example.com" {
		t.Fatalf("expected [anna@example.com], got %v", users)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s := New(base)
	if err := s.SaveBills(ctx, "anna@example.com", []core.Bill{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(base, "anna@example.com"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "bills.json" {
			t.Fatalf("unexpected file left behind: %s", e.Name())
		}
	}
}

func TestUserKeySanitizesPathCharacters(t *testing.T) {
	cases := []struct{ in, out string }{
		{"anna@example.com", "anna@example.com"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"a b/c", "a_b_c"},
	}
	for _, tc := range cases {
		if got := userKey(tc.in); got != tc.out {
			t.Fatalf("%q expected %q, got %q", tc.in, tc.out, got)
		}
	}
}
