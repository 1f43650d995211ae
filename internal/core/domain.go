package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  CategoryType = "income"
	Expense CategoryType = "expense"
)

type (
	CategoryType string

	// Category is a labeled bucket transactions are classified into.
	// It belongs to exactly one board.
	Category struct {
		ID   string       `json:"id"`
		Name string       `json:"name"`
		Type CategoryType `json:"type"`
		Icon string       `json:"icon,omitempty"`
	}

	// Transaction is a single dated monetary entry in a board's ledger.
	// The semantic sign of the amount is implied by the category type.
	Transaction struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		AmountCents int64     `json:"amount_cents"`
		Date        time.Time `json:"date"`
		Description string    `json:"description,omitempty"`
		CategoryID  string    `json:"category_id"`
	}

	// Board is one budget context: a named collection of categories and
	// transactions, both kept in insertion order.
	Board struct {
		ID           string        `json:"id"`
		Name         string        `json:"name"`
		Categories   []Category    `json:"categories"`
		Transactions []Transaction `json:"transactions"`
		CreatedAt    time.Time     `json:"created_at"`
		SharedWith   []string      `json:"shared_with,omitempty"`
	}

	// Bill is a payable obligation tracked independently of boards.
	// PaidDate is present exactly when IsPaid is true. CategoryID is a weak
	// reference to an expense category and may dangle after category deletion.
	Bill struct {
		ID          string     `json:"id"`
		Title       string     `json:"title"`
		AmountCents int64      `json:"amount_cents"`
		DueDate     time.Time  `json:"due_date"`
		IsPaid      bool       `json:"is_paid"`
		PaidDate    *time.Time `json:"paid_date,omitempty"`
		Notes       string     `json:"notes,omitempty"`
		CategoryID  string     `json:"category_id,omitempty"`
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyTitle          = errors.New("empty title")
	ErrEmptyName           = errors.New("empty name")
	ErrInvalidCategoryType = errors.New("invalid category type")
	ErrMissingCategory     = errors.New("missing category reference")
	ErrZeroDate            = errors.New("date cannot be zero")
)

func (t CategoryType) IsValid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if !c.Type.IsValid() {
		return ErrInvalidCategoryType
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if len(t.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if t.AmountCents < 0 {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if strings.TrimSpace(t.CategoryID) == "" {
		return ErrMissingCategory
	}
	return nil
}

func (b Bill) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyTitle
	}
	if len(b.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if b.AmountCents <= 0 {
		return ErrInvalidAmount
	}
	if b.DueDate.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// CategoryByID looks a category up within the board. The second return value
// is false when the id does not resolve; callers must tolerate dangling
// references from transactions and bills.
func (b Board) CategoryByID(id string) (Category, bool) {
	for _, c := range b.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryByNameAndType finds a category by exact name and type. This is the
// implicit key the paid-bills bridge matches on.
func (b Board) CategoryByNameAndType(name string, typ CategoryType) (Category, bool) {
	for _, c := range b.Categories {
		if c.Name == name && c.Type == typ {
			return c, true
		}
	}
	return Category{}, false
}

// TransactionByID looks a transaction up within the board.
func (b Board) TransactionByID(id string) (Transaction, bool) {
	for _, t := range b.Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}

// IsSharedWith reports whether the board has been shared with the given email.
func (b Board) IsSharedWith(email string) bool {
	for _, e := range b.SharedWith {
		if e == email {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the board so callers can hand boards out
// without exposing internal slices to mutation.
func (b Board) Clone() Board {
	out := b
	out.Categories = append([]Category(nil), b.Categories...)
	out.Transactions = append([]Transaction(nil), b.Transactions...)
	out.SharedWith = append([]string(nil), b.SharedWith...)
	return out
}
