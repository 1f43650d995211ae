package core

// UnknownCategoryName is the bucket dangling category references end up in.
// Deleting a category cascades to its transactions, but bills keep weak
// references, so the bucket can still show up after a paid-bills emit.
const UnknownCategoryName = "Okänd kategori"

// CategoryAmount is an amount aggregated by category name.
type CategoryAmount struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
}

// BudgetSummary holds the aggregates the dashboard and the budget advisor
// consume: total income, total expenses, and expenses grouped by category.
type BudgetSummary struct {
	IncomeCents  int64            `json:"income_cents"`
	ExpenseCents int64            `json:"expense_cents"`
	ByCategory   []CategoryAmount `json:"by_category"`
}

// Summarize aggregates a board's ledger. Income-typed transactions feed the
// income total; expense-typed ones are grouped by category name in board
// category order. Transactions whose category id no longer resolves are
// tolerated and grouped under UnknownCategoryName, appended last.
func Summarize(b Board) BudgetSummary {
	var s BudgetSummary

	byID := make(map[string]Category, len(b.Categories))
	expenseCents := make(map[string]int64)
	var unknownCents int64

	for _, c := range b.Categories {
		byID[c.ID] = c
	}

	for _, t := range b.Transactions {
		cat, ok := byID[t.CategoryID]
		if !ok {
			unknownCents += t.AmountCents
			s.ExpenseCents += t.AmountCents
			continue
		}
		switch cat.Type {
		case Income:
			s.IncomeCents += t.AmountCents
		case Expense:
			s.ExpenseCents += t.AmountCents
			expenseCents[cat.Name] += t.AmountCents
		}
	}

	for _, c := range b.Categories {
		if c.Type != Expense {
			continue
		}
		if cents, ok := expenseCents[c.Name]; ok {
			s.ByCategory = append(s.ByCategory, CategoryAmount{Name: c.Name, AmountCents: cents})
			delete(expenseCents, c.Name)
		}
	}
	if unknownCents > 0 {
		s.ByCategory = append(s.ByCategory, CategoryAmount{Name: UnknownCategoryName, AmountCents: unknownCents})
	}

	return s
}
