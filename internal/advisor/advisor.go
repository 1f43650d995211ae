// Package advisor defines the budget-suggestion collaborator interface.
//
// The core never calls a language model itself; it only supplies the
// aggregates. Any implementation can be injected into the HTTP layer.
package advisor

import (
	"context"

	"kassa/internal/core"
)

// CategoryExpense is one expense aggregate fed to the advisor.
type CategoryExpense struct {
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
}

// BudgetInput is the advisor's input: total income plus expenses grouped by
// category name.
type BudgetInput struct {
	IncomeCents int64             `json:"income_cents"`
	Expenses    []CategoryExpense `json:"expenses"`
}

// Suggestion is one advisor recommendation: a category and a free-form
// adjustment, e.g. "minska med 500 kr".
type Suggestion struct {
	Category   string `json:"category"`
	Adjustment string `json:"adjustment"`
}

// Advisor produces budget suggestions from the current aggregates.
type Advisor interface {
	Suggest(ctx context.Context, in BudgetInput) ([]Suggestion, error)
}

// InputFromSummary converts a board summary into advisor input.
func InputFromSummary(s core.BudgetSummary) BudgetInput {
	in := BudgetInput{IncomeCents: s.IncomeCents}
	for _, c := range s.ByCategory {
		in.Expenses = append(in.Expenses, CategoryExpense{Category: c.Name, AmountCents: c.AmountCents})
	}
	return in
}
