package models

import "github.com/shopspring/decimal"

// Expense represents a single payment split among one or more users.
// It is created once and never updated.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is the human-readable label (e.g., "Dinner").
	Description string

	// PayerID is the user who paid the whole amount.
	PayerID string

	// Tax is the tax added on top of the items. Never negative.
	Tax decimal.Decimal

	// TotalAmount is the sum of item amounts plus tax.
	// It always equals the sum of the expense's split amounts.
	TotalAmount decimal.Decimal

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// Items are the line items in submission order.
	Items []ExpenseItem

	// Splits are the per-user shares of TotalAmount.
	Splits []ExpenseSplit
}

// ExpenseItem represents a single line item on an expense.
type ExpenseItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// ExpenseID is the owning expense.
	ExpenseID string

	// Name is the item label (e.g., "Main Dish").
	Name string

	// Amount is the pre-tax price of this item. Always positive.
	Amount decimal.Decimal

	// AssignedUserID is set only for personal items (exactly one participant).
	// Nil marks a shared item.
	AssignedUserID *string
}

// Shared reports whether the item cost was divided among several users.
func (i ExpenseItem) Shared() bool {
	return i.AssignedUserID == nil
}

// ExpenseSplit records that UserID owes Amount toward ExpenseID.
// There is at most one split per (expense, user) pair.
type ExpenseSplit struct {
	ID        string
	ExpenseID string
	UserID    string
	Amount    decimal.Decimal
}
