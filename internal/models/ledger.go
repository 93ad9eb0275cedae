package models

import "github.com/shopspring/decimal"

// Debt is an expense split joined with the payer of its expense:
// DebtorID owes CreditorID Amount because of ExpenseID.
// A debt where DebtorID == CreditorID is the payer's own share.
type Debt struct {
	ExpenseID  string
	CreditorID string
	DebtorID   string
	Amount     decimal.Decimal
}

// LedgerSnapshot is every committed debt and settlement touching a set of
// users, read at a single point in time.
type LedgerSnapshot struct {
	Debts       []Debt
	Settlements []Settlement
}
