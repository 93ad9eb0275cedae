package models

import "github.com/shopspring/decimal"

// Settlement represents an out-of-band payment that reduces the payer's debt
// to the payee.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// PayerID is the user who paid (debtor settling up).
	PayerID string

	// PayeeID is the user who received payment (creditor being paid).
	PayeeID string

	// Amount is the payment amount. Always positive.
	Amount decimal.Decimal

	// Note is an optional description for the settlement.
	Note *string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
