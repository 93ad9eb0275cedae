package ledger

import (
	"errors"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/storage"
)

var (
	// ErrInvalidInput covers malformed requests: missing payer, self-settlement
	// and similar.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidSettlementAmount is returned for a zero, negative or sub-cent settlement.
	ErrInvalidSettlementAmount = errors.New("invalid settlement amount")

	// ErrNothingToSettle is returned by SettleUp when the payer owes the payee nothing.
	ErrNothingToSettle = errors.New("nothing to settle")

	ErrInvalidItem           = calculator.ErrInvalidItem
	ErrInvalidTax            = calculator.ErrInvalidTax
	ErrNotFound              = storage.ErrNotFound
	ErrConservationViolation = storage.ErrConservationViolation
)

// IsValidation reports whether err was caused by the caller's input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidSettlementAmount) ||
		errors.Is(err, ErrInvalidItem) ||
		errors.Is(err, ErrInvalidTax)
}
