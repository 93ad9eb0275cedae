package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
)

var errAuthRequired = errors.New("authentication required")

// connectError maps engine and storage errors onto Connect codes.
func connectError(err error) *connect.Error {
	var ce *connect.Error
	switch {
	case errors.As(err, &ce):
		return ce
	case ledger.IsValidation(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ledger.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ledger.ErrNothingToSettle):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, ledger.ErrConservationViolation):
		return connect.NewError(connect.CodeInternal, fmt.Errorf("expense could not be balanced: %w", err))
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
