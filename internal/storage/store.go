// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// ErrNotFound is returned when a requested user or expense does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a unique key (such as an email) is taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrConservationViolation is returned when the splits written for an
	// expense do not add up to its total. The write is rolled back.
	ErrConservationViolation = errors.New("conservation violation: splits do not sum to expense total")
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the engine or service layer.
//
// Every write is all-or-nothing. Expenses and settlements are immutable once
// created; the only destructive operation is ClearDebts.
type Store interface {
	// CreateUser persists a new user. Returns ErrAlreadyExists if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID returns ErrNotFound if no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail returns ErrNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUsersByIDs returns the users that exist among ids, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// ListUsers returns every user ordered by display name.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateExpense persists an expense with its items and splits in a single
	// transaction. IDs and CreatedAt are populated by the store. Before
	// committing, the stored split amounts are summed and compared with
	// TotalAmount; a mismatch aborts with ErrConservationViolation.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its items and splits.
	// Returns ErrNotFound if the expense does not exist.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByPayer returns the expenses paid by payerID, newest first.
	ListExpensesByPayer(ctx context.Context, payerID string) ([]*models.Expense, error)

	// CreateSettlement persists a new settlement. ID and CreatedAt are populated by the store.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsByUser returns settlements where userID is payer or payee, newest first.
	ListSettlementsByUser(ctx context.Context, userID string) ([]*models.Settlement, error)

	// LoadLedger reads every debt and settlement involving any of userIDs
	// from a single consistent snapshot.
	LoadLedger(ctx context.Context, userIDs ...string) (*models.LedgerSnapshot, error)

	// ClearDebts deletes every expense split between userA and userB, in
	// both directions, without recording a settlement. Returns the number
	// of splits removed.
	ClearDebts(ctx context.Context, userA, userB string) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
