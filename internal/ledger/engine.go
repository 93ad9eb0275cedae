// Package ledger ties the split calculator and balance functions to
// persistent storage.
//
// Engine is stateless between calls: every balance is recomputed from the
// committed expense splits and settlements, and every write goes through a
// single store transaction.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Engine implements the expense, settlement and balance operations.
type Engine struct {
	store   storage.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewEngine creates an Engine. m may be nil.
func NewEngine(store storage.Store, logger *slog.Logger, m *metrics.Metrics) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, logger: logger, metrics: m}
}

// ItemInput is one line of a submitted expense. Participants must be
// non-empty; defaulting an empty list to the payer is up to the caller.
type ItemInput struct {
	Name         string
	Amount       decimal.Decimal
	Participants []string
}

// CreateExpenseInput describes an expense to record.
type CreateExpenseInput struct {
	Description string
	PayerID     string
	Tax         decimal.Decimal
	Items       []ItemInput
}

// CreateExpense splits the expense and persists it with its items and
// splits atomically. Users whose share is exactly zero get no split.
func (e *Engine) CreateExpense(ctx context.Context, in CreateExpenseInput) (*models.Expense, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if in.PayerID == "" {
		return nil, fmt.Errorf("%w: payer is required", ErrInvalidInput)
	}

	items := make([]calculator.Item, len(in.Items))
	for i, item := range in.Items {
		items[i] = calculator.Item{
			Name:         item.Name,
			Amount:       item.Amount,
			Participants: item.Participants,
		}
	}

	result, err := calculator.CalculateSplit(items, in.Tax)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(result.Splits)+1)
	userIDs = append(userIDs, in.PayerID)
	for userID := range result.Splits {
		userIDs = append(userIDs, userID)
	}
	if err := e.requireUsers(ctx, userIDs...); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Description: description,
		PayerID:     in.PayerID,
		Tax:         result.Tax,
		TotalAmount: result.Total,
		Items:       result.Items,
	}
	for _, userID := range sortedKeys(result.Splits) {
		amount := result.Splits[userID].Total
		if amount.IsZero() {
			continue
		}
		expense.Splits = append(expense.Splits, models.ExpenseSplit{UserID: userID, Amount: amount})
	}

	if err := e.store.CreateExpense(ctx, expense); err != nil {
		if errors.Is(err, storage.ErrConservationViolation) {
			e.metrics.ConservationViolation()
			e.logger.Error("Expense rejected by conservation check",
				"payer_id", in.PayerID,
				"total", result.Total.String(),
				"error", err,
			)
		}
		return nil, err
	}

	e.metrics.ExpenseCreated()
	e.logger.Info("Expense created",
		"expense_id", expense.ID,
		"payer_id", expense.PayerID,
		"total", expense.TotalAmount.String(),
		"items", len(expense.Items),
		"splits", len(expense.Splits),
	)
	return expense, nil
}

// CreateSettlement records a payment of amount from payerID to payeeID.
func (e *Engine) CreateSettlement(ctx context.Context, payerID, payeeID string, amount decimal.Decimal, note *string) (*models.Settlement, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: must be positive (got %s)", ErrInvalidSettlementAmount, amount)
	}
	if !amount.Equal(amount.Truncate(calculator.UnitPlaces)) {
		return nil, fmt.Errorf("%w: %s is not a whole number of cents", ErrInvalidSettlementAmount, amount)
	}
	if payerID == "" || payeeID == "" {
		return nil, fmt.Errorf("%w: payer and payee are required", ErrInvalidInput)
	}
	if payerID == payeeID {
		return nil, fmt.Errorf("%w: cannot settle with yourself", ErrInvalidInput)
	}
	if err := e.requireUsers(ctx, payerID, payeeID); err != nil {
		return nil, err
	}

	if note != nil {
		trimmed := strings.TrimSpace(*note)
		note = &trimmed
		if trimmed == "" {
			note = nil
		}
	}

	settlement := &models.Settlement{
		PayerID: payerID,
		PayeeID: payeeID,
		Amount:  amount,
		Note:    note,
	}
	if err := e.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, err
	}

	e.metrics.SettlementCreated()
	e.logger.Info("Settlement created",
		"settlement_id", settlement.ID,
		"payer_id", payerID,
		"payee_id", payeeID,
		"amount", amount.String(),
	)
	return settlement, nil
}

// SettleUp records a settlement for everything payerID currently owes
// payeeID. Returns ErrNothingToSettle if that amount is not positive.
func (e *Engine) SettleUp(ctx context.Context, payerID, payeeID string, note *string) (*models.Settlement, error) {
	pair, err := e.GetPairwiseBalance(ctx, payerID, payeeID)
	if err != nil {
		return nil, err
	}
	if !pair.IOwe.IsPositive() {
		return nil, fmt.Errorf("%w: %s owes %s %s", ErrNothingToSettle, payerID, payeeID, pair.IOwe)
	}
	return e.CreateSettlement(ctx, payerID, payeeID, pair.IOwe, note)
}

// GetBalance returns the overall position of userID. A user with no
// activity gets all zeros.
func (e *Engine) GetBalance(ctx context.Context, userID string) (calculator.Balance, error) {
	snap, err := e.store.LoadLedger(ctx, userID)
	if err != nil {
		return calculator.Balance{}, err
	}
	return calculator.Summarize(snap, userID), nil
}

// GetFriendBalances returns who owes userID and whom userID owes, keeping
// only strictly positive amounts.
func (e *Engine) GetFriendBalances(ctx context.Context, userID string) (calculator.FriendBalances, error) {
	snap, err := e.store.LoadLedger(ctx, userID)
	if err != nil {
		return calculator.FriendBalances{}, err
	}
	return calculator.Friends(snap, userID), nil
}

// GetPairwiseBalance returns the position of userID against friendID.
func (e *Engine) GetPairwiseBalance(ctx context.Context, userID, friendID string) (calculator.PairBalance, error) {
	snap, err := e.store.LoadLedger(ctx, userID)
	if err != nil {
		return calculator.PairBalance{}, err
	}
	return calculator.Pairwise(snap, userID, friendID), nil
}

// ClearDebts deletes every expense split between the two users without
// recording a settlement. Unlike CreateSettlement it leaves no audit trail,
// and the affected expenses no longer reconcile with their totals.
func (e *Engine) ClearDebts(ctx context.Context, userA, userB string) (int64, error) {
	if userA == "" || userB == "" {
		return 0, fmt.Errorf("%w: both users are required", ErrInvalidInput)
	}
	if userA == userB {
		return 0, fmt.Errorf("%w: cannot clear debts with yourself", ErrInvalidInput)
	}
	if err := e.requireUsers(ctx, userA, userB); err != nil {
		return 0, err
	}

	removed, err := e.store.ClearDebts(ctx, userA, userB)
	if err != nil {
		return 0, err
	}

	e.metrics.DebtsCleared(removed)
	e.logger.Warn("Debts cleared without settlement record",
		"user_a", userA,
		"user_b", userB,
		"splits_removed", removed,
	)
	return removed, nil
}

// GetExpense returns an expense with its items and splits.
func (e *Engine) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	return e.store.GetExpense(ctx, expenseID)
}

// ListExpensesPaidBy returns the expenses userID paid for, newest first.
func (e *Engine) ListExpensesPaidBy(ctx context.Context, userID string) ([]*models.Expense, error) {
	return e.store.ListExpensesByPayer(ctx, userID)
}

// ListSettlements returns the settlements userID paid or received, newest first.
func (e *Engine) ListSettlements(ctx context.Context, userID string) ([]*models.Settlement, error) {
	return e.store.ListSettlementsByUser(ctx, userID)
}

// requireUsers returns ErrNotFound naming the first missing user.
func (e *Engine) requireUsers(ctx context.Context, userIDs ...string) error {
	ids := slices.Compact(slices.Sorted(slices.Values(userIDs)))
	users, err := e.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := users[id]; !ok {
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
