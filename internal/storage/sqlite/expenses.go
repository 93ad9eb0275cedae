package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateExpense persists a new expense with its items and splits.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate IDs if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, payer_id, tax, total_amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.PayerID, expense.Tax, expense.TotalAmount, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range expense.Items {
		item := &expense.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.ExpenseID = expense.ID

		_, err = tx.ExecContext(ctx,
			`INSERT INTO expense_items (id, expense_id, position, name, amount, assigned_user_id)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			item.ID, expense.ID, i, item.Name, item.Amount, item.AssignedUserID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense item: %w", err)
		}
	}

	for i := range expense.Splits {
		split := &expense.Splits[i]
		if split.ID == "" {
			split.ID = uuid.New().String()
		}
		split.ExpenseID = expense.ID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (id, expense_id, user_id, amount) VALUES (?, ?, ?, ?)",
			split.ID, expense.ID, split.UserID, split.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	// Reconcile what was actually written before making it visible.
	stored, err := sumSplits(ctx, tx, expense.ID)
	if err != nil {
		return err
	}
	if !stored.Equal(expense.TotalAmount) {
		return fmt.Errorf("%w: expense %s has total %s but splits sum to %s",
			storage.ErrConservationViolation, expense.ID, expense.TotalAmount, stored)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including items and splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, description, payer_id, tax, total_amount, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.Description, &expense.PayerID, &expense.Tax, &expense.TotalAmount, &expense.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := loadExpenseDetails(ctx, s.db, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListExpensesByPayer retrieves all expenses paid by a user, newest first.
func (s *SQLiteStore) ListExpensesByPayer(ctx context.Context, payerID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, payer_id, tax, total_amount, created_at
		 FROM expenses WHERE payer_id = ? ORDER BY created_at DESC, id`,
		payerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by payer: %w", err)
	}

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.Description, &expense.PayerID,
			&expense.Tax, &expense.TotalAmount, &expense.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := loadExpenseDetails(ctx, s.db, expense); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}

// loadExpenseDetails fills in the items (in submission order) and splits
// (ordered by user ID) of an expense.
func loadExpenseDetails(ctx context.Context, q querier, expense *models.Expense) error {
	itemRows, err := q.QueryContext(ctx,
		`SELECT id, name, amount, assigned_user_id
		 FROM expense_items WHERE expense_id = ? ORDER BY position`,
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item := models.ExpenseItem{ExpenseID: expense.ID}
		var assignee sql.NullString
		if err := itemRows.Scan(&item.ID, &item.Name, &item.Amount, &assignee); err != nil {
			return fmt.Errorf("failed to scan expense item: %w", err)
		}
		if assignee.Valid {
			item.AssignedUserID = &assignee.String
		}
		expense.Items = append(expense.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense items: %w", err)
	}

	splitRows, err := q.QueryContext(ctx,
		"SELECT id, user_id, amount FROM expense_splits WHERE expense_id = ? ORDER BY user_id",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		split := models.ExpenseSplit{ExpenseID: expense.ID}
		if err := splitRows.Scan(&split.ID, &split.UserID, &split.Amount); err != nil {
			return fmt.Errorf("failed to scan expense split: %w", err)
		}
		expense.Splits = append(expense.Splits, split)
	}
	if err := splitRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense splits: %w", err)
	}

	return nil
}

// sumSplits adds up the stored split amounts of an expense in Go, since the
// amounts are decimal strings that SQLite would sum as floats.
func sumSplits(ctx context.Context, q querier, expenseID string) (decimal.Decimal, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT amount FROM expense_splits WHERE expense_id = ?",
		expenseID,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read expense splits: %w", err)
	}
	defer rows.Close()

	sum := decimal.Zero
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan split amount: %w", err)
		}
		sum = sum.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to iterate split amounts: %w", err)
	}

	return sum, nil
}
