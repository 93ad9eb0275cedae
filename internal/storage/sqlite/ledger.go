package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// LoadLedger reads every debt and settlement that involves any of userIDs.
// Both queries run inside one read-only transaction so the snapshot is
// consistent. Read-only transactions start deferred, so under WAL they do
// not wait for an in-flight writer.
func (s *SQLiteStore) LoadLedger(ctx context.Context, userIDs ...string) (*models.LedgerSnapshot, error) {
	snap := &models.LedgerSnapshot{}
	if len(userIDs) == 0 {
		return snap, nil
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	in := placeholders(len(userIDs))
	args := stringArgs(userIDs)

	debtRows, err := tx.QueryContext(ctx,
		`SELECT s.expense_id, e.payer_id, s.user_id, s.amount
		 FROM expense_splits s
		 JOIN expenses e ON e.id = s.expense_id
		 WHERE e.payer_id IN (`+in+`) OR s.user_id IN (`+in+`)`,
		append(args, args...)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load debts: %w", err)
	}
	for debtRows.Next() {
		var d models.Debt
		if err := debtRows.Scan(&d.ExpenseID, &d.CreditorID, &d.DebtorID, &d.Amount); err != nil {
			debtRows.Close()
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		snap.Debts = append(snap.Debts, d)
	}
	debtRows.Close()
	if err := debtRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}

	settlementRows, err := tx.QueryContext(ctx,
		`SELECT `+settlementColumns+`
		 FROM settlements
		 WHERE payer_id IN (`+in+`) OR payee_id IN (`+in+`)`,
		append(args, args...)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load settlements: %w", err)
	}
	for settlementRows.Next() {
		settlement, err := scanSettlement(settlementRows)
		if err != nil {
			settlementRows.Close()
			return nil, err
		}
		snap.Settlements = append(snap.Settlements, *settlement)
	}
	settlementRows.Close()
	if err := settlementRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return snap, nil
}

// ClearDebts deletes the expense splits between two users in both directions.
// No settlement is recorded, so the cleared amounts leave no audit trail.
func (s *SQLiteStore) ClearDebts(ctx context.Context, userA, userB string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM expense_splits WHERE id IN (
		     SELECT s.id FROM expense_splits s
		     JOIN expenses e ON e.id = s.expense_id
		     WHERE (e.payer_id = ? AND s.user_id = ?)
		        OR (e.payer_id = ? AND s.user_id = ?)
		 )`,
		userA, userB, userB, userA,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clear debts: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared debts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return removed, nil
}
