package repository

import (
	"context"
	"database/sql"

	"github.com/benjishults/budget/internal/database"
)

// TransactionRepo handles transactions and their items.
type TransactionRepo struct {
	db database.DBTX
}

func NewTransactionRepo(db database.DBTX) *TransactionRepo { return &TransactionRepo{db: db} }

func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transactions(id, budget_id, description, timestamp, type, cleared_by_id)
	VALUES (?, ?, ?, ?, ?, ?);
	`, t.ID, t.BudgetID, t.Description, t.Timestamp, t.Type, t.ClearedByID)
	return err
}

func (r *TransactionRepo) InsertItems(ctx context.Context, items []Item) error {
	for _, it := range items {
		_, err := r.db.ExecContext(ctx, `
		INSERT INTO transaction_items(id, transaction_id, account_id, budget_id, amount, description, draft_status)
		VALUES (?, ?, ?, ?, ?, ?, ?);
		`, it.ID, it.TransactionID, it.AccountID, it.BudgetID, it.AmountCents, it.Description, it.DraftStatus)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *TransactionRepo) Get(ctx context.Context, id, budgetID string) (*Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, budget_id, description, timestamp, type, cleared_by_id
	FROM transactions WHERE id = ? AND budget_id = ?`, id, budgetID)
	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepo) Items(ctx context.Context, transactionID string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, transaction_id, account_id, budget_id, amount, description, draft_status
	FROM transaction_items WHERE transaction_id = ? ORDER BY id`, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// SetClearedBy records that clearingID settled transaction id.
func (r *TransactionRepo) SetClearedBy(ctx context.Context, id, clearingID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE transactions SET cleared_by_id = ? WHERE id = ?`, clearingID, id)
	return err
}

// ClearsAnything reports whether any transaction row names id as the one
// that cleared it.
func (r *TransactionRepo) ClearsAnything(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE cleared_by_id = ?`, id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AccountHasItems reports whether any transaction item references the
// account.
func (r *TransactionRepo) AccountHasItems(ctx context.Context, accountID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transaction_items WHERE account_id = ?`, accountID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TransactionRepo) SetItemDraftStatus(ctx context.Context, itemID, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE transaction_items SET draft_status = ? WHERE id = ?`, status, itemID)
	return err
}

func (r *TransactionRepo) DeleteItems(ctx context.Context, transactionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transaction_items WHERE transaction_id = ?`, transactionID)
	return err
}

func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	return err
}

// ItemsForAccount returns one page of an account's items, newest first.
// The order is total: timestamp ties are broken by transaction id, and any
// consumer reconstructing running balances depends on this exact order being
// stable across queries.
func (r *TransactionRepo) ItemsForAccount(ctx context.Context, accountID string, limit, offset int) ([]AccountItem, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT i.id, i.transaction_id, i.account_id, i.budget_id, i.amount, i.description, i.draft_status,
	       t.timestamp, t.description, t.type
	FROM transaction_items i
	JOIN transactions t ON t.id = i.transaction_id
	WHERE i.account_id = ?
	ORDER BY t.timestamp DESC, t.id DESC
	LIMIT ? OFFSET ?`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountItem
	for rows.Next() {
		var ai AccountItem
		var desc sql.NullString
		if err := rows.Scan(&ai.ID, &ai.TransactionID, &ai.AccountID, &ai.BudgetID,
			&ai.AmountCents, &desc, &ai.DraftStatus,
			&ai.Timestamp, &ai.TransactionDescription, &ai.TransactionType); err != nil {
			return nil, err
		}
		if desc.Valid {
			ai.Description = &desc.String
		}
		out = append(out, ai)
	}
	return out, rows.Err()
}

// scanner handles nullable fields for both Row and Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var clearedBy sql.NullString
	if err := row.Scan(&t.ID, &t.BudgetID, &t.Description, &t.Timestamp, &t.Type, &clearedBy); err != nil {
		return Transaction{}, err
	}
	if clearedBy.Valid {
		t.ClearedByID = &clearedBy.String
	}
	return t, nil
}

func scanItem(row scanner) (Item, error) {
	var it Item
	var desc sql.NullString
	if err := row.Scan(&it.ID, &it.TransactionID, &it.AccountID, &it.BudgetID,
		&it.AmountCents, &desc, &it.DraftStatus); err != nil {
		return Item{}, err
	}
	if desc.Valid {
		it.Description = &desc.String
	}
	return it, nil
}
