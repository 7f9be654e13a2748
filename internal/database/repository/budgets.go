package repository

import (
	"context"
	"database/sql"

	"github.com/benjishults/budget/internal/database"
)

// BudgetRepo handles budget rows.
type BudgetRepo struct {
	db database.DBTX
}

func NewBudgetRepo(db database.DBTX) *BudgetRepo { return &BudgetRepo{db: db} }

func (r *BudgetRepo) Insert(ctx context.Context, b Budget) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO budgets(id, name, general_account_id, created_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP);
	`, b.ID, b.Name, b.GeneralAccountID)
	return err
}

func (r *BudgetRepo) SetGeneralAccount(ctx context.Context, budgetID, accountID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE budgets SET general_account_id = ? WHERE id = ?`, accountID, budgetID)
	return err
}

func (r *BudgetRepo) GetByName(ctx context.Context, name string) (*Budget, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, general_account_id, created_at FROM budgets WHERE name = ?`, name)
	return scanBudget(row)
}

func (r *BudgetRepo) Get(ctx context.Context, id string) (*Budget, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, general_account_id, created_at FROM budgets WHERE id = ?`, id)
	return scanBudget(row)
}

func scanBudget(row *sql.Row) (*Budget, error) {
	var b Budget
	var general sql.NullString
	if err := row.Scan(&b.ID, &b.Name, &general, &b.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if general.Valid {
		b.GeneralAccountID = &general.String
	}
	return &b, nil
}
