package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/benjishults/budget/internal/database"
)

// AccountRepo handles accounts and their active periods.
type AccountRepo struct {
	db database.DBTX
}

func NewAccountRepo(db database.DBTX) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Insert(ctx context.Context, a Account) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO accounts(id, budget_id, name, description, type, balance, companion_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, a.ID, a.BudgetID, a.Name, a.Description, a.Type, a.BalanceCents, a.CompanionID)
	return err
}

func (r *AccountRepo) Get(ctx context.Context, id, budgetID string) (*Account, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, budget_id, name, description, type, balance, companion_id, created_at
	FROM accounts WHERE id = ? AND budget_id = ?`, id, budgetID)
	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) ListByBudget(ctx context.Context, budgetID string) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, budget_id, name, description, type, balance, companion_id, created_at
	FROM accounts WHERE budget_id = ? ORDER BY type, name`, budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateBalances applies each signed delta to its account row, in list order.
// A delta that matches no row is reported as an error so the enclosing unit
// of work rolls the earlier updates back.
func (r *AccountRepo) UpdateBalances(ctx context.Context, deltas []BalanceDelta) error {
	for _, d := range deltas {
		res, err := r.db.ExecContext(ctx, `UPDATE accounts SET balance = balance + ? WHERE id = ?`, d.Cents, d.AccountID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("update balance: no account row %s", d.AccountID)
		}
	}
	return nil
}

func (r *AccountRepo) Delete(ctx context.Context, id, budgetID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM account_active_periods WHERE account_id = ? AND budget_id = ?`, id, budgetID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ? AND budget_id = ?`, id, budgetID)
	return err
}

func (r *AccountRepo) InsertActivePeriod(ctx context.Context, p ActivePeriod) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO account_active_periods(id, account_id, budget_id, start_at, end_at)
	VALUES (?, ?, ?, ?, ?);
	`, p.ID, p.AccountID, p.BudgetID, p.StartAt, p.EndAt)
	return err
}

// CloseActivePeriod ends the account's open validity windows at the given
// instant, deactivating the account without deleting it.
func (r *AccountRepo) CloseActivePeriod(ctx context.Context, accountID, budgetID string, endAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE account_active_periods SET end_at = ?
	WHERE account_id = ? AND budget_id = ? AND end_at > ?`, endAt, accountID, budgetID, endAt)
	return err
}

// IsActive reports whether now falls strictly inside any of the account's
// validity windows.
func (r *AccountRepo) IsActive(ctx context.Context, accountID, budgetID string, now time.Time) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM account_active_periods
	WHERE account_id = ? AND budget_id = ? AND start_at < ? AND end_at > ?`,
		accountID, budgetID, now, now).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanAccount(row scanner) (Account, error) {
	var a Account
	var companion sql.NullString
	if err := row.Scan(&a.ID, &a.BudgetID, &a.Name, &a.Description, &a.Type,
		&a.BalanceCents, &companion, &a.CreatedAt); err != nil {
		return Account{}, err
	}
	if companion.Valid {
		a.CompanionID = &companion.String
	}
	return a, nil
}
