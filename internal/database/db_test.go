package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrations(db))
	return db
}

func TestMigrationsCreateSchema(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	for _, table := range []string{"budgets", "accounts", "account_active_periods", "transactions", "transaction_items"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "missing table %s", table)
	}

	// running again is a no-op
	require.NoError(t, RunMigrations(db))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO budgets(id, name) VALUES ('b1', 'doomed')`)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM budgets`).Scan(&count))
	require.Zero(t, count)
}

func TestWithTxCommits(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	ctx := context.Background()

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO budgets(id, name) VALUES ('b1', 'kept')`)
		return err
	})
	require.NoError(t, err)

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM budgets WHERE id = 'b1'`).Scan(&name))
	require.Equal(t, "kept", name)
}

func TestForeignKeysEnforced(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO accounts(id, budget_id, name, type) VALUES ('a1', 'no-such-budget', 'X', 'real')`)
	require.Error(t, err)
}
