package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benjishults/budget/internal/database/repository"
	"github.com/benjishults/budget/internal/ledger"
	"github.com/benjishults/budget/internal/money"
)

func TestCreateAccountGuards(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)
	ctx := context.Background()

	// draft needs a real companion
	_, err := l.CreateAccount(ctx, NewAccount{Name: "Orphan Drafts", Kind: ledger.KindDraft})
	require.ErrorIs(t, err, ledger.ErrAccountNotFound)

	_, err = l.CreateAccount(ctx, NewAccount{Name: "Bad Drafts", Kind: ledger.KindDraft, CompanionID: l.Budget.GeneralAccountID})
	require.Error(t, err)
	require.Contains(t, err.Error(), "want real")

	// non-draft cannot carry a companion
	checking := mustAccount(t, l, NewAccount{Name: "Checking", Kind: ledger.KindReal})
	_, err = l.CreateAccount(ctx, NewAccount{Name: "Food", Kind: ledger.KindCategory, CompanionID: checking.ID})
	require.Error(t, err)

	// initial balance is for real accounts only
	_, err = l.CreateAccount(ctx, NewAccount{Name: "Food", Kind: ledger.KindCategory, InitialBalance: money.MustParse("5.00")})
	require.Error(t, err)

	draft := mustAccount(t, l, NewAccount{Name: "Checking Drafts", Kind: ledger.KindDraft, CompanionID: checking.ID})
	require.Equal(t, checking.ID, draft.CompanionID)
}

func TestDeleteAccountGuards(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)
	ctx := context.Background()

	checking := mustAccount(t, l, NewAccount{Name: "Checking", Kind: ledger.KindReal, InitialBalance: money.MustParse("100.00")})
	draft := mustAccount(t, l, NewAccount{Name: "Checking Drafts", Kind: ledger.KindDraft, CompanionID: checking.ID})

	require.Error(t, l.DeleteAccount(ctx, l.Budget.GeneralAccountID))

	err := l.DeleteAccount(ctx, checking.ID)
	require.ErrorIs(t, err, ledger.ErrBalanceNotZero)

	// drain the balance; the companion guard still protects it
	spend, err := l.NewTransaction(ledger.TypeExpense).
		Category(l.Budget.GeneralAccountID, money.MustParse("-100.00"), "").
		Real(checking.ID, money.MustParse("-100.00"), "").
		Build()
	require.NoError(t, err)
	require.NoError(t, l.Create(ctx, spend))

	err = l.DeleteAccount(ctx, checking.ID)
	require.Error(t, err)
	require.Contains(t, err.Error(), "companion")

	// the draft account never carried an item, so it deletes cleanly
	require.NoError(t, l.DeleteAccount(ctx, draft.ID))
	_, err = l.Budget.Account(draft.ID)
	require.ErrorIs(t, err, ledger.ErrAccountNotFound)

	// drained to zero but with history: the register rows must survive,
	// so deletion is refused and deactivation is the way out
	err = l.DeleteAccount(ctx, checking.ID)
	require.ErrorIs(t, err, ledger.ErrAccountHasHistory)
	_, err = l.Budget.Account(checking.ID)
	require.NoError(t, err)
	require.NoError(t, l.DeactivateAccount(ctx, checking.ID))

	var count int
	require.NoError(t, l.DB.QueryRow(`SELECT COUNT(*) FROM transaction_items WHERE account_id = ?`, checking.ID).Scan(&count))
	require.Equal(t, 2, count)
}

func TestCreateAccountBootstrapsAtomically(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)
	ctx := context.Background()

	mustAccount(t, l, NewAccount{Name: "Checking", Kind: ledger.KindReal, InitialBalance: money.MustParse("100.00")})
	requireBalance(t, l, l.Budget.GeneralAccountID, "100.00")

	// a duplicate name trips the unique constraint; nothing from the
	// failed bootstrap survives, not even its initial transaction
	_, err := l.CreateAccount(ctx, NewAccount{Name: "Checking", Kind: ledger.KindReal, InitialBalance: money.MustParse("50.00")})
	require.Error(t, err)

	var count int
	require.NoError(t, l.DB.QueryRow(`SELECT COUNT(*) FROM accounts WHERE name = 'Checking'`).Scan(&count))
	require.Equal(t, 1, count)
	require.NoError(t, l.DB.QueryRow(`SELECT COUNT(*) FROM transactions WHERE type = 'initial'`).Scan(&count))
	require.Equal(t, 1, count)
	requireBalance(t, l, l.Budget.GeneralAccountID, "100.00")
	require.True(t, l.Budget.Validate())
}

func TestDeactivateAccount(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)
	ctx := context.Background()

	checking := mustAccount(t, l, NewAccount{Name: "Checking", Kind: ledger.KindReal})
	accounts := repository.NewAccountRepo(l.DB)

	active, err := accounts.IsActive(ctx, checking.ID, l.Budget.ID, l.Clock())
	require.NoError(t, err)
	require.True(t, active)

	require.NoError(t, l.DeactivateAccount(ctx, checking.ID))

	active, err = accounts.IsActive(ctx, checking.ID, l.Budget.ID, l.Clock())
	require.NoError(t, err)
	require.False(t, active)

	// deactivated, not deleted: still in the aggregate and still counted
	_, err = l.Budget.Account(checking.ID)
	require.NoError(t, err)
}

func TestResolveAccountName(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)

	mustAccount(t, l, NewAccount{Name: "Checking", Kind: ledger.KindReal})
	mustAccount(t, l, NewAccount{Name: "Necessities", Kind: ledger.KindCategory})

	a, err := l.ResolveAccountName("checking", ledger.KindReal)
	require.NoError(t, err)
	require.Equal(t, "Checking", a.Name)

	// kind filter excludes same-named accounts of other kinds
	_, err = l.ResolveAccountName("Checking", ledger.KindCategory)
	require.ErrorIs(t, err, ledger.ErrAccountNotFound)

	// a near miss suggests the closest existing name
	_, err = l.ResolveAccountName("Necessitees", ledger.KindCategory)
	require.ErrorIs(t, err, ledger.ErrAccountNotFound)
	require.Contains(t, err.Error(), `"Necessities"`)
}
