package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benjishults/budget/internal/money"
)

func testAccounts() []*Account {
	return []*Account{
		{ID: "general", BudgetID: "b1", Name: "General", Kind: KindCategory},
		{ID: "food", BudgetID: "b1", Name: "Food", Kind: KindCategory},
		{ID: "checking", BudgetID: "b1", Name: "Checking", Kind: KindReal},
		{ID: "visa", BudgetID: "b1", Name: "Visa", Kind: KindCharge},
		{ID: "draft-checking", BudgetID: "b1", Name: "Checking Drafts", Kind: KindDraft, CompanionID: "checking"},
	}
}

func testBudget(t *testing.T) *Budget {
	t.Helper()
	b, err := NewBudget("b1", "test", "general", testAccounts())
	require.NoError(t, err)
	return b
}

func TestNewBudgetRequiresGeneralCategory(t *testing.T) {
	t.Parallel()

	_, err := NewBudget("b1", "test", "missing", testAccounts())
	require.ErrorIs(t, err, ErrAccountNotFound)

	_, err = NewBudget("b1", "test", "checking", testAccounts())
	require.Error(t, err)
	require.Contains(t, err.Error(), "want category")
}

func TestCommitAppliesInOrder(t *testing.T) {
	t.Parallel()

	b := testBudget(t)
	err := b.Commit([]Delta{
		{AccountID: "general", Amount: money.MustParse("1000.00")},
		{AccountID: "checking", Amount: money.MustParse("1000.00")},
	})
	require.NoError(t, err)

	general, err := b.Account("general")
	require.NoError(t, err)
	require.Equal(t, "1000.00", general.Balance.String())
	require.True(t, b.Validate())
}

func TestCommitRollsBackOnUnknownAccount(t *testing.T) {
	t.Parallel()

	b := testBudget(t)
	require.NoError(t, b.Commit([]Delta{
		{AccountID: "general", Amount: money.MustParse("500.00")},
		{AccountID: "checking", Amount: money.MustParse("500.00")},
	}))

	err := b.Commit([]Delta{
		{AccountID: "general", Amount: money.MustParse("-100.00")},
		{AccountID: "food", Amount: money.MustParse("60.00")},
		{AccountID: "nope", Amount: money.MustParse("40.00")},
	})
	require.ErrorIs(t, err, ErrAccountNotFound)

	// balances must be exactly what they were before the failed call
	general, _ := b.Account("general")
	food, _ := b.Account("food")
	require.Equal(t, "500.00", general.Balance.String())
	require.Equal(t, "0.00", food.Balance.String())
	require.True(t, b.Validate())
}

func TestRevertBalances(t *testing.T) {
	t.Parallel()

	b := testBudget(t)
	deltas := []Delta{
		{AccountID: "food", Amount: money.MustParse("-25.50")},
		{AccountID: "checking", Amount: money.MustParse("-25.50")},
	}
	require.NoError(t, b.Commit(deltas))
	require.NoError(t, b.RevertBalances(deltas))

	for _, id := range []string{"food", "checking"} {
		a, err := b.Account(id)
		require.NoError(t, err)
		require.True(t, a.Balance.IsZero(), "account %s balance %s", id, a.Balance)
	}
}

func TestValidateCatchesImbalance(t *testing.T) {
	t.Parallel()

	b := testBudget(t)
	require.True(t, b.Validate())

	// one-sided delta breaks the budget-wide law
	require.NoError(t, b.Commit([]Delta{{AccountID: "food", Amount: money.MustParse("10.00")}}))
	require.False(t, b.Validate())
}

func TestRemoveAccountRequiresZeroBalance(t *testing.T) {
	t.Parallel()

	b := testBudget(t)
	require.NoError(t, b.Commit([]Delta{
		{AccountID: "food", Amount: money.MustParse("10.00")},
		{AccountID: "checking", Amount: money.MustParse("10.00")},
	}))

	err := b.RemoveAccount("food")
	require.ErrorIs(t, err, ErrBalanceNotZero)

	require.NoError(t, b.RevertBalances([]Delta{
		{AccountID: "food", Amount: money.MustParse("10.00")},
		{AccountID: "checking", Amount: money.MustParse("10.00")},
	}))
	require.NoError(t, b.RemoveAccount("food"))
	_, err = b.Account("food")
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountsByKind(t *testing.T) {
	t.Parallel()

	b := testBudget(t)
	require.Len(t, b.AccountsByKind(KindCategory), 2)
	require.Len(t, b.AccountsByKind(KindReal), 1)
	require.Len(t, b.AccountsByKind(KindCharge), 1)
	require.Len(t, b.AccountsByKind(KindDraft), 1)
	require.Len(t, b.Accounts(), 5)

	// listings come back name-sorted, not in map iteration order
	categories := b.AccountsByKind(KindCategory)
	require.Equal(t, "Food", categories[0].Name)
	require.Equal(t, "General", categories[1].Name)

	var names []string
	for _, a := range b.Accounts() {
		names = append(names, a.Name)
	}
	require.Equal(t, []string{"Checking", "Checking Drafts", "Food", "General", "Visa"}, names)
}
