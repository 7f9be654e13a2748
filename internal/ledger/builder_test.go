package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/benjishults/budget/internal/money"
)

func TestBuildBalanced(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	tx, err := NewBuilder("budget-1", TypeExpense).
		Description("groceries").
		Timestamp(ts).
		Category("food", money.MustParse("-42.17"), "").
		Real("checking", money.MustParse("-42.17"), "").
		Build()
	require.NoError(t, err)

	require.NotEmpty(t, tx.ID)
	require.Equal(t, "budget-1", tx.BudgetID)
	require.Equal(t, TypeExpense, tx.Type)
	require.Equal(t, ts, tx.Timestamp)
	require.Len(t, tx.CategoryItems, 1)
	require.Len(t, tx.RealItems, 1)
	require.Empty(t, tx.ChargeItems)
	require.Empty(t, tx.DraftItems)
	require.Equal(t, StatusNone, tx.CategoryItems[0].DraftStatus)
}

func TestBuildStampsTimestampFromClock(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, time.March, 5, 9, 30, 0, 0, time.UTC)
	clock := func() time.Time { return fixed }

	tx, err := NewBuilder("budget-1", TypeExpense).
		Clock(clock).
		Category("food", money.MustParse("-10.00"), "").
		Real("checking", money.MustParse("-10.00"), "").
		Build()
	require.NoError(t, err)
	require.Equal(t, fixed, tx.Timestamp)

	// an explicit timestamp wins over the clock
	explicit := fixed.Add(time.Hour)
	tx, err = NewBuilder("budget-1", TypeExpense).
		Clock(clock).
		Timestamp(explicit).
		Category("food", money.MustParse("-10.00"), "").
		Real("checking", money.MustParse("-10.00"), "").
		Build()
	require.NoError(t, err)
	require.Equal(t, explicit, tx.Timestamp)
}

func TestBuildUnbalanced(t *testing.T) {
	t.Parallel()

	_, err := NewBuilder("budget-1", TypeExpense).
		Category("food", money.MustParse("-42.17"), "").
		Real("checking", money.MustParse("-42.18"), "").
		Build()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnbalanced)

	var unbalanced *UnbalancedError
	require.ErrorAs(t, err, &unbalanced)
	require.Equal(t, "-42.17", unbalanced.BudgetSide.String())
	require.Equal(t, "-42.18", unbalanced.MoneySide.String())
}

func TestBuildBalancesAcrossAllFourKinds(t *testing.T) {
	t.Parallel()

	// check written (draft) and charge made in one transaction
	tx, err := NewBuilder("budget-1", TypeExpense).
		Category("food", money.MustParse("-80.00"), "").
		Draft("draft-checking", money.MustParse("50.00"), "", StatusOutstanding).
		Real("checking", money.MustParse("0.00"), "").
		Charge("visa", money.MustParse("-30.00"), "", StatusOutstanding).
		Build()
	require.NoError(t, err)
	require.Len(t, tx.Items(), 4)

	// category/draft side off by a cent must fail
	_, err = NewBuilder("budget-1", TypeExpense).
		Category("food", money.MustParse("-80.00"), "").
		Draft("draft-checking", money.MustParse("50.01"), "", StatusOutstanding).
		Charge("visa", money.MustParse("-30.00"), "", StatusOutstanding).
		Build()
	require.ErrorIs(t, err, ErrUnbalanced)
}

func TestDeltasFollowItemOrder(t *testing.T) {
	t.Parallel()

	tx, err := NewBuilder("budget-1", TypeAllowance).
		Category("general", money.MustParse("-300.00"), "").
		Category("food", money.MustParse("300.00"), "").
		Build()
	require.NoError(t, err)

	deltas := tx.Deltas()
	require.Len(t, deltas, 2)
	require.Equal(t, "general", deltas[0].AccountID)
	require.Equal(t, "food", deltas[1].AccountID)

	negated := tx.NegatedDeltas()
	require.Equal(t, "300.00", negated[0].Amount.String())
	require.Equal(t, "-300.00", negated[1].Amount.String())
}

func TestParseAccountKind(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"category", "real", "charge", "draft"} {
		kind, err := ParseAccountKind(s)
		require.NoError(t, err)
		require.Equal(t, s, string(kind))
	}
	_, err := ParseAccountKind("savings")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrUnbalanced))
}
