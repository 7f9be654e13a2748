package ledger

import (
	"fmt"

	"github.com/benjishults/budget/internal/money"
)

// AccountKind classifies an account's role in the balancing equation.
// Category and draft balances say where the budget thinks the money is;
// real and charge balances say where it actually is.
type AccountKind string

const (
	KindCategory AccountKind = "category"
	KindReal     AccountKind = "real"
	KindCharge   AccountKind = "charge"
	KindDraft    AccountKind = "draft"
)

// ParseAccountKind maps a stored type tag to an AccountKind.
func ParseAccountKind(s string) (AccountKind, error) {
	switch AccountKind(s) {
	case KindCategory, KindReal, KindCharge, KindDraft:
		return AccountKind(s), nil
	}
	return "", fmt.Errorf("unknown account kind %q", s)
}

// OnBudgetSide reports whether the kind contributes to the budget side
// (category + draft) of the balance equation, as opposed to the money
// side (real + charge).
func (k AccountKind) OnBudgetSide() bool {
	switch k {
	case KindCategory, KindDraft:
		return true
	case KindReal, KindCharge:
		return false
	}
	panic("unknown account kind " + string(k))
}

// Account is one account in a budget. Balance is only ever mutated through
// the Budget aggregate's Commit and RevertBalances.
type Account struct {
	ID          string
	BudgetID    string
	Name        string
	Description string
	Kind        AccountKind
	Balance     money.Money

	// CompanionID is set only for draft accounts: the real account whose
	// outstanding checks this account tracks.
	CompanionID string
}

// Delta is a single signed balance adjustment against one account.
type Delta struct {
	AccountID string
	Amount    money.Money
}
