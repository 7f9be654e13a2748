package ledger

import (
	"fmt"
	"sort"

	"github.com/benjishults/budget/internal/money"
)

// Budget is the in-memory index of all accounts for one budget. It is the
// sole owner of Account values for a session: every balance change goes
// through Commit or RevertBalances so the account-balance invariant stays
// centrally enforced. Not safe for concurrent use; one session mutates a
// budget at a time.
type Budget struct {
	ID               string
	Name             string
	GeneralAccountID string

	accounts map[string]*Account
}

// NewBudget builds the aggregate from loaded account rows. The general
// account must be among them and must be a category account.
func NewBudget(id, name, generalAccountID string, accounts []*Account) (*Budget, error) {
	b := &Budget{
		ID:               id,
		Name:             name,
		GeneralAccountID: generalAccountID,
		accounts:         make(map[string]*Account, len(accounts)),
	}
	for _, a := range accounts {
		b.accounts[a.ID] = a
	}
	general, ok := b.accounts[generalAccountID]
	if !ok {
		return nil, fmt.Errorf("general account %s: %w", generalAccountID, ErrAccountNotFound)
	}
	if general.Kind != KindCategory {
		return nil, fmt.Errorf("general account %s is %s, want category", generalAccountID, general.Kind)
	}
	return b, nil
}

// Account returns the account with the given id.
func (b *Budget) Account(id string) (*Account, error) {
	a, ok := b.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, ErrAccountNotFound)
	}
	return a, nil
}

// AccountsByKind returns the accounts of one kind, sorted by name.
func (b *Budget) AccountsByKind(kind AccountKind) []*Account {
	var out []*Account
	for _, a := range b.accounts {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	sortByName(out)
	return out
}

// Accounts returns every account in the budget, sorted by name.
func (b *Budget) Accounts() []*Account {
	out := make([]*Account, 0, len(b.accounts))
	for _, a := range b.accounts {
		out = append(out, a)
	}
	sortByName(out)
	return out
}

func sortByName(accounts []*Account) {
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
}

// AddAccount registers a newly created account.
func (b *Budget) AddAccount(a *Account) error {
	if _, exists := b.accounts[a.ID]; exists {
		return fmt.Errorf("account %s already exists", a.ID)
	}
	b.accounts[a.ID] = a
	return nil
}

// RemoveAccount drops an account from the aggregate. The balance must have
// been drained to zero first.
func (b *Budget) RemoveAccount(id string) error {
	a, ok := b.accounts[id]
	if !ok {
		return fmt.Errorf("account %s: %w", id, ErrAccountNotFound)
	}
	if !a.Balance.IsZero() {
		return fmt.Errorf("account %s: %w", id, ErrBalanceNotZero)
	}
	delete(b.accounts, id)
	return nil
}

// Commit applies each delta to the named account's balance, in list order.
// If any delta fails to apply, every previously applied delta is reverted
// before the error is reported: the aggregate's balances after a failed
// Commit are exactly what they were before the call.
func (b *Budget) Commit(deltas []Delta) error {
	for i, d := range deltas {
		a, ok := b.accounts[d.AccountID]
		if !ok {
			b.revert(deltas[:i])
			return fmt.Errorf("account %s: %w", d.AccountID, ErrAccountNotFound)
		}
		a.Balance = a.Balance.Add(d.Amount)
	}
	return nil
}

// RevertBalances negates and applies each delta; used both for rollback and
// for undoing an already-committed transaction's effect.
func (b *Budget) RevertBalances(deltas []Delta) error {
	negated := make([]Delta, len(deltas))
	for i, d := range deltas {
		negated[i] = Delta{AccountID: d.AccountID, Amount: d.Amount.Neg()}
	}
	return b.Commit(negated)
}

// revert undoes already-applied deltas during a failed Commit. Every account
// here was resolved moments ago, so lookups cannot fail.
func (b *Budget) revert(applied []Delta) {
	for i := len(applied) - 1; i >= 0; i-- {
		d := applied[i]
		a := b.accounts[d.AccountID]
		a.Balance = a.Balance.Sub(d.Amount)
	}
}

// Validate checks the budget-wide balance law: the category and draft
// balances must sum to exactly what the real and charge balances sum to,
// and the general account must still be a category account in the set.
func (b *Budget) Validate() bool {
	general, ok := b.accounts[b.GeneralAccountID]
	if !ok || general.Kind != KindCategory {
		return false
	}
	budgetSide := money.Zero
	moneySide := money.Zero
	for _, a := range b.accounts {
		if a.Kind.OnBudgetSide() {
			budgetSide = budgetSide.Add(a.Balance)
		} else {
			moneySide = moneySide.Add(a.Balance)
		}
	}
	return budgetSide.Equal(moneySide)
}
