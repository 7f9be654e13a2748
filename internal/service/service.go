// Package service implements the persistence protocols that keep the stored
// budget and the in-memory aggregate consistent: transaction creation,
// check clearing, credit-card payment, deletion, and account history. Every
// multi-step protocol runs in exactly one database transaction.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/benjishults/budget/internal/database"
	"github.com/benjishults/budget/internal/database/repository"
	"github.com/benjishults/budget/internal/ledger"
	"github.com/benjishults/budget/internal/money"
)

// Ledger coordinates the persisted budget with its in-memory aggregate.
// The aggregate's cached balances stay authoritative because every protocol
// mirrors the same deltas it persists.
type Ledger struct {
	DB     *sql.DB
	Budget *ledger.Budget

	// Clock supplies default timestamps; tests substitute a fixed one.
	Clock func() time.Time
}

func (l *Ledger) now() time.Time {
	if l.Clock != nil {
		return l.Clock()
	}
	return database.Now()
}

// LoadBudget builds the in-memory aggregate for the named budget from its
// persisted rows. The rows are the system of record; the aggregate owns the
// account objects for the session.
func LoadBudget(ctx context.Context, db *sql.DB, name string) (*ledger.Budget, error) {
	row, err := repository.NewBudgetRepo(db).GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("budget %q not found", name)
	}
	if row.GeneralAccountID == nil {
		return nil, fmt.Errorf("budget %q has no general account", name)
	}

	accountRows, err := repository.NewAccountRepo(db).ListByBudget(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	accounts := make([]*ledger.Account, 0, len(accountRows))
	for _, ar := range accountRows {
		a, err := accountFromRow(ar)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return ledger.NewBudget(row.ID, row.Name, *row.GeneralAccountID, accounts)
}

func accountFromRow(ar repository.Account) (*ledger.Account, error) {
	kind, err := ledger.ParseAccountKind(ar.Type)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", ar.ID, err)
	}
	a := &ledger.Account{
		ID:          ar.ID,
		BudgetID:    ar.BudgetID,
		Name:        ar.Name,
		Description: ar.Description,
		Kind:        kind,
		Balance:     money.FromCents(ar.BalanceCents),
	}
	if ar.CompanionID != nil {
		a.CompanionID = *ar.CompanionID
	}
	return a, nil
}

func accountToRow(a *ledger.Account) repository.Account {
	row := repository.Account{
		ID:           a.ID,
		BudgetID:     a.BudgetID,
		Name:         a.Name,
		Description:  a.Description,
		Type:         string(a.Kind),
		BalanceCents: a.Balance.Cents(),
	}
	if a.CompanionID != "" {
		companion := a.CompanionID
		row.CompanionID = &companion
	}
	return row
}

func itemToRow(it ledger.Item, transactionID, budgetID string) repository.Item {
	row := repository.Item{
		ID:            it.ID,
		TransactionID: transactionID,
		AccountID:     it.AccountID,
		BudgetID:      budgetID,
		AmountCents:   it.Amount.Cents(),
		DraftStatus:   string(it.DraftStatus),
	}
	if it.Description != "" {
		desc := it.Description
		row.Description = &desc
	}
	return row
}

func toBalanceDeltas(deltas []ledger.Delta) []repository.BalanceDelta {
	out := make([]repository.BalanceDelta, len(deltas))
	for i, d := range deltas {
		out[i] = repository.BalanceDelta{AccountID: d.AccountID, Cents: d.Amount.Cents()}
	}
	return out
}
