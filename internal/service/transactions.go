package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/benjishults/budget/internal/database"
	"github.com/benjishults/budget/internal/database/repository"
	"github.com/benjishults/budget/internal/ledger"
	"github.com/benjishults/budget/internal/money"
)

// NewTransaction starts a transaction builder on this budget, timestamped
// by the service clock unless the caller sets one.
func (l *Ledger) NewTransaction(txType ledger.TransactionType) *ledger.Builder {
	return ledger.NewBuilder(l.Budget.ID, txType).Clock(l.now)
}

// Create persists a balanced transaction: transaction row, item rows, and
// the account balance updates go through one database transaction, then the
// same deltas are mirrored into the aggregate. A failure at any step leaves
// no partial transaction, item set, or balance change behind.
func (l *Ledger) Create(ctx context.Context, t *ledger.Transaction) error {
	if err := l.checkItemAccounts(t); err != nil {
		return err
	}

	err := database.WithTx(ctx, l.DB, func(tx *sql.Tx) error {
		return l.insertAndApply(ctx, tx, t)
	})
	if err != nil {
		return err
	}

	// Every account was resolved above, so mirroring cannot fail here.
	return l.Budget.Commit(t.Deltas())
}

// insertAndApply writes a transaction and applies its balance deltas on an
// already-open unit of work. The caller owns commit and rollback.
func (l *Ledger) insertAndApply(ctx context.Context, tx *sql.Tx, t *ledger.Transaction) error {
	transactions := repository.NewTransactionRepo(tx)
	accounts := repository.NewAccountRepo(tx)

	row := repository.Transaction{
		ID:          t.ID,
		BudgetID:    t.BudgetID,
		Description: t.Description,
		Timestamp:   t.Timestamp,
		Type:        string(t.Type),
	}
	if err := transactions.Insert(ctx, row); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	items := t.Items()
	itemRows := make([]repository.Item, len(items))
	for i, it := range items {
		itemRows[i] = itemToRow(it, t.ID, t.BudgetID)
	}
	if err := transactions.InsertItems(ctx, itemRows); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}

	if err := accounts.UpdateBalances(ctx, toBalanceDeltas(t.Deltas())); err != nil {
		return fmt.Errorf("apply balances: %w", err)
	}
	return nil
}

// checkItemAccounts verifies every item's account exists in the aggregate
// and sits in the item list matching its kind, before anything is written.
func (l *Ledger) checkItemAccounts(t *ledger.Transaction) error {
	check := func(items []ledger.Item, want ledger.AccountKind) error {
		for _, it := range items {
			a, err := l.Budget.Account(it.AccountID)
			if err != nil {
				return err
			}
			if a.Kind != want {
				return fmt.Errorf("account %s is %s, listed as %s", a.Name, a.Kind, want)
			}
		}
		return nil
	}
	if err := check(t.CategoryItems, ledger.KindCategory); err != nil {
		return err
	}
	if err := check(t.RealItems, ledger.KindReal); err != nil {
		return err
	}
	if err := check(t.ChargeItems, ledger.KindCharge); err != nil {
		return err
	}
	return check(t.DraftItems, ledger.KindDraft)
}

// Delete removes a transaction and reverses its balance effect. A
// transaction that a later clearing transaction settled cannot be deleted,
// and neither can a transaction that itself cleared others: either direction
// would leave a dangling clearing reference.
func (l *Ledger) Delete(ctx context.Context, transactionID string) error {
	transactions := repository.NewTransactionRepo(l.DB)
	row, err := transactions.Get(ctx, transactionID, l.Budget.ID)
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("transaction %s: %w", transactionID, ledger.ErrTransactionNotFound)
	}
	if row.ClearedByID != nil {
		return fmt.Errorf("transaction %s: %w", transactionID, ledger.ErrTransactionCleared)
	}
	clears, err := transactions.ClearsAnything(ctx, transactionID)
	if err != nil {
		return err
	}
	if clears {
		return fmt.Errorf("transaction %s: %w", transactionID, ledger.ErrClearsOthers)
	}

	items, err := transactions.Items(ctx, transactionID)
	if err != nil {
		return err
	}

	reversal := make([]repository.BalanceDelta, len(items))
	aggregate := make([]ledger.Delta, len(items))
	for i, it := range items {
		reversal[i] = repository.BalanceDelta{AccountID: it.AccountID, Cents: -it.AmountCents}
		aggregate[i] = ledger.Delta{AccountID: it.AccountID, Amount: money.FromCents(it.AmountCents)}
	}

	err = database.WithTx(ctx, l.DB, func(tx *sql.Tx) error {
		repo := repository.NewTransactionRepo(tx)
		if err := repo.DeleteItems(ctx, transactionID); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		if err := repo.Delete(ctx, transactionID); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		return repository.NewAccountRepo(tx).UpdateBalances(ctx, reversal)
	})
	if err != nil {
		return err
	}
	return l.Budget.RevertBalances(aggregate)
}
