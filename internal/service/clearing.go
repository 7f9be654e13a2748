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

// ClearCheck settles a previously written check. The clearing transaction
// must reference the check transaction, carry exactly one real item on the
// draft account's companion plus draft items on that draft account only,
// and negate the outstanding draft amount exactly. Every precondition is
// checked before any mutation; on success the check's draft item flips
// outstanding to cleared, the check transaction
// records what cleared it, and the clearing transaction is inserted and
// applied, all in one unit of work.
func (l *Ledger) ClearCheck(ctx context.Context, clearing *ledger.Transaction) error {
	if clearing.Type != ledger.TypeClearing {
		return &ledger.ClearingError{Reason: fmt.Sprintf("transaction type is %s, want clearing", clearing.Type)}
	}
	if clearing.ClearsID == "" {
		return &ledger.ClearingError{Reason: "no cleared transaction referenced"}
	}
	if len(clearing.RealItems) != 1 {
		return &ledger.ClearingError{Reason: fmt.Sprintf("clearing transaction has %d real items, want 1", len(clearing.RealItems))}
	}
	if len(clearing.DraftItems) == 0 {
		return &ledger.ClearingError{Reason: "clearing transaction has no draft items"}
	}
	if len(clearing.CategoryItems) != 0 || len(clearing.ChargeItems) != 0 {
		return &ledger.ClearingError{Reason: "clearing transaction carries only real and draft items"}
	}
	if err := l.checkItemAccounts(clearing); err != nil {
		return err
	}

	transactions := repository.NewTransactionRepo(l.DB)
	cleared, err := transactions.Get(ctx, clearing.ClearsID, l.Budget.ID)
	if err != nil {
		return err
	}
	if cleared == nil {
		return fmt.Errorf("transaction %s: %w", clearing.ClearsID, ledger.ErrTransactionNotFound)
	}
	if cleared.ClearedByID != nil {
		return fmt.Errorf("transaction %s: %w", cleared.ID, ledger.ErrAlreadyCleared)
	}

	clearedItems, err := transactions.Items(ctx, cleared.ID)
	if err != nil {
		return err
	}
	draftItems := itemsOfKind(clearedItems, l.Budget, ledger.KindDraft)
	if len(draftItems) != 1 {
		return &ledger.ClearingError{Reason: fmt.Sprintf("cleared transaction has %d draft items, want 1", len(draftItems))}
	}
	check := draftItems[0]
	if ledger.DraftStatus(check.DraftStatus) != ledger.StatusOutstanding {
		return fmt.Errorf("draft item %s is %s: %w", check.ID, check.DraftStatus, ledger.ErrAlreadyCleared)
	}

	draftAccount, err := l.Budget.Account(check.AccountID)
	if err != nil {
		return err
	}
	for _, it := range clearing.DraftItems {
		if it.AccountID != check.AccountID {
			return &ledger.ClearingError{Reason: fmt.Sprintf(
				"draft item account %s is not the cleared check's draft account %s", it.AccountID, draftAccount.Name)}
		}
	}
	realItem := clearing.RealItems[0]
	if draftAccount.CompanionID != realItem.AccountID {
		return &ledger.ClearingError{Reason: fmt.Sprintf(
			"real item account %s is not the companion of draft account %s", realItem.AccountID, draftAccount.Name)}
	}
	if !realItem.Amount.Equal(money.FromCents(check.AmountCents).Neg()) {
		return &ledger.ClearingError{Reason: fmt.Sprintf(
			"real amount %s does not negate outstanding draft amount %s",
			realItem.Amount, money.FromCents(check.AmountCents))}
	}

	err = database.WithTx(ctx, l.DB, func(tx *sql.Tx) error {
		// the clearing row must exist before cleared_by can reference it
		if err := l.insertAndApply(ctx, tx, clearing); err != nil {
			return err
		}
		repo := repository.NewTransactionRepo(tx)
		if err := repo.SetItemDraftStatus(ctx, check.ID, string(ledger.StatusCleared)); err != nil {
			return fmt.Errorf("mark cleared: %w", err)
		}
		return repo.SetClearedBy(ctx, cleared.ID, clearing.ID)
	})
	if err != nil {
		return err
	}
	return l.Budget.Commit(clearing.Deltas())
}

// PayCreditCard settles a batch of outstanding charge transactions with a
// single payment. Each cleared transaction must carry exactly one charge
// item, all on the same charge account the payment touches, and the
// payment must settle their sum exactly. The whole settlement is one unit
// of work.
func (l *Ledger) PayCreditCard(ctx context.Context, chargeTransactionIDs []string, payment *ledger.Transaction) error {
	if payment.Type != ledger.TypeClearing {
		return &ledger.ClearingError{Reason: fmt.Sprintf("transaction type is %s, want clearing", payment.Type)}
	}
	if len(chargeTransactionIDs) == 0 {
		return &ledger.ClearingError{Reason: "no charge transactions referenced"}
	}
	if len(payment.RealItems) != 1 {
		return &ledger.ClearingError{Reason: fmt.Sprintf("payment has %d real items, want 1", len(payment.RealItems))}
	}
	if len(payment.ChargeItems) != 1 {
		return &ledger.ClearingError{Reason: fmt.Sprintf("payment has %d charge items, want 1", len(payment.ChargeItems))}
	}
	if err := l.checkItemAccounts(payment); err != nil {
		return err
	}
	chargeAccountID := payment.ChargeItems[0].AccountID

	transactions := repository.NewTransactionRepo(l.DB)
	total := money.Zero
	type settled struct {
		transactionID string
		itemID        string
	}
	var toSettle []settled

	for _, id := range chargeTransactionIDs {
		row, err := transactions.Get(ctx, id, l.Budget.ID)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("transaction %s: %w", id, ledger.ErrTransactionNotFound)
		}
		if row.ClearedByID != nil {
			return fmt.Errorf("transaction %s: %w", id, ledger.ErrAlreadyCleared)
		}
		items, err := transactions.Items(ctx, id)
		if err != nil {
			return err
		}
		charges := itemsOfKind(items, l.Budget, ledger.KindCharge)
		if len(charges) != 1 {
			return &ledger.ClearingError{Reason: fmt.Sprintf("transaction %s has %d charge items, want 1", id, len(charges))}
		}
		charge := charges[0]
		if charge.AccountID != chargeAccountID {
			return &ledger.ClearingError{Reason: fmt.Sprintf(
				"transaction %s charges account %s, not the account being paid", id, charge.AccountID)}
		}
		if ledger.DraftStatus(charge.DraftStatus) != ledger.StatusOutstanding {
			return fmt.Errorf("charge item %s is %s: %w", charge.ID, charge.DraftStatus, ledger.ErrAlreadyCleared)
		}
		total = total.Add(money.FromCents(charge.AmountCents))
		toSettle = append(toSettle, settled{transactionID: id, itemID: charge.ID})
	}

	// The outstanding charges sum negative; the payment's real item carries
	// the same negative amount (money leaves the bank) and its charge item
	// the exact negation (the card balance returns to zero).
	realItem := payment.RealItems[0]
	if !realItem.Amount.Equal(total) {
		return &ledger.ClearingError{Reason: fmt.Sprintf(
			"payment amount %s does not match charge total %s", realItem.Amount, total)}
	}

	err := database.WithTx(ctx, l.DB, func(tx *sql.Tx) error {
		// the payment row must exist before cleared_by can reference it
		if err := l.insertAndApply(ctx, tx, payment); err != nil {
			return err
		}
		repo := repository.NewTransactionRepo(tx)
		for _, s := range toSettle {
			if err := repo.SetItemDraftStatus(ctx, s.itemID, string(ledger.StatusCleared)); err != nil {
				return fmt.Errorf("mark cleared: %w", err)
			}
			if err := repo.SetClearedBy(ctx, s.transactionID, payment.ID); err != nil {
				return fmt.Errorf("set cleared_by: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return l.Budget.Commit(payment.Deltas())
}

// itemsOfKind filters a transaction's items down to those owned by
// accounts of one kind.
func itemsOfKind(items []repository.Item, budget *ledger.Budget, kind ledger.AccountKind) []repository.Item {
	var out []repository.Item
	for _, it := range items {
		a, err := budget.Account(it.AccountID)
		if err != nil {
			continue
		}
		if a.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}
