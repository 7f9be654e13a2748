package service

import (
	"context"
	"time"

	"github.com/benjishults/budget/internal/database/repository"
	"github.com/benjishults/budget/internal/ledger"
	"github.com/benjishults/budget/internal/money"
)

// HistoryEntry is one item of an account's history annotated with the
// account balance immediately after the item was applied.
type HistoryEntry struct {
	ItemID        string
	TransactionID string
	Timestamp     time.Time
	Description   string
	Type          ledger.TransactionType
	Amount        money.Money
	DraftStatus   ledger.DraftStatus
	BalanceAfter  money.Money
}

// HistoryPage is one window of an account's history, newest first.
type HistoryPage struct {
	Entries []HistoryEntry

	// BalanceAtStart is the account balance just before the oldest entry on
	// this page. Pass it back as balanceForward when requesting the next
	// (older) page, and pop it when navigating back to a newer page.
	BalanceAtStart money.Money
}

// History returns one page of an account's items ordered newest first, each
// annotated with the running balance after it. The walk starts from the
// account's live balance on the first page and from balanceForward on later
// pages, subtracting each item's amount on the way down; re-summing the full
// history is never needed. Correctness depends on the repository's stable
// (timestamp, transaction id) ordering.
func (l *Ledger) History(ctx context.Context, accountID string, limit, offset int, balanceForward *money.Money) (*HistoryPage, error) {
	account, err := l.Budget.Account(accountID)
	if err != nil {
		return nil, err
	}

	rows, err := repository.NewTransactionRepo(l.DB).ItemsForAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, err
	}

	running := account.Balance
	if balanceForward != nil {
		running = *balanceForward
	}

	page := &HistoryPage{Entries: make([]HistoryEntry, 0, len(rows))}
	for _, row := range rows {
		amount := money.FromCents(row.AmountCents)
		description := row.TransactionDescription
		if row.Description != nil && *row.Description != "" {
			description = *row.Description
		}
		page.Entries = append(page.Entries, HistoryEntry{
			ItemID:        row.ID,
			TransactionID: row.TransactionID,
			Timestamp:     row.Timestamp,
			Description:   description,
			Type:          ledger.TransactionType(row.TransactionType),
			Amount:        amount,
			DraftStatus:   ledger.DraftStatus(row.DraftStatus),
			BalanceAfter:  running,
		})
		running = running.Sub(amount)
	}
	page.BalanceAtStart = running
	return page, nil
}
