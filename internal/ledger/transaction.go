package ledger

import (
	"time"

	"github.com/benjishults/budget/internal/money"
)

// TransactionType tags why a transaction exists.
type TransactionType string

const (
	TypeIncome    TransactionType = "income"
	TypeExpense   TransactionType = "expense"
	TypeInitial   TransactionType = "initial"
	TypeAllowance TransactionType = "allowance"
	TypeTransfer  TransactionType = "transfer"
	TypeClearing  TransactionType = "clearing"
)

// DraftStatus is the lifecycle stage of a draft or charge item.
// Transitions are one-way: outstanding items become cleared and never revert.
type DraftStatus string

const (
	// StatusNone marks items with no clearing lifecycle (immediate real or
	// category effects).
	StatusNone DraftStatus = "none"
	// StatusOutstanding marks a check written or a charge made: committed to
	// a category but not yet reflected in actual money moving.
	StatusOutstanding DraftStatus = "outstanding"
	// StatusClearing marks items that are themselves part of the transaction
	// doing the clearing.
	StatusClearing DraftStatus = "clearing"
	// StatusCleared marks items whose money has now actually left or entered
	// the real account.
	StatusCleared DraftStatus = "cleared"
)

// Item is one leg of a transaction against a single account.
type Item struct {
	ID          string
	AccountID   string
	Amount      money.Money
	Description string
	DraftStatus DraftStatus
}

// Transaction is an immutable balanced aggregate of items, one ordered list
// per account kind. Build one with a Builder; a Transaction that exists has
// passed the double-entry balance check.
type Transaction struct {
	ID          string
	BudgetID    string
	Description string
	Timestamp   time.Time
	Type        TransactionType

	// ClearsID references the prior transaction this one settles, for
	// clearing transactions only.
	ClearsID string

	CategoryItems []Item
	RealItems     []Item
	ChargeItems   []Item
	DraftItems    []Item
}

// Items returns every item in kind order: category, real, charge, draft.
func (t *Transaction) Items() []Item {
	out := make([]Item, 0, len(t.CategoryItems)+len(t.RealItems)+len(t.ChargeItems)+len(t.DraftItems))
	out = append(out, t.CategoryItems...)
	out = append(out, t.RealItems...)
	out = append(out, t.ChargeItems...)
	out = append(out, t.DraftItems...)
	return out
}

// Deltas returns the balance adjustments this transaction applies, in the
// same order as Items.
func (t *Transaction) Deltas() []Delta {
	items := t.Items()
	out := make([]Delta, len(items))
	for i, it := range items {
		out[i] = Delta{AccountID: it.AccountID, Amount: it.Amount}
	}
	return out
}

// NegatedDeltas returns the reversal of Deltas, for undoing the transaction.
func (t *Transaction) NegatedDeltas() []Delta {
	out := t.Deltas()
	for i := range out {
		out[i].Amount = out[i].Amount.Neg()
	}
	return out
}

func sumItems(items []Item) money.Money {
	total := money.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}
