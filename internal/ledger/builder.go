package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/benjishults/budget/internal/money"
)

// Builder accumulates items for a transaction and validates the result.
// It is a plain mutable accumulator; the immutable Transaction only comes
// into existence through Build, which enforces the double-entry rule.
type Builder struct {
	id          string
	budgetID    string
	description string
	timestamp   time.Time
	txType      TransactionType
	clearsID    string
	clock       func() time.Time

	category []Item
	real     []Item
	charge   []Item
	draft    []Item
}

// NewBuilder starts a transaction for the given budget.
func NewBuilder(budgetID string, txType TransactionType) *Builder {
	return &Builder{
		id:       uuid.NewString(),
		budgetID: budgetID,
		txType:   txType,
		clock:    time.Now,
	}
}

// Clock replaces the time source used when no explicit timestamp is set.
func (b *Builder) Clock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

func (b *Builder) Description(d string) *Builder {
	b.description = d
	return b
}

func (b *Builder) Timestamp(ts time.Time) *Builder {
	b.timestamp = ts
	return b
}

// Clears links this transaction to the prior transaction it settles.
func (b *Builder) Clears(transactionID string) *Builder {
	b.clearsID = transactionID
	return b
}

func (b *Builder) newItem(accountID string, amount money.Money, description string, status DraftStatus) Item {
	return Item{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Amount:      amount,
		Description: description,
		DraftStatus: status,
	}
}

// Category adds a category item (signed: negative = spending from the envelope).
func (b *Builder) Category(accountID string, amount money.Money, description string) *Builder {
	b.category = append(b.category, b.newItem(accountID, amount, description, StatusNone))
	return b
}

// Real adds a real-account item.
func (b *Builder) Real(accountID string, amount money.Money, description string) *Builder {
	b.real = append(b.real, b.newItem(accountID, amount, description, StatusNone))
	return b
}

// Charge adds a charge-account item with the given lifecycle status.
func (b *Builder) Charge(accountID string, amount money.Money, description string, status DraftStatus) *Builder {
	b.charge = append(b.charge, b.newItem(accountID, amount, description, status))
	return b
}

// Draft adds a draft-account item with the given lifecycle status.
func (b *Builder) Draft(accountID string, amount money.Money, description string, status DraftStatus) *Builder {
	b.draft = append(b.draft, b.newItem(accountID, amount, description, status))
	return b
}

// Build produces the immutable Transaction and checks the balance invariant:
// the category and draft items must sum to exactly what the real and charge
// items sum to. An unbalanced transaction never comes into existence, and
// one with no explicit timestamp is stamped from the clock.
func (b *Builder) Build() (*Transaction, error) {
	budgetSide := sumItems(b.category).Add(sumItems(b.draft))
	moneySide := sumItems(b.real).Add(sumItems(b.charge))
	if !budgetSide.Equal(moneySide) {
		return nil, &UnbalancedError{BudgetSide: budgetSide, MoneySide: moneySide}
	}

	ts := b.timestamp
	if ts.IsZero() {
		ts = b.clock()
	}
	return &Transaction{
		ID:            b.id,
		BudgetID:      b.budgetID,
		Description:   b.description,
		Timestamp:     ts,
		Type:          b.txType,
		ClearsID:      b.clearsID,
		CategoryItems: append([]Item(nil), b.category...),
		RealItems:     append([]Item(nil), b.real...),
		ChargeItems:   append([]Item(nil), b.charge...),
		DraftItems:    append([]Item(nil), b.draft...),
	}, nil
}
