package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/benjishults/budget/internal/database"
	"github.com/benjishults/budget/internal/database/repository"
	"github.com/benjishults/budget/internal/ledger"
	"github.com/benjishults/budget/internal/money"
)

// activePeriodEnd is the open end of a validity window; deactivation moves
// end_at back to now instead of deleting the row.
var activePeriodEnd = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// CreateBudget bootstraps a budget: the budget row and its general category
// account, the landing pad for all income and the source of allowances.
func CreateBudget(ctx context.Context, db *sql.DB, name string, clock func() time.Time) (*ledger.Budget, error) {
	if clock == nil {
		clock = database.Now
	}
	now := clock()

	budgetID := uuid.NewString()
	general := &ledger.Account{
		ID:          uuid.NewString(),
		BudgetID:    budgetID,
		Name:        "General",
		Description: "every dollar not committed to another category",
		Kind:        ledger.KindCategory,
	}

	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		budgets := repository.NewBudgetRepo(tx)
		accounts := repository.NewAccountRepo(tx)
		if err := budgets.Insert(ctx, repository.Budget{ID: budgetID, Name: name}); err != nil {
			return fmt.Errorf("insert budget: %w", err)
		}
		if err := accounts.Insert(ctx, accountToRow(general)); err != nil {
			return fmt.Errorf("insert general account: %w", err)
		}
		if err := accounts.InsertActivePeriod(ctx, repository.ActivePeriod{
			ID:        uuid.NewString(),
			AccountID: general.ID,
			BudgetID:  budgetID,
			StartAt:   now,
			EndAt:     activePeriodEnd,
		}); err != nil {
			return fmt.Errorf("insert active period: %w", err)
		}
		return budgets.SetGeneralAccount(ctx, budgetID, general.ID)
	})
	if err != nil {
		return nil, err
	}
	return ledger.NewBudget(budgetID, name, general.ID, []*ledger.Account{general})
}

// NewAccount describes an account to create.
type NewAccount struct {
	Name        string
	Description string
	Kind        ledger.AccountKind

	// CompanionID names the paired real account; required for draft
	// accounts, forbidden otherwise.
	CompanionID string

	// InitialBalance, for real accounts only, records money that already
	// exists. It lands in the account and the general category together via
	// an initial transaction so the budget stays balanced.
	InitialBalance money.Money
}

// CreateAccount persists a new account, opens its active period, and
// registers it with the aggregate. Real accounts with an initial balance get
// an initial transaction funding both the account and the general category.
func (l *Ledger) CreateAccount(ctx context.Context, na NewAccount) (*ledger.Account, error) {
	switch na.Kind {
	case ledger.KindDraft:
		companion, err := l.Budget.Account(na.CompanionID)
		if err != nil {
			return nil, fmt.Errorf("draft companion: %w", err)
		}
		if companion.Kind != ledger.KindReal {
			return nil, fmt.Errorf("draft companion %s is %s, want real", companion.Name, companion.Kind)
		}
	case ledger.KindCategory, ledger.KindReal, ledger.KindCharge:
		if na.CompanionID != "" {
			return nil, fmt.Errorf("%s account cannot have a companion", na.Kind)
		}
	default:
		return nil, fmt.Errorf("unknown account kind %q", na.Kind)
	}
	if na.Kind != ledger.KindReal && !na.InitialBalance.IsZero() {
		return nil, fmt.Errorf("initial balance only applies to real accounts")
	}

	a := &ledger.Account{
		ID:          uuid.NewString(),
		BudgetID:    l.Budget.ID,
		Name:        na.Name,
		Description: na.Description,
		Kind:        na.Kind,
		CompanionID: na.CompanionID,
	}

	now := l.now()
	var initial *ledger.Transaction
	if !na.InitialBalance.IsZero() {
		var err error
		initial, err = l.NewTransaction(ledger.TypeInitial).
			Description("initial balance: "+na.Name).
			Timestamp(now).
			Category(l.Budget.GeneralAccountID, na.InitialBalance, "").
			Real(a.ID, na.InitialBalance, "").
			Build()
		if err != nil {
			return nil, err
		}
	}

	// Account row, active period, and the initial transaction land in one
	// unit of work; a half-bootstrapped account never survives a failure.
	err := database.WithTx(ctx, l.DB, func(tx *sql.Tx) error {
		accounts := repository.NewAccountRepo(tx)
		if err := accounts.Insert(ctx, accountToRow(a)); err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		if err := accounts.InsertActivePeriod(ctx, repository.ActivePeriod{
			ID:        uuid.NewString(),
			AccountID: a.ID,
			BudgetID:  l.Budget.ID,
			StartAt:   now,
			EndAt:     activePeriodEnd,
		}); err != nil {
			return err
		}
		if initial != nil {
			return l.insertAndApply(ctx, tx, initial)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := l.Budget.AddAccount(a); err != nil {
		return nil, err
	}
	if initial != nil {
		return a, l.Budget.Commit(initial.Deltas())
	}
	return a, nil
}

// DeactivateAccount closes the account's validity window without deleting
// it; history stays intact and the balance keeps counting.
func (l *Ledger) DeactivateAccount(ctx context.Context, accountID string) error {
	if _, err := l.Budget.Account(accountID); err != nil {
		return err
	}
	return database.WithTx(ctx, l.DB, func(tx *sql.Tx) error {
		return repository.NewAccountRepo(tx).CloseActivePeriod(ctx, accountID, l.Budget.ID, l.now())
	})
}

// DeleteAccount removes an account outright. The balance must be zero, the
// general account can never be deleted, a real account still paired with a
// draft account must keep its companion alive, and an account that ever
// carried a transaction item keeps its history: deactivate it instead.
func (l *Ledger) DeleteAccount(ctx context.Context, accountID string) error {
	a, err := l.Budget.Account(accountID)
	if err != nil {
		return err
	}
	if accountID == l.Budget.GeneralAccountID {
		return fmt.Errorf("cannot delete the general account")
	}
	if !a.Balance.IsZero() {
		return fmt.Errorf("account %s: %w", a.Name, ledger.ErrBalanceNotZero)
	}
	for _, d := range l.Budget.AccountsByKind(ledger.KindDraft) {
		if d.CompanionID == accountID {
			return fmt.Errorf("account %s is the companion of draft account %s", a.Name, d.Name)
		}
	}
	hasItems, err := repository.NewTransactionRepo(l.DB).AccountHasItems(ctx, accountID)
	if err != nil {
		return err
	}
	if hasItems {
		return fmt.Errorf("account %s: %w; deactivate it instead", a.Name, ledger.ErrAccountHasHistory)
	}

	err = database.WithTx(ctx, l.DB, func(tx *sql.Tx) error {
		return repository.NewAccountRepo(tx).Delete(ctx, accountID, l.Budget.ID)
	})
	if err != nil {
		return err
	}
	return l.Budget.RemoveAccount(accountID)
}

// ResolveAccountName finds an account by case-insensitive name, optionally
// narrowed to one kind. Unknown names come back with the closest existing
// name as a hint.
func (l *Ledger) ResolveAccountName(name string, kind ledger.AccountKind) (*ledger.Account, error) {
	var candidates []*ledger.Account
	if kind == "" {
		candidates = l.Budget.Accounts()
	} else {
		candidates = l.Budget.AccountsByKind(kind)
	}

	for _, a := range candidates {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}

	best := ""
	bestDist := -1
	for _, a := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(a.Name))
		if bestDist < 0 || d < bestDist {
			best, bestDist = a.Name, d
		}
	}
	if best != "" && bestDist <= len(name)/2+1 {
		return nil, fmt.Errorf("account %q: %w (did you mean %q?)", name, ledger.ErrAccountNotFound, best)
	}
	return nil, fmt.Errorf("account %q: %w", name, ledger.ErrAccountNotFound)
}
