package main

import (
	"fmt"

	"github.com/benjishults/budget/internal/ledger"
	"github.com/benjishults/budget/internal/money"
	"github.com/benjishults/budget/internal/service"
)

type initCmd struct{}

func (c *initCmd) Run(a *app) error {
	budget, err := service.CreateBudget(a.ctx, a.db, a.cfg.Budget.Name, nil)
	if err != nil {
		return err
	}
	fmt.Printf("created budget %q (%s)\n", budget.Name, budget.ID)
	return nil
}

type accountsCmd struct{}

func (c *accountsCmd) Run(a *app) error {
	if err := a.loadLedger(); err != nil {
		return err
	}
	renderAccounts(a.ledger.Budget, a.cfg.UI.CurrencySymbol)
	return nil
}

type accountCmd struct {
	Kind        string `arg:"" enum:"category,real,charge,draft" help:"Account kind."`
	Name        string `arg:"" help:"Account name."`
	Description string `short:"d" help:"Account description."`
	Companion   string `help:"For draft accounts: name of the paired real account."`
	Initial     string `help:"For real accounts: starting balance, e.g. 1000.00."`
}

func (c *accountCmd) Run(a *app) error {
	if err := a.loadLedger(); err != nil {
		return err
	}
	na := service.NewAccount{
		Name:        c.Name,
		Description: c.Description,
		Kind:        ledger.AccountKind(c.Kind),
	}
	if c.Companion != "" {
		companion, err := a.ledger.ResolveAccountName(c.Companion, ledger.KindReal)
		if err != nil {
			return err
		}
		na.CompanionID = companion.ID
	}
	if c.Initial != "" {
		initial, err := money.Parse(c.Initial)
		if err != nil {
			return err
		}
		na.InitialBalance = initial
	}
	account, err := a.ledger.CreateAccount(a.ctx, na)
	if err != nil {
		return err
	}
	fmt.Printf("created %s account %q\n", account.Kind, account.Name)
	return nil
}

type spendCmd struct {
	Category    string `arg:"" help:"Category to spend from."`
	Real        string `arg:"" help:"Real account the money leaves."`
	Amount      string `arg:"" help:"Amount, e.g. 12.34."`
	Description string `short:"d" help:"What the money was for."`
}

func (c *spendCmd) Run(a *app) error {
	if err := a.loadLedger(); err != nil {
		return err
	}
	category, err := a.ledger.ResolveAccountName(c.Category, ledger.KindCategory)
	if err != nil {
		return err
	}
	real, err := a.ledger.ResolveAccountName(c.Real, ledger.KindReal)
	if err != nil {
		return err
	}
	amount, err := money.Parse(c.Amount)
	if err != nil {
		return err
	}
	t, err := a.ledger.NewTransaction(ledger.TypeExpense).
		Description(c.Description).
		Category(category.ID, amount.Neg(), "").
		Real(real.ID, amount.Neg(), "").
		Build()
	if err != nil {
		return err
	}
	return a.ledger.Create(a.ctx, t)
}

type incomeCmd struct {
	Real        string `arg:"" help:"Real account receiving the money."`
	Amount      string `arg:"" help:"Amount received."`
	Description string `short:"d" help:"Source of the income."`
}

func (c *incomeCmd) Run(a *app) error {
	if err := a.loadLedger(); err != nil {
		return err
	}
	real, err := a.ledger.ResolveAccountName(c.Real, ledger.KindReal)
	if err != nil {
		return err
	}
	amount, err := money.Parse(c.Amount)
	if err != nil {
		return err
	}
	t, err := a.ledger.NewTransaction(ledger.TypeIncome).
		Description(c.Description).
		Category(a.ledger.Budget.GeneralAccountID, amount, "").
		Real(real.ID, amount, "").
		Build()
	if err != nil {
		return err
	}
	return a.ledger.Create(a.ctx, t)
}

type allowCmd struct {
	Category string `arg:"" help:"Category receiving the allowance."`
	Amount   string `arg:"" help:"Amount to move from general."`
}

func (c *allowCmd) Run(a *app) error {
	if err := a.loadLedger(); err != nil {
		return err
	}
	category, err := a.ledger.ResolveAccountName(c.Category, ledger.KindCategory)
	if err != nil {
		return err
	}
	amount, err := money.Parse(c.Amount)
	if err != nil {
		return err
	}
	t, err := a.ledger.NewTransaction(ledger.TypeAllowance).
		Description("allowance: "+category.Name).
		Category(a.ledger.Budget.GeneralAccountID, amount.Neg(), "").
		Category(category.ID, amount, "").
		Build()
	if err != nil {
		return err
	}
	return a.ledger.Create(a.ctx, t)
}

type checkCmd struct {
	Write checkWriteCmd `cmd:"" help:"Write a check: spend from a category, outstanding on the draft account."`
	Clear checkClearCmd `cmd:"" help:"Clear a written check against its real account."`
}

type checkWriteCmd struct {
	Category    string `arg:"" help:"Category to spend from."`
	Draft       string `arg:"" help:"Draft account tracking the check."`
	Amount      string `arg:"" help:"Check amount."`
	Description string `short:"d" help:"Payee or memo."`
}

func (c *checkWriteCmd) Run(a *app) error {
	if err := a.loadLedger(); err != nil {
		return err
	}
	category, err := a.ledger.ResolveAccountName(c.Category, ledger.KindCategory)
	if err != nil {
		return err
	}
	draft, err := a.ledger.ResolveAccountName(c.Draft, ledger.KindDraft)
	if err != nil {
		return err
	}
	amount, err := money.Parse(c.Amount)
	if err != nil {
		return err
	}
	t, err := a.ledger.NewTransaction(ledger.TypeExpense).
		Description(c.Description).
		Category(category.ID, amount.Neg(), "").
		Draft(draft.ID, amount, "", ledger.StatusOutstanding).
		Build()
	if err != nil {
		return err
	}
	if err := a.ledger.Create(a.ctx, t); err != nil {
		return err
	}
	fmt.Printf("check written: transaction %s\n", t.ID)
	return nil
}

type checkClearCmd struct {
	Transaction string `arg:"" help:"Id of the check transaction to clear."`
	Draft       string `arg:"" help:"Draft account the check is outstanding on."`
	Amount      string `arg:"" help:"Amount the check cleared for."`
}

func (c *checkClearCmd) Run(a *app) error {
	if err := a.loadLedger(); err != nil {
		return err
	}
	draft, err := a.ledger.ResolveAccountName(c.Draft, ledger.KindDraft)
	if err != nil {
		return err
	}
	amount, err := money.Parse(c.Amount)
	if err != nil {
		return err
	}
	t, err := a.ledger.NewTransaction(ledger.TypeClearing).
		Description("check cleared").
		Clears(c.Transaction).
		Real(draft.CompanionID, amount.Neg(), "").
		Draft(draft.ID, amount.Neg(), "", ledger.StatusClearing).
		Build()
	if err != nil {
		return err
	}
	return a.ledger.ClearCheck(a.ctx, t)
}

type chargeCmd struct {
	Category    string `arg:"" help:"Category to spend from."`
	Charge      string `arg:"" help:"Charge (credit-card) account."`
	Amount      string `arg:"" help:"Amount charged."`
	Description string `short:"d" help:"What was bought."`
}

func (c *chargeCmd) Run(a *app) error {
	if err := a.loadLedger(); err != nil {
		return err
	}
	category, err := a.ledger.ResolveAccountName(c.Category, ledger.KindCategory)
	if err != nil {
		return err
	}
	charge, err := a.ledger.ResolveAccountName(c.Charge, ledger.KindCharge)
	if err != nil {
		return err
	}
	amount, err := money.Parse(c.Amount)
	if err != nil {
		return err
	}
	t, err := a.ledger.NewTransaction(ledger.TypeExpense).
		Description(c.Description).
		Category(category.ID, amount.Neg(), "").
		Charge(charge.ID, amount.Neg(), "", ledger.StatusOutstanding).
		Build()
	if err != nil {
		return err
	}
	if err := a.ledger.Create(a.ctx, t); err != nil {
		return err
	}
	fmt.Printf("charge recorded: transaction %s\n", t.ID)
	return nil
}

type payCmd struct {
	Charge       string   `arg:"" help:"Charge account being paid off."`
	Real         string   `arg:"" help:"Real account the payment comes from."`
	Amount       string   `arg:"" help:"Payment amount; must match the charges exactly."`
	Transactions []string `arg:"" help:"Ids of the charge transactions being settled."`
}

func (c *payCmd) Run(a *app) error {
	if err := a.loadLedger(); err != nil {
		return err
	}
	charge, err := a.ledger.ResolveAccountName(c.Charge, ledger.KindCharge)
	if err != nil {
		return err
	}
	real, err := a.ledger.ResolveAccountName(c.Real, ledger.KindReal)
	if err != nil {
		return err
	}
	amount, err := money.Parse(c.Amount)
	if err != nil {
		return err
	}
	t, err := a.ledger.NewTransaction(ledger.TypeClearing).
		Description("payment: "+charge.Name).
		Real(real.ID, amount.Neg(), "").
		Charge(charge.ID, amount, "", ledger.StatusClearing).
		Build()
	if err != nil {
		return err
	}
	return a.ledger.PayCreditCard(a.ctx, c.Transactions, t)
}

type registerCmd struct {
	Account string `arg:"" help:"Account to show."`
	Limit   int    `default:"30" help:"Items per page."`
	Offset  int    `default:"0" help:"Items to skip."`
	Forward string `help:"Balance carried forward from the previous page."`
}

func (c *registerCmd) Run(a *app) error {
	if err := a.loadLedger(); err != nil {
		return err
	}
	account, err := a.ledger.ResolveAccountName(c.Account, "")
	if err != nil {
		return err
	}
	var forward *money.Money
	if c.Forward != "" {
		f, err := money.Parse(c.Forward)
		if err != nil {
			return err
		}
		forward = &f
	}
	page, err := a.ledger.History(a.ctx, account.ID, c.Limit, c.Offset, forward)
	if err != nil {
		return err
	}
	renderRegister(account, page, a.cfg.UI.DateFormat)
	return nil
}

type deleteCmd struct {
	Transaction string `arg:"" help:"Id of the transaction to delete."`
}

func (c *deleteCmd) Run(a *app) error {
	if err := a.loadLedger(); err != nil {
		return err
	}
	return a.ledger.Delete(a.ctx, c.Transaction)
}

