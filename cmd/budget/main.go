// Command budget manages envelope budgets backed by sqlite: balanced
// transactions, check writing and clearing, credit-card payments, and
// running-balance account registers.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/benjishults/budget/internal/config"
	"github.com/benjishults/budget/internal/database"
	"github.com/benjishults/budget/internal/service"
)

type cli struct {
	Init     initCmd     `cmd:"" help:"Create a new budget."`
	Accounts accountsCmd `cmd:"" help:"List accounts and balances."`
	Account  accountCmd  `cmd:"" help:"Create an account."`
	Spend    spendCmd    `cmd:"" help:"Record an expense from a category."`
	Income   incomeCmd   `cmd:"" help:"Record income into the general account."`
	Allow    allowCmd    `cmd:"" help:"Move an allowance from general to a category."`
	Check    checkCmd    `cmd:"" help:"Write or clear checks."`
	Charge   chargeCmd   `cmd:"" help:"Record a credit-card charge."`
	Pay      payCmd      `cmd:"" help:"Pay off credit-card charges."`
	Register registerCmd `cmd:"" help:"Show an account's history with running balances."`
	Delete   deleteCmd   `cmd:"" help:"Delete a transaction."`
}

// app carries the open database and loaded budget into commands.
type app struct {
	ctx    context.Context
	cfg    config.Config
	db     *sql.DB
	ledger *service.Ledger
}

// loadLedger builds the session's in-memory aggregate; init is the only
// command that runs without one.
func (a *app) loadLedger() error {
	budget, err := service.LoadBudget(a.ctx, a.db, a.cfg.Budget.Name)
	if err != nil {
		return err
	}
	a.ledger = &service.Ledger{DB: a.db, Budget: budget}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	a := &app{ctx: context.Background(), cfg: cfg, db: db}

	var c cli
	ktx := kong.Parse(&c,
		kong.Name("budget"),
		kong.Description("Envelope budgeting with checks, credit cards, and a balanced ledger."),
		kong.UsageOnError(),
	)
	if err := ktx.Run(a); err != nil {
		fmt.Fprintf(os.Stderr, "budget: %v\n", err)
		os.Exit(1)
	}

	if a.ledger != nil && !a.ledger.Budget.Validate() {
		log.Printf("warn: budget %s is out of balance", a.ledger.Budget.Name)
	}
}
