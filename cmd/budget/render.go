package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/benjishults/budget/internal/ledger"
	"github.com/benjishults/budget/internal/money"
	"github.com/benjishults/budget/internal/service"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	kindStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func renderAmount(m money.Money, symbol string) string {
	s := symbol + m.String()
	if m.IsNegative() {
		return negativeStyle.Render(s)
	}
	return positiveStyle.Render(s)
}

func renderAccounts(budget *ledger.Budget, symbol string) {
	fmt.Println(headerStyle.Render(budget.Name))
	for _, kind := range []ledger.AccountKind{ledger.KindCategory, ledger.KindReal, ledger.KindCharge, ledger.KindDraft} {
		accounts := budget.AccountsByKind(kind)
		if len(accounts) == 0 {
			continue
		}
		fmt.Println(kindStyle.Render(string(kind)))
		for _, a := range accounts {
			name := a.Name
			if a.ID == budget.GeneralAccountID {
				name += " (general)"
			}
			fmt.Printf("  %-28s %14s\n", name, renderAmount(a.Balance, symbol))
		}
	}
}

func renderRegister(account *ledger.Account, page *service.HistoryPage, dateFormat string) {
	fmt.Println(headerStyle.Render(account.Name))
	for _, e := range page.Entries {
		status := ""
		if e.DraftStatus != ledger.StatusNone {
			status = statusStyle.Render(" [" + string(e.DraftStatus) + "]")
		}
		desc := e.Description
		if len(desc) > 32 {
			desc = desc[:29] + "..."
		}
		fmt.Printf("%s  %-32s %12s %12s%s\n",
			e.Timestamp.Format(dateFormat), desc, e.Amount, e.BalanceAfter, status)
	}
	fmt.Println(strings.Repeat("-", 74))
	fmt.Printf("balance at start of page: %s\n", page.BalanceAtStart)
}
