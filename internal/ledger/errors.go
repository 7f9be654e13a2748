package ledger

import (
	"errors"
	"fmt"

	"github.com/benjishults/budget/internal/money"
)

// Error taxonomy. Validation errors are detected before any mutation;
// referential errors mean an id did not resolve; state errors mean the
// operation conflicts with lifecycle state (e.g. already cleared).
var (
	// ErrUnbalanced is returned when a transaction fails the double-entry rule.
	ErrUnbalanced = errors.New("unbalanced transaction")

	// ErrAccountNotFound is returned when an account id does not resolve.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionNotFound is returned when a transaction id does not resolve.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrAlreadyCleared is returned on an attempt to clear an item or
	// transaction that has already been cleared.
	ErrAlreadyCleared = errors.New("already cleared")

	// ErrTransactionCleared is returned on an attempt to delete a transaction
	// that a later clearing transaction references.
	ErrTransactionCleared = errors.New("transaction has been cleared")

	// ErrClearsOthers is returned on an attempt to delete a transaction that
	// itself cleared other transactions.
	ErrClearsOthers = errors.New("transaction clears other transactions")

	// ErrBalanceNotZero is returned when deleting an account whose balance
	// has not been drained first.
	ErrBalanceNotZero = errors.New("account balance is not zero")

	// ErrAccountHasHistory is returned when deleting an account that
	// transaction items still reference. Such an account can only be
	// deactivated.
	ErrAccountHasHistory = errors.New("account has transaction history")
)

// UnbalancedError reports the two sides of a failed balance check.
type UnbalancedError struct {
	BudgetSide money.Money // Σ category + Σ draft
	MoneySide  money.Money // Σ real + Σ charge
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("unbalanced transaction: category+draft %s != real+charge %s",
		e.BudgetSide, e.MoneySide)
}

func (e *UnbalancedError) Unwrap() error { return ErrUnbalanced }

// ClearingError reports a failed clearing precondition before any mutation.
type ClearingError struct {
	Reason string
}

func (e *ClearingError) Error() string {
	return "clearing precondition failed: " + e.Reason
}
