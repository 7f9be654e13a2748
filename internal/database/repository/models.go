package repository

import "time"

// Budget represents a budget row.
type Budget struct {
	ID               string
	Name             string
	GeneralAccountID *string
	CreatedAt        time.Time
}

// Account represents an account row. Balance is stored as integer cents.
type Account struct {
	ID           string
	BudgetID     string
	Name         string
	Description  string
	Type         string
	BalanceCents int64
	CompanionID  *string
	CreatedAt    time.Time
}

// ActivePeriod represents an account validity window. An account is active
// when now falls strictly inside (StartAt, EndAt).
type ActivePeriod struct {
	ID        string
	AccountID string
	BudgetID  string
	StartAt   time.Time
	EndAt     time.Time
}

// Transaction represents a transaction row.
type Transaction struct {
	ID          string
	BudgetID    string
	Description string
	Timestamp   time.Time
	Type        string
	ClearedByID *string
}

// Item represents a transaction-item row.
type Item struct {
	ID            string
	TransactionID string
	AccountID     string
	BudgetID      string
	AmountCents   int64
	Description   *string
	DraftStatus   string
}

// AccountItem is an item joined with its transaction's metadata, used for
// account history. Items derive their timestamp from the parent transaction.
type AccountItem struct {
	Item
	Timestamp              time.Time
	TransactionDescription string
	TransactionType        string
}

// BalanceDelta is one signed cents adjustment against an account row.
type BalanceDelta struct {
	AccountID string
	Cents     int64
}
