package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionTransfer   TransactionType = "transfer"
)

// Transaction records one completed money movement.
// FromAccount is 0 for deposits, ToAccount is 0 for withdrawals.
type Transaction struct {
	ID          string
	Type        TransactionType
	FromAccount int64
	ToAccount   int64
	Amount      decimal.Decimal
	CreatedAt   time.Time
}
