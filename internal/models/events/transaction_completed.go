package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/bank-ledger/internal/models"
)

const TopicTransactionCompleted = "transaction_completed"

type TransactionCompleted struct {
	TransactionID string          `json:"transaction_id"`
	Type          string          `json:"type"`
	FromAccount   int64           `json:"from_account,omitempty"`
	ToAccount     int64           `json:"to_account,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func NewTransactionCompleted(tx models.Transaction) TransactionCompleted {
	return TransactionCompleted{
		TransactionID: tx.ID,
		Type:          string(tx.Type),
		FromAccount:   tx.FromAccount,
		ToAccount:     tx.ToAccount,
		Amount:        tx.Amount,
		OccurredAt:    tx.CreatedAt,
	}
}
