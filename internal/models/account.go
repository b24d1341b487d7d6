package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Account is a named balance holder identified by its account number.
// Balance never drops below zero; Deposit and Withdraw are the only mutators.
type Account struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewAccount builds an account holding initialDeposit.
func NewAccount(id int64, name string, initialDeposit decimal.Decimal, createdAt time.Time) (*Account, error) {
	if initialDeposit.IsNegative() {
		return nil, fmt.Errorf("initial deposit: %w", ErrNegativeAmount)
	}
	return &Account{
		ID:        id,
		Name:      name,
		Balance:   initialDeposit,
		CreatedAt: createdAt,
	}, nil
}

func (a *Account) Deposit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("deposit: %w", ErrNegativeAmount)
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Withdraw removes amount from the balance. The balance is checked before
// it is touched, so a failed withdrawal leaves the account as it was.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("withdrawal: %w", ErrNegativeAmount)
	}
	if amount.GreaterThan(a.Balance) {
		return fmt.Errorf("withdrawal of %s from account %d: %w", FormatAmount(amount), a.ID, ErrInsufficientFunds)
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Summary renders the account for display.
func (a Account) Summary() string {
	return fmt.Sprintf("Account Number: %d\nAccount Name: %s\nBalance: $%s", a.ID, a.Name, FormatAmount(a.Balance))
}

// FormatAmount pads amount to cents but never rounds away sub-cent digits.
func FormatAmount(amount decimal.Decimal) string {
	if -amount.Exponent() <= 2 {
		return amount.StringFixed(2)
	}
	return amount.String()
}
