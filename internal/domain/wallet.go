package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet represents a balance-holding account owned by exactly one user.
// It is addressable externally by its wallet number.
type Wallet struct {
	ID           string
	UserID       string
	WalletNumber string
	Balance      decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateDebit checks if the wallet holds enough funds to be debited by amount.
func (w *Wallet) ValidateDebit(amount decimal.Decimal) error {
	if w.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDebit returns the balance after a debit of amount.
func (w *Wallet) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return w.Balance.Sub(amount)
}

// ApplyCredit returns the balance after a credit of amount.
func (w *Wallet) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return w.Balance.Add(amount)
}
