package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction row.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeTransfer TransactionType = "transfer"
)

// TransactionStatus is the lifecycle state of a transaction.
// Deposits start pending and transition exactly once to success or failed.
// Transfer rows are created already in success.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// IsTerminal reports whether the status is a terminal state.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusSuccess || s == TransactionStatusFailed
}

// Transaction records one event against a wallet's balance. Amount is always
// positive; direction is implied by the type and the owning wallet.
// Reference is globally unique and doubles as the idempotency key for
// gateway-sourced deposits.
type Transaction struct {
	ID                string
	WalletID          string
	Type              TransactionType
	Amount            decimal.Decimal
	Status            TransactionStatus
	Reference         string
	RecipientWalletID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate validates a transaction row before insertion.
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.Reference == "" {
		return ErrMissingReference
	}

	return nil
}
