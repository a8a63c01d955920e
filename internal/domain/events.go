package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeDepositSettled    = "deposit.settled"
	EventTypeTransferCompleted = "transfer.completed"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeWallet      = "wallet"
)

// DepositOutcome is the result a verified gateway event carries.
type DepositOutcome string

const (
	DepositOutcomeSuccess DepositOutcome = "success"
	DepositOutcomeFailed  DepositOutcome = "failed"
)

// DepositEvent is a gateway charge event after signature verification.
// Amount is already converted from minor units to the ledger's decimal unit.
type DepositEvent struct {
	Outcome   DepositOutcome
	Reference string
	Amount    decimal.Decimal
}

// OutboxEvent represents a ledger event to be published. It is written in
// the same unit of work as the balance mutation it describes.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
