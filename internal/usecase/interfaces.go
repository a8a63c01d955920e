package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafeanyi/kobowallet/internal/domain"
)

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	CreateTx(ctx context.Context, tx Transaction, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error)
	// ResolveIDByUserID and ResolveIDByNumber look up wallet IDs inside a
	// transaction without taking row locks, so lock acquisition can happen
	// in deterministic ID order afterwards.
	ResolveIDByUserID(ctx context.Context, tx Transaction, userID string) (string, error)
	ResolveIDByNumber(ctx context.Context, tx Transaction, walletNumber string) (string, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Wallet, error)
	// GetByIDsForUpdate locks the given wallet rows in ascending ID order.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Wallet, error)
	AdjustBalance(ctx context.Context, tx Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error
}

// TransactionRepository defines data access for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	CreateTx(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	GetByReferenceForUpdate(ctx context.Context, tx Transaction, reference string) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.TransactionStatus, updatedAt time.Time) error
	ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transaction, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	CreateTx(ctx context.Context, tx Transaction, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle. Every multi-row
// mutation in the ledger runs inside one of its transactions.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries a unit of work on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique row IDs.
type IDGenerator interface {
	Generate() string
}

// ReferenceGenerator generates globally unique transaction references.
type ReferenceGenerator interface {
	GenerateReference() string
}

// WalletNumberGenerator generates externally addressable wallet numbers.
type WalletNumberGenerator interface {
	GenerateWalletNumber() string
}

// Cache defines caching operations for read paths.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CollectionInit is the gateway's response to a collection request.
type CollectionInit struct {
	AuthorizationURL string
	AccessCode       string
}

// GatewayClient is the payment gateway used to collect deposits.
type GatewayClient interface {
	InitializeCollection(ctx context.Context, email string, amount decimal.Decimal, reference string) (*CollectionInit, error)
}

// IdempotencyProcessing is the placeholder stored against an idempotency
// key while the first execution is still running. Consumers must not treat
// it as a replayable response.
const IdempotencyProcessing = "processing"

// IdempotencyStore handles idempotency key storage for inbound requests.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
