package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafeanyi/kobowallet/internal/domain"
)

// Balance cache settings.
const (
	balanceCacheTTL = 30 * time.Second
)

// BalanceCacheKey returns the cache key for a user's wallet balance.
func BalanceCacheKey(userID string) string {
	return "balance:user:" + userID
}

// QueryUseCase serves read-only balance and history lookups. No locking
// involved; mutation paths invalidate the balance cache.
type QueryUseCase struct {
	walletRepo WalletRepository
	txnRepo    TransactionRepository
	cache      Cache
}

// NewQueryUseCase creates a new QueryUseCase.
func NewQueryUseCase(walletRepo WalletRepository, txnRepo TransactionRepository, cache Cache) *QueryUseCase {
	return &QueryUseCase{
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
		cache:      cache,
	}
}

// GetBalance returns the user's wallet balance, read through the cache.
func (uc *QueryUseCase) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, BalanceCacheKey(userID)); err == nil {
			if balance, err := decimal.NewFromString(cached); err == nil {
				return balance, nil
			}
		}
	}

	wallet, err := uc.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, BalanceCacheKey(userID), wallet.Balance.String(), balanceCacheTTL)
	}

	return wallet.Balance, nil
}

// ListTransactionsInput represents input for listing wallet history.
type ListTransactionsInput struct {
	UserID string
	Limit  int
	Offset int
}

// GetTransactionHistory lists the user's transactions, newest first.
func (uc *QueryUseCase) GetTransactionHistory(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	wallet, err := uc.walletRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	return uc.txnRepo.ListByWallet(ctx, wallet.ID, input.Limit, input.Offset)
}
