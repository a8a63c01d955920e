package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafeanyi/kobowallet/internal/domain"
)

// DepositUseCase handles gateway-funded deposits: initiation of a pending
// transaction and exactly-once settlement of the verified gateway event.
type DepositUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	txnRepo    TransactionRepository
	outboxRepo OutboxRepository
	gateway    GatewayClient
	cache      Cache
	idGen      IDGenerator
	refGen     ReferenceGenerator
	retrier    Retrier
}

// NewDepositUseCase creates a new DepositUseCase.
func NewDepositUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	txnRepo TransactionRepository,
	outboxRepo OutboxRepository,
	gateway GatewayClient,
	cache Cache,
	idGen IDGenerator,
	refGen ReferenceGenerator,
	retrier Retrier,
) *DepositUseCase {
	return &DepositUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
		outboxRepo: outboxRepo,
		gateway:    gateway,
		cache:      cache,
		idGen:      idGen,
		refGen:     refGen,
		retrier:    retrier,
	}
}

// InitiateDepositInput represents input for initiating a deposit.
type InitiateDepositInput struct {
	UserID string
	Email  string
	Amount decimal.Decimal
}

// DepositInitiation is handed back to the caller so the gateway can
// collect the funds.
type DepositInitiation struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
}

// InitiateDeposit creates a pending deposit transaction and asks the
// gateway to start collection. No balance changes here; the wallet is
// credited only when the gateway confirms the charge via SettleDeposit.
func (uc *DepositUseCase) InitiateDeposit(ctx context.Context, input InitiateDepositInput) (*DepositInitiation, error) {
	if err := domain.ValidateDepositAmount(input.Amount); err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:        uc.idGen.Generate(),
		WalletID:  wallet.ID,
		Type:      domain.TransactionTypeDeposit,
		Amount:    input.Amount,
		Status:    domain.TransactionStatusPending,
		Reference: uc.refGen.GenerateReference(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	// The pending row stays in place if the gateway call fails; retrying
	// the collection is the caller's concern.
	init, err := uc.gateway.InitializeCollection(ctx, input.Email, input.Amount, txn.Reference)
	if err != nil {
		return nil, err
	}

	return &DepositInitiation{
		Reference:        txn.Reference,
		AuthorizationURL: init.AuthorizationURL,
		AccessCode:       init.AccessCode,
	}, nil
}

// SettleDeposit consumes a verified gateway event and finalizes the pending
// deposit it references. Replayed or concurrently delivered duplicates are
// absorbed as no-ops: the transaction row is locked for the duration of the
// unit of work, and a second settle observes the terminal status already
// set. A failed reference is never resurrected to success.
func (uc *DepositUseCase) SettleDeposit(ctx context.Context, event domain.DepositEvent) error {
	settle := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		txn, err := uc.txnRepo.GetByReferenceForUpdate(ctx, tx, event.Reference)
		if err != nil {
			return err
		}

		if txn.Status.IsTerminal() {
			if string(txn.Status) == string(event.Outcome) {
				// Duplicate delivery of an already applied event.
				return nil
			}

			return domain.ErrTransactionFinal
		}

		now := time.Now().UTC()

		newStatus := domain.TransactionStatusFailed
		if event.Outcome == domain.DepositOutcomeSuccess {
			newStatus = domain.TransactionStatusSuccess
		}

		if err := uc.txnRepo.UpdateStatus(ctx, tx, txn.ID, newStatus, now); err != nil {
			return err
		}

		var wallet *domain.Wallet
		if newStatus == domain.TransactionStatusSuccess {
			wallet, err = uc.walletRepo.GetByIDForUpdate(ctx, tx, txn.WalletID)
			if err != nil {
				return err
			}

			// Resulting balance for the event payload, from the locked row
			// before the adjustment runs.
			balanceAfter := wallet.ApplyCredit(event.Amount)

			if err := uc.walletRepo.AdjustBalance(ctx, tx, wallet.ID, event.Amount, now); err != nil {
				return err
			}

			if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
				ID:            uc.idGen.Generate(),
				AggregateID:   txn.ID,
				AggregateType: domain.AggregateTypeTransaction,
				EventType:     domain.EventTypeDepositSettled,
				Payload: map[string]any{
					"reference":     txn.Reference,
					"wallet_id":     wallet.ID,
					"amount":        event.Amount.String(),
					"balance_after": balanceAfter.String(),
				},
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		if wallet != nil {
			uc.invalidateBalance(ctx, wallet.UserID)
		}

		return nil
	}

	if uc.retrier != nil {
		return uc.retrier.Retry(ctx, settle)
	}

	return settle()
}

// GetDepositStatus looks up a deposit by reference, enforcing that the
// caller owns the wallet it belongs to.
func (uc *DepositUseCase) GetDepositStatus(ctx context.Context, reference, userID string) (*domain.Transaction, error) {
	txn, err := uc.txnRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.GetByID(ctx, txn.WalletID)
	if err != nil {
		return nil, err
	}

	if wallet.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	return txn, nil
}

func (uc *DepositUseCase) invalidateBalance(ctx context.Context, userID string) {
	if uc.cache == nil {
		return
	}

	// Stale cache entries only delay reads; errors here are not fatal.
	_ = uc.cache.Delete(ctx, BalanceCacheKey(userID))
}
