package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafeanyi/kobowallet/internal/domain"
)

// TransferUseCase moves funds between two wallets atomically and records a
// mirrored pair of transaction rows.
type TransferUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	txnRepo    TransactionRepository
	outboxRepo OutboxRepository
	cache      Cache
	idGen      IDGenerator
	refGen     ReferenceGenerator
	retrier    Retrier
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	txnRepo TransactionRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	refGen ReferenceGenerator,
	retrier Retrier,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
		outboxRepo: outboxRepo,
		cache:      cache,
		idGen:      idGen,
		refGen:     refGen,
		retrier:    retrier,
	}
}

// TransferInput represents input for a wallet-to-wallet transfer.
type TransferInput struct {
	SenderUserID          string
	RecipientWalletNumber string
	Amount                decimal.Decimal
}

// TransferResult holds the mirrored pair of rows a completed transfer
// produced: Debit belongs to the sender wallet, Credit to the recipient.
type TransferResult struct {
	Debit  *domain.Transaction
	Credit *domain.Transaction
}

// Transfer debits the sender and credits the recipient in one unit of work.
// Both wallet rows are locked in ascending wallet-ID order regardless of
// which side initiated, so two concurrent opposite-direction transfers
// between the same pair cannot deadlock. Any failure rolls the whole unit
// back; no partial debit or credit is ever observable.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	// Reject bad input before touching storage.
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateWalletNumber(input.RecipientWalletNumber); err != nil {
		return nil, err
	}

	var result *TransferResult

	attempt := func() error {
		r, err := uc.transferOnce(ctx, input)
		if err != nil {
			return err
		}

		result = r
		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, attempt)
	} else {
		err = attempt()
	}

	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *TransferUseCase) transferOnce(ctx context.Context, input TransferInput) (*TransferResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	senderID, err := uc.walletRepo.ResolveIDByUserID(ctx, tx, input.SenderUserID)
	if err != nil {
		return nil, err
	}

	recipientID, err := uc.walletRepo.ResolveIDByNumber(ctx, tx, input.RecipientWalletNumber)
	if err != nil {
		return nil, err
	}

	if senderID == recipientID {
		return nil, domain.ErrSameWallet
	}

	// Lock both rows in sorted ID order (DEADLOCK PREVENTION).
	ids := []string{senderID, recipientID}
	sort.Strings(ids)

	wallets, err := uc.walletRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	if len(wallets) != len(ids) {
		return nil, domain.ErrWalletNotFound
	}

	var sender, recipient *domain.Wallet
	for _, w := range wallets {
		switch w.ID {
		case senderID:
			sender = w
		case recipientID:
			recipient = w
		}
	}

	if sender == nil || recipient == nil {
		return nil, domain.ErrWalletNotFound
	}

	if err := sender.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	// Resulting balances for the event payload, computed from the locked
	// rows before the adjustments run.
	senderAfter := sender.ApplyDebit(input.Amount)
	recipientAfter := recipient.ApplyCredit(input.Amount)

	now := time.Now().UTC()

	if err := uc.walletRepo.AdjustBalance(ctx, tx, sender.ID, input.Amount.Neg(), now); err != nil {
		return nil, err
	}

	if err := uc.walletRepo.AdjustBalance(ctx, tx, recipient.ID, input.Amount, now); err != nil {
		return nil, err
	}

	debit := &domain.Transaction{
		ID:                uc.idGen.Generate(),
		WalletID:          sender.ID,
		Type:              domain.TransactionTypeTransfer,
		Amount:            input.Amount,
		Status:            domain.TransactionStatusSuccess,
		Reference:         uc.refGen.GenerateReference(),
		RecipientWalletID: &recipient.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	credit := &domain.Transaction{
		ID:                uc.idGen.Generate(),
		WalletID:          recipient.ID,
		Type:              domain.TransactionTypeTransfer,
		Amount:            input.Amount,
		Status:            domain.TransactionStatusSuccess,
		Reference:         uc.refGen.GenerateReference(),
		RecipientWalletID: &sender.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := uc.txnRepo.CreateTx(ctx, tx, debit); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.CreateTx(ctx, tx, credit); err != nil {
		return nil, err
	}

	if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   debit.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransferCompleted,
		Payload: map[string]any{
			"sender_wallet_id":        sender.ID,
			"recipient_wallet_id":     recipient.ID,
			"amount":                  input.Amount.String(),
			"debit_reference":         debit.Reference,
			"credit_reference":        credit.Reference,
			"sender_balance_after":    senderAfter.String(),
			"recipient_balance_after": recipientAfter.String(),
		},
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateBalances(ctx, sender.UserID, recipient.UserID)

	return &TransferResult{Debit: debit, Credit: credit}, nil
}

func (uc *TransferUseCase) invalidateBalances(ctx context.Context, userIDs ...string) {
	if uc.cache == nil {
		return
	}

	for _, id := range userIDs {
		_ = uc.cache.Delete(ctx, BalanceCacheKey(id))
	}
}
