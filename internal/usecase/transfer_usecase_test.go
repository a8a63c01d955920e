package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dafeanyi/kobowallet/internal/domain"
	"github.com/dafeanyi/kobowallet/internal/usecase"
	"github.com/dafeanyi/kobowallet/internal/usecase/mocks"
)

func newTransferFixture() (*usecase.TransferUseCase, *mocks.MockWalletRepository, *mocks.MockTransactionRepository, *mocks.MockOutboxRepository, *mocks.MockTransactionManager) {
	walletRepo := mocks.NewMockWalletRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	txMgr := mocks.NewMockTransactionManager()

	uc := usecase.NewTransferUseCase(
		txMgr, walletRepo, txnRepo, outboxRepo,
		mocks.NewMockCache(), mocks.NewMockIDGenerator(), mocks.NewMockReferenceGenerator(), nil,
	)

	return uc, walletRepo, txnRepo, outboxRepo, txMgr
}

func seedWalletPair(walletRepo *mocks.MockWalletRepository, senderBalance, recipientBalance decimal.Decimal) (*domain.Wallet, *domain.Wallet) {
	sender := &domain.Wallet{
		ID:           "wal-a",
		UserID:       "user-a",
		WalletNumber: "1111222233334444",
		Balance:      senderBalance,
	}
	recipient := &domain.Wallet{
		ID:           "wal-b",
		UserID:       "user-b",
		WalletNumber: "5555666677778888",
		Balance:      recipientBalance,
	}

	walletRepo.Add(sender)
	walletRepo.Add(recipient)

	return sender, recipient
}

func TestTransferUseCase_Transfer(t *testing.T) {
	t.Run("successful transfer conserves total balance", func(t *testing.T) {
		uc, walletRepo, txnRepo, outboxRepo, _ := newTransferFixture()
		sender, recipient := seedWalletPair(walletRepo, decimal.NewFromInt(500), decimal.NewFromInt(50))

		result, err := uc.Transfer(context.Background(), usecase.TransferInput{
			SenderUserID:          "user-a",
			RecipientWalletNumber: "5555666677778888",
			Amount:                decimal.NewFromInt(200),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !sender.Balance.Equal(decimal.NewFromInt(300)) {
			t.Errorf("expected sender balance 300, got %s", sender.Balance)
		}
		if !recipient.Balance.Equal(decimal.NewFromInt(250)) {
			t.Errorf("expected recipient balance 250, got %s", recipient.Balance)
		}

		total := sender.Balance.Add(recipient.Balance)
		if !total.Equal(decimal.NewFromInt(550)) {
			t.Errorf("transfer changed total balance: %s", total)
		}

		if result.Debit.WalletID != sender.ID || *result.Debit.RecipientWalletID != recipient.ID {
			t.Error("debit row does not point at recipient")
		}
		if result.Credit.WalletID != recipient.ID || *result.Credit.RecipientWalletID != sender.ID {
			t.Error("credit row does not point at sender")
		}
		if result.Debit.Status != domain.TransactionStatusSuccess || result.Credit.Status != domain.TransactionStatusSuccess {
			t.Error("transfer rows must be created in success status")
		}
		if result.Debit.Reference == result.Credit.Reference {
			t.Error("each side must get its own reference")
		}

		rows, _ := txnRepo.ListByWallet(context.Background(), sender.ID, 10, 0)
		if len(rows) != 1 {
			t.Errorf("expected exactly one row on sender wallet, got %d", len(rows))
		}

		if len(outboxRepo.Events) != 1 {
			t.Fatalf("expected one transfer event, got %d", len(outboxRepo.Events))
		}
		payload := outboxRepo.Events[0].Payload
		if payload["sender_balance_after"] != "300" || payload["recipient_balance_after"] != "250" {
			t.Errorf("event must carry the resulting balances, got %v", payload)
		}
	})

	t.Run("non-positive amount rejected before storage", func(t *testing.T) {
		for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
			uc, _, _, _, txMgr := newTransferFixture()
			txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
				t.Fatal("transaction must not begin for invalid amount")
				return nil, nil
			}

			_, err := uc.Transfer(context.Background(), usecase.TransferInput{
				SenderUserID:          "user-a",
				RecipientWalletNumber: "5555666677778888",
				Amount:                amount,
			})
			if !errors.Is(err, domain.ErrInvalidAmount) {
				t.Errorf("expected ErrInvalidAmount for %s, got %v", amount, err)
			}
		}
	})

	t.Run("insufficient funds leaves balances unchanged", func(t *testing.T) {
		uc, walletRepo, _, _, txMgr := newTransferFixture()
		sender, recipient := seedWalletPair(walletRepo, decimal.RequireFromString("100.00"), decimal.Zero)

		_, err := uc.Transfer(context.Background(), usecase.TransferInput{
			SenderUserID:          "user-a",
			RecipientWalletNumber: "5555666677778888",
			Amount:                decimal.RequireFromString("100.01"),
		})
		if !errors.Is(err, domain.ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}

		if !sender.Balance.Equal(decimal.RequireFromString("100.00")) {
			t.Errorf("sender balance changed on failed transfer: %s", sender.Balance)
		}
		if !recipient.Balance.Equal(decimal.Zero) {
			t.Errorf("recipient balance changed on failed transfer: %s", recipient.Balance)
		}
		if txMgr.LastTx == nil || !txMgr.LastTx.RolledBack {
			t.Error("expected unit of work to roll back")
		}
	})

	t.Run("same wallet rejected", func(t *testing.T) {
		uc, walletRepo, _, _, _ := newTransferFixture()
		sender, _ := seedWalletPair(walletRepo, decimal.NewFromInt(500), decimal.Zero)

		_, err := uc.Transfer(context.Background(), usecase.TransferInput{
			SenderUserID:          sender.UserID,
			RecipientWalletNumber: sender.WalletNumber,
			Amount:                decimal.NewFromInt(10),
		})
		if !errors.Is(err, domain.ErrSameWallet) {
			t.Errorf("expected ErrSameWallet, got %v", err)
		}
	})

	t.Run("sender wallet not found", func(t *testing.T) {
		uc, walletRepo, _, _, _ := newTransferFixture()
		seedWalletPair(walletRepo, decimal.NewFromInt(500), decimal.Zero)

		_, err := uc.Transfer(context.Background(), usecase.TransferInput{
			SenderUserID:          "user-unknown",
			RecipientWalletNumber: "5555666677778888",
			Amount:                decimal.NewFromInt(10),
		})
		if !errors.Is(err, domain.ErrWalletNotFound) {
			t.Errorf("expected ErrWalletNotFound, got %v", err)
		}
	})

	t.Run("recipient wallet not found", func(t *testing.T) {
		uc, walletRepo, _, _, _ := newTransferFixture()
		seedWalletPair(walletRepo, decimal.NewFromInt(500), decimal.Zero)

		_, err := uc.Transfer(context.Background(), usecase.TransferInput{
			SenderUserID:          "user-a",
			RecipientWalletNumber: "9999999999999999",
			Amount:                decimal.NewFromInt(10),
		})
		if !errors.Is(err, domain.ErrWalletNotFound) {
			t.Errorf("expected ErrWalletNotFound, got %v", err)
		}
	})

	t.Run("malformed wallet number rejected before storage", func(t *testing.T) {
		uc, _, _, _, txMgr := newTransferFixture()
		txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
			t.Fatal("transaction must not begin for malformed wallet number")
			return nil, nil
		}

		_, err := uc.Transfer(context.Background(), usecase.TransferInput{
			SenderUserID:          "user-a",
			RecipientWalletNumber: "not-a-number",
			Amount:                decimal.NewFromInt(10),
		})
		if !errors.Is(err, domain.ErrBadWalletNumber) {
			t.Errorf("expected ErrBadWalletNumber, got %v", err)
		}
	})

	t.Run("locks wallets in sorted id order", func(t *testing.T) {
		uc, walletRepo, _, _, _ := newTransferFixture()
		seedWalletPair(walletRepo, decimal.NewFromInt(500), decimal.Zero)

		var lockedIDs []string
		walletRepo.GetByIDsForUpdateFunc = func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error) {
			lockedIDs = append([]string(nil), ids...)
			walletRepo.GetByIDsForUpdateFunc = nil
			return walletRepo.GetByIDsForUpdate(ctx, tx, ids)
		}

		// Initiated from wal-b's owner, but lock order must still be wal-a first.
		_, err := uc.Transfer(context.Background(), usecase.TransferInput{
			SenderUserID:          "user-b",
			RecipientWalletNumber: "1111222233334444",
			Amount:                decimal.NewFromInt(1),
		})
		if !errors.Is(err, domain.ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds (wal-b holds 0), got %v", err)
		}

		if len(lockedIDs) != 2 || lockedIDs[0] != "wal-a" || lockedIDs[1] != "wal-b" {
			t.Errorf("expected lock order [wal-a wal-b], got %v", lockedIDs)
		}
	})
}
