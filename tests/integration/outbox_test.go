package integration

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafeanyi/kobowallet/internal/domain"
	"github.com/dafeanyi/kobowallet/internal/infrastructure/eventpublisher"
	"github.com/dafeanyi/kobowallet/internal/usecase"
)

func TestOutbox_TransferEmitsEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sender := f.db.CreateFundedWallet(ctx, "sender@example.com", decimal.NewFromInt(500))
	recipient := f.db.CreateFundedWallet(ctx, "recipient@example.com", decimal.Zero)

	_, err := f.transferUC.Transfer(ctx, usecase.TransferInput{
		SenderUserID:          sender.UserID,
		RecipientWalletNumber: recipient.WalletNumber,
		Amount:                decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	events, err := f.outboxRepo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("failed to fetch outbox: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one unpublished event, got %d", len(events))
	}
	if events[0].EventType != domain.EventTypeTransferCompleted {
		t.Fatalf("unexpected event type %s", events[0].EventType)
	}
}

func TestOutbox_PublisherDrainsEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sender := f.db.CreateFundedWallet(ctx, "sender@example.com", decimal.NewFromInt(500))
	recipient := f.db.CreateFundedWallet(ctx, "recipient@example.com", decimal.Zero)

	_, err := f.transferUC.Transfer(ctx, usecase.TransferInput{
		SenderUserID:          sender.UserID,
		RecipientWalletNumber: recipient.WalletNumber,
		Amount:                decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: f.outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(slog.Default()),
		Interval:   10 * time.Millisecond,
	})

	runCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_ = publisher.Start(runCtx)

	events, err := f.outboxRepo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("failed to fetch outbox: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected outbox to be drained, %d events remain", len(events))
	}
}
