package eventpublisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafeanyi/kobowallet/internal/domain"
)

func TestRedisPublisherPublishesEnvelope(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, "wallet.events")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err, "subscription confirmation")

	pub := NewRedisPublisher(client, "")
	event := &domain.OutboxEvent{
		ID:            "evt-1",
		AggregateID:   "txn-1",
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransferCompleted,
		Payload: map[string]any{
			"sender_wallet_id":    "wal-a",
			"recipient_wallet_id": "wal-b",
			"amount":              "50",
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, pub.Publish(ctx, event))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &envelope))
	assert.Equal(t, "evt-1", envelope["id"])
	assert.Equal(t, domain.EventTypeTransferCompleted, envelope["event_type"])
	assert.Equal(t, domain.AggregateTypeTransaction, envelope["aggregate_type"])

	payload, ok := envelope["payload"].(map[string]any)
	require.True(t, ok, "payload should be a json object")
	assert.Equal(t, "wal-a", payload["sender_wallet_id"])
	assert.Equal(t, "50", payload["amount"])
}

func TestRedisPublisherCustomChannel(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, "ledger.audit")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	pub := NewRedisPublisher(client, "ledger.audit")
	require.NoError(t, pub.Publish(ctx, &domain.OutboxEvent{
		ID:        "evt-2",
		EventType: domain.EventTypeDepositSettled,
		CreatedAt: time.Now().UTC(),
	}))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg.Payload, "deposit.settled")
}
