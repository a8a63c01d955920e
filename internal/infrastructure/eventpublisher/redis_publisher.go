package eventpublisher

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/dafeanyi/kobowallet/internal/domain"
)

// RedisPublisher publishes outbox events to a Redis channel. Downstream
// consumers (notifications, analytics) subscribe to the channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher creates a new RedisPublisher.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = "wallet.events"
	}

	return &RedisPublisher{
		client:  client,
		channel: channel,
	}
}

// Publish sends the event to the configured channel as a JSON envelope.
func (p *RedisPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	envelope := map[string]any{
		"id":             event.ID,
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID,
		"payload":        event.Payload,
		"created_at":     event.CreatedAt,
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, p.channel, body).Err()
}
