package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dafeanyi/kobowallet/internal/usecase"
)

// IdempotencyStore backs the Idempotency-Key middleware with Redis.
// Keys hold either the processing placeholder while the first request is
// in flight or the serialized response once it completed.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "wallet:idempotency:",
	}
}

// CheckAndSet reports whether key was seen before and claims it if not.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if err == nil {
		return true, existing, nil
	}
	if err != redis.Nil {
		return false, nil, err
	}

	if response != nil {
		err = s.client.Set(ctx, fullKey, response, ttl).Err()
		if err != nil {
			return false, nil, err
		}
	} else {
		// Claim the key with a placeholder so a concurrent retry of the
		// same transfer cannot start a second execution.
		set, err := s.client.SetNX(ctx, fullKey, usecase.IdempotencyProcessing, ttl).Result()
		if err != nil {
			return false, nil, err
		}
		if !set {
			// A concurrent request claimed the key first.
			existing, err := s.client.Get(ctx, fullKey).Bytes()
			if err != nil && err != redis.Nil {
				return false, nil, err
			}
			return true, existing, nil
		}
	}

	return false, nil, nil
}

// Update updates an existing idempotency key with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	fullKey := s.prefix + key
	return s.client.Set(ctx, fullKey, response, ttl).Err()
}
