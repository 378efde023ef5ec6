package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"karma-light/internal/cart"

	"github.com/redis/go-redis/v9"
)

// Store persists per-visitor carts. A session carries nothing else.
type Store interface {
	// Get returns the visitor's cart, or an empty cart when none is stored.
	Get(ctx context.Context, sessionID string) (cart.Cart, error)
	// Set overwrites the visitor's cart and refreshes its TTL.
	Set(ctx context.Context, sessionID string, c cart.Cart) error
	// Delete removes the visitor's cart.
	Delete(ctx context.Context, sessionID string) error
}

// RedisStore keeps carts in Redis as JSON with a sliding expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. Carts expire after seven days of
// inactivity, mirroring the browser session lifetime.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    7 * 24 * time.Hour,
	}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// Get returns the stored cart, or an empty one on a miss
func (s *RedisStore) Get(ctx context.Context, sessionID string) (cart.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart from redis: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}

	return c, nil
}

// Set stores the cart and refreshes the TTL
func (s *RedisStore) Set(ctx context.Context, sessionID string, c cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	if err := s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cart in redis: %w", err)
	}

	return nil
}

// Delete removes the cart
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart from redis: %w", err)
	}

	return nil
}
