// Package session persists the most recent intent classification per
// conversation so the next turn's analysis can detect context shifts.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voxline-ai/sales-triage/internal/qualification"
)

// ErrNotFound is returned when a conversation has no stored intent yet.
var ErrNotFound = errors.New("session: intent not found")

const defaultTTL = 30 * time.Minute

// IntentStore keeps the previous intent label per conversation in Redis with
// a sliding TTL, so abandoned conversations expire on their own.
type IntentStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIntentStore creates a store over an existing Redis client. A zero ttl
// falls back to the default.
func NewIntentStore(client *redis.Client, ttl time.Duration) *IntentStore {
	if client == nil {
		panic("session: redis client is required")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &IntentStore{client: client, ttl: ttl}
}

func intentKey(conversationID string) string {
	return "triage:intent:" + conversationID
}

// Get returns the previous intent for the conversation, or ErrNotFound when
// none is stored or the entry expired.
func (s *IntentStore) Get(ctx context.Context, conversationID string) (qualification.Intent, error) {
	val, err := s.client.Get(ctx, intentKey(conversationID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("session: get intent: %w", err)
	}
	return qualification.Intent(val), nil
}

// Set stores the intent for the conversation and resets its TTL.
func (s *IntentStore) Set(ctx context.Context, conversationID string, intent qualification.Intent) error {
	if err := s.client.Set(ctx, intentKey(conversationID), string(intent), s.ttl).Err(); err != nil {
		return fmt.Errorf("session: set intent: %w", err)
	}
	return nil
}
