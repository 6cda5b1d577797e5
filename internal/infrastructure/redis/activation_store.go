package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/makehaven/profile-membership/internal/domain/entity"

	"github.com/redis/go-redis/v9"
)

const activationKeyPrefix = "activation:"

// ActivationStore holds pending membership activations keyed by the
// browser session. State is short-lived: the TTL bounds how long a
// payment redirect stays resumable.
type ActivationStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewActivationStore creates a new activation store
func NewActivationStore(client *redis.Client, ttl time.Duration) *ActivationStore {
	return &ActivationStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *ActivationStore) key(sessionID string) string {
	return activationKeyPrefix + sessionID
}

// Set stores the pending activation for a browser session
func (s *ActivationStore) Set(ctx context.Context, sessionID string, pending *entity.PendingActivation) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to marshal pending activation: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending activation: %w", err)
	}

	return nil
}

// Get retrieves the pending activation for a browser session. Absent or
// undecodable state reads as expired, not as a fault.
func (s *ActivationStore) Get(ctx context.Context, sessionID string) (*entity.PendingActivation, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, entity.ErrActivationExpired
		}
		return nil, fmt.Errorf("failed to get pending activation: %w", err)
	}

	var pending entity.PendingActivation
	if err := json.Unmarshal([]byte(data), &pending); err != nil {
		return nil, entity.ErrActivationExpired
	}

	return &pending, nil
}

// Clear removes the pending activation for a browser session
func (s *ActivationStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear pending activation: %w", err)
	}
	return nil
}
