package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AuthStateRepository handles caching for OAuth state and processed-session
// markers during the federated login exchange
type AuthStateRepository interface {
	// SetState stores the OAuth state with a TTL
	SetState(ctx context.Context, state string, ttl time.Duration) error

	// TakeState retrieves and removes the OAuth state (pull semantics)
	TakeState(ctx context.Context, state string) (bool, error)

	// MarkSessionProcessed records a provider session as processed. Returns
	// false when the marker already existed, so the same session is never
	// exchanged twice.
	MarkSessionProcessed(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
}

type authStateRepository struct {
	client *redis.Client
}

// NewAuthStateRepository creates a new redis-backed auth state repository
func NewAuthStateRepository(client *redis.Client) AuthStateRepository {
	return &authStateRepository{
		client: client,
	}
}

func (r *authStateRepository) SetState(ctx context.Context, state string, ttl time.Duration) error {
	key := fmt.Sprintf("oauth:state:%s", state)
	return r.client.Set(ctx, key, "1", ttl).Err()
}

func (r *authStateRepository) TakeState(ctx context.Context, state string) (bool, error) {
	key := fmt.Sprintf("oauth:state:%s", state)

	// Use GETDEL to atomically get and delete (pull semantics)
	val, err := r.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get state: %w", err)
	}

	return val == "1", nil
}

func (r *authStateRepository) MarkSessionProcessed(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("oauth:processed:%s", sessionID)

	ok, err := r.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark session processed: %w", err)
	}

	return ok, nil
}
