package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/walletreg/accounts-api/internal/core/domain"
)

// NonceStore keeps one outstanding sign-in nonce per address.
// Key format: nonce:<address>
type NonceStore struct {
	client *redis.Client
}

// NewNonceStore creates a NonceStore wrapping the given Redis client.
func NewNonceStore(client *redis.Client) *NonceStore {
	return &NonceStore{client: client}
}

// Put stores nonce for address, replacing any earlier one, for ttl.
func (s *NonceStore) Put(ctx context.Context, address, nonce string, ttl time.Duration) error {
	if err := s.client.Set(ctx, nonceKey(address), nonce, ttl).Err(); err != nil {
		return fmt.Errorf("%w: store nonce: %w", domain.ErrStorage, err)
	}
	return nil
}

// Consume atomically reads and deletes the nonce so it can be used only once.
func (s *NonceStore) Consume(ctx context.Context, address string) (string, error) {
	nonce, err := s.client.GetDel(ctx, nonceKey(address)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrNonceNotFound
		}
		return "", fmt.Errorf("%w: consume nonce: %w", domain.ErrStorage, err)
	}
	return nonce, nil
}

func nonceKey(address string) string {
	return "nonce:" + address
}
