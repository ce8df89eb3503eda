package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/walletreg/accounts-api/internal/core/domain"
)

// unreachableClient points at a port nothing listens on.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNonceKey(t *testing.T) {
	if got := nonceKey("0xABC"); got != "nonce:0xABC" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestNonceStore_UnavailableIsStorageError(t *testing.T) {
	store := NewNonceStore(unreachableClient(t))

	err := store.Put(context.Background(), "0xABC", "n", time.Minute)
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage from Put, got %v", err)
	}

	_, err = store.Consume(context.Background(), "0xABC")
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage from Consume, got %v", err)
	}
	if errors.Is(err, domain.ErrNonceNotFound) {
		t.Fatal("an unreachable store must not look like a missing nonce")
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatal("expected ping error")
	}
}
