package auth

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"hrmportal/internal/platform/db"
)

func exerciseStore(t *testing.T, store SessionStore) {
	t.Helper()
	ctx := context.Background()
	id := "store-test-" + time.Now().Format("150405.000000000")

	if _, err := store.Get(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected missing session, got %v", err)
	}
	if err := store.Put(ctx, id, []byte(`{"id":"x"}`), time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"id":"x"}` {
		t.Fatalf("unexpected payload %q", got)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected deleted session to be gone, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Put(ctx, "a", []byte("x"), time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}
	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	purged, err := store.PurgeExpired(ctx)
	if err != nil || purged != 1 {
		t.Fatalf("expected one purged entry, got %d %v", purged, err)
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	exerciseStore(t, NewPostgresStore(pool))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	exerciseStore(t, NewRedisStore(client))
}
