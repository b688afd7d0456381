package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pocketledger/authclient/storage"
)

func TestBuilderIsSingleUse(t *testing.T) {
	b := New().WithBaseURL("https://api.example.com")
	client, err := b.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	t.Cleanup(client.Close)

	if _, err := b.Build(); err == nil {
		t.Fatal("second Build must fail")
	}
}

func TestBuildRequiresBaseURL(t *testing.T) {
	if _, err := New().Build(); !errors.Is(err, ErrInvalidBaseURL) {
		t.Fatalf("expected ErrInvalidBaseURL, got %v", err)
	}
}

func TestBuildRedisBackendRequiresClient(t *testing.T) {
	b := New().WithBaseURL("https://api.example.com")
	b.config.Storage.Backend = BackendRedis

	if _, err := b.Build(); !errors.Is(err, ErrStorageBackend) {
		t.Fatalf("expected ErrStorageBackend, got %v", err)
	}
}

func TestBuildWithRedisBackendPersists(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	b := New().WithBaseURL("https://api.example.com").WithRedis(rdb)
	b.config.Storage.Backend = BackendRedis

	client, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)

	client.Store().SetAuthData(User{ID: 1, Username: "alice"}, "abc")

	raw, err := mr.Get("auth-storage")
	if err != nil {
		t.Fatalf("reading persisted slot: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("decoding persisted snapshot: %v", err)
	}
	if snap.Token != "abc" || !snap.IsAuthenticated {
		t.Fatalf("unexpected persisted snapshot: %+v", snap)
	}
}

func TestBuildRehydratesFromInjectedSlot(t *testing.T) {
	slot := storage.NewMemory()
	raw, err := json.Marshal(Snapshot{
		User:            &User{ID: 1, Username: "alice"},
		Token:           "abc",
		IsAuthenticated: true,
	})
	if err != nil {
		t.Fatalf("encoding snapshot: %v", err)
	}
	if err := slot.Save(context.Background(), raw); err != nil {
		t.Fatalf("seeding slot: %v", err)
	}

	client, err := New().WithBaseURL("https://api.example.com").WithSlot(slot).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)

	snap := client.Store().Snapshot()
	if snap.User == nil || snap.User.Username != "alice" || snap.Token != "abc" {
		t.Fatalf("expected rehydrated session, got %+v", snap)
	}
}

func TestBuildAppliesConfiguredTimeout(t *testing.T) {
	cfg := defaultConfig()
	cfg.Server.BaseURL = "https://api.example.com"
	cfg.Server.Timeout = 3 * time.Second

	client, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)

	if client.http.Timeout != 3*time.Second {
		t.Fatalf("expected 3s transport timeout, got %v", client.http.Timeout)
	}
}

func TestPersistFailureCountedInMetrics(t *testing.T) {
	client, err := New().WithBaseURL("https://api.example.com").WithSlot(failingSlot{}).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)

	client.Store().SetAuthData(User{ID: 1, Username: "alice"}, "abc")

	if got := client.Metrics().Snapshot().PersistFailures; got != 1 {
		t.Fatalf("expected 1 persist failure, got %d", got)
	}
}

func TestUnusableClientReportsNotReady(t *testing.T) {
	var client *Client
	if err := client.Login(context.Background(), Credentials{}); !errors.Is(err, ErrClientNotReady) {
		t.Fatalf("expected ErrClientNotReady, got %v", err)
	}
}
