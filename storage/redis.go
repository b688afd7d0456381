package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps any Redis transport or command failure.
var ErrRedisUnavailable = errors.New("storage: redis unavailable")

// Redis is a [Slot] backed by a single Redis key. It suits kiosk or
// shared-workstation deployments where session state lives off the host.
type Redis struct {
	client redis.UniversalClient
	key    string
}

// NewRedis creates a Redis-backed slot. prefix namespaces the key; key is
// the logical slot name.
func NewRedis(client redis.UniversalClient, prefix, key string) *Redis {
	if prefix != "" {
		key = prefix + ":" + key
	}
	return &Redis{client: client, key: key}
}

// Load reads the slot key. A missing key is [ErrSlotEmpty].
func (r *Redis) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return data, nil
}

// Save overwrites the slot key. The snapshot has no TTL: session lifetime
// is the server's concern, not the slot's.
func (r *Redis) Save(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Clear deletes the slot key.
func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
