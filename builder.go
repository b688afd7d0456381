package authclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/pocketledger/authclient/storage"
)

// Builder assembles a [Client]. A builder is single-use: Build returns an
// error on reuse.
type Builder struct {
	config Config

	httpClient *http.Client
	slot       storage.Slot
	redis      redis.UniversalClient
	auditSink  AuditSink

	built bool
}

// New creates a builder seeded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL sets the account service root.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.Server.BaseURL = baseURL
	return b
}

// WithHTTPClient overrides the transport. When unset, a client with the
// configured timeout is used.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithSlot injects the durable session slot directly, bypassing
// [StorageConfig]-driven construction.
func (b *Builder) WithSlot(slot storage.Slot) *Builder {
	b.slot = slot
	return b
}

// WithRedis supplies the Redis client required by [BackendRedis].
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAudit toggles the audit event dispatcher.
func (b *Builder) WithAudit(enabled bool) *Builder {
	b.config.Audit.Enabled = enabled
	return b
}

// WithAuditSink sets the audit event destination. Auditing still has to
// be enabled, through [Builder.WithAudit] or [AuditConfig].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithSingleFlight toggles the concurrent-operation guard.
func (b *Builder) WithSingleFlight(enabled bool) *Builder {
	b.config.Guard.SingleFlight = enabled
	return b
}

// WithMetricsEnabled toggles the operation counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, constructs the durable slot,
// rehydrates the session store, and returns the ready client.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(cfg.Server.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}

	slot := b.slot
	if slot == nil {
		slot, err = buildSlot(cfg.Storage, b.redis)
		if err != nil {
			return nil, err
		}
	}

	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Server.Timeout}
	}

	client := &Client{
		config:  cfg,
		http:    httpClient,
		baseURL: baseURL,
		store:   NewStore(slot),
		audit:   newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics: NewMetrics(cfg.Metrics),
	}
	if cfg.Guard.SingleFlight {
		client.group = &singleflight.Group{}
	}
	client.store.OnPersistError(func(persistErr error) {
		client.metrics.incPersistFailure()
	})

	b.built = true

	return client, nil
}

func buildSlot(cfg StorageConfig, redisClient redis.UniversalClient) (storage.Slot, error) {
	switch cfg.Backend {
	case BackendMemory:
		return storage.NewMemory(), nil
	case BackendFile:
		return storage.NewFile(cfg.Path), nil
	case BackendSQLite:
		return storage.OpenSQLite(cfg.Path, cfg.Key)
	case BackendRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("%w: redis backend requires a redis client", ErrStorageBackend)
		}
		return storage.NewRedis(redisClient, cfg.RedisPrefix, cfg.Key), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrStorageBackend, cfg.Backend)
	}
}
