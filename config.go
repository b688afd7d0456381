package authclient

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines the client's tunable behavior. Instances are configured
// during initialization and treated as immutable after [Builder.Build].
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Guard   GuardConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

// ServerConfig locates the remote account service.
type ServerConfig struct {
	// BaseURL is the root of the account service, e.g.
	// "https://api.example.com". Required.
	BaseURL string
	// Timeout bounds each HTTP request when no custom http.Client is
	// supplied to the builder.
	Timeout time.Duration
	// UserAgent is sent on every request.
	UserAgent string
}

// StorageBackend selects the durable slot implementation built from
// configuration when no explicit slot is injected.
type StorageBackend string

const (
	// BackendMemory keeps the session in-process only.
	BackendMemory StorageBackend = "memory"
	// BackendFile persists the session to a JSON file.
	BackendFile StorageBackend = "file"
	// BackendSQLite persists the session to a SQLite table.
	BackendSQLite StorageBackend = "sqlite"
	// BackendRedis persists the session to a Redis key; requires
	// [Builder.WithRedis].
	BackendRedis StorageBackend = "redis"
)

// StorageConfig describes the durable session slot.
type StorageConfig struct {
	Backend StorageBackend
	// Key is the logical slot name.
	Key string
	// Path is the file or database location for the file and sqlite
	// backends.
	Path string
	// RedisPrefix namespaces the slot key for the redis backend.
	RedisPrefix string
}

// GuardConfig hardens the request lifecycle beyond the baseline
// last-write-wins contract.
type GuardConfig struct {
	// SingleFlight coalesces concurrent invocations of the same
	// operation: while one is in flight, duplicates share its outcome
	// instead of racing on the loading and error flags.
	SingleFlight bool
}

// AuditConfig controls the audit event dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of blocking the operation when the
	// buffer is saturated.
	DropIfFull bool
}

// MetricsConfig controls the per-operation counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Timeout:   15 * time.Second,
			UserAgent: "authclient/1.0",
		},
		Storage: StorageConfig{
			Backend: BackendMemory,
			Key:     "auth-storage",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are values; a shallow copy is a deep copy.
	return cfg
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.BaseURL) == "" {
		return ErrInvalidBaseURL
	}
	parsed, err := url.Parse(c.Server.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.Server.BaseURL)
	}
	if c.Server.Timeout < 0 {
		return errors.New("server timeout must not be negative")
	}
	switch c.Storage.Backend {
	case BackendMemory, BackendRedis:
	case BackendFile, BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: %s backend requires a path", ErrStorageBackend, c.Storage.Backend)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrStorageBackend, c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("%w: storage key is required", ErrStorageBackend)
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive")
	}
	return nil
}

// ConfigFileError carries the path that failed to load.
type ConfigFileError struct {
	Path string
	Err  error
}

func (e *ConfigFileError) Error() string {
	return fmt.Sprintf("config: failed to load %s: %v", e.Path, e.Err)
}

func (e *ConfigFileError) Unwrap() error { return e.Err }

// fileConfig is the YAML shape of a config file. Durations are strings
// ("15s", "1m") parsed with time.ParseDuration.
type fileConfig struct {
	Server struct {
		BaseURL   string `yaml:"base_url"`
		Timeout   string `yaml:"timeout"`
		UserAgent string `yaml:"user_agent"`
	} `yaml:"server"`
	Storage struct {
		Backend     string `yaml:"backend"`
		Key         string `yaml:"key"`
		Path        string `yaml:"path"`
		RedisPrefix string `yaml:"redis_prefix"`
	} `yaml:"storage"`
	Guard struct {
		SingleFlight bool `yaml:"single_flight"`
	} `yaml:"guard"`
	Audit struct {
		Enabled    bool `yaml:"enabled"`
		BufferSize int  `yaml:"buffer_size"`
		DropIfFull bool `yaml:"drop_if_full"`
	} `yaml:"audit"`
	Metrics struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// LoadConfig reads a YAML config file over the defaults and validates the
// result.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &ConfigFileError{Path: path, Err: err}
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, &ConfigFileError{Path: path, Err: err}
	}

	if fc.Server.BaseURL != "" {
		cfg.Server.BaseURL = fc.Server.BaseURL
	}
	if fc.Server.Timeout != "" {
		d, err := time.ParseDuration(fc.Server.Timeout)
		if err != nil {
			return Config{}, &ConfigFileError{Path: path, Err: fmt.Errorf("server.timeout: %w", err)}
		}
		cfg.Server.Timeout = d
	}
	if fc.Server.UserAgent != "" {
		cfg.Server.UserAgent = fc.Server.UserAgent
	}
	if fc.Storage.Backend != "" {
		cfg.Storage.Backend = StorageBackend(fc.Storage.Backend)
	}
	if fc.Storage.Key != "" {
		cfg.Storage.Key = fc.Storage.Key
	}
	cfg.Storage.Path = fc.Storage.Path
	cfg.Storage.RedisPrefix = fc.Storage.RedisPrefix
	cfg.Guard.SingleFlight = fc.Guard.SingleFlight
	cfg.Audit.Enabled = fc.Audit.Enabled
	if fc.Audit.BufferSize > 0 {
		cfg.Audit.BufferSize = fc.Audit.BufferSize
	}
	if fc.Audit.Enabled {
		cfg.Audit.DropIfFull = fc.Audit.DropIfFull
	}
	if fc.Metrics.Enabled != nil {
		cfg.Metrics.Enabled = *fc.Metrics.Enabled
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, &ConfigFileError{Path: path, Err: err}
	}
	return cfg, nil
}
