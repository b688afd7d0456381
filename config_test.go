package authclient

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty base url", func(c *Config) { c.Server.BaseURL = "" }, ErrInvalidBaseURL},
		{"relative base url", func(c *Config) { c.Server.BaseURL = "api.example.com/auth" }, ErrInvalidBaseURL},
		{"file backend without path", func(c *Config) { c.Storage.Backend = BackendFile }, ErrStorageBackend},
		{"sqlite backend without path", func(c *Config) { c.Storage.Backend = BackendSQLite }, ErrStorageBackend},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "etcd" }, ErrStorageBackend},
		{"empty storage key", func(c *Config) { c.Storage.Key = "" }, ErrStorageBackend},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Server.BaseURL = "https://api.example.com"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation failure")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateRejectsNegativeTimeout(t *testing.T) {
	cfg := defaultConfig()
	cfg.Server.BaseURL = "https://api.example.com"
	cfg.Server.Timeout = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure for negative timeout")
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.yaml")
	contents := `
server:
  base_url: https://api.example.com
  timeout: 30s
storage:
  backend: file
  path: /tmp/session.json
  key: my-slot
guard:
  single_flight: true
audit:
  enabled: true
  buffer_size: 128
  drop_if_full: true
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.BaseURL != "https://api.example.com" {
		t.Errorf("base url not applied: %q", cfg.Server.BaseURL)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("timeout not parsed: %v", cfg.Server.Timeout)
	}
	if cfg.Server.UserAgent != "authclient/1.0" {
		t.Errorf("default user agent lost: %q", cfg.Server.UserAgent)
	}
	if cfg.Storage.Backend != BackendFile || cfg.Storage.Path != "/tmp/session.json" || cfg.Storage.Key != "my-slot" {
		t.Errorf("storage section not applied: %+v", cfg.Storage)
	}
	if !cfg.Guard.SingleFlight {
		t.Error("guard section not applied")
	}
	if !cfg.Audit.Enabled || cfg.Audit.BufferSize != 128 || !cfg.Audit.DropIfFull {
		t.Errorf("audit section not applied: %+v", cfg.Audit)
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics default must survive an absent section")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	var cfgErr *ConfigFileError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigFileError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped fs error, got %v", err)
	}
}

func TestLoadConfigBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.yaml")
	contents := "server:\n  base_url: https://api.example.com\n  timeout: soon\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	_, err := LoadConfig(path)
	var cfgErr *ConfigFileError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigFileError, got %v", err)
	}
}

func TestLoadConfigInvalidResultFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.yaml")
	contents := "server:\n  base_url: https://api.example.com\nstorage:\n  backend: sqlite\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrStorageBackend) {
		t.Fatalf("expected storage backend error, got %v", err)
	}
}
