package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
portal:
  base_url: https://example.test
  timeout_seconds: 30
  retries: 3
  retry_on_blocked: true
cache:
  backend: sqlite
  path: /tmp/cache.db
  ttl_seconds: 3600
search:
  max_depth: 8
logging:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Portal.BaseURL != "https://example.test" {
		t.Errorf("base_url = %q", cfg.Portal.BaseURL)
	}
	if cfg.Portal.Timeout() != 30*time.Second {
		t.Errorf("timeout = %v", cfg.Portal.Timeout())
	}
	if cfg.Portal.Retries != 3 || !cfg.Portal.RetryOnBlocked {
		t.Errorf("retries = %d, retry_on_blocked = %v", cfg.Portal.Retries, cfg.Portal.RetryOnBlocked)
	}
	if cfg.Cache.Backend != "sqlite" || cfg.Cache.TTL() != time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Search.MaxDepth != 8 {
		t.Errorf("max_depth = %d", cfg.Search.MaxDepth)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("a missing file must not be an error, got %v", err)
	}
	if cfg.Portal.Retries != 10 {
		t.Errorf("default retries = %d, want 10", cfg.Portal.Retries)
	}
	if cfg.Search.MaxDepth != 16 {
		t.Errorf("default max_depth = %d, want 16", cfg.Search.MaxDepth)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_PORTAL_PROXY", "socks5://127.0.0.1:1080")
	path := writeConfig(t, `
portal:
  proxy: ${TEST_PORTAL_PROXY}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Portal.Proxy != "socks5://127.0.0.1:1080" {
		t.Errorf("proxy = %q, env var not expanded", cfg.Portal.Proxy)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "portal: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}
