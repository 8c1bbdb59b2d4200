package config

import "time"

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Portal  PortalConfig  `yaml:"portal"`
	Cache   CacheConfig   `yaml:"cache"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// PortalConfig holds connection settings for the geoportal.
type PortalConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"` // 0 = no per-request timeout
	Retries        int    `yaml:"retries"`
	RetryOnBlocked bool   `yaml:"retry_on_blocked"`
	Proxy          string `yaml:"proxy"`       // http, https or socks5 URL
	FallbackIP     string `yaml:"fallback_ip"` // pinned IP for proxy DNS fallback
}

// Timeout returns the per-request timeout.
func (p PortalConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// CacheConfig selects and configures the response cache backend.
type CacheConfig struct {
	Backend    string `yaml:"backend"` // "", "memory", "file", "sqlite", "postgres", "redis"
	Path       string `yaml:"path"`    // directory (file) or database file (sqlite)
	DSN        string `yaml:"dsn"`     // postgres connection string
	URL        string `yaml:"url"`     // redis URL
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// TTL returns the cache entry lifetime; zero keeps entries indefinitely.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// SearchConfig holds tiled-search settings.
type SearchConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
