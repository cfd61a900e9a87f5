// Package config is the small ambient configuration surface client code
// builds a connection, cache, and tracer from (SPEC_FULL.md §12): which
// dialect and DSN to connect with, and the cache/instrumentation options
// those packages' constructors take directly. Config is loadable from a
// struct literal or from YAML via gopkg.in/yaml.v3, the same library the
// teacher uses for its own gqlgen generator config
// (contrib/graphql/gqlgen.go).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dialect names a supported database backend.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

// CacheConfig configures the optional cache.Cache a client wraps its read
// operations in.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Prefix  string `yaml:"prefix,omitempty"`
	Version int    `yaml:"version,omitempty"`
	// TTL is a human-readable duration string (cache.ParseTTL's syntax,
	// e.g. "1 hour") applied to every cacheable operation that doesn't
	// specify its own.
	TTL string `yaml:"ttl,omitempty"`
	SWR bool   `yaml:"swr,omitempty"`
}

// InstrumentationConfig configures the trace.Tracer/trace.Logger pair a
// client reports through.
type InstrumentationConfig struct {
	Enabled       bool `yaml:"enabled,omitempty"`
	IncludeSQL    bool `yaml:"include_sql,omitempty"`
	IncludeParams bool `yaml:"include_params,omitempty"`
}

// Config is the top-level configuration a client is built from.
type Config struct {
	Dialect Dialect `yaml:"dialect"`
	DSN     string  `yaml:"dsn"`

	Cache           CacheConfig           `yaml:"cache,omitempty"`
	Instrumentation InstrumentationConfig `yaml:"instrumentation,omitempty"`
}

// Validate checks the fields Config's consumers (the dialect adapters,
// the driver) require to be non-empty/well-formed.
func (c *Config) Validate() error {
	switch c.Dialect {
	case Postgres, MySQL, SQLite:
	default:
		return fmt.Errorf("config: unsupported dialect %q", c.Dialect)
	}
	if c.DSN == "" {
		return fmt.Errorf("config: dsn is required")
	}
	return nil
}

// Load parses YAML config data into a Config, applying Validate before
// returning it.
func Load(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads and parses a YAML config file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Load(data)
}
