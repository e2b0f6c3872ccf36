package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backends selectable with POOLWATCH_STORE.
const (
	storeSQLite = "sqlite"
	storeRedis  = "redis"
	storeMemory = "memory"
)

// defaultConfigPath is read when POOLWATCH_CONFIG is unset; a missing file
// there is not an error.
const defaultConfigPath = "poolwatch.yaml"

// Config holds all configuration for the poolwatch CLI.
type Config struct {
	// Settings store
	Store  string      `yaml:"store"`
	DBPath string      `yaml:"db"`
	Redis  RedisConfig `yaml:"redis"`

	// Pools
	DefaultPool  string                `yaml:"default_pool"`
	HTTPTimeout  time.Duration         `yaml:"http_timeout"`
	PollInterval time.Duration         `yaml:"poll_interval"`
	Pools        map[string]PoolConfig `yaml:"pools"`

	// Observability
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

// RedisConfig configures the Redis settings store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// PoolConfig overrides per-pool transport settings.
type PoolConfig struct {
	BaseURL string `yaml:"base_url"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Store:        storeSQLite,
		DBPath:       "poolwatch.db",
		Redis:        RedisConfig{Addr: "localhost:6379"},
		DefaultPool:  "supportxmr",
		HTTPTimeout:  30 * time.Second,
		PollInterval: 30 * time.Second,
		Pools:        map[string]PoolConfig{},
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// LoadConfig loads .env, the optional YAML file and environment variables,
// in that order of increasing precedence.
func LoadConfig() (*Config, error) {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	path := os.Getenv("POOLWATCH_CONFIG")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			data = nil
		} else {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses YAML data over the defaults and applies the
// environment overlay.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if cfg.Pools == nil {
		cfg.Pools = map[string]PoolConfig{}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables on top of config values.
func (c *Config) applyEnv() {
	if v := os.Getenv("POOLWATCH_STORE"); v != "" {
		c.Store = strings.ToLower(v)
	}
	if v := os.Getenv("POOLWATCH_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Redis.DB = n
		}
	}
	if v := os.Getenv("DEFAULT_POOL"); v != "" {
		c.DefaultPool = v
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PollInterval = d
		}
	}
	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTPTimeout = d
		}
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
}

// Validate rejects settings the CLI cannot run with.
func (c *Config) Validate() error {
	switch c.Store {
	case storeSQLite, storeRedis, storeMemory:
	default:
		return fmt.Errorf("unknown store %q (want sqlite, redis or memory)", c.Store)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.DefaultPool == "" {
		return errors.New("default pool cannot be empty")
	}
	return nil
}

// BaseURL returns the configured base URL override for pool id, or "".
func (c *Config) BaseURL(id string) string {
	return c.Pools[id].BaseURL
}
