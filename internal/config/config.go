package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cargotrace/engine/internal/store"
)

type (
	// Config holds configuration settings for the trade-finance service
	Config struct {
		// API Server
		APIHost  string
		APIPort  int
		LogLevel string

		// Durable store
		Store store.Config

		// Registry checkpoint
		CheckpointURL string
		CheckpointKey string

		// Ledger
		TreasuryIdentity string

		ShutdownTimeout time.Duration
	}
)

const (
	DefaultAPIPort         = 8080
	DefaultAPIHost         = "0.0.0.0"
	MaxTCPPort             = 65535
	DefaultRedisDB         = 0
	DefaultRedisEndpoint   = "localhost:6379"
	DefaultRedisPrefix     = "cargotrace"
	DefaultCheckpointKey   = "registry.json"
	DefaultShutdownTimeout = 10 * time.Second
)

var (
	ErrInvalidAPIPort    = errors.New("invalid API port")
	ErrMissingRedisAddr  = errors.New("redis address cannot be empty")
	ErrMissingKeyPrefix  = errors.New("redis key prefix cannot be empty")
	ErrMissingCheckpoint = errors.New("checkpoint key cannot be empty")
)

// NewDefaultConfig creates a configuration with sensible defaults for
// all service settings
func NewDefaultConfig() *Config {
	return &Config{
		APIHost: DefaultAPIHost,
		APIPort: DefaultAPIPort,
		Store: store.Config{
			Addr:   DefaultRedisEndpoint,
			DB:     DefaultRedisDB,
			Prefix: DefaultRedisPrefix,
		},
		CheckpointKey:   DefaultCheckpointKey,
		ShutdownTimeout: DefaultShutdownTimeout,
		LogLevel:        "info",
	}
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if any env var cannot be parsed
func (c *Config) LoadFromEnv() error {
	if host := os.Getenv("API_HOST"); host != "" {
		c.APIHost = host
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Store.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		c.Store.Password = password
	}
	if prefix := os.Getenv("REDIS_PREFIX"); prefix != "" {
		c.Store.Prefix = prefix
	}
	if url := os.Getenv("CHECKPOINT_URL"); url != "" {
		c.CheckpointURL = url
	}
	if key := os.Getenv("CHECKPOINT_KEY"); key != "" {
		c.CheckpointKey = key
	}
	if treasury := os.Getenv("TREASURY_IDENTITY"); treasury != "" {
		c.TreasuryIdentity = treasury
	}

	if err := loadEnvInt("API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		v, err := strconv.Atoi(db)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB: %q", db)
		}
		c.Store.DB = v
	}
	return nil
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}
	if c.Store.Addr == "" {
		return ErrMissingRedisAddr
	}
	if c.Store.Prefix == "" {
		return ErrMissingKeyPrefix
	}
	if c.CheckpointURL != "" && c.CheckpointKey == "" {
		return ErrMissingCheckpoint
	}
	return nil
}

// loadEnvInt reads key from the environment, parses it as an integer,
// and sets *dst if the value is in the range (min, max). Returns an
// error if the value cannot be parsed or falls outside the valid range
func loadEnvInt[T ~int | ~int64](key string, dst *T, min, max T) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	tv := T(v)
	if tv <= min || tv > max {
		return fmt.Errorf("invalid %s: %d out of range [%d, %d]",
			key, tv, min+1, max)
	}
	*dst = tv
	return nil
}
