package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type (
	// Config holds the connection settings for a durable region
	Config struct {
		Addr     string
		Password string
		DB       int
		Prefix   string
	}

	// Region is one durable byte-addressable space shared by every
	// collection and counter, carved into prefix-isolated partitions
	Region struct {
		rdb    *redis.Client
		prefix string
	}
)

// NewRegion opens a durable region against the configured backend
func NewRegion(cfg Config) *Region {
	return &Region{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: cfg.Prefix,
	}
}

// Ping verifies the region's backend is reachable
func (r *Region) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Close releases the region's backend connection
func (r *Region) Close() error {
	return r.rdb.Close()
}

func (r *Region) partitionKey(name string) string {
	return fmt.Sprintf("%s:partition:%s", r.prefix, name)
}

func (r *Region) counterKey(name string) string {
	return fmt.Sprintf("%s:counter:%s", r.prefix, name)
}
