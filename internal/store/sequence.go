package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Sequence is a monotonic per-record-type counter producing
// human-readable ids such as DOC-000001. Counters live in the durable
// region, so ids are never reused across restarts
type Sequence struct {
	rdb *redis.Client
	key string
	tag string
}

// NewSequence creates an id sequence with the given counter name and
// id tag prefix
func NewSequence(r *Region, name, tag string) *Sequence {
	return &Sequence{
		rdb: r.rdb,
		key: r.counterKey(name),
		tag: tag,
	}
}

// Next increments the counter and formats the next id
func (s *Sequence) Next(ctx context.Context) (string, error) {
	n, err := s.rdb.Incr(ctx, s.key).Result()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", s.tag, n), nil
}

// Current reports the most recently issued counter value
func (s *Sequence) Current(ctx context.Context) (int64, error) {
	n, err := s.rdb.Get(ctx, s.key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}
