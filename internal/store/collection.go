package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/cargotrace/engine/internal/codec"
)

type (
	// Collection is an ordered key-to-record map bound to one named
	// partition of a region. Values are stored in their codec byte form;
	// iteration yields entries in ascending key order
	Collection[R any] struct {
		rdb   *redis.Client
		key   string
		name  string
		codec codec.Codec[R]
	}

	// Entry pairs a key with its decoded record
	Entry[R any] struct {
		Key    string
		Record R
	}
)

// ErrCorruptRecord wraps a decode failure for bytes already in the
// partition. The read surfaces it as a recoverable error; it never
// crashes the process
var ErrCorruptRecord = errors.New("corrupt record in partition")

// NewCollection binds a typed collection to a named partition
func NewCollection[R any](
	r *Region, name string, c codec.Codec[R],
) *Collection[R] {
	return &Collection[R]{
		rdb:   r.rdb,
		key:   r.partitionKey(name),
		name:  name,
		codec: c,
	}
}

// Get retrieves the record stored under key, reporting whether it exists
func (c *Collection[R]) Get(ctx context.Context, key string) (R, bool, error) {
	var zero R
	raw, err := c.rdb.HGet(ctx, c.key, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	rec, err := c.codec.Decode(raw)
	if err != nil {
		return zero, false, c.corrupt(key, err)
	}
	return rec, true, nil
}

// Insert stores a record under key, returning the previous record when
// one was replaced
func (c *Collection[R]) Insert(
	ctx context.Context, key string, rec R,
) (R, bool, error) {
	var zero R
	raw, err := c.codec.Encode(rec)
	if err != nil {
		return zero, false, fmt.Errorf("partition %s: %w", c.name, err)
	}

	prev, existed, err := c.Get(ctx, key)
	if err != nil {
		return zero, false, err
	}
	if err := c.rdb.HSet(ctx, c.key, key, raw).Err(); err != nil {
		return zero, false, err
	}
	return prev, existed, nil
}

// Remove deletes the record stored under key, returning it when present
func (c *Collection[R]) Remove(
	ctx context.Context, key string,
) (R, bool, error) {
	var zero R
	prev, existed, err := c.Get(ctx, key)
	if err != nil {
		return zero, false, err
	}
	if !existed {
		return zero, false, nil
	}
	if err := c.rdb.HDel(ctx, c.key, key).Err(); err != nil {
		return zero, false, err
	}
	return prev, true, nil
}

// Len reports the number of records in the collection
func (c *Collection[R]) Len(ctx context.Context) (int64, error) {
	return c.rdb.HLen(ctx, c.key).Result()
}

// Entries returns every entry in ascending key order
func (c *Collection[R]) Entries(ctx context.Context) ([]Entry[R], error) {
	raw, err := c.rdb.HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	res := make([]Entry[R], 0, len(keys))
	for _, k := range keys {
		rec, err := c.codec.Decode([]byte(raw[k]))
		if err != nil {
			return nil, c.corrupt(k, err)
		}
		res = append(res, Entry[R]{Key: k, Record: rec})
	}
	return res, nil
}

func (c *Collection[R]) corrupt(key string, err error) error {
	return fmt.Errorf("%w: partition %s key %q: %v",
		ErrCorruptRecord, c.name, key, err)
}
