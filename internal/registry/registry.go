package registry

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/cargotrace/engine/pkg/api"
	"github.com/cargotrace/engine/pkg/log"

	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
)

type (
	// Registry is the allow-list of identities permitted to call
	// administrative operations. It lives in memory and checkpoints to a
	// blob bucket across restarts
	Registry struct {
		mu      sync.RWMutex
		allowed []api.Identity
	}

	// Checkpointer persists registry state to a gocloud bucket,
	// supporting S3, GCS, Azure Blob Storage, and S3-compatible stores
	Checkpointer struct {
		bucket *blob.Bucket
		key    string
	}

	snapshot struct {
		Allowed []api.Identity `json:"allowed"`
	}
)

var (
	ErrNotAuthorized = errors.New("identity is not authorized")
	ErrAnonymous     = errors.New("anonymous identity cannot be registered")
)

// New creates a registry seeded with the given identities
func New(seed ...api.Identity) *Registry {
	r := &Registry{}
	for _, id := range seed {
		_ = r.Register(id)
	}
	return r
}

// Register adds an identity to the allow-list. Re-registering is a no-op
func (r *Registry) Register(id api.Identity) error {
	if id.IsAnonymous() {
		return ErrAnonymous
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.allowed, id) {
		return nil
	}
	r.allowed = append(r.allowed, id)
	slog.Info("Identity registered",
		log.Caller(id))
	return nil
}

// Remove drops an identity from the allow-list
func (r *Registry) Remove(id api.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allowed = slices.DeleteFunc(r.allowed,
		func(other api.Identity) bool { return other == id },
	)
}

// Authorize reports whether the identity is on the allow-list. An empty
// registry authorizes everyone, matching first-run behavior before any
// administrator has registered
func (r *Registry) Authorize(id api.Identity) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.allowed) == 0 {
		return nil
	}
	if !slices.Contains(r.allowed, id) {
		return ErrNotAuthorized
	}
	return nil
}

// List returns the allow-list in registration order
func (r *Registry) List() []api.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.allowed)
}

// NewCheckpointer opens the bucket that will hold registry checkpoints
func NewCheckpointer(
	ctx context.Context, bucketURL, key string,
) (*Checkpointer, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, err
	}
	return &Checkpointer{bucket: bucket, key: key}, nil
}

// Save writes the registry's current allow-list to the bucket
func (c *Checkpointer) Save(ctx context.Context, r *Registry) error {
	data, err := json.Marshal(snapshot{Allowed: r.List()})
	if err != nil {
		return err
	}
	return c.bucket.WriteAll(ctx, c.key, data, nil)
}

// Restore replaces the registry's allow-list with the checkpointed one.
// A missing checkpoint leaves the registry untouched
func (c *Checkpointer) Restore(ctx context.Context, r *Registry) error {
	data, err := c.bucket.ReadAll(ctx, c.key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}
		return err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allowed = snap.Allowed
	return nil
}

func (c *Checkpointer) Close() error {
	return c.bucket.Close()
}
