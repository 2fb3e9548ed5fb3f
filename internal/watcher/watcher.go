package watcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/cargotrace/engine/pkg/api"
	"github.com/cargotrace/engine/pkg/log"
)

type (
	// Watcher fetches document metadata from the CargoX platform. Every
	// lookup is best-effort: network or parse failures fall back to a
	// synthetic record so workflows never block on the platform
	Watcher struct {
		client    *http.Client
		endpoints []string
	}

	// Option adjusts watcher construction
	Option func(*Watcher)
)

// DefaultTimeout bounds each metadata request
const DefaultTimeout = 10 * time.Second

// defaultEndpoints are the candidate URL templates tried in order. Each
// takes the asset hash as its single argument
var defaultEndpoints = []string{
	"https://cargox.digital/api/v1/documents/%s/metadata",
	"https://gateway.cargox.digital/ipfs/%s",
}

// WithEndpoints replaces the candidate URL templates
func WithEndpoints(endpoints ...string) Option {
	return func(w *Watcher) {
		w.endpoints = endpoints
	}
}

// WithClient replaces the HTTP client
func WithClient(client *http.Client) Option {
	return func(w *Watcher) {
		w.client = client
	}
}

// New creates a metadata watcher
func New(opts ...Option) *Watcher {
	w := &Watcher{
		client:    &http.Client{Timeout: DefaultTimeout},
		endpoints: defaultEndpoints,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// FetchMetadata resolves metadata for an asset hash, trying each
// endpoint in order. It never returns an error; when no endpoint
// produces a usable record the result is synthetic
func (w *Watcher) FetchMetadata(
	ctx context.Context, assetHash string,
) api.DocumentMetadata {
	for _, endpoint := range w.endpoints {
		url := fmt.Sprintf(endpoint, assetHash)
		meta, err := w.fetch(ctx, url, assetHash)
		if err != nil {
			slog.Debug("Metadata endpoint failed",
				log.AssetHash(assetHash),
				slog.String("url", url),
				log.Error(err))
			continue
		}
		return meta
	}
	slog.Info("Falling back to synthetic metadata",
		log.AssetHash(assetHash))
	return SyntheticMetadata(assetHash)
}

func (w *Watcher) fetch(
	ctx context.Context, url, assetHash string,
) (api.DocumentMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return api.DocumentMetadata{}, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := w.client.Do(req)
	if err != nil {
		return api.DocumentMetadata{}, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return api.DocumentMetadata{}, fmt.Errorf(
			"unexpected status %d", res.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return api.DocumentMetadata{}, err
	}
	return parseMetadata(body, assetHash)
}

// parseMetadata extracts the metadata fields from a platform response.
// The platform nests documents under either "data" or the top level
func parseMetadata(
	body []byte, assetHash string,
) (api.DocumentMetadata, error) {
	if !gjson.ValidBytes(body) {
		return api.DocumentMetadata{}, fmt.Errorf("response is not JSON")
	}
	root := gjson.ParseBytes(body)
	if data := root.Get("data"); data.Exists() {
		root = data
	}
	name := root.Get("name")
	if !name.Exists() {
		return api.DocumentMetadata{}, fmt.Errorf("response has no name")
	}

	meta := api.DocumentMetadata{
		Name:         name.String(),
		Description:  root.Get("description").String(),
		Image:        root.Get("image").String(),
		ExternalURL:  root.Get("external_url").String(),
		DocumentHash: root.Get("document_hash").String(),
		DocumentType: root.Get("document_type").String(),
		Issuer:       root.Get("issuer").String(),
		CreationDate: root.Get("creation_date").String(),
	}
	if meta.DocumentHash == "" {
		meta.DocumentHash = assetHash
	}
	root.Get("attributes").ForEach(func(_, attr gjson.Result) bool {
		meta.Attributes = append(meta.Attributes, api.DocumentAttribute{
			TraitType: attr.Get("trait_type").String(),
			Value:     attr.Get("value").String(),
		})
		return true
	})
	return meta, nil
}

// SyntheticMetadata builds the placeholder record used when no endpoint
// responds
func SyntheticMetadata(assetHash string) api.DocumentMetadata {
	return api.DocumentMetadata{
		Name:         fmt.Sprintf("CargoX Document %s", assetHash),
		Description:  "Metadata unavailable; synthesized locally",
		DocumentHash: assetHash,
		DocumentType: "unknown",
	}
}
