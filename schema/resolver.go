package schema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// MetadataError reports an unresolvable record-type key or a schema
// generation ambiguity. It is a deployment/configuration defect, never
// retried here.
type MetadataError struct {
	TypeKey string
	Reason  string
	Cause   error
}

func (e *MetadataError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema: metadata lookup for type %q failed: %s: %v", e.TypeKey, e.Reason, e.Cause)
	}
	return fmt.Sprintf("schema: metadata lookup for type %q failed: %s", e.TypeKey, e.Reason)
}

func (e *MetadataError) Unwrap() error { return e.Cause }

// ErrAmbiguousGeneration is wrapped by MetadataError when a type key
// matches zero or more than one published schema generation.
var ErrAmbiguousGeneration = errors.New("schema: published generation not unique")

// Resolver resolves field descriptors for record types against the most
// recently published schema generation. Results are cached keyed by
// (type key, generation); the cache is the only shared state in the
// subsystem and must be safe for concurrent reads from many engine
// instances.
type Resolver struct {
	store  MetadataStore
	cache  Cache
	logger *slog.Logger
}

func NewResolver(store MetadataStore, cache Cache, logger *slog.Logger) *Resolver {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Describe returns the record type shape for typeKey at its current
// published generation. The generation is re-read on every call so the
// resolver tracks schema publishes without redeploying; only the (much
// heavier) field enumeration is cached.
func (r *Resolver) Describe(ctx context.Context, typeKey string) (*RecordType, error) {
	if typeKey == "" {
		return nil, &MetadataError{TypeKey: typeKey, Reason: "empty record type key"}
	}

	gen, err := r.store.PublishedGeneration(ctx, typeKey)
	if err != nil {
		return nil, &MetadataError{TypeKey: typeKey, Reason: "published generation unresolved", Cause: err}
	}

	key := cacheKey(typeKey, gen)
	if rt, ok := r.cache.Get(ctx, key); ok {
		return rt, nil
	}

	rt, err := r.store.DescribeFields(ctx, typeKey, gen)
	if err != nil {
		return nil, &MetadataError{TypeKey: typeKey, Reason: "field enumeration failed", Cause: err}
	}

	if err := r.cache.Set(ctx, key, rt); err != nil {
		// A cold cache just means the next call re-reads metadata.
		r.logger.Warn("descriptor cache write failed", "type", typeKey, "generation", gen, "error", err)
	}

	return rt, nil
}

func cacheKey(typeKey string, generation int64) string {
	return fmt.Sprintf("%s@%d", typeKey, generation)
}
