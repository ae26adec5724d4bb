package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SearchClient issues web-search queries against the search provider.
//
// The two variants differ only in failure policy: Search degrades to an empty
// list on any failure, SearchStrict reports the failure to the caller.
type SearchClient interface {
	Search(ctx context.Context, query string) []SearchResult
	SearchStrict(ctx context.Context, query string) ([]SearchResult, error)
}

// VariantExtractor maps free text about a product to its pack-size variants.
// Implementations return an empty list together with the error on failure.
type VariantExtractor interface {
	ExtractVariants(ctx context.Context, product, text string) ([]Variant, error)
}
