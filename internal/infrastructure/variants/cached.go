package variants

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/pricescout/backend/internal/domain"
)

var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]+`)

// CachedExtractor memoizes another extractor's answers per product
type CachedExtractor struct {
	next  domain.VariantExtractor
	cache domain.CacheRepository
	ttl   time.Duration
}

// NewCachedExtractor wraps next with cache; a zero ttl defaults to 24h
func NewCachedExtractor(next domain.VariantExtractor, cache domain.CacheRepository, ttl time.Duration) *CachedExtractor {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedExtractor{next: next, cache: cache, ttl: ttl}
}

// ExtractVariants serves from cache when possible.
// Only non-empty successful answers are stored.
func (e *CachedExtractor) ExtractVariants(ctx context.Context, product, text string) ([]domain.Variant, error) {
	key := cacheKey(product)

	if raw, err := e.cache.Get(ctx, key); err == nil {
		var cached []domain.Variant
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	variants, err := e.next.ExtractVariants(ctx, product, text)
	if err != nil || len(variants) == 0 {
		return variants, err
	}

	if raw, err := json.Marshal(variants); err == nil {
		if err := e.cache.Set(ctx, key, raw, e.ttl); err != nil {
			log.Printf("[VARIANTS] cache write failed for %q: %v", product, err)
		}
	}
	return variants, nil
}

// cacheKey normalizes the product name: "variants:{name}"
func cacheKey(product string) string {
	name := nonAlphanumericRegex.ReplaceAllString(strings.ToLower(product), " ")
	return "variants:" + strings.Join(strings.Fields(name), "-")
}
