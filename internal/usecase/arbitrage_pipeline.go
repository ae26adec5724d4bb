package usecase

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/pricescout/backend/internal/domain"
	"github.com/pricescout/backend/internal/infrastructure/variants"
)

const noComparableOffersExplanation = "No comparable offers with valid prices found."

// slugSeparatorRegex splits URL slugs like "surf-excel_easy+wash"
var slugSeparatorRegex = regexp.MustCompile(`[-_+]+`)

// platformResults holds one platform's search results
type platformResults struct {
	Platform Platform
	Results  []domain.SearchResult
}

// ArbitrageState is the value threaded through the arbitrage stages.
// Each field after Request is written by exactly one stage.
type ArbitrageState struct {
	Request domain.ArbitrageRequest

	CanonicalProduct domain.CanonicalProduct // canonicalize
	PlatformResults  []platformResults       // platform_search
	RawOffers        []domain.RawOffer       // extract_offers
	NormalizedOffers []domain.NormalizedOffer // normalize_offers
	BestOffer        *domain.NormalizedOffer // arbitrage
	Opportunities    []domain.Opportunity    // arbitrage
	Explanation      string                  // arbitrage
}

// ArbitrageConfig holds configuration for the arbitrage pipeline
type ArbitrageConfig struct {
	MaxConcurrency int
}

// ArbitragePipeline finds the cheapest platform for a product and the
// platforms priced far enough above it.
type ArbitragePipeline struct {
	search         domain.SearchClient
	platforms      []Platform
	maxConcurrency int
}

// NewArbitragePipeline creates the arbitrage pipeline over ArbitragePlatforms
func NewArbitragePipeline(search domain.SearchClient, config ArbitrageConfig) *ArbitragePipeline {
	return &ArbitragePipeline{
		search:         search,
		platforms:      ArbitragePlatforms,
		maxConcurrency: config.MaxConcurrency,
	}
}

// Stages returns the pipeline's stages in execution order
func (p *ArbitragePipeline) Stages() []Stage[ArbitrageState] {
	return []Stage[ArbitrageState]{
		{Name: "canonicalize", Run: p.canonicalize},
		{Name: "platform_search", Run: p.searchPlatforms},
		{Name: "extract_offers", Run: p.extractOffers},
		{Name: "normalize_offers", Run: p.normalizeOffers},
		{Name: "arbitrage", Run: p.arbitrage},
	}
}

// FindArbitrage runs the pipeline. Either a query or a product URL is required
// and the threshold must not be negative.
func (p *ArbitragePipeline) FindArbitrage(ctx context.Context, req domain.ArbitrageRequest) (*domain.ArbitrageReport, error) {
	if strings.TrimSpace(req.Query) == "" && strings.TrimSpace(req.URL) == "" {
		return nil, fmt.Errorf("%w: query or url is required", domain.ErrInvalidRequest)
	}
	if req.ThresholdINR < 0 {
		return nil, fmt.Errorf("%w: threshold_inr must not be negative", domain.ErrInvalidRequest)
	}

	final, err := runStages(ctx, "arbitrage", ArbitrageState{Request: req}, p.Stages())
	if err != nil {
		return nil, err
	}

	return &domain.ArbitrageReport{
		CanonicalProduct: final.CanonicalProduct,
		Pincode:          req.Pincode,
		BestOffer:        final.BestOffer,
		Opportunities:    final.Opportunities,
		NormalizedOffers: final.NormalizedOffers,
		Explanation:      final.Explanation,
	}, nil
}

func (p *ArbitragePipeline) canonicalize(ctx context.Context, state ArbitrageState) (ArbitrageState, error) {
	query := strings.TrimSpace(state.Request.Query)
	if query == "" {
		query = QueryFromURL(state.Request.URL)
	}

	next := state
	next.CanonicalProduct = CanonicalizeQuery(query)
	return next, nil
}

func (p *ArbitragePipeline) searchPlatforms(ctx context.Context, state ArbitrageState) (ArbitrageState, error) {
	q := state.CanonicalProduct.SearchText()
	found := fanOut(ctx, p.maxConcurrency, p.platforms, func(ctx context.Context, platform Platform) []domain.SearchResult {
		if q == "" {
			return []domain.SearchResult{}
		}
		return p.search.Search(ctx, q+" "+platform.SiteFilter())
	})

	next := state
	next.PlatformResults = make([]platformResults, len(p.platforms))
	for i, platform := range p.platforms {
		next.PlatformResults[i] = platformResults{Platform: platform, Results: found[i]}
	}
	return next, nil
}

func (p *ArbitragePipeline) extractOffers(ctx context.Context, state ArbitrageState) (ArbitrageState, error) {
	next := state
	next.RawOffers = []domain.RawOffer{}
	for _, pr := range state.PlatformResults {
		next.RawOffers = append(next.RawOffers, ExtractAllOffers(pr.Platform.Name, pr.Results)...)
	}
	return next, nil
}

func (p *ArbitragePipeline) normalizeOffers(ctx context.Context, state ArbitrageState) (ArbitrageState, error) {
	next := state
	next.NormalizedOffers = ComparableOffers(NormalizeAll(state.RawOffers, state.Request.Quantity))
	return next, nil
}

func (p *ArbitragePipeline) arbitrage(ctx context.Context, state ArbitrageState) (ArbitrageState, error) {
	threshold := state.Request.ThresholdINR
	best, opportunities := DetectArbitrage(state.NormalizedOffers, threshold)

	next := state
	next.BestOffer = best
	next.Opportunities = opportunities
	if best == nil {
		next.Explanation = noComparableOffersExplanation
		return next, nil
	}

	next.Explanation = fmt.Sprintf(
		"Cheapest is %s at ₹%.2f. Found %d platform(s) with delta ≥ ₹%.2f.",
		best.Platform, *best.EffectivePrice, len(opportunities), threshold,
	)
	return next, nil
}

// CanonicalizeQuery splits a free-text query into brand (first word), size
// (first size mention) and name (the rest).
func CanonicalizeQuery(query string) domain.CanonicalProduct {
	size, rest := variants.FirstSizeMention(query)

	words := strings.Fields(rest)
	switch len(words) {
	case 0:
		return domain.CanonicalProduct{Size: size}
	case 1:
		return domain.CanonicalProduct{Name: words[0], Size: size}
	default:
		return domain.CanonicalProduct{
			Brand: words[0],
			Name:  strings.Join(words[1:], " "),
			Size:  size,
		}
	}
}

// QueryFromURL derives a product query from the longest wordy path segment of
// a product URL, e.g. /Surf-Excel-Easy-Wash/dp/B00X → "Surf Excel Easy Wash".
func QueryFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}

	best := ""
	for _, segment := range strings.Split(u.Path, "/") {
		if decoded, err := url.PathUnescape(segment); err == nil {
			segment = decoded
		}
		words := strings.Fields(slugSeparatorRegex.ReplaceAllString(segment, " "))
		if len(words) < 2 {
			continue
		}
		if candidate := strings.Join(words, " "); len(candidate) > len(best) {
			best = candidate
		}
	}
	return best
}
