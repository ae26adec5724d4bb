package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/pricescout/backend/internal/domain"
)

// AnomalyState is the value threaded through the anomaly stages.
// Each field after Products is written by exactly one stage.
type AnomalyState struct {
	Category string
	Products []domain.ProductRecord

	Discovery  map[string][]domain.SearchResult // product_discovery
	Variants   map[string][]domain.Variant      // variant_discovery
	Prices     map[string]domain.PricePoint     // price_collection
	UnitPrices map[string]domain.PricePoint     // normalization
	Anomalies  []domain.Anomaly                 // anomaly_detection
}

// AnomalyConfig holds configuration for the anomaly pipeline
type AnomalyConfig struct {
	Threshold      float64
	MaxConcurrency int
}

// AnomalyPipeline discovers variants, collects per-domain prices and flags
// unit prices well above their variant's mean.
type AnomalyPipeline struct {
	search         domain.SearchClient
	variants       domain.VariantExtractor
	threshold      float64
	maxConcurrency int
}

// NewAnomalyPipeline creates the anomaly pipeline with injected collaborators
func NewAnomalyPipeline(search domain.SearchClient, variants domain.VariantExtractor, config AnomalyConfig) *AnomalyPipeline {
	threshold := config.Threshold
	if threshold <= 0 {
		threshold = DefaultAnomalyThreshold
	}
	return &AnomalyPipeline{
		search:         search,
		variants:       variants,
		threshold:      threshold,
		maxConcurrency: config.MaxConcurrency,
	}
}

// Stages returns the pipeline's stages in execution order
func (p *AnomalyPipeline) Stages() []Stage[AnomalyState] {
	return []Stage[AnomalyState]{
		{Name: "product_discovery", Run: p.discoverProducts},
		{Name: "variant_discovery", Run: p.discoverVariants},
		{Name: "price_collection", Run: p.collectPrices},
		{Name: "normalization", Run: p.normalize},
		{Name: "anomaly_detection", Run: p.detect},
	}
}

// DetectAnomalies runs the pipeline for the supplied products
func (p *AnomalyPipeline) DetectAnomalies(ctx context.Context, category string, products []domain.ProductRecord) (*domain.AnomalyReport, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: at least one product is required", domain.ErrInvalidRequest)
	}

	final, err := runStages(ctx, "anomaly", AnomalyState{Category: category, Products: products}, p.Stages())
	if err != nil {
		return nil, err
	}

	return &domain.AnomalyReport{
		Category:   final.Category,
		Variants:   final.Variants,
		Prices:     final.Prices,
		UnitPrices: final.UnitPrices,
		Anomalies:  final.Anomalies,
	}, nil
}

func (p *AnomalyPipeline) discoverProducts(ctx context.Context, state AnomalyState) (AnomalyState, error) {
	names := productNames(state.Products)
	found := fanOut(ctx, p.maxConcurrency, names, func(ctx context.Context, name string) []domain.SearchResult {
		return p.search.Search(ctx, "best selling "+name)
	})

	next := state
	next.Discovery = make(map[string][]domain.SearchResult, len(names))
	for i, name := range names {
		next.Discovery[name] = found[i]
	}
	return next, nil
}

func (p *AnomalyPipeline) discoverVariants(ctx context.Context, state AnomalyState) (AnomalyState, error) {
	names := productNames(state.Products)
	found := fanOut(ctx, p.maxConcurrency, names, func(ctx context.Context, name string) []domain.Variant {
		results := p.search.Search(ctx, name+" 100ml 200ml 500ml 1L sizes")
		text := resultText(append(append([]domain.SearchResult{}, state.Discovery[name]...), results...))

		variants, err := p.variants.ExtractVariants(ctx, name, text)
		if err != nil {
			log.Printf("[PIPELINE] anomaly: no variants for %q: %v", name, err)
			return []domain.Variant{}
		}
		return variants
	})

	next := state
	next.Variants = make(map[string][]domain.Variant, len(names))
	for i, name := range names {
		next.Variants[name] = found[i]
	}
	return next, nil
}

// variantRef identifies one variant of one product
type variantRef struct {
	product string
	variant domain.Variant
}

func (p *AnomalyPipeline) collectPrices(ctx context.Context, state AnomalyState) (AnomalyState, error) {
	refs := variantRefs(state)
	found := fanOut(ctx, p.maxConcurrency, refs, func(ctx context.Context, ref variantRef) domain.PricePoint {
		query := fmt.Sprintf("%s %s price buy online", ref.product, ref.variant.Label())
		return ExtractPricesByDomain(p.search.Search(ctx, query))
	})

	next := state
	next.Prices = make(map[string]domain.PricePoint, len(refs))
	for i, ref := range refs {
		next.Prices[ref.variant.ID(ref.product)] = found[i]
	}
	return next, nil
}

func (p *AnomalyPipeline) normalize(ctx context.Context, state AnomalyState) (AnomalyState, error) {
	next := state
	next.UnitPrices = make(map[string]domain.PricePoint)
	for _, ref := range variantRefs(state) {
		id := ref.variant.ID(ref.product)
		if prices, ok := state.Prices[id]; ok {
			next.UnitPrices[id] = UnitPrices(prices, ref.variant.Size)
		}
	}
	return next, nil
}

func (p *AnomalyPipeline) detect(ctx context.Context, state AnomalyState) (AnomalyState, error) {
	next := state
	next.Anomalies = DetectRelativeOutliers(state.UnitPrices, p.threshold)
	return next, nil
}

// productNames returns the distinct product names in input order
func productNames(products []domain.ProductRecord) []string {
	names := make([]string, 0, len(products))
	seen := make(map[string]bool)
	for _, product := range products {
		name := strings.TrimSpace(product.DisplayName())
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// variantRefs flattens the discovered variants in product order.
// Products without variants contribute nothing; non-positive sizes are skipped.
func variantRefs(state AnomalyState) []variantRef {
	var refs []variantRef
	for _, name := range productNames(state.Products) {
		for _, v := range state.Variants[name] {
			if v.Size <= 0 {
				continue
			}
			refs = append(refs, variantRef{product: name, variant: v})
		}
	}
	return refs
}

// resultText joins titles and snippets, one result per line
func resultText(results []domain.SearchResult) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, strings.TrimSpace(r.Title+" "+r.Snippet))
	}
	return strings.Join(lines, "\n")
}
