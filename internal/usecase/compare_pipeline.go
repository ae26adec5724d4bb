package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pricescout/backend/internal/domain"
)

// CompareState is the value threaded through the comparison stages.
// Every platform stage appends at most one entry to Results.
type CompareState struct {
	MasterCategory string
	Category       string
	ProductName    string
	Results        []domain.CompareResult
}

// ComparisonPipeline looks up one price per platform, one stage per platform
type ComparisonPipeline struct {
	search    domain.SearchClient
	platforms []Platform
}

// NewComparisonPipeline creates the comparison pipeline over ComparePlatforms
func NewComparisonPipeline(search domain.SearchClient) *ComparisonPipeline {
	return &ComparisonPipeline{search: search, platforms: ComparePlatforms}
}

// Stages returns the pipeline's stages in execution order
func (p *ComparisonPipeline) Stages() []Stage[CompareState] {
	stages := make([]Stage[CompareState], 0, len(p.platforms))
	for _, platform := range p.platforms {
		stages = append(stages, p.platformStage(platform))
	}
	return stages
}

// Compare runs every platform stage and returns the results sorted by price.
// Search errors (including a missing API key) abort the run.
func (p *ComparisonPipeline) Compare(ctx context.Context, req domain.CompareRequest) ([]domain.CompareResult, error) {
	initial := CompareState{
		MasterCategory: req.MasterCategory,
		Category:       req.Category,
		ProductName:    strings.TrimSpace(req.ProductName),
		Results:        []domain.CompareResult{},
	}

	final, err := runStages(ctx, "compare", initial, p.Stages())
	if err != nil {
		return nil, err
	}

	results := final.Results
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Price < results[j].Price
	})
	return results, nil
}

func (p *ComparisonPipeline) platformStage(platform Platform) Stage[CompareState] {
	return Stage[CompareState]{
		Name: platform.Name,
		Run: func(ctx context.Context, state CompareState) (CompareState, error) {
			query := fmt.Sprintf("%s %s", state.ProductName, platform.SiteFilter())
			results, err := p.search.SearchStrict(ctx, query)
			if err != nil {
				return state, err
			}

			next := state
			next.Results = append([]domain.CompareResult{}, state.Results...)
			for _, offer := range ExtractFirstOffer(platform.Name, results) {
				next.Results = append(next.Results, domain.CompareResult{
					Platform: offer.Platform,
					Price:    *offer.ItemPrice,
					Link:     offer.ProductURL,
				})
			}
			return next, nil
		},
	}
}
