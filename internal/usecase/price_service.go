package usecase

import (
	"context"
	"fmt"

	"github.com/pricescout/backend/internal/domain"
)

// PriceServiceConfig holds configuration for the price service
type PriceServiceConfig struct {
	AnomalyThreshold   float64
	ArbitrageThreshold float64
	MaxConcurrency     int
}

// PriceService exposes one entry point per pipeline
type PriceService struct {
	compare            *ComparisonPipeline
	anomaly            *AnomalyPipeline
	arbitrage          *ArbitragePipeline
	anomalyThreshold   float64
	arbitrageThreshold float64
}

// NewPriceService wires the three pipelines to the shared collaborators
func NewPriceService(
	search domain.SearchClient,
	variantExtractor domain.VariantExtractor,
	config PriceServiceConfig,
) *PriceService {
	anomalyThreshold := config.AnomalyThreshold
	if anomalyThreshold <= 0 {
		anomalyThreshold = DefaultAnomalyThreshold
	}
	arbitrageThreshold := config.ArbitrageThreshold
	if arbitrageThreshold < 0 {
		arbitrageThreshold = DefaultArbitrageThreshold
	}

	return &PriceService{
		compare: NewComparisonPipeline(search),
		anomaly: NewAnomalyPipeline(search, variantExtractor, AnomalyConfig{
			Threshold:      anomalyThreshold,
			MaxConcurrency: config.MaxConcurrency,
		}),
		arbitrage:          NewArbitragePipeline(search, ArbitrageConfig{MaxConcurrency: config.MaxConcurrency}),
		anomalyThreshold:   anomalyThreshold,
		arbitrageThreshold: arbitrageThreshold,
	}
}

// ArbitrageThreshold is the threshold applied when a request does not set one
func (s *PriceService) ArbitrageThreshold() float64 {
	return s.arbitrageThreshold
}

// RunCompare validates the request against the catalog, then runs the comparison pipeline
func (s *PriceService) RunCompare(ctx context.Context, req domain.CompareRequest) ([]domain.CompareResult, error) {
	if err := ValidateCompareRequest(req); err != nil {
		return nil, err
	}

	results, err := s.compare.Compare(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	return results, nil
}

// RunAnomalyDetection runs the variant-level anomaly pipeline
func (s *PriceService) RunAnomalyDetection(ctx context.Context, category string, products []domain.ProductRecord) (*domain.AnomalyReport, error) {
	return s.anomaly.DetectAnomalies(ctx, category, products)
}

// DetectRecordAnomalies flags supplied records priced above the overall mean
func (s *PriceService) DetectRecordAnomalies(records []domain.ProductRecord) ([]domain.Anomaly, error) {
	if len(records) == 0 {
		return []domain.Anomaly{}, fmt.Errorf("%w: no products supplied", domain.ErrInvalidRequest)
	}
	return DetectRecordAnomalies(records, s.anomalyThreshold)
}

// RunArbitrage runs the arbitrage pipeline
func (s *PriceService) RunArbitrage(ctx context.Context, req domain.ArbitrageRequest) (*domain.ArbitrageReport, error) {
	return s.arbitrage.FindArbitrage(ctx, req)
}
