package usecase

import (
	"fmt"
	"sort"

	"github.com/pricescout/backend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// DefaultAnomalyThreshold flags prices more than 10% above their group mean
	DefaultAnomalyThreshold = 0.10

	// DefaultArbitrageThreshold is the minimum gap to the cheapest offer, in rupees
	DefaultArbitrageThreshold = 20.0
)

// DetectRelativeOutliers flags every source whose price exceeds the mean of its
// comparison key by more than threshold (price/mean - 1 > threshold).
// Keys without prices are skipped. Output is ordered by key, then source.
func DetectRelativeOutliers(groups map[string]domain.PricePoint, threshold float64) []domain.Anomaly {
	anomalies := []domain.Anomaly{}

	for _, key := range sortedKeys(groups) {
		prices := groups[key]
		if len(prices) == 0 {
			continue
		}

		mean := meanOf(prices)
		if mean <= 0 {
			continue
		}

		for _, source := range sortedKeys(prices) {
			price := prices[source]
			above := price/mean - 1
			if above > threshold {
				anomalies = append(anomalies, domain.Anomaly{
					Subject:       key,
					Source:        source,
					ObservedPrice: price,
					BaselinePrice: mean,
					PercentAbove:  above,
					Flag:          flagText(above),
				})
			}
		}
	}

	return anomalies
}

// DetectRecordAnomalies compares every priced record against the mean of all
// supplied prices. Records without a price are ignored.
func DetectRecordAnomalies(records []domain.ProductRecord, threshold float64) ([]domain.Anomaly, error) {
	var sum float64
	var count int
	for _, r := range records {
		if r.Price != nil {
			sum += *r.Price
			count++
		}
	}
	if count == 0 {
		return []domain.Anomaly{}, domain.ErrNoValidPrices
	}

	mean := sum / float64(count)
	anomalies := []domain.Anomaly{}
	if mean <= 0 {
		return anomalies, nil
	}

	for _, r := range records {
		if r.Price == nil {
			continue
		}
		platform := r.Platform
		if platform == "" {
			platform = "unknown"
		}

		above := *r.Price/mean - 1
		if above > threshold {
			anomalies = append(anomalies, domain.Anomaly{
				Subject:       "Product from " + platform,
				Source:        platform,
				ObservedPrice: *r.Price,
				BaselinePrice: mean,
				PercentAbove:  above,
				Link:          r.Link,
				Flag:          flagText(above),
			})
		}
	}

	return anomalies, nil
}

// DetectArbitrage picks the cheapest offer and lists every offer on another
// platform whose effective price is at least threshold above it.
func DetectArbitrage(offers []domain.NormalizedOffer, threshold float64) (*domain.NormalizedOffer, []domain.Opportunity) {
	opportunities := []domain.Opportunity{}

	best := PickBest(offers)
	if best == nil {
		return nil, opportunities
	}

	bestPrice := decimal.NewFromFloat(*best.EffectivePrice)
	limit := decimal.NewFromFloat(threshold)

	for _, o := range offers {
		if !o.HasPrice() || o.Platform == best.Platform {
			continue
		}

		delta := decimal.NewFromFloat(*o.EffectivePrice).Sub(bestPrice)
		if delta.GreaterThanOrEqual(limit) {
			opportunities = append(opportunities, domain.Opportunity{
				Platform:           o.Platform,
				EffectivePrice:     *o.EffectivePrice,
				DeltaVsBest:        delta.Round(2).InexactFloat64(),
				BestPlatform:       best.Platform,
				BestEffectivePrice: bestPrice.Round(2).InexactFloat64(),
				ProductURL:         o.ProductURL,
			})
		}
	}

	return best, opportunities
}

func meanOf(prices domain.PricePoint) float64 {
	var sum float64
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices))
}

func flagText(above float64) string {
	return fmt.Sprintf("%.1f%% above average", above*100)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
