package usecase

import "github.com/pricescout/backend/internal/domain"

// UnitPrices divides every price by the pack size.
// Callers guarantee size > 0.
func UnitPrices(prices domain.PricePoint, size float64) domain.PricePoint {
	out := make(domain.PricePoint, len(prices))
	for source, price := range prices {
		out[source] = price / size
	}
	return out
}
