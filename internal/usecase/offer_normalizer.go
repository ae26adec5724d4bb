package usecase

import (
	"github.com/pricescout/backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Normalize computes the effective price (item + delivery) × quantity, rounded to paise.
// Quantity is clamped to at least 1; an offer without an item price stays unpriced.
func Normalize(offer domain.RawOffer, quantity int) domain.NormalizedOffer {
	if quantity < 1 {
		quantity = 1
	}

	out := domain.NormalizedOffer{RawOffer: offer, Quantity: quantity}
	if offer.ItemPrice == nil {
		return out
	}

	item := *offer.ItemPrice
	out.ItemPrice = &item

	effective := decimal.NewFromFloat(item).
		Add(decimal.NewFromFloat(offer.DeliveryFee)).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).
		InexactFloat64()
	out.EffectivePrice = &effective
	return out
}

// NormalizeAll normalizes every offer with the same quantity, preserving order
func NormalizeAll(offers []domain.RawOffer, quantity int) []domain.NormalizedOffer {
	out := make([]domain.NormalizedOffer, 0, len(offers))
	for _, offer := range offers {
		out = append(out, Normalize(offer, quantity))
	}
	return out
}

// ComparableOffers keeps only the offers with an effective price, preserving order
func ComparableOffers(offers []domain.NormalizedOffer) []domain.NormalizedOffer {
	out := make([]domain.NormalizedOffer, 0, len(offers))
	for _, offer := range offers {
		if offer.HasPrice() {
			out = append(out, offer)
		}
	}
	return out
}

// PickBest returns the offer with the lowest effective price.
// Ties go to the earliest offer; nil when no offer is priced.
func PickBest(offers []domain.NormalizedOffer) *domain.NormalizedOffer {
	var best *domain.NormalizedOffer
	for i := range offers {
		if !offers[i].HasPrice() {
			continue
		}
		if best == nil || *offers[i].EffectivePrice < *best.EffectivePrice {
			best = &offers[i]
		}
	}
	if best == nil {
		return nil
	}

	picked := *best
	return &picked
}
