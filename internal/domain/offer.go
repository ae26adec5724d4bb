package domain

import (
	"fmt"
	"strings"
)

// RawOffer is a single platform listing extracted from a search result
type RawOffer struct {
	Platform    string   `json:"platform"`
	Title       string   `json:"title"`
	ProductURL  string   `json:"product_url"`
	ItemPrice   *float64 `json:"item_price"`
	DeliveryFee float64  `json:"delivery_fee"`
	InStock     bool     `json:"in_stock"`
	Snippet     string   `json:"snippet"`
}

// NewRawOffer builds an in-stock offer with no delivery fee.
// Platform is required and the price must be non-negative.
func NewRawOffer(platform, title, productURL string, itemPrice float64, snippet string) (RawOffer, error) {
	if strings.TrimSpace(platform) == "" {
		return RawOffer{}, fmt.Errorf("%w: platform is required", ErrInvalidOffer)
	}
	if itemPrice < 0 {
		return RawOffer{}, fmt.Errorf("%w: negative item price %.2f", ErrInvalidOffer, itemPrice)
	}

	price := itemPrice
	return RawOffer{
		Platform:   platform,
		Title:      title,
		ProductURL: productURL,
		ItemPrice:  &price,
		InStock:    true,
		Snippet:    snippet,
	}, nil
}

// NormalizedOffer is a RawOffer with its quantity-scaled effective price.
// EffectivePrice is nil when the underlying offer has no item price.
type NormalizedOffer struct {
	RawOffer
	EffectivePrice *float64 `json:"effective_price"`
	Quantity       int      `json:"quantity"`
}

// HasPrice reports whether the offer can take part in a comparison
func (o NormalizedOffer) HasPrice() bool {
	return o.EffectivePrice != nil
}

// CompareResult is one platform's price for the comparison pipeline
type CompareResult struct {
	Platform string  `json:"platform"`
	Price    float64 `json:"price"`
	Link     string  `json:"link"`
}

// Opportunity is an offer priced above the cheapest offer by at least the threshold
type Opportunity struct {
	Platform           string  `json:"platform"`
	EffectivePrice     float64 `json:"effective_price"`
	DeltaVsBest        float64 `json:"delta_vs_best"`
	BestPlatform       string  `json:"best_platform"`
	BestEffectivePrice float64 `json:"best_effective_price"`
	ProductURL         string  `json:"product_url"`
}

// CanonicalProduct is the brand/name/size split of a free-text query
type CanonicalProduct struct {
	Brand string `json:"brand"`
	Name  string `json:"name"`
	Size  string `json:"size"`
}

// SearchText joins the non-empty parts into a query string
func (p CanonicalProduct) SearchText() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Brand, p.Name, p.Size} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// ArbitrageRequest holds the inputs of the arbitrage pipeline
type ArbitrageRequest struct {
	Query        string  `json:"query"`
	URL          string  `json:"url,omitempty"`
	Pincode      string  `json:"pincode,omitempty"`
	Quantity     int     `json:"quantity"`
	ThresholdINR float64 `json:"threshold_inr"`
}

// ArbitrageReport is the projection of the arbitrage pipeline's final state
type ArbitrageReport struct {
	CanonicalProduct CanonicalProduct  `json:"canonical_product"`
	Pincode          string            `json:"pincode,omitempty"`
	BestOffer        *NormalizedOffer  `json:"best_offer"`
	Opportunities    []Opportunity     `json:"opportunities"`
	NormalizedOffers []NormalizedOffer `json:"normalized_offers"`
	Explanation      string            `json:"explanation"`
}

// CompareRequest holds the inputs of the comparison pipeline
type CompareRequest struct {
	MasterCategory string `json:"master_category" form:"master_category"`
	Category       string `json:"category" form:"category"`
	ProductName    string `json:"product_name" form:"product_name"`
}
