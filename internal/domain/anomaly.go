package domain

import (
	"fmt"
	"strconv"
)

// Variant is a canonical pack size of a product, e.g. 500 ml
type Variant struct {
	Size float64 `json:"size"`
	Unit string  `json:"unit"`
}

// ID returns the comparison key for the variant of the given product
func (v Variant) ID(product string) string {
	return fmt.Sprintf("%s_%s%s", product, strconv.FormatFloat(v.Size, 'f', -1, 64), v.Unit)
}

// Label renders the variant the way it is written in search queries
func (v Variant) Label() string {
	return strconv.FormatFloat(v.Size, 'f', -1, 64) + v.Unit
}

// PricePoint maps a source (platform or domain) to a price
type PricePoint map[string]float64

// Anomaly is a price exceeding its comparison baseline by more than the threshold
type Anomaly struct {
	Subject       string  `json:"product"`
	Source        string  `json:"site"`
	ObservedPrice float64 `json:"unit_price"`
	BaselinePrice float64 `json:"average_price"`
	PercentAbove  float64 `json:"percent_above"`
	Link          string  `json:"link,omitempty"`
	Flag          string  `json:"flag"`
}

// ProductRecord is a priced listing supplied to anomaly detection
type ProductRecord struct {
	Name     string   `json:"name,omitempty"`
	Platform string   `json:"platform"`
	Price    *float64 `json:"price"`
	Link     string   `json:"link,omitempty"`
}

// DisplayName is the name used to search for the product's variants
func (r ProductRecord) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	if r.Platform != "" {
		return r.Platform
	}
	return "product"
}

// AnomalyReport is the projection of the anomaly pipeline's final state
type AnomalyReport struct {
	Category   string                `json:"category"`
	Variants   map[string][]Variant  `json:"variants"`
	Prices     map[string]PricePoint `json:"prices"`
	UnitPrices map[string]PricePoint `json:"unit_prices"`
	Anomalies  []Anomaly             `json:"anomalies"`
}
