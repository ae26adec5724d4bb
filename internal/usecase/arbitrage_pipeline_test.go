package usecase

import (
	"context"
	"testing"

	"github.com/pricescout/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func surfSearch() *MockSearchClient {
	return NewMockSearchClient().
		On("Surf Excel 1kg site:amazon.in", result("Surf Excel 1kg", "Deal price ₹145", "https://amazon.in/a")).
		On("Surf Excel 1kg site:flipkart.com", result("Surf Excel 1kg ₹190", "", "https://flipkart.com/f")).
		On("Surf Excel 1kg site:jiomart.com", result("Surf Excel 1kg", "MRP Rs. 170", "https://jiomart.com/j")).
		On("Surf Excel 1kg site:zepto.in", result("Surf Excel 1kg", "in stock", "https://zepto.in/z"))
}

func TestArbitragePipeline_Stages(t *testing.T) {
	p := NewArbitragePipeline(NewMockSearchClient(), ArbitrageConfig{})

	assert.Equal(t, []string{
		"canonicalize",
		"platform_search",
		"extract_offers",
		"normalize_offers",
		"arbitrage",
	}, stageNames(p.Stages()))
}

func TestArbitragePipeline_FindArbitrage(t *testing.T) {
	t.Run("reports the cheapest offer and opportunities", func(t *testing.T) {
		p := NewArbitragePipeline(surfSearch(), ArbitrageConfig{MaxConcurrency: 3})

		report, err := p.FindArbitrage(context.Background(), domain.ArbitrageRequest{
			Query:        "Surf Excel 1kg",
			Pincode:      "560001",
			Quantity:     1,
			ThresholdINR: 20,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.CanonicalProduct{Brand: "Surf", Name: "Excel", Size: "1kg"}, report.CanonicalProduct)
		assert.Equal(t, "560001", report.Pincode)
		require.NotNil(t, report.BestOffer)
		assert.Equal(t, "amazon", report.BestOffer.Platform)
		assert.Equal(t, 145.0, *report.BestOffer.EffectivePrice)
		require.Len(t, report.NormalizedOffers, 3)
		require.Len(t, report.Opportunities, 2)
		assert.Equal(t, "flipkart", report.Opportunities[0].Platform)
		assert.Equal(t, 45.0, report.Opportunities[0].DeltaVsBest)
		assert.Equal(t, "jiomart", report.Opportunities[1].Platform)
		assert.Equal(t, 25.0, report.Opportunities[1].DeltaVsBest)
		assert.Equal(t, "Cheapest is amazon at ₹145.00. Found 2 platform(s) with delta ≥ ₹20.00.", report.Explanation)
	})

	t.Run("quantity scales effective prices", func(t *testing.T) {
		report, err := NewArbitragePipeline(surfSearch(), ArbitrageConfig{}).
			FindArbitrage(context.Background(), domain.ArbitrageRequest{Query: "Surf Excel 1kg", Quantity: 2, ThresholdINR: 60})

		require.NoError(t, err)
		assert.Equal(t, 290.0, *report.BestOffer.EffectivePrice)
		require.Len(t, report.Opportunities, 1)
		assert.Equal(t, "flipkart", report.Opportunities[0].Platform)
		assert.Equal(t, 90.0, report.Opportunities[0].DeltaVsBest)
	})

	t.Run("no priced offers", func(t *testing.T) {
		report, err := NewArbitragePipeline(NewMockSearchClient(), ArbitrageConfig{}).
			FindArbitrage(context.Background(), domain.ArbitrageRequest{Query: "Surf Excel 1kg", ThresholdINR: 20})

		require.NoError(t, err)
		assert.Nil(t, report.BestOffer)
		assert.Empty(t, report.Opportunities)
		assert.Empty(t, report.NormalizedOffers)
		assert.Equal(t, "No comparable offers with valid prices found.", report.Explanation)
	})

	t.Run("query derived from product url", func(t *testing.T) {
		search := NewMockSearchClient()

		report, err := NewArbitragePipeline(search, ArbitrageConfig{}).FindArbitrage(context.Background(), domain.ArbitrageRequest{
			URL:          "https://www.amazon.in/Surf-Excel-Easy-Wash-Detergent/dp/B00X",
			ThresholdINR: 20,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.CanonicalProduct{Brand: "Surf", Name: "Excel Easy Wash Detergent"}, report.CanonicalProduct)
		assert.Contains(t, search.Queries(), "Surf Excel Easy Wash Detergent site:jiomart.com")
		assert.Len(t, search.Queries(), len(ArbitragePlatforms))
	})

	t.Run("empty canonical query searches nothing", func(t *testing.T) {
		search := NewMockSearchClient()

		report, err := NewArbitragePipeline(search, ArbitrageConfig{}).FindArbitrage(context.Background(), domain.ArbitrageRequest{
			URL: "https://www.amazon.in/dp/B00X",
		})

		require.NoError(t, err)
		assert.Empty(t, search.Queries())
		assert.Nil(t, report.BestOffer)
	})

	t.Run("validation", func(t *testing.T) {
		p := NewArbitragePipeline(NewMockSearchClient(), ArbitrageConfig{})

		_, err := p.FindArbitrage(context.Background(), domain.ArbitrageRequest{Query: "  "})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)

		_, err = p.FindArbitrage(context.Background(), domain.ArbitrageRequest{Query: "Surf", ThresholdINR: -1})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}

func TestCanonicalizeQuery(t *testing.T) {
	tests := []struct {
		query string
		want  domain.CanonicalProduct
	}{
		{"Surf Excel Easy Wash 1 kg", domain.CanonicalProduct{Brand: "Surf", Name: "Excel Easy Wash", Size: "1 kg"}},
		{"Amul 500ml Taaza Milk", domain.CanonicalProduct{Brand: "Amul", Name: "Taaza Milk", Size: "500ml"}},
		{"Colgate", domain.CanonicalProduct{Name: "Colgate"}},
		{"2kg", domain.CanonicalProduct{Size: "2kg"}},
		{"", domain.CanonicalProduct{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalizeQuery(tt.query))
		})
	}
}

func TestQueryFromURL(t *testing.T) {
	assert.Equal(t, "Surf Excel Easy Wash", QueryFromURL("https://www.amazon.in/Surf-Excel-Easy-Wash/dp/B00X"))
	assert.Equal(t, "tata salt 1 kg", QueryFromURL("https://www.flipkart.com/tata_salt+1-kg/p/itm1"))
	assert.Equal(t, "", QueryFromURL("https://www.amazon.in/dp/B00X"))
	assert.Equal(t, "", QueryFromURL(""))
}
