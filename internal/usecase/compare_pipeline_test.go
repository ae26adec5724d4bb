package usecase

import (
	"context"
	"testing"

	"github.com/pricescout/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func surfRequest() domain.CompareRequest {
	return domain.CompareRequest{MasterCategory: "grocery", Category: "Detergent", ProductName: " Surf Excel "}
}

func TestComparisonPipeline_Stages(t *testing.T) {
	p := NewComparisonPipeline(NewMockSearchClient())

	assert.Equal(t, []string{"Amazon", "Flipkart", "Blinkit", "Zepto", "BigBasket"}, stageNames(p.Stages()))
}

func TestComparisonPipeline_Compare(t *testing.T) {
	t.Run("no results yields an empty list", func(t *testing.T) {
		search := NewMockSearchClient()

		results, err := NewComparisonPipeline(search).Compare(context.Background(), surfRequest())

		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
		assert.Equal(t, []string{
			"Surf Excel site:amazon.in",
			"Surf Excel site:flipkart.com",
			"Surf Excel site:blinkit.com",
			"Surf Excel site:zepto.in",
			"Surf Excel site:bigbasket.com",
		}, search.Queries())
	})

	t.Run("first priced snippet per platform, sorted by price", func(t *testing.T) {
		search := NewMockSearchClient().
			On("Surf Excel site:amazon.in",
				result("Surf Excel 1kg", "Fast delivery", "https://amazon.in/a"),
				result("Surf Excel 1kg pouch", "Now ₹120 only", "https://amazon.in/b"),
				result("Surf Excel 2kg", "₹90", "https://amazon.in/c"),
			).
			On("Surf Excel site:flipkart.com",
				result("Surf Excel", "Rs. 99", "https://flipkart.com/s"),
			).
			On("Surf Excel site:zepto.in",
				result("Surf Excel ₹50", "arrives in 8 mins", "https://zepto.in/s"),
			)

		results, err := NewComparisonPipeline(search).Compare(context.Background(), surfRequest())

		require.NoError(t, err)
		assert.Equal(t, []domain.CompareResult{
			{Platform: "Flipkart", Price: 99, Link: "https://flipkart.com/s"},
			{Platform: "Amazon", Price: 120, Link: "https://amazon.in/b"},
		}, results)
	})

	t.Run("search failure aborts the run", func(t *testing.T) {
		search := NewMockSearchClient()
		search.strictErr = domain.ErrMissingAPIKey

		results, err := NewComparisonPipeline(search).Compare(context.Background(), surfRequest())

		assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
		assert.Nil(t, results)
		assert.Len(t, search.Queries(), 1)
	})
}
