package usecase

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/pricescout/backend/internal/domain"
)

// currencyAmountRegex only accepts an amount right after a currency marker,
// so "5 kg", "27% OFF" and "8 mins" never match. Commas anywhere in the digit
// run are treated as separators.
var currencyAmountRegex = regexp.MustCompile(
	`(?i)(?:₹|\bRs\.?|\bINR|\$)\s*(\d[\d,]*(?:\.\d{1,2})?)`,
)

// ParsePrice returns the first currency-marked amount in text
func ParsePrice(text string) (float64, bool) {
	m := currencyAmountRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	amount := strings.ReplaceAll(strings.TrimRight(m[1], ","), ",", "")
	price, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

// ExtractFirstOffer returns at most one offer: the first result whose snippet
// carries a price. Later results are not inspected.
func ExtractFirstOffer(platform string, results []domain.SearchResult) []domain.RawOffer {
	for _, result := range results {
		price, ok := ParsePrice(result.Snippet)
		if !ok {
			continue
		}
		offer, err := domain.NewRawOffer(platform, result.Title, result.Link, price, result.Snippet)
		if err != nil {
			continue
		}
		return []domain.RawOffer{offer}
	}
	return []domain.RawOffer{}
}

// ExtractAllOffers returns one offer per result whose title and snippet carry
// a price, in result order. The first amount in the combined text is used.
func ExtractAllOffers(platform string, results []domain.SearchResult) []domain.RawOffer {
	offers := []domain.RawOffer{}
	for _, result := range results {
		price, ok := ParsePrice(result.Title + " " + result.Snippet)
		if !ok {
			continue
		}
		offer, err := domain.NewRawOffer(platform, result.Title, result.Link, price, result.Snippet)
		if err != nil {
			continue
		}
		offers = append(offers, offer)
	}
	return offers
}

// ExtractPricesByDomain maps each result's link host to the first price in its
// snippet. A later result for the same host replaces an earlier one.
func ExtractPricesByDomain(results []domain.SearchResult) domain.PricePoint {
	prices := domain.PricePoint{}
	for _, result := range results {
		price, ok := ParsePrice(result.Snippet)
		if !ok {
			continue
		}
		prices[hostOf(result.Link)] = price
	}
	return prices
}

// hostOf returns the host of link, or link itself when it does not parse
func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return link
	}
	return u.Host
}
