package domain

import "errors"

var (
	// ErrMissingAPIKey is returned when the search provider credential is not configured
	ErrMissingAPIKey = errors.New("search API key not set")

	// ErrSearchFailure is returned when a search provider request fails
	ErrSearchFailure = errors.New("search request failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidCategory is returned when a category is not part of the catalog
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidOffer is returned when an offer is built without its required fields
	ErrInvalidOffer = errors.New("invalid offer")

	// ErrNoValidPrices is returned when none of the supplied records carries a price
	ErrNoValidPrices = errors.New("no valid prices found")

	// ErrVariantParse is returned when variant text cannot be parsed
	ErrVariantParse = errors.New("variant parse failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
