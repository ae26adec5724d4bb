package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/pricescout/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultNumResults = 5
	defaultTimeout    = 30 * time.Second
)

// Options configures the search client
type Options struct {
	APIKey        string
	BaseURL       string
	NumResults    int
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// Client handles communication with the Serper web-search API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	numResults  int
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new search client
func NewClient(opts Options) *Client {
	if opts.NumResults <= 0 {
		opts.NumResults = defaultNumResults
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		apiKey:      opts.APIKey,
		baseURL:     opts.BaseURL,
		numResults:  opts.NumResults,
		rateLimiter: rate.NewLimiter(limit, opts.Burst),
	}
}

// SetDebug toggles logging of every query and result count
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Search returns the organic results for query, or an empty list on any failure.
// Used by the anomaly and arbitrage pipelines.
func (c *Client) Search(ctx context.Context, query string) []domain.SearchResult {
	results, err := c.SearchStrict(ctx, query)
	if err != nil {
		log.Printf("[SERPER] search failed for query=%q: %v", query, err)
		return []domain.SearchResult{}
	}
	return results
}

// SearchStrict returns the organic results for query.
// A missing API key or a failed request is reported to the caller.
func (c *Client) SearchStrict(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrSearchFailure, err)
	}

	body, err := json.Marshal(domain.SearchRequest{Query: query, NumResults: c.numResults})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrSearchFailure, resp.StatusCode, string(snippet))
	}

	var searchResp domain.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrSearchFailure, err)
	}

	results := searchResp.Organic
	if results == nil {
		results = []domain.SearchResult{}
	}
	if len(results) > c.numResults {
		results = results[:c.numResults]
	}

	if c.debug {
		log.Printf("[SERPER] %d results for query=%q", len(results), query)
	}
	return results, nil
}

// doRequest executes the search POST with proper headers
func (c *Client) doRequest(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchFailure, err)
	}
	return resp, nil
}
