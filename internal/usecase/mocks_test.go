package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pricescout/backend/internal/domain"
)

// MockSearchClient is a mock implementation of domain.SearchClient.
// Results are looked up by exact query, then by the first matching substring rule.
type MockSearchClient struct {
	mu        sync.Mutex
	byQuery   map[string][]domain.SearchResult
	contains  map[string][]domain.SearchResult
	strictErr error
	queries   []string
}

func NewMockSearchClient() *MockSearchClient {
	return &MockSearchClient{
		byQuery:  make(map[string][]domain.SearchResult),
		contains: make(map[string][]domain.SearchResult),
	}
}

func (m *MockSearchClient) On(query string, results ...domain.SearchResult) *MockSearchClient {
	m.byQuery[query] = results
	return m
}

func (m *MockSearchClient) OnContains(fragment string, results ...domain.SearchResult) *MockSearchClient {
	m.contains[fragment] = results
	return m
}

func (m *MockSearchClient) lookup(query string) []domain.SearchResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)

	if results, ok := m.byQuery[query]; ok {
		return results
	}
	fragments := make([]string, 0, len(m.contains))
	for f := range m.contains {
		fragments = append(fragments, f)
	}
	sort.Strings(fragments)
	for _, f := range fragments {
		if strings.Contains(query, f) {
			return m.contains[f]
		}
	}
	return []domain.SearchResult{}
}

func (m *MockSearchClient) Search(ctx context.Context, query string) []domain.SearchResult {
	return m.lookup(query)
}

func (m *MockSearchClient) SearchStrict(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if m.strictErr != nil {
		m.mu.Lock()
		m.queries = append(m.queries, query)
		m.mu.Unlock()
		return nil, m.strictErr
	}
	return m.lookup(query), nil
}

func (m *MockSearchClient) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.queries...)
}

// MockVariantExtractor is a mock implementation of domain.VariantExtractor
type MockVariantExtractor struct {
	mu       sync.Mutex
	variants map[string][]domain.Variant
	err      error
	texts    map[string]string
}

func NewMockVariantExtractor() *MockVariantExtractor {
	return &MockVariantExtractor{
		variants: make(map[string][]domain.Variant),
		texts:    make(map[string]string),
	}
}

func (m *MockVariantExtractor) ExtractVariants(ctx context.Context, product, text string) ([]domain.Variant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts[product] = text
	if m.err != nil {
		return []domain.Variant{}, m.err
	}
	if v, ok := m.variants[product]; ok {
		return v, nil
	}
	return []domain.Variant{}, nil
}

func result(title, snippet, link string) domain.SearchResult {
	return domain.SearchResult{Title: title, Snippet: snippet, Link: link}
}

func price(v float64) *float64 {
	return &v
}
