package domain

// SearchResult is a single organic result returned by the search provider
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// SearchRequest is the body sent to the search provider
type SearchRequest struct {
	Query      string `json:"q"`
	NumResults int    `json:"num"`
}

// SearchResponse is the subset of the search provider response we consume
type SearchResponse struct {
	Organic []SearchResult `json:"organic"`
}
