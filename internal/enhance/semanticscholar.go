package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
)

const (
	// SemanticScholarBaseURL is the Academic Graph API base URL.
	SemanticScholarBaseURL = "https://api.semanticscholar.org/graph/v1"

	semanticScholarFields = "title,authors,year,venue,abstract,externalIds,url,citationCount"
	semanticScholarLimit  = 5
)

// SemanticScholar queries the Semantic Scholar Academic Graph search API.
type SemanticScholar struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// SemanticScholarOption configures the client.
type SemanticScholarOption func(*SemanticScholar)

// WithS2HTTPClient sets a custom HTTP client.
func WithS2HTTPClient(hc *http.Client) SemanticScholarOption {
	return func(c *SemanticScholar) { c.httpClient = hc }
}

// WithS2BaseURL sets a custom base URL (for testing).
func WithS2BaseURL(u string) SemanticScholarOption {
	return func(c *SemanticScholar) { c.baseURL = u }
}

// WithS2APIKey sets the API key for authenticated requests.
func WithS2APIKey(key string) SemanticScholarOption {
	return func(c *SemanticScholar) { c.apiKey = key }
}

// NewSemanticScholar creates a Semantic Scholar client. The S2_API_KEY
// environment variable is used when no key option is given.
func NewSemanticScholar(opts ...SemanticScholarOption) *SemanticScholar {
	c := &SemanticScholar{
		httpClient: http.DefaultClient,
		baseURL:    SemanticScholarBaseURL,
	}
	if key := os.Getenv("S2_API_KEY"); key != "" {
		c.apiKey = key
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements Provider.
func (c *SemanticScholar) Name() string { return "Semantic Scholar" }

// Search implements Provider using the paper relevance-search endpoint.
func (c *SemanticScholar) Search(ctx context.Context, q Query) ([]Candidate, error) {
	params := url.Values{}
	params.Set("query", q.Terms())
	params.Set("limit", fmt.Sprint(semanticScholarLimit))
	params.Set("fields", semanticScholarFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/paper/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building S2 request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying Semantic Scholar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, c.Name())
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Provider: c.Name(), StatusCode: resp.StatusCode}
	}

	var payload struct {
		Data []struct {
			Title    string `json:"title"`
			Abstract string `json:"abstract"`
			Year     int    `json:"year"`
			Venue    string `json:"venue"`
			URL      string `json:"url"`
			Authors  []struct {
				Name string `json:"name"`
			} `json:"authors"`
			ExternalIDs struct {
				DOI string `json:"DOI"`
			} `json:"externalIds"`
			CitationCount int `json:"citationCount"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding Semantic Scholar payload: %v", ErrInvalidResponse, err)
	}

	candidates := make([]Candidate, 0, len(payload.Data))
	for _, item := range payload.Data {
		c := Candidate{
			Title:         item.Title,
			Year:          item.Year,
			Venue:         item.Venue,
			DOI:           item.ExternalIDs.DOI,
			URL:           item.URL,
			Abstract:      item.Abstract,
			CitationCount: item.CitationCount,
		}
		for _, a := range item.Authors {
			c.Authors = append(c.Authors, a.Name)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}
