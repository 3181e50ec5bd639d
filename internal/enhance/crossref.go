package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
)

const (
	// CrossRefBaseURL is the CrossRef works registry API base URL.
	CrossRefBaseURL = "https://api.crossref.org"

	crossRefRows = 5
)

// CrossRef queries the CrossRef works API.
type CrossRef struct {
	httpClient *http.Client
	baseURL    string
	mailto     string // polite-pool contact address
}

// CrossRefOption configures the client.
type CrossRefOption func(*CrossRef)

// WithCrossRefHTTPClient sets a custom HTTP client.
func WithCrossRefHTTPClient(hc *http.Client) CrossRefOption {
	return func(c *CrossRef) { c.httpClient = hc }
}

// WithCrossRefBaseURL sets a custom base URL (for testing).
func WithCrossRefBaseURL(u string) CrossRefOption {
	return func(c *CrossRef) { c.baseURL = u }
}

// WithCrossRefMailto sets the polite-pool contact address.
func WithCrossRefMailto(email string) CrossRefOption {
	return func(c *CrossRef) { c.mailto = email }
}

// NewCrossRef creates a CrossRef client. The CROSSREF_MAILTO environment
// variable is used when no mailto option is given.
func NewCrossRef(opts ...CrossRefOption) *CrossRef {
	c := &CrossRef{
		httpClient: http.DefaultClient,
		baseURL:    CrossRefBaseURL,
	}
	if email := os.Getenv("CROSSREF_MAILTO"); email != "" {
		c.mailto = email
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements Provider.
func (c *CrossRef) Name() string { return "CrossRef" }

// Search implements Provider using the bibliographic works query.
func (c *CrossRef) Search(ctx context.Context, q Query) ([]Candidate, error) {
	params := url.Values{}
	params.Set("query.bibliographic", q.Terms())
	params.Set("rows", fmt.Sprint(crossRefRows))
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/works?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building CrossRef request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying CrossRef: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, c.Name())
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Provider: c.Name(), StatusCode: resp.StatusCode}
	}

	var payload struct {
		Message struct {
			Items []struct {
				Title          []string `json:"title"`
				ContainerTitle []string `json:"container-title"`
				DOI            string   `json:"DOI"`
				URL            string   `json:"URL"`
				Abstract       string   `json:"abstract"`
				Issued         struct {
					DateParts [][]int `json:"date-parts"`
				} `json:"issued"`
				Author []struct {
					Given  string `json:"given"`
					Family string `json:"family"`
				} `json:"author"`
				ReferencedByCount int `json:"is-referenced-by-count"`
			} `json:"items"`
		} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding CrossRef payload: %v", ErrInvalidResponse, err)
	}

	candidates := make([]Candidate, 0, len(payload.Message.Items))
	for _, item := range payload.Message.Items {
		cand := Candidate{
			DOI:           item.DOI,
			URL:           item.URL,
			Abstract:      stripJATS(item.Abstract),
			CitationCount: item.ReferencedByCount,
		}
		if len(item.Title) > 0 {
			cand.Title = item.Title[0]
		}
		if len(item.ContainerTitle) > 0 {
			cand.Venue = item.ContainerTitle[0]
		}
		if parts := item.Issued.DateParts; len(parts) > 0 && len(parts[0]) > 0 {
			cand.Year = parts[0][0]
		}
		for _, a := range item.Author {
			name := strings.TrimSpace(a.Given + " " + a.Family)
			if name != "" {
				cand.Authors = append(cand.Authors, name)
			}
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

// stripJATS removes the JATS XML tags CrossRef wraps abstracts in.
func stripJATS(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
