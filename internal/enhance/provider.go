// Package enhance queries external metadata providers to fill gaps in
// extracted records: rate-limited search, fuzzy best-match selection, and a
// conservative merge that only fills missing fields.
package enhance

import (
	"context"
	"strconv"
	"strings"

	"github.com/scholarlabs/en2bib/internal/bib"
)

// Query is the search input built from a record's extracted fields.
// FirstAuthor narrows the provider search; Authors is the full list and is
// what match scoring compares against.
type Query struct {
	Title       string
	FirstAuthor string
	Authors     string
	Year        int // 0 if unknown
}

// QueryFromFields builds a Query from an extracted field set.
func QueryFromFields(fields bib.FieldSet) Query {
	q := Query{Title: fields.Get(bib.FieldTitle)}
	if authors := fields.Get(bib.FieldAuthor); authors != "" {
		q.Authors = strings.ReplaceAll(authors, " and ", " ")
		q.FirstAuthor = authors
		if i := strings.Index(authors, " and "); i >= 0 {
			q.FirstAuthor = authors[:i]
		}
	}
	if y, err := strconv.Atoi(fields.Get(bib.FieldYear)); err == nil {
		q.Year = y
	}
	return q
}

// Terms returns the provider query string: title plus first author.
func (q Query) Terms() string {
	return strings.TrimSpace(q.Title + " " + q.FirstAuthor)
}

// Candidate is one search result, normalized across providers.
type Candidate struct {
	Title         string
	Authors       []string
	Year          int
	Venue         string
	DOI           string
	URL           string
	Abstract      string
	CitationCount int // -1 when the provider does not report it
}

// Provider is an external metadata search service.
type Provider interface {
	// Name identifies the provider in warnings and provenance notes.
	Name() string

	// Search returns ranked candidates for the query. An empty slice with
	// a nil error means the provider found nothing.
	Search(ctx context.Context, q Query) ([]Candidate, error)
}
