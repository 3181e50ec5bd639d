package extract

import (
	"errors"
	"regexp"

	"github.com/scholarlabs/en2bib/internal/bib"
	"github.com/scholarlabs/en2bib/internal/latex"
	"github.com/scholarlabs/en2bib/internal/xmltree"
)

// ErrNoTitleOrAuthor is returned for records lacking both a title and an
// author. This is the only hard rejection; anything else extracts best-effort.
var ErrNoTitleOrAuthor = errors.New("record has neither title nor author")

var (
	yearRe = regexp.MustCompile(`(19|20)\d{2}`)
	// Any dash variant (hyphen, en, em, minus) between two page numbers.
	pageRangeRe = regexp.MustCompile(`(\d+)\s*[-‐‒–—―−]+\s*(\d+)`)
)

// Extractor resolves FieldSets from record nodes according to one run's
// options (custom fields, optional-field selection).
type Extractor struct {
	opts bib.Options
}

// New returns an Extractor for the given options.
func New(opts bib.Options) *Extractor {
	return &Extractor{opts: opts}
}

// Extract resolves all requested logical fields of one record. LaTeX
// escaping is deliberately not applied here; the style formatter escapes at
// emission time so string-definition references stay literal.
func (e *Extractor) Extract(rec *xmltree.Node) (bib.FieldSet, error) {
	fields := make(bib.FieldSet)

	for name, rules := range fieldRules {
		fields.Set(name, resolveRules(rec, rules))
	}

	// List-valued fields override the generic ladder.
	fields.Set(bib.FieldAuthor, extractAuthors(rec))
	fields.Set(bib.FieldKeywords, extractKeywords(rec))

	for _, name := range e.opts.CustomFields {
		if _, fixed := fieldRules[name]; fixed {
			continue
		}
		fields.Set(name, resolveRules(rec, customRules(name)))
	}

	// Type-specific post-processing.
	fields.Set(bib.FieldYear, extractYear(fields.Get(bib.FieldYear)))
	fields.Set(bib.FieldPages, normalizePages(fields.Get(bib.FieldPages)))

	if !fields.Has(bib.FieldTitle) && !fields.Has(bib.FieldAuthor) {
		return nil, ErrNoTitleOrAuthor
	}
	return fields, nil
}

// resolveRules evaluates a rule list in order, returning the first
// non-empty result.
func resolveRules(rec *xmltree.Node, rules []rule) string {
	for _, r := range rules {
		var text string
		switch r.strategy {
		case childText:
			if c := rec.Child(r.key); c != nil {
				text = nodeText(c)
			}
		case descendantText:
			if d := rec.Find(r.key); d != nil {
				text = nodeText(d)
			}
		case attrValue:
			text = latex.CollapseWhitespace(rec.Attr(r.key))
		}
		if text != "" {
			return text
		}
	}
	return ""
}

// nodeText resolves an element to plain text. Rich-text exports wrap values
// in <style> elements; those are preferred over the raw element text so
// formatting metadata around them is not picked up.
func nodeText(n *xmltree.Node) string {
	if styles := n.FindAll("style"); len(styles) > 0 {
		var text string
		for _, s := range styles {
			if s.Text == "" {
				continue
			}
			if text != "" {
				text += " "
			}
			text += s.Text
		}
		if text != "" {
			return latex.CollapseWhitespace(text)
		}
	}
	return latex.CollapseWhitespace(n.FullText())
}

// extractYear pulls the first plausible 4-digit year out of a date-like
// value. Lossy on purpose: non-Gregorian and 3-digit years are not supported.
func extractYear(raw string) string {
	return yearRe.FindString(raw)
}

// normalizePages rewrites any dash variant between two numbers to the
// BibTeX double-hyphen convention.
func normalizePages(raw string) string {
	return pageRangeRe.ReplaceAllString(raw, "$1--$2")
}
