package extract

import (
	"regexp"
	"strings"

	"github.com/scholarlabs/en2bib/internal/xmltree"
)

// authorSplitRe splits a delimited author string on semicolons, the literal
// word "and", or commas.
var authorSplitRe = regexp.MustCompile(`\s*;\s*|\s+and\s+|\s*,\s*`)

// extractAuthors resolves the author field. A structured contributor list
// (one sub-element per author) is preferred; a single delimited string is
// the fallback. Authors are joined with " and " per BibTeX convention.
func extractAuthors(rec *xmltree.Node) string {
	for _, container := range []string{"authors", "contributors"} {
		c := rec.Find(container)
		if c == nil {
			continue
		}
		var names []string
		for _, a := range c.FindAll("author") {
			if name := nodeText(a); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			return strings.Join(names, " and ")
		}
	}

	// Fallback: a single delimited string.
	a := rec.Find("author")
	if a == nil {
		return ""
	}
	raw := nodeText(a)
	if raw == "" {
		return ""
	}
	var names []string
	for _, part := range authorSplitRe.Split(raw, -1) {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return strings.Join(names, " and ")
}

// extractKeywords joins a structured keyword list with commas, falling back
// to a single keywords element.
func extractKeywords(rec *xmltree.Node) string {
	if c := rec.Find("keywords"); c != nil {
		var kws []string
		for _, k := range c.FindAll("keyword") {
			if kw := nodeText(k); kw != "" {
				kws = append(kws, kw)
			}
		}
		if len(kws) > 0 {
			return strings.Join(kws, ", ")
		}
		return nodeText(c)
	}
	if k := rec.Find("keyword"); k != nil {
		return nodeText(k)
	}
	return ""
}
