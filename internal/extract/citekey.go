package extract

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/scholarlabs/en2bib/internal/bib"
)

// Stop words excluded from the title fragment of a citation key.
var citeKeyStopWords = map[string]bool{
	"the": true, "and": true, "of": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "with": true, "by": true,
}

// minCiteKeyLen is the threshold below which a content-derived key is
// abandoned in favor of the positional ref<N> fallback.
const minCiteKeyLen = 6

// foldASCII strips diacritics and drops any remaining non-ASCII runes, so
// keys stay within [A-Za-z0-9_] for authors like Müller or Gómez.
var foldASCII = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	norm.NFC,
)

// CiteKey derives a citation key from the first author's surname, the year,
// and the first significant title word. position is the record's 1-based
// index, used for the fallback key when author and year are missing.
//
// Uniqueness across a run is not guaranteed here; the orchestrator
// disambiguates exact duplicates.
func CiteKey(fields bib.FieldSet, position int) string {
	surname := keyClean(firstAuthorSurname(fields.Get(bib.FieldAuthor)))
	year := fields.Get(bib.FieldYear)
	fragment := titleFragment(fields.Get(bib.FieldTitle))

	key := strings.ToLower(surname) + year + fragment
	if len(key) < minCiteKeyLen {
		return fmt.Sprintf("ref%d", position)
	}
	return key
}

// firstAuthorSurname extracts the surname of the first author. "Last,
// First" form takes the text before the comma; otherwise the last
// whitespace-separated token.
func firstAuthorSurname(authors string) string {
	first := authors
	if i := strings.Index(authors, " and "); i >= 0 {
		first = authors[:i]
	}
	first = strings.TrimSpace(first)
	if first == "" {
		return ""
	}

	if i := strings.Index(first, ","); i >= 0 {
		return strings.TrimSpace(first[:i])
	}
	parts := strings.Fields(first)
	return parts[len(parts)-1]
}

// titleFragment returns the first significant title word, capitalized.
// Words in the stop list and words of three characters or fewer are skipped.
func titleFragment(title string) string {
	for _, word := range strings.Fields(title) {
		word = keyClean(word)
		if len(word) <= 3 || citeKeyStopWords[strings.ToLower(word)] {
			continue
		}
		return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return ""
}

// keyClean folds the string to ASCII and strips everything outside
// [A-Za-z0-9].
func keyClean(s string) string {
	folded, _, err := transform.String(foldASCII, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range folded {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
