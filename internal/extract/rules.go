// Package extract resolves logical bibliography fields from located XML
// records, classifies records into entry types, and derives citation keys.
package extract

import "github.com/scholarlabs/en2bib/internal/bib"

// strategy selects how a rule's key is looked up on the record subtree.
type strategy int

const (
	childText      strategy = iota // text of the first direct child with this name
	descendantText                 // text of the first descendant with this name
	attrValue                      // attribute value on the record element itself
)

// rule is one (lookup strategy, lookup key) pair. Rules for a field are
// evaluated in order; the first one yielding non-empty text wins.
type rule struct {
	strategy strategy
	key      string
}

// fieldRules declares the extraction rules per logical field. Author and
// keywords are handled separately because they resolve element lists, not
// single values.
var fieldRules = map[string][]rule{
	bib.FieldTitle: {
		{childText, "title"},
		{descendantText, "title"},
		{attrValue, "title"},
	},
	bib.FieldYear: {
		{descendantText, "year"},
		{descendantText, "pub-dates"},
		{descendantText, "dates"},
		{descendantText, "date"},
	},
	bib.FieldJournal: {
		{descendantText, "full-title"},
		{descendantText, "periodical"},
		{descendantText, "journal"},
		{descendantText, "secondary-title"},
	},
	bib.FieldVolume: {
		{descendantText, "volume"},
	},
	bib.FieldNumber: {
		{descendantText, "number"},
		{descendantText, "issue"},
	},
	bib.FieldPages: {
		{descendantText, "pages"},
	},
	bib.FieldPublisher: {
		{descendantText, "publisher"},
	},
	bib.FieldAddress: {
		{descendantText, "pub-location"},
		{descendantText, "address"},
		{descendantText, "place"},
	},
	bib.FieldDOI: {
		{descendantText, "electronic-resource-num"},
		{descendantText, "doi"},
	},
	bib.FieldURL: {
		{descendantText, "url"},
		{descendantText, "web-urls"},
	},
	bib.FieldISBN: {
		{descendantText, "isbn"},
	},
	bib.FieldISSN: {
		{descendantText, "issn"},
	},
	bib.FieldAbstract: {
		{descendantText, "abstract"},
	},
	bib.FieldNote: {
		{descendantText, "notes"},
		{descendantText, "note"},
	},
	bib.FieldBooktitle: {
		{descendantText, "booktitle"},
		{descendantText, "book-title"},
		{descendantText, "conference-name"},
	},
	bib.FieldChapter: {
		{descendantText, "chapter"},
		{descendantText, "section"},
	},
	bib.FieldEdition: {
		{descendantText, "edition"},
	},
	bib.FieldSeries: {
		{descendantText, "tertiary-title"},
		{descendantText, "series"},
	},
	bib.FieldOrganization: {
		{descendantText, "organization"},
	},
	bib.FieldInstitution: {
		{descendantText, "institution"},
	},
	bib.FieldSchool: {
		{descendantText, "school"},
		{descendantText, "university"},
	},
}

// customRules builds the rule list for a user-declared field name: the same
// lookup ladder the fixed vocabulary uses.
func customRules(name string) []rule {
	return []rule{
		{childText, name},
		{descendantText, name},
		{attrValue, name},
	}
}
