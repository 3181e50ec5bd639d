// Package bib defines the core domain types for bibliography conversion.
package bib

// EntryType is a BibTeX/BibLaTeX entry type.
type EntryType string

// Supported entry types.
const (
	TypeArticle       EntryType = "article"
	TypeBook          EntryType = "book"
	TypeInCollection  EntryType = "incollection"
	TypeInProceedings EntryType = "inproceedings"
	TypeProceedings   EntryType = "proceedings"
	TypePhdThesis     EntryType = "phdthesis"
	TypeTechReport    EntryType = "techreport"
	TypeOnline        EntryType = "online"
	TypePatent        EntryType = "patent"
	TypeUnpublished   EntryType = "unpublished"
	TypeMisc          EntryType = "misc"
)

// Standard logical field names recognized by the extractor.
// Absence is represented as the empty string, never a missing key
// with different semantics.
const (
	FieldTitle        = "title"
	FieldAuthor       = "author"
	FieldYear         = "year"
	FieldJournal      = "journal"
	FieldVolume       = "volume"
	FieldNumber       = "number"
	FieldPages        = "pages"
	FieldPublisher    = "publisher"
	FieldAddress      = "address"
	FieldDOI          = "doi"
	FieldURL          = "url"
	FieldISBN         = "isbn"
	FieldISSN         = "issn"
	FieldAbstract     = "abstract"
	FieldKeywords     = "keywords"
	FieldNote         = "note"
	FieldBooktitle    = "booktitle"
	FieldChapter      = "chapter"
	FieldEdition      = "edition"
	FieldSeries       = "series"
	FieldOrganization = "organization"
	FieldInstitution  = "institution"
	FieldSchool       = "school"
)

// FieldSet maps logical field names to resolved string values.
// Keys are the Field* constants plus any user-declared custom fields.
type FieldSet map[string]string

// Get returns the value for a field, or "" if absent.
func (f FieldSet) Get(name string) string {
	return f[name]
}

// Set stores a value, dropping the key entirely when the value is empty
// so that Has and iteration see only populated fields.
func (f FieldSet) Set(name, value string) {
	if value == "" {
		delete(f, name)
		return
	}
	f[name] = value
}

// Has reports whether the field has a non-empty value.
func (f FieldSet) Has(name string) bool {
	return f[name] != ""
}

// Clone returns an independent copy of the field set.
func (f FieldSet) Clone() FieldSet {
	out := make(FieldSet, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Entry is one converted bibliography item.
type Entry struct {
	CiteKey string    // Unique within one conversion run, [A-Za-z0-9_]+
	Type    EntryType // Target entry type
	Fields  FieldSet  // Resolved field values
}
