// Package style applies named citation-style profiles: field renames,
// per-style field ordering, and style-specific literal transforms.
package style

import (
	"strings"

	"github.com/scholarlabs/en2bib/internal/bib"
)

// Profile is one citation-style profile. Profiles are static data; lookups
// fall back to the standard profile for unknown names.
type Profile struct {
	Name string

	// FieldOrder is the emission order. Fields not listed are emitted
	// afterward in alphabetical order so output stays deterministic.
	FieldOrder []string

	// Renames maps logical field names to style-specific names.
	Renames map[string]string

	// SplitPageRange emits a double-hyphen range as separate start/end
	// page fields instead of one pages field.
	SplitPageRange bool

	// VenuePrefix is prepended to booktitle values that do not already
	// carry a proceedings-style prefix.
	VenuePrefix string
}

var standardOrder = []string{
	bib.FieldTitle, bib.FieldAuthor, bib.FieldYear,
	bib.FieldJournal, bib.FieldBooktitle,
	bib.FieldVolume, bib.FieldNumber, bib.FieldPages,
	bib.FieldPublisher, bib.FieldAddress,
	bib.FieldEdition, bib.FieldSeries, bib.FieldChapter,
	bib.FieldOrganization, bib.FieldInstitution, bib.FieldSchool,
	bib.FieldDOI, bib.FieldURL, bib.FieldISBN, bib.FieldISSN,
	bib.FieldAbstract, bib.FieldKeywords, bib.FieldNote,
}

var authorFirstOrder = []string{
	bib.FieldAuthor, bib.FieldTitle, bib.FieldJournal, bib.FieldBooktitle,
	bib.FieldVolume, bib.FieldNumber, bib.FieldPages, bib.FieldYear,
	bib.FieldPublisher, bib.FieldAddress,
	bib.FieldEdition, bib.FieldSeries, bib.FieldChapter,
	bib.FieldOrganization, bib.FieldInstitution, bib.FieldSchool,
	bib.FieldDOI, bib.FieldURL, bib.FieldISBN, bib.FieldISSN,
	bib.FieldAbstract, bib.FieldKeywords, bib.FieldNote,
}

var authorYearOrder = []string{
	bib.FieldAuthor, bib.FieldYear, bib.FieldTitle,
	bib.FieldJournal, bib.FieldBooktitle,
	bib.FieldVolume, bib.FieldNumber, bib.FieldPages,
	bib.FieldPublisher, bib.FieldAddress,
	bib.FieldEdition, bib.FieldSeries, bib.FieldChapter,
	bib.FieldOrganization, bib.FieldInstitution, bib.FieldSchool,
	bib.FieldDOI, bib.FieldURL, bib.FieldISBN, bib.FieldISSN,
	bib.FieldAbstract, bib.FieldKeywords, bib.FieldNote,
}

var profiles = map[string]Profile{
	"standard": {
		Name:       "standard",
		FieldOrder: standardOrder,
	},
	"acm": {
		Name:        "acm",
		FieldOrder:  authorFirstOrder,
		VenuePrefix: "Proceedings of the ",
	},
	"ieee": {
		Name:        "ieee",
		FieldOrder:  authorFirstOrder,
		VenuePrefix: "Proc. ",
	},
	"apa": {
		Name:       "apa",
		FieldOrder: authorYearOrder,
	},
	"harvard": {
		Name:       "harvard",
		FieldOrder: authorYearOrder,
	},
	"chicago": {
		Name:       "chicago",
		FieldOrder: authorFirstOrder,
	},
	"biblatex": {
		Name:       "biblatex",
		FieldOrder: standardOrder,
		Renames: map[string]string{
			bib.FieldJournal: "journaltitle",
			bib.FieldAddress: "location",
		},
		SplitPageRange: true,
	},
}

// Lookup returns the profile for a style name, falling back to standard
// for unknown or empty names.
func Lookup(name string) Profile {
	if p, ok := profiles[strings.ToLower(name)]; ok {
		return p
	}
	return profiles["standard"]
}

// Names returns the known style names in a stable order.
func Names() []string {
	return []string{"standard", "acm", "ieee", "apa", "harvard", "chicago", "biblatex"}
}
