package extract

import (
	"strings"

	"github.com/scholarlabs/en2bib/internal/bib"
	"github.com/scholarlabs/en2bib/internal/xmltree"
)

// typeMatch maps a lowercase substring of a declared reference type to an
// entry type. Order matters: "chapter"/"section" must be checked before
// "book" so book sections do not classify as whole books.
type typeMatch struct {
	substr string
	entry  bib.EntryType
}

var typeMatches = []typeMatch{
	{"journal", bib.TypeArticle},
	{"article", bib.TypeArticle},
	{"chapter", bib.TypeInCollection},
	{"inbook", bib.TypeInCollection},
	{"section", bib.TypeInCollection},
	{"conference", bib.TypeInProceedings},
	{"proceeding", bib.TypeInProceedings},
	{"thesis", bib.TypePhdThesis},
	{"dissertation", bib.TypePhdThesis},
	{"report", bib.TypeTechReport},
	{"tech", bib.TypeTechReport},
	{"patent", bib.TypePatent},
	{"unpublished", bib.TypeUnpublished},
	{"manuscript", bib.TypeUnpublished},
	{"web", bib.TypeOnline},
	{"online", bib.TypeOnline},
	{"electronic", bib.TypeOnline},
	{"book", bib.TypeBook},
}

// Classify maps a record to an entry type. A declared reference type is
// matched first; absent that, the populated fields decide. The fallback
// order (journal, booktitle, publisher) determines which required-field
// conventions apply downstream and must not be reordered.
func Classify(rec *xmltree.Node, fields bib.FieldSet) bib.EntryType {
	if declared := declaredType(rec); declared != "" {
		lower := strings.ToLower(declared)
		for _, m := range typeMatches {
			if strings.Contains(lower, m.substr) {
				return m.entry
			}
		}
	}

	switch {
	case fields.Has(bib.FieldJournal):
		return bib.TypeArticle
	case fields.Has(bib.FieldBooktitle):
		return bib.TypeInProceedings
	case fields.Has(bib.FieldPublisher):
		return bib.TypeBook
	default:
		return bib.TypeMisc
	}
}

// declaredType finds the record's declared reference type. EndNote exports
// carry <ref-type name="Journal Article">17</ref-type>; the name attribute
// is more useful than the numeric body.
func declaredType(rec *xmltree.Node) string {
	for _, tag := range []string{"ref-type", "reference-type", "type"} {
		if n := rec.Find(tag); n != nil {
			if name := n.Attr("name"); name != "" {
				return name
			}
			if text := nodeText(n); text != "" {
				return text
			}
		}
	}
	return rec.Attr("type")
}
