package style

import (
	"strings"
	"testing"

	"github.com/scholarlabs/en2bib/internal/bib"
	"github.com/scholarlabs/en2bib/internal/strdefs"
)

func miscEntry() bib.Entry {
	return bib.Entry{
		CiteKey: "smith2023Study",
		Type:    bib.TypeMisc,
		Fields: bib.FieldSet{
			bib.FieldTitle:  "A Study of Things",
			bib.FieldAuthor: "Smith, John",
			bib.FieldYear:   "2023",
		},
	}
}

func TestFormat_StandardMiscEntry(t *testing.T) {
	f := NewFormatter(bib.DefaultOptions(), nil)
	got := f.Format(miscEntry())

	want := "@misc{smith2023Study,\n" +
		"  title = {A Study of Things},\n" +
		"  author = {Smith, John},\n" +
		"  year = {2023}\n" +
		"}"
	if got != want {
		t.Errorf("Format() =\n%s\nwant:\n%s", got, want)
	}
}

func TestFormat_EscapingAtEmission(t *testing.T) {
	e := miscEntry()
	e.Fields.Set(bib.FieldTitle, "Profit & Loss in 90%_cases")

	got := NewFormatter(bib.DefaultOptions(), nil).Format(e)
	if !strings.Contains(got, `title = {Profit \& Loss in 90\%\_cases}`) {
		t.Errorf("Format() should escape the title, got:\n%s", got)
	}

	opts := bib.DefaultOptions()
	opts.EscapeLatex = false
	got = NewFormatter(opts, nil).Format(e)
	if !strings.Contains(got, `title = {Profit & Loss in 90%_cases}`) {
		t.Errorf("Format() should not escape when disabled, got:\n%s", got)
	}
}

func TestFormat_VerbatimDOIAndURL(t *testing.T) {
	e := miscEntry()
	e.Fields.Set(bib.FieldDOI, "10.1000/a_b")
	e.Fields.Set(bib.FieldURL, "https://example.com/x_y?z=1&w=2")

	got := NewFormatter(bib.DefaultOptions(), nil).Format(e)
	if !strings.Contains(got, "doi = {10.1000/a_b}") {
		t.Errorf("DOI must not be escaped, got:\n%s", got)
	}
	if !strings.Contains(got, "url = {https://example.com/x_y?z=1&w=2}") {
		t.Errorf("URL must not be escaped, got:\n%s", got)
	}
}

func TestFormat_BiblatexRenamesAndPageSplit(t *testing.T) {
	opts := bib.DefaultOptions()
	opts.Style = "biblatex"
	e := bib.Entry{
		CiteKey: "k1",
		Type:    bib.TypeArticle,
		Fields: bib.FieldSet{
			bib.FieldTitle:   "T",
			bib.FieldJournal: "Journal of Examples",
			bib.FieldPages:   "101--110",
			bib.FieldAddress: "Berlin",
		},
	}

	got := NewFormatter(opts, nil).Format(e)

	if !strings.Contains(got, "journaltitle = {Journal of Examples}") {
		t.Errorf("biblatex should rename journal, got:\n%s", got)
	}
	if strings.Contains(got, "\n  journal =") {
		t.Errorf("biblatex should not emit journal, got:\n%s", got)
	}
	if !strings.Contains(got, "startpage = {101}") || !strings.Contains(got, "endpage = {110}") {
		t.Errorf("biblatex should split the page range, got:\n%s", got)
	}
	if !strings.Contains(got, "location = {Berlin}") {
		t.Errorf("biblatex should rename address, got:\n%s", got)
	}
}

func TestFormat_BiblatexFieldsOption(t *testing.T) {
	opts := bib.DefaultOptions()
	opts.BiblatexFields = true // standard style, alternate field names
	e := bib.Entry{
		CiteKey: "k1",
		Type:    bib.TypeArticle,
		Fields:  bib.FieldSet{bib.FieldTitle: "T", bib.FieldJournal: "J"},
	}
	got := NewFormatter(opts, nil).Format(e)
	if !strings.Contains(got, "journaltitle = {J}") {
		t.Errorf("BiblatexFields option should rename journal, got:\n%s", got)
	}
}

func TestFormat_StringDefinitionReference(t *testing.T) {
	reg := strdefs.NewRegistry()
	key := reg.AddJournal("IEEE Transactions on Computers")

	opts := bib.DefaultOptions()
	opts.StringDefs = true
	e := bib.Entry{
		CiteKey: "k1",
		Type:    bib.TypeArticle,
		Fields: bib.FieldSet{
			bib.FieldTitle:   "T",
			bib.FieldJournal: "IEEE Transactions on Computers",
		},
	}

	got := NewFormatter(opts, reg).Format(e)

	if !strings.Contains(got, "journal = "+key) {
		t.Errorf("journal should reference the registry key, got:\n%s", got)
	}
	if strings.Contains(got, "journal = {") {
		t.Errorf("registry reference must not be braced, got:\n%s", got)
	}
}

func TestFormat_OptionalFields(t *testing.T) {
	e := miscEntry()
	e.Fields.Set(bib.FieldAbstract, "An abstract")
	e.Fields.Set(bib.FieldKeywords, "a, b")
	e.Fields.Set(bib.FieldNote, "A note")

	got := NewFormatter(bib.DefaultOptions(), nil).Format(e)
	for _, absent := range []string{"abstract", "keywords", "note"} {
		if strings.Contains(got, absent+" = ") {
			t.Errorf("%s should be omitted by default, got:\n%s", absent, got)
		}
	}

	opts := bib.DefaultOptions()
	opts.IncludeAbstract = true
	opts.IncludeKeywords = true
	opts.IncludeNotes = true
	got = NewFormatter(opts, nil).Format(e)
	for _, present := range []string{"abstract = {An abstract}", "keywords = {a, b}", "note = {A note}"} {
		if !strings.Contains(got, present) {
			t.Errorf("expected %q, got:\n%s", present, got)
		}
	}
}

func TestFormat_VenuePrefix(t *testing.T) {
	opts := bib.DefaultOptions()
	opts.Style = "ieee"
	e := bib.Entry{
		CiteKey: "k1",
		Type:    bib.TypeInProceedings,
		Fields:  bib.FieldSet{bib.FieldTitle: "T", bib.FieldBooktitle: "Intl. Conf. on Testing"},
	}

	got := NewFormatter(opts, nil).Format(e)
	if !strings.Contains(got, "booktitle = {Proc. Intl. Conf. on Testing}") {
		t.Errorf("ieee style should prefix the venue, got:\n%s", got)
	}

	// Already-prefixed venues are left alone.
	e.Fields.Set(bib.FieldBooktitle, "Proceedings of the 4th Workshop")
	got = NewFormatter(opts, nil).Format(e)
	if !strings.Contains(got, "booktitle = {Proceedings of the 4th Workshop}") {
		t.Errorf("existing prefix should be preserved, got:\n%s", got)
	}
}

func TestFormat_VenuePrefixLeavesJournalAlone(t *testing.T) {
	opts := bib.DefaultOptions()
	opts.Style = "ieee"
	e := bib.Entry{
		CiteKey: "k1",
		Type:    bib.TypeArticle,
		Fields:  bib.FieldSet{bib.FieldTitle: "T", bib.FieldJournal: "Journal of Testing"},
	}

	got := NewFormatter(opts, nil).Format(e)
	if !strings.Contains(got, "journal = {Journal of Testing}") {
		t.Errorf("journal names must not get a proceedings prefix, got:\n%s", got)
	}
}

func TestFormat_CustomFieldsAfterKnown(t *testing.T) {
	e := miscEntry()
	e.Fields.Set("zcustom", "zv")
	e.Fields.Set("acustom", "av")

	got := NewFormatter(bib.DefaultOptions(), nil).Format(e)

	aIdx := strings.Index(got, "acustom")
	zIdx := strings.Index(got, "zcustom")
	yearIdx := strings.Index(got, "year")
	if aIdx < 0 || zIdx < 0 {
		t.Fatalf("custom fields missing, got:\n%s", got)
	}
	if !(yearIdx < aIdx && aIdx < zIdx) {
		t.Errorf("custom fields should follow known fields alphabetically, got:\n%s", got)
	}
}

func TestLookup_UnknownFallsBackToStandard(t *testing.T) {
	if p := Lookup("no-such-style"); p.Name != "standard" {
		t.Errorf("Lookup(unknown) = %q, want standard", p.Name)
	}
}
