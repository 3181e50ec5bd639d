package convert

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/scholarlabs/en2bib/internal/bib"
	"github.com/scholarlabs/en2bib/internal/enhance"
)

func fixedClock() func() time.Time {
	t := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time { return t }
}

func record(inner string) string {
	return "<record>" + inner + "</record>"
}

func document(records ...string) string {
	return "<xml><records>" + strings.Join(records, "") + "</records></xml>"
}

const smithRecord = `
	<contributors><authors><author>Smith, John</author></authors></contributors>
	<titles><title>A Study of Things</title></titles>
	<dates><year>2023</year></dates>`

func TestConvert_MiscEntryExample(t *testing.T) {
	c := New(bib.DefaultOptions(), WithClock(fixedClock()))
	result := c.Convert(context.Background(), document(record(smithRecord)), nil)

	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", result.Warnings)
	}
	if result.EntryCount != 1 {
		t.Fatalf("EntryCount = %d, want 1", result.EntryCount)
	}

	want := "@misc{smith2023Study,\n" +
		"  title = {A Study of Things},\n" +
		"  author = {Smith, John},\n" +
		"  year = {2023}\n" +
		"}"
	if result.Entries[0] != want {
		t.Errorf("entry =\n%s\nwant:\n%s", result.Entries[0], want)
	}
	if !strings.Contains(result.Output, want) {
		t.Errorf("output should contain the entry, got:\n%s", result.Output)
	}
}

func TestConvert_DuplicateKeysDisambiguated(t *testing.T) {
	c := New(bib.DefaultOptions(), WithClock(fixedClock()))
	result := c.Convert(context.Background(),
		document(record(smithRecord), record(smithRecord), record(smithRecord)), nil)

	if result.EntryCount != 3 {
		t.Fatalf("EntryCount = %d, want 3", result.EntryCount)
	}

	keys := make(map[string]bool)
	for _, e := range result.Entries {
		key := e[strings.Index(e, "{")+1 : strings.Index(e, ",")]
		if keys[key] {
			t.Errorf("duplicate citation key %q", key)
		}
		keys[key] = true
	}
	if !keys["smith2023Study"] || !keys["smith2023Study_2"] || !keys["smith2023Study_3"] {
		t.Errorf("keys = %v, want bare key plus _2 and _3 suffixes", keys)
	}
}

func TestConvert_StringDefinitions(t *testing.T) {
	opts := bib.DefaultOptions()
	opts.StringDefs = true

	doc := document(record(smithRecord + `
		<periodical><full-title>IEEE Transactions on Computers</full-title></periodical>`))

	c := New(opts, WithClock(fixedClock()))
	result := c.Convert(context.Background(), doc, nil)

	if !strings.Contains(result.Output, "% IEEE") {
		t.Errorf("output should carry an IEEE category, got:\n%s", result.Output)
	}
	if !strings.Contains(result.Output, "@string{ieeetransactionsonco = {IEEE Transactions on Computers}}") {
		t.Errorf("output should define the journal, got:\n%s", result.Output)
	}
	if !strings.Contains(result.Output, "journal = ieeetransactionsonco") {
		t.Errorf("entry should reference the key, got:\n%s", result.Output)
	}
	if strings.Contains(result.Output, "journal = {IEEE") {
		t.Errorf("entry should not carry the literal journal name, got:\n%s", result.Output)
	}
}

func TestConvert_Idempotent(t *testing.T) {
	opts := bib.DefaultOptions()
	opts.StringDefs = true
	doc := document(
		record(smithRecord+`<periodical><full-title>Journal A</full-title></periodical>`),
		record(`<titles><title>Second Paper</title></titles><author>Doe, Jane</author>
			<dates><year>2020</year></dates><publisher>ACM Press</publisher>`),
	)

	first := New(opts, WithClock(fixedClock())).Convert(context.Background(), doc, nil)
	second := New(opts, WithClock(fixedClock())).Convert(context.Background(), doc, nil)

	if first.Output != second.Output {
		t.Errorf("output not idempotent:\n--- first ---\n%s\n--- second ---\n%s", first.Output, second.Output)
	}
}

func TestConvert_MalformedXML(t *testing.T) {
	c := New(bib.DefaultOptions(), WithClock(fixedClock()))
	result := c.Convert(context.Background(), "<records><record></records>", nil)

	if result.EntryCount != 0 {
		t.Errorf("EntryCount = %d, want 0", result.EntryCount)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one parse error", result.Warnings)
	}
}

func TestConvert_NoRecordsFound(t *testing.T) {
	c := New(bib.DefaultOptions(), WithClock(fixedClock()))
	result := c.Convert(context.Background(), "<doc><meta>nothing</meta></doc>", nil)

	if result.EntryCount != 0 {
		t.Errorf("EntryCount = %d, want 0", result.EntryCount)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "no records found") {
		t.Errorf("warnings = %v, want a no-records diagnostic", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "<doc>") {
		t.Errorf("diagnostic should describe the structure, got: %v", result.Warnings[0])
	}
}

func TestConvert_SkipsRecordWithoutTitleOrAuthor(t *testing.T) {
	doc := document(
		record(`<volume>42</volume>`), // no title, no author
		record(smithRecord),
	)

	c := New(bib.DefaultOptions(), WithClock(fixedClock()))
	result := c.Convert(context.Background(), doc, nil)

	if result.EntryCount != 1 {
		t.Errorf("EntryCount = %d, want 1 (bad record skipped)", result.EntryCount)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "record 1") {
		t.Errorf("warnings = %v, want one naming record 1", result.Warnings)
	}
}

func TestConvert_Cancellation(t *testing.T) {
	doc := document(record(smithRecord), record(smithRecord), record(smithRecord))

	calls := 0
	progress := func(current, total int, _ string) bool {
		calls++
		return current <= 2 // cancel before the third record
	}

	c := New(bib.DefaultOptions(), WithClock(fixedClock()))
	result := c.Convert(context.Background(), doc, progress)

	if !result.Cancelled {
		t.Error("result should be marked cancelled")
	}
	if result.EntryCount != 2 {
		t.Errorf("EntryCount = %d, want the 2 entries produced before cancellation", result.EntryCount)
	}
	if calls != 3 {
		t.Errorf("progress calls = %d, want 3", calls)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "cancelled") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want a cancellation note", result.Warnings)
	}
}

func TestConvert_ProceedingsVenueMovesToBooktitle(t *testing.T) {
	doc := document(record(`
		<ref-type name="Conference Proceedings">10</ref-type>
		<titles>
			<title>On Testing</title>
			<secondary-title>International Symposium on Examples</secondary-title>
		</titles>
		<author>Doe, Jane</author>
		<dates><year>2021</year></dates>`))

	c := New(bib.DefaultOptions(), WithClock(fixedClock()))
	result := c.Convert(context.Background(), doc, nil)

	if result.EntryCount != 1 {
		t.Fatalf("EntryCount = %d, want 1 (warnings: %v)", result.EntryCount, result.Warnings)
	}
	entry := result.Entries[0]
	if !strings.HasPrefix(entry, "@inproceedings{") {
		t.Errorf("entry type wrong:\n%s", entry)
	}
	if !strings.Contains(entry, "booktitle = {International Symposium on Examples}") {
		t.Errorf("venue should emit as booktitle:\n%s", entry)
	}
	if strings.Contains(entry, "journal = ") {
		t.Errorf("journal should be cleared:\n%s", entry)
	}
}

func TestConvert_ProceedingsVenueNotRegisteredAsJournal(t *testing.T) {
	opts := bib.DefaultOptions()
	opts.StringDefs = true
	doc := document(record(`
		<ref-type name="Conference Proceedings">10</ref-type>
		<titles>
			<title>On Testing</title>
			<secondary-title>International Symposium on Examples</secondary-title>
		</titles>
		<author>Doe, Jane</author>
		<dates><year>2021</year></dates>`))

	c := New(opts, WithClock(fixedClock()))
	result := c.Convert(context.Background(), doc, nil)

	if result.EntryCount != 1 {
		t.Fatalf("EntryCount = %d, want 1 (warnings: %v)", result.EntryCount, result.Warnings)
	}
	if strings.Contains(result.Output, "@string{") {
		t.Errorf("a venue moved to booktitle must not leave a definition behind:\n%s", result.Output)
	}
	if !strings.Contains(result.Output, "booktitle = {International Symposium on Examples}") {
		t.Errorf("booktitle should emit the literal venue:\n%s", result.Output)
	}
}

// stubProvider lets converter tests exercise the enhancement path without
// network access.
type stubProvider struct {
	candidates []enhance.Candidate
}

func (s stubProvider) Name() string { return "Stub" }

func (s stubProvider) Search(context.Context, enhance.Query) ([]enhance.Candidate, error) {
	return s.candidates, nil
}

func TestConvert_EnhancementMerge(t *testing.T) {
	opts := bib.DefaultOptions()
	opts.Enhance = true
	opts.IncludeNotes = true

	pipeline := enhance.NewPipeline(enhance.NewLimiter(0), time.Second, stubProvider{
		candidates: []enhance.Candidate{{
			Title:         "A Study of Things",
			Authors:       []string{"John Smith"},
			Year:          2023,
			DOI:           "10.1000/xyz",
			CitationCount: 9,
		}},
	})

	c := New(opts, WithClock(fixedClock()), WithPipeline(pipeline))
	result := c.Convert(context.Background(), document(record(smithRecord)), nil)

	if result.EntryCount != 1 {
		t.Fatalf("EntryCount = %d, want 1 (warnings: %v)", result.EntryCount, result.Warnings)
	}
	entry := result.Entries[0]
	if !strings.Contains(entry, "doi = {10.1000/xyz}") {
		t.Errorf("DOI should be filled by enhancement:\n%s", entry)
	}
	if !strings.Contains(entry, "Metadata from Stub (9 citations)") {
		t.Errorf("provenance note missing:\n%s", entry)
	}
}

func TestConvert_HeaderStatistics(t *testing.T) {
	c := New(bib.DefaultOptions(), WithClock(fixedClock()))
	result := c.Convert(context.Background(), document(record(smithRecord)), nil)

	if !strings.Contains(result.Output, "% Generated by en2bib on 2026-01-02T03:04:05Z") {
		t.Errorf("header missing timestamp:\n%s", result.Output)
	}
	if !strings.Contains(result.Output, "% Entries: 1, warnings: 0") {
		t.Errorf("header missing counts:\n%s", result.Output)
	}
	if !strings.Contains(result.Output, "Style: standard") {
		t.Errorf("header missing options:\n%s", result.Output)
	}
}
