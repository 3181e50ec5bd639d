// Package convert orchestrates a conversion run: locating records,
// extracting and classifying them, optional external enhancement, and
// assembling the final BibTeX output.
package convert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scholarlabs/en2bib/internal/bib"
	"github.com/scholarlabs/en2bib/internal/enhance"
	"github.com/scholarlabs/en2bib/internal/extract"
	"github.com/scholarlabs/en2bib/internal/strdefs"
	"github.com/scholarlabs/en2bib/internal/style"
	"github.com/scholarlabs/en2bib/internal/xmltree"
)

// ProgressFunc is invoked between records with the 1-based current index,
// the total record count, and a short message. Returning false cancels the
// run; entries produced so far are kept.
type ProgressFunc func(current, total int, message string) bool

// Converter runs conversions with one fixed set of options.
type Converter struct {
	opts     bib.Options
	pipeline *enhance.Pipeline
	now      func() time.Time
}

// Option configures a Converter.
type Option func(*Converter)

// WithPipeline replaces the enhancement pipeline (for testing). Only used
// when the options enable enhancement.
func WithPipeline(p *enhance.Pipeline) Option {
	return func(c *Converter) { c.pipeline = p }
}

// WithClock replaces the timestamp source (for testing).
func WithClock(now func() time.Time) Option {
	return func(c *Converter) { c.now = now }
}

// New creates a Converter. When enhancement is enabled and no pipeline is
// injected, the default Semantic Scholar + CrossRef pipeline is built with
// the options' rate-limit delay and timeout.
func New(opts bib.Options, copts ...Option) *Converter {
	c := &Converter{opts: opts, now: time.Now}
	for _, o := range copts {
		o(c)
	}
	if opts.Enhance && c.pipeline == nil {
		c.pipeline = enhance.NewPipeline(
			enhance.NewLimiter(opts.APIDelay),
			opts.APITimeout,
			enhance.NewSemanticScholar(),
			enhance.NewCrossRef(),
		)
	}
	return c
}

// Convert runs one conversion over the given XML text. All per-record and
// per-provider problems are absorbed into the result's warnings; only the
// two document-level failures (unparseable XML, zero records) short-circuit,
// and even those return a result rather than an error.
func (c *Converter) Convert(ctx context.Context, xmlText string, progress ProgressFunc) bib.Result {
	start := c.now()
	result := bib.Result{}
	finish := func(registry *strdefs.Registry) bib.Result {
		result.EntryCount = len(result.Entries)
		result.ProcessingTime = c.now().Sub(start)
		result.Output = c.assemble(registry, result)
		return result
	}

	root, err := xmltree.Parse(strings.NewReader(xmlText))
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		return finish(nil)
	}

	records, _ := xmltree.LocateRecords(root)
	if len(records) == 0 {
		result.Warnings = append(result.Warnings,
			"no records found in document; structure:\n"+xmltree.DescribeStructure(root))
		return finish(nil)
	}

	extractor := extract.New(c.opts)

	var registry *strdefs.Registry
	if c.opts.StringDefs {
		registry = c.prescan(extractor, records)
	}
	formatter := style.NewFormatter(c.opts, registry)

	usedKeys := make(map[string]int)
	for i, rec := range records {
		if progress != nil && !progress(i+1, len(records), fmt.Sprintf("record %d of %d", i+1, len(records))) {
			result.Cancelled = true
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("run cancelled after %d of %d records", i, len(records)))
			break
		}

		fields, err := extractor.Extract(rec)
		if err != nil {
			result.Warnings = append(result.Warnings, describeSkip(i+1, rec, err))
			continue
		}

		entryType := extract.Classify(rec, fields)
		moveVenue(entryType, fields)

		key := uniqueKey(extract.CiteKey(fields, i+1), usedKeys)

		if c.pipeline != nil {
			var warnings []string
			fields, warnings = c.pipeline.Enhance(ctx, fields)
			result.Warnings = append(result.Warnings, warnings...)
		}

		result.Entries = append(result.Entries, formatter.Format(bib.Entry{
			CiteKey: key,
			Type:    entryType,
			Fields:  fields,
		}))
	}

	return finish(registry)
}

// moveVenue relocates a proceedings venue from the journal slot to
// booktitle; proceedings titles extract into journal but BibTeX wants them
// as booktitle.
func moveVenue(entryType bib.EntryType, fields bib.FieldSet) {
	if (entryType == bib.TypeInProceedings || entryType == bib.TypeProceedings) &&
		!fields.Has(bib.FieldBooktitle) && fields.Has(bib.FieldJournal) {
		fields.Set(bib.FieldBooktitle, fields.Get(bib.FieldJournal))
		fields.Set(bib.FieldJournal, "")
	}
}

// prescan registers every journal and publisher name across all records
// before any entry is formatted, so definitions exist for later references.
// The venue move runs here too, so a proceedings venue that only passes
// through the journal slot never leaves an unused definition behind.
func (c *Converter) prescan(extractor *extract.Extractor, records []*xmltree.Node) *strdefs.Registry {
	registry := strdefs.NewRegistry()
	for _, rec := range records {
		fields, err := extractor.Extract(rec)
		if err != nil {
			continue
		}
		moveVenue(extract.Classify(rec, fields), fields)
		if j := fields.Get(bib.FieldJournal); j != "" {
			registry.AddJournal(j)
		}
		if p := fields.Get(bib.FieldPublisher); p != "" {
			registry.AddPublisher(p)
		}
	}
	return registry
}

// uniqueKey disambiguates exact duplicate citation keys with _2, _3, ...
// suffixes; the first occurrence keeps the bare key.
func uniqueKey(key string, used map[string]int) string {
	used[key]++
	if used[key] == 1 {
		return key
	}
	for {
		candidate := fmt.Sprintf("%s_%d", key, used[key])
		if used[candidate] == 0 {
			used[candidate]++
			return candidate
		}
		used[key]++
	}
}

// describeSkip names a skipped record by ordinal and, when derivable, title.
func describeSkip(ordinal int, rec *xmltree.Node, err error) string {
	if title := rec.Find("title"); title != nil {
		if text := title.FullText(); text != "" {
			return fmt.Sprintf("record %d (%q): %v", ordinal, text, err)
		}
	}
	return fmt.Sprintf("record %d: %v", ordinal, err)
}

// assemble builds the final output text: statistics header, optional string
// definitions, then entries separated by blank lines.
func (c *Converter) assemble(registry *strdefs.Registry, result bib.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%% Generated by en2bib on %s\n", c.now().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("%% Entries: %d, warnings: %d\n", len(result.Entries), len(result.Warnings)))
	b.WriteString(fmt.Sprintf("%% Style: %s, escape LaTeX: %t, string definitions: %t, enhancement: %t\n",
		style.Lookup(c.opts.Style).Name, c.opts.EscapeLatex, c.opts.StringDefs, c.opts.Enhance))

	if registry != nil {
		if defs := registry.Render(); defs != "" {
			b.WriteString("\n")
			b.WriteString(defs)
			b.WriteString("\n")
		}
	}

	for _, entry := range result.Entries {
		b.WriteString("\n")
		b.WriteString(entry)
		b.WriteString("\n")
	}
	return b.String()
}
