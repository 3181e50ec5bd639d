package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scholarlabs/en2bib/internal/bib"
	"github.com/scholarlabs/en2bib/internal/latex"
	"github.com/scholarlabs/en2bib/internal/strdefs"
)

// Formatter renders entries for one conversion run. LaTeX escaping happens
// here, at emission time, so string-definition references are never escaped.
type Formatter struct {
	profile Profile
	opts    bib.Options
	reg     *strdefs.Registry // nil when string definitions are disabled
}

// NewFormatter builds a Formatter from the run's options. reg may be nil.
func NewFormatter(opts bib.Options, reg *strdefs.Registry) *Formatter {
	p := Lookup(opts.Style)
	if opts.BiblatexFields && p.Renames == nil {
		biblatex := Lookup("biblatex")
		p.Renames = biblatex.Renames
		p.SplitPageRange = biblatex.SplitPageRange
	}
	return &Formatter{profile: p, opts: opts, reg: reg}
}

// field is one emitted field: its output name, value, and whether the value
// is a bare string-definition reference (emitted unbraced and unescaped).
type field struct {
	name  string
	value string
	ref   bool
}

// Verbatim fields whose values must not be LaTeX-escaped; escaping a DOI or
// URL corrupts it.
var verbatimFields = map[string]bool{
	bib.FieldDOI: true,
	bib.FieldURL: true,
}

// Format renders one entry as BibTeX text. The final field carries no
// trailing comma.
func (f *Formatter) Format(e bib.Entry) string {
	fields := f.orderedFields(e.Fields)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("@%s{%s", e.Type, e.CiteKey))
	for _, fl := range fields {
		b.WriteString(",\n")
		if fl.ref {
			b.WriteString(fmt.Sprintf("  %s = %s", fl.name, fl.value))
		} else {
			b.WriteString(fmt.Sprintf("  %s = {%s}", fl.name, fl.value))
		}
	}
	b.WriteString("\n}")
	return b.String()
}

// orderedFields applies option filtering, style transforms, renames, and
// the profile's emission order.
func (f *Formatter) orderedFields(fs bib.FieldSet) []field {
	emitted := make(map[string]bool)
	var out []field

	emit := func(name string) {
		if emitted[name] || !fs.Has(name) {
			return
		}
		emitted[name] = true
		if !f.includeField(name) {
			return
		}
		out = append(out, f.renderField(name, fs.Get(name))...)
	}

	for _, name := range f.profile.FieldOrder {
		emit(name)
	}

	// Remaining fields (custom ones, mostly) in alphabetical order.
	rest := make([]string, 0, len(fs))
	for name := range fs {
		if !emitted[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		emit(name)
	}
	return out
}

// includeField applies the optional-field switches.
func (f *Formatter) includeField(name string) bool {
	switch name {
	case bib.FieldAbstract:
		return f.opts.IncludeAbstract
	case bib.FieldKeywords:
		return f.opts.IncludeKeywords
	case bib.FieldNote:
		return f.opts.IncludeNotes
	default:
		return true
	}
}

// renderField produces the emitted field(s) for one logical field: registry
// substitution, venue prefixing, page splitting, renaming, escaping.
func (f *Formatter) renderField(name, value string) []field {
	// String-definition references take priority and stay literal.
	if f.reg != nil {
		if name == bib.FieldJournal {
			if key, ok := f.reg.JournalKey(value); ok {
				return []field{{name: f.rename(name), value: key, ref: true}}
			}
		}
		if name == bib.FieldPublisher {
			if key, ok := f.reg.PublisherKey(value); ok {
				return []field{{name: f.rename(name), value: key, ref: true}}
			}
		}
	}

	if name == bib.FieldBooktitle && f.profile.VenuePrefix != "" {
		lower := strings.ToLower(value)
		if !strings.HasPrefix(lower, "proc") {
			value = f.profile.VenuePrefix + value
		}
	}

	if name == bib.FieldPages && f.profile.SplitPageRange {
		if start, end, ok := strings.Cut(value, "--"); ok {
			return []field{
				{name: "startpage", value: f.escape(name, start)},
				{name: "endpage", value: f.escape(name, end)},
			}
		}
	}

	return []field{{name: f.rename(name), value: f.escape(name, value)}}
}

func (f *Formatter) rename(name string) string {
	if renamed, ok := f.profile.Renames[name]; ok {
		return renamed
	}
	return name
}

func (f *Formatter) escape(name, value string) string {
	if !f.opts.EscapeLatex || verbatimFields[name] {
		return value
	}
	return latex.Escape(value)
}
