package bib

import "time"

// Default tunables for the enhancement pipeline.
const (
	DefaultAPITimeout = 10 * time.Second
	DefaultAPIDelay   = 1 * time.Second
)

// Options is the immutable configuration for one conversion run.
type Options struct {
	Style            string   // standard, acm, ieee, apa, harvard, chicago, biblatex
	EscapeLatex      bool     // Apply LaTeX escaping to field values at emission
	StringDefs       bool     // Emit @string definitions for journals/publishers
	BiblatexFields   bool     // Use BibLaTeX field names (journaltitle, date, ...)
	Enhance          bool     // Query external metadata providers
	IncludeAbstract  bool     // Emit the abstract field
	IncludeKeywords  bool     // Emit the keywords field
	IncludeNotes     bool     // Emit the note field
	CustomFields     []string // Extra field names to extract verbatim
	APITimeout       time.Duration
	APIDelay         time.Duration
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Style:       "standard",
		EscapeLatex: true,
		APITimeout:  DefaultAPITimeout,
		APIDelay:    DefaultAPIDelay,
	}
}

// Result is the outcome of one conversion run.
type Result struct {
	Output         string   // Full BibTeX/BibLaTeX text
	Entries        []string // Individual formatted entries, in record order
	Warnings       []string // Non-fatal problems, in occurrence order
	EntryCount     int
	Cancelled      bool
	ProcessingTime time.Duration
}
