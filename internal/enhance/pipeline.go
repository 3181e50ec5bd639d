package enhance

import (
	"context"
	"fmt"
	"time"

	"github.com/scholarlabs/en2bib/internal/bib"
)

// Pipeline runs rate-limited provider queries for one conversion run.
// Providers are tried in order; the first accepted match wins and no
// cross-provider field merging happens.
type Pipeline struct {
	providers []Provider
	limiter   *Limiter
	timeout   time.Duration
}

// NewPipeline builds a pipeline. All provider calls share the limiter, so
// requests are serialized across records and providers.
func NewPipeline(limiter *Limiter, timeout time.Duration, providers ...Provider) *Pipeline {
	if timeout <= 0 {
		timeout = bib.DefaultAPITimeout
	}
	return &Pipeline{providers: providers, limiter: limiter, timeout: timeout}
}

// Enhance queries providers for the record's fields and returns a merged
// copy. Provider failures are returned as warnings, never as errors: the
// pipeline's resilience is trying the next provider, not retrying.
func (p *Pipeline) Enhance(ctx context.Context, fields bib.FieldSet) (bib.FieldSet, []string) {
	q := QueryFromFields(fields)
	if q.Title == "" && q.FirstAuthor == "" {
		return fields, nil
	}

	var warnings []string
	for _, provider := range p.providers {
		if err := p.limiter.Acquire(ctx); err != nil {
			warnings = append(warnings, fmt.Sprintf("enhancement aborted: %v", err))
			return fields, warnings
		}

		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		candidates, err := provider.Search(callCtx, q)
		cancel()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", provider.Name(), err))
			continue
		}
		if len(candidates) == 0 {
			continue
		}

		best, _, ok := bestMatch(q, candidates)
		if !ok {
			// Below threshold: treated as no match, fall through.
			continue
		}
		return merge(fields, best, provider.Name()), warnings
	}
	return fields, warnings
}

// merge fills empty fields from the candidate. DOI and abstract may always
// fill an empty slot; populated fields are never overwritten. Provenance is
// appended to the note field rather than replacing it.
func merge(fields bib.FieldSet, c Candidate, providerName string) bib.FieldSet {
	out := fields.Clone()

	fill := func(name, value string) {
		if !out.Has(name) && value != "" {
			out.Set(name, value)
		}
	}

	fill(bib.FieldDOI, c.DOI)
	fill(bib.FieldAbstract, c.Abstract)
	fill(bib.FieldURL, c.URL)
	fill(bib.FieldJournal, c.Venue)
	if c.Year > 0 {
		fill(bib.FieldYear, fmt.Sprint(c.Year))
	}

	provenance := fmt.Sprintf("Metadata from %s", providerName)
	if c.CitationCount > 0 {
		provenance = fmt.Sprintf("Metadata from %s (%d citations)", providerName, c.CitationCount)
	}
	if note := out.Get(bib.FieldNote); note != "" {
		out.Set(bib.FieldNote, note+"; "+provenance)
	} else {
		out.Set(bib.FieldNote, provenance)
	}
	return out
}
