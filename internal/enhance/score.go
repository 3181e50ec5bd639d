package enhance

import "strings"

// Score weights per the matching policy: title dominates, authors help,
// year closeness breaks near-ties.
const (
	titleWeight  = 0.6
	authorWeight = 0.3
	yearWeight   = 0.1

	// acceptThreshold is strict: a candidate scoring exactly 0.7 is rejected.
	// The epsilon absorbs float64 rounding (0.6+0.1 is slightly above 0.7).
	acceptThreshold = 0.7
	scoreEpsilon    = 1e-9
)

// Score computes the weighted match score of a candidate against a query,
// in [0,1].
func Score(q Query, c Candidate) float64 {
	score := titleWeight * tokenSetRatio(q.Title, c.Title)
	score += authorWeight * tokenSetRatio(q.Authors, strings.Join(c.Authors, " "))
	if q.Year > 0 && c.Year > 0 {
		diff := q.Year - c.Year
		if diff < 0 {
			diff = -diff
		}
		if diff <= 1 {
			score += yearWeight
		}
	}
	return score
}

// bestMatch returns the highest-scoring candidate and whether it clears the
// acceptance threshold.
func bestMatch(q Query, candidates []Candidate) (Candidate, float64, bool) {
	var best Candidate
	bestScore := -1.0
	for _, c := range candidates {
		if s := Score(q, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, bestScore, bestScore > acceptThreshold+scoreEpsilon
}

// tokenSetRatio is the intersection-over-union of the whitespace-split
// lowercase token sets of two strings.
func tokenSetRatio(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		// Strip trailing punctuation so "things." matches "things".
		tok = strings.Trim(tok, ".,;:!?()[]{}\"'")
		if tok != "" {
			set[tok] = true
		}
	}
	return set
}
