package strdefs

import "strings"

// categoryRule classifies a venue or publisher name by keyword. Rules are
// evaluated in order; the first hit wins, "Other" is the default.
type categoryRule struct {
	category string
	keywords []string
}

var categoryRules = []categoryRule{
	{"ACM", []string{"acm", "association for computing machinery"}},
	{"IEEE", []string{"ieee", "institute of electrical"}},
	{"SIAM", []string{"siam", "society for industrial and applied"}},
	{"Springer", []string{"springer", "lecture notes in"}},
	{"Elsevier", []string{"elsevier", "north-holland"}},
	{"Wiley", []string{"wiley", "blackwell"}},
	{"Nature", []string{"nature"}},
	{"Conferences", []string{"proceedings", "conference", "symposium", "workshop", "congress"}},
	{"University Presses", []string{"university press", "academic press", "mit press"}},
}

const categoryOther = "Other"

// Categorize classifies a journal or publisher name. Matching is
// case-insensitive substring matching in rule order.
func Categorize(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return categoryOther
}

// categoryOrder returns the rendering order for definition groups.
func categoryOrder() []string {
	order := make([]string, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		order = append(order, rule.category)
	}
	return append(order, categoryOther)
}
