// Package strdefs collects journal and publisher names observed during one
// conversion run and renders them as a BibTeX @string definitions block.
package strdefs

import (
	"fmt"
	"sort"
	"strings"
)

// Key length limits. Truncation can collide for long names; collisions are
// accepted and the first observed display name wins.
const (
	journalKeyMaxLen   = 20
	publisherKeyMaxLen = 15
)

// Def is one interned name: a generated key, the literal display name, and
// the category it was classified into.
type Def struct {
	Key         string
	DisplayName string
	Category    string

	seq int // observation order within the run
}

// Registry interns journal and publisher names for one conversion run. It
// is constructed per run and never shared across runs.
type Registry struct {
	journals   map[string]Def // literal name -> def
	publishers map[string]Def
	nextSeq    int
}

// NewRegistry returns an empty per-run registry.
func NewRegistry() *Registry {
	return &Registry{
		journals:   make(map[string]Def),
		publishers: make(map[string]Def),
	}
}

// AddJournal interns a journal name and returns its key.
func (r *Registry) AddJournal(name string) string {
	return r.intern(r.journals, name, journalKeyMaxLen)
}

// AddPublisher interns a publisher name and returns its key.
func (r *Registry) AddPublisher(name string) string {
	return r.intern(r.publishers, name, publisherKeyMaxLen)
}

// JournalKey returns the key for an exactly matching registered journal name.
func (r *Registry) JournalKey(name string) (string, bool) {
	def, ok := r.journals[name]
	return def.Key, ok
}

// PublisherKey returns the key for an exactly matching registered publisher name.
func (r *Registry) PublisherKey(name string) (string, bool) {
	def, ok := r.publishers[name]
	return def.Key, ok
}

// Empty reports whether nothing has been registered.
func (r *Registry) Empty() bool {
	return len(r.journals) == 0 && len(r.publishers) == 0
}

func (r *Registry) intern(m map[string]Def, name string, maxLen int) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if def, ok := m[name]; ok {
		return def.Key
	}
	r.nextSeq++
	m[name] = Def{
		Key:         deriveKey(name, maxLen),
		DisplayName: name,
		Category:    Categorize(name),
		seq:         r.nextSeq,
	}
	return m[name].Key
}

// deriveKey lowercases the name, strips non-alphanumerics, and truncates.
// A name with no usable characters gets a stable numeric placeholder.
func deriveKey(name string, maxLen int) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	key := b.String()
	if key == "" {
		key = fmt.Sprintf("str%d", len(name))
	}
	if len(key) > maxLen {
		key = key[:maxLen]
	}
	return key
}

// Render writes the @string definitions block, grouped by category in the
// classification table's order, keys sorted within each group. Returns ""
// when the registry is empty.
func (r *Registry) Render() string {
	if r.Empty() {
		return ""
	}

	// Truncation collisions render once; the earliest observed name wins.
	byKey := make(map[string]Def)
	for _, m := range []map[string]Def{r.journals, r.publishers} {
		for _, def := range m {
			if prev, ok := byKey[def.Key]; ok && prev.seq <= def.seq {
				continue
			}
			byKey[def.Key] = def
		}
	}
	byCategory := make(map[string][]Def)
	for _, def := range byKey {
		byCategory[def.Category] = append(byCategory[def.Category], def)
	}

	var b strings.Builder
	b.WriteString("% String definitions\n")
	for _, cat := range categoryOrder() {
		defs := byCategory[cat]
		if len(defs) == 0 {
			continue
		}
		sort.Slice(defs, func(i, j int) bool { return defs[i].Key < defs[j].Key })
		b.WriteString(fmt.Sprintf("%% %s\n", cat))
		for _, def := range defs {
			b.WriteString(fmt.Sprintf("@string{%s = {%s}}\n", def.Key, def.DisplayName))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
