// Package suggest maintains the autocomplete vocabulary for item names: a
// fixed built-in list merged with names learned from the user, deduplicated
// case-insensitively.
package suggest

import (
	_ "embed"
	"sort"
	"strings"
	"sync"
)

//go:embed vocabulary.txt
var vocabulary string

// minLearnLength is the shortest item name worth remembering.
const minLearnLength = 2

// StaticVocabulary returns the built-in suggestion list in shipped order.
func StaticVocabulary() []string {
	lines := strings.Split(strings.TrimSpace(vocabulary), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// PersistFunc saves the learned list. It receives the full, sorted learned
// vocabulary on every change.
type PersistFunc func(learned []string) error

// Engine merges the static and learned vocabularies.
type Engine struct {
	mu      sync.Mutex
	static  []string
	learned []string
	persist PersistFunc
}

// New creates an engine over the given static list and previously learned
// names. persist may be nil for a purely in-memory engine.
func New(static, learned []string, persist PersistFunc) *Engine {
	e := &Engine{
		static:  static,
		learned: append([]string(nil), learned...),
		persist: persist,
	}
	sort.Strings(e.learned)
	return e
}

// Learn remembers name for future autocomplete. Names shorter than two
// characters or already known (case-insensitively, in either list) are
// ignored. The learned list stays sorted and is persisted on change.
func (e *Engine) Learn(name string) error {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < minLearnLength {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	lower := strings.ToLower(name)
	for _, s := range e.static {
		if strings.ToLower(s) == lower {
			return nil
		}
	}
	for _, s := range e.learned {
		if strings.ToLower(s) == lower {
			return nil
		}
	}

	e.learned = append(e.learned, name)
	sort.Strings(e.learned)

	if e.persist == nil {
		return nil
	}
	return e.persist(append([]string(nil), e.learned...))
}

// Learned returns a copy of the learned vocabulary.
func (e *Engine) Learned() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.learned...)
}

// All returns the case-insensitively deduplicated union of the static and
// learned lists, sorted ascending.
func (e *Engine) All() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	seen := make(map[string]bool)
	var out []string
	for _, s := range e.union() {
		lower := strings.ToLower(s)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// MatchPrefix returns every suggestion whose lowercase form starts with the
// lowercase query. Callers truncate to their own display limit.
func (e *Engine) MatchPrefix(query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var out []string
	for _, s := range e.All() {
		if strings.HasPrefix(strings.ToLower(s), query) {
			out = append(out, s)
		}
	}
	return out
}

// Canonical returns the stored casing for name if a case-insensitive match
// exists in the vocabulary; the static list wins over the learned list.
// Unknown names are returned unchanged.
func (e *Engine) Canonical(name string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	lower := strings.ToLower(name)
	for _, s := range e.union() {
		if strings.ToLower(s) == lower {
			return s
		}
	}
	return name
}

// union returns static entries first, then the sorted learned entries.
// Callers must hold e.mu.
func (e *Engine) union() []string {
	out := make([]string, 0, len(e.static)+len(e.learned))
	out = append(out, e.static...)
	out = append(out, e.learned...)
	return out
}
