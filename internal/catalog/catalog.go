// Package catalog holds the client-side view of the installed tool
// catalog and the pure filtering logic over it.
//
// The backend is the single source of truth: the store only ever
// reflects the latest full snapshot returned by a list/install/remove
// call. There is no partial merge and no per-tool mutation API; a
// partial client-side merge could show stale entries after a remove.
//
// All mutation happens on the Bubble Tea update loop, so the store
// needs no locking. That is a design property, not an accident: no
// background refresh timers, no multi-writer access.
package catalog

import (
	"sort"
)

// GeneralCategory is the logical category for tools without one.
const GeneralCategory = "general"

// Tool describes one installed tool as reported by the backend.
// Field names mirror the wire format.
type Tool struct {
	Description     string   `json:"description,omitempty"`
	Category        string   `json:"category,omitempty"`
	Path            string   `json:"path"`
	VenvPath        string   `json:"venv_path,omitempty"`
	GitRepo         string   `json:"git_repo,omitempty"`
	InstallCommands []string `json:"install_commands,omitempty"`
	Example         string   `json:"example,omitempty"`
}

// EffectiveCategory returns the tool's category, defaulting to
// GeneralCategory when absent.
func (t Tool) EffectiveCategory() string {
	if t.Category == "" {
		return GeneralCategory
	}
	return t.Category
}

// Entry pairs a tool with its unique name. The snapshot is ordered:
// iteration order is the order the backend listed the tools in, and
// filtering preserves it within a category.
type Entry struct {
	Name string
	Tool Tool
}

// Store holds the current catalog snapshot and derived facts.
type Store struct {
	entries    []Entry
	byName     map[string]Tool
	categories []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byName: make(map[string]Tool)}
}

// Replace installs a new snapshot wholesale, discarding the previous
// one, and recomputes the distinct category set. Entries with a
// duplicate name keep the first occurrence.
func (s *Store) Replace(snapshot []Entry) {
	s.entries = make([]Entry, 0, len(snapshot))
	s.byName = make(map[string]Tool, len(snapshot))

	for _, e := range snapshot {
		if _, exists := s.byName[e.Name]; exists {
			continue
		}
		s.byName[e.Name] = e.Tool
		s.entries = append(s.entries, e)
	}

	seen := make(map[string]struct{})
	s.categories = s.categories[:0]
	for _, e := range s.entries {
		c := e.Tool.EffectiveCategory()
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		s.categories = append(s.categories, c)
	}
	sort.Strings(s.categories)
}

// Len reports the number of tools in the snapshot.
func (s *Store) Len() int {
	return len(s.entries)
}

// Get returns the tool with the given name.
func (s *Store) Get(name string) (Tool, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// Entries returns a copy of the snapshot in catalog order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Categories returns the distinct category set of the current
// snapshot, ascending lexicographic.
func (s *Store) Categories() []string {
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}
