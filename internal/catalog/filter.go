package catalog

import (
	"sort"
	"strings"
)

// CategorySet is the set of category labels currently active as a
// filter. An empty set means "no filter, show all". Membership only;
// order is irrelevant.
type CategorySet map[string]struct{}

// NewCategorySet returns an empty set.
func NewCategorySet() CategorySet {
	return make(CategorySet)
}

// Toggle flips membership of the given category.
func (cs CategorySet) Toggle(category string) {
	if _, ok := cs[category]; ok {
		delete(cs, category)
	} else {
		cs[category] = struct{}{}
	}
}

// Has reports whether the category is active.
func (cs CategorySet) Has(category string) bool {
	_, ok := cs[category]
	return ok
}

// Empty reports whether no filter is active.
func (cs CategorySet) Empty() bool {
	return len(cs) == 0
}

// Clear removes every active category.
func (cs CategorySet) Clear() {
	for category := range cs {
		delete(cs, category)
	}
}

// Group is one category worth of visible tools.
type Group struct {
	Category string
	Entries  []Entry
}

// Visible returns the tools matching the search text and active
// category set, grouped by category.
//
// A tool is visible iff (the search text is empty OR the lowercased
// name or description contains the lowercased search text) AND (the
// active set is empty OR the tool's category is a member). Category
// comparison is exact-string, case-sensitive.
//
// Groups are ordered by category ascending lexicographic; within a
// group, tools keep catalog order. Zero visible tools returns an
// empty slice, which callers render as an explicit empty state.
func Visible(store *Store, searchText string, active CategorySet) []Group {
	search := strings.ToLower(strings.TrimSpace(searchText))

	grouped := make(map[string][]Entry)
	var order []string

	for _, e := range store.Entries() {
		if search != "" {
			name := strings.ToLower(e.Name)
			desc := strings.ToLower(e.Tool.Description)
			if !strings.Contains(name, search) && !strings.Contains(desc, search) {
				continue
			}
		}

		category := e.Tool.EffectiveCategory()
		if !active.Empty() && !active.Has(category) {
			continue
		}

		if _, ok := grouped[category]; !ok {
			order = append(order, category)
		}
		grouped[category] = append(grouped[category], e)
	}

	sort.Strings(order)

	groups := make([]Group, 0, len(order))
	for _, category := range order {
		groups = append(groups, Group{Category: category, Entries: grouped[category]})
	}
	return groups
}
