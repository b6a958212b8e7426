package catalog

import (
	"testing"
)

func filterStore() *Store {
	s := NewStore()
	s.Replace(sampleSnapshot())
	return s
}

func names(g Group) []string {
	out := make([]string, len(g.Entries))
	for i, e := range g.Entries {
		out[i] = e.Name
	}
	return out
}

func TestVisible_NoFilterShowsAll(t *testing.T) {
	groups := Visible(filterStore(), "", NewCategorySet())

	// Categories ascending lexicographic.
	wantCategories := []string{"general", "network", "web_security"}
	if len(groups) != len(wantCategories) {
		t.Fatalf("got %d groups, want %d", len(groups), len(wantCategories))
	}
	for i, want := range wantCategories {
		if groups[i].Category != want {
			t.Errorf("groups[%d].Category = %q, want %q", i, groups[i].Category, want)
		}
	}

	// Catalog order within a category, not name order.
	ws := groups[2]
	got := names(ws)
	if got[0] != "nuclei" || got[1] != "whatweb" {
		t.Errorf("web_security order = %v, want [nuclei whatweb]", got)
	}
}

func TestVisible_SearchMatchesNameOrDescription(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"name match case-insensitive", "NMAP", []string{"nmap"}},
		{"description match", "templates", []string{"nuclei"}},
		{"shared description word", "scanner", []string{"nmap", "nuclei", "whatweb"}},
		{"no match", "quantum", nil},
		{"whitespace only is no filter", "   ", []string{"nmap", "nuclei", "strings", "whatweb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := Visible(filterStore(), tt.search, NewCategorySet())

			var got []string
			for _, g := range groups {
				got = append(got, names(g)...)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("visible = %v, want %v", got, tt.want)
			}
			seen := make(map[string]bool)
			for _, n := range got {
				seen[n] = true
			}
			for _, n := range tt.want {
				if !seen[n] {
					t.Errorf("missing %q in %v", n, got)
				}
			}
		})
	}
}

func TestVisible_EmptyResultIsEmptyState(t *testing.T) {
	groups := Visible(filterStore(), "no-such-tool", NewCategorySet())
	if len(groups) != 0 {
		t.Errorf("expected empty result, got %v", groups)
	}
}

func TestVisible_CategoryMembership(t *testing.T) {
	active := NewCategorySet()
	active.Toggle("network")

	groups := Visible(filterStore(), "", active)
	if len(groups) != 1 || groups[0].Category != "network" {
		t.Fatalf("groups = %v, want single network group", groups)
	}

	// Uncategorized tools belong to "general" and are selectable.
	active = NewCategorySet()
	active.Toggle(GeneralCategory)
	groups = Visible(filterStore(), "", active)
	if len(groups) != 1 || groups[0].Entries[0].Name != "strings" {
		t.Fatalf("general filter = %v, want [strings]", groups)
	}
}

func TestVisible_CategoryIsCaseSensitive(t *testing.T) {
	active := NewCategorySet()
	active.Toggle("Network") // catalog has "network"

	if groups := Visible(filterStore(), "", active); len(groups) != 0 {
		t.Errorf("case-sensitive comparison violated: %v", groups)
	}
}

func TestVisible_SearchAndCategoryCombine(t *testing.T) {
	active := NewCategorySet()
	active.Toggle("web_security")

	groups := Visible(filterStore(), "scanner", active)
	if len(groups) != 1 {
		t.Fatalf("groups = %v, want 1 group", groups)
	}
	got := names(groups[0])
	if len(got) != 2 || got[0] != "nuclei" || got[1] != "whatweb" {
		t.Errorf("visible = %v, want [nuclei whatweb]", got)
	}
}

func TestCategorySet_Toggle(t *testing.T) {
	cs := NewCategorySet()
	if !cs.Empty() {
		t.Fatal("new set should be empty")
	}

	cs.Toggle("recon")
	if !cs.Has("recon") || cs.Empty() {
		t.Error("Toggle on failed")
	}

	cs.Toggle("recon")
	if cs.Has("recon") || !cs.Empty() {
		t.Error("Toggle off failed")
	}
}
