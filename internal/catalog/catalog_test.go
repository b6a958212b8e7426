package catalog

import (
	"reflect"
	"testing"
)

func sampleSnapshot() []Entry {
	return []Entry{
		{Name: "nuclei", Tool: Tool{Description: "Vulnerability scanner using templates", Category: "web_security", Path: "/opt/tools/nuclei"}},
		{Name: "nmap", Tool: Tool{Description: "Network scanner for discovering hosts and services", Category: "network", Path: "/opt/tools/nmap"}},
		{Name: "whatweb", Tool: Tool{Description: "Next generation web scanner", Category: "web_security", Path: "/opt/tools/whatweb"}},
		{Name: "strings", Tool: Tool{Description: "Extract printable strings", Path: "/usr/bin/strings"}},
	}
}

func TestStore_Replace(t *testing.T) {
	s := NewStore()
	s.Replace(sampleSnapshot())

	if s.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", s.Len())
	}

	tool, ok := s.Get("nmap")
	if !ok {
		t.Fatal("Get(nmap) not found")
	}
	if tool.Category != "network" {
		t.Errorf("nmap category = %q, want network", tool.Category)
	}

	// Wholesale replacement: old entries must not survive.
	s.Replace([]Entry{{Name: "nikto", Tool: Tool{Category: "web_security", Path: "/opt/tools/nikto"}}})
	if s.Len() != 1 {
		t.Errorf("Len() after replace = %d, want 1", s.Len())
	}
	if _, ok := s.Get("nmap"); ok {
		t.Error("stale entry survived Replace")
	}
}

func TestStore_Replace_DuplicateNameKeepsFirst(t *testing.T) {
	s := NewStore()
	s.Replace([]Entry{
		{Name: "nmap", Tool: Tool{Description: "first"}},
		{Name: "nmap", Tool: Tool{Description: "second"}},
	})

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	tool, _ := s.Get("nmap")
	if tool.Description != "first" {
		t.Errorf("duplicate name kept %q, want first occurrence", tool.Description)
	}
}

func TestStore_Categories(t *testing.T) {
	s := NewStore()
	s.Replace(sampleSnapshot())

	want := []string{"general", "network", "web_security"}
	if got := s.Categories(); !reflect.DeepEqual(got, want) {
		t.Errorf("Categories() = %v, want %v", got, want)
	}

	// Recomputed on every replace.
	s.Replace(nil)
	if got := s.Categories(); len(got) != 0 {
		t.Errorf("Categories() after empty replace = %v, want empty", got)
	}
}

func TestStore_EntriesPreserveOrder(t *testing.T) {
	s := NewStore()
	s.Replace(sampleSnapshot())

	got := s.Entries()
	wantNames := []string{"nuclei", "nmap", "whatweb", "strings"}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Errorf("Entries()[%d] = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestEffectiveCategory(t *testing.T) {
	if got := (Tool{}).EffectiveCategory(); got != GeneralCategory {
		t.Errorf("EffectiveCategory() = %q, want %q", got, GeneralCategory)
	}
	if got := (Tool{Category: "recon"}).EffectiveCategory(); got != "recon" {
		t.Errorf("EffectiveCategory() = %q, want recon", got)
	}
}
