// Package training builds labeled vulnerability write-up entries for
// submission to the model-training backend.
//
// Write-up links and CVE identifiers are collected with set semantics:
// duplicates are silently ignored, and validation happens at insertion
// time so a bad value never reaches the wire. The sets are rebuilt as
// ordered sequences only when the entry is built for submission.
package training

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrInvalidLink indicates a write-up link that does not start with "http".
	ErrInvalidLink = errors.New("invalid write-up link")

	// ErrInvalidCVE indicates an identifier that does not match CVE-\d{4}-\d{4,7}.
	ErrInvalidCVE = errors.New("invalid CVE identifier")

	// ErrMissingTitle indicates an entry built without a title.
	ErrMissingTitle = errors.New("missing title")

	// ErrMissingDescription indicates an entry built without a description.
	ErrMissingDescription = errors.New("missing description")
)

var cvePattern = regexp.MustCompile(`^CVE-\d{4}-\d{4,7}$`)

// Entry is the wire shape submitted to POST /api/admin/training-data.
type Entry struct {
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	WriteupLinks []string       `json:"writeup_links"`
	CVEs         []string       `json:"cves"`
	Metadata     map[string]any `json:"metadata"`
	Timestamp    string         `json:"timestamp"`
}

// Builder accumulates one training-data entry before submission.
// The zero value is not usable; call NewBuilder.
type Builder struct {
	title       string
	description string

	links     []string
	linkSet   map[string]struct{}
	cves      []string
	cveSet    map[string]struct{}
	metadata  map[string]any
	timestamp func() time.Time
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		linkSet:   make(map[string]struct{}),
		cveSet:    make(map[string]struct{}),
		metadata:  make(map[string]any),
		timestamp: time.Now,
	}
}

// SetTitle sets the entry title.
func (b *Builder) SetTitle(title string) {
	b.title = strings.TrimSpace(title)
}

// SetDescription sets the entry description.
func (b *Builder) SetDescription(description string) {
	b.description = strings.TrimSpace(description)
}

// AddLink validates and records a write-up link. Links must begin with
// "http". Adding a link twice is a no-op, not an error.
func (b *Builder) AddLink(raw string) error {
	link := strings.TrimSpace(raw)
	if link == "" || !strings.HasPrefix(link, "http") {
		return fmt.Errorf("%w: %q must start with http", ErrInvalidLink, raw)
	}

	if _, ok := b.linkSet[link]; ok {
		return nil
	}
	b.linkSet[link] = struct{}{}
	b.links = append(b.links, link)
	return nil
}

// RemoveLink drops a previously added link. Unknown links are ignored.
func (b *Builder) RemoveLink(link string) {
	if _, ok := b.linkSet[link]; !ok {
		return
	}
	delete(b.linkSet, link)
	for i, l := range b.links {
		if l == link {
			b.links = append(b.links[:i], b.links[i+1:]...)
			break
		}
	}
}

// AddCVE validates, uppercases, and records a CVE identifier.
// "cve-2023-1234" normalizes to "CVE-2023-1234". Duplicates after
// normalization are silently ignored.
func (b *Builder) AddCVE(raw string) error {
	cve := strings.ToUpper(strings.TrimSpace(raw))
	if !cvePattern.MatchString(cve) {
		return fmt.Errorf("%w: %q (expected e.g. CVE-2023-12345)", ErrInvalidCVE, raw)
	}

	if _, ok := b.cveSet[cve]; ok {
		return nil
	}
	b.cveSet[cve] = struct{}{}
	b.cves = append(b.cves, cve)
	return nil
}

// RemoveCVE drops a previously added identifier. Input is normalized
// the same way as AddCVE; unknown identifiers are ignored.
func (b *Builder) RemoveCVE(raw string) {
	cve := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := b.cveSet[cve]; !ok {
		return
	}
	delete(b.cveSet, cve)
	for i, c := range b.cves {
		if c == cve {
			b.cves = append(b.cves[:i], b.cves[i+1:]...)
			break
		}
	}
}

// SetMetadata records an arbitrary metadata key.
func (b *Builder) SetMetadata(key string, value any) {
	b.metadata[key] = value
}

// Links returns the collected links in insertion order.
func (b *Builder) Links() []string {
	out := make([]string, len(b.links))
	copy(out, b.links)
	return out
}

// CVEs returns the collected identifiers in insertion order.
func (b *Builder) CVEs() []string {
	out := make([]string, len(b.cves))
	copy(out, b.cves)
	return out
}

// Reset clears all collected state so the builder can be reused for
// the next entry.
func (b *Builder) Reset() {
	b.title = ""
	b.description = ""
	b.links = nil
	b.linkSet = make(map[string]struct{})
	b.cves = nil
	b.cveSet = make(map[string]struct{})
	b.metadata = make(map[string]any)
}

// Build materializes the entry for submission, stamping it with the
// current time in RFC 3339.
func (b *Builder) Build() (Entry, error) {
	if b.title == "" {
		return Entry{}, ErrMissingTitle
	}
	if b.description == "" {
		return Entry{}, ErrMissingDescription
	}

	return Entry{
		Title:        b.title,
		Description:  b.description,
		WriteupLinks: b.Links(),
		CVEs:         b.CVEs(),
		Metadata:     b.metadata,
		Timestamp:    b.timestamp().UTC().Format(time.RFC3339),
	}, nil
}
