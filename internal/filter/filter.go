// Package filter implements the filter and sort pipeline over hackathon
// records.
//
// A Criteria value holds every user-controlled input: the status pill, the
// sort order, the free-text and location queries and the selected sources.
// Evaluate applies the stages in a fixed order and is a pure function of its
// arguments:
//
//  1. source filter
//  2. status filter
//  3. free-text search
//  4. location filter
//  5. stable sort
//
// Example usage:
//
//	c := filter.NewCriteria()
//	c.Status = filter.StatusUpcoming
//	c.Sort = filter.SortPrize
//	c.Search = "ai"
//
//	ordered := filter.Evaluate(records, c, time.Now())
package filter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/hackfind/internal/hackathon"
)

// StatusFilter selects records by lifecycle status or modality.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusUpcoming StatusFilter = "upcoming"
	StatusLive     StatusFilter = "live"
	StatusOnline   StatusFilter = "online"
	StatusInPerson StatusFilter = "in-person"
)

// SearchScope selects which fields the free-text query is matched against.
type SearchScope string

const (
	// ScopeStandard matches title, description and organizer.
	ScopeStandard SearchScope = "standard"
	// ScopeBroad matches title, description, location, source and tags.
	ScopeBroad SearchScope = "broad"
)

// Criteria represents the filter and sort state of a session.
type Criteria struct {
	Status   StatusFilter `json:"status"`
	Sort     SortOrder    `json:"sort"`
	Search   string       `json:"search,omitempty"`
	Scope    SearchScope  `json:"scope"`
	Location string       `json:"location,omitempty"`

	// Sources is the selected source set. Empty, or a superset of
	// KnownSources, means no source filtering.
	Sources map[string]bool `json:"sources,omitempty"`

	// KnownSources is every source present in the data set.
	KnownSources []string `json:"-"`
}

// NewCriteria creates criteria that match every record, sorted by relevance.
func NewCriteria() Criteria {
	return Criteria{
		Status:  StatusAll,
		Sort:    SortRelevance,
		Scope:   ScopeStandard,
		Sources: map[string]bool{},
	}
}

// IsEmpty reports whether no narrowing criteria are active.
// The sort order is not a filter and is ignored.
func (c Criteria) IsEmpty() bool {
	return (c.Status == "" || c.Status == StatusAll) &&
		strings.TrimSpace(c.Search) == "" &&
		strings.TrimSpace(c.Location) == "" &&
		!c.filtersSources()
}

// filtersSources reports whether the source stage removes anything.
func (c Criteria) filtersSources() bool {
	if len(c.SelectedSources()) == 0 {
		return false
	}
	if len(c.KnownSources) == 0 {
		return true
	}
	for _, s := range c.KnownSources {
		if !c.Sources[s] {
			return true
		}
	}
	return false
}

// Clone creates a deep copy of the criteria.
func (c Criteria) Clone() Criteria {
	clone := c
	clone.Sources = make(map[string]bool, len(c.Sources))
	for k, v := range c.Sources {
		clone.Sources[k] = v
	}
	if c.KnownSources != nil {
		clone.KnownSources = make([]string, len(c.KnownSources))
		copy(clone.KnownSources, c.KnownSources)
	}
	return clone
}

// SelectedSources returns the selected source names in sorted order.
func (c Criteria) SelectedSources() []string {
	out := make([]string, 0, len(c.Sources))
	for s, on := range c.Sources {
		if on {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// String returns a human-readable description of the active criteria.
// Format: "Status: upcoming | Search: ai | Sort: prize"
func (c Criteria) String() string {
	var parts []string

	if c.Status != "" && c.Status != StatusAll {
		parts = append(parts, fmt.Sprintf("Status: %s", c.Status))
	}
	if q := strings.TrimSpace(c.Search); q != "" {
		parts = append(parts, fmt.Sprintf("Search: %s", q))
	}
	if q := strings.TrimSpace(c.Location); q != "" {
		parts = append(parts, fmt.Sprintf("Location: %s", q))
	}
	if c.filtersSources() {
		parts = append(parts, fmt.Sprintf("Sources: %s", strings.Join(c.SelectedSources(), ", ")))
	}
	if len(parts) == 0 {
		parts = append(parts, "No active filters")
	}
	parts = append(parts, fmt.Sprintf("Sort: %s", c.sortOrder()))

	return strings.Join(parts, " | ")
}

func (c Criteria) sortOrder() SortOrder {
	if c.Sort == "" {
		return SortRelevance
	}
	return c.Sort
}

// Evaluate applies the criteria to records and returns a new, ordered slice.
// The input slice and its records are never modified.
func Evaluate(records []*hackathon.Record, c Criteria, now time.Time) []*hackathon.Record {
	filtered := make([]*hackathon.Record, 0, len(records))

	search := strings.ToLower(strings.TrimSpace(c.Search))
	location := strings.ToLower(strings.TrimSpace(c.Location))
	bySource := c.filtersSources()

	for _, r := range records {
		if bySource && !c.Sources[r.Source] {
			continue
		}
		if !MatchesStatus(r, c.Status, now) {
			continue
		}
		if search != "" && !matchesSearch(r, search, c.Scope) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(hackathon.NormalizeLocation(r.Location)), location) {
			continue
		}
		filtered = append(filtered, r)
	}

	Sort(filtered, c.sortOrder(), now)
	return filtered
}

// MatchesStatus reports whether r passes the status stage.
// "live" maps to the ongoing status; "online" and "in-person" match the
// effective mode instead of the status.
func MatchesStatus(r *hackathon.Record, f StatusFilter, now time.Time) bool {
	switch f {
	case "", StatusAll:
		return true
	case StatusUpcoming:
		return hackathon.ClassifyStatus(r, now) == hackathon.StatusUpcoming
	case StatusLive:
		return hackathon.ClassifyStatus(r, now) == hackathon.StatusOngoing
	case StatusOnline:
		return strings.Contains(r.EffectiveMode(), "online")
	case StatusInPerson:
		mode := r.EffectiveMode()
		return strings.Contains(mode, "in-person") ||
			strings.Contains(mode, "in person") ||
			strings.Contains(mode, "offline")
	default:
		return true
	}
}

// matchesSearch does a case-insensitive substring match of the lower-cased
// query q against the fields of the given scope.
func matchesSearch(r *hackathon.Record, q string, scope SearchScope) bool {
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), q)
	}

	if contains(r.Title) || strings.Contains(r.SearchText(), q) {
		return true
	}

	if scope != ScopeBroad {
		return contains(r.Organizer)
	}

	if contains(hackathon.NormalizeLocation(r.Location)) || contains(r.Source) {
		return true
	}
	for _, tag := range r.Tags {
		if contains(tag) {
			return true
		}
	}
	return false
}
