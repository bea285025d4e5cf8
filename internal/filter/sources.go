package filter

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/hackfind/internal/hackathon"
)

// PreferredSources is the default source preselection offered on first load.
var PreferredSources = []string{"Unstop", "Devpost", "Devfolio", "DevDisplay"}

// KnownSources returns the distinct, non-empty sources of records, sorted.
// It is the fallback when the sources endpoint is unavailable.
func KnownSources(records []*hackathon.Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		s := strings.TrimSpace(r.Source)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// DefaultSelection returns the preferred sources that are present in known.
// When none of them are known the whole known set is selected.
func DefaultSelection(known, preferred []string) map[string]bool {
	present := make(map[string]bool, len(known))
	for _, s := range known {
		present[s] = true
	}

	selected := make(map[string]bool)
	for _, s := range preferred {
		if present[s] {
			selected[s] = true
		}
	}
	if len(selected) > 0 {
		return selected
	}

	for _, s := range known {
		selected[s] = true
	}
	return selected
}

// SourceSet builds a selection from a list of names, ignoring blanks.
func SourceSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			set[n] = true
		}
	}
	return set
}
