package filter

import (
	"fmt"
	"strings"
)

// ParseStatus parses a status filter name.
//
// Accepted values (case-insensitive):
//   - "all" or ""
//   - "upcoming"
//   - "live" or "ongoing"
//   - "online"
//   - "in-person", "in person" or "offline"
func ParseStatus(input string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "all":
		return StatusAll, nil
	case "upcoming":
		return StatusUpcoming, nil
	case "live", "ongoing":
		return StatusLive, nil
	case "online":
		return StatusOnline, nil
	case "in-person", "in person", "inperson", "offline":
		return StatusInPerson, nil
	}
	return "", fmt.Errorf("invalid status %q. Use all, upcoming, live, online or in-person", input)
}

// ParseSort parses a sort order name. An empty input selects relevance.
func ParseSort(input string) (SortOrder, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return SortRelevance, nil
	}
	for _, o := range SortOrders {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("invalid sort %q. Use one of: %s", input, joinOrders())
}

// ParseScope parses a search scope name. An empty input selects the standard scope.
func ParseScope(input string) (SearchScope, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "standard":
		return ScopeStandard, nil
	case "broad":
		return ScopeBroad, nil
	}
	return "", fmt.Errorf("invalid search scope %q. Use standard or broad", input)
}

func joinOrders() string {
	names := make([]string, len(SortOrders))
	for i, o := range SortOrders {
		names[i] = string(o)
	}
	return strings.Join(names, ", ")
}
