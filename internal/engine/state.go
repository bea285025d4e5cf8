package engine

import (
	"sort"
	"time"

	"github.com/pfrederiksen/hackfind/internal/filter"
	"github.com/pfrederiksen/hackfind/internal/hackathon"
	"github.com/pfrederiksen/hackfind/internal/pager"
)

// State is an immutable snapshot of a browsing session. Transitions return a
// new State and never modify the receiver, its records or its criteria.
type State struct {
	// Records is the full ingested record set.
	Records []*hackathon.Record
	// Sources is the set of known source names.
	Sources []string
	// Criteria is the filter and sort state.
	Criteria filter.Criteria
	// Ordered is Evaluate(Records, Criteria, Now).
	Ordered []*hackathon.Record
	// Window is the displayed prefix of Ordered.
	Window pager.Window
	// Now is the time Ordered was evaluated at.
	Now time.Time

	// Loaded is set once ingestion has finished, successfully or not.
	Loaded bool
	// LoadErr is the terminal ingestion error. Records is empty when set.
	LoadErr error

	bookmarked map[hackathon.ID]bool
}

// NewState creates an empty, not yet loaded state.
func NewState(pageSize int, now time.Time) State {
	return State{
		Criteria: filter.NewCriteria(),
		Window:   pager.New(pageSize, 0),
		Now:      now,
	}
}

// Visible returns the displayed prefix of the ordered records.
func (s State) Visible() []*hackathon.Record {
	return pager.Visible(s.Window, s.Ordered)
}

// HasMore reports whether more ordered records can be displayed.
func (s State) HasMore() bool {
	return s.Window.HasMore()
}

// Failed reports whether ingestion ended in an error.
func (s State) Failed() bool {
	return s.LoadErr != nil
}

// IsBookmarked reports whether id was bookmarked when the state was created.
func (s State) IsBookmarked(id hackathon.ID) bool {
	return s.bookmarked[id]
}

// BookmarkCount returns the number of bookmarks in the state.
func (s State) BookmarkCount() int {
	return len(s.bookmarked)
}

// Summary returns the "Showing N of M" footer text.
func (s State) Summary() string {
	return summary(s.Window.Displayed, len(s.Ordered), len(s.Records))
}

// WithNow returns the state with a new evaluation time. Ordered is not
// recomputed until the next input transition or Refresh.
func (s State) WithNow(now time.Time) State {
	s.Now = now
	return s
}

// evaluate recomputes Ordered and resets the window to the first page.
func (s State) evaluate() State {
	s.Ordered = filter.Evaluate(s.Records, s.Criteria, s.Now)
	s.Window = s.Window.Reset(len(s.Ordered))
	return s
}

// withCriteria applies change to a copy of the criteria and re-evaluates.
func (s State) withCriteria(change func(c *filter.Criteria)) State {
	c := s.Criteria.Clone()
	change(&c)
	s.Criteria = c
	return s.evaluate()
}

// SetStatus selects a status filter.
func (s State) SetStatus(f filter.StatusFilter) State {
	return s.withCriteria(func(c *filter.Criteria) { c.Status = f })
}

// SetSort selects a sort order.
func (s State) SetSort(o filter.SortOrder) State {
	return s.withCriteria(func(c *filter.Criteria) { c.Sort = o })
}

// SetSearch sets the free-text query.
func (s State) SetSearch(q string) State {
	return s.withCriteria(func(c *filter.Criteria) { c.Search = q })
}

// SetScope selects the fields the free-text query matches.
func (s State) SetScope(scope filter.SearchScope) State {
	return s.withCriteria(func(c *filter.Criteria) { c.Scope = scope })
}

// SetLocation sets the location substring filter.
func (s State) SetLocation(q string) State {
	return s.withCriteria(func(c *filter.Criteria) { c.Location = q })
}

// SetSources replaces the selected source set.
func (s State) SetSources(selected []string) State {
	return s.withCriteria(func(c *filter.Criteria) { c.Sources = filter.SourceSet(selected) })
}

// ToggleSource adds or removes one source from the selection.
func (s State) ToggleSource(name string) State {
	return s.withCriteria(func(c *filter.Criteria) {
		if c.Sources[name] {
			delete(c.Sources, name)
		} else {
			c.Sources[name] = true
		}
	})
}

// Reset clears every filter and restores the relevance sort. The known
// sources are kept.
func (s State) Reset() State {
	return s.withCriteria(func(c *filter.Criteria) {
		known := c.KnownSources
		*c = filter.NewCriteria()
		c.KnownSources = known
	})
}

// Refresh re-evaluates at the current Now without changing any input.
// Status filters depend on the date, so a long-running session refreshes
// to pick up records that started or ended. The displayed count is kept,
// capped at the new total.
func (s State) Refresh() State {
	displayed := s.Window.Displayed
	s = s.evaluate()
	s.Window.Displayed = max(s.Window.Displayed, min(displayed, s.Window.Total))
	return s
}

// LoadRecords replaces the record set after a successful ingestion. When
// sources is empty the known sources are derived from the records.
func (s State) LoadRecords(records []*hackathon.Record, sources []string) State {
	if len(sources) == 0 {
		sources = filter.KnownSources(records)
	}

	s.Records = records
	s.Sources = append([]string(nil), sources...)
	sort.Strings(s.Sources)
	s.Loaded = true
	s.LoadErr = nil

	return s.withCriteria(func(c *filter.Criteria) {
		c.KnownSources = append([]string(nil), s.Sources...)
	})
}

// LoadFailed records a terminal ingestion error. Any previous record set is
// dropped so that no partial data is shown.
func (s State) LoadFailed(err error) State {
	s.Records = nil
	s.Sources = nil
	s.Loaded = true
	s.LoadErr = err
	return s.withCriteria(func(c *filter.Criteria) { c.KnownSources = nil })
}

// LoadMore displays one more page of the ordered records.
func (s State) LoadMore() State {
	s.Window = s.Window.LoadMore()
	return s
}

// withBookmarks returns the state carrying a copy of the bookmark set.
func (s State) withBookmarks(ids []hackathon.ID) State {
	s.bookmarked = make(map[hackathon.ID]bool, len(ids))
	for _, id := range ids {
		s.bookmarked[id] = true
	}
	return s
}
