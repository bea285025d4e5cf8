// Package engine owns the browsing session: the current State, the bookmark
// store and the near-end-of-list signal.
//
// Consumers never modify engine state directly. They call a named transition
// (SetStatus, SetSearch, LoadMore, ToggleBookmark, ...) and observe the
// resulting State through Subscribe:
//
//	e := engine.New(engine.WithBookmarks(store))
//	unsubscribe := e.Subscribe(func(s engine.State) { render(s.Visible()) })
//	defer unsubscribe()
//
//	e.Load(records, sources)
//	e.SetStatus(filter.StatusUpcoming)
//	e.NearEnd(len(e.State().Visible()) - 1) // loads the next page
//
// An Engine is not safe for concurrent use. Drive it from one goroutine,
// such as a UI event loop.
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/pfrederiksen/hackfind/internal/bookmarks"
	"github.com/pfrederiksen/hackfind/internal/filter"
	"github.com/pfrederiksen/hackfind/internal/hackathon"
	"github.com/pfrederiksen/hackfind/internal/logger"
	"github.com/pfrederiksen/hackfind/internal/pager"
)

// Engine holds the current State and notifies subscribers of every change.
type Engine struct {
	state     State
	clock     func() time.Time
	store     *bookmarks.Store
	trigger   *pager.Trigger
	preferred []string

	subs    map[int]func(State)
	nextSub int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used for status evaluation.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithBookmarks attaches a bookmark store.
func WithBookmarks(store *bookmarks.Store) Option {
	return func(e *Engine) { e.store = store }
}

// WithPageSize sets the pagination page size.
func WithPageSize(n int) Option {
	return func(e *Engine) { e.state.Window = pager.New(n, 0) }
}

// WithThreshold sets how many items from the end NearEnd starts loading.
func WithThreshold(n int) Option {
	return func(e *Engine) { e.trigger = pager.NewTrigger(n) }
}

// WithPreferredSources preselects these sources on the first successful
// load, when no selection has been made yet.
func WithPreferredSources(names []string) Option {
	return func(e *Engine) { e.preferred = append([]string(nil), names...) }
}

// New creates an engine with an empty, unloaded state.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:   time.Now,
		trigger: pager.NewTrigger(pager.DefaultThreshold),
		subs:    make(map[int]func(State)),
	}
	e.state = NewState(pager.DefaultPageSize, time.Time{})

	for _, opt := range opts {
		opt(e)
	}

	e.state = e.state.WithNow(e.clock())
	if e.store != nil {
		e.state = e.state.withBookmarks(e.store.IDs())
	}
	return e
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

// Subscribe registers fn to be called with every new state. The returned
// function removes the subscription.
func (e *Engine) Subscribe(fn func(State)) func() {
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() { delete(e.subs, id) }
}

func (e *Engine) notify() {
	ids := make([]int, 0, len(e.subs))
	for id := range e.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		if fn, ok := e.subs[id]; ok {
			fn(e.state)
		}
	}
}

// input applies a transition that changes the pipeline inputs. The window is
// reset by the transition itself; the near-end trigger is reset here.
func (e *Engine) input(t func(State) State) State {
	e.state = t(e.state.WithNow(e.clock()))
	e.trigger.Reset()
	e.notify()
	return e.state
}

// SetStatus selects a status filter.
func (e *Engine) SetStatus(f filter.StatusFilter) State {
	return e.input(func(s State) State { return s.SetStatus(f) })
}

// SetSort selects a sort order.
func (e *Engine) SetSort(o filter.SortOrder) State {
	return e.input(func(s State) State { return s.SetSort(o) })
}

// SetSearch sets the free-text query.
func (e *Engine) SetSearch(q string) State {
	return e.input(func(s State) State { return s.SetSearch(q) })
}

// SetScope selects the search scope.
func (e *Engine) SetScope(scope filter.SearchScope) State {
	return e.input(func(s State) State { return s.SetScope(scope) })
}

// SetLocation sets the location filter.
func (e *Engine) SetLocation(q string) State {
	return e.input(func(s State) State { return s.SetLocation(q) })
}

// SetSources replaces the selected sources.
func (e *Engine) SetSources(selected []string) State {
	return e.input(func(s State) State { return s.SetSources(selected) })
}

// ToggleSource flips one source in the selection.
func (e *Engine) ToggleSource(name string) State {
	return e.input(func(s State) State { return s.ToggleSource(name) })
}

// Reset clears all filters.
func (e *Engine) Reset() State {
	return e.input(func(s State) State { return s.Reset() })
}

// Refresh re-evaluates the pipeline at the current time, keeping the
// displayed count.
func (e *Engine) Refresh() State {
	e.state = e.state.WithNow(e.clock()).Refresh()
	e.notify()
	return e.state
}

// Stale reports whether the calendar day has changed since the current
// state was evaluated.
func (e *Engine) Stale() bool {
	return !hackathon.Day(e.clock()).Equal(hackathon.Day(e.state.Now))
}

// RefreshIfStale refreshes when the day has changed and reports whether it
// did.
func (e *Engine) RefreshIfStale() bool {
	if !e.state.Loaded || !e.Stale() {
		return false
	}
	e.Refresh()
	return true
}

// Load installs a fully ingested record set.
func (e *Engine) Load(records []*hackathon.Record, sources []string) State {
	return e.input(func(s State) State {
		first := !s.Loaded || s.Failed()
		s = s.LoadRecords(records, sources)
		if first && len(e.preferred) > 0 && len(s.Criteria.Sources) == 0 {
			selected := filter.DefaultSelection(s.Sources, e.preferred)
			names := make([]string, 0, len(selected))
			for name := range selected {
				names = append(names, name)
			}
			s = s.SetSources(names)
		}
		return s
	})
}

// Fail records a terminal ingestion error.
func (e *Engine) Fail(err error) State {
	logger.With("engine", nil).Error("Loading hackathons failed", nil, err)
	return e.input(func(s State) State { return s.LoadFailed(err) })
}

// LoadMore displays the next page.
func (e *Engine) LoadMore() State {
	e.state = e.state.LoadMore()
	e.notify()
	return e.state
}

// NearEnd is the near-end-of-list signal: the consumer reports that the item
// at index of the visible list is in view. It loads the next page at most
// once per crossing and reports whether it did.
func (e *Engine) NearEnd(index int) bool {
	rendered := len(e.state.Visible())
	if !e.trigger.Near(index, rendered, e.state.HasMore()) {
		return false
	}

	e.trigger.Begin(rendered)
	defer e.trigger.Done()

	e.LoadMore()
	return true
}

// Bookmarks returns the attached store, or nil.
func (e *Engine) Bookmarks() *bookmarks.Store {
	return e.store
}

// ToggleBookmark flips the bookmark for id, persists it and notifies
// subscribers. It returns the new membership.
func (e *Engine) ToggleBookmark(id hackathon.ID) (bool, error) {
	if e.store == nil {
		return false, fmt.Errorf("bookmarks are not configured")
	}

	on, err := e.store.Toggle(id)
	if err != nil {
		return on, err
	}

	e.state = e.state.withBookmarks(e.store.IDs())
	e.notify()
	return on, nil
}

// Bookmarked returns the loaded records that are bookmarked, in the current
// order.
func (e *Engine) Bookmarked() []*hackathon.Record {
	if e.store == nil {
		return nil
	}
	return e.store.Filter(e.state.Ordered)
}
