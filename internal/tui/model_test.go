package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfrederiksen/hackfind/internal/bookmarks"
	"github.com/pfrederiksen/hackfind/internal/engine"
	"github.com/pfrederiksen/hackfind/internal/filter"
	"github.com/pfrederiksen/hackfind/internal/hackathon"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func makeRecords(n int) []*hackathon.Record {
	records := make([]*hackathon.Record, n)
	for i := range records {
		source := "Devpost"
		if i%2 == 1 {
			source = "Unstop"
		}
		records[i] = &hackathon.Record{
			ID:        hackathon.ID(fmt.Sprintf("r%d", i)),
			Title:     fmt.Sprintf("Hack %03d", i),
			Source:    source,
			StartDate: "2026-04-01",
			PrizePool: json.RawMessage(fmt.Sprintf(`"$%d"`, (n-i)*100)),
		}
	}
	return records
}

type memBackend struct{ data []byte }

func (m *memBackend) Load() ([]byte, error)  { return m.data, nil }
func (m *memBackend) Save(data []byte) error { m.data = data; return nil }

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// send feeds msgs through Update in order.
func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func newTestModel(t *testing.T, n int) (Model, *engine.Engine) {
	t.Helper()
	store, err := bookmarks.Open(&memBackend{})
	if err != nil {
		t.Fatal(err)
	}
	e := engine.New(
		engine.WithClock(func() time.Time { return testNow }),
		engine.WithPageSize(5),
		engine.WithThreshold(1),
		engine.WithBookmarks(store),
	)
	records := makeRecords(n)
	m := New(e, func(context.Context) ([]*hackathon.Record, []string, error) {
		return records, nil, nil
	})
	return m, e
}

func loaded(t *testing.T, n int) (Model, *engine.Engine) {
	t.Helper()
	m, e := newTestModel(t, n)
	msg := m.fetch()()
	return send(m, msg), e
}

func TestInit(t *testing.T) {
	m, _ := newTestModel(t, 3)
	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init should return a command")
	}
	if !m.loading {
		t.Error("model should start loading")
	}

	if cmd := New(engine.New(), nil).Init(); cmd != nil {
		t.Error("Init should return nil without a loader")
	}
}

func TestFetch(t *testing.T) {
	m, _ := newTestModel(t, 3)
	msg, ok := m.fetch()().(loadedMsg)
	if !ok {
		t.Fatal("fetch should produce loadedMsg")
	}
	if len(msg.records) != 3 {
		t.Errorf("records = %d, want 3", len(msg.records))
	}

	failing := New(engine.New(), func(context.Context) ([]*hackathon.Record, []string, error) {
		return nil, nil, errors.New("connection refused")
	})
	if _, ok := failing.fetch()().(loadFailedMsg); !ok {
		t.Error("failing loader should produce loadFailedMsg")
	}
}

func TestLoaded(t *testing.T) {
	m, e := loaded(t, 12)

	if m.loading {
		t.Error("loading should be cleared")
	}
	if got := len(e.State().Visible()); got != 5 {
		t.Errorf("visible = %d, want 5", got)
	}
	if !strings.Contains(m.View(), "Showing 5 of 12 hackathons") {
		t.Error("View should show the summary")
	}
}

func TestLoadFailed(t *testing.T) {
	m, e := newTestModel(t, 3)
	m = send(m, loadFailedMsg{err: errors.New("connection refused")})

	if !e.State().Failed() {
		t.Error("engine should be in the failed state")
	}
	view := m.View()
	if !strings.Contains(view, "Failed to load hackathons") || !strings.Contains(view, "connection refused") {
		t.Errorf("View should report the failure, got:\n%s", view)
	}
}

func TestNavigation_LoadsMoreNearEnd(t *testing.T) {
	m, e := loaded(t, 12)
	down := tea.KeyMsg{Type: tea.KeyDown}

	m = send(m, down, down)
	if got := e.State().Window.Displayed; got != 5 {
		t.Fatalf("Displayed = %d after 2 moves, want 5", got)
	}

	// Threshold 1 with 5 rendered rows fires at index 3.
	m = send(m, down)
	if m.cursor != 3 {
		t.Errorf("cursor = %d, want 3", m.cursor)
	}
	if got := e.State().Window.Displayed; got != 10 {
		t.Errorf("Displayed = %d, want 10", got)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	if m.cursor != 9 {
		t.Errorf("cursor = %d after G, want 9", m.cursor)
	}
	if got := e.State().Window.Displayed; got != 12 {
		t.Errorf("Displayed = %d, want 12", got)
	}

	m = send(m, runeKey('g'))
	if m.cursor != 0 || m.viewport != 0 {
		t.Errorf("cursor, viewport = %d, %d after g, want 0, 0", m.cursor, m.viewport)
	}
}

func TestNavigation_Clamps(t *testing.T) {
	m, _ := loaded(t, 3)

	m = send(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	m = send(m, runeKey('j'), runeKey('j'), runeKey('j'), runeKey('j'))
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
}

func TestViewportFollowsCursor(t *testing.T) {
	m, _ := loaded(t, 12)
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 7})

	for i := 0; i < 6; i++ {
		m = send(m, runeKey('j'))
	}
	if m.cursor != 6 {
		t.Fatalf("cursor = %d, want 6", m.cursor)
	}
	if m.viewport != 4 {
		t.Errorf("viewport = %d, want 4", m.viewport)
	}
}

func TestFilterKeys(t *testing.T) {
	m, e := loaded(t, 12)
	m = send(m, runeKey('j'))

	m = send(m, runeKey('s'))
	if got := e.State().Criteria.Status; got != filter.StatusUpcoming {
		t.Errorf("status = %q, want upcoming", got)
	}
	if m.cursor != 0 {
		t.Error("filter change should reset the cursor")
	}

	m = send(m, runeKey('o'))
	if got := e.State().Criteria.Sort; got != filter.SortPrize {
		t.Errorf("sort = %q, want prize", got)
	}

	m = send(m, runeKey('x'))
	if got := e.State().Criteria.Scope; got != filter.ScopeBroad {
		t.Errorf("scope = %q, want broad", got)
	}

	m = send(m, runeKey('c'))
	if !e.State().Criteria.IsEmpty() || e.State().Criteria.Sort != filter.SortRelevance {
		t.Errorf("criteria not cleared: %s", e.State().Criteria)
	}
	if m.statusMsg != "Filters cleared" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestStatusCycleWraps(t *testing.T) {
	m, e := loaded(t, 3)
	for range statusCycle {
		m = send(m, runeKey('s'))
	}
	if got := e.State().Criteria.Status; got != filter.StatusAll {
		t.Errorf("status = %q after a full cycle, want all", got)
	}
}

func TestSearchMode(t *testing.T) {
	m, e := loaded(t, 12)

	m = send(m, runeKey('/'))
	if m.mode != modeSearch {
		t.Fatal("/ should enter search mode")
	}

	// Keys are typed into the query, not treated as commands.
	m = send(m, runeKey('0'), runeKey('0'), runeKey('7'))
	if got := e.State().Criteria.Search; got != "007" {
		t.Errorf("search = %q, want 007", got)
	}
	if got := len(e.State().Ordered); got != 1 {
		t.Errorf("ordered = %d, want 1", got)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeList {
		t.Error("esc should leave search mode")
	}
	if got := e.State().Criteria.Search; got != "" {
		t.Errorf("esc should restore the previous search, got %q", got)
	}

	m = send(m, runeKey('/'), runeKey('1'), tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeList || e.State().Criteria.Search != "1" {
		t.Errorf("enter should keep the search, got mode %d search %q", m.mode, e.State().Criteria.Search)
	}
}

func TestBookmarkKey(t *testing.T) {
	m, e := loaded(t, 3)
	first := e.State().Visible()[0].ID

	m = send(m, runeKey('b'))
	if !e.State().IsBookmarked(first) {
		t.Fatal("b should bookmark the selected record")
	}
	if !strings.HasPrefix(m.statusMsg, "Bookmarked") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
	if !strings.Contains(m.View(), "★") {
		t.Error("View should mark bookmarked records")
	}

	m = send(m, runeKey('b'))
	if e.State().IsBookmarked(first) {
		t.Error("second b should remove the bookmark")
	}
}

func TestBookmarkKey_NoStore(t *testing.T) {
	e := engine.New(engine.WithClock(func() time.Time { return testNow }))
	m := send(New(e, nil), loadedMsg{records: makeRecords(2)}, runeKey('b'))

	if !strings.HasPrefix(m.statusMsg, "Bookmark failed") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestSourcePicker(t *testing.T) {
	m, e := loaded(t, 6)

	m = send(m, runeKey('f'))
	if m.mode != modeSources {
		t.Fatal("f should open the source picker")
	}

	// Everything is checked; unchecking Devpost leaves Unstop selected.
	m = send(m, runeKey(' '))
	if got := e.State().Criteria.SelectedSources(); !reflect.DeepEqual(got, []string{"Unstop"}) {
		t.Errorf("selected = %v, want [Unstop]", got)
	}
	if got := len(e.State().Ordered); got != 3 {
		t.Errorf("ordered = %d, want 3", got)
	}

	// Re-checking Devpost adds it back.
	m = send(m, runeKey(' '))
	if got := e.State().Criteria.SelectedSources(); !reflect.DeepEqual(got, []string{"Devpost", "Unstop"}) {
		t.Errorf("selected = %v, want both", got)
	}

	m = send(m, runeKey('j'), runeKey(' '), runeKey('a'))
	if got := e.State().Criteria.SelectedSources(); len(got) != 0 {
		t.Errorf("a should select all sources, got %v", got)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeList {
		t.Error("esc should close the picker")
	}
}

func TestDetailAndHelp(t *testing.T) {
	m, _ := loaded(t, 3)

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeDetail {
		t.Fatal("enter should open the detail view")
	}
	if !strings.Contains(m.View(), "Source:") {
		t.Error("detail view should list fields")
	}
	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeList {
		t.Error("esc should close the detail view")
	}

	m = send(m, runeKey('?'))
	if m.mode != modeHelp || !strings.Contains(m.View(), "NAVIGATION") {
		t.Error("? should show help")
	}
	m = send(m, runeKey('z'))
	if m.mode != modeList {
		t.Error("any key should close help")
	}
}

func TestReload(t *testing.T) {
	m, _ := loaded(t, 3)

	updated, cmd := m.Update(runeKey('r'))
	m = updated.(Model)
	if !m.loading || cmd == nil {
		t.Error("r should start a reload")
	}

	// A second reload is ignored while one is in flight.
	if _, cmd := m.Update(runeKey('r')); cmd != nil {
		t.Error("r should not start a second reload")
	}
}

func TestQuit(t *testing.T) {
	m, _ := loaded(t, 3)

	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if m.ctx.Err() == nil {
		t.Error("quitting should cancel the load context")
	}
}

func TestEmptyStates(t *testing.T) {
	m, _ := loaded(t, 3)
	m = send(m, runeKey('/'), runeKey('z'), runeKey('z'), tea.KeyMsg{Type: tea.KeyEnter})

	if !strings.Contains(m.View(), "No hackathons match your filters") {
		t.Error("View should explain an empty result")
	}
}

func TestNext(t *testing.T) {
	cycle := []string{"a", "b", "c"}
	tests := map[string]string{"a": "b", "c": "a", "unknown": "a"}
	for in, want := range tests {
		if got := next(cycle, in); got != want {
			t.Errorf("next(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClockTick_RefreshesAfterMidnight(t *testing.T) {
	now := time.Date(2026, time.March, 10, 23, 0, 0, 0, time.UTC)
	e := engine.New(engine.WithClock(func() time.Time { return now }), engine.WithPageSize(5))
	records := []*hackathon.Record{
		{ID: "a", Title: "Midnight Hack", Source: "Devpost", StartDate: "2026-03-11", EndDate: "2026-03-12"},
	}
	m := New(e, func(context.Context) ([]*hackathon.Record, []string, error) {
		return records, nil, nil
	})
	m = send(m, m.fetch()())
	e.SetStatus(filter.StatusLive)

	m = send(m, clockTickMsg(now))
	if got := len(e.State().Visible()); got != 0 {
		t.Fatalf("live before midnight = %d, want 0", got)
	}

	now = now.Add(3 * time.Hour)
	updated, cmd := m.Update(clockTickMsg(now))
	m = updated.(Model)
	if cmd == nil {
		t.Error("clock tick should schedule the next tick")
	}

	state := e.State()
	if !state.Now.Equal(now) {
		t.Errorf("state.Now = %v, want %v", state.Now, now)
	}
	if got := len(state.Visible()); got != 1 {
		t.Fatalf("live after midnight = %d, want 1", got)
	}
	if view := m.View(); !strings.Contains(view, "ongoing") {
		t.Errorf("view should show the record as ongoing:\n%s", view)
	}
}
