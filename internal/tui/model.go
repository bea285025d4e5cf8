// Package tui is the interactive terminal browser.
//
// The Model renders the engine's visible window and reports every cursor
// move back through engine.NearEnd, which displays the next page as the
// cursor approaches the end of the list. Records are fetched once by a
// Loader running as a tea.Cmd; the result is applied on the event loop so
// the engine is only ever touched from Update.
package tui

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfrederiksen/hackfind/internal/engine"
	"github.com/pfrederiksen/hackfind/internal/filter"
	"github.com/pfrederiksen/hackfind/internal/hackathon"
)

// Loader fetches the full record set and the known source names.
type Loader func(ctx context.Context) ([]*hackathon.Record, []string, error)

type loadedMsg struct {
	records []*hackathon.Record
	sources []string
}

type loadFailedMsg struct {
	err error
}

// refreshInterval is how often the browser checks whether the calendar day
// has changed, so statuses move from upcoming to ongoing to ended.
const refreshInterval = time.Minute

type clockTickMsg time.Time

func clockTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// mode is the active screen.
type mode int

const (
	modeList mode = iota
	modeSearch
	modeSources
	modeDetail
	modeHelp
)

// Model is the root Bubble Tea model of the browser.
type Model struct {
	engine *engine.Engine
	load   Loader

	ctx    context.Context
	cancel context.CancelFunc

	mode     mode
	cursor   int
	viewport int // Index of first visible row
	width    int
	height   int

	input        textinput.Model
	prevSearch   string
	sourceCursor int

	spinner   spinner.Model
	loading   bool
	statusMsg string
}

// New creates a browser over e. load is run on Init and on reload.
func New(e *engine.Engine, load Loader) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search hackathons"
	ti.CharLimit = 200

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		engine:  e,
		load:    load,
		ctx:     ctx,
		cancel:  cancel,
		input:   ti,
		spinner: s,
		loading: load != nil,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.load == nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.fetch(), clockTick())
}

func (m Model) fetch() tea.Cmd {
	load, ctx := m.load, m.ctx
	return func() tea.Msg {
		records, sources, err := load(ctx)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return loadedMsg{records: records, sources: sources}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-10)
		m.ensureCursorVisible()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clockTickMsg:
		if m.engine.RefreshIfStale() {
			if n := len(m.engine.State().Visible()); m.cursor >= n {
				m.cursor = max(0, n-1)
			}
			m.ensureCursorVisible()
		}
		return m, clockTick()

	case loadedMsg:
		m.loading = false
		m.engine.Load(msg.records, msg.sources)
		m.statusMsg = fmt.Sprintf("Loaded %d hackathons", len(msg.records))
		m.resetCursor()
		return m, nil

	case loadFailedMsg:
		m.loading = false
		m.engine.Fail(msg.err)
		m.statusMsg = ""
		m.resetCursor()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancel()
			return m, tea.Quit
		}

		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeSources:
			return m.updateSources(msg)
		case modeDetail:
			return m.updateDetail(msg)
		case modeHelp:
			m.mode = modeList
			return m, nil
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.engine.State()

	switch {
	case key.Matches(msg, keys.Quit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.mode = modeHelp
	case key.Matches(msg, keys.Up):
		m.moveTo(m.cursor - 1)
	case key.Matches(msg, keys.Down):
		m.moveTo(m.cursor + 1)
	case key.Matches(msg, keys.PageUp):
		m.moveTo(m.cursor - m.visibleLines())
	case key.Matches(msg, keys.PageDown):
		m.moveTo(m.cursor + m.visibleLines())
	case key.Matches(msg, keys.Home):
		m.moveTo(0)
	case key.Matches(msg, keys.End):
		m.moveTo(len(state.Visible()) - 1)
	case key.Matches(msg, keys.Enter):
		if _, ok := m.selected(); ok {
			m.mode = modeDetail
		}
	case key.Matches(msg, keys.Search):
		m.prevSearch = state.Criteria.Search
		m.input.SetValue(m.prevSearch)
		m.input.CursorEnd()
		m.input.Focus()
		m.mode = modeSearch
		return m, textinput.Blink
	case key.Matches(msg, keys.Status):
		m.engine.SetStatus(next(statusCycle, state.Criteria.Status))
		m.resetCursor()
	case key.Matches(msg, keys.Sort):
		m.engine.SetSort(next(filter.SortOrders, state.Criteria.Sort))
		m.resetCursor()
	case key.Matches(msg, keys.Scope):
		scope := filter.ScopeBroad
		if state.Criteria.Scope == filter.ScopeBroad {
			scope = filter.ScopeStandard
		}
		m.engine.SetScope(scope)
		m.resetCursor()
	case key.Matches(msg, keys.Sources):
		if len(state.Sources) > 0 {
			m.sourceCursor = 0
			m.mode = modeSources
		}
	case key.Matches(msg, keys.Bookmark):
		m.toggleBookmark()
	case key.Matches(msg, keys.Reset):
		m.engine.Reset()
		m.resetCursor()
		m.statusMsg = "Filters cleared"
	case key.Matches(msg, keys.Reload):
		if m.load != nil && !m.loading {
			m.loading = true
			m.statusMsg = "Reloading..."
			return m, tea.Batch(m.spinner.Tick, m.fetch())
		}
	}

	return m, nil
}

// updateSearch filters as the query is typed. Enter keeps the query, Esc
// restores the one in effect before search mode was entered.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.input.Blur()
		m.mode = modeList
		return m, nil
	case tea.KeyEsc:
		m.input.Blur()
		m.mode = modeList
		if m.engine.State().Criteria.Search != m.prevSearch {
			m.engine.SetSearch(m.prevSearch)
			m.resetCursor()
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.engine.SetSearch(value)
		m.resetCursor()
	}
	return m, cmd
}

func (m Model) updateSources(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.engine.State()
	sources := state.Sources

	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Sources), key.Matches(msg, keys.Quit):
		m.mode = modeList
	case key.Matches(msg, keys.Up):
		if m.sourceCursor > 0 {
			m.sourceCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.sourceCursor < len(sources)-1 {
			m.sourceCursor++
		}
	case key.Matches(msg, keys.Toggle):
		if m.sourceCursor < len(sources) {
			m.toggleSource(state, sources[m.sourceCursor])
			m.resetCursor()
		}
	case key.Matches(msg, keys.AllSources):
		m.engine.SetSources(nil)
		m.resetCursor()
	}

	return m, nil
}

// toggleSource flips one checkbox of the picker. An empty selection shows
// every source as checked, so unchecking one selects all the others.
func (m *Model) toggleSource(state engine.State, name string) {
	if len(state.Criteria.SelectedSources()) > 0 {
		m.engine.ToggleSource(name)
		return
	}

	others := make([]string, 0, len(state.Sources))
	for _, s := range state.Sources {
		if s != name {
			others = append(others, s)
		}
	}
	m.engine.SetSources(others)
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Enter), key.Matches(msg, keys.Quit):
		m.mode = modeList
	case key.Matches(msg, keys.Bookmark):
		m.toggleBookmark()
	}
	return m, nil
}

func (m *Model) toggleBookmark() {
	r, ok := m.selected()
	if !ok {
		return
	}

	on, err := m.engine.ToggleBookmark(r.ID)
	switch {
	case err != nil:
		m.statusMsg = fmt.Sprintf("Bookmark failed: %v", err)
	case on:
		m.statusMsg = "Bookmarked " + r.DisplayTitle()
	default:
		m.statusMsg = "Removed bookmark " + r.DisplayTitle()
	}
}

// moveTo places the cursor at index, clamped to the visible list, and
// reports the position to the engine so it can display the next page.
func (m *Model) moveTo(index int) {
	visible := len(m.engine.State().Visible())
	if visible == 0 {
		m.cursor = 0
		return
	}

	m.cursor = max(0, min(index, visible-1))
	m.engine.NearEnd(m.cursor)
	m.ensureCursorVisible()
}

func (m *Model) resetCursor() {
	m.cursor = 0
	m.viewport = 0
}

func (m *Model) ensureCursorVisible() {
	visible := m.visibleLines()
	if m.cursor < m.viewport {
		m.viewport = m.cursor
	}
	if m.cursor >= m.viewport+visible {
		m.viewport = m.cursor - visible + 1
	}
}

func (m Model) visibleLines() int {
	if m.height == 0 {
		return 20
	}
	// Reserve lines for header and footer
	return max(1, m.height-4)
}

// selected returns the record under the cursor.
func (m Model) selected() (*hackathon.Record, bool) {
	visible := m.engine.State().Visible()
	if m.cursor >= 0 && m.cursor < len(visible) {
		return visible[m.cursor], true
	}
	return nil, false
}

// next returns the element after current in cycle, wrapping around.
func next[T comparable](cycle []T, current T) T {
	i := slices.Index(cycle, current)
	return cycle[(i+1)%len(cycle)]
}
