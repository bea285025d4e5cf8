package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pfrederiksen/hackfind/internal/engine"
	"github.com/pfrederiksen/hackfind/internal/hackathon"
)

// View implements tea.Model.
func (m Model) View() string {
	state := m.engine.State()

	var b strings.Builder
	b.WriteString(m.renderHeader(state))
	b.WriteString("\n")

	switch m.mode {
	case modeHelp:
		b.WriteString(renderHelp())
	case modeDetail:
		if r, ok := m.selected(); ok {
			b.WriteString(m.renderDetail(state, r))
		}
	case modeSources:
		b.WriteString(m.renderSources(state))
	default:
		b.WriteString(m.renderList(state))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar(state))
	return b.String()
}

func (m Model) renderHeader(state engine.State) string {
	left := "HACKFIND │ " + state.Criteria.String()
	if n := state.BookmarkCount(); n > 0 {
		left += fmt.Sprintf(" │ ★ %d", n)
	}

	right := ""
	if m.loading {
		right = m.spinner.View() + " Loading"
	}

	padding := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right)-4)
	return headerStyle.Render(left + strings.Repeat(" ", padding) + right)
}

func (m Model) renderList(state engine.State) string {
	switch {
	case !state.Loaded && m.loading:
		return fmt.Sprintf("\n  %s Loading hackathons...\n", m.spinner.View())
	case state.Failed():
		return errorStyle.Render(fmt.Sprintf("Failed to load hackathons: %v", state.LoadErr)) +
			"\n" + helpStyle.Render("  Press r to retry or q to quit")
	case !state.Loaded:
		return helpStyle.Render("  Nothing loaded")
	case len(state.Records) == 0:
		return helpStyle.Render("  No hackathons available.")
	case len(state.Ordered) == 0:
		return helpStyle.Render("  No hackathons match your filters. Press c to clear them.")
	}

	visible := state.Visible()
	end := min(m.viewport+m.visibleLines(), len(visible))

	var b strings.Builder
	for i := m.viewport; i < end; i++ {
		b.WriteString(m.renderItem(state, visible[i], i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderItem(state engine.State, r *hackathon.Record, selected bool) string {
	badge := sourceBadgeStyle.Render(fmt.Sprintf("[%s]", truncate(r.Source, 10)))

	status := string(hackathon.ClassifyStatus(r, state.Now))
	statusText := statusStyles[status].Render(fmt.Sprintf("%-8s", status))

	prize := prizeStyle.Render(truncate(hackathon.NormalizePrize(r.PrizePool).Display, 16))
	dates := dateStyle.Render(hackathon.FormatDateRange(r.StartDate, r.EndDate))

	mark := " "
	if state.IsBookmarked(r.ID) {
		mark = bookmarkStyle.Render("★")
	}

	maxTitleLen := max(20, m.width-70)
	title := fmt.Sprintf("%-*s", maxTitleLen, truncate(r.DisplayTitle(), maxTitleLen))

	line := fmt.Sprintf("%s %s%s %s  %s  %s", mark, badge, title, statusText, prize, dates)
	if selected {
		return itemSelectedStyle.Render(line)
	}
	return itemNormalStyle.Render(line)
}

func (m Model) renderDetail(state engine.State, r *hackathon.Record) string {
	var b strings.Builder

	title := r.DisplayTitle()
	if state.IsBookmarked(r.ID) {
		title = "★ " + title
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
	b.WriteString("\n\n")

	field := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		b.WriteString(fmt.Sprintf("%-13s %s\n", label+":", value))
	}

	field("Source", r.Source)
	field("Organizer", r.Organizer)
	field("Status", string(hackathon.ClassifyStatus(r, state.Now)))
	field("Dates", hackathon.FormatDateRange(r.StartDate, r.EndDate))
	if r.Deadline != "" {
		field("Deadline", hackathon.FormatDate(r.Deadline))
	}
	field("Location", hackathon.NormalizeLocation(r.Location))
	field("Mode", r.EffectiveMode())
	field("Prize", hackathon.NormalizePrize(r.PrizePool).Display)
	if n := r.ParticipantCount(); n > 0 {
		field("Participants", fmt.Sprintf("%d", n))
	}
	field("Team", r.TeamSize())
	field("Tags", strings.Join(r.Tags, ", "))
	field("URL", r.URL)

	if text := hackathon.PlainText(r.Description); text != "" {
		width := max(40, m.width-8)
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(text))
		b.WriteString("\n")
	}

	return detailStyle.Render(b.String())
}

func (m Model) renderSources(state engine.State) string {
	var b strings.Builder
	b.WriteString("  Sources (space: toggle, a: all, esc: back)\n\n")

	selected := state.Criteria.SelectedSources()
	for i, name := range state.Sources {
		checked := len(selected) == 0 || state.Criteria.Sources[name]
		box := "[ ]"
		if checked {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, name)
		if i == m.sourceCursor {
			b.WriteString(itemSelectedStyle.Render(line))
		} else {
			b.WriteString(itemNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStatusBar(state engine.State) string {
	status := state.Summary()
	if state.HasMore() {
		status += " │ scroll for more"
	}
	if m.statusMsg != "" {
		status += " │ " + m.statusMsg
	}

	hint := "j/k: move  /: search  s: status  o: sort  f: sources  b: bookmark  ?: help  q: quit"
	if m.mode == modeSearch {
		hint = m.input.View()
	}

	return statusBarStyle.Render(status) + "\n" + helpStyle.Render(hint)
}

func renderHelp() string {
	help := `
  HACKFIND

  NAVIGATION
    j/k, ↑/↓     Move cursor
    ctrl+d/u     Page down/up
    g/G          Jump to top/bottom
    enter        Show details

  FILTERS
    /            Search (enter keeps, esc reverts)
    x            Toggle broad search (location, source, tags)
    s            Cycle status: all, upcoming, live, online, in-person
    o            Cycle sort: relevance, prize, deadline, participants, latest, title
    f            Choose sources
    c            Clear all filters

  OTHER
    b            Toggle bookmark
    r            Reload from the API
    q            Quit

  Press any key to return
`
	return helpStyle.Render(help)
}
