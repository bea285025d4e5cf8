package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/pfrederiksen/hackfind/internal/filter"
)

// Key bindings
var keys = struct {
	Quit       key.Binding
	Help       key.Binding
	Escape     key.Binding
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Home       key.Binding
	End        key.Binding
	Enter      key.Binding
	Search     key.Binding
	Status     key.Binding
	Sort       key.Binding
	Scope      key.Binding
	Sources    key.Binding
	Toggle     key.Binding
	AllSources key.Binding
	Bookmark   key.Binding
	Reset      key.Binding
	Reload     key.Binding
}{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Help:       key.NewBinding(key.WithKeys("?")),
	Escape:     key.NewBinding(key.WithKeys("esc")),
	Up:         key.NewBinding(key.WithKeys("up", "k")),
	Down:       key.NewBinding(key.WithKeys("down", "j")),
	PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u")),
	PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
	Home:       key.NewBinding(key.WithKeys("home", "g")),
	End:        key.NewBinding(key.WithKeys("end", "G")),
	Enter:      key.NewBinding(key.WithKeys("enter")),
	Search:     key.NewBinding(key.WithKeys("/")),
	Status:     key.NewBinding(key.WithKeys("s")),
	Sort:       key.NewBinding(key.WithKeys("o")),
	Scope:      key.NewBinding(key.WithKeys("x")),
	Sources:    key.NewBinding(key.WithKeys("f")),
	Toggle:     key.NewBinding(key.WithKeys(" ", "space", "enter")),
	AllSources: key.NewBinding(key.WithKeys("a")),
	Bookmark:   key.NewBinding(key.WithKeys("b")),
	Reset:      key.NewBinding(key.WithKeys("c")),
	Reload:     key.NewBinding(key.WithKeys("r")),
}

// statusCycle is the order the status key steps through.
var statusCycle = []filter.StatusFilter{
	filter.StatusAll,
	filter.StatusUpcoming,
	filter.StatusLive,
	filter.StatusOnline,
	filter.StatusInPerson,
}
