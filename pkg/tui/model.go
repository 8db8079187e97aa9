package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vango-dev/dropdown/pkg/dropdown"
	"github.com/vango-dev/dropdown/pkg/vdom"
)

// Layout. The box is drawn at column 0 below the title and a blank line.
const (
	boxTop     = 2
	innerWidth = 20
)

// DefaultItems are the menu entries used when Options.Items is empty.
var DefaultItems = []string{"Rename", "Duplicate", "Archive", "Delete"}

// Options configures the terminal demo.
type Options struct {
	Open      bool
	Hoverable bool
	Items     []string
}

type styles struct {
	title      lipgloss.Style
	box        lipgloss.Style
	trigger    lipgloss.Style
	item       lipgloss.Style
	itemActive lipgloss.Style
	status     lipgloss.Style
	help       lipgloss.Style
}

func defaultStyles() styles {
	line := lipgloss.NewStyle().Width(innerWidth)
	return styles{
		title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		box:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")),
		trigger:    line.Bold(true),
		item:       line,
		itemActive: line.Reverse(true),
		status:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		help:       lipgloss.NewStyle().Faint(true),
	}
}

// Model hosts one dropdown in the terminal. Mouse motion into and out of
// the box is hover, a left click outside the box is an outside click, a
// click on the trigger row toggles and esc is Escape.
type Model struct {
	dd       *dropdown.Dropdown
	items    []string
	cursor   int
	hovering bool
	selected string
	last     *dropdown.Transition
	styles   styles
	width    int
	height   int
}

var _ tea.Model = (*Model)(nil)

// New creates the model.
func New(opts Options) *Model {
	m := &Model{
		items:  opts.Items,
		styles: defaultStyles(),
	}
	if len(m.items) == 0 {
		m.items = DefaultItems
	}
	m.dd = dropdown.New(
		dropdown.Open(opts.Open),
		dropdown.Hoverable(opts.Hoverable),
		dropdown.OnTransition(func(tr dropdown.Transition) {
			m.last = &tr
			if !tr.State.Open {
				m.cursor = 0
			}
		}),
	)
	return m
}

// Dropdown returns the hosted dropdown.
func (m *Model) Dropdown() *dropdown.Dropdown {
	return m.dd
}

// Selected returns the last chosen item.
func (m *Model) Selected() string {
	return m.selected
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.dd.Mount()
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	open := m.dd.State().Open
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "esc":
		m.dd.HandleKeyDown(vdom.KeyboardEvent{Key: "Escape", Code: "Escape"})
	case "enter", " ":
		if open {
			m.choose(m.cursor)
		} else {
			m.dd.Controls().Open()
		}
	case "up", "k":
		if open && m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if open && m.cursor < len(m.items)-1 {
			m.cursor++
		}
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	inside := m.inBox(msg.X, msg.Y)

	if msg.Action == tea.MouseActionMotion {
		if inside == m.hovering {
			return
		}
		m.hovering = inside
		if inside {
			m.dd.HandleMouseEnter()
		} else {
			m.dd.HandleMouseLeave()
		}
		return
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	if !inside {
		m.dd.HandleOutsideClick()
		return
	}
	// Row 0 inside the border is the trigger; items follow.
	row := msg.Y - boxTop - 1
	switch {
	case row == 0:
		m.dd.Controls().Toggle()
	case m.dd.State().Open && row >= 1 && row <= len(m.items):
		m.choose(row - 1)
	}
}

// choose selects an item and closes the dropdown.
func (m *Model) choose(i int) {
	if i < 0 || i >= len(m.items) {
		return
	}
	m.selected = m.items[i]
	m.dd.Controls().Close()
}

// boxHeight is the rendered box height including its border.
func (m *Model) boxHeight() int {
	h := 2 + 1
	if m.dd.State().Open {
		h += len(m.items)
	}
	return h
}

func (m *Model) inBox(x, y int) bool {
	return x >= 0 && x < innerWidth+2 && y >= boxTop && y < boxTop+m.boxHeight()
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Dropdown demo"))
	b.WriteString("\n\n")
	b.WriteString(m.renderBox())
	b.WriteString("\n")
	b.WriteString(m.styles.status.Render(m.status()))
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render(m.help()))
	return b.String()
}

func (m *Model) renderBox() string {
	state := m.dd.State()
	arrow := "▾"
	if state.Open {
		arrow = "▴"
	}
	lines := []string{m.styles.trigger.Render("Actions " + arrow)}
	if state.Open {
		for i, item := range m.items {
			style := m.styles.item
			if i == m.cursor {
				style = m.styles.itemActive
			}
			lines = append(lines, style.Render(item))
		}
	}
	return m.styles.box.Render(strings.Join(lines, "\n"))
}

func (m *Model) status() string {
	selected := m.selected
	if selected == "" {
		selected = "nothing"
	}
	s := fmt.Sprintf("State: %s · Selected: %s", m.dd.State(), selected)
	if m.last != nil {
		s += fmt.Sprintf(" · Last: %s", m.last.Cause)
	}
	return s
}

func (m *Model) help() string {
	h := "click trigger: toggle · click outside / esc: close · enter: open/select · q: quit"
	if m.dd.Hoverable() {
		h += " · hover: open"
	}
	return h
}

// Run runs the terminal demo until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
