package help

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/haianh3623/TEAManage/internal/keys"
	"github.com/haianh3623/TEAManage/internal/theme"
)

// section is a titled group of bindings in the help overlay.
type section struct {
	title    string
	bindings []key.Binding
}

// Model is the help overlay view. Bindings are grouped by the part of
// the app they drive rather than flattened into one grid, so the
// hierarchy and notification keys are discoverable.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// sections returns the grouped bindings in display order.
func (m Model) sections() []section {
	k := m.keys
	return []section{
		{"Navigation", []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Quit}},
		{"Views", []key.Binding{
			k.ViewTasks, k.ViewProjects, k.ViewCalendar, k.ViewNotifications,
		}},
		{"Task hierarchy", []key.Binding{
			k.ToggleNode, k.ExpandAll, k.CollapseAll,
		}},
		{"Notifications", []key.Binding{k.MarkRead, k.MarkAllRead}},
		{"Tasks & session", []key.Binding{
			k.NewTask, k.EditTask, k.DeleteTask,
			k.Search, k.Refresh, k.Logout,
		}},
	}
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorBlue)

	keyStyle := lipgloss.NewStyle().Foreground(theme.ColorYellow)

	blocks := []string{titleStyle.Render("TEAManage — Keyboard Reference")}
	for _, s := range m.sections() {
		lines := []string{sectionStyle.Render(s.title)}
		for _, b := range s.bindings {
			h := b.Help()
			lines = append(lines, fmt.Sprintf(
				"  %s %s",
				keyStyle.Render(fmt.Sprintf("%-9s", h.Key)),
				theme.HelpStyle.Render(h.Desc),
			))
		}
		blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	blocks = append(blocks, m.help.ShortHelpView(m.keys.ShortHelp()))

	content := lipgloss.JoinVertical(lipgloss.Left, blocks...)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
