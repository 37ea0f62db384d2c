package projects

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/haianh3623/TEAManage/internal/api"
	"github.com/haianh3623/TEAManage/internal/keys"
	"github.com/haianh3623/TEAManage/internal/model"
	"github.com/haianh3623/TEAManage/internal/theme"
)

// ProjectSelectedMsg asks the app to filter the task list down to the
// chosen project.
type ProjectSelectedMsg struct {
	ProjectID int64
	Name      string
}

// projectsLoadedMsg is sent when the project list has been fetched.
type projectsLoadedMsg struct {
	projects []model.Project
	err      error
}

// projectItem wraps a model.Project for bubbles/list.
type projectItem struct {
	project model.Project
}

func (i projectItem) FilterValue() string { return i.project.Name }

// itemDelegate renders a single project line.
type itemDelegate struct{}

func (d itemDelegate) Height() int  { return 1 }
func (d itemDelegate) Spacing() int { return 0 }

func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(projectItem)
	if !ok {
		return
	}
	p := pi.project

	statusBadge := theme.StatusStyle(p.Status).Render(p.Status)

	deadline := ""
	if p.Deadline != nil {
		deadline = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" due " + p.Deadline.Format("Jan 02"))
	}

	members := ""
	if len(p.Members) > 0 {
		members = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(fmt.Sprintf(" %d members", len(p.Members)))
	}

	line := fmt.Sprintf("%s %s%s%s", statusBadge, p.Name, members, deadline)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the project list view.
type Model struct {
	list    list.Model
	client  *api.Client
	keys    *keys.KeyMap
	loadErr error
	width   int
	height  int
}

// New creates a new project list model.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height-2)
	l.Title = "Projects"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		client: client,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init loads the project list.
func (m Model) Init() tea.Cmd {
	return m.LoadProjects()
}

// Update handles messages for the project list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		m.loadErr = msg.err
		items := make([]list.Item, len(msg.projects))
		for i, p := range msg.projects {
			items[i] = projectItem{project: p}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			item, ok := m.list.SelectedItem().(projectItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return ProjectSelectedMsg{
					ProjectID: item.project.ID,
					Name:      item.project.Name,
				}
			}

		case key.Matches(msg, m.keys.Refresh):
			return m, m.LoadProjects()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the project list.
func (m Model) View() string {
	if m.loadErr != nil {
		banner := theme.ErrorStyle.Render(
			"Could not load projects: " + m.loadErr.Error(),
		)
		return lipgloss.JoinVertical(lipgloss.Left, banner, m.list.View())
	}
	return m.list.View()
}

// LoadProjects returns a command that fetches the user's projects.
func (m Model) LoadProjects() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		projects, err := client.Projects(context.Background())
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
