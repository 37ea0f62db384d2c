package taskdetail

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/haianh3623/TEAManage/internal/api"
	"github.com/haianh3623/TEAManage/internal/hierarchy"
	"github.com/haianh3623/TEAManage/internal/keys"
	"github.com/haianh3623/TEAManage/internal/model"
	"github.com/haianh3623/TEAManage/internal/theme"
)

// BackMsg signals the detail view should close.
type BackMsg struct{}

// EditRequestMsg asks the app to open the edit form for a task.
type EditRequestMsg struct {
	Task model.Task
}

// DeleteRequestMsg asks the app to delete a task.
type DeleteRequestMsg struct {
	TaskID int64
}

// HierarchyLoadedMsg carries the fetched task hierarchy. Sample is true
// when the fetch failed and the built-in sample dataset is shown
// instead. Err is only set when even the sample tree could not be
// built, which means the parent links were malformed.
type HierarchyLoadedMsg struct {
	RootID int64
	Tasks  []model.Task
	Sample bool
	Err    error
}

// roleLoadedMsg carries the viewer's role in the task's project.
type roleLoadedMsg struct {
	role model.Role
}

// Model is the task detail view: the selected task's fields plus its
// collapsible subtask hierarchy.
type Model struct {
	client *api.Client
	keys   *keys.KeyMap

	userID int64
	role   model.Role

	rootID  int64
	tree    *hierarchy.Tree
	rows    []hierarchy.Row
	cursor  int
	sample  bool
	loading bool
	loadErr error

	width  int
	height int
}

// New creates a new task detail model.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		client: client,
		keys:   k,
		role:   model.RoleMember,
		width:  width,
		height: height,
	}
}

// SetUser binds the view to the authenticated user for role lookups.
func (m *Model) SetUser(userID int64) {
	m.userID = userID
}

// Show resets the view for a new task and returns the commands that
// load its hierarchy and the viewer's project role.
func (m *Model) Show(task model.Task) tea.Cmd {
	m.rootID = task.ID
	m.tree = nil
	m.rows = nil
	m.cursor = 0
	m.sample = false
	m.loading = true
	m.loadErr = nil
	m.role = model.RoleMember

	return tea.Batch(
		m.loadHierarchy(task.ID),
		m.loadRole(task.ProjectID),
	)
}

// loadHierarchy fetches the flat hierarchy for the root task. A failed
// fetch falls back to the sample dataset so the view stays usable.
func (m Model) loadHierarchy(rootID int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		tasks, err := client.TaskHierarchy(context.Background(), rootID)
		if err != nil {
			return HierarchyLoadedMsg{
				RootID: rootID,
				Tasks:  hierarchy.SampleTasks(rootID),
				Sample: true,
			}
		}
		return HierarchyLoadedMsg{RootID: rootID, Tasks: tasks}
	}
}

// loadRole resolves the viewer's role in the project that owns the task.
func (m Model) loadRole(projectID int64) tea.Cmd {
	client := m.client
	userID := m.userID
	return func() tea.Msg {
		if userID == 0 || projectID == 0 {
			return roleLoadedMsg{role: model.RoleMember}
		}
		role, err := client.MyRoleInProject(
			context.Background(), projectID, userID,
		)
		if err != nil {
			return roleLoadedMsg{role: model.RoleMember}
		}
		return roleLoadedMsg{role: role}
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case HierarchyLoadedMsg:
		if msg.RootID != m.rootID {
			// Stale response for a task we already navigated away from.
			return m, nil
		}
		m.loading = false
		m.sample = msg.Sample
		tree, err := hierarchy.Build(msg.Tasks, msg.RootID)
		if err != nil {
			m.tree = nil
			m.rows = nil
			m.loadErr = err
			return m, nil
		}
		m.tree = tree
		m.refreshRows()
		return m, nil

	case roleLoadedMsg:
		m.role = msg.role
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

// handleKeys processes key input for the detail view.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleNode), key.Matches(msg, m.keys.Select):
		if row, ok := m.currentRow(); ok && row.Node.HasChildren() {
			m.tree.Toggle(row.Node.Task.ID)
			m.refreshRows()
		}
		return m, nil

	case key.Matches(msg, m.keys.ExpandAll):
		if m.tree != nil {
			m.tree.ExpandAll()
			m.refreshRows()
		}
		return m, nil

	case key.Matches(msg, m.keys.CollapseAll):
		if m.tree != nil {
			m.tree.CollapseAll()
			m.refreshRows()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.rootID != 0 {
			m.loading = true
			return m, m.loadHierarchy(m.rootID)
		}
		return m, nil

	case key.Matches(msg, m.keys.EditTask):
		if !m.role.CanManageTasks() {
			return m, nil
		}
		if row, ok := m.currentRow(); ok {
			task := row.Node.Task
			return m, func() tea.Msg { return EditRequestMsg{Task: task} }
		}
		return m, nil

	case key.Matches(msg, m.keys.DeleteTask):
		if !m.role.CanManageTasks() {
			return m, nil
		}
		if row, ok := m.currentRow(); ok {
			id := row.Node.Task.ID
			return m, func() tea.Msg { return DeleteRequestMsg{TaskID: id} }
		}
		return m, nil
	}

	return m, nil
}

// refreshRows recomputes the visible rows and clamps the cursor after
// an expand-state change.
func (m *Model) refreshRows() {
	m.rows = m.tree.Visible()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// currentRow returns the row under the cursor.
func (m Model) currentRow() (hierarchy.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return hierarchy.Row{}, false
	}
	return m.rows[m.cursor], true
}

// View renders the hierarchy panel.
func (m Model) View() string {
	if m.loading {
		return theme.DetailPanelStyle.
			Width(m.width - 4).
			Render("Loading hierarchy...")
	}

	if m.loadErr != nil {
		msg := "Could not display hierarchy: " + m.loadErr.Error()
		if hierarchy.IsMalformed(m.loadErr) {
			msg = "Malformed hierarchy: " + m.loadErr.Error()
		}
		return theme.DetailPanelStyle.
			Width(m.width - 4).
			Render(theme.ErrorStyle.Render(msg))
	}

	if m.tree == nil {
		return ""
	}

	var b strings.Builder

	if m.sample {
		b.WriteString(theme.BannerStyle.Render(
			"Server unreachable — showing sample data.",
		))
		b.WriteString("\n\n")
	}

	for i, row := range m.rows {
		b.WriteString(m.renderRow(row, i == m.cursor))
		b.WriteString("\n")
	}

	summary := theme.HelpStyle.Render(fmt.Sprintf(
		"%d of %d tasks shown", len(m.rows), m.tree.Count(),
	))
	b.WriteString("\n")
	b.WriteString(summary)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(b.String())
}

// renderRow draws a single hierarchy line: indent, expand marker,
// status and priority badges, title, progress, deadline.
func (m Model) renderRow(row hierarchy.Row, selected bool) string {
	t := row.Node.Task

	indent := strings.Repeat("  ", row.Depth)

	marker := " "
	if row.Node.HasChildren() {
		if m.tree.IsExpanded(t.ID) {
			marker = "▾"
		} else {
			marker = "▸"
		}
	}

	statusBadge := theme.StatusStyle(t.Status).Render(t.Status)
	priBadge := theme.PriorityStyle(t.Priority).Render(
		strings.ToUpper(t.PriorityLabel()),
	)

	progress := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(fmt.Sprintf(" %d%%", t.Progress))

	deadline := ""
	if t.Deadline != nil {
		deadline = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" due " + t.Deadline.Format("Jan 02"))
	}

	overdue := ""
	if t.IsOverdue() {
		overdue = theme.ErrorStyle.Render(" OVERDUE")
	}

	title := t.Title
	if t.ID == m.tree.CurrentID {
		title = theme.UnreadStyle.Render(title)
	}

	line := fmt.Sprintf(
		"%s%s %s %s %s%s%s%s",
		indent, marker, statusBadge, priBadge, title,
		progress, deadline, overdue,
	)

	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// Role returns the viewer's resolved role for the current project.
func (m Model) Role() model.Role {
	return m.role
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
