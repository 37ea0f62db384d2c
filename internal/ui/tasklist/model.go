package tasklist

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/haianh3623/TEAManage/internal/api"
	"github.com/haianh3623/TEAManage/internal/keys"
	"github.com/haianh3623/TEAManage/internal/model"
	"github.com/haianh3623/TEAManage/internal/store"
	"github.com/haianh3623/TEAManage/internal/theme"
)

// TasksLoadedMsg is sent when a page of tasks has been loaded.
// FromCache is true when the server was unreachable and the local
// cache served the list instead.
type TasksLoadedMsg struct {
	Tasks      []model.Task
	Page       int
	TotalPages int
	FromCache  bool
	Err        error
}

// SelectedTaskMsg is sent when a user selects a task to view details.
type SelectedTaskMsg struct {
	TaskID int64
}

// statusFilters are the task status values cycled by Tab. The empty
// string means no status filter.
var statusFilters = []string{
	"",
	model.StatusNotStarted,
	model.StatusInProgress,
	model.StatusOnHold,
	model.StatusCompleted,
	model.StatusOverdue,
}

// Model is the main task list view component.
type Model struct {
	list        list.Model
	client      *api.Client
	store       store.Store
	keys        *keys.KeyMap
	userID      int64
	opts        api.TaskListOptions
	statusIndex int
	page        int
	totalPages  int
	fromCache   bool
	loadErr     error
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new task list model.
func New(
	client *api.Client,
	s store.Store,
	k *keys.KeyMap,
	width, height int,
) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "My Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		client:      client,
		store:       s,
		keys:        k,
		opts:        api.TaskListOptions{Size: 12},
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// SetUser binds the list to the authenticated user. The cache fallback
// is scoped per user.
func (m *Model) SetUser(userID int64) {
	m.userID = userID
}

// SetProjectFilter restricts the list to a single project; zero clears
// the restriction.
func (m *Model) SetProjectFilter(projectID int64) tea.Cmd {
	m.opts.ProjectID = projectID
	m.opts.Page = 0
	return m.LoadTasks()
}

// Init returns a command that loads the initial set of tasks.
func (m Model) Init() tea.Cmd {
	return m.LoadTasks()
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		m.page = msg.Page
		m.totalPages = msg.TotalPages
		m.fromCache = msg.FromCache
		m.loadErr = msg.Err
		items := make([]list.Item, len(msg.Tasks))
		for i, task := range msg.Tasks {
			items[i] = TaskItem{Task: task}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.opts.Search = m.searchInput.Value()
		m.opts.Page = 0
		return m, m.LoadTasks()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.opts.Search = ""
		m.opts.Page = 0
		return m, m.LoadTasks()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTaskMsg{TaskID: item.Task.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.LoadTasks()
	}

	switch msg.String() {
	case "tab":
		m.statusIndex = (m.statusIndex + 1) % len(statusFilters)
		m.opts.Status = statusFilters[m.statusIndex]
		m.opts.Page = 0
		return m, m.LoadTasks()

	case "]", "right":
		if m.page+1 < m.totalPages {
			m.opts.Page = m.page + 1
			return m, m.LoadTasks()
		}
		return m, nil

	case "[", "left":
		if m.page > 0 {
			m.opts.Page = m.page - 1
			return m, m.LoadTasks()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// InSearchMode reports whether the search input has focus.
func (m Model) InSearchMode() bool {
	return m.searchMode
}

// SelectedTask returns the currently highlighted task, if any.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// FilterSummary describes the active filters for the status bar; empty
// when no filter is active.
func (m Model) FilterSummary() string {
	var parts []string
	if m.opts.Status != "" {
		parts = append(parts, "status: "+m.opts.Status)
	}
	if m.opts.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", m.opts.Search))
	}
	if m.opts.ProjectID != 0 {
		parts = append(parts, fmt.Sprintf("project: %d", m.opts.ProjectID))
	}
	if len(parts) == 0 {
		return ""
	}
	summary := parts[0]
	for _, p := range parts[1:] {
		summary += " | " + p
	}
	return summary
}

// View renders the task list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	var banner string
	if m.fromCache {
		banner = theme.BannerStyle.Render(
			"Server unreachable — showing cached tasks.",
		)
	} else if m.loadErr != nil {
		banner = theme.ErrorStyle.Render(
			"Could not load tasks: " + m.loadErr.Error(),
		)
	}

	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	}

	if m.totalPages > 1 {
		pager := theme.HelpStyle.Render(
			fmt.Sprintf("page %d/%d  [/] prev  ]/→ next", m.page+1, m.totalPages),
		)
		body = lipgloss.JoinVertical(lipgloss.Left, body, pager)
	}

	if banner != "" {
		return lipgloss.JoinVertical(lipgloss.Left, banner, body)
	}
	return body
}

// renderEmptyState shows guidance text when no tasks are available.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 4).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.FilterSummary() != "" {
		return style.Render("No matching tasks.\nTry adjusting your filters.")
	}
	return style.Render("No tasks assigned to you yet.")
}

// LoadTasks returns a tea.Cmd that fetches the current page from the
// server, falling back to the local cache when the call fails.
func (m Model) LoadTasks() tea.Cmd {
	client := m.client
	s := m.store
	opts := m.opts
	userID := m.userID

	return func() tea.Msg {
		page, err := client.MyTasks(context.Background(), opts)
		if err == nil {
			if s != nil && userID != 0 {
				// Best-effort cache refresh for offline fallback.
				_ = s.UpsertTasks(context.Background(), userID, page.Content)
			}
			return TasksLoadedMsg{
				Tasks:      page.Content,
				Page:       page.Number,
				TotalPages: page.TotalPages,
			}
		}

		if s == nil || userID == 0 {
			return TasksLoadedMsg{Err: err}
		}

		filter := store.TaskFilter{}
		if opts.ProjectID != 0 {
			pid := opts.ProjectID
			filter.ProjectID = &pid
		}
		if opts.Status != "" {
			status := opts.Status
			filter.Status = &status
		}
		if opts.Search != "" {
			q := opts.Search
			filter.Query = &q
		}

		cached, cacheErr := s.Tasks(context.Background(), userID, filter)
		if cacheErr != nil || len(cached) == 0 {
			return TasksLoadedMsg{Err: err}
		}
		return TasksLoadedMsg{Tasks: cached, TotalPages: 1, FromCache: true}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
