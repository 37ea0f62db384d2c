package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/haianh3623/TEAManage/internal/api"
	"github.com/haianh3623/TEAManage/internal/keys"
	"github.com/haianh3623/TEAManage/internal/model"
	"github.com/haianh3623/TEAManage/internal/theme"
)

// deadlinesLoadedMsg carries the tasks whose deadlines populate the grid.
type deadlinesLoadedMsg struct {
	tasks []model.Task
	err   error
}

// Model is the deadline calendar view: a month grid with the user's
// task deadlines marked, plus the list of tasks due that month.
type Model struct {
	client *api.Client
	keys   *keys.KeyMap

	month   time.Time // first day of the displayed month
	tasks   []model.Task
	loadErr error

	width  int
	height int
}

// New creates a new calendar model showing the current month.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	now := time.Now()
	return Model{
		client: client,
		keys:   k,
		month:  time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		width:  width,
		height: height,
	}
}

// Init loads the deadlines.
func (m Model) Init() tea.Cmd {
	return m.LoadDeadlines()
}

// Update handles messages for the calendar view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case deadlinesLoadedMsg:
		m.loadErr = msg.err
		m.tasks = msg.tasks
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Refresh):
			return m, m.LoadDeadlines()
		}

		switch msg.String() {
		case "h", "left", "[":
			m.month = m.month.AddDate(0, -1, 0)
			return m, nil
		case "l", "right", "]":
			m.month = m.month.AddDate(0, 1, 0)
			return m, nil
		case "t":
			now := time.Now()
			m.month = time.Date(
				now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location(),
			)
			return m, nil
		}
	}

	return m, nil
}

// LoadDeadlines returns a command that fetches the user's tasks for the
// deadline grid. One large page is enough; tasks without deadlines are
// simply never marked.
func (m Model) LoadDeadlines() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		page, err := client.MyTasks(
			context.Background(),
			api.TaskListOptions{Size: 200},
		)
		if err != nil {
			return deadlinesLoadedMsg{err: err}
		}
		return deadlinesLoadedMsg{tasks: page.Content}
	}
}

// dueByDay groups the displayed month's tasks by day of month.
func (m Model) dueByDay() map[int][]model.Task {
	due := make(map[int][]model.Task)
	for _, t := range m.tasks {
		if t.Deadline == nil {
			continue
		}
		d := t.Deadline.Local()
		if d.Year() == m.month.Year() && d.Month() == m.month.Month() {
			due[d.Day()] = append(due[d.Day()], t)
		}
	}
	return due
}

// View renders the month grid and the month's due list.
func (m Model) View() string {
	var b strings.Builder

	title := theme.HeaderStyle.Render(m.month.Format("January 2006"))
	b.WriteString(title)
	b.WriteString("\n\n")

	if m.loadErr != nil {
		b.WriteString(theme.ErrorStyle.Render(
			"Could not load deadlines: " + m.loadErr.Error(),
		))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderGrid())
	b.WriteString("\n")
	b.WriteString(m.renderDueList())
	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("h/l change month | t today"))

	return b.String()
}

// renderGrid draws the week-by-week day grid. Days with deadlines get a
// marker; overdue days render red, today is highlighted.
func (m Model) renderGrid() string {
	due := m.dueByDay()
	now := time.Now()
	today := 0
	if now.Year() == m.month.Year() && now.Month() == m.month.Month() {
		today = now.Day()
	}

	var b strings.Builder

	b.WriteString(theme.HelpStyle.Render(" Mo  Tu  We  Th  Fr  Sa  Su"))
	b.WriteString("\n")

	// Monday-first column for the 1st of the month.
	weekday := (int(m.month.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("    ", weekday))

	daysInMonth := m.month.AddDate(0, 1, -1).Day()
	col := weekday

	for day := 1; day <= daysInMonth; day++ {
		cell := fmt.Sprintf("%3d", day)

		style := lipgloss.NewStyle()
		if tasks, ok := due[day]; ok {
			cell += "•"
			style = style.Bold(true).Foreground(theme.ColorYellow)
			for _, t := range tasks {
				if t.IsOverdue() {
					style = style.Foreground(theme.ColorRed)
					break
				}
			}
		} else {
			cell += " "
		}

		if day == today {
			style = style.Reverse(true)
		}

		b.WriteString(style.Render(cell))

		col++
		if col%7 == 0 {
			b.WriteString("\n")
		}
	}
	if col%7 != 0 {
		b.WriteString("\n")
	}

	return b.String()
}

// renderDueList lists the month's deadlines in day order.
func (m Model) renderDueList() string {
	due := m.dueByDay()
	if len(due) == 0 {
		return theme.HelpStyle.Render("No deadlines this month.")
	}

	daysInMonth := m.month.AddDate(0, 1, -1).Day()

	var b strings.Builder
	for day := 1; day <= daysInMonth; day++ {
		tasks, ok := due[day]
		if !ok {
			continue
		}
		for _, t := range tasks {
			date := lipgloss.NewStyle().
				Foreground(theme.ColorGray).
				Render(fmt.Sprintf("%s %2d", m.month.Format("Jan"), day))
			statusBadge := theme.StatusStyle(t.Status).Render(t.Status)
			line := fmt.Sprintf("%s  %s %s", date, statusBadge, t.Title)
			if t.IsOverdue() {
				line += theme.ErrorStyle.Render(" OVERDUE")
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
