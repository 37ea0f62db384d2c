package tasklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/haianh3623/TEAManage/internal/model"
	"github.com/haianh3623/TEAManage/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{
		i.Task.Status,
		i.Task.PriorityLabel(),
		theme.RelativeTime(i.Task.UpdatedAt),
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering task lines.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	t := ti.Task

	// Prefix marks subtasks so nesting is visible even in the flat list.
	prefix := "●"
	if !t.IsRoot() {
		prefix = "└"
	}

	statusBadge := theme.StatusStyle(t.Status).Render(t.Status)
	priBadge := theme.PriorityStyle(t.Priority).Render(priorityTag(t.Priority))

	progress := ""
	if t.Progress > 0 {
		progress = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(fmt.Sprintf(" %d%%", t.Progress))
	}

	assignees := ""
	if len(t.AssignedUsers) > 0 {
		var initials []string
		for _, u := range t.AssignedUsers {
			initials = append(initials, u.Initials())
		}
		// Show max 3 assignees to keep the line from overflowing.
		if len(initials) > 3 {
			initials = initials[:3]
			initials = append(initials, "…")
		}
		assignees = lipgloss.NewStyle().
			Foreground(theme.ColorBlue).
			Render(" @" + strings.Join(initials, ","))
	}

	deadline := ""
	if t.Deadline != nil {
		deadline = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" " + t.Deadline.Format("Jan 02"))
	}

	overdue := ""
	if t.IsOverdue() {
		overdue = theme.ErrorStyle.Render(" OVERDUE")
	}

	line := fmt.Sprintf(
		"%s %s %s %s%s%s%s%s",
		prefix, statusBadge, priBadge, t.Title,
		progress, assignees, deadline, overdue,
	)

	if t.Status == model.StatusCompleted || t.Status == model.StatusCanceled {
		line = theme.ReadStyle.Render(line)
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// priorityTag returns a short display tag for the given priority level.
func priorityTag(p int) string {
	switch {
	case p >= model.PriorityHighMin:
		return "HIGH"
	case p >= model.PriorityMediumMin:
		return "MED"
	default:
		return "LOW"
	}
}
