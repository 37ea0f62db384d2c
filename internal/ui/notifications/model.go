package notifications

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/haianh3623/TEAManage/internal/keys"
	"github.com/haianh3623/TEAManage/internal/model"
	"github.com/haianh3623/TEAManage/internal/notify"
	"github.com/haianh3623/TEAManage/internal/theme"
)

// MarkReadRequestMsg asks the app to mark one notification as read.
type MarkReadRequestMsg struct {
	ID int64
}

// MarkAllReadRequestMsg asks the app to mark every notification as read.
type MarkAllReadRequestMsg struct{}

// ReloadRequestMsg asks the app to refetch the unread list.
type ReloadRequestMsg struct{}

// OpenRelatedMsg asks the app to open the task a notification refers to.
type OpenRelatedMsg struct {
	TaskID int64
}

// Model is the notification feed view. The feed itself lives in the
// notification channel owned by the app; this view only renders the
// snapshot pushed down after every channel event.
type Model struct {
	keys *keys.KeyMap

	items     []model.Notification
	unread    int
	state     notify.State
	cursor    int
	fromCache bool
	loadErr   error

	width  int
	height int
}

// New creates a new notification feed model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetFeed replaces the rendered snapshot.
func (m *Model) SetFeed(items []model.Notification, unread int) {
	m.items = items
	m.unread = unread
	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// SetState records the connection state for the header line.
func (m *Model) SetState(state notify.State) {
	m.state = state
}

// SetFromCache flags the snapshot as served from the local cache.
func (m *Model) SetFromCache(fromCache bool) {
	m.fromCache = fromCache
}

// SetError records a load failure for display; nil clears it.
func (m *Model) SetError(err error) {
	m.loadErr = err
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the notification feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.MarkRead):
		if n, ok := m.current(); ok && !n.IsRead {
			id := n.ID
			return m, func() tea.Msg { return MarkReadRequestMsg{ID: id} }
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.MarkAllRead):
		return m, func() tea.Msg { return MarkAllReadRequestMsg{} }

	case key.Matches(keyMsg, m.keys.Refresh):
		return m, func() tea.Msg { return ReloadRequestMsg{} }

	case key.Matches(keyMsg, m.keys.Select):
		if n, ok := m.current(); ok && n.RelatedType == model.RelatedTask {
			taskID := n.RelatedID
			return m, func() tea.Msg { return OpenRelatedMsg{TaskID: taskID} }
		}
		return m, nil
	}

	return m, nil
}

// current returns the notification under the cursor.
func (m Model) current() (model.Notification, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return model.Notification{}, false
	}
	return m.items[m.cursor], true
}

// View renders the notification feed.
func (m Model) View() string {
	var b strings.Builder

	header := fmt.Sprintf("Notifications (%d unread) — %s", m.unread, m.state)
	b.WriteString(theme.HeaderStyle.Render(header))
	b.WriteString("\n\n")

	if m.fromCache {
		b.WriteString(theme.BannerStyle.Render(
			"Server unreachable — showing cached notifications.",
		))
		b.WriteString("\n\n")
	} else if m.loadErr != nil {
		b.WriteString(theme.ErrorStyle.Render(
			"Could not load notifications: " + m.loadErr.Error(),
		))
		b.WriteString("\n\n")
	}

	if len(m.items) == 0 {
		b.WriteString(theme.HelpStyle.Render("You're all caught up."))
		return b.String()
	}

	for i, n := range m.items {
		b.WriteString(m.renderItem(n, i == m.cursor))
		b.WriteString("\n")
	}

	return b.String()
}

// renderItem draws one notification line: unread dot, message, type
// badge, relative time.
func (m Model) renderItem(n model.Notification, selected bool) string {
	dot := " "
	if !n.IsRead {
		dot = lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("●")
	}

	message := n.Message
	if n.IsRead {
		message = theme.ReadStyle.Render(message)
	} else {
		message = theme.UnreadStyle.Render(message)
	}

	badge := ""
	if n.Type != "" {
		badge = " " + theme.NotificationStyle(n.Type).Render("["+string(n.Type)+"]")
	}

	when := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render("  " + theme.RelativeTime(n.CreatedAt))

	line := fmt.Sprintf("%s %s%s%s", dot, message, badge, when)

	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
