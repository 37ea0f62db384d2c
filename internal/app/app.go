package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/haianh3623/TEAManage/internal/api"
	"github.com/haianh3623/TEAManage/internal/auth"
	"github.com/haianh3623/TEAManage/internal/keys"
	"github.com/haianh3623/TEAManage/internal/notify"
	"github.com/haianh3623/TEAManage/internal/store"
	"github.com/haianh3623/TEAManage/internal/ui"
	"github.com/haianh3623/TEAManage/internal/ui/calendar"
	helpview "github.com/haianh3623/TEAManage/internal/ui/help"
	loginview "github.com/haianh3623/TEAManage/internal/ui/login"
	"github.com/haianh3623/TEAManage/internal/ui/notifications"
	projectsview "github.com/haianh3623/TEAManage/internal/ui/projects"
	"github.com/haianh3623/TEAManage/internal/ui/taskdetail"
	"github.com/haianh3623/TEAManage/internal/ui/taskform"
	"github.com/haianh3623/TEAManage/internal/ui/tasklist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewTasks
	ViewDetail
	ViewProjects
	ViewCalendar
	ViewNotifications
	ViewTaskCreate
	ViewTaskEdit
	ViewHelp
)

// taskLoadedMsg carries a task fetched for navigation, whether from
// the task list or from a notification. fromCache marks a task served
// by the local cache because the server was unreachable.
type taskLoadedMsg struct {
	task      *tasklist.TaskItem
	fromCache bool
	err       error
}

// taskDeletedMsg reports a delete mutation.
type taskDeletedMsg struct {
	taskID int64
	err    error
}

// Model is the root Bubble Tea model that manages view routing, the
// session lifecycle, and the notification channel.
type Model struct {
	currentView  ViewState
	previousView ViewState

	layout  ui.Layout
	client  *api.Client
	store   store.Store
	channel *notify.Channel
	session *auth.Session
	keys    *keys.KeyMap

	loginView  loginview.Model
	taskList   tasklist.Model
	detail     taskdetail.Model
	projects   projectsview.Model
	calendar   calendar.Model
	notifView  notifications.Model
	taskForm   taskform.Model
	helpView   helpview.Model

	ready       bool
	unreadCount int
	statusMsg   string
}

// New creates the root application model. session may be nil when no
// stored token could be restored; the app then starts at the login view.
func New(
	client *api.Client,
	s store.Store,
	channel *notify.Channel,
	session *auth.Session,
) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		currentView: ViewLogin,
		client:      client,
		store:       s,
		channel:     channel,
		session:     session,
		keys:        k,
		loginView:   loginview.New(client, 80, 24),
		taskList:    tasklist.New(client, s, k, 80, 24),
		detail:      taskdetail.New(client, k, 80, 24),
		projects:    projectsview.New(client, k, 80, 24),
		calendar:    calendar.New(client, k, 80, 24),
		notifView:   notifications.New(k, 80, 24),
		taskForm:    taskform.New(client, 80, 24),
		helpView:    helpview.New(k, 80, 24),
	}

	if session != nil {
		m.currentView = ViewTasks
		m.taskList.SetUser(session.UserID)
		m.detail.SetUser(session.UserID)
	}

	return m
}

// Init starts the login form or, with a restored session, connects the
// notification channel and loads the task list.
func (m Model) Init() tea.Cmd {
	if m.session == nil {
		return tea.Batch(m.loginView.Init(), m.channel.WaitForEvent())
	}

	m.channel.Connect()
	m.channel.UpdateUser(m.session.UserID)

	return tea.Batch(
		m.taskList.Init(),
		m.channel.WaitForEvent(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.loginView.SetSize(contentWidth, contentHeight)
		m.taskList.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.projects.SetSize(contentWidth, contentHeight)
		m.calendar.SetSize(contentWidth, contentHeight)
		m.notifView.SetSize(contentWidth, contentHeight)
		m.taskForm.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	// Notification channel events. WaitForEvent is re-issued after each
	// one so the subscription keeps running.
	case notify.PushMsg:
		m.unreadCount = msg.Unread
		m.notifView.SetFeed(m.channel.Notifications(), msg.Unread)
		m.notifView.SetFromCache(false)
		return m, m.channel.WaitForEvent()

	case notify.FeedReloadedMsg:
		m.unreadCount = msg.Unread
		m.notifView.SetFeed(m.channel.Notifications(), msg.Unread)
		m.notifView.SetFromCache(msg.FromCache)
		m.notifView.SetError(msg.Err)
		if msg.Err != nil && api.IsAuthError(msg.Err) {
			model, cmd := m.forceLogin("Session expired — please sign in again.")
			return model, tea.Batch(cmd, m.channel.WaitForEvent())
		}
		return m, m.channel.WaitForEvent()

	case notify.MarkReadResultMsg:
		m.unreadCount = msg.Unread
		m.notifView.SetFeed(m.channel.Notifications(), msg.Unread)
		if msg.Err != nil {
			m.statusMsg = "Mark-read failed; refreshing."
			if api.IsAuthError(msg.Err) {
				model, cmd := m.forceLogin("Session expired — please sign in again.")
				return model, tea.Batch(cmd, m.channel.WaitForEvent())
			}
		}
		return m, m.channel.WaitForEvent()

	case notify.StateChangedMsg:
		m.notifView.SetState(msg.State)
		return m, m.channel.WaitForEvent()

	case loginview.LoggedInMsg:
		return m.startSession(msg.Session)

	case tasklist.SelectedTaskMsg:
		return m.openTask(msg.TaskID)

	case taskdetail.BackMsg:
		m.currentView = ViewTasks
		return m, nil

	case taskdetail.EditRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskEdit
		cmd := m.taskForm.StartEdit(msg.Task)
		return m, cmd

	case taskdetail.DeleteRequestMsg:
		return m, m.deleteTask(msg.TaskID)

	case taskDeletedMsg:
		if msg.err != nil {
			m.statusMsg = "Delete failed: " + msg.err.Error()
			if api.IsAuthError(msg.err) {
				return m.forceLogin("Session expired — please sign in again.")
			}
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Task %d deleted.", msg.taskID)
		m.currentView = ViewTasks
		return m, m.taskList.LoadTasks()

	case taskform.TaskSavedMsg:
		m.currentView = ViewTasks
		m.statusMsg = "Task saved."
		return m, m.taskList.LoadTasks()

	case taskform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case projectsview.ProjectSelectedMsg:
		m.currentView = ViewTasks
		m.statusMsg = "Showing tasks in " + msg.Name
		cmd := m.taskList.SetProjectFilter(msg.ProjectID)
		return m, cmd

	case notifications.MarkReadRequestMsg:
		m.channel.MarkAsRead(msg.ID)
		return m, nil

	case notifications.MarkAllReadRequestMsg:
		m.channel.MarkAllAsRead()
		return m, nil

	case notifications.ReloadRequestMsg:
		m.channel.Load()
		return m, nil

	case notifications.OpenRelatedMsg:
		return m.openTask(msg.TaskID)

	case tea.KeyMsg:
		if newModel, cmd, handled := m.handleGlobalKeys(msg); handled {
			return newModel, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of the current
// view. Views with text input (login, forms, search) are exempt so
// typing is never intercepted.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch m.currentView {
	case ViewLogin, ViewTaskCreate, ViewTaskEdit:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit, true
		}
		return m, nil, false
	case ViewTasks:
		// Never steal characters from the search input.
		if m.taskList.InSearchMode() {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit, true
			}
			return m, nil, false
		}
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true

	case "q":
		if m.currentView == ViewTasks {
			return m, tea.Quit, true
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case "1":
		m.currentView = ViewTasks
		return m, nil, true

	case "2":
		m.currentView = ViewProjects
		return m, m.projects.Init(), true

	case "3":
		m.currentView = ViewCalendar
		return m, m.calendar.Init(), true

	case "n":
		if m.currentView != ViewNotifications {
			m.previousView = m.currentView
			m.currentView = ViewNotifications
			return m, nil, true
		}

	case "a":
		if m.currentView == ViewTasks {
			m.previousView = m.currentView
			m.currentView = ViewTaskCreate
			projectID := int64(0)
			if task, ok := m.taskList.SelectedTask(); ok {
				projectID = task.ProjectID
			}
			cmd := m.taskForm.StartCreate(projectID, nil)
			return m, cmd, true
		}

	case "L":
		return m.logoutAndReturn()

	case "esc":
		switch m.currentView {
		case ViewProjects, ViewCalendar, ViewNotifications, ViewHelp:
			m.currentView = ViewTasks
			return m, nil, true
		}
	}

	return m, nil, false
}

// startSession installs a fresh session after login: the channel is
// rebound to the new user, the views learn the identity, and the task
// list loads.
func (m Model) startSession(session *auth.Session) (tea.Model, tea.Cmd) {
	m.session = session
	m.statusMsg = ""
	m.taskList.SetUser(session.UserID)
	m.detail.SetUser(session.UserID)

	m.channel.Connect()
	m.channel.UpdateUser(session.UserID)

	m.currentView = ViewTasks
	return m, m.taskList.LoadTasks()
}

// forceLogin drops the session after an authentication failure and
// returns to the login view. The stored token is kept: a restart may
// still find it valid if the failure was transient server-side. The
// caller is responsible for keeping the channel subscription alive
// when invoked from a channel event.
func (m Model) forceLogin(message string) (tea.Model, tea.Cmd) {
	m.session = nil
	m.channel.UpdateUser(0)
	m.statusMsg = message
	m.currentView = ViewLogin
	m.loginView = loginview.New(
		m.client, m.layout.ContentWidth(), m.layout.ContentHeight(),
	)
	return m, m.loginView.Init()
}

// logoutAndReturn disposes the session on explicit logout: token
// cleared, channel unbound, local cache dropped.
func (m Model) logoutAndReturn() (tea.Model, tea.Cmd, bool) {
	if m.session == nil {
		return m, nil, false
	}

	userID := m.session.UserID
	auth.Logout(m.client)
	m.channel.UpdateUser(0)
	if m.store != nil {
		_ = m.store.ClearUser(context.Background(), userID)
	}

	m.session = nil
	m.unreadCount = 0
	m.statusMsg = "Signed out."
	m.currentView = ViewLogin
	m.loginView = loginview.New(
		m.client, m.layout.ContentWidth(), m.layout.ContentHeight(),
	)
	return m, m.loginView.Init(), true
}

// openTask fetches a task and opens the detail view on it, falling back
// to the local cache when the server is unreachable. A 404 is never
// served from cache: the task is gone and a stale copy would mislead.
func (m Model) openTask(taskID int64) (tea.Model, tea.Cmd) {
	client := m.client
	s := m.store
	var userID int64
	if m.session != nil {
		userID = m.session.UserID
	}
	return m, func() tea.Msg {
		task, err := client.TaskByID(context.Background(), taskID)
		if err == nil {
			return taskLoadedMsg{task: &tasklist.TaskItem{Task: *task}}
		}
		if api.IsNotFound(err) || api.IsAuthError(err) || s == nil || userID == 0 {
			return taskLoadedMsg{err: err}
		}
		cached, cacheErr := s.TaskByID(context.Background(), userID, taskID)
		if cacheErr != nil || cached == nil {
			return taskLoadedMsg{err: err}
		}
		return taskLoadedMsg{
			task:      &tasklist.TaskItem{Task: *cached},
			fromCache: true,
		}
	}
}

// deleteTask returns a command that deletes a task on the server.
func (m Model) deleteTask(taskID int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteTask(context.Background(), taskID)
		return taskDeletedMsg{taskID: taskID, err: err}
	}
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	// A fetched task opens the detail view regardless of where the
	// navigation started (task list or notification).
	if loaded, ok := msg.(taskLoadedMsg); ok {
		if loaded.err != nil {
			if api.IsAuthError(loaded.err) {
				return m.forceLogin("Session expired — please sign in again.")
			}
			if api.IsNotFound(loaded.err) {
				m.statusMsg = "Task no longer exists."
				return m, nil
			}
			m.statusMsg = "Could not open task: " + loaded.err.Error()
			return m, nil
		}
		if loaded.fromCache {
			m.statusMsg = "Server unreachable — showing cached task."
		}
		m.previousView = m.currentView
		m.currentView = ViewDetail
		cmd := m.detail.Show(loaded.task.Task)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewProjects:
		m.projects, cmd = m.projects.Update(msg)
	case ViewCalendar:
		m.calendar, cmd = m.calendar.Update(msg)
	case ViewNotifications:
		m.notifView, cmd = m.notifView.Update(msg)
	case ViewTaskCreate, ViewTaskEdit:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.currentView == ViewLogin {
		return m.loginView.View()
	}

	headerTitle := "TEAManage"
	if m.unreadCount > 0 {
		headerTitle = fmt.Sprintf("TEAManage [%d new]", m.unreadCount)
	}
	header := m.layout.RenderHeader(headerTitle, m.channel.State().String())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewTasks:
		return m.taskList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewProjects:
		return m.projects.View()
	case ViewCalendar:
		return m.calendar.View()
	case ViewNotifications:
		return m.notifView.View()
	case ViewTaskCreate, ViewTaskEdit:
		return m.taskForm.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewDetail:
		hints := "esc back | space toggle | E expand | C collapse | r refresh"
		if m.detail.Role().CanManageTasks() {
			hints += " | e edit | x delete"
		}
		return hints
	case ViewProjects:
		return "enter open project tasks | r refresh | esc back"
	case ViewCalendar:
		return "h/l change month | t today | r refresh | esc back"
	case ViewNotifications:
		return "m mark read | M mark all | enter open task | r reload | esc back"
	case ViewTaskCreate, ViewTaskEdit:
		return "enter submit | esc cancel"
	case ViewHelp:
		return "? close help"
	default:
		summary := m.taskList.FilterSummary()
		if summary != "" {
			return summary
		}
		return "q quit | ? help | / search | tab status | 2 projects | 3 calendar | n notifications"
	}
}
