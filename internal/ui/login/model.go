package login

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/haianh3623/TEAManage/internal/api"
	"github.com/haianh3623/TEAManage/internal/auth"
	"github.com/haianh3623/TEAManage/internal/theme"
)

// LoggedInMsg signals a successful login with the established session.
type LoggedInMsg struct {
	Session *auth.Session
}

// loginResultMsg carries the outcome of the login request.
type loginResultMsg struct {
	session *auth.Session
	err     error
}

// Model is the login form view.
type Model struct {
	client *api.Client
	form   *huh.Form

	email    string
	password string

	submitting bool
	errMsg     string

	width  int
	height int
}

// New creates a new login view model.
func New(client *api.Client, width, height int) Model {
	m := Model{
		client: client,
		width:  width,
		height: height,
	}
	m.form = m.newForm()
	return m
}

// newForm builds a fresh credentials form. Forms are single-use in huh,
// so a failed attempt rebuilds one with the previous email kept.
func (m *Model) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return errInvalidEmail
					}
					return nil
				}),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.password),
		),
	)
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			if api.IsAuthError(msg.err) {
				m.errMsg = "Invalid email or password."
			} else {
				m.errMsg = "Login failed: " + msg.err.Error()
			}
			m.password = ""
			m.form = m.newForm()
			return m, m.form.Init()
		}
		return m, func() tea.Msg {
			return LoggedInMsg{Session: msg.session}
		}
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitting = true
		m.errMsg = ""
		return m, m.submit()
	}

	return m, cmd
}

// submit returns a command that performs the login request.
func (m Model) submit() tea.Cmd {
	client := m.client
	email := m.email
	password := m.password
	return func() tea.Msg {
		session, err := auth.Login(
			context.Background(), client, email, password,
		)
		return loginResultMsg{session: session, err: err}
	}
}

// View renders the login form centered in the available space.
func (m Model) View() string {
	title := theme.HeaderStyle.Render("TEAManage")

	var body string
	if m.submitting {
		body = theme.HelpStyle.Render("Signing in...")
	} else {
		body = m.form.View()
	}

	sections := []string{title, "", body}
	if m.errMsg != "" {
		sections = append(sections, "", theme.ErrorStyle.Render(m.errMsg))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		theme.BorderStyle.Padding(1, 3).Render(content),
	)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

var errInvalidEmail = validationError("enter a valid email address")

type validationError string

func (e validationError) Error() string { return string(e) }
