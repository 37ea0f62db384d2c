package taskform

import (
	"context"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/haianh3623/TEAManage/internal/api"
	"github.com/haianh3623/TEAManage/internal/model"
	"github.com/haianh3623/TEAManage/internal/theme"
)

// TaskSavedMsg signals a task was created or updated on the server.
type TaskSavedMsg struct {
	Task *model.Task
}

// CancelMsg signals the form was dismissed without saving.
type CancelMsg struct{}

// saveResultMsg carries the outcome of the create/update request.
type saveResultMsg struct {
	task *model.Task
	err  error
}

// deadlineLayout is the format users type deadlines in.
const deadlineLayout = "2006-01-02"

// Model is the task create/edit form.
type Model struct {
	client *api.Client
	form   *huh.Form

	// Editing context. taskID is zero for create.
	taskID    int64
	projectID int64
	parentID  *int64

	// Form field values (huh binds to these).
	title       string
	description string
	priority    string
	deadline    string

	submitting bool
	errMsg     string

	width  int
	height int
}

// New creates a new task form model.
func New(client *api.Client, width, height int) Model {
	return Model{
		client: client,
		width:  width,
		height: height,
	}
}

// StartCreate prepares the form for a new task in the given project,
// optionally as a subtask of parentID.
func (m *Model) StartCreate(projectID int64, parentID *int64) tea.Cmd {
	m.taskID = 0
	m.projectID = projectID
	m.parentID = parentID
	m.title = ""
	m.description = ""
	m.priority = "2"
	m.deadline = ""
	m.submitting = false
	m.errMsg = ""
	m.form = m.newForm()
	return m.form.Init()
}

// StartEdit prepares the form with an existing task's fields.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.taskID = task.ID
	m.projectID = task.ProjectID
	m.parentID = task.ParentID
	m.title = task.Title
	m.description = task.Description
	m.priority = strconv.Itoa(task.Priority)
	m.deadline = ""
	if task.Deadline != nil {
		m.deadline = task.Deadline.Format(deadlineLayout)
	}
	m.submitting = false
	m.errMsg = ""
	m.form = m.newForm()
	return m.form.Init()
}

// newForm builds the field group. huh forms are single-use, so every
// Start* call builds a fresh one.
func (m *Model) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Value(&m.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errTitleRequired
					}
					return nil
				}),
			huh.NewText().
				Key("description").
				Title("Description").
				Value(&m.description),
			huh.NewSelect[string]().
				Key("priority").
				Title("Priority").
				Options(
					huh.NewOption("Low", "1"),
					huh.NewOption("Medium", "2"),
					huh.NewOption("High", "4"),
					huh.NewOption("Critical", "5"),
				).
				Value(&m.priority),
			huh.NewInput().
				Key("deadline").
				Title("Deadline (YYYY-MM-DD, optional)").
				Value(&m.deadline).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if _, err := time.Parse(deadlineLayout, s); err != nil {
						return errBadDeadline
					}
					return nil
				}),
		),
	)
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	if m.form == nil {
		return nil
	}
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case saveResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = "Could not save task: " + msg.err.Error()
			m.form = m.newForm()
			return m, m.form.Init()
		}
		return m, func() tea.Msg {
			return TaskSavedMsg{Task: msg.task}
		}

	case tea.KeyMsg:
		if msg.String() == "esc" && !m.submitting {
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}

	if m.form == nil || m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitting = true
		m.errMsg = ""
		return m, m.save()
	}

	return m, cmd
}

// save returns a command that creates or updates the task.
func (m Model) save() tea.Cmd {
	client := m.client
	taskID := m.taskID

	priority, _ := strconv.Atoi(m.priority)
	req := api.CreateTaskRequest{
		Title:       strings.TrimSpace(m.title),
		Description: m.description,
		ProjectID:   m.projectID,
		ParentID:    m.parentID,
		Priority:    priority,
	}
	if m.deadline != "" {
		req.Deadline = m.deadline
	}

	return func() tea.Msg {
		var (
			task *model.Task
			err  error
		)
		if taskID == 0 {
			task, err = client.CreateTask(context.Background(), req)
		} else {
			task, err = client.UpdateTask(context.Background(), taskID, req)
		}
		return saveResultMsg{task: task, err: err}
	}
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	title := "New Task"
	if m.taskID != 0 {
		title = "Edit Task"
	}

	var body string
	if m.submitting {
		body = theme.HelpStyle.Render("Saving...")
	} else {
		body = m.form.View()
	}

	sections := []string{theme.HeaderStyle.Render(title), "", body}
	if m.errMsg != "" {
		sections = append(sections, "", theme.ErrorStyle.Render(m.errMsg))
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

var (
	errTitleRequired = formError("title is required")
	errBadDeadline   = formError("deadline must be YYYY-MM-DD")
)

type formError string

func (e formError) Error() string { return string(e) }
