package model

import "time"

// Task status constants as the backend reports them.
const (
	StatusNotStarted = "NOT_STARTED"
	StatusInProgress = "IN_PROGRESS"
	StatusOnHold     = "ON_HOLD"
	StatusCompleted  = "COMPLETED"
	StatusCanceled   = "CANCELED"
	StatusOverdue    = "OVERDUE"
)

// Priority thresholds. The backend stores priority as a small integer;
// 4 and above is high, 2-3 medium, below 2 low.
const (
	PriorityHighMin   = 4
	PriorityMediumMin = 2
)

// Task is a work item inside a project. ParentID links subtasks to their
// parent; a nil ParentID marks a root task. The parent relation is
// expected to form a forest, which the hierarchy package verifies before
// rendering.
type Task struct {
	ID          int64      `json:"id" db:"id"`
	ProjectID   int64      `json:"projectId" db:"project_id"`
	ParentID    *int64     `json:"parentId,omitempty" db:"parent_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Status      string     `json:"status" db:"status"`
	Priority    int        `json:"priority" db:"priority"`
	Progress    int        `json:"progress" db:"progress"`
	Level       int        `json:"level" db:"level"`
	Deadline    *time.Time `json:"deadline,omitempty" db:"deadline"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// AssignedUsers is populated by the API; it is not cached per-column.
	AssignedUsers []User `json:"assignedUsers,omitempty" db:"-"`
}

// IsRoot reports whether the task has no parent.
func (t Task) IsRoot() bool {
	return t.ParentID == nil
}

// IsOverdue reports whether the task's deadline has passed without the
// task being completed or canceled.
func (t Task) IsOverdue() bool {
	if t.Deadline == nil {
		return false
	}
	if t.Status == StatusCompleted || t.Status == StatusCanceled {
		return false
	}
	return t.Deadline.Before(time.Now())
}

// PriorityLabel maps the numeric priority to a display bucket.
func (t Task) PriorityLabel() string {
	switch {
	case t.Priority >= PriorityHighMin:
		return "high"
	case t.Priority >= PriorityMediumMin:
		return "medium"
	default:
		return "low"
	}
}
