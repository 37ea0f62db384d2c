package hierarchy

import (
	"time"

	"github.com/haianh3623/TEAManage/internal/model"
)

// SampleTasks returns a small built-in hierarchy used when the fetch
// fails, so the view stays inspectable while the backend is down. The
// UI shows an info banner when this dataset is in use.
func SampleTasks(rootID int64) []model.Task {
	deadline := func(d int) *time.Time {
		t := time.Now().AddDate(0, 0, d)
		return &t
	}
	child1 := rootID + 100
	child2 := rootID + 101

	return []model.Task{
		{
			ID:       rootID,
			Title:    "Main task",
			Status:   model.StatusInProgress,
			Priority: 4,
			Progress: 65,
			Deadline: deadline(14),
		},
		{
			ID:       child1,
			ParentID: &rootID,
			Title:    "Subtask 1",
			Status:   model.StatusCompleted,
			Priority: 3,
			Progress: 100,
			Deadline: deadline(7),
		},
		{
			ID:       child2,
			ParentID: &rootID,
			Title:    "Subtask 2",
			Status:   model.StatusInProgress,
			Priority: 4,
			Progress: 45,
			Deadline: deadline(10),
		},
		{
			ID:       rootID + 102,
			ParentID: &child2,
			Title:    "Nested subtask",
			Status:   model.StatusNotStarted,
			Priority: 1,
			Progress: 0,
			Deadline: deadline(21),
		},
	}
}
