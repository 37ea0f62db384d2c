package store

import (
	"context"
	"testing"
	"time"

	"github.com/haianh3623/TEAManage/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})
	return s
}

func sampleTask(id int64, title string) model.Task {
	now := time.Now().UTC().Truncate(time.Second)
	return model.Task{
		ID:        id,
		ProjectID: 1,
		Title:     title,
		Status:    model.StatusInProgress,
		Priority:  3,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
		AssignedUsers: []model.User{
			{ID: 9, FirstName: "Ha", LastName: "Nguyen"},
		},
	}
}

func TestUpsertAndQueryTasks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tasks := []model.Task{
		sampleTask(1, "Design review"),
		sampleTask(2, "Deploy staging"),
	}
	if err := s.UpsertTasks(ctx, 7, tasks); err != nil {
		t.Fatalf("UpsertTasks: %v", err)
	}

	got, err := s.Tasks(ctx, 7, TaskFilter{})
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("tasks = %d, want 2", len(got))
	}

	// Assignees round-trip through the JSON column.
	for _, task := range got {
		if len(task.AssignedUsers) != 1 || task.AssignedUsers[0].ID != 9 {
			t.Errorf("task %d assignees = %+v, want one user 9", task.ID, task.AssignedUsers)
		}
	}

	// Upserting the same IDs replaces rather than duplicates.
	tasks[0].Title = "Design review v2"
	if err := s.UpsertTasks(ctx, 7, tasks); err != nil {
		t.Fatalf("second UpsertTasks: %v", err)
	}
	task, err := s.TaskByID(ctx, 7, 1)
	if err != nil {
		t.Fatalf("TaskByID: %v", err)
	}
	if task == nil || task.Title != "Design review v2" {
		t.Errorf("task 1 = %+v, want updated title", task)
	}
}

func TestTasksAreScopedPerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpsertTasks(ctx, 7, []model.Task{sampleTask(1, "mine")}); err != nil {
		t.Fatalf("UpsertTasks: %v", err)
	}
	if err := s.UpsertTasks(ctx, 8, []model.Task{sampleTask(2, "theirs")}); err != nil {
		t.Fatalf("UpsertTasks: %v", err)
	}

	mine, err := s.Tasks(ctx, 7, TaskFilter{})
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != 1 {
		t.Errorf("user 7 tasks = %+v, want only task 1", mine)
	}

	// Missing rows resolve to nil, not an error.
	task, err := s.TaskByID(ctx, 7, 2)
	if err != nil {
		t.Fatalf("TaskByID: %v", err)
	}
	if task != nil {
		t.Errorf("user 7 sees task 2 = %+v, want nil", task)
	}
}

func TestTaskFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t1 := sampleTask(1, "Fix login bug")
	t2 := sampleTask(2, "Write release notes")
	t2.ProjectID = 2
	t2.Status = model.StatusCompleted
	if err := s.UpsertTasks(ctx, 7, []model.Task{t1, t2}); err != nil {
		t.Fatalf("UpsertTasks: %v", err)
	}

	status := model.StatusCompleted
	got, err := s.Tasks(ctx, 7, TaskFilter{Status: &status})
	if err != nil {
		t.Fatalf("Tasks by status: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("status filter = %+v, want only task 2", got)
	}

	pid := int64(1)
	got, err = s.Tasks(ctx, 7, TaskFilter{ProjectID: &pid})
	if err != nil {
		t.Fatalf("Tasks by project: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("project filter = %+v, want only task 1", got)
	}

	q := "login"
	got, err = s.Tasks(ctx, 7, TaskFilter{Query: &q})
	if err != nil {
		t.Fatalf("Tasks by query: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("query filter = %+v, want only task 1", got)
	}
}

func TestNotificationCache(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	ns := []model.Notification{
		{ID: 1, Message: "assigned", Type: model.NotifTaskAssigned, CreatedAt: now},
		{ID: 2, Message: "updated", Type: model.NotifTaskUpdated, IsRead: true, CreatedAt: now},
		{ID: 3, Message: "reminder", Type: model.NotifDeadlineReminder, CreatedAt: now},
	}
	if err := s.CacheNotifications(ctx, 7, ns); err != nil {
		t.Fatalf("CacheNotifications: %v", err)
	}

	unread, err := s.UnreadNotifications(ctx, 7)
	if err != nil {
		t.Fatalf("UnreadNotifications: %v", err)
	}
	if len(unread) != 2 {
		t.Fatalf("unread = %d, want 2", len(unread))
	}

	if err := s.MarkNotificationRead(ctx, 7, 1); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
	unread, err = s.UnreadNotifications(ctx, 7)
	if err != nil {
		t.Fatalf("UnreadNotifications: %v", err)
	}
	if len(unread) != 1 || unread[0].ID != 3 {
		t.Errorf("unread after mark = %+v, want only id 3", unread)
	}

	if err := s.MarkAllNotificationsRead(ctx, 7); err != nil {
		t.Fatalf("MarkAllNotificationsRead: %v", err)
	}
	unread, err = s.UnreadNotifications(ctx, 7)
	if err != nil {
		t.Fatalf("UnreadNotifications: %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("unread after mark-all = %d, want 0", len(unread))
	}
}

func TestClearUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpsertTasks(ctx, 7, []model.Task{sampleTask(1, "task")}); err != nil {
		t.Fatalf("UpsertTasks: %v", err)
	}
	if err := s.CacheNotifications(ctx, 7, []model.Notification{
		{ID: 1, Message: "n", CreatedAt: time.Now()},
	}); err != nil {
		t.Fatalf("CacheNotifications: %v", err)
	}
	if err := s.UpsertTasks(ctx, 8, []model.Task{sampleTask(2, "other")}); err != nil {
		t.Fatalf("UpsertTasks: %v", err)
	}

	if err := s.ClearUser(ctx, 7); err != nil {
		t.Fatalf("ClearUser: %v", err)
	}

	tasks, err := s.Tasks(ctx, 7, TaskFilter{})
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("user 7 tasks = %d after clear, want 0", len(tasks))
	}

	// Other users are untouched.
	tasks, err = s.Tasks(ctx, 8, TaskFilter{})
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("user 8 tasks = %d, want 1", len(tasks))
	}
}
