package store

import (
	"context"

	"github.com/haianh3623/TEAManage/internal/model"
)

// Store is the local cache for fetched tasks and notifications. It
// exists so the UI has content before the first round-trip completes
// and across restarts; the backend remains the source of truth and
// every cache row is scoped to the user it was fetched for.
type Store interface {
	// === Tasks ===

	UpsertTasks(ctx context.Context, userID int64, tasks []model.Task) error
	Tasks(ctx context.Context, userID int64, filter TaskFilter) ([]model.Task, error)
	TaskByID(ctx context.Context, userID int64, id int64) (*model.Task, error)

	// === Notifications ===

	CacheNotifications(ctx context.Context, userID int64, ns []model.Notification) error
	UnreadNotifications(ctx context.Context, userID int64) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, userID int64, id int64) error
	MarkAllNotificationsRead(ctx context.Context, userID int64) error

	// ClearUser drops every cached row for a user, called on logout so
	// nothing leaks across accounts on a shared machine.
	ClearUser(ctx context.Context, userID int64) error

	Close() error
}

// TaskFilter controls filtering and pagination for cached task queries.
type TaskFilter struct {
	ProjectID *int64
	Status    *string
	Query     *string
	Limit     int
	Offset    int
}
