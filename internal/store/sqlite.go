package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/haianh3623/TEAManage/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// taskRow is the tasks table shape; assigned users travel as JSON.
type taskRow struct {
	model.Task
	UserID        int64  `db:"user_id"`
	AssignedUsers string `db:"assigned_users"`
}

// UpsertTasks inserts or replaces a batch of cached tasks for a user.
func (s *SQLiteStore) UpsertTasks(
	ctx context.Context,
	userID int64,
	tasks []model.Task,
) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
INSERT OR REPLACE INTO tasks (
	id, user_id, project_id, parent_id, title, description,
	status, priority, progress, level, deadline, assigned_users,
	created_at, updated_at
) VALUES (
	:id, :user_id, :project_id, :parent_id, :title, :description,
	:status, :priority, :progress, :level, :deadline, :assigned_users,
	:created_at, :updated_at
)`

	for _, t := range tasks {
		assigned, err := json.Marshal(t.AssignedUsers)
		if err != nil {
			return fmt.Errorf("marshaling assignees for task %d: %w", t.ID, err)
		}
		row := taskRow{
			Task:          t,
			UserID:        userID,
			AssignedUsers: string(assigned),
		}
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("upserting task %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing task upsert: %w", err)
	}
	return nil
}

// Tasks returns cached tasks matching the filter, most recently
// updated first.
func (s *SQLiteStore) Tasks(
	ctx context.Context,
	userID int64,
	filter TaskFilter,
) ([]model.Task, error) {
	query := `SELECT * FROM tasks WHERE user_id = ?`
	args := []interface{}{userID}

	if filter.ProjectID != nil {
		query += " AND project_id = ?"
		args = append(args, *filter.ProjectID)
	}
	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, *filter.Status)
	}
	if filter.Query != nil {
		query += " AND (title LIKE ? OR description LIKE ?)"
		like := "%" + strings.TrimSpace(*filter.Query) + "%"
		args = append(args, like, like)
	}

	query += " ORDER BY updated_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying cached tasks: %w", err)
	}

	return tasksFromRows(rows), nil
}

// TaskByID returns a single cached task, or nil when absent.
func (s *SQLiteStore) TaskByID(
	ctx context.Context,
	userID int64,
	id int64,
) (*model.Task, error) {
	var row taskRow
	err := s.db.GetContext(
		ctx, &row,
		`SELECT * FROM tasks WHERE user_id = ? AND id = ?`,
		userID, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying cached task %d: %w", id, err)
	}

	task := rowToTask(row)
	return &task, nil
}

func tasksFromRows(rows []taskRow) []model.Task {
	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, rowToTask(row))
	}
	return tasks
}

func rowToTask(row taskRow) model.Task {
	task := row.Task
	if row.AssignedUsers != "" && row.AssignedUsers != "[]" {
		// Cache corruption only loses the assignee chips, not the task.
		_ = json.Unmarshal([]byte(row.AssignedUsers), &task.AssignedUsers)
	}
	return task
}

// notificationRow is the notifications table shape.
type notificationRow struct {
	model.Notification
	UserID int64 `db:"user_id"`
}

// CacheNotifications inserts or replaces cached notifications for a user.
func (s *SQLiteStore) CacheNotifications(
	ctx context.Context,
	userID int64,
	ns []model.Notification,
) error {
	if len(ns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
INSERT OR REPLACE INTO notifications (
	id, user_id, message, type, related_type, related_id,
	is_read, created_at
) VALUES (
	:id, :user_id, :message, :type, :related_type, :related_id,
	:is_read, :created_at
)`

	for _, n := range ns {
		row := notificationRow{Notification: n, UserID: userID}
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("caching notification %d: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing notification cache: %w", err)
	}
	return nil
}

// UnreadNotifications returns cached unread notifications, newest first.
func (s *SQLiteStore) UnreadNotifications(
	ctx context.Context,
	userID int64,
) ([]model.Notification, error) {
	var rows []notificationRow
	err := s.db.SelectContext(
		ctx, &rows,
		`SELECT * FROM notifications
		 WHERE user_id = ? AND is_read = 0
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying cached notifications: %w", err)
	}

	ns := make([]model.Notification, 0, len(rows))
	for _, row := range rows {
		ns = append(ns, row.Notification)
	}
	return ns, nil
}

// MarkNotificationRead flips a cached notification to read.
func (s *SQLiteStore) MarkNotificationRead(
	ctx context.Context,
	userID int64,
	id int64,
) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND id = ?`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("marking cached notification %d read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead flips every cached notification to read.
func (s *SQLiteStore) MarkAllNotificationsRead(
	ctx context.Context,
	userID int64,
) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("marking cached notifications read: %w", err)
	}
	return nil
}

// ClearUser drops every cached row belonging to a user.
func (s *SQLiteStore) ClearUser(ctx context.Context, userID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(
		ctx, `DELETE FROM tasks WHERE user_id = ?`, userID,
	); err != nil {
		return fmt.Errorf("clearing cached tasks: %w", err)
	}
	if _, err := tx.ExecContext(
		ctx, `DELETE FROM notifications WHERE user_id = ?`, userID,
	); err != nil {
		return fmt.Errorf("clearing cached notifications: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing cache clear: %w", err)
	}
	return nil
}
