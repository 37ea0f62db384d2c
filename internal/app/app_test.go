package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/haianh3623/TEAManage/internal/api"
	"github.com/haianh3623/TEAManage/internal/auth"
	"github.com/haianh3623/TEAManage/internal/model"
	"github.com/haianh3623/TEAManage/internal/notify"
	"github.com/haianh3623/TEAManage/internal/store"
)

func newTestApp(t *testing.T, client *api.Client) (Model, store.Store) {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	channel := notify.NewChannel(
		client, nil, "", model.NotificationsConfig{}, s,
	)
	session := &auth.Session{UserID: 7, Email: "me@example.com", Role: model.RoleMember}

	return New(client, s, channel, session), s
}

func TestOpenTaskFallsBackToCache(t *testing.T) {
	// A server that is already gone.
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	m, s := newTestApp(t, api.NewClient(ts.URL, time.Second))

	now := time.Now().UTC().Truncate(time.Second)
	if err := s.UpsertTasks(context.Background(), 7, []model.Task{{
		ID:        42,
		ProjectID: 1,
		Title:     "Quarterly report",
		Status:    model.StatusInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}}); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	_, cmd := m.openTask(42)
	loaded, ok := cmd().(taskLoadedMsg)
	if !ok {
		t.Fatal("openTask command did not produce a taskLoadedMsg")
	}
	if loaded.err != nil {
		t.Fatalf("loaded.err = %v, want cached task", loaded.err)
	}
	if !loaded.fromCache {
		t.Error("task not flagged as served from cache")
	}
	if loaded.task.Task.Title != "Quarterly report" {
		t.Errorf("task title = %q, want cached copy", loaded.task.Task.Title)
	}

	updated, _ := m.Update(loaded)
	am := updated.(Model)
	if am.currentView != ViewDetail {
		t.Errorf("view = %v after cached open, want detail", am.currentView)
	}
	if !strings.Contains(am.statusMsg, "cached") {
		t.Errorf("status = %q, want cached-task notice", am.statusMsg)
	}
}

func TestOpenTaskMissingOnServer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	m, s := newTestApp(t, api.NewClient(ts.URL, 0))

	// Even a cached copy must not resurrect a deleted task.
	now := time.Now().UTC().Truncate(time.Second)
	if err := s.UpsertTasks(context.Background(), 7, []model.Task{{
		ID: 99, ProjectID: 1, Title: "stale", CreatedAt: now, UpdatedAt: now,
	}}); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	_, cmd := m.openTask(99)
	loaded := cmd().(taskLoadedMsg)
	if loaded.err == nil || !api.IsNotFound(loaded.err) {
		t.Fatalf("loaded.err = %v, want not-found", loaded.err)
	}

	updated, _ := m.Update(loaded)
	am := updated.(Model)
	if am.currentView != ViewTasks {
		t.Errorf("view = %v after missing task, want unchanged task list", am.currentView)
	}
	if am.statusMsg != "Task no longer exists." {
		t.Errorf("status = %q, want friendly not-found message", am.statusMsg)
	}
}
