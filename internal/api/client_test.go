package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haianh3623/TEAManage/internal/model"
)

func TestRequestHeaders(t *testing.T) {
	var gotAuth, gotRequestID, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotRequestID = r.Header.Get("X-Request-ID")
			gotAccept = r.Header.Get("Accept")
			w.Write([]byte(`{}`))
		},
	))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second)
	c.SetToken("secret-token")

	var out struct{}
	if err := c.Get(context.Background(), "/ping", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header missing")
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
}

func TestAnonymousWithoutToken(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{}`))
		},
	))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second)
	var out struct{}
	if err := c.Get(context.Background(), "/ping", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q on anonymous request, want empty", gotAuth)
	}
}

func TestUnauthorizedIsAuthError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second)
	err := c.Get(context.Background(), "/tasks/my", nil)
	if err == nil {
		t.Fatal("Get returned nil error on 401")
	}
	if !IsAuthError(err) {
		t.Errorf("error %v not recognized as auth error", err)
	}
}

func TestErrorEnvelopeMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"title is required"}`))
		},
	))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second)
	err := c.Post(context.Background(), "/tasks", map[string]string{}, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not an APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apiErr.StatusCode)
	}
	if apiErr.Message != "title is required" {
		t.Errorf("message = %q, want envelope message", apiErr.Message)
	}
}

func TestRateLimitRetriesWithRetryAfter(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`{"content":[],"totalElements":0}`))
		},
	))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second)
	var page TaskPage
	if err := c.Get(context.Background(), "/tasks/my", &page); err != nil {
		t.Fatalf("Get after 429: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("calls = %d, want 2 (one retry)", calls)
	}
}

func TestUnreadNotificationsPath(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/notifications/unread/42" {
				t.Errorf("path = %s, want /notifications/unread/42", r.URL.Path)
			}
			json.NewEncoder(w).Encode([]model.Notification{
				{ID: 1, Message: "assigned", Type: model.NotifTaskAssigned},
			})
		},
	))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second)
	ns, err := c.UnreadNotifications(context.Background(), 42)
	if err != nil {
		t.Fatalf("UnreadNotifications: %v", err)
	}
	if len(ns) != 1 || ns[0].Type != model.NotifTaskAssigned {
		t.Errorf("notifications = %+v, want one TASK_ASSIGNED", ns)
	}
}

func TestMarkNotificationReadUsesIdempotentPut(t *testing.T) {
	var gotMethod, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		},
	))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second)
	if err := c.MarkNotificationRead(context.Background(), 7); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/notifications/7/read" {
		t.Errorf("request = %s %s, want PUT /notifications/7/read", gotMethod, gotPath)
	}

	if err := c.MarkAllNotificationsRead(context.Background()); err != nil {
		t.Fatalf("MarkAllNotificationsRead: %v", err)
	}
	if gotPath != "/notifications/read-all" {
		t.Errorf("path = %s, want /notifications/read-all", gotPath)
	}
}

func TestMyTasksQueryEncoding(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			json.NewEncoder(w).Encode(TaskPage{})
		},
	))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second)
	_, err := c.MyTasks(context.Background(), TaskListOptions{
		Page:      2,
		Search:    "deploy",
		Status:    model.StatusInProgress,
		ProjectID: 5,
	})
	if err != nil {
		t.Fatalf("MyTasks: %v", err)
	}

	values, err := url.ParseQuery(gotQuery)
	if err != nil {
		t.Fatalf("parsing query %q: %v", gotQuery, err)
	}
	want := map[string]string{
		"page":      "2",
		"size":      "12",
		"search":    "deploy",
		"status":    "IN_PROGRESS",
		"projectId": "5",
	}
	for k, v := range want {
		if got := values.Get(k); got != v {
			t.Errorf("query param %s = %q, want %q", k, got, v)
		}
	}
}

func TestMyRoleInProject(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(model.Project{
				ID: 5,
				Members: []model.Member{
					{UserID: 1, Role: model.RoleLeader},
					{UserID: 2, Role: model.RoleViceLeader},
				},
			})
		},
	))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second)

	tests := []struct {
		userID int64
		want   model.Role
	}{
		{1, model.RoleLeader},
		{2, model.RoleViceLeader},
		{99, model.RoleMember}, // not in the list: least privilege
	}
	for _, tt := range tests {
		role, err := c.MyRoleInProject(context.Background(), 5, tt.userID)
		if err != nil {
			t.Fatalf("MyRoleInProject(%d): %v", tt.userID, err)
		}
		if role != tt.want {
			t.Errorf("role for user %d = %s, want %s", tt.userID, role, tt.want)
		}
	}
}
