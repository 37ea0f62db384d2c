package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/haianh3623/TEAManage/internal/model"
)

// TaskPage is a paged task listing response.
type TaskPage struct {
	Content       []model.Task `json:"content"`
	TotalElements int          `json:"totalElements"`
	TotalPages    int          `json:"totalPages"`
	Number        int          `json:"number"`
}

// TaskListOptions controls filtering and pagination for task listings.
type TaskListOptions struct {
	Page      int
	Size      int
	Search    string
	Status    string
	ProjectID int64
	Sort      string
}

func (o TaskListOptions) query() string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(o.Page))
	size := o.Size
	if size <= 0 {
		size = 12
	}
	q.Set("size", strconv.Itoa(size))
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if o.ProjectID != 0 {
		q.Set("projectId", strconv.FormatInt(o.ProjectID, 10))
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	return q.Encode()
}

// MyTasks fetches the authenticated user's tasks (created or assigned).
func (c *Client) MyTasks(
	ctx context.Context,
	opts TaskListOptions,
) (*TaskPage, error) {
	var page TaskPage
	if err := c.Get(ctx, "/tasks/my?"+opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// TaskByID fetches a single task.
func (c *Client) TaskByID(ctx context.Context, id int64) (*model.Task, error) {
	var task model.Task
	if err := c.Get(ctx, fmt.Sprintf("/tasks/%d", id), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// TaskHierarchy fetches the flat set of tasks related to the given root:
// the task itself, its ancestors up to the root, and all descendants.
// The tree structure is implied by ParentID and reconstructed client-side.
func (c *Client) TaskHierarchy(
	ctx context.Context,
	taskID int64,
) ([]model.Task, error) {
	var tasks []model.Task
	path := fmt.Sprintf("/tasks/%d/hierarchy", taskID)
	if err := c.Get(ctx, path, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	ProjectID       int64   `json:"projectId"`
	ParentID        *int64  `json:"parentId,omitempty"`
	Priority        int     `json:"priority"`
	Deadline        string  `json:"deadline,omitempty"`
	AssignedUserIDs []int64 `json:"assignedUserIds,omitempty"`
}

// CreateTask creates a new task and returns the server's copy.
func (c *Client) CreateTask(
	ctx context.Context,
	req CreateTaskRequest,
) (*model.Task, error) {
	var task model.Task
	if err := c.Post(ctx, "/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask updates an existing task and returns the server's copy.
func (c *Client) UpdateTask(
	ctx context.Context,
	id int64,
	req CreateTaskRequest,
) (*model.Task, error) {
	var task model.Task
	if err := c.Put(ctx, fmt.Sprintf("/tasks/%d", id), req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task. Subtask handling is the backend's concern.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/tasks/%d", id))
}
