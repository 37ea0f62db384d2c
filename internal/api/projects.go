package api

import (
	"context"
	"fmt"

	"github.com/haianh3623/TEAManage/internal/model"
)

// ProjectPage is a paged project listing response.
type ProjectPage struct {
	Content       []model.Project `json:"content"`
	TotalElements int             `json:"totalElements"`
}

// Projects fetches all projects the authenticated user belongs to.
func (c *Client) Projects(ctx context.Context) ([]model.Project, error) {
	var page ProjectPage
	if err := c.Get(ctx, "/projects", &page); err != nil {
		return nil, err
	}
	return page.Content, nil
}

// ProjectByID fetches a single project with its member list.
func (c *Client) ProjectByID(
	ctx context.Context,
	id int64,
) (*model.Project, error) {
	var project model.Project
	if err := c.Get(ctx, fmt.Sprintf("/projects/%d", id), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// MyRoleInProject returns the authenticated user's role in a project,
// derived from the project's member list.
func (c *Client) MyRoleInProject(
	ctx context.Context,
	projectID int64,
	userID int64,
) (model.Role, error) {
	project, err := c.ProjectByID(ctx, projectID)
	if err != nil {
		return "", err
	}
	for _, m := range project.Members {
		if m.UserID == userID {
			return m.Role, nil
		}
	}
	return model.RoleMember, nil
}
