package api

import (
	"context"
	"fmt"

	"github.com/haianh3623/TEAManage/internal/model"
)

// UnreadNotifications fetches the unread notifications for a user,
// newest first.
func (c *Client) UnreadNotifications(
	ctx context.Context,
	userID int64,
) ([]model.Notification, error) {
	var notifications []model.Notification
	path := fmt.Sprintf("/notifications/unread/%d", userID)
	if err := c.Get(ctx, path, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead marks a single notification as read. The call is
// idempotent; marking an already-read notification succeeds.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/notifications/%d/read", id)
	return c.Put(ctx, path, nil, nil)
}

// MarkAllNotificationsRead marks every notification of the
// authenticated user as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.Put(ctx, "/notifications/read-all", nil, nil)
}
