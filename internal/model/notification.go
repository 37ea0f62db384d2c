package model

import "time"

// NotificationType classifies the event a notification reports.
// The set is closed: every value the backend emits has a constant here,
// and handlers switch exhaustively over it.
type NotificationType string

const (
	NotifTaskAssigned     NotificationType = "TASK_ASSIGNED"
	NotifTaskUpdated      NotificationType = "TASK_UPDATED"
	NotifTaskDeleted      NotificationType = "TASK_DELETED"
	NotifTaskApproved     NotificationType = "TASK_APPROVED"
	NotifTaskRejected     NotificationType = "TASK_REJECTED"
	NotifTaskSubmitted    NotificationType = "TASK_SUBMITTED"
	NotifProjectUpdated   NotificationType = "PROJECT_UPDATED"
	NotifProjectDeleted   NotificationType = "PROJECT_DELETED"
	NotifProjectArchived  NotificationType = "PROJECT_ARCHIVED"
	NotifDeadlineReminder NotificationType = "DEADLINE_REMINDER"
)

// Related entity kinds referenced by notifications.
const (
	RelatedProject     = "PROJECT"
	RelatedTask        = "TASK"
	RelatedApprovalLog = "TASK_APPROVAL_LOG"
)

// Notification is a server-generated alert delivered either by the
// initial unread fetch or as a single JSON object over the push channel.
type Notification struct {
	// ID is the server-assigned identifier, immutable.
	ID int64 `json:"id" db:"id"`

	// Message is the human-readable notification text.
	Message string `json:"message" db:"message"`

	// Type classifies the event (see NotificationType constants).
	Type NotificationType `json:"type" db:"type"`

	// RelatedType and RelatedID point at the entity the event concerns,
	// used for navigation. RelatedType is empty when there is no target.
	RelatedType string `json:"relatedType" db:"related_type"`
	RelatedID   int64  `json:"relatedId" db:"related_id"`

	// IsRead is flipped locally on mark-read and reconciled with the
	// server through an idempotent PUT.
	IsRead bool `json:"isRead" db:"is_read"`

	// CreatedAt is immutable and used only for relative-time display.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
