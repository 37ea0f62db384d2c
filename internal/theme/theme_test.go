package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/haianh3623/TEAManage/internal/model"
)

func TestNotificationStyleCoversEveryType(t *testing.T) {
	tests := []struct {
		typ  model.NotificationType
		want lipgloss.AdaptiveColor
	}{
		{model.NotifTaskAssigned, ColorBlue},
		{model.NotifTaskSubmitted, ColorBlue},
		{model.NotifTaskUpdated, ColorYellow},
		{model.NotifTaskApproved, ColorGreen},
		{model.NotifTaskRejected, ColorRed},
		{model.NotifTaskDeleted, ColorRed},
		{model.NotifProjectUpdated, ColorMagenta},
		{model.NotifProjectArchived, ColorMagenta},
		{model.NotifProjectDeleted, ColorRed},
		{model.NotifDeadlineReminder, ColorOrange},
		{model.NotificationType("SOMETHING_NEW"), ColorGray},
	}

	for _, tt := range tests {
		if got := NotificationStyle(tt.typ).GetForeground(); got != tt.want {
			t.Errorf("NotificationStyle(%s) foreground = %v, want %v",
				tt.typ, got, tt.want)
		}
	}
}

func TestStatusStyleDistinguishesTerminalStates(t *testing.T) {
	if got := StatusStyle(model.StatusOverdue).GetForeground(); got != ColorRed {
		t.Errorf("overdue foreground = %v, want %v", got, ColorRed)
	}
	if got := StatusStyle(model.StatusCompleted).GetForeground(); got != ColorGreen {
		t.Errorf("completed foreground = %v, want %v", got, ColorGreen)
	}
	if got := StatusStyle("UNKNOWN").GetForeground(); got != ColorGray {
		t.Errorf("unknown foreground = %v, want %v", got, ColorGray)
	}
}
