package model

import (
	"testing"
	"time"
)

func TestTaskIsOverdue(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"no deadline", Task{Status: StatusInProgress}, false},
		{"future deadline", Task{Status: StatusInProgress, Deadline: &future}, false},
		{"past deadline", Task{Status: StatusInProgress, Deadline: &past}, true},
		{"past but completed", Task{Status: StatusCompleted, Deadline: &past}, false},
		{"past but canceled", Task{Status: StatusCanceled, Deadline: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsOverdue(); got != tt.want {
				t.Errorf("IsOverdue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriorityLabel(t *testing.T) {
	tests := []struct {
		priority int
		want     string
	}{
		{0, "low"},
		{1, "low"},
		{2, "medium"},
		{3, "medium"},
		{4, "high"},
		{9, "high"},
	}
	for _, tt := range tests {
		task := Task{Priority: tt.priority}
		if got := task.PriorityLabel(); got != tt.want {
			t.Errorf("PriorityLabel(%d) = %q, want %q", tt.priority, got, tt.want)
		}
	}
}

func TestRolePermissions(t *testing.T) {
	tests := []struct {
		role        Role
		manageTasks bool
		editProject bool
	}{
		{RoleLeader, true, true},
		{RoleViceLeader, true, false},
		{RoleMember, false, false},
	}
	for _, tt := range tests {
		if got := tt.role.CanManageTasks(); got != tt.manageTasks {
			t.Errorf("%s.CanManageTasks = %v, want %v", tt.role, got, tt.manageTasks)
		}
		if got := tt.role.CanEditProject(); got != tt.editProject {
			t.Errorf("%s.CanEditProject = %v, want %v", tt.role, got, tt.editProject)
		}
	}
}

func TestUserDisplayHelpers(t *testing.T) {
	tests := []struct {
		user     User
		fullName string
		initials string
	}{
		{User{FirstName: "Hai", LastName: "Anh"}, "Hai Anh", "HA"},
		{User{FirstName: "Hai"}, "Hai", "H"},
		{User{Email: "x@example.com"}, "x@example.com", "x"},
	}
	for _, tt := range tests {
		if got := tt.user.FullName(); got != tt.fullName {
			t.Errorf("FullName = %q, want %q", got, tt.fullName)
		}
		if got := tt.user.Initials(); got != tt.initials {
			t.Errorf("Initials = %q, want %q", got, tt.initials)
		}
	}
}
