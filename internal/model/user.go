package model

// Role is a user's role within a project. The backend enforces
// authorization; the client only uses roles to hide actions that would
// be rejected anyway.
type Role string

const (
	RoleLeader     Role = "LEADER"
	RoleViceLeader Role = "VICE_LEADER"
	RoleMember     Role = "MEMBER"
)

// CanManageTasks reports whether the role may create, edit, or delete
// tasks for other members.
func (r Role) CanManageTasks() bool {
	return r == RoleLeader || r == RoleViceLeader
}

// CanEditProject reports whether the role may change project settings
// or membership.
func (r Role) CanEditProject() bool {
	return r == RoleLeader
}

// User is a TEAManage account as returned by the API.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// FullName returns the display name, falling back to the email address
// when the name fields are empty.
func (u User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Initials returns up to two characters used for compact assignee display.
func (u User) Initials() string {
	initials := ""
	if u.FirstName != "" {
		initials += string([]rune(u.FirstName)[0])
	}
	if u.LastName != "" {
		initials += string([]rune(u.LastName)[0])
	}
	if initials == "" && u.Email != "" {
		initials = string([]rune(u.Email)[0])
	}
	return initials
}
