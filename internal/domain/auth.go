package domain

// Role is the principal role carried in session tokens.
type Role string

const (
	RoleEmployee  Role = "EMPLOYEE"
	RoleHRPlanner Role = "HR_PLANNER"
)

// Credential is a login record for the demo directory. PasswordHash is
// a bcrypt hash; plaintext is never stored.
type Credential struct {
	UserID       string
	PasswordHash []byte
	Name         string
	Role         Role
}
