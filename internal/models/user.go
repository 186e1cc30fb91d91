package models

// Role is a platform-wide user role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleMentor  Role = "mentor"
	RoleLearner Role = "learner"
	RoleUser    Role = "user"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleMentor, RoleLearner, RoleUser}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMentor, RoleLearner, RoleUser:
		return true
	}
	return false
}

// User is a platform account.
type User struct {
	ID          string    `json:"id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	Disabled    bool      `json:"disabled"`
	CreatedAt   Timestamp `json:"createdAt"`
	LastLoginAt Timestamp `json:"lastLoginAt"`
}

// UsersResponse is a page of users.
type UsersResponse struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	Message string `json:"message,omitempty"`
	User    User   `json:"user"`
}
