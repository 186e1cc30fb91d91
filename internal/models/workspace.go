package models

// WorkspaceRole is the role a member holds within a workspace.
type WorkspaceRole string

const (
	WorkspaceRoleOwner  WorkspaceRole = "owner"
	WorkspaceRoleAdmin  WorkspaceRole = "admin"
	WorkspaceRoleMentor WorkspaceRole = "mentor"
	WorkspaceRoleMember WorkspaceRole = "member"
)

// Valid reports whether r is a known workspace role.
func (r WorkspaceRole) Valid() bool {
	switch r {
	case WorkspaceRoleOwner, WorkspaceRoleAdmin, WorkspaceRoleMentor, WorkspaceRoleMember:
		return true
	}
	return false
}

// Workspace is a collaborative space that users join by invitation or request.
type Workspace struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OwnerID     string    `json:"ownerId"`
	MemberCount int       `json:"memberCount"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// WorkspaceMember links a user to a workspace.
type WorkspaceMember struct {
	WorkspaceID string        `json:"workspaceId"`
	UserID      string        `json:"userId"`
	FullName    string        `json:"fullName"`
	Email       string        `json:"email"`
	Role        WorkspaceRole `json:"role"`
	JoinedAt    Timestamp     `json:"joinedAt"`
}

// WorkspacesResponse lists the workspaces visible to the caller.
type WorkspacesResponse struct {
	Workspaces []Workspace `json:"workspaces"`
}

// WorkspaceMembersResponse lists the members of one workspace.
type WorkspaceMembersResponse struct {
	Members []WorkspaceMember `json:"members"`
}
