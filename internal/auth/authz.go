package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/wolfeidau/mentorhub/internal/models"
)

// Permission represents an authorized action
type Permission string

const (
	PermUsersManage         Permission = "users:manage"
	PermContactsManage      Permission = "contacts:manage"
	PermApplicationsReview  Permission = "applications:review"
	PermProjectsCreate      Permission = "projects:create"
	PermProjectsJoin        Permission = "projects:join"
	PermTasksUpdate         Permission = "tasks:update"
	PermSessionsManage      Permission = "sessions:manage"
	PermPathsEnroll         Permission = "paths:enroll"
	PermAnnouncementsCreate Permission = "announcements:create"
	PermMessagesSend        Permission = "messages:send"
	PermWorkspacesInvite    Permission = "workspaces:invite"
)

// RolePermissions maps platform roles to allowed permissions
var RolePermissions = map[models.Role][]Permission{
	models.RoleAdmin: {
		PermUsersManage,
		PermContactsManage,
		PermApplicationsReview,
		PermProjectsCreate,
		PermProjectsJoin,
		PermTasksUpdate,
		PermSessionsManage,
		PermPathsEnroll,
		PermAnnouncementsCreate,
		PermMessagesSend,
		PermWorkspacesInvite,
	},
	models.RoleMentor: {
		PermProjectsCreate,
		PermProjectsJoin,
		PermTasksUpdate,
		PermSessionsManage,
		PermAnnouncementsCreate,
		PermMessagesSend,
		PermWorkspacesInvite,
	},
	models.RoleLearner: {
		PermProjectsJoin,
		PermTasksUpdate,
		PermSessionsManage,
		PermPathsEnroll,
		PermMessagesSend,
	},
	models.RoleUser: {
		PermPathsEnroll,
		PermMessagesSend,
	},
}

var ErrUnauthenticated = errors.New("not authenticated")

// PermissionError reports a role lacking a permission.
type PermissionError struct {
	Role       models.Role
	Permission Permission
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s requires %s", e.Role, e.Permission)
}

// HasPermission checks if a role has a specific permission
func HasPermission(role models.Role, perm Permission) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	return slices.Contains(perms, perm)
}

// RequirePermission checks authorization and returns an error if not authorized
func RequirePermission(ctx context.Context, perm Permission) (*Principal, error) {
	p := PrincipalFromContext(ctx)
	if p == nil {
		return nil, ErrUnauthenticated
	}

	if !HasPermission(p.Role, perm) {
		return p, &PermissionError{Role: p.Role, Permission: perm}
	}

	return p, nil
}
