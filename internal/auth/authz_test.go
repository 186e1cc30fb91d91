package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mentorhub/internal/models"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role models.Role
		perm Permission
		want bool
	}{
		{models.RoleAdmin, PermUsersManage, true},
		{models.RoleAdmin, PermWorkspacesInvite, true},
		{models.RoleMentor, PermUsersManage, false},
		{models.RoleMentor, PermProjectsCreate, true},
		{models.RoleLearner, PermProjectsJoin, true},
		{models.RoleLearner, PermApplicationsReview, false},
		{models.RoleUser, PermPathsEnroll, true},
		{models.RoleUser, PermTasksUpdate, false},
		{"ghost", PermMessagesSend, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.perm), func(t *testing.T) {
			require.Equal(t, tt.want, HasPermission(tt.role, tt.perm))
		})
	}
}

func TestAdminHoldsEveryPermission(t *testing.T) {
	for role, perms := range RolePermissions {
		for _, p := range perms {
			require.True(t, HasPermission(models.RoleAdmin, p), "admin lacks %s held by %s", p, role)
		}
	}
}

func TestRequirePermission(t *testing.T) {
	_, err := RequirePermission(context.Background(), PermUsersManage)
	require.ErrorIs(t, err, ErrUnauthenticated)

	ctx := WithPrincipal(context.Background(), &Principal{UserID: "u-2", Role: models.RoleLearner})

	p, err := RequirePermission(ctx, PermProjectsJoin)
	require.NoError(t, err)
	require.Equal(t, "u-2", p.UserID)

	_, err = RequirePermission(ctx, PermUsersManage)
	var perr *PermissionError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, models.RoleLearner, perr.Role)
	require.EqualError(t, err, "permission denied: learner requires users:manage")
}
