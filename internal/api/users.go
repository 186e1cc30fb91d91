package api

import (
	"context"

	"github.com/wolfeidau/mentorhub/internal/cache"
	"github.com/wolfeidau/mentorhub/internal/models"
)

type UsersArgs struct {
	Role     models.Role `json:"role,omitempty"`
	Disabled *bool       `json:"disabled,omitempty"`
	Search   string      `json:"search,omitempty"`
	Page     int         `json:"page,omitempty"`
	Limit    int         `json:"limit,omitempty"`
}

type UpdateUserStatusArgs struct {
	UserID   string `json:"userId"`
	Disabled bool   `json:"disabled"`
}

type UpdateUserRoleArgs struct {
	UserID string      `json:"userId"`
	Role   models.Role `json:"role"`
}

type BulkUserStatusArgs struct {
	UserIDs  []string `json:"userIds"`
	Disabled bool     `json:"disabled"`
}

type BulkDeleteUsersArgs struct {
	UserIDs []string `json:"userIds"`
}

var GetUsers = Query[UsersArgs, models.UsersResponse]{
	Name:     "getUsers",
	Template: "/users",
	Path: func(a UsersArgs) string {
		return withQuery("/users", params{}.
			str("role", string(a.Role)).
			boolPtr("disabled", a.Disabled).
			str("search", a.Search).
			int("page", a.Page).
			int("limit", a.Limit))
	},
	Provides: func(_ UsersArgs, res *models.UsersResponse) []cache.Tag {
		tags := []cache.Tag{cache.ListTag(TagUser)}
		if res == nil {
			return tags
		}
		for _, u := range res.Users {
			tags = append(tags, cache.IDTag(TagUser, u.ID))
		}
		return tags
	},
}

var GetUser = Query[string, models.UserResponse]{
	Name:     "getUser",
	Template: "/users/{id}",
	Path: func(id string) string {
		return pathf("/users/%s", id)
	},
	Provides: func(id string, _ *models.UserResponse) []cache.Tag {
		return []cache.Tag{cache.IDTag(TagUser, id)}
	},
}

var UpdateUserStatus = Mutation[UpdateUserStatusArgs, models.UserResponse]{
	Name:     "updateUserStatus",
	Template: "/users/{id}/status",
	Path: func(a UpdateUserStatusArgs) string {
		return pathf("/users/%s/status", a.UserID)
	},
	Body: func(a UpdateUserStatusArgs) any {
		return map[string]bool{"disabled": a.Disabled}
	},
	Validate: func(a UpdateUserStatusArgs) error {
		return required("userId", a.UserID)
	},
	Invalidates: func(a UpdateUserStatusArgs, _ *models.UserResponse) []cache.Tag {
		return []cache.Tag{cache.IDTag(TagUser, a.UserID), cache.ListTag(TagUser)}
	},
}

var UpdateUserRole = Mutation[UpdateUserRoleArgs, models.UserResponse]{
	Name:     "updateUserRole",
	Template: "/users/{id}/role",
	Path: func(a UpdateUserRoleArgs) string {
		return pathf("/users/%s/role", a.UserID)
	},
	Body: func(a UpdateUserRoleArgs) any {
		return map[string]models.Role{"role": a.Role}
	},
	Validate: func(a UpdateUserRoleArgs) error {
		if err := required("userId", a.UserID); err != nil {
			return err
		}
		if !a.Role.Valid() {
			return invalid("role", "must be one of admin, mentor, learner, user")
		}
		return nil
	},
	Invalidates: func(a UpdateUserRoleArgs, _ *models.UserResponse) []cache.Tag {
		return []cache.Tag{cache.IDTag(TagUser, a.UserID), cache.ListTag(TagUser)}
	},
}

// BulkToggleUserStatus enables or disables many users at once. The response
// partitions the ids into processed and failed.
var BulkToggleUserStatus = Mutation[BulkUserStatusArgs, models.BulkResponse]{
	Name:     "bulkToggleUserStatus",
	Template: "/users/bulk/status",
	Path:     func(BulkUserStatusArgs) string { return "/users/bulk/status" },
	Body:     func(a BulkUserStatusArgs) any { return a },
	Validate: func(a BulkUserStatusArgs) error {
		return validateIDs("userIds", a.UserIDs)
	},
	Invalidates: func(a BulkUserStatusArgs, _ *models.BulkResponse) []cache.Tag {
		return append([]cache.Tag{cache.ListTag(TagUser)}, idTags(TagUser, a.UserIDs)...)
	},
}

// BulkDeleteUsers deletes many users at once. Deleted users leave their
// workspaces, so membership lists are invalidated as well.
var BulkDeleteUsers = Mutation[BulkDeleteUsersArgs, models.BulkResponse]{
	Name:     "bulkDeleteUsers",
	Template: "/users/bulk/delete",
	Path:     func(BulkDeleteUsersArgs) string { return "/users/bulk/delete" },
	Body:     func(a BulkDeleteUsersArgs) any { return a },
	Validate: func(a BulkDeleteUsersArgs) error {
		return validateIDs("userIds", a.UserIDs)
	},
	Invalidates: func(a BulkDeleteUsersArgs, _ *models.BulkResponse) []cache.Tag {
		tags := append([]cache.Tag{cache.ListTag(TagUser)}, idTags(TagUser, a.UserIDs)...)
		return append(tags, cache.ListTag(TagWorkspaceMember))
	},
}

func validateIDs(field string, ids []string) error {
	if len(ids) == 0 {
		return invalid(field, "must contain at least one id")
	}
	for _, id := range ids {
		if err := required(field, id); err != nil {
			return invalid(field, "must not contain empty ids")
		}
	}
	return nil
}

func (a *API) GetUsers(ctx context.Context, args UsersArgs) (*models.UsersResponse, error) {
	return RunQuery(ctx, a, GetUsers, args)
}

func (a *API) GetUser(ctx context.Context, userID string) (*models.UserResponse, error) {
	return RunQuery(ctx, a, GetUser, userID)
}

func (a *API) UpdateUserStatus(ctx context.Context, args UpdateUserStatusArgs) (*models.UserResponse, error) {
	return RunMutation(ctx, a, UpdateUserStatus, args)
}

func (a *API) UpdateUserRole(ctx context.Context, args UpdateUserRoleArgs) (*models.UserResponse, error) {
	return RunMutation(ctx, a, UpdateUserRole, args)
}

func (a *API) BulkToggleUserStatus(ctx context.Context, args BulkUserStatusArgs) (*models.BulkResponse, error) {
	return RunMutation(ctx, a, BulkToggleUserStatus, args)
}

func (a *API) BulkDeleteUsers(ctx context.Context, args BulkDeleteUsersArgs) (*models.BulkResponse, error) {
	return RunMutation(ctx, a, BulkDeleteUsers, args)
}
