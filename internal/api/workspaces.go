package api

import (
	"context"

	"github.com/wolfeidau/mentorhub/internal/cache"
	"github.com/wolfeidau/mentorhub/internal/models"
)

var GetWorkspaces = Query[struct{}, models.WorkspacesResponse]{
	Name:     "getWorkspaces",
	Template: "/workspaces",
	Path:     func(struct{}) string { return "/workspaces" },
	Provides: func(_ struct{}, res *models.WorkspacesResponse) []cache.Tag {
		tags := []cache.Tag{cache.ListTag(TagWorkspace)}
		if res != nil {
			for _, ws := range res.Workspaces {
				tags = append(tags, cache.IDTag(TagWorkspace, ws.ID))
			}
		}
		return tags
	},
}

var GetWorkspaceMembers = Query[string, models.WorkspaceMembersResponse]{
	Name:     "getWorkspaceMembers",
	Template: "/workspacesInvites/{workspaceId}/members",
	Path: func(workspaceID string) string {
		return pathf("/workspacesInvites/%s/members", workspaceID)
	},
	Provides: func(workspaceID string, _ *models.WorkspaceMembersResponse) []cache.Tag {
		return []cache.Tag{cache.ListTag(TagWorkspaceMember), cache.IDTag(TagWorkspace, workspaceID)}
	},
}

func (a *API) GetWorkspaces(ctx context.Context) (*models.WorkspacesResponse, error) {
	return RunQuery(ctx, a, GetWorkspaces, struct{}{})
}

func (a *API) GetWorkspaceMembers(ctx context.Context, workspaceID string) (*models.WorkspaceMembersResponse, error) {
	return RunQuery(ctx, a, GetWorkspaceMembers, workspaceID)
}
