package api

import (
	"context"

	"github.com/wolfeidau/mentorhub/internal/cache"
	"github.com/wolfeidau/mentorhub/internal/models"
)

type WorkspaceInvitationsArgs struct {
	WorkspaceID string                  `json:"workspaceId"`
	Status      models.InvitationStatus `json:"status,omitempty"`
	Page        int                     `json:"page,omitempty"`
	Limit       int                     `json:"limit,omitempty"`
}

type UserInvitationsArgs struct {
	// Status defaults to pending.
	Status models.InvitationStatus `json:"status,omitempty"`
}

type CreateInvitationArgs struct {
	WorkspaceID string               `json:"workspaceId"`
	Email       string               `json:"email,omitempty"`
	InviteeID   string               `json:"inviteeId,omitempty"`
	Role        models.WorkspaceRole `json:"role"`
	Message     string               `json:"message,omitempty"`
}

type RespondToInvitationArgs struct {
	InvitationID string `json:"invitationId"`
	Accept       bool   `json:"accept"`
}

type RequestToJoinArgs struct {
	WorkspaceID string `json:"workspaceId"`
	Message     string `json:"message,omitempty"`
}

type RespondToJoinRequestArgs struct {
	RequestID string               `json:"requestId"`
	Approve   bool                 `json:"approve"`
	Role      models.WorkspaceRole `json:"role,omitempty"`
}

type WorkspaceJoinRequestsArgs struct {
	WorkspaceID string                   `json:"workspaceId"`
	Status      models.JoinRequestStatus `json:"status,omitempty"`
}

var GetWorkspaceInvitations = Query[WorkspaceInvitationsArgs, models.InvitationsResponse]{
	Name:     "getWorkspaceInvitations",
	Template: "/workspacesInvites/{workspaceId}/invitations",
	Path: func(a WorkspaceInvitationsArgs) string {
		return withQuery(pathf("/workspacesInvites/%s/invitations", a.WorkspaceID), params{}.
			str("status", string(a.Status)).
			int("page", a.Page).
			int("limit", a.Limit))
	},
	Provides: func(a WorkspaceInvitationsArgs, _ *models.InvitationsResponse) []cache.Tag {
		return []cache.Tag{cache.ListTag(TagInvitation), cache.IDTag(TagWorkspace, a.WorkspaceID)}
	},
}

var GetUserInvitations = Query[UserInvitationsArgs, models.InvitationsResponse]{
	Name:     "getUserInvitations",
	Template: "/invitations/user",
	Path: func(a UserInvitationsArgs) string {
		status := a.Status
		if status == "" {
			status = models.InvitationPending
		}
		return withQuery("/invitations/user", params{}.str("status", string(status)))
	},
	Provides: func(UserInvitationsArgs, *models.InvitationsResponse) []cache.Tag {
		return []cache.Tag{cache.UserTag(TagInvitation)}
	},
	Defaults: func(a UserInvitationsArgs) UserInvitationsArgs {
		if a.Status == "" {
			a.Status = models.InvitationPending
		}
		return a
	},
}

var CreateInvitation = Mutation[CreateInvitationArgs, models.InvitationResponse]{
	Name:     "createInvitation",
	Template: "/workspacesInvites/{workspaceId}/invitations",
	Path: func(a CreateInvitationArgs) string {
		return pathf("/workspacesInvites/%s/invitations", a.WorkspaceID)
	},
	Body: func(a CreateInvitationArgs) any {
		return struct {
			Email     string               `json:"email,omitempty"`
			InviteeID string               `json:"inviteeId,omitempty"`
			Role      models.WorkspaceRole `json:"role"`
			Message   string               `json:"message,omitempty"`
		}{a.Email, a.InviteeID, a.Role, a.Message}
	},
	Validate: func(a CreateInvitationArgs) error {
		if err := required("workspaceId", a.WorkspaceID); err != nil {
			return err
		}
		if a.Email == "" && a.InviteeID == "" {
			return invalid("invitee", "needs an email or a user id")
		}
		if !a.Role.Valid() {
			return invalid("role", "must be one of owner, admin, mentor, member")
		}
		return nil
	},
	Invalidates: func(a CreateInvitationArgs, _ *models.InvitationResponse) []cache.Tag {
		return []cache.Tag{cache.ListTag(TagInvitation), cache.IDTag(TagWorkspace, a.WorkspaceID)}
	},
}

// RespondToInvitation accepts or declines an invitation. Accepting changes
// membership, so membership and workspace lists are invalidated too.
var RespondToInvitation = Mutation[RespondToInvitationArgs, models.InvitationResponse]{
	Name:     "respondToInvitation",
	Template: "/invitations/{id}/respond",
	Path: func(a RespondToInvitationArgs) string {
		return pathf("/invitations/%s/respond", a.InvitationID)
	},
	Body: func(a RespondToInvitationArgs) any {
		return map[string]bool{"accept": a.Accept}
	},
	Validate: func(a RespondToInvitationArgs) error {
		return required("invitationId", a.InvitationID)
	},
	Invalidates: func(RespondToInvitationArgs, *models.InvitationResponse) []cache.Tag {
		return []cache.Tag{
			cache.UserTag(TagInvitation),
			cache.ListTag(TagInvitation),
			cache.ListTag(TagWorkspaceMember),
			cache.ListTag(TagWorkspace),
		}
	},
}

// CancelInvitation withdraws a pending invitation. Membership is unchanged.
var CancelInvitation = Mutation[string, models.InvitationResponse]{
	Name:     "cancelInvitation",
	Template: "/invitations/{id}/cancel",
	Path: func(id string) string {
		return pathf("/invitations/%s/cancel", id)
	},
	Validate: func(id string) error {
		return required("invitationId", id)
	},
	Invalidates: func(string, *models.InvitationResponse) []cache.Tag {
		return []cache.Tag{cache.ListTag(TagInvitation), cache.UserTag(TagInvitation)}
	},
}

var RequestToJoin = Mutation[RequestToJoinArgs, models.JoinRequestResponse]{
	Name:     "requestToJoin",
	Template: "/workspacesInvites/{workspaceId}/join-request",
	Path: func(a RequestToJoinArgs) string {
		return pathf("/workspacesInvites/%s/join-request", a.WorkspaceID)
	},
	Body: func(a RequestToJoinArgs) any {
		return map[string]string{"message": a.Message}
	},
	Validate: func(a RequestToJoinArgs) error {
		return required("workspaceId", a.WorkspaceID)
	},
	Invalidates: func(RequestToJoinArgs, *models.JoinRequestResponse) []cache.Tag {
		return []cache.Tag{cache.ListTag(TagJoinRequest), cache.UserTag(TagJoinRequest)}
	},
}

var RespondToJoinRequest = Mutation[RespondToJoinRequestArgs, models.JoinRequestResponse]{
	Name:     "respondToJoinRequest",
	Template: "/invitations/{id}/respond-join-request",
	Path: func(a RespondToJoinRequestArgs) string {
		return pathf("/invitations/%s/respond-join-request", a.RequestID)
	},
	Body: func(a RespondToJoinRequestArgs) any {
		return struct {
			Approve bool                 `json:"approve"`
			Role    models.WorkspaceRole `json:"role,omitempty"`
		}{a.Approve, a.Role}
	},
	Validate: func(a RespondToJoinRequestArgs) error {
		if err := required("requestId", a.RequestID); err != nil {
			return err
		}
		if a.Role != "" && !a.Role.Valid() {
			return invalid("role", "must be one of owner, admin, mentor, member")
		}
		return nil
	},
	Invalidates: func(RespondToJoinRequestArgs, *models.JoinRequestResponse) []cache.Tag {
		return []cache.Tag{
			cache.ListTag(TagJoinRequest),
			cache.ListTag(TagWorkspaceMember),
			cache.ListTag(TagWorkspace),
		}
	},
}

var GetWorkspaceJoinRequests = Query[WorkspaceJoinRequestsArgs, models.JoinRequestsResponse]{
	Name:     "getWorkspaceJoinRequests",
	Template: "/workspacesInvites/{workspaceId}/join-requests",
	Path: func(a WorkspaceJoinRequestsArgs) string {
		return withQuery(pathf("/workspacesInvites/%s/join-requests", a.WorkspaceID), params{}.
			str("status", string(a.Status)))
	},
	Provides: func(a WorkspaceJoinRequestsArgs, _ *models.JoinRequestsResponse) []cache.Tag {
		return []cache.Tag{cache.ListTag(TagJoinRequest), cache.IDTag(TagWorkspace, a.WorkspaceID)}
	},
}

var WithdrawJoinRequest = Mutation[string, models.JoinRequestResponse]{
	Name:     "withdrawJoinRequest",
	Template: "/workspacesInvites/join-requests/{id}/withdraw",
	Path: func(id string) string {
		return pathf("/workspacesInvites/join-requests/%s/withdraw", id)
	},
	Validate: func(id string) error {
		return required("requestId", id)
	},
	Invalidates: func(string, *models.JoinRequestResponse) []cache.Tag {
		return []cache.Tag{cache.ListTag(TagJoinRequest), cache.UserTag(TagJoinRequest)}
	},
}

func (a *API) GetWorkspaceInvitations(ctx context.Context, args WorkspaceInvitationsArgs) (*models.InvitationsResponse, error) {
	return RunQuery(ctx, a, GetWorkspaceInvitations, args)
}

func (a *API) GetUserInvitations(ctx context.Context, args UserInvitationsArgs) (*models.InvitationsResponse, error) {
	return RunQuery(ctx, a, GetUserInvitations, args)
}

func (a *API) CreateInvitation(ctx context.Context, args CreateInvitationArgs) (*models.InvitationResponse, error) {
	return RunMutation(ctx, a, CreateInvitation, args)
}

func (a *API) RespondToInvitation(ctx context.Context, args RespondToInvitationArgs) (*models.InvitationResponse, error) {
	return RunMutation(ctx, a, RespondToInvitation, args)
}

func (a *API) CancelInvitation(ctx context.Context, invitationID string) (*models.InvitationResponse, error) {
	return RunMutation(ctx, a, CancelInvitation, invitationID)
}

func (a *API) RequestToJoin(ctx context.Context, args RequestToJoinArgs) (*models.JoinRequestResponse, error) {
	return RunMutation(ctx, a, RequestToJoin, args)
}

func (a *API) RespondToJoinRequest(ctx context.Context, args RespondToJoinRequestArgs) (*models.JoinRequestResponse, error) {
	return RunMutation(ctx, a, RespondToJoinRequest, args)
}

func (a *API) GetWorkspaceJoinRequests(ctx context.Context, args WorkspaceJoinRequestsArgs) (*models.JoinRequestsResponse, error) {
	return RunQuery(ctx, a, GetWorkspaceJoinRequests, args)
}

func (a *API) WithdrawJoinRequest(ctx context.Context, requestID string) (*models.JoinRequestResponse, error) {
	return RunMutation(ctx, a, WithdrawJoinRequest, requestID)
}
