package pages

import (
	"context"
	"time"

	"github.com/wolfeidau/mentorhub/internal/api"
	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/notify"
	"golang.org/x/sync/errgroup"
)

// InvitationsView holds the viewer's own invitations and, when a workspace
// is selected, the invitations and join requests it manages.
type InvitationsView struct {
	Mine         View[models.Invitation]
	Workspace    View[models.Invitation]
	JoinRequests View[models.JoinRequest]
}

// InvitationsPage covers both sides of workspace membership: responding to
// invitations addressed to the viewer and managing a workspace's invitations
// and join requests.
type InvitationsPage struct {
	api      *api.API
	notifier notify.Notifier

	// WorkspaceID selects the managed workspace; empty shows only Mine.
	WorkspaceID string
	// Status filters the viewer's invitations and defaults to pending.
	Status models.InvitationStatus
}

func NewInvitationsPage(a *api.API, n notify.Notifier, workspaceID string) *InvitationsPage {
	return &InvitationsPage{api: a, notifier: n, WorkspaceID: workspaceID}
}

func (p *InvitationsPage) Load(ctx context.Context) InvitationsView {
	return p.load(ctx, false)
}

func (p *InvitationsPage) Refresh(ctx context.Context) InvitationsView {
	v := p.load(ctx, true)
	if v.Mine.Err == nil && v.Workspace.Err == nil && v.JoinRequests.Err == nil {
		p.notifier.Info("Refreshed invitations")
	}
	return v
}

func (p *InvitationsPage) load(ctx context.Context, force bool) InvitationsView {
	var v InvitationsView
	var g errgroup.Group

	g.Go(func() error {
		v.Mine = fetch(ctx, p.api, api.GetUserInvitations, api.UserInvitationsArgs{Status: p.Status}, force, "invitations",
			func(r *models.InvitationsResponse) []models.Invitation { return r.Invitations })
		return nil
	})
	if p.WorkspaceID != "" {
		g.Go(func() error {
			v.Workspace = fetch(ctx, p.api, api.GetWorkspaceInvitations, api.WorkspaceInvitationsArgs{WorkspaceID: p.WorkspaceID}, force, "workspace invitations",
				func(r *models.InvitationsResponse) []models.Invitation { return r.Invitations })
			return nil
		})
		g.Go(func() error {
			v.JoinRequests = fetch(ctx, p.api, api.GetWorkspaceJoinRequests, api.WorkspaceJoinRequestsArgs{WorkspaceID: p.WorkspaceID}, force, "join requests",
				func(r *models.JoinRequestsResponse) []models.JoinRequest { return r.JoinRequests })
			return nil
		})
	}
	_ = g.Wait()

	return v
}

// Watch re-renders when the viewer's invitations change.
func (p *InvitationsPage) Watch(ctx context.Context, every time.Duration, render func(InvitationsView)) error {
	return watch(ctx, p.api, api.GetUserInvitations, api.UserInvitationsArgs{Status: p.Status}, every, func(ctx context.Context, force bool) {
		render(p.load(ctx, force))
	})
}

// fetch runs one query into a View without client-side filtering.
func fetch[A, R, T any](ctx context.Context, a *api.API, q api.Query[A, R], args A, force bool, what string, rows func(*R) []T) View[T] {
	l := list[A, R, T]{api: a, query: q, what: what, rows: rows}
	return l.load(ctx, serverOnly[A, T](args), force)
}

func (p *InvitationsPage) Respond(ctx context.Context, invitationID string, accept bool) bool {
	_, err := p.api.RespondToInvitation(ctx, api.RespondToInvitationArgs{InvitationID: invitationID, Accept: accept})
	msg := "Invitation declined"
	if accept {
		msg = "Invitation accepted"
	}
	return notify.MutationResult(p.notifier, err, msg, "Failed to respond to invitation")
}

func (p *InvitationsPage) Invite(ctx context.Context, args api.CreateInvitationArgs) bool {
	if args.WorkspaceID == "" {
		args.WorkspaceID = p.WorkspaceID
	}
	_, err := p.api.CreateInvitation(ctx, args)
	return notify.MutationResult(p.notifier, err, "Invitation sent", "Failed to send invitation")
}

func (p *InvitationsPage) Cancel(ctx context.Context, invitationID string) bool {
	_, err := p.api.CancelInvitation(ctx, invitationID)
	return notify.MutationResult(p.notifier, err, "Invitation cancelled", "Failed to cancel invitation")
}

func (p *InvitationsPage) RequestToJoin(ctx context.Context, workspaceID, message string) bool {
	_, err := p.api.RequestToJoin(ctx, api.RequestToJoinArgs{WorkspaceID: workspaceID, Message: message})
	return notify.MutationResult(p.notifier, err, "Join request sent", "Failed to send join request")
}

func (p *InvitationsPage) RespondToJoinRequest(ctx context.Context, requestID string, approve bool, role models.WorkspaceRole) bool {
	_, err := p.api.RespondToJoinRequest(ctx, api.RespondToJoinRequestArgs{RequestID: requestID, Approve: approve, Role: role})
	msg := "Join request rejected"
	if approve {
		msg = "Join request approved"
	}
	return notify.MutationResult(p.notifier, err, msg, "Failed to respond to join request")
}

func (p *InvitationsPage) Withdraw(ctx context.Context, requestID string) bool {
	_, err := p.api.WithdrawJoinRequest(ctx, requestID)
	return notify.MutationResult(p.notifier, err, "Join request withdrawn", "Failed to withdraw join request")
}
