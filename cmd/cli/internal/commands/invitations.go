package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wolfeidau/mentorhub/internal/api"
	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/pages"
	"gopkg.in/yaml.v3"
)

// InvitationsCmd manages workspace invitations.
type InvitationsCmd struct {
	List    InvitationsListCmd    `cmd:"" help:"List a workspace's invitations"`
	Mine    InvitationsMineCmd    `cmd:"" help:"List invitations addressed to you"`
	Create  InvitationsCreateCmd  `cmd:"" help:"Invite someone to a workspace"`
	Respond InvitationsRespondCmd `cmd:"" help:"Accept or decline an invitation"`
	Cancel  InvitationsCancelCmd  `cmd:"" help:"Cancel a pending invitation"`
}

type InvitationsListCmd struct {
	WorkspaceID string `arg:"" help:"Workspace ID"`
	WatchFlags
}

func (c *InvitationsListCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}

	page := pages.NewInvitationsPage(a, globals.notifier(), c.WorkspaceID)

	w := globals.out()
	render := func(v pages.InvitationsView) {
		printInvitations(w, "Invitations", v.Workspace, globals)
		fmt.Fprintln(w)
		printJoinRequests(w, v.JoinRequests, globals)
	}
	if c.Watch {
		return page.Watch(ctx, c.Interval, func(v pages.InvitationsView) {
			fmt.Fprint(w, clearScreen)
			render(v)
		})
	}

	v := page.Load(ctx)
	if v.Workspace.Err != nil {
		return failure(v.Workspace.Message, v.Workspace.Retryable)
	}
	render(v)
	return nil
}

type InvitationsMineCmd struct {
	Status string `help:"Invitation status" enum:"pending,accepted,declined,cancelled" default:"pending"`
	WatchFlags
}

func (c *InvitationsMineCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}

	page := pages.NewInvitationsPage(a, globals.notifier(), "")
	page.Status = models.InvitationStatus(c.Status)

	w := globals.out()
	if c.Watch {
		return page.Watch(ctx, c.Interval, func(v pages.InvitationsView) {
			fmt.Fprint(w, clearScreen)
			printInvitations(w, "Your invitations", v.Mine, globals)
		})
	}

	v := page.Load(ctx)
	if v.Mine.Err != nil {
		return failure(v.Mine.Message, v.Mine.Retryable)
	}
	printInvitations(w, "Your invitations", v.Mine, globals)
	return nil
}

func printInvitations(w io.Writer, title string, v pages.View[models.Invitation], globals *Globals) {
	fmt.Fprintf(w, "%s:\n", title)
	if v.Err != nil {
		fmt.Fprintf(w, "Error: %s\n", v.Message)
		return
	}
	if v.Empty() {
		fmt.Fprintln(w, "No invitations.")
		return
	}

	now := globals.now()
	tw := table(w)
	fmt.Fprintln(tw, "ID\tWORKSPACE\tINVITEE\tROLE\tFROM\tSTATUS\tSENT")
	for _, inv := range v.Items {
		invitee := inv.Email
		if invitee == "" {
			invitee = inv.InviteeID
		}
		workspace := inv.WorkspaceName
		if workspace == "" {
			workspace = inv.WorkspaceID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", inv.ID, workspace, invitee, inv.Role, inv.InviterName, inv.Status, ago(inv.CreatedAt, now))
	}
	tw.Flush()
}

// InvitationFile is the YAML accepted by invitations create --file. It may
// list several invitees for the same workspace.
type InvitationFile struct {
	WorkspaceID string `yaml:"workspaceId"`
	Role        string `yaml:"role"`
	Message     string `yaml:"message"`
	Invitees    []struct {
		Email  string `yaml:"email"`
		UserID string `yaml:"userId"`
		Role   string `yaml:"role"`
	} `yaml:"invitees"`
}

type InvitationsCreateCmd struct {
	WorkspaceID string `help:"Workspace ID"`
	Email       string `help:"Invitee email"`
	UserID      string `help:"Invitee user ID"`
	Role        string `help:"Workspace role" enum:"admin,mentor,member" default:"member"`
	Message     string `help:"Personal message"`
	File        string `help:"YAML file with invitees" type:"existingfile" short:"f"`
}

func (c *InvitationsCreateCmd) invitations() ([]api.CreateInvitationArgs, error) {
	if c.File == "" {
		if c.WorkspaceID == "" {
			return nil, errors.New("--workspace-id is required")
		}
		return []api.CreateInvitationArgs{{
			WorkspaceID: c.WorkspaceID,
			Email:       c.Email,
			InviteeID:   c.UserID,
			Role:        models.WorkspaceRole(c.Role),
			Message:     c.Message,
		}}, nil
	}

	data, err := os.ReadFile(c.File)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	var f InvitationFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", c.File, err)
	}
	if f.WorkspaceID == "" {
		f.WorkspaceID = c.WorkspaceID
	}
	if f.Role == "" {
		f.Role = c.Role
	}

	out := make([]api.CreateInvitationArgs, 0, len(f.Invitees))
	for _, inv := range f.Invitees {
		role := inv.Role
		if role == "" {
			role = f.Role
		}
		out = append(out, api.CreateInvitationArgs{
			WorkspaceID: f.WorkspaceID,
			Email:       inv.Email,
			InviteeID:   inv.UserID,
			Role:        models.WorkspaceRole(role),
			Message:     f.Message,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s lists no invitees", c.File)
	}
	return out, nil
}

func (c *InvitationsCreateCmd) Run(ctx context.Context, globals *Globals) error {
	invitations, err := c.invitations()
	if err != nil {
		return err
	}

	a, err := globals.API()
	if err != nil {
		return err
	}
	page := pages.NewInvitationsPage(a, globals.notifier(), "")

	failed := 0
	for _, inv := range invitations {
		if !page.Invite(ctx, inv) {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d invitations failed", failed, len(invitations))
	}
	return nil
}

type InvitationsRespondCmd struct {
	InvitationID string `arg:"" help:"Invitation ID"`
	Decision     string `arg:"" help:"accept or decline" enum:"accept,decline"`
}

func (c *InvitationsRespondCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}
	page := pages.NewInvitationsPage(a, globals.notifier(), "")
	return mutated(page.Respond(ctx, c.InvitationID, c.Decision == "accept"))
}

type InvitationsCancelCmd struct {
	InvitationID string `arg:"" help:"Invitation ID"`
}

func (c *InvitationsCancelCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}
	return mutated(pages.NewInvitationsPage(a, globals.notifier(), "").Cancel(ctx, c.InvitationID))
}

// JoinRequestsCmd manages requests to join a workspace.
type JoinRequestsCmd struct {
	List     JoinRequestsListCmd     `cmd:"" help:"List a workspace's join requests"`
	Request  JoinRequestsRequestCmd  `cmd:"" help:"Ask to join a workspace"`
	Respond  JoinRequestsRespondCmd  `cmd:"" help:"Approve or reject a join request"`
	Withdraw JoinRequestsWithdrawCmd `cmd:"" help:"Withdraw your join request"`
}

type JoinRequestsListCmd struct {
	WorkspaceID string `arg:"" help:"Workspace ID"`
}

func (c *JoinRequestsListCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}

	v := pages.NewInvitationsPage(a, globals.notifier(), c.WorkspaceID).Load(ctx)
	if v.JoinRequests.Err != nil {
		return failure(v.JoinRequests.Message, v.JoinRequests.Retryable)
	}
	printJoinRequests(globals.out(), v.JoinRequests, globals)
	return nil
}

func printJoinRequests(w io.Writer, v pages.View[models.JoinRequest], globals *Globals) {
	fmt.Fprintln(w, "Join requests:")
	if v.Err != nil {
		fmt.Fprintf(w, "Error: %s\n", v.Message)
		return
	}
	if v.Empty() {
		fmt.Fprintln(w, "No join requests.")
		return
	}

	now := globals.now()
	tw := table(w)
	fmt.Fprintln(tw, "ID\tREQUESTER\tEMAIL\tSTATUS\tROLE\tREQUESTED\tMESSAGE")
	for _, jr := range v.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", jr.ID, jr.RequesterName, jr.Email, jr.Status, jr.AssignedRole, ago(jr.CreatedAt, now), truncate(jr.Message, 40))
	}
	tw.Flush()
}

type JoinRequestsRequestCmd struct {
	WorkspaceID string `arg:"" help:"Workspace ID"`
	Message     string `help:"Note for the workspace admins"`
}

func (c *JoinRequestsRequestCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}
	return mutated(pages.NewInvitationsPage(a, globals.notifier(), "").RequestToJoin(ctx, c.WorkspaceID, c.Message))
}

type JoinRequestsRespondCmd struct {
	RequestID string `arg:"" help:"Join request ID"`
	Decision  string `arg:"" help:"approve or reject" enum:"approve,reject"`
	Role      string `help:"Role to grant on approval" enum:",admin,mentor,member" default:""`
}

func (c *JoinRequestsRespondCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}
	page := pages.NewInvitationsPage(a, globals.notifier(), "")
	return mutated(page.RespondToJoinRequest(ctx, c.RequestID, c.Decision == "approve", models.WorkspaceRole(c.Role)))
}

type JoinRequestsWithdrawCmd struct {
	RequestID string `arg:"" help:"Join request ID"`
}

func (c *JoinRequestsWithdrawCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}
	return mutated(pages.NewInvitationsPage(a, globals.notifier(), "").Withdraw(ctx, c.RequestID))
}
