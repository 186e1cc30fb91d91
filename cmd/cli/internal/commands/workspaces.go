package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/mentorhub/internal/views"
)

// WorkspacesCmd lists workspaces and their members.
type WorkspacesCmd struct {
	List    WorkspacesListCmd    `cmd:"" help:"List workspaces you can see"`
	Members WorkspacesMembersCmd `cmd:"" help:"List the members of a workspace"`
}

type WorkspacesListCmd struct{}

func (c *WorkspacesListCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}

	res, err := a.GetWorkspaces(ctx)
	if err != nil {
		return loadError(err, "Workspaces not available", "Failed to load workspaces")
	}

	w := globals.out()
	if len(res.Workspaces) == 0 {
		fmt.Fprintln(w, "No workspaces.")
		return nil
	}

	now := globals.now()
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tOWNER\tMEMBERS\tCREATED")
	for _, ws := range res.Workspaces {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", ws.ID, ws.Name, ws.OwnerID, ws.MemberCount, ago(ws.CreatedAt, now))
	}
	return tw.Flush()
}

type WorkspacesMembersCmd struct {
	WorkspaceID string `arg:"" help:"Workspace ID"`
}

func (c *WorkspacesMembersCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}

	res, err := a.GetWorkspaceMembers(ctx, c.WorkspaceID)
	if err != nil {
		return loadError(err, "Workspace not found", "Failed to load members")
	}

	now := globals.now()
	tw := table(globals.out())
	fmt.Fprintln(tw, "USER\tNAME\tEMAIL\tROLE\tJOINED")
	for _, m := range res.Members {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.UserID, m.FullName, m.Email, views.Label(string(m.Role)), ago(m.JoinedAt, now))
	}
	return tw.Flush()
}
