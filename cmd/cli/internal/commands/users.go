package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/wolfeidau/mentorhub/internal/bulk"
	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/pages"
	"github.com/wolfeidau/mentorhub/internal/views"
)

// UsersCmd administers platform accounts.
type UsersCmd struct {
	List        UsersListCmd        `cmd:"" help:"List users"`
	Disable     UsersDisableCmd     `cmd:"" help:"Disable a user"`
	Enable      UsersEnableCmd      `cmd:"" help:"Enable a user"`
	BulkDisable UsersBulkDisableCmd `cmd:"" name:"bulk-disable" help:"Disable several users"`
	BulkEnable  UsersBulkEnableCmd  `cmd:"" name:"bulk-enable" help:"Enable several users"`
	BulkDelete  UsersBulkDeleteCmd  `cmd:"" name:"bulk-delete" help:"Delete several users"`
	Role        UsersRoleCmd        `cmd:"" help:"Change a user's role"`
}

type UsersListCmd struct {
	Role   string `help:"Filter by role (admin, mentor, learner, user)" enum:",admin,mentor,learner,user" default:""`
	Tab    string `help:"Account state (all, active, disabled)" enum:"all,active,disabled" default:"all"`
	Search string `help:"Search name and email" short:"s"`
	Page   int    `help:"Page number" default:"1"`
	Limit  int    `help:"Users per page" default:"20"`
	WatchFlags
}

func (c *UsersListCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}

	page := pages.NewUsersPage(a, globals.notifier(), views.UserFilters{
		Role:   models.Role(c.Role),
		Page:   c.Page,
		Limit:  c.Limit,
		Search: c.Search,
		Tab:    views.UserTab(c.Tab),
	})

	w := globals.out()
	if c.Watch {
		return page.Watch(ctx, c.Interval, func(v pages.UsersView) {
			fmt.Fprint(w, clearScreen)
			printUsers(w, v, globals)
		})
	}

	v := page.Load(ctx)
	if v.Err != nil {
		return failure(v.Message, v.Retryable)
	}
	printUsers(w, v, globals)
	return nil
}

func printUsers(w io.Writer, v pages.UsersView, globals *Globals) {
	if v.Err != nil {
		fmt.Fprintf(w, "Error: %s\n", v.Message)
		return
	}
	if v.Empty() {
		fmt.Fprintln(w, "No users found.")
		return
	}

	now := globals.now()
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tSTATUS\tLAST LOGIN")
	for _, u := range v.Items {
		status := "active"
		if u.Disabled {
			status = "disabled"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", u.ID, truncate(u.FullName, 24), u.Email, views.Label(string(u.Role)), status, ago(u.LastLoginAt, now))
	}
	tw.Flush()

	s := v.Stats
	fmt.Fprintf(w, "\n%d users: %d active, %d disabled, %d admins, %d mentors, %d learners\n",
		s.Total, s.Active, s.Disabled, s.ByRole[models.RoleAdmin], s.ByRole[models.RoleMentor], s.ByRole[models.RoleLearner])
	pageFooter(w, len(v.Items), v.Fetched, v.Pagination)
}

type UsersDisableCmd struct {
	UserID string `arg:"" help:"User ID"`
}

func (c *UsersDisableCmd) Run(ctx context.Context, globals *Globals) error {
	return setDisabled(ctx, globals, c.UserID, true)
}

type UsersEnableCmd struct {
	UserID string `arg:"" help:"User ID"`
}

func (c *UsersEnableCmd) Run(ctx context.Context, globals *Globals) error {
	return setDisabled(ctx, globals, c.UserID, false)
}

func setDisabled(ctx context.Context, globals *Globals, userID string, disabled bool) error {
	a, err := globals.API()
	if err != nil {
		return err
	}
	page := pages.NewUsersPage(a, globals.notifier(), views.UserFilters{})
	return mutated(page.SetDisabled(ctx, userID, disabled))
}

// BulkUsersFlags select the accounts of a bulk command.
type BulkUsersFlags struct {
	UserIDs []string `arg:"" help:"User IDs"`
	Yes     bool     `help:"Skip confirmation prompt" short:"y"`
}

type UsersBulkDisableCmd struct{ BulkUsersFlags }

func (c *UsersBulkDisableCmd) Run(ctx context.Context, globals *Globals) error {
	return runBulk(ctx, globals, pages.BulkDisable, c.BulkUsersFlags)
}

type UsersBulkEnableCmd struct{ BulkUsersFlags }

func (c *UsersBulkEnableCmd) Run(ctx context.Context, globals *Globals) error {
	return runBulk(ctx, globals, pages.BulkEnable, c.BulkUsersFlags)
}

type UsersBulkDeleteCmd struct{ BulkUsersFlags }

func (c *UsersBulkDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	return runBulk(ctx, globals, pages.BulkDelete, c.BulkUsersFlags)
}

// runBulk drives the confirm flow on the terminal: the prompt stands in for
// the confirmation dialog and declining it cancels without a request.
func runBulk(ctx context.Context, globals *Globals, action pages.BulkAction, f BulkUsersFlags) error {
	a, err := globals.API()
	if err != nil {
		return err
	}
	page := pages.NewUsersPage(a, globals.notifier(), views.UserFilters{})

	flow, err := page.Flow(action)
	if err != nil {
		return err
	}
	exec, err := page.Executor(action)
	if err != nil {
		return err
	}

	if err := flow.Open(f.UserIDs); err != nil {
		return err
	}

	n := len(flow.Selected())
	if !globals.confirm(fmt.Sprintf("%s %d user(s)?", views.Label(string(action)), n), f.Yes) {
		fmt.Fprintln(globals.out(), "Cancelled.")
		return flow.Cancel()
	}

	out, err := flow.Confirm(ctx, exec)
	printOutcome(globals.out(), out)
	if derr := flow.Dismiss(); derr != nil && err == nil {
		err = derr
	}
	if err != nil {
		return err
	}
	if out.Failed > 0 || out.Unknown > 0 {
		return fmt.Errorf("%d of %d failed", out.Failed+out.Unknown, out.Total())
	}
	return nil
}

func printOutcome(w io.Writer, o bulk.Outcome) {
	if o.Total() == 0 {
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tRESULT\tREASON")
	for _, it := range o.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", it.ID, it.Status, it.Error)
	}
	tw.Flush()
}

type UsersRoleCmd struct {
	UserID string `arg:"" help:"User ID"`
	Role   string `arg:"" help:"New role" enum:"admin,mentor,learner,user"`
}

func (c *UsersRoleCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}
	page := pages.NewUsersPage(a, globals.notifier(), views.UserFilters{})
	return mutated(page.SetRole(ctx, c.UserID, models.Role(c.Role)))
}
