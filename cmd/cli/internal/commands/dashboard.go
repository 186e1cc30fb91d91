package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/pages"
	"github.com/wolfeidau/mentorhub/internal/views"
)

// DashboardCmd prints the landing page summaries.
type DashboardCmd struct {
	Admin   DashboardAdminCmd   `cmd:"" help:"Admin overview"`
	Learner DashboardLearnerCmd `cmd:"" help:"Your projects, sessions and inbox"`
}

type DashboardAdminCmd struct {
	Refresh bool `help:"Bypass cached data"`
}

func (c *DashboardAdminCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}

	d := pages.NewAdminDashboard(a, globals.notifier())
	var s pages.AdminSummary
	if c.Refresh {
		s = d.Refresh(ctx)
	} else {
		s = d.Load(ctx)
	}

	w := globals.out()
	printSection(w, "Users", s.Users, func(u views.UserStats) string {
		return fmt.Sprintf("%d total, %d active, %d disabled", u.Total, u.Active, u.Disabled)
	})
	printSection(w, "Projects", s.Projects, func(p views.ProjectStats) string {
		return fmt.Sprintf("%d total, %d active, average progress %s", p.Total, p.ByStatus[models.ProjectActive], views.Percent(p.AverageProgress))
	})
	printSection(w, "Contacts", s.Contacts, func(ct views.ContactStats) string {
		return fmt.Sprintf("%d total, %d open", ct.Total, ct.Open())
	})
	printSection(w, "Applications", s.Applications, func(ap views.ApplicationStats) string {
		return fmt.Sprintf("%d total, %d awaiting review", ap.Total, ap.AwaitingReview())
	})
	printSection(w, "Workspaces", s.Workspaces, func(ws []models.Workspace) string {
		members := 0
		for _, x := range ws {
			members += x.MemberCount
		}
		return fmt.Sprintf("%d workspaces, %d members", len(ws), members)
	})
	return nil
}

type DashboardLearnerCmd struct {
	Refresh bool `help:"Bypass cached data"`
}

func (c *DashboardLearnerCmd) Run(ctx context.Context, globals *Globals) error {
	viewer, err := globals.viewer()
	if err != nil {
		return err
	}
	a, err := globals.API()
	if err != nil {
		return err
	}

	d := pages.NewLearnerDashboard(a, globals.notifier(), viewer)
	var s pages.LearnerSummary
	if c.Refresh {
		s = d.Refresh(ctx)
	} else {
		s = d.Load(ctx)
	}

	now := globals.now()
	w := globals.out()

	printList(w, "My projects", s.Projects, func(p models.Project) string {
		return fmt.Sprintf("%s  %s  %s", p.Title, views.Label(string(p.Status)), views.Percent(p.Progress))
	})
	printList(w, "Upcoming sessions", s.Upcoming, func(se models.Session) string {
		return fmt.Sprintf("%s  %s  with %s", se.Title, ago(se.ScheduledAt, now), se.MentorName)
	})
	printList(w, "Learning paths", s.Paths, func(p models.LearningPath) string {
		return fmt.Sprintf("%s  (%d modules)", p.Title, len(p.Modules))
	})
	printList(w, "Invitations", s.Invitations, func(inv models.Invitation) string {
		return fmt.Sprintf("%s  to %s as %s", inv.ID, inv.WorkspaceName, inv.Role)
	})
	printList(w, "Announcements", s.Announcements, func(an models.Announcement) string {
		return fmt.Sprintf("%s  %s", an.Title, views.Excerpt(an.Body, 60))
	})
	printSection(w, "Messages", s.Unread, func(n int) string {
		return fmt.Sprintf("%d unread", n)
	})
	return nil
}

func printSection[T any](w io.Writer, title string, s pages.Section[T], summary func(T) string) {
	if s.Err != nil {
		retry := ""
		if s.Retryable {
			retry = " (try again)"
		}
		fmt.Fprintf(w, "%-14s unavailable: %s%s\n", title, s.Message, retry)
		return
	}
	fmt.Fprintf(w, "%-14s %s\n", title, summary(s.Value))
}

func printList[T any](w io.Writer, title string, s pages.Section[[]T], line func(T) string) {
	fmt.Fprintf(w, "%s\n", title)
	switch {
	case s.Err != nil:
		fmt.Fprintf(w, "  unavailable: %s\n", s.Message)
	case len(s.Value) == 0:
		fmt.Fprintln(w, "  none")
	default:
		for _, item := range s.Value {
			fmt.Fprintf(w, "  %s\n", line(item))
		}
	}
	fmt.Fprintln(w)
}

