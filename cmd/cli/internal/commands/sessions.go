package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/pages"
	"github.com/wolfeidau/mentorhub/internal/views"
)

// SessionsCmd lists and moves mentoring sessions.
type SessionsCmd struct {
	List   SessionsListCmd   `cmd:"" help:"List your sessions"`
	Status SessionsStatusCmd `cmd:"" help:"Accept, complete, reject or cancel a session"`
}

type SessionsListCmd struct {
	Status string `help:"Server-side status filter" enum:",pending,accepted,completed,cancelled,rejected" default:""`
	As     string `help:"Only sessions where you are the mentor or the learner" enum:",mentor,learner" default:""`
	Tab    string `help:"Tab (all, upcoming, past)" enum:"all,upcoming,past" default:"upcoming"`
	Search string `help:"Search title and participant names" short:"s"`
	WatchFlags
}

func (c *SessionsListCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}

	page := pages.NewSessionsPage(a, globals.notifier(), views.SessionFilters{
		Status: models.SessionStatus(c.Status),
		Role:   models.Role(c.As),
		Search: c.Search,
		Tab:    views.SessionTab(c.Tab),
	})

	w := globals.out()
	if c.Watch {
		return page.Watch(ctx, c.Interval, func(v pages.SessionsView) {
			fmt.Fprint(w, clearScreen)
			printSessions(w, v, globals)
		})
	}

	v := page.Load(ctx)
	if v.Err != nil {
		return failure(v.Message, v.Retryable)
	}
	printSessions(w, v, globals)
	return nil
}

func printSessions(w io.Writer, v pages.SessionsView, globals *Globals) {
	if v.Err != nil {
		fmt.Fprintf(w, "Error: %s\n", v.Message)
		return
	}
	if v.Empty() {
		fmt.Fprintln(w, "No sessions found.")
		return
	}

	now := globals.now()
	tw := table(w)
	fmt.Fprintln(tw, "ID\tTITLE\tMENTOR\tLEARNER\tWHEN\tDURATION\tSTATUS")
	for _, s := range v.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%dm\t%s\n", s.ID, truncate(s.Title, 30), s.MentorName, s.LearnerName, ago(s.ScheduledAt, now), s.DurationMinutes, views.Label(string(s.Status)))
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d sessions, %d upcoming, %d past\n", v.Stats.Total, v.Stats.Upcoming, v.Stats.Past)
}

type SessionsStatusCmd struct {
	SessionID string `arg:"" help:"Session ID"`
	Status    string `arg:"" help:"New status" enum:"accepted,completed,rejected,cancelled"`
	Reason    string `help:"Reason (required when rejecting or cancelling)"`
}

func (c *SessionsStatusCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}
	page := pages.NewSessionsPage(a, globals.notifier(), views.SessionFilters{})
	return mutated(page.SetStatus(ctx, c.SessionID, models.SessionStatus(c.Status), c.Reason))
}
