package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/wolfeidau/mentorhub/internal/modal"
	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/pages"
	"github.com/wolfeidau/mentorhub/internal/views"
)

// ApplicationsCmd reviews learner and business applications.
type ApplicationsCmd struct {
	List   ApplicationsListCmd   `cmd:"" help:"List applications"`
	Show   ApplicationsShowCmd   `cmd:"" help:"Show one application"`
	Review ApplicationsReviewCmd `cmd:"" help:"Approve, reject or hold an application"`
}

type ApplicationsListCmd struct {
	Type   string `help:"Application type" enum:",learner_application,business_application" default:""`
	Status string `help:"Application status" enum:",pending,reviewing,approved,rejected,on_hold" default:""`
	Search string `help:"Search name and email" short:"s"`
	Page   int    `help:"Page number" default:"1"`
	Limit  int    `help:"Applications per page" default:"20"`
	WatchFlags
}

func (c *ApplicationsListCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}

	page := pages.NewApplicationsPage(a, globals.notifier(), views.ApplicationFilters{
		Type:   models.ApplicationType(c.Type),
		Status: models.ApplicationStatus(c.Status),
		Page:   c.Page,
		Limit:  c.Limit,
		Search: c.Search,
	})

	w := globals.out()
	if c.Watch {
		return page.Watch(ctx, c.Interval, func(v pages.ApplicationsView) {
			fmt.Fprint(w, clearScreen)
			printApplications(w, v, globals)
		})
	}

	v := page.Load(ctx)
	if v.Err != nil {
		return failure(v.Message, v.Retryable)
	}
	printApplications(w, v, globals)
	return nil
}

func printApplications(w io.Writer, v pages.ApplicationsView, globals *Globals) {
	if v.Err != nil {
		fmt.Fprintf(w, "Error: %s\n", v.Message)
		return
	}
	if v.Empty() {
		fmt.Fprintln(w, "No applications found.")
		return
	}

	now := globals.now()
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tTYPE\tSTATUS\tSUBMITTED")
	for _, app := range v.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", app.ID, truncate(app.FullName, 24), app.Email, views.Label(string(app.Type)), views.Label(string(app.Status)), ago(app.SubmittedAt, now))
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d applications, %d awaiting review\n", v.Stats.Total, v.Stats.AwaitingReview())
	pageFooter(w, len(v.Items), v.Fetched, v.Pagination)
}

type ApplicationsShowCmd struct {
	ApplicationID string `arg:"" help:"Application ID"`
}

func (c *ApplicationsShowCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}

	res, err := a.GetApplication(ctx, c.ApplicationID)
	if err != nil {
		return loadError(err, "Application not found", "Failed to load application")
	}

	app := res.Application
	now := globals.now()
	w := globals.out()
	fmt.Fprintf(w, "Applicant: %s <%s>\n", app.FullName, app.Email)
	fmt.Fprintf(w, "Type:      %s\n", views.Label(string(app.Type)))
	fmt.Fprintf(w, "Status:    %s\n", views.Label(string(app.Status)))
	fmt.Fprintf(w, "Submitted: %s\n", ago(app.SubmittedAt, now))
	if !app.ReviewedAt.IsZero() {
		fmt.Fprintf(w, "Reviewed:  %s\n", ago(app.ReviewedAt, now))
	}
	if app.Message != "" {
		fmt.Fprintf(w, "\n%s\n", views.PlainText(app.Message))
	}
	if len(app.Attachments) > 0 {
		fmt.Fprintln(w, "\nAttachments:")
		for _, att := range app.Attachments {
			size := ""
			if att.Size > 0 {
				size = " (" + humanize.IBytes(uint64(att.Size)) + ")"
			}
			fmt.Fprintf(w, "  %s%s %s\n", att.Name, size, att.URL)
		}
	}
	if app.ReviewNotes != "" {
		fmt.Fprintf(w, "\nReview notes: %s\n", views.PlainText(app.ReviewNotes))
	}
	return nil
}

type ApplicationsReviewCmd struct {
	ApplicationID string `arg:"" help:"Application ID"`
	Status        string `arg:"" help:"Decision" enum:"reviewing,approved,rejected,on_hold"`
	Notes         string `help:"Review notes (required when rejecting)"`
}

func (c *ApplicationsReviewCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}
	page := pages.NewApplicationsPage(a, globals.notifier(), views.ApplicationFilters{})

	res, err := a.GetApplication(ctx, c.ApplicationID)
	if err != nil {
		return loadError(err, "Application not found", "Failed to load application")
	}

	m := modal.New(modal.Config[models.Application, statusForm[models.ApplicationStatus]]{
		Init: func(app models.Application) statusForm[models.ApplicationStatus] {
			return statusForm[models.ApplicationStatus]{Status: app.Status, Notes: app.ReviewNotes}
		},
		Validate: func(f statusForm[models.ApplicationStatus]) error {
			if !f.Status.Valid() || f.Status == models.ApplicationPending {
				return fmt.Errorf("cannot review to %q", f.Status)
			}
			if f.Status == models.ApplicationRejected && f.Notes == "" {
				return errors.New("notes are required when rejecting")
			}
			return nil
		},
		OnUpdate: func(ctx context.Context, f statusForm[models.ApplicationStatus]) error {
			if !page.Review(ctx, c.ApplicationID, f.Status, f.Notes) {
				return errors.New("request failed")
			}
			return nil
		},
	})
	defer m.Dispose()

	return editAndSubmit(ctx, m, res.Application, func(f *statusForm[models.ApplicationStatus]) {
		f.Status = models.ApplicationStatus(c.Status)
		if c.Notes != "" {
			f.Notes = c.Notes
		}
	})
}
