package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/wolfeidau/mentorhub/internal/modal"
	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/pages"
	"github.com/wolfeidau/mentorhub/internal/views"
)

// ContactsCmd works the contact form inbox.
type ContactsCmd struct {
	List   ContactsListCmd   `cmd:"" help:"List contact submissions"`
	Show   ContactsShowCmd   `cmd:"" help:"Show one submission"`
	Status ContactsStatusCmd `cmd:"" help:"Change a submission's status"`
	Delete ContactsDeleteCmd `cmd:"" help:"Delete a submission"`
}

type ContactsListCmd struct {
	Type   string `help:"Contact type" enum:",learner_contact,business_contact" default:""`
	Status string `help:"Contact status" enum:",new,in_progress,resolved,closed" default:""`
	Search string `help:"Search name, email, company and subject" short:"s"`
	Page   int    `help:"Page number" default:"1"`
	Limit  int    `help:"Contacts per page" default:"20"`
	WatchFlags
}

func (c *ContactsListCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}

	page := pages.NewContactsPage(a, globals.notifier(), views.ContactFilters{
		Type:   models.ContactType(c.Type),
		Status: models.ContactStatus(c.Status),
		Page:   c.Page,
		Limit:  c.Limit,
		Search: c.Search,
	})

	w := globals.out()
	if c.Watch {
		return page.Watch(ctx, c.Interval, func(v pages.ContactsView) {
			fmt.Fprint(w, clearScreen)
			printContacts(w, v, globals)
		})
	}

	v := page.Load(ctx)
	if v.Err != nil {
		return failure(v.Message, v.Retryable)
	}
	printContacts(w, v, globals)
	return nil
}

func printContacts(w io.Writer, v pages.ContactsView, globals *Globals) {
	if v.Err != nil {
		fmt.Fprintf(w, "Error: %s\n", v.Message)
		return
	}
	if v.Empty() {
		fmt.Fprintln(w, "No contacts found.")
		return
	}

	now := globals.now()
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tCOMPANY\tSUBJECT\tSTATUS\tSUBMITTED")
	for _, ct := range v.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", ct.ID, truncate(ct.FullName, 24), ct.Company, truncate(ct.Subject, 30), views.Label(string(ct.Status)), ago(ct.SubmittedAt, now))
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d contacts, %d open\n", v.Stats.Total, v.Stats.Open())
	pageFooter(w, len(v.Items), v.Fetched, v.Pagination)
}

type ContactsShowCmd struct {
	ContactID string `arg:"" help:"Contact ID"`
}

func (c *ContactsShowCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}

	res, err := a.GetContact(ctx, c.ContactID)
	if err != nil {
		return loadError(err, "Contact not found", "Failed to load contact")
	}

	ct := res.Contact
	w := globals.out()
	fmt.Fprintf(w, "From:      %s <%s>\n", ct.FullName, ct.Email)
	if ct.Company != "" {
		fmt.Fprintf(w, "Company:   %s\n", ct.Company)
	}
	fmt.Fprintf(w, "Type:      %s\n", views.Label(string(ct.Type)))
	fmt.Fprintf(w, "Status:    %s\n", views.Label(string(ct.Status)))
	fmt.Fprintf(w, "Submitted: %s\n", ago(ct.SubmittedAt, globals.now()))
	if ct.Subject != "" {
		fmt.Fprintf(w, "Subject:   %s\n", ct.Subject)
	}
	fmt.Fprintf(w, "\n%s\n", views.PlainText(ct.Message))
	if ct.Notes != "" {
		fmt.Fprintf(w, "\nNotes: %s\n", views.PlainText(ct.Notes))
	}
	return nil
}

// statusForm is edited in the status modal of contacts and applications.
type statusForm[S ~string] struct {
	Status S
	Notes  string
}

type ContactsStatusCmd struct {
	ContactID string `arg:"" help:"Contact ID"`
	Status    string `arg:"" help:"New status" enum:"new,in_progress,resolved,closed"`
	Notes     string `help:"Internal notes"`
}

func (c *ContactsStatusCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}
	page := pages.NewContactsPage(a, globals.notifier(), views.ContactFilters{})

	res, err := a.GetContact(ctx, c.ContactID)
	if err != nil {
		return loadError(err, "Contact not found", "Failed to load contact")
	}

	m := modal.New(modal.Config[models.Contact, statusForm[models.ContactStatus]]{
		Init: func(ct models.Contact) statusForm[models.ContactStatus] {
			return statusForm[models.ContactStatus]{Status: ct.Status, Notes: ct.Notes}
		},
		Validate: func(f statusForm[models.ContactStatus]) error {
			if !f.Status.Valid() {
				return fmt.Errorf("unknown status %q", f.Status)
			}
			return nil
		},
		OnUpdate: func(ctx context.Context, f statusForm[models.ContactStatus]) error {
			if !page.SetStatus(ctx, c.ContactID, f.Status, f.Notes) {
				return errors.New("request failed")
			}
			return nil
		},
	})
	defer m.Dispose()

	return editAndSubmit(ctx, m, res.Contact, func(f *statusForm[models.ContactStatus]) {
		f.Status = models.ContactStatus(c.Status)
		if c.Notes != "" {
			f.Notes = c.Notes
		}
	})
}

// editAndSubmit opens m on entity, applies edit and submits once. A failed
// submit leaves the modal open; the caller's Dispose closes it.
func editAndSubmit[E, F any](ctx context.Context, m *modal.Modal[E, F], entity E, edit func(*F)) error {
	if err := m.Open(entity); err != nil {
		return err
	}
	if err := m.Edit(edit); err != nil {
		return err
	}
	return m.Submit(ctx)
}

type ContactsDeleteCmd struct {
	ContactID string `arg:"" help:"Contact ID"`
	Force     bool   `help:"Skip confirmation prompt"`
}

func (c *ContactsDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	if !globals.confirm(fmt.Sprintf("Delete contact %s?", c.ContactID), c.Force) {
		fmt.Fprintln(globals.out(), "Cancelled.")
		return nil
	}

	a, err := globals.API()
	if err != nil {
		return err
	}
	return mutated(pages.NewContactsPage(a, globals.notifier(), views.ContactFilters{}).Delete(ctx, c.ContactID))
}
