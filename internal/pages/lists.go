package pages

import (
	"context"
	"time"

	"github.com/wolfeidau/mentorhub/internal/api"
	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/notify"
	"github.com/wolfeidau/mentorhub/internal/views"
)

type ContactsView struct {
	View[models.Contact]
	Stats views.ContactStats
}

// ContactsPage is the admin inbox of contact form submissions.
type ContactsPage struct {
	*base[views.ContactFilters, api.ContactsArgs, models.ContactsResponse, models.Contact]
}

func NewContactsPage(a *api.API, n notify.Notifier, filters views.ContactFilters) *ContactsPage {
	return &ContactsPage{&base[views.ContactFilters, api.ContactsArgs, models.ContactsResponse, models.Contact]{
		api:      a,
		notifier: n,
		filters:  filters,
		list: list[api.ContactsArgs, models.ContactsResponse, models.Contact]{
			api:   a,
			query: api.GetContacts,
			what:  "contacts",
			rows:  func(r *models.ContactsResponse) []models.Contact { return r.Contacts },
			pages: func(r *models.ContactsResponse) models.Pagination { return r.Pagination },
		},
	}}
}

func (p *ContactsPage) Load(ctx context.Context) ContactsView {
	return contactsView(p.view(ctx, false))
}

func (p *ContactsPage) Refresh(ctx context.Context) ContactsView {
	return contactsView(p.refreshed(ctx))
}

func (p *ContactsPage) Watch(ctx context.Context, every time.Duration, render func(ContactsView)) error {
	return p.watch(ctx, every, func(ctx context.Context, force bool) {
		render(contactsView(p.view(ctx, force)))
	})
}

func contactsView(v View[models.Contact]) ContactsView {
	return ContactsView{View: v, Stats: views.NewContactStats(v.Items)}
}

func (p *ContactsPage) SetStatus(ctx context.Context, contactID string, status models.ContactStatus, note string) bool {
	_, err := p.api.UpdateContactStatus(ctx, api.UpdateContactStatusArgs{ContactID: contactID, Status: status, Notes: note})
	return notify.MutationResult(p.notifier, err, "Contact marked "+views.Label(string(status)), "Failed to update contact")
}

func (p *ContactsPage) Delete(ctx context.Context, contactID string) bool {
	_, err := p.api.DeleteContact(ctx, contactID)
	return notify.MutationResult(p.notifier, err, "Contact deleted", "Failed to delete contact")
}

type ApplicationsView struct {
	View[models.Application]
	Stats views.ApplicationStats
}

// ApplicationsPage is the admin review queue.
type ApplicationsPage struct {
	*base[views.ApplicationFilters, api.ApplicationsArgs, models.ApplicationsResponse, models.Application]
}

func NewApplicationsPage(a *api.API, n notify.Notifier, filters views.ApplicationFilters) *ApplicationsPage {
	return &ApplicationsPage{&base[views.ApplicationFilters, api.ApplicationsArgs, models.ApplicationsResponse, models.Application]{
		api:      a,
		notifier: n,
		filters:  filters,
		list: list[api.ApplicationsArgs, models.ApplicationsResponse, models.Application]{
			api:   a,
			query: api.GetApplications,
			what:  "applications",
			rows:  func(r *models.ApplicationsResponse) []models.Application { return r.Applications },
			pages: func(r *models.ApplicationsResponse) models.Pagination { return r.Pagination },
		},
	}}
}

func (p *ApplicationsPage) Load(ctx context.Context) ApplicationsView {
	return applicationsView(p.view(ctx, false))
}

func (p *ApplicationsPage) Refresh(ctx context.Context) ApplicationsView {
	return applicationsView(p.refreshed(ctx))
}

func (p *ApplicationsPage) Watch(ctx context.Context, every time.Duration, render func(ApplicationsView)) error {
	return p.watch(ctx, every, func(ctx context.Context, force bool) {
		render(applicationsView(p.view(ctx, force)))
	})
}

func applicationsView(v View[models.Application]) ApplicationsView {
	return ApplicationsView{View: v, Stats: views.NewApplicationStats(v.Items)}
}

func (p *ApplicationsPage) Review(ctx context.Context, applicationID string, status models.ApplicationStatus, notes string) bool {
	_, err := p.api.ReviewApplication(ctx, api.ReviewApplicationArgs{ApplicationID: applicationID, Status: status, Notes: notes})
	return notify.MutationResult(p.notifier, err, "Application "+views.Label(string(status)), "Failed to review application")
}

type SessionsView struct {
	View[models.Session]
	Stats views.SessionStats
}

// SessionsPage lists the viewer's mentoring sessions.
type SessionsPage struct {
	*base[views.SessionFilters, api.SessionsArgs, models.SessionsResponse, models.Session]

	now func() time.Time
}

func NewSessionsPage(a *api.API, n notify.Notifier, filters views.SessionFilters) *SessionsPage {
	return &SessionsPage{
		base: &base[views.SessionFilters, api.SessionsArgs, models.SessionsResponse, models.Session]{
			api:      a,
			notifier: n,
			filters:  filters,
			list: list[api.SessionsArgs, models.SessionsResponse, models.Session]{
				api:   a,
				query: api.GetSessions,
				what:  "sessions",
				rows:  func(r *models.SessionsResponse) []models.Session { return r.Sessions },
				pages: func(r *models.SessionsResponse) models.Pagination { return r.Pagination },
			},
		},
		now: time.Now,
	}
}

func (p *SessionsPage) Load(ctx context.Context) SessionsView {
	return p.finish(p.view(ctx, false))
}

func (p *SessionsPage) Refresh(ctx context.Context) SessionsView {
	return p.finish(p.refreshed(ctx))
}

func (p *SessionsPage) Watch(ctx context.Context, every time.Duration, render func(SessionsView)) error {
	return p.watch(ctx, every, func(ctx context.Context, force bool) {
		render(p.finish(p.view(ctx, force)))
	})
}

func (p *SessionsPage) finish(v View[models.Session]) SessionsView {
	now := p.Filters().Now
	if now.IsZero() {
		now = p.now()
	}
	v.Items = views.SortSessions(v.Items)
	return SessionsView{View: v, Stats: views.NewSessionStats(v.Items, now)}
}

// SetStatus moves a session. Rejecting and cancelling need a reason.
func (p *SessionsPage) SetStatus(ctx context.Context, sessionID string, status models.SessionStatus, reason string) bool {
	_, err := p.api.UpdateSessionStatus(ctx, api.UpdateSessionStatusArgs{SessionID: sessionID, Status: status, Reason: reason})
	return notify.MutationResult(p.notifier, err, "Session "+views.Label(string(status)), "Failed to update session")
}
