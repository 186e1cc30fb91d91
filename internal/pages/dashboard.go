package pages

import (
	"context"
	"time"

	"github.com/wolfeidau/mentorhub/internal/api"
	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/notify"
	"github.com/wolfeidau/mentorhub/internal/views"
	"golang.org/x/sync/errgroup"
)

// Section is one independently loaded panel of a dashboard. A failed
// section does not affect the others.
type Section[T any] struct {
	Value     T
	Err       error
	Message   string
	Retryable bool
}

func section[T, V any](v View[T], summarize func([]T) V) Section[V] {
	if v.Err != nil {
		return Section[V]{Err: v.Err, Message: v.Message, Retryable: v.Retryable}
	}
	return Section[V]{Value: summarize(v.Items)}
}

// AdminSummary is the admin landing page.
type AdminSummary struct {
	Users        Section[views.UserStats]
	Projects     Section[views.ProjectStats]
	Contacts     Section[views.ContactStats]
	Applications Section[views.ApplicationStats]
	Workspaces   Section[[]models.Workspace]
}

// AdminDashboard loads every admin panel concurrently.
type AdminDashboard struct {
	api      *api.API
	notifier notify.Notifier
}

func NewAdminDashboard(a *api.API, n notify.Notifier) *AdminDashboard {
	return &AdminDashboard{api: a, notifier: n}
}

func (d *AdminDashboard) Load(ctx context.Context) AdminSummary {
	return d.load(ctx, false)
}

func (d *AdminDashboard) Refresh(ctx context.Context) AdminSummary {
	s := d.load(ctx, true)
	d.notifier.Info("Refreshed dashboard")
	return s
}

func (d *AdminDashboard) load(ctx context.Context, force bool) AdminSummary {
	var s AdminSummary
	var g errgroup.Group

	g.Go(func() error {
		v := fetch(ctx, d.api, api.GetUsers, api.UsersArgs{Limit: 100}, force, "users",
			func(r *models.UsersResponse) []models.User { return r.Users })
		s.Users = section(v, views.NewUserStats)
		return nil
	})
	g.Go(func() error {
		v := fetch(ctx, d.api, api.GetProjects, api.ProjectsArgs{}, force, "projects",
			func(r *models.ProjectsResponse) []models.Project { return r.Projects })
		s.Projects = section(v, views.NewProjectStats)
		return nil
	})
	g.Go(func() error {
		v := fetch(ctx, d.api, api.GetContacts, api.ContactsArgs{}, force, "contacts",
			func(r *models.ContactsResponse) []models.Contact { return r.Contacts })
		s.Contacts = section(v, views.NewContactStats)
		return nil
	})
	g.Go(func() error {
		v := fetch(ctx, d.api, api.GetApplications, api.ApplicationsArgs{}, force, "applications",
			func(r *models.ApplicationsResponse) []models.Application { return r.Applications })
		s.Applications = section(v, views.NewApplicationStats)
		return nil
	})
	g.Go(func() error {
		v := fetch(ctx, d.api, api.GetWorkspaces, struct{}{}, force, "workspaces",
			func(r *models.WorkspacesResponse) []models.Workspace { return r.Workspaces })
		s.Workspaces = section(v, identity[models.Workspace])
		return nil
	})
	_ = g.Wait()

	return s
}

func identity[T any](items []T) []T { return items }

// LearnerSummary is the learner landing page.
type LearnerSummary struct {
	// Projects are the projects the viewer belongs to.
	Projects      Section[[]models.Project]
	Upcoming      Section[[]models.Session]
	Paths         Section[[]models.LearningPath]
	Invitations   Section[[]models.Invitation]
	Announcements Section[[]models.Announcement]
	Unread        Section[int]
}

// LearnerDashboard loads the learner's panels concurrently.
type LearnerDashboard struct {
	api      *api.API
	notifier notify.Notifier
	userID   string
	now      func() time.Time
}

// NewLearnerDashboard creates the dashboard for userID.
func NewLearnerDashboard(a *api.API, n notify.Notifier, userID string) *LearnerDashboard {
	return &LearnerDashboard{api: a, notifier: n, userID: userID, now: time.Now}
}

func (d *LearnerDashboard) Load(ctx context.Context) LearnerSummary {
	return d.load(ctx, false)
}

func (d *LearnerDashboard) Refresh(ctx context.Context) LearnerSummary {
	s := d.load(ctx, true)
	d.notifier.Info("Refreshed dashboard")
	return s
}

func (d *LearnerDashboard) load(ctx context.Context, force bool) LearnerSummary {
	var s LearnerSummary
	var g errgroup.Group
	now := d.now()

	g.Go(func() error {
		mine := views.ProjectFilters{Tab: views.ProjectTabMine, UserID: d.userID}
		l := list[api.ProjectsArgs, models.ProjectsResponse, models.Project]{
			api: d.api, query: api.GetProjects, what: "projects",
			rows: func(r *models.ProjectsResponse) []models.Project { return r.Projects },
		}
		s.Projects = section(l.load(ctx, mine.Pipeline(), force), identity[models.Project])
		return nil
	})
	g.Go(func() error {
		upcoming := views.SessionFilters{Tab: views.SessionTabUpcoming, Now: now}
		l := list[api.SessionsArgs, models.SessionsResponse, models.Session]{
			api: d.api, query: api.GetSessions, what: "sessions",
			rows: func(r *models.SessionsResponse) []models.Session { return r.Sessions },
		}
		s.Upcoming = section(l.load(ctx, upcoming.Pipeline(), force), views.SortSessions)
		return nil
	})
	g.Go(func() error {
		v := fetch(ctx, d.api, api.GetLearningPaths, api.LearningPathsArgs{}, force, "learning paths",
			func(r *models.LearningPathsResponse) []models.LearningPath { return r.LearningPaths })
		s.Paths = section(v, func(paths []models.LearningPath) []models.LearningPath {
			return views.Filter(paths, func(p models.LearningPath) bool { return p.Enrolled })
		})
		return nil
	})
	g.Go(func() error {
		v := fetch(ctx, d.api, api.GetUserInvitations, api.UserInvitationsArgs{}, force, "invitations",
			func(r *models.InvitationsResponse) []models.Invitation { return r.Invitations })
		s.Invitations = section(v, identity[models.Invitation])
		return nil
	})
	g.Go(func() error {
		v := fetch(ctx, d.api, api.GetAnnouncements, struct{}{}, force, "announcements",
			func(r *models.AnnouncementsResponse) []models.Announcement { return r.Announcements })
		s.Announcements = section(v, identity[models.Announcement])
		return nil
	})
	g.Go(func() error {
		v := fetch(ctx, d.api, api.GetMessages, api.MessagesArgs{Unread: true}, force, "messages",
			func(r *models.MessagesResponse) []models.Message { return r.Messages })
		s.Unread = section(v, func(m []models.Message) int { return len(m) })
		return nil
	})
	_ = g.Wait()

	return s
}
