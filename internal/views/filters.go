package views

import (
	"time"

	"github.com/wolfeidau/mentorhub/internal/api"
	"github.com/wolfeidau/mentorhub/internal/models"
)

// ProjectTab is the client-side tab on the projects page.
type ProjectTab string

const (
	ProjectTabAll       ProjectTab = "all"
	ProjectTabActive    ProjectTab = "active"
	ProjectTabPlanning  ProjectTab = "planning"
	ProjectTabCompleted ProjectTab = "completed"
	ProjectTabMine      ProjectTab = "mine"
)

// ProjectFilters is the local filter state of the projects page. Status,
// Category, Level, Sort and Limit are sent to the server; Search and Tab only
// narrow the fetched list.
type ProjectFilters struct {
	Status   models.ProjectStatus
	Category string
	Level    string
	Sort     string
	Limit    int
	Search   string
	Tab      ProjectTab
	// UserID identifies the viewer for the "mine" tab.
	UserID string
}

func (f ProjectFilters) ServerParams() api.ProjectsArgs {
	return api.ProjectsArgs{
		Status:   f.Status,
		Category: f.Category,
		Level:    f.Level,
		Sort:     f.Sort,
		Limit:    f.Limit,
	}
}

func (f ProjectFilters) ClientPredicates() []Predicate[models.Project] {
	return []Predicate[models.Project]{
		Search(f.Search, func(p models.Project) []string {
			return []string{p.Title, p.Description, p.Category}
		}),
		f.tab(),
	}
}

func (f ProjectFilters) tab() Predicate[models.Project] {
	switch f.Tab {
	case "", ProjectTabAll:
		return nil
	case ProjectTabMine:
		return func(p models.Project) bool { return p.IsMember(f.UserID) }
	default:
		status := models.ProjectStatus(f.Tab)
		return func(p models.Project) bool { return p.Status == status }
	}
}

func (f ProjectFilters) Pipeline() Pipeline[api.ProjectsArgs, models.Project] {
	return Pipeline[api.ProjectsArgs, models.Project]{Server: f.ServerParams(), Client: f.ClientPredicates()}
}

// UserTab is the client-side account state tab on the users page.
type UserTab string

const (
	UserTabAll      UserTab = "all"
	UserTabActive   UserTab = "active"
	UserTabDisabled UserTab = "disabled"
)

// UserFilters sends role, page and limit to the server and applies search
// and the account state tab locally.
type UserFilters struct {
	Role   models.Role
	Page   int
	Limit  int
	Search string
	Tab    UserTab
}

func (f UserFilters) ServerParams() api.UsersArgs {
	return api.UsersArgs{Role: f.Role, Page: f.Page, Limit: f.Limit}
}

func (f UserFilters) ClientPredicates() []Predicate[models.User] {
	preds := []Predicate[models.User]{
		Search(f.Search, func(u models.User) []string { return []string{u.FullName, u.Email} }),
	}
	switch f.Tab {
	case UserTabActive:
		preds = append(preds, func(u models.User) bool { return !u.Disabled })
	case UserTabDisabled:
		preds = append(preds, func(u models.User) bool { return u.Disabled })
	}
	return preds
}

func (f UserFilters) Pipeline() Pipeline[api.UsersArgs, models.User] {
	return Pipeline[api.UsersArgs, models.User]{Server: f.ServerParams(), Client: f.ClientPredicates()}
}

type ContactFilters struct {
	Type   models.ContactType
	Status models.ContactStatus
	Page   int
	Limit  int
	Search string
}

func (f ContactFilters) ServerParams() api.ContactsArgs {
	return api.ContactsArgs{Type: f.Type, Status: f.Status, Page: f.Page, Limit: f.Limit}
}

func (f ContactFilters) ClientPredicates() []Predicate[models.Contact] {
	return []Predicate[models.Contact]{
		Search(f.Search, func(c models.Contact) []string {
			return []string{c.FullName, c.Email, c.Company, c.Subject}
		}),
	}
}

func (f ContactFilters) Pipeline() Pipeline[api.ContactsArgs, models.Contact] {
	return Pipeline[api.ContactsArgs, models.Contact]{Server: f.ServerParams(), Client: f.ClientPredicates()}
}

type ApplicationFilters struct {
	Type   models.ApplicationType
	Status models.ApplicationStatus
	Page   int
	Limit  int
	Search string
}

func (f ApplicationFilters) ServerParams() api.ApplicationsArgs {
	return api.ApplicationsArgs{Type: f.Type, Status: f.Status, Page: f.Page, Limit: f.Limit}
}

func (f ApplicationFilters) ClientPredicates() []Predicate[models.Application] {
	return []Predicate[models.Application]{
		Search(f.Search, func(a models.Application) []string { return []string{a.FullName, a.Email} }),
	}
}

func (f ApplicationFilters) Pipeline() Pipeline[api.ApplicationsArgs, models.Application] {
	return Pipeline[api.ApplicationsArgs, models.Application]{Server: f.ServerParams(), Client: f.ClientPredicates()}
}

// SessionTab splits sessions by time on the client.
type SessionTab string

const (
	SessionTabAll      SessionTab = "all"
	SessionTabUpcoming SessionTab = "upcoming"
	SessionTabPast     SessionTab = "past"
)

type SessionFilters struct {
	Status models.SessionStatus
	Role   models.Role
	Search string
	Tab    SessionTab
	// Now is the reference time for the upcoming and past tabs.
	Now time.Time
}

func (f SessionFilters) ServerParams() api.SessionsArgs {
	return api.SessionsArgs{Status: f.Status, Role: f.Role}
}

func (f SessionFilters) ClientPredicates() []Predicate[models.Session] {
	preds := []Predicate[models.Session]{
		Search(f.Search, func(s models.Session) []string {
			return []string{s.Title, s.MentorName, s.LearnerName}
		}),
	}

	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	switch f.Tab {
	case SessionTabUpcoming:
		preds = append(preds, func(s models.Session) bool { return s.IsUpcoming(now) })
	case SessionTabPast:
		preds = append(preds, func(s models.Session) bool { return !s.IsUpcoming(now) })
	}
	return preds
}

func (f SessionFilters) Pipeline() Pipeline[api.SessionsArgs, models.Session] {
	return Pipeline[api.SessionsArgs, models.Session]{Server: f.ServerParams(), Client: f.ClientPredicates()}
}
