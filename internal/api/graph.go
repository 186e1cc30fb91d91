package api

import (
	"net/http"
	"sort"

	"github.com/wolfeidau/mentorhub/internal/cache"
)

// placeholderID stands for an id supplied by the caller at runtime.
const placeholderID = "{id}"

type Kind string

const (
	KindQuery    Kind = "query"
	KindMutation Kind = "mutation"
)

// Endpoint is the static description of a query or mutation: its route and
// the tags it provides or invalidates.
type Endpoint struct {
	Name     string
	Kind     Kind
	Method   string
	Template string
	Tags     []cache.Tag
}

// Describer is implemented by Query and Mutation.
type Describer interface {
	Describe() Endpoint
}

// Describe returns the query's route and provided tags.
func (q Query[A, R]) Describe() Endpoint {
	var zero A
	return Endpoint{
		Name:     q.Name,
		Kind:     KindQuery,
		Method:   http.MethodGet,
		Template: q.Template,
		Tags:     placeholders(q.tags(zero, nil)),
	}
}

// Describe returns the mutation's route and invalidated tags.
func (m Mutation[A, R]) Describe() Endpoint {
	var zero A
	return Endpoint{
		Name:     m.Name,
		Kind:     KindMutation,
		Method:   http.MethodPost,
		Template: m.Template,
		Tags:     placeholders(m.Tags(zero, nil)),
	}
}

func placeholders(tags []cache.Tag) []cache.Tag {
	out := make([]cache.Tag, len(tags))
	for i, t := range tags {
		if t.ID == "" {
			t.ID = placeholderID
		}
		out[i] = t
	}
	return out
}

// describers lists every endpoint the API exposes.
var describers = []Describer{
	GetWorkspaces, GetWorkspaceMembers,
	GetWorkspaceInvitations, GetUserInvitations, CreateInvitation, RespondToInvitation, CancelInvitation,
	RequestToJoin, RespondToJoinRequest, GetWorkspaceJoinRequests, WithdrawJoinRequest,
	GetUsers, GetUser, UpdateUserStatus, UpdateUserRole, BulkToggleUserStatus, BulkDeleteUsers,
	GetContacts, GetContact, UpdateContactStatus, DeleteContact,
	GetApplications, GetApplication, ReviewApplication,
	GetProjects, GetProject, GetProjectAreas, CreateProject, JoinProject, UpdateTaskStatus,
	GetSessions, UpdateSessionStatus,
	GetLearningPaths, GetLearningPath, EnrollInPath,
	GetAnnouncements, CreateAnnouncement, GetMessages, SendMessage,
}

// Endpoints returns the description of every endpoint, sorted by name.
func Endpoints() []Endpoint {
	out := make([]Endpoint, 0, len(describers))
	for _, d := range describers {
		out = append(out, d.Describe())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Graph maps each mutation to the queries whose results it may invalidate.
// Placeholder ids match any entity id of the same type but never LIST or
// USER, so the graph reflects real blast radius.
func Graph() map[string][]string {
	endpoints := Endpoints()
	graph := make(map[string][]string)

	for _, m := range endpoints {
		if m.Kind != KindMutation {
			continue
		}
		affected := []string{}
		for _, q := range endpoints {
			if q.Kind == KindQuery && mayIntersect(m.Tags, q.Tags) {
				affected = append(affected, q.Name)
			}
		}
		graph[m.Name] = affected
	}

	return graph
}

func mayIntersect(invalidated, provided []cache.Tag) bool {
	for _, inv := range invalidated {
		for _, p := range provided {
			if inv.Type == p.Type && sameID(inv.ID, p.ID) {
				return true
			}
		}
	}
	return false
}

func sameID(a, b string) bool {
	if a == b {
		return true
	}
	wellKnown := func(id string) bool { return id == cache.List || id == cache.User }
	if a == placeholderID {
		return !wellKnown(b)
	}
	if b == placeholderID {
		return !wellKnown(a)
	}
	return false
}
