package fakeapi

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/wolfeidau/mentorhub/internal/auth"
	"github.com/wolfeidau/mentorhub/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Store is an in-memory backend for development and testing. Reads return
// copies so callers never alias stored entities.
type Store struct {
	mu sync.RWMutex

	now   func() time.Time
	newID func() string
	ugc   *bluemonday.Policy

	workspaces   map[string]*models.Workspace
	members      map[string][]models.WorkspaceMember
	invitations  map[string]*models.Invitation
	joinRequests map[string]*models.JoinRequest
	users        map[string]*models.User
	contacts     map[string]*models.Contact
	applications map[string]*models.Application
	projects     map[string]*models.Project
	areas        map[string][]*models.ProjectArea
	sessions     map[string]*models.Session
	paths        map[string]*models.LearningPath
	enrollments  map[string]map[string]bool

	announcements []models.Announcement
	messages      []models.Message
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithIDs replaces the uuid id generator.
func WithIDs(newID func() string) StoreOption {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		now:          time.Now,
		newID:        uuid.NewString,
		ugc:          bluemonday.UGCPolicy(),
		workspaces:   make(map[string]*models.Workspace),
		members:      make(map[string][]models.WorkspaceMember),
		invitations:  make(map[string]*models.Invitation),
		joinRequests: make(map[string]*models.JoinRequest),
		users:        make(map[string]*models.User),
		contacts:     make(map[string]*models.Contact),
		applications: make(map[string]*models.Application),
		projects:     make(map[string]*models.Project),
		areas:        make(map[string][]*models.ProjectArea),
		sessions:     make(map[string]*models.Session),
		paths:        make(map[string]*models.LearningPath),
		enrollments:  make(map[string]map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) timestamp() models.Timestamp {
	return models.NewTimestamp(s.now())
}

// Page selects a window of a list.
type Page struct {
	Page  int
	Limit int
}

func paginate[T any](items []T, p Page) ([]T, models.Pagination) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	limit = min(limit, maxPageSize)
	page := max(p.Page, 1)

	total := len(items)
	pages := (total + limit - 1) / limit

	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	out := make([]T, end-start)
	copy(out, items[start:end])

	return out, models.Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// collect copies the values selected by keep, newest first. Ties are broken
// by id so listings are stable.
func collect[T any](m map[string]*T, keep func(*T) bool, key func(*T) (time.Time, string)) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		if keep == nil || keep(v) {
			out = append(out, *v)
		}
	}
	slices.SortFunc(out, func(a, b T) int {
		at, aid := key(&a)
		bt, bid := key(&b)
		if c := bt.Compare(at); c != 0 {
			return c
		}
		return strings.Compare(aid, bid)
	})
	return out
}

func isAdmin(p *auth.Principal) bool {
	return p != nil && p.Role == models.RoleAdmin
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
