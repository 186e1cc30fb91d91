package fakeapi

import (
	"strings"
	"time"

	"github.com/wolfeidau/mentorhub/internal/auth"
	"github.com/wolfeidau/mentorhub/internal/models"
)

// UserFilter selects users for listing.
type UserFilter struct {
	Role     models.Role
	Disabled *bool
	Search   string
	Page
}

// AddUser stores u, assigning an id and creation time when missing.
func (s *Store) AddUser(u models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !u.Role.Valid() {
		return nil, invalid("Invalid role %q", u.Role)
	}
	if s.userByEmailLocked(u.Email) != nil {
		return nil, conflict("A user with email %s already exists", u.Email)
	}
	if u.ID == "" {
		u.ID = s.newID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.timestamp()
	}
	s.users[u.ID] = &u

	out := u
	return &out, nil
}

func (s *Store) userByEmailLocked(email string) *models.User {
	if email == "" {
		return nil
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

// Users lists users matching f, newest first.
func (s *Store) Users(f UserFilter) *models.UsersResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := collect(s.users, func(u *models.User) bool {
		if f.Role != "" && u.Role != f.Role {
			return false
		}
		if f.Disabled != nil && u.Disabled != *f.Disabled {
			return false
		}
		if f.Search != "" && !containsFold(u.FullName, f.Search) && !containsFold(u.Email, f.Search) {
			return false
		}
		return true
	}, userKey)

	items, pg := paginate(all, f.Page)
	return &models.UsersResponse{Users: items, Pagination: pg}
}

func userKey(u *models.User) (time.Time, string) { return u.CreatedAt.Time, u.ID }

// User returns one user.
func (s *Store) User(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, notFound("User")
	}
	out := *u
	return &out, nil
}

// SetUserDisabled enables or disables an account. Callers cannot disable
// themselves.
func (s *Store) SetUserDisabled(p *auth.Principal, id string, disabled bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.setDisabledLocked(p, id, disabled); err != nil {
		return nil, err
	}
	out := *s.users[id]
	return &out, nil
}

func (s *Store) setDisabledLocked(p *auth.Principal, id string, disabled bool) error {
	u, ok := s.users[id]
	if !ok {
		return notFound("User")
	}
	if id == p.UserID {
		return invalid("You cannot change the status of your own account")
	}
	u.Disabled = disabled
	return nil
}

// SetUserRole changes a user's platform role. Callers cannot change their
// own role.
func (s *Store) SetUserRole(p *auth.Principal, id string, role models.Role) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, notFound("User")
	}
	if !role.Valid() {
		return nil, invalid("Invalid role %q", role)
	}
	if id == p.UserID {
		return nil, invalid("You cannot change your own role")
	}
	u.Role = role

	out := *u
	return &out, nil
}

// BulkSetDisabled applies SetUserDisabled to each id and partitions the ids
// into processed and failed.
func (s *Store) BulkSetDisabled(p *auth.Principal, ids []string, disabled bool) models.BulkResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bulkLocked(ids, func(id string) error {
		return s.setDisabledLocked(p, id, disabled)
	})
}

// BulkDeleteUsers removes each user and their workspace memberships.
func (s *Store) BulkDeleteUsers(p *auth.Principal, ids []string) models.BulkResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bulkLocked(ids, func(id string) error {
		if _, ok := s.users[id]; !ok {
			return notFound("User")
		}
		if id == p.UserID {
			return invalid("You cannot delete your own account")
		}
		delete(s.users, id)
		s.removeUserMembershipsLocked(id)
		return nil
	})
}

func (s *Store) bulkLocked(ids []string, apply func(id string) error) models.BulkResult {
	res := models.BulkResult{Success: []string{}, Failed: []models.BulkFailure{}}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := apply(id); err != nil {
			res.Failed = append(res.Failed, models.BulkFailure{ID: id, Error: err.Error()})
			continue
		}
		res.Success = append(res.Success, id)
	}
	return res
}

// ContactFilter selects contact submissions.
type ContactFilter struct {
	Type   models.ContactType
	Status models.ContactStatus
	Page
}

// AddContact stores a contact submission.
func (s *Store) AddContact(c models.Contact) *models.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = s.newID()
	}
	if c.Status == "" {
		c.Status = models.ContactNew
	}
	if c.SubmittedAt.IsZero() {
		c.SubmittedAt = s.timestamp()
	}
	s.contacts[c.ID] = &c

	out := c
	return &out
}

// Contacts lists contact submissions, newest first.
func (s *Store) Contacts(f ContactFilter) *models.ContactsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := collect(s.contacts, func(c *models.Contact) bool {
		return (f.Type == "" || c.Type == f.Type) && (f.Status == "" || c.Status == f.Status)
	}, func(c *models.Contact) (time.Time, string) { return c.SubmittedAt.Time, c.ID })

	items, pg := paginate(all, f.Page)
	return &models.ContactsResponse{Contacts: items, Pagination: pg}
}

func (s *Store) Contact(id string) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contacts[id]
	if !ok {
		return nil, notFound("Contact")
	}
	out := *c
	return &out, nil
}

// UpdateContactStatus moves a contact to status, replacing notes when given.
func (s *Store) UpdateContactStatus(id string, status models.ContactStatus, notes string) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contacts[id]
	if !ok {
		return nil, notFound("Contact")
	}
	if !status.Valid() {
		return nil, invalid("Invalid status %q", status)
	}
	c.Status = status
	if notes != "" {
		c.Notes = notes
	}

	out := *c
	return &out, nil
}

func (s *Store) DeleteContact(id string) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contacts[id]
	if !ok {
		return nil, notFound("Contact")
	}
	delete(s.contacts, id)

	out := *c
	return &out, nil
}

// ApplicationFilter selects applications.
type ApplicationFilter struct {
	Type   models.ApplicationType
	Status models.ApplicationStatus
	Page
}

// AddApplication stores an application.
func (s *Store) AddApplication(a models.Application) *models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = s.newID()
	}
	if a.Status == "" {
		a.Status = models.ApplicationPending
	}
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = s.timestamp()
	}
	s.applications[a.ID] = &a

	out := a
	return &out
}

// Applications lists applications, newest first.
func (s *Store) Applications(f ApplicationFilter) *models.ApplicationsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := collect(s.applications, func(a *models.Application) bool {
		return (f.Type == "" || a.Type == f.Type) && (f.Status == "" || a.Status == f.Status)
	}, func(a *models.Application) (time.Time, string) { return a.SubmittedAt.Time, a.ID })

	items, pg := paginate(all, f.Page)
	return &models.ApplicationsResponse{Applications: items, Pagination: pg}
}

func (s *Store) Application(id string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.applications[id]
	if !ok {
		return nil, notFound("Application")
	}
	out := *a
	return &out, nil
}

// ReviewApplication records a review decision. Approving provisions an
// account for the applicant when none exists.
func (s *Store) ReviewApplication(id string, status models.ApplicationStatus, notes string) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.applications[id]
	if !ok {
		return nil, notFound("Application")
	}
	if !status.Valid() {
		return nil, invalid("Invalid status %q", status)
	}
	if a.Status == models.ApplicationApproved || a.Status == models.ApplicationRejected {
		return nil, conflict("Application has already been %s", a.Status)
	}

	a.Status = status
	a.ReviewNotes = notes
	a.ReviewedAt = s.timestamp()

	if status == models.ApplicationApproved && s.userByEmailLocked(a.Email) == nil {
		role := models.RoleLearner
		if a.Type == models.ApplicationBusiness {
			role = models.RoleUser
		}
		u := &models.User{ID: s.newID(), FullName: a.FullName, Email: a.Email, Role: role, CreatedAt: s.timestamp()}
		s.users[u.ID] = u
	}

	out := *a
	return &out, nil
}
