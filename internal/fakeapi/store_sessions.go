package fakeapi

import (
	"slices"
	"strings"

	"github.com/wolfeidau/mentorhub/internal/auth"
	"github.com/wolfeidau/mentorhub/internal/models"
)

// sessionTransitions lists the statuses reachable from each session status.
var sessionTransitions = map[models.SessionStatus][]models.SessionStatus{
	models.SessionPending:  {models.SessionAccepted, models.SessionRejected, models.SessionCancelled},
	models.SessionAccepted: {models.SessionCompleted, models.SessionCancelled},
}

// SessionFilter selects sessions. Role narrows to sessions where the caller
// is the mentor or the learner.
type SessionFilter struct {
	Status models.SessionStatus
	Role   models.Role
}

// AddSession stores a session.
func (s *Store) AddSession(sess models.Session) *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.ID == "" {
		sess.ID = s.newID()
	}
	if sess.Status == "" {
		sess.Status = models.SessionPending
	}
	if m, ok := s.users[sess.MentorID]; ok && sess.MentorName == "" {
		sess.MentorName = m.FullName
	}
	if l, ok := s.users[sess.LearnerID]; ok && sess.LearnerName == "" {
		sess.LearnerName = l.FullName
	}
	s.sessions[sess.ID] = &sess

	out := sess
	return &out
}

// Sessions lists the sessions visible to p, soonest first. Admins see every
// session unless Role narrows it.
func (s *Store) Sessions(p *auth.Principal, f SessionFilter) *models.SessionsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Session, 0)
	for _, sess := range s.sessions {
		if f.Status != "" && sess.Status != f.Status {
			continue
		}
		switch f.Role {
		case models.RoleMentor:
			if sess.MentorID != p.UserID {
				continue
			}
		case models.RoleLearner:
			if sess.LearnerID != p.UserID {
				continue
			}
		default:
			if !isAdmin(p) && sess.MentorID != p.UserID && sess.LearnerID != p.UserID {
				continue
			}
		}
		out := *sess
		out.Participants = slices.Clone(sess.Participants)
		all = append(all, out)
	}
	slices.SortFunc(all, func(a, b models.Session) int {
		if c := a.ScheduledAt.Compare(b.ScheduledAt.Time); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	items, pg := paginate(all, Page{Limit: maxPageSize})
	return &models.SessionsResponse{Sessions: items, Pagination: pg}
}

// UpdateSessionStatus applies a status transition. Only the mentor may
// accept, reject or complete; either participant may cancel. Rejecting and
// cancelling require a reason.
func (s *Store) UpdateSessionStatus(p *auth.Principal, id string, status models.SessionStatus, reason string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, notFound("Session")
	}
	if !status.Valid() {
		return nil, invalid("Invalid status %q", status)
	}

	isMentor := sess.MentorID == p.UserID
	isLearner := sess.LearnerID == p.UserID
	if !isMentor && !isLearner && !isAdmin(p) {
		return nil, forbidden("You are not a participant in this session")
	}
	if status != models.SessionCancelled && !isMentor && !isAdmin(p) {
		return nil, forbidden("Only the mentor can mark a session %s", status)
	}
	if !slices.Contains(sessionTransitions[sess.Status], status) {
		return nil, conflict("Cannot move a %s session to %s", sess.Status, status)
	}
	if (status == models.SessionRejected || status == models.SessionCancelled) && strings.TrimSpace(reason) == "" {
		return nil, invalid("A reason is required")
	}

	sess.Status = status
	sess.Reason = reason

	out := *sess
	return &out, nil
}

// AddLearningPath stores a learning path.
func (s *Store) AddLearningPath(lp models.LearningPath) *models.LearningPath {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lp.ID == "" {
		lp.ID = s.newID()
	}
	lp.Modules = slices.Clone(lp.Modules)
	for i := range lp.Modules {
		if lp.Modules[i].ID == "" {
			lp.Modules[i].ID = s.newID()
		}
		lp.Modules[i].Order = i + 1
	}
	s.paths[lp.ID] = &lp

	out := lp
	return &out
}

func (s *Store) pathForLocked(p *auth.Principal, lp *models.LearningPath) models.LearningPath {
	out := *lp
	out.Modules = slices.Clone(lp.Modules)
	out.EnrolledCount = len(s.enrollments[lp.ID])
	out.Enrolled = p != nil && s.enrollments[lp.ID][p.UserID]
	return out
}

// LearningPaths lists paths by title. Unpublished paths are only visible to
// admins and mentors.
func (s *Store) LearningPaths(p *auth.Principal, level string, published *bool) *models.LearningPathsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	staff := isAdmin(p) || (p != nil && p.Role == models.RoleMentor)
	all := make([]models.LearningPath, 0, len(s.paths))
	for _, lp := range s.paths {
		if !lp.Published && !staff {
			continue
		}
		if level != "" && !strings.EqualFold(lp.Level, level) {
			continue
		}
		if published != nil && lp.Published != *published {
			continue
		}
		all = append(all, s.pathForLocked(p, lp))
	}
	slices.SortFunc(all, func(a, b models.LearningPath) int { return strings.Compare(a.Title, b.Title) })

	items, pg := paginate(all, Page{Limit: maxPageSize})
	return &models.LearningPathsResponse{LearningPaths: items, Pagination: pg}
}

func (s *Store) LearningPath(p *auth.Principal, id string) (*models.LearningPath, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lp, ok := s.paths[id]
	if !ok {
		return nil, notFound("Learning path")
	}
	out := s.pathForLocked(p, lp)
	return &out, nil
}

// Enroll enrolls the caller in a published path.
func (s *Store) Enroll(p *auth.Principal, id string) (*models.LearningPath, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lp, ok := s.paths[id]
	if !ok {
		return nil, notFound("Learning path")
	}
	if !lp.Published {
		return nil, conflict("This learning path is not open for enrollment")
	}
	if s.enrollments[id][p.UserID] {
		return nil, conflict("You are already enrolled in this learning path")
	}
	if s.enrollments[id] == nil {
		s.enrollments[id] = make(map[string]bool)
	}
	s.enrollments[id][p.UserID] = true

	out := s.pathForLocked(p, lp)
	return &out, nil
}

// AnnouncementInput is the body of a create announcement request.
type AnnouncementInput struct {
	Title    string      `json:"title"`
	Body     string      `json:"body"`
	Audience models.Role `json:"audience"`
}

// Announcements lists announcements addressed to p's role, newest first.
func (s *Store) Announcements(p *auth.Principal) *models.AnnouncementsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Announcement, 0, len(s.announcements))
	for _, a := range slices.Backward(s.announcements) {
		if a.Audience == "" || isAdmin(p) || (p != nil && a.Audience == p.Role) {
			out = append(out, a)
		}
	}
	return &models.AnnouncementsResponse{Announcements: out}
}

// CreateAnnouncement stores an announcement. The body is sanitized to safe
// user-generated HTML.
func (s *Store) CreateAnnouncement(in AnnouncementInput) (*models.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid("Title is required")
	}
	body := strings.TrimSpace(s.ugc.Sanitize(in.Body))
	if body == "" {
		return nil, invalid("Body is required")
	}
	if in.Audience != "" && !in.Audience.Valid() {
		return nil, invalid("Invalid audience %q", in.Audience)
	}

	a := models.Announcement{
		ID:        s.newID(),
		Title:     strings.TrimSpace(in.Title),
		Body:      body,
		Audience:  in.Audience,
		CreatedAt: s.timestamp(),
	}
	s.announcements = append(s.announcements, a)
	return &a, nil
}

// Messages lists p's sent and received messages, newest first. With
// unreadOnly only unread received messages are returned.
func (s *Store) Messages(p *auth.Principal, unreadOnly bool) *models.MessagesResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, 0)
	for _, m := range slices.Backward(s.messages) {
		received := m.ToID == p.UserID
		if unreadOnly && (!received || m.Read) {
			continue
		}
		if received || m.FromID == p.UserID {
			out = append(out, m)
		}
	}
	return &models.MessagesResponse{Messages: out}
}

// SendMessage stores a direct message from p.
func (s *Store) SendMessage(p *auth.Principal, toID, body string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[toID]; !ok {
		return nil, notFound("Recipient")
	}
	if toID == p.UserID {
		return nil, invalid("You cannot message yourself")
	}
	body = strings.TrimSpace(s.ugc.Sanitize(body))
	if body == "" {
		return nil, invalid("Message body is required")
	}

	m := models.Message{ID: s.newID(), FromID: p.UserID, ToID: toID, Body: body, SentAt: s.timestamp()}
	s.messages = append(s.messages, m)
	return &m, nil
}
