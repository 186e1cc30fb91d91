package fakeapi

import (
	"fmt"
	"time"

	"github.com/wolfeidau/mentorhub/internal/auth"
	"github.com/wolfeidau/mentorhub/internal/models"
)

// Seeded holds the ids of the demo data created by Seed.
type Seeded struct {
	Admin     models.User
	Mentor    models.User
	Learner   models.User
	Newcomer  models.User
	Workspace models.Workspace
	Project   models.Project
	Path      models.LearningPath
}

// Principal returns the principal for a seeded user.
func Principal(u models.User) *auth.Principal {
	return &auth.Principal{UserID: u.ID, Role: u.Role, Name: u.FullName, Email: u.Email}
}

// Seed populates s with a small, consistent data set: one user per role, a
// workspace with a pending invitation and join request, projects with tasks,
// sessions either side of now, learning paths, contacts, applications and
// communications.
func Seed(s *Store) (*Seeded, error) {
	now := s.now().UTC()
	out := &Seeded{}

	users := []struct {
		dst  *models.User
		name string
		role models.Role
		age  time.Duration
	}{
		{&out.Admin, "Ada Admin", models.RoleAdmin, 90 * 24 * time.Hour},
		{&out.Mentor, "Grace Mentor", models.RoleMentor, 60 * 24 * time.Hour},
		{&out.Learner, "Linus Learner", models.RoleLearner, 30 * 24 * time.Hour},
		{&out.Newcomer, "Nia Newcomer", models.RoleUser, 2 * 24 * time.Hour},
	}
	for _, su := range users {
		u, err := s.AddUser(models.User{
			FullName:    su.name,
			Email:       fmt.Sprintf("%s@mentorhub.dev", su.role),
			Role:        su.role,
			CreatedAt:   models.NewTimestamp(now.Add(-su.age)),
			LastLoginAt: models.NewTimestamp(now.Add(-time.Hour)),
		})
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", su.name, err)
		}
		*su.dst = *u
	}
	if _, err := s.AddUser(models.User{
		FullName:  "Dormant Dana",
		Email:     "dana@mentorhub.dev",
		Role:      models.RoleLearner,
		Disabled:  true,
		CreatedAt: models.NewTimestamp(now.Add(-120 * 24 * time.Hour)),
	}); err != nil {
		return nil, fmt.Errorf("seed disabled user: %w", err)
	}

	admin, mentor, learner, newcomer := Principal(out.Admin), Principal(out.Mentor), Principal(out.Learner), Principal(out.Newcomer)

	ws, err := s.CreateWorkspace("Rust Study Group", out.Mentor.ID)
	if err != nil {
		return nil, fmt.Errorf("seed workspace: %w", err)
	}
	if _, err := s.CreateInvitation(mentor, ws.ID, InvitationInput{InviteeID: out.Learner.ID, Role: models.WorkspaceRoleMember, Message: "Join us on Thursdays"}); err != nil {
		return nil, fmt.Errorf("seed invitation: %w", err)
	}
	if _, err := s.CreateInvitation(mentor, ws.ID, InvitationInput{Email: "friend@example.com", Role: models.WorkspaceRoleMember}); err != nil {
		return nil, fmt.Errorf("seed email invitation: %w", err)
	}
	if _, err := s.RequestToJoin(newcomer, ws.ID, "I would love to learn Rust"); err != nil {
		return nil, fmt.Errorf("seed join request: %w", err)
	}
	out.Workspace, _ = s.workspaceCopy(ws.ID)

	project, err := s.CreateProject(mentor, ProjectInput{
		Title:       "Garden Planner",
		Description: "Plan a vegetable garden with a <b>web</b> front end",
		Category:    "web",
		Level:       "beginner",
		MaxMembers:  4,
		Timeline: models.Timeline{
			Start: models.NewTimestamp(now.AddDate(0, 0, -14)),
			End:   models.NewTimestamp(now.AddDate(0, 2, 0)),
		},
	},
		AreaInput{Name: "Design", Tasks: []string{"Wireframes", "Colour palette"}},
		AreaInput{Name: "Build", Tasks: []string{"Plot editor", "Planting calendar", "Export to PDF"}},
	)
	if err != nil {
		return nil, fmt.Errorf("seed project: %w", err)
	}
	if _, err := s.JoinProject(learner, project.ID); err != nil {
		return nil, fmt.Errorf("seed project member: %w", err)
	}
	areas, _ := s.ProjectAreas(project.ID)
	if _, err := s.UpdateTaskStatus(mentor, project.ID, areas[0].Tasks[0].ID, models.TaskDone); err != nil {
		return nil, fmt.Errorf("seed task: %w", err)
	}
	out.Project = *project
	if p, err := s.Project(project.ID); err == nil {
		out.Project = *p
	}

	extra := []struct {
		title, category, level string
		status                 models.ProjectStatus
	}{
		{"Quiz Engine", "backend", "intermediate", models.ProjectPlanning},
		{"Weather Dashboard", "data", "beginner", models.ProjectCompleted},
		{"Chess Clock", "mobile", "beginner", models.ProjectOnHold},
	}
	for _, e := range extra {
		p, err := s.CreateProject(admin, ProjectInput{Title: e.title, Category: e.category, Level: e.level, MaxMembers: 6})
		if err != nil {
			return nil, fmt.Errorf("seed project %s: %w", e.title, err)
		}
		if err := s.SetProjectStatus(p.ID, e.status); err != nil {
			return nil, err
		}
	}

	s.AddSession(models.Session{
		Title:           "Ownership and borrowing",
		Status:          models.SessionAccepted,
		MentorID:        out.Mentor.ID,
		LearnerID:       out.Learner.ID,
		ScheduledAt:     sessionStart(now, 2, 10),
		DurationMinutes: 60,
	})
	s.AddSession(models.Session{
		Title:           "Project kickoff",
		Status:          models.SessionPending,
		MentorID:        out.Mentor.ID,
		LearnerID:       out.Learner.ID,
		ScheduledAt:     sessionStart(now, 5, 14),
		DurationMinutes: 30,
	})
	s.AddSession(models.Session{
		Title:           "Intro call",
		Status:          models.SessionCompleted,
		MentorID:        out.Mentor.ID,
		LearnerID:       out.Learner.ID,
		ScheduledAt:     sessionStart(now, -7, 9),
		DurationMinutes: 45,
	})

	path := s.AddLearningPath(models.LearningPath{
		Title:       "Web Foundations",
		Description: "HTML, CSS and a little JavaScript",
		Level:       "beginner",
		Published:   true,
		Modules: []models.PathModule{
			{Title: "Semantic HTML", Duration: "2h"},
			{Title: "Layout with CSS grid", Duration: "3h"},
			{Title: "DOM scripting", Duration: "4h"},
		},
	})
	out.Path = *path
	s.AddLearningPath(models.LearningPath{Title: "Systems Programming", Level: "advanced", Published: false})
	if _, err := s.Enroll(learner, path.ID); err != nil {
		return nil, fmt.Errorf("seed enrollment: %w", err)
	}

	s.AddContact(models.Contact{
		Type:        models.ContactLearner,
		FullName:    "Sam Visitor",
		Email:       "sam@example.com",
		Subject:     "Scholarships",
		Message:     "<p>Do you offer <em>scholarships</em>?</p>",
		SubmittedAt: models.NewTimestamp(now.Add(-3 * time.Hour)),
	})
	s.AddContact(models.Contact{
		Type:        models.ContactBusiness,
		Status:      models.ContactInProgress,
		FullName:    "Priya Partner",
		Email:       "priya@acme.example",
		Company:     "Acme",
		Subject:     "Sponsoring a cohort",
		Message:     "We would like to sponsor ten learners.",
		SubmittedAt: models.NewTimestamp(now.Add(-48 * time.Hour)),
	})

	s.AddApplication(models.Application{
		Type:        models.ApplicationLearner,
		FullName:    "Alex Applicant",
		Email:       "alex@example.com",
		Message:     "I want to switch careers into software.",
		Attachments: []models.Attachment{{Name: "cv.pdf", URL: "https://files.mentorhub.dev/cv.pdf", ContentType: "application/pdf"}},
		SubmittedAt: models.NewTimestamp(now.Add(-24 * time.Hour)),
	})
	s.AddApplication(models.Application{
		Type:        models.ApplicationBusiness,
		Status:      models.ApplicationReviewing,
		FullName:    "Bo Business",
		Email:       "bo@corp.example",
		SubmittedAt: models.NewTimestamp(now.Add(-72 * time.Hour)),
	})

	if _, err := s.CreateAnnouncement(AnnouncementInput{Title: "Welcome", Body: "<p>Welcome to the spring cohort!</p>"}); err != nil {
		return nil, fmt.Errorf("seed announcement: %w", err)
	}
	if _, err := s.CreateAnnouncement(AnnouncementInput{Title: "Mentor sync", Body: "Monthly mentor sync is on Friday.", Audience: models.RoleMentor}); err != nil {
		return nil, fmt.Errorf("seed announcement: %w", err)
	}
	if _, err := s.SendMessage(mentor, out.Learner.ID, "See you on Thursday!"); err != nil {
		return nil, fmt.Errorf("seed message: %w", err)
	}

	return out, nil
}

func (s *Store) workspaceCopy(id string) (models.Workspace, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ws, ok := s.workspaces[id]
	if !ok {
		return models.Workspace{}, false
	}
	return *ws, true
}

func sessionStart(now time.Time, days, hour int) models.Timestamp {
	d := now.AddDate(0, 0, days)
	return models.NewTimestamp(time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC))
}
