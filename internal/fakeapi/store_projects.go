package fakeapi

import (
	"math"
	"slices"
	"strings"

	"github.com/wolfeidau/mentorhub/internal/auth"
	"github.com/wolfeidau/mentorhub/internal/models"
)

// ProjectFilter selects and orders projects. Sort is newest, oldest, title or
// progress; anything else means newest.
type ProjectFilter struct {
	Status   models.ProjectStatus
	Category string
	Level    string
	Sort     string
	Limit    int
}

// ProjectInput is the body of a create project request.
type ProjectInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Level       string          `json:"level"`
	MaxMembers  int             `json:"maxMembers"`
	Timeline    models.Timeline `json:"timeline"`
}

// AreaInput seeds a project area with task titles.
type AreaInput struct {
	Name  string
	Tasks []string
}

func cloneProject(p *models.Project) models.Project {
	out := *p
	out.Members = slices.Clone(p.Members)
	return out
}

func cloneArea(a *models.ProjectArea) models.ProjectArea {
	out := *a
	out.Tasks = slices.Clone(a.Tasks)
	return out
}

// Projects lists projects matching f.
func (s *Store) Projects(f ProjectFilter) *models.ProjectsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.Level != "" && !strings.EqualFold(p.Level, f.Level) {
			continue
		}
		all = append(all, cloneProject(p))
	}

	slices.SortFunc(all, func(a, b models.Project) int {
		var c int
		switch f.Sort {
		case "oldest":
			c = a.CreatedAt.Compare(b.CreatedAt.Time)
		case "title":
			c = strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case "progress":
			c = -compareFloat(a.Progress, b.Progress)
		default:
			c = b.CreatedAt.Compare(a.CreatedAt.Time)
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	items, pg := paginate(all, Page{Limit: f.Limit})
	return &models.ProjectsResponse{Projects: items, Pagination: pg}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (s *Store) Project(id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, notFound("Project")
	}
	out := cloneProject(p)
	return &out, nil
}

// ProjectAreas lists the areas of a project with their tasks.
func (s *Store) ProjectAreas(projectID string) ([]models.ProjectArea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.projects[projectID]; !ok {
		return nil, notFound("Project")
	}
	out := make([]models.ProjectArea, 0, len(s.areas[projectID]))
	for _, a := range s.areas[projectID] {
		out = append(out, cloneArea(a))
	}
	return out, nil
}

// CreateProject adds a project in planning with the caller as lead.
func (s *Store) CreateProject(p *auth.Principal, in ProjectInput, areas ...AreaInput) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("Title is required")
	}
	if in.MaxMembers < 0 {
		return nil, invalid("maxMembers cannot be negative")
	}
	if !in.Timeline.Start.IsZero() && !in.Timeline.End.IsZero() && in.Timeline.End.Before(in.Timeline.Start.Time) {
		return nil, invalid("Timeline ends before it starts")
	}
	for _, existing := range s.projects {
		if strings.EqualFold(existing.Title, title) {
			return nil, conflict("A project named %q already exists", title)
		}
	}

	proj := &models.Project{
		ID:          s.newID(),
		Title:       title,
		Description: in.Description,
		Category:    in.Category,
		Level:       in.Level,
		Status:      models.ProjectPlanning,
		MaxMembers:  in.MaxMembers,
		Timeline:    in.Timeline,
		CreatedAt:   s.timestamp(),
		Members:     []models.ProjectMember{{UserID: p.UserID, FullName: p.Name, Role: "lead"}},
	}
	s.projects[proj.ID] = proj

	for _, ai := range areas {
		area := &models.ProjectArea{ID: s.newID(), ProjectID: proj.ID, Name: ai.Name, Status: models.ProjectPlanning}
		for _, t := range ai.Tasks {
			area.Tasks = append(area.Tasks, models.Task{ID: s.newID(), AreaID: area.ID, Title: t, Status: models.TaskTodo})
		}
		s.areas[proj.ID] = append(s.areas[proj.ID], area)
	}

	out := cloneProject(proj)
	return &out, nil
}

// SetProjectStatus overrides a project's status.
func (s *Store) SetProjectStatus(id string, status models.ProjectStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return notFound("Project")
	}
	if !status.Valid() {
		return invalid("Invalid status %q", status)
	}
	p.Status = status
	return nil
}

// JoinProject adds the caller as a member. Joining twice, joining a full
// project or joining a finished project is a conflict.
func (s *Store) JoinProject(p *auth.Principal, id string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proj, ok := s.projects[id]
	if !ok {
		return nil, notFound("Project")
	}
	if proj.IsMember(p.UserID) {
		return nil, conflict("You are already a member of this project")
	}
	switch proj.Status {
	case models.ProjectCompleted, models.ProjectCancelled:
		return nil, conflict("Project is %s and no longer accepts members", proj.Status)
	}
	if proj.MaxMembers > 0 && len(proj.Members) >= proj.MaxMembers {
		return nil, conflict("Project is full")
	}

	proj.Members = append(slices.Clone(proj.Members), models.ProjectMember{UserID: p.UserID, FullName: p.Name, Role: "member"})

	out := cloneProject(proj)
	return &out, nil
}

// UpdateTaskStatus moves a task and recalculates area and project progress.
// Only project members and admins may update tasks.
func (s *Store) UpdateTaskStatus(p *auth.Principal, projectID, taskID string, status models.TaskStatus) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proj, ok := s.projects[projectID]
	if !ok {
		return nil, notFound("Project")
	}
	if !status.Valid() {
		return nil, invalid("Invalid task status %q", status)
	}
	if !proj.IsMember(p.UserID) && !isAdmin(p) {
		return nil, forbidden("Only project members can update tasks")
	}

	for _, area := range s.areas[projectID] {
		for i := range area.Tasks {
			if area.Tasks[i].ID != taskID {
				continue
			}
			tasks := slices.Clone(area.Tasks)
			tasks[i].Status = status
			area.Tasks = tasks
			s.recalculateLocked(proj)

			out := tasks[i]
			return &out, nil
		}
	}
	return nil, notFound("Task")
}

// recalculateLocked derives area progress from done tasks and project
// progress from all tasks across areas.
func (s *Store) recalculateLocked(proj *models.Project) {
	var done, total int
	for _, area := range s.areas[proj.ID] {
		var areaDone, started int
		for _, t := range area.Tasks {
			switch t.Status {
			case models.TaskDone:
				areaDone++
				started++
			case models.TaskInProgress, models.TaskReview:
				started++
			}
		}
		area.Progress = percent(areaDone, len(area.Tasks))
		switch {
		case len(area.Tasks) > 0 && areaDone == len(area.Tasks):
			area.Status = models.ProjectCompleted
		case started > 0:
			area.Status = models.ProjectActive
		default:
			area.Status = models.ProjectPlanning
		}
		done += areaDone
		total += len(area.Tasks)
	}

	proj.Progress = percent(done, total)
	switch {
	case total > 0 && done == total:
		proj.Status = models.ProjectCompleted
	case proj.Status == models.ProjectPlanning && proj.Progress > 0:
		proj.Status = models.ProjectActive
	case proj.Status == models.ProjectCompleted && done < total:
		proj.Status = models.ProjectActive
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*1000) / 10
}
