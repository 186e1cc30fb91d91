package api

import (
	"context"

	"github.com/wolfeidau/mentorhub/internal/cache"
	"github.com/wolfeidau/mentorhub/internal/models"
)

// ProjectsArgs are the server-side project filters.
type ProjectsArgs struct {
	Status   models.ProjectStatus `json:"status,omitempty"`
	Category string               `json:"category,omitempty"`
	Level    string               `json:"level,omitempty"`
	Sort     string               `json:"sort,omitempty"`
	Limit    int                  `json:"limit,omitempty"`
}

type CreateProjectArgs struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Level       string          `json:"level,omitempty"`
	MaxMembers  int             `json:"maxMembers,omitempty"`
	Timeline    models.Timeline `json:"timeline"`
}

type UpdateTaskStatusArgs struct {
	ProjectID string            `json:"projectId"`
	TaskID    string            `json:"taskId"`
	Status    models.TaskStatus `json:"status"`
}

var GetProjects = Query[ProjectsArgs, models.ProjectsResponse]{
	Name:     "getProjects",
	Template: "/projects",
	Path: func(a ProjectsArgs) string {
		return withQuery("/projects", params{}.
			str("status", string(a.Status)).
			str("category", a.Category).
			str("level", a.Level).
			str("sort", a.Sort).
			int("limit", a.Limit))
	},
	Provides: func(ProjectsArgs, *models.ProjectsResponse) []cache.Tag {
		return []cache.Tag{cache.ListTag(TagProject)}
	},
}

var GetProject = Query[string, models.ProjectResponse]{
	Name:     "getProject",
	Template: "/projects/{id}",
	Path:     func(id string) string { return pathf("/projects/%s", id) },
	Provides: func(id string, _ *models.ProjectResponse) []cache.Tag {
		return []cache.Tag{cache.IDTag(TagProject, id)}
	},
}

var GetProjectAreas = Query[string, models.ProjectAreasResponse]{
	Name:     "getProjectAreas",
	Template: "/projects/{id}/areas",
	Path:     func(projectID string) string { return pathf("/projects/%s/areas", projectID) },
	Provides: func(projectID string, res *models.ProjectAreasResponse) []cache.Tag {
		tags := []cache.Tag{cache.IDTag(TagProjectArea, projectID)}
		if res != nil {
			for _, area := range res.Areas {
				for _, task := range area.Tasks {
					tags = append(tags, cache.IDTag(TagTask, task.ID))
				}
			}
		}
		return tags
	},
}

var CreateProject = Mutation[CreateProjectArgs, models.ProjectResponse]{
	Name:     "createProject",
	Template: "/projects",
	Path:     func(CreateProjectArgs) string { return "/projects" },
	Body:     func(a CreateProjectArgs) any { return a },
	Validate: func(a CreateProjectArgs) error {
		if err := required("title", a.Title); err != nil {
			return err
		}
		if a.MaxMembers < 0 {
			return invalid("maxMembers", "must not be negative")
		}
		start, end := a.Timeline.Start, a.Timeline.End
		if !start.IsZero() && !end.IsZero() && end.Before(start.Time) {
			return invalid("timeline", "must end after it starts")
		}
		return nil
	},
	Invalidates: func(CreateProjectArgs, *models.ProjectResponse) []cache.Tag {
		return []cache.Tag{cache.ListTag(TagProject)}
	},
}

var JoinProject = Mutation[string, models.ProjectResponse]{
	Name:     "joinProject",
	Template: "/projects/{id}/join",
	Path:     func(projectID string) string { return pathf("/projects/%s/join", projectID) },
	Validate: func(projectID string) error { return required("projectId", projectID) },
	Invalidates: func(projectID string, _ *models.ProjectResponse) []cache.Tag {
		return []cache.Tag{cache.IDTag(TagProject, projectID), cache.ListTag(TagProject)}
	},
}

// UpdateTaskStatus moves a task. Project and area progress are derived from
// task states, so both are invalidated along with the task.
var UpdateTaskStatus = Mutation[UpdateTaskStatusArgs, models.TaskResponse]{
	Name:     "updateTaskStatus",
	Template: "/projects/{id}/tasks/{taskId}/status",
	Path: func(a UpdateTaskStatusArgs) string {
		return pathf("/projects/%s/tasks/%s/status", a.ProjectID, a.TaskID)
	},
	Body: func(a UpdateTaskStatusArgs) any {
		return map[string]models.TaskStatus{"status": a.Status}
	},
	Validate: func(a UpdateTaskStatusArgs) error {
		if err := required("projectId", a.ProjectID); err != nil {
			return err
		}
		if err := required("taskId", a.TaskID); err != nil {
			return err
		}
		if !a.Status.Valid() {
			return invalid("status", "must be one of todo, in_progress, review, done")
		}
		return nil
	},
	Invalidates: func(a UpdateTaskStatusArgs, _ *models.TaskResponse) []cache.Tag {
		return []cache.Tag{
			cache.IDTag(TagTask, a.TaskID),
			cache.IDTag(TagProjectArea, a.ProjectID),
			cache.IDTag(TagProject, a.ProjectID),
			cache.ListTag(TagProject),
		}
	},
}

func (a *API) GetProjects(ctx context.Context, args ProjectsArgs) (*models.ProjectsResponse, error) {
	return RunQuery(ctx, a, GetProjects, args)
}

func (a *API) GetProject(ctx context.Context, projectID string) (*models.ProjectResponse, error) {
	return RunQuery(ctx, a, GetProject, projectID)
}

func (a *API) GetProjectAreas(ctx context.Context, projectID string) (*models.ProjectAreasResponse, error) {
	return RunQuery(ctx, a, GetProjectAreas, projectID)
}

func (a *API) CreateProject(ctx context.Context, args CreateProjectArgs) (*models.ProjectResponse, error) {
	return RunMutation(ctx, a, CreateProject, args)
}

func (a *API) JoinProject(ctx context.Context, projectID string) (*models.ProjectResponse, error) {
	return RunMutation(ctx, a, JoinProject, projectID)
}

func (a *API) UpdateTaskStatus(ctx context.Context, args UpdateTaskStatusArgs) (*models.TaskResponse, error) {
	return RunMutation(ctx, a, UpdateTaskStatus, args)
}
