package pages

import (
	"context"
	"time"

	"github.com/wolfeidau/mentorhub/internal/api"
	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/notify"
	"github.com/wolfeidau/mentorhub/internal/views"
)

// ProjectsView is the projects list with stats over the displayed rows.
type ProjectsView struct {
	View[models.Project]
	Stats views.ProjectStats
}

// ProjectsPage lists projects and runs the join and task actions.
type ProjectsPage struct {
	*base[views.ProjectFilters, api.ProjectsArgs, models.ProjectsResponse, models.Project]
}

func NewProjectsPage(a *api.API, n notify.Notifier, filters views.ProjectFilters) *ProjectsPage {
	return &ProjectsPage{&base[views.ProjectFilters, api.ProjectsArgs, models.ProjectsResponse, models.Project]{
		api:      a,
		notifier: n,
		filters:  filters,
		list: list[api.ProjectsArgs, models.ProjectsResponse, models.Project]{
			api:   a,
			query: api.GetProjects,
			what:  "projects",
			rows:  func(r *models.ProjectsResponse) []models.Project { return r.Projects },
			pages: func(r *models.ProjectsResponse) models.Pagination { return r.Pagination },
		},
	}}
}

func (p *ProjectsPage) Load(ctx context.Context) ProjectsView {
	return p.finish(p.view(ctx, false))
}

// Refresh refetches regardless of cache state.
func (p *ProjectsPage) Refresh(ctx context.Context) ProjectsView {
	return p.finish(p.refreshed(ctx))
}

func (p *ProjectsPage) finish(v View[models.Project]) ProjectsView {
	v.Items = views.SortProjects(v.Items, p.Filters().Sort)
	return ProjectsView{View: v, Stats: views.NewProjectStats(v.Items)}
}

// Watch renders the page now and again whenever its data changes.
func (p *ProjectsPage) Watch(ctx context.Context, every time.Duration, render func(ProjectsView)) error {
	return p.watch(ctx, every, func(ctx context.Context, force bool) {
		render(p.finish(p.view(ctx, force)))
	})
}

// Join adds the viewer to a project.
func (p *ProjectsPage) Join(ctx context.Context, projectID string) bool {
	_, err := p.api.JoinProject(ctx, projectID)
	return notify.MutationResult(p.notifier, err, "Joined project", "Failed to join project")
}

// SetTaskStatus moves a task; the project's progress is recalculated by the
// server and refetched through invalidation.
func (p *ProjectsPage) SetTaskStatus(ctx context.Context, projectID, taskID string, status models.TaskStatus) bool {
	_, err := p.api.UpdateTaskStatus(ctx, api.UpdateTaskStatusArgs{ProjectID: projectID, TaskID: taskID, Status: status})
	return notify.MutationResult(p.notifier, err, "Task updated", "Failed to update task")
}

// ProjectDetail is a project with its areas.
type ProjectDetail struct {
	Project   *models.Project
	Areas     []models.ProjectArea
	Err       error
	Message   string
	Retryable bool
}

// Detail loads a project and its areas.
func (p *ProjectsPage) Detail(ctx context.Context, projectID string) ProjectDetail {
	proj, err := p.api.GetProject(ctx, projectID)
	if err != nil {
		return ProjectDetail{Err: err, Message: notFoundOr(err, "Project not found", "Failed to load project"), Retryable: retryable(err)}
	}
	areas, err := p.api.GetProjectAreas(ctx, projectID)
	if err != nil {
		return ProjectDetail{Project: &proj.Project, Err: err, Message: notFoundOr(err, "Project not found", "Failed to load project areas"), Retryable: retryable(err)}
	}
	return ProjectDetail{Project: &proj.Project, Areas: areas.Areas}
}
