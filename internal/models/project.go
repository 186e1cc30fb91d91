package models

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCancelled ProjectStatus = "cancelled"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectCompleted, ProjectOnHold, ProjectCancelled:
		return true
	}
	return false
}

// ProjectStatuses lists every project status in display order.
var ProjectStatuses = []ProjectStatus{
	ProjectPlanning, ProjectActive, ProjectCompleted, ProjectOnHold, ProjectCancelled,
}

// TaskStatus is the state of a single task within a project area.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskReview, TaskDone:
		return true
	}
	return false
}

// Timeline holds the planned start and end of a project.
type Timeline struct {
	Start Timestamp `json:"startDate"`
	End   Timestamp `json:"endDate"`
}

// ProjectMember is a user participating in a project.
type ProjectMember struct {
	UserID   string `json:"userId"`
	FullName string `json:"fullName,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Project is a hands-on learning project.
type Project struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Level       string          `json:"level,omitempty"`
	Status      ProjectStatus   `json:"status"`
	Progress    float64         `json:"progress"`
	Members     []ProjectMember `json:"members,omitempty"`
	MaxMembers  int             `json:"maxMembers,omitempty"`
	Timeline    Timeline        `json:"timeline"`
	CreatedAt   Timestamp       `json:"createdAt"`
}

// IsMember reports whether userID is on the project.
func (p Project) IsMember(userID string) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// ProjectArea groups the tasks for one workstream of a project.
type ProjectArea struct {
	ID        string        `json:"id"`
	ProjectID string        `json:"projectId"`
	Name      string        `json:"name"`
	Status    ProjectStatus `json:"status"`
	Progress  float64       `json:"progress"`
	Tasks     []Task        `json:"tasks,omitempty"`
}

// Task is a unit of work inside a project area.
type Task struct {
	ID         string     `json:"id"`
	AreaID     string     `json:"areaId"`
	Title      string     `json:"title"`
	Status     TaskStatus `json:"status"`
	AssigneeID string     `json:"assigneeId,omitempty"`
	DueDate    Timestamp  `json:"dueDate"`
}

// ProjectsResponse is a page of projects.
type ProjectsResponse struct {
	Projects   []Project  `json:"projects"`
	Pagination Pagination `json:"pagination"`
}

// ProjectResponse wraps a single project.
type ProjectResponse struct {
	Message string  `json:"message,omitempty"`
	Project Project `json:"project"`
}

// ProjectAreasResponse lists the areas of one project.
type ProjectAreasResponse struct {
	Areas []ProjectArea `json:"areas"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Message string `json:"message,omitempty"`
	Task    Task   `json:"task"`
}
