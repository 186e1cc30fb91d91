package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/wolfeidau/mentorhub/internal/api"
	"github.com/wolfeidau/mentorhub/internal/client"
	"github.com/wolfeidau/mentorhub/internal/modal"
	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/pages"
	"github.com/wolfeidau/mentorhub/internal/views"
	"gopkg.in/yaml.v3"
)

// ProjectsCmd lists, creates and joins projects.
type ProjectsCmd struct {
	List       ProjectsListCmd       `cmd:"" help:"List projects"`
	Show       ProjectsShowCmd       `cmd:"" help:"Show a project with its areas and tasks"`
	Create     ProjectsCreateCmd     `cmd:"" help:"Create a project"`
	Join       ProjectsJoinCmd       `cmd:"" help:"Join a project"`
	TaskStatus ProjectsTaskStatusCmd `cmd:"" name:"task-status" help:"Move a task to a new status"`
}

type ProjectsListCmd struct {
	Status   string `help:"Server-side status filter" enum:",planning,active,completed,on_hold,cancelled" default:""`
	Category string `help:"Server-side category filter"`
	Level    string `help:"Server-side level filter"`
	Sort     string `help:"Sort order (newest, oldest, title, progress)" enum:"newest,oldest,title,progress" default:"newest"`
	Limit    int    `help:"Maximum projects to fetch"`
	Search   string `help:"Search title, description and category" short:"s"`
	Tab      string `help:"Tab (all, active, planning, completed, mine)" enum:"all,active,planning,completed,mine" default:"all"`
	WatchFlags
}

func (c *ProjectsListCmd) filters(globals *Globals) (views.ProjectFilters, error) {
	f := views.ProjectFilters{
		Status:   models.ProjectStatus(c.Status),
		Category: c.Category,
		Level:    c.Level,
		Sort:     c.Sort,
		Limit:    c.Limit,
		Search:   c.Search,
		Tab:      views.ProjectTab(c.Tab),
	}
	if f.Tab == views.ProjectTabMine {
		viewer, err := globals.viewer()
		if err != nil {
			return f, err
		}
		f.UserID = viewer
	}
	return f, nil
}

func (c *ProjectsListCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}
	filters, err := c.filters(globals)
	if err != nil {
		return err
	}

	page := pages.NewProjectsPage(a, globals.notifier(), filters)

	w := globals.out()
	if c.Watch {
		return page.Watch(ctx, c.Interval, func(v pages.ProjectsView) {
			fmt.Fprint(w, clearScreen)
			printProjects(w, v)
		})
	}

	v := page.Load(ctx)
	if v.Err != nil {
		return failure(v.Message, v.Retryable)
	}
	printProjects(w, v)
	return nil
}

func printProjects(w io.Writer, v pages.ProjectsView) {
	if v.Err != nil {
		fmt.Fprintf(w, "Error: %s\n", v.Message)
		return
	}
	if v.Empty() {
		fmt.Fprintln(w, "No projects found.")
		return
	}

	tw := table(w)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tLEVEL\tSTATUS\tPROGRESS\tMEMBERS")
	for _, p := range v.Items {
		members := strconv.Itoa(len(p.Members))
		if p.MaxMembers > 0 {
			members += "/" + strconv.Itoa(p.MaxMembers)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, truncate(p.Title, 30), p.Category, p.Level, views.Label(string(p.Status)), views.Percent(p.Progress), members)
	}
	tw.Flush()

	s := v.Stats
	fmt.Fprintf(w, "\n%d projects, %d active, %d completed, average progress %s\n", s.Total, s.ByStatus[models.ProjectActive], s.ByStatus[models.ProjectCompleted], views.Percent(s.AverageProgress))
	pageFooter(w, len(v.Items), v.Fetched, v.Pagination)
}

type ProjectsShowCmd struct {
	ProjectID string `arg:"" help:"Project ID"`
}

func (c *ProjectsShowCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}

	d := pages.NewProjectsPage(a, globals.notifier(), views.ProjectFilters{}).Detail(ctx, c.ProjectID)
	if d.Err != nil {
		return failure(d.Message, d.Retryable)
	}

	w := globals.out()
	p := d.Project
	fmt.Fprintf(w, "%s (%s)\n", p.Title, p.ID)
	fmt.Fprintf(w, "Status:    %s, %s complete\n", views.Label(string(p.Status)), views.Percent(p.Progress))
	if p.Category != "" || p.Level != "" {
		fmt.Fprintf(w, "Category:  %s / %s\n", p.Category, p.Level)
	}
	if !p.Timeline.Start.IsZero() {
		fmt.Fprintf(w, "Timeline:  %s to %s\n", p.Timeline.Start.Format("2006-01-02"), p.Timeline.End.Format("2006-01-02"))
	}
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", views.PlainText(p.Description))
	}

	if len(p.Members) > 0 {
		fmt.Fprintln(w, "\nMembers:")
		for _, m := range p.Members {
			fmt.Fprintf(w, "  %s  %s  %s\n", m.UserID, m.FullName, m.Role)
		}
	}

	for _, area := range d.Areas {
		fmt.Fprintf(w, "\n%s (%s, %s)\n", area.Name, views.Label(string(area.Status)), views.Percent(area.Progress))
		tw := table(w)
		for _, t := range area.Tasks {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", t.ID, t.Title, views.Label(string(t.Status)))
		}
		tw.Flush()
	}
	return nil
}

type ProjectsJoinCmd struct {
	ProjectID string `arg:"" help:"Project ID"`
}

func (c *ProjectsJoinCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}
	return mutated(pages.NewProjectsPage(a, globals.notifier(), views.ProjectFilters{}).Join(ctx, c.ProjectID))
}

type ProjectsTaskStatusCmd struct {
	ProjectID string `arg:"" help:"Project ID"`
	TaskID    string `arg:"" help:"Task ID"`
	Status    string `arg:"" help:"New status" enum:"todo,in_progress,review,done"`
}

func (c *ProjectsTaskStatusCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}
	page := pages.NewProjectsPage(a, globals.notifier(), views.ProjectFilters{})
	return mutated(page.SetTaskStatus(ctx, c.ProjectID, c.TaskID, models.TaskStatus(c.Status)))
}

// ProjectDraft is the data collected by the create wizard, also accepted as
// a YAML file.
type ProjectDraft struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Level       string `yaml:"level"`
	MaxMembers  int    `yaml:"maxMembers"`
	Start       string `yaml:"startDate"`
	End         string `yaml:"endDate"`
}

var levels = []string{"beginner", "intermediate", "advanced"}

// NewProjectWizard returns the three step create flow: basics, details and
// timeline.
func NewProjectWizard(initial ProjectDraft) *modal.Wizard[ProjectDraft] {
	return modal.NewWizard(initial,
		modal.Step[ProjectDraft]{Name: "basics", Validate: func(d ProjectDraft) error {
			if strings.TrimSpace(d.Title) == "" {
				return errors.New("title is required")
			}
			if len(d.Title) > 120 {
				return errors.New("title must be at most 120 characters")
			}
			return nil
		}},
		modal.Step[ProjectDraft]{Name: "details", Validate: func(d ProjectDraft) error {
			if d.Level != "" && !slices.Contains(levels, d.Level) {
				return fmt.Errorf("level must be one of %s", strings.Join(levels, ", "))
			}
			if d.MaxMembers < 0 {
				return errors.New("max members cannot be negative")
			}
			return nil
		}},
		modal.Step[ProjectDraft]{Name: "timeline", Validate: func(d ProjectDraft) error {
			_, err := d.timeline()
			return err
		}},
	)
}

func (d ProjectDraft) timeline() (models.Timeline, error) {
	var tl models.Timeline
	if d.Start == "" && d.End == "" {
		return tl, nil
	}
	start, err := time.Parse(time.DateOnly, d.Start)
	if err != nil {
		return tl, fmt.Errorf("start date must be YYYY-MM-DD")
	}
	end, err := time.Parse(time.DateOnly, d.End)
	if err != nil {
		return tl, fmt.Errorf("end date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return tl, errors.New("end date must not be before start date")
	}
	return models.Timeline{Start: models.NewTimestamp(start), End: models.NewTimestamp(end)}, nil
}

func (d ProjectDraft) args() (api.CreateProjectArgs, error) {
	tl, err := d.timeline()
	if err != nil {
		return api.CreateProjectArgs{}, err
	}
	return api.CreateProjectArgs{
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Category:    d.Category,
		Level:       d.Level,
		MaxMembers:  d.MaxMembers,
		Timeline:    tl,
	}, nil
}

type ProjectsCreateCmd struct {
	File        string `help:"YAML file with the project fields" type:"existingfile" short:"f"`
	Title       string `help:"Project title"`
	Description string `help:"Project description"`
	Category    string `help:"Category"`
	Level       string `help:"Level (beginner, intermediate, advanced)"`
	MaxMembers  int    `help:"Maximum members"`
	Start       string `help:"Start date (YYYY-MM-DD)"`
	End         string `help:"End date (YYYY-MM-DD)"`
	Interactive bool   `help:"Prompt for each step" short:"i"`
}

func (c *ProjectsCreateCmd) draft() (ProjectDraft, error) {
	var d ProjectDraft
	if c.File != "" {
		data, err := os.ReadFile(c.File)
		if err != nil {
			return d, fmt.Errorf("failed to read %s: %w", c.File, err)
		}
		if err := yaml.Unmarshal(data, &d); err != nil {
			return d, fmt.Errorf("failed to parse %s: %w", c.File, err)
		}
	}
	override(&d.Title, c.Title)
	override(&d.Description, c.Description)
	override(&d.Category, c.Category)
	override(&d.Level, c.Level)
	override(&d.Start, c.Start)
	override(&d.End, c.End)
	if c.MaxMembers != 0 {
		d.MaxMembers = c.MaxMembers
	}
	return d, nil
}

func (c *ProjectsCreateCmd) Run(ctx context.Context, globals *Globals) error {
	initial, err := c.draft()
	if err != nil {
		return err
	}

	wiz := NewProjectWizard(initial)
	if c.Interactive {
		if err := promptProject(globals, wiz); err != nil {
			return err
		}
	} else {
		for !wiz.IsLast() {
			if err := wiz.Next(); err != nil {
				return err
			}
		}
	}

	a, err := globals.API()
	if err != nil {
		return err
	}
	n := globals.notifier()

	return wiz.Complete(ctx, func(ctx context.Context, d ProjectDraft) error {
		args, err := d.args()
		if err != nil {
			return err
		}
		res, err := a.CreateProject(ctx, args)
		if err != nil {
			n.Error(client.MessageOf(err, "Failed to create project"))
			return err
		}
		n.Success("Project created")
		fmt.Fprintf(globals.out(), "ID: %s\n", res.Project.ID)
		return nil
	})
}

// promptProject walks the wizard on the terminal. Entering "<" goes back a
// step; an empty answer keeps the current value.
func promptProject(globals *Globals, wiz *modal.Wizard[ProjectDraft]) error {
	r := bufio.NewReader(globals.in())
	w := globals.out()

	ask := func(label string, value *string) (back bool, err error) {
		fmt.Fprintf(w, "%s [%s]: ", label, *value)
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return false, fmt.Errorf("input closed: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "<" {
			return true, nil
		}
		if line != "" {
			*value = line
		}
		return false, nil
	}

	for {
		step, total := wiz.Position()
		fmt.Fprintf(w, "\nStep %d/%d: %s\n", step, total, wiz.Current().Name)

		d := wiz.Data()
		var fields []func() (bool, error)
		switch wiz.Current().Name {
		case "basics":
			fields = append(fields,
				func() (bool, error) { return ask("Title", &d.Title) },
				func() (bool, error) { return ask("Description", &d.Description) })
		case "details":
			maxMembers := strconv.Itoa(d.MaxMembers)
			fields = append(fields,
				func() (bool, error) { return ask("Category", &d.Category) },
				func() (bool, error) { return ask("Level", &d.Level) },
				func() (bool, error) {
					back, err := ask("Max members", &maxMembers)
					if err == nil && !back {
						n, convErr := strconv.Atoi(maxMembers)
						if convErr != nil {
							return false, errors.New("max members must be a number")
						}
						d.MaxMembers = n
					}
					return back, err
				})
		case "timeline":
			fields = append(fields,
				func() (bool, error) { return ask("Start date", &d.Start) },
				func() (bool, error) { return ask("End date", &d.End) })
		}

		back := false
		for _, field := range fields {
			var err error
			back, err = field()
			if err != nil {
				return err
			}
			if back {
				break
			}
		}

		switch {
		case back:
			if err := wiz.Back(); err != nil {
				fmt.Fprintf(w, "%v\n", err)
			}
		case wiz.IsLast():
			return nil
		default:
			if err := wiz.Next(); err != nil {
				fmt.Fprintf(w, "%v\n", err)
			}
		}
	}
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
