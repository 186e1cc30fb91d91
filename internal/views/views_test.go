package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mentorhub/internal/api"
	"github.com/wolfeidau/mentorhub/internal/models"
)

func fetchedProjects() []models.Project {
	return []models.Project{
		{ID: "p1", Title: "Garden planner", Status: models.ProjectActive, Progress: 40, Category: "web"},
		{ID: "p2", Title: "Data cleanup", Status: models.ProjectCompleted, Progress: 100, Category: "data"},
		{ID: "p3", Title: "Café locator", Status: models.ProjectActive, Progress: 20, Category: "mobile",
			Members: []models.ProjectMember{{UserID: "u1"}}},
		{ID: "p4", Title: "Budget bot", Status: models.ProjectPlanning, Category: "web"},
		{ID: "p5", Title: "Quiz engine", Status: models.ProjectOnHold, Progress: 60, Category: "web"},
	}
}

func TestActiveTabIgnoresServerStatusFilter(t *testing.T) {
	projects := fetchedProjects()

	for _, serverStatus := range []models.ProjectStatus{"", models.ProjectCompleted, models.ProjectPlanning} {
		f := ProjectFilters{Status: serverStatus, Tab: ProjectTabActive}

		got := f.Pipeline().Apply(projects)
		require.Len(t, got, 2)
		require.Equal(t, "p1", got[0].ID)
		require.Equal(t, "p3", got[1].ID)
	}
}

func TestProjectFiltersSplit(t *testing.T) {
	f := ProjectFilters{
		Status:   models.ProjectActive,
		Category: "web",
		Level:    "beginner",
		Sort:     SortNewest,
		Limit:    12,
		Search:   "garden",
		Tab:      ProjectTabAll,
	}

	require.Equal(t, api.ProjectsArgs{
		Status:   models.ProjectActive,
		Category: "web",
		Level:    "beginner",
		Sort:     SortNewest,
		Limit:    12,
	}, f.ServerParams())

	// Changing only client-side fields leaves the server arguments alone.
	g := f
	g.Search = "bot"
	g.Tab = ProjectTabMine
	require.Equal(t, f.ServerParams(), g.ServerParams())

	got := f.Pipeline().Apply(fetchedProjects())
	require.Len(t, got, 1)
	require.Equal(t, "p1", got[0].ID)
}

func TestProjectSearchFoldsCase(t *testing.T) {
	got := Filter(fetchedProjects(), ProjectFilters{Search: "CAFÉ"}.ClientPredicates()...)
	require.Len(t, got, 1)
	require.Equal(t, "p3", got[0].ID)

	got = Filter(fetchedProjects(), ProjectFilters{Search: "WEB"}.ClientPredicates()...)
	require.Len(t, got, 3)
}

func TestMineTab(t *testing.T) {
	got := ProjectFilters{Tab: ProjectTabMine, UserID: "u1"}.Pipeline().Apply(fetchedProjects())
	require.Len(t, got, 1)
	require.Equal(t, "p3", got[0].ID)
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	projects := fetchedProjects()
	_ = Filter(projects, func(p models.Project) bool { return p.Status == models.ProjectActive })
	require.Equal(t, fetchedProjects(), projects)
}

func TestUserFilters(t *testing.T) {
	users := []models.User{
		{ID: "u1", FullName: "Ada Lovelace", Email: "ada@example.com", Role: models.RoleMentor},
		{ID: "u2", FullName: "Grace Hopper", Email: "grace@example.com", Role: models.RoleMentor, Disabled: true},
		{ID: "u3", FullName: "Alan Turing", Email: "alan@example.com", Role: models.RoleLearner},
	}

	f := UserFilters{Role: models.RoleMentor, Tab: UserTabDisabled}
	require.Equal(t, api.UsersArgs{Role: models.RoleMentor}, f.ServerParams())

	got := f.Pipeline().Apply(users)
	require.Len(t, got, 1)
	require.Equal(t, "u2", got[0].ID)

	got = UserFilters{Search: "EXAMPLE.COM", Tab: UserTabActive}.Pipeline().Apply(users)
	require.Len(t, got, 2)
}

func TestSessionTabs(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) models.Timestamp { return models.Timestamp{Time: now.Add(d)} }

	sessions := []models.Session{
		{ID: "s1", Status: models.SessionAccepted, ScheduledAt: at(time.Hour)},
		{ID: "s2", Status: models.SessionCompleted, ScheduledAt: at(-time.Hour)},
		{ID: "s3", Status: models.SessionCancelled, ScheduledAt: at(2 * time.Hour)},
	}

	upcoming := SessionFilters{Tab: SessionTabUpcoming, Now: now}.Pipeline().Apply(sessions)
	require.Len(t, upcoming, 1)
	require.Equal(t, "s1", upcoming[0].ID)

	past := SessionFilters{Tab: SessionTabPast, Now: now}.Pipeline().Apply(sessions)
	require.Len(t, past, 2)

	stats := NewSessionStats(sessions, now)
	require.Equal(t, 1, stats.Upcoming)
	require.Equal(t, 2, stats.Past)
}

func TestProjectStats(t *testing.T) {
	stats := NewProjectStats(fetchedProjects())
	require.Equal(t, 5, stats.Total)
	require.Equal(t, 2, stats.ByStatus[models.ProjectActive])
	require.InDelta(t, 44.0, stats.AverageProgress, 0.001)

	empty := NewProjectStats(nil)
	require.Zero(t, empty.AverageProgress)
}

func TestContactAndApplicationStats(t *testing.T) {
	contacts := NewContactStats([]models.Contact{
		{Status: models.ContactNew, Type: models.ContactLearner},
		{Status: models.ContactInProgress, Type: models.ContactBusiness},
		{Status: models.ContactClosed, Type: models.ContactLearner},
	})
	require.Equal(t, 2, contacts.Open())
	require.Equal(t, 2, contacts.ByType[models.ContactLearner])

	apps := NewApplicationStats([]models.Application{
		{Status: models.ApplicationPending},
		{Status: models.ApplicationReviewing},
		{Status: models.ApplicationApproved},
	})
	require.Equal(t, 2, apps.AwaitingReview())
}

func TestUserStats(t *testing.T) {
	stats := NewUserStats([]models.User{
		{Role: models.RoleAdmin},
		{Role: models.RoleLearner, Disabled: true},
		{Role: models.RoleLearner},
	})
	require.Equal(t, 2, stats.Active)
	require.Equal(t, 1, stats.Disabled)
	require.Equal(t, 2, stats.ByRole[models.RoleLearner])
}

func TestSortProjects(t *testing.T) {
	projects := fetchedProjects()

	byTitle := SortProjects(projects, SortTitle)
	require.Equal(t, "Budget bot", byTitle[0].Title)
	require.Equal(t, "Quiz engine", byTitle[4].Title)

	byProgress := SortProjects(projects, SortProgress)
	require.Equal(t, "p2", byProgress[0].ID)

	require.Equal(t, projects, SortProjects(projects, "unknown"))
	require.Equal(t, "p1", projects[0].ID, "input is not reordered")
}

func TestPlainText(t *testing.T) {
	require.Equal(t, "Hello world & friends", PlainText("<p>Hello <b>world</b></p>\n<script>alert(1)</script>&amp; friends"))
	require.Equal(t, "Hello…", Excerpt("<p>Hello world</p>", 6))
	require.Equal(t, "Hi", Excerpt("Hi", 10))
}

func TestLabelAndFormatting(t *testing.T) {
	require.Equal(t, "In Progress", Label("in_progress"))
	require.Equal(t, "", Label(""))
	require.Equal(t, "42.5%", Percent(42.5))
	require.Equal(t, "100%", Percent(140))

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "3 days ago", Ago(now.Add(-72*time.Hour), now))
	require.Equal(t, "never", Ago(time.Time{}, now))
}
