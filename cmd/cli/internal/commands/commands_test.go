package commands

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mentorhub/internal/auth"
	"github.com/wolfeidau/mentorhub/internal/fakeapi"
	"github.com/wolfeidau/mentorhub/internal/models"
)

var testSecret = []byte("commands-test-secret-0123456789ab")

type env struct {
	apiURL string
	store  *fakeapi.Store
	seed   *fakeapi.Seeded
	dir    string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	t.Setenv("MENTORHUB_TOKEN", "")
	t.Setenv("MENTORHUB_MAX_RETRIES", "0")
	t.Setenv("MENTORHUB_RATE_LIMIT", "0")

	store := fakeapi.NewStore()
	seed, err := fakeapi.Seed(store)
	require.NoError(t, err)

	v, err := auth.NewVerifier(testSecret)
	require.NoError(t, err)

	srv := httptest.NewServer(fakeapi.NewRouter(store, fakeapi.Options{Verifier: v, Logger: zerolog.Nop()}))
	t.Cleanup(srv.Close)

	return &env{apiURL: srv.URL + "/api", store: store, seed: seed, dir: t.TempDir()}
}

func (e *env) token(t *testing.T, u models.User) string {
	t.Helper()
	tok, err := auth.IssueToken(testSecret, u, time.Hour)
	require.NoError(t, err)
	return tok
}

// as returns globals authenticated directly with u's token.
func (e *env) as(t *testing.T, u models.User, input string) (*Globals, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	return &Globals{
		APIURL:      e.apiURL,
		Token:       e.token(t, u),
		ProfilesDir: e.dir,
		Out:         out,
		In:          strings.NewReader(input),
	}, out
}

func TestProfilesLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	out := &bytes.Buffer{}
	g := &Globals{ProfilesDir: e.dir, Out: out}

	add := &ProfilesAddCmd{Name: "local", APIURL: e.apiURL, Token: e.token(t, e.seed.Admin)}
	require.NoError(t, add.Run(ctx, g))
	require.Contains(t, out.String(), "Added profile: local")
	require.Contains(t, out.String(), e.seed.Admin.ID)

	err := add.Run(ctx, g)
	require.ErrorContains(t, err, `profile "local" already exists`)

	out.Reset()
	require.NoError(t, (&ProfilesListCmd{}).Run(ctx, g))
	require.Contains(t, out.String(), "local")
	require.Contains(t, out.String(), "*")

	out.Reset()
	require.NoError(t, (&ProfilesShowCmd{Name: "local"}).Run(ctx, g))
	require.Contains(t, out.String(), "Role:         admin")

	require.ErrorContains(t, (&ProfilesShowCmd{Name: "nope"}).Run(ctx, g), `profile "nope" not found`)

	out.Reset()
	g.In = strings.NewReader("n\n")
	require.NoError(t, (&ProfilesDeleteCmd{Name: "local"}).Run(ctx, g))
	require.Contains(t, out.String(), "Cancelled.")

	out.Reset()
	g.In = strings.NewReader("y\n")
	require.NoError(t, (&ProfilesDeleteCmd{Name: "local"}).Run(ctx, g))
	require.Contains(t, out.String(), "Deleted profile: local")

	out.Reset()
	require.NoError(t, (&ProfilesListCmd{}).Run(ctx, g))
	require.Contains(t, out.String(), "No profiles found.")
}

func TestDefaultProfileAuthenticatesRequests(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	out := &bytes.Buffer{}
	g := &Globals{ProfilesDir: e.dir, Out: out}

	require.NoError(t, (&ProfilesAddCmd{Name: "local", APIURL: e.apiURL, Token: e.token(t, e.seed.Admin)}).Run(ctx, g))

	out.Reset()
	require.NoError(t, (&UsersListCmd{Tab: "all", Page: 1, Limit: 20}).Run(ctx, g))
	require.Contains(t, out.String(), "Linus Learner")
	require.Contains(t, out.String(), "1 disabled")
}

func TestMissingProfileIsReported(t *testing.T) {
	e := newEnv(t)

	g := &Globals{ProfilesDir: e.dir, Profile: "staging", Out: &bytes.Buffer{}}
	_, err := g.API()
	require.ErrorContains(t, err, `profile "staging" not found`)
}

func TestUsersListFiltersByTab(t *testing.T) {
	e := newEnv(t)
	g, out := e.as(t, e.seed.Admin, "")

	require.NoError(t, (&UsersListCmd{Tab: "disabled", Page: 1, Limit: 20}).Run(context.Background(), g))
	require.Contains(t, out.String(), "Dormant Dana")
	require.NotContains(t, out.String(), "Linus Learner")
}

func TestUsersListForbiddenForLearner(t *testing.T) {
	e := newEnv(t)
	g, _ := e.as(t, e.seed.Learner, "")

	err := (&UsersListCmd{Tab: "all", Page: 1, Limit: 20}).Run(context.Background(), g)
	require.Error(t, err)
}

func TestUsersBulkDisableDeclined(t *testing.T) {
	e := newEnv(t)
	g, out := e.as(t, e.seed.Admin, "n\n")

	cmd := &UsersBulkDisableCmd{BulkUsersFlags{UserIDs: []string{e.seed.Learner.ID, e.seed.Newcomer.ID}}}
	require.NoError(t, cmd.Run(context.Background(), g))
	require.Contains(t, out.String(), "Disable 2 user(s)?")
	require.Contains(t, out.String(), "Cancelled.")

	u, err := e.store.User(e.seed.Learner.ID)
	require.NoError(t, err)
	require.False(t, u.Disabled)
}

func TestUsersBulkDisableConfirmed(t *testing.T) {
	e := newEnv(t)
	g, out := e.as(t, e.seed.Admin, "y\n")

	cmd := &UsersBulkDisableCmd{BulkUsersFlags{UserIDs: []string{e.seed.Learner.ID, e.seed.Newcomer.ID}}}
	require.NoError(t, cmd.Run(context.Background(), g))
	require.Contains(t, out.String(), "✓ 2 users disabled")

	for _, id := range []string{e.seed.Learner.ID, e.seed.Newcomer.ID} {
		u, err := e.store.User(id)
		require.NoError(t, err)
		require.True(t, u.Disabled)
	}
}

func TestUsersBulkDisablePartialFailure(t *testing.T) {
	e := newEnv(t)
	g, out := e.as(t, e.seed.Admin, "")

	cmd := &UsersBulkDisableCmd{BulkUsersFlags{UserIDs: []string{e.seed.Learner.ID, e.seed.Admin.ID}, Yes: true}}
	err := cmd.Run(context.Background(), g)
	require.ErrorContains(t, err, "1 of 2 failed")
	require.Contains(t, out.String(), "! 1 user disabled, 1 failed")
	require.Contains(t, out.String(), "You cannot change the status of your own account")
}

func TestProjectsCreateFromFile(t *testing.T) {
	e := newEnv(t)
	g, out := e.as(t, e.seed.Mentor, "")

	path := filepath.Join(t.TempDir(), "project.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
title: Robot Arm
description: Build and program a small arm
category: hardware
level: intermediate
maxMembers: 3
startDate: "2026-01-05"
endDate: "2026-03-01"
`), 0o600))

	require.NoError(t, (&ProjectsCreateCmd{File: path}).Run(context.Background(), g))
	require.Contains(t, out.String(), "✓ Project created")
	require.Contains(t, out.String(), "ID: ")

	res := e.store.Projects(fakeapi.ProjectFilter{})
	var found *models.Project
	for i := range res.Projects {
		if res.Projects[i].Title == "Robot Arm" {
			found = &res.Projects[i]
		}
	}
	require.NotNil(t, found)
	require.Equal(t, 3, found.MaxMembers)
	require.Equal(t, "intermediate", found.Level)
}

func TestProjectsCreateValidatesEachStep(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	g, _ := e.as(t, e.seed.Mentor, "")

	err := (&ProjectsCreateCmd{}).Run(ctx, g)
	require.ErrorContains(t, err, "basics: title is required")

	err = (&ProjectsCreateCmd{Title: "Robot Arm", Level: "expert"}).Run(ctx, g)
	require.ErrorContains(t, err, "details: level must be one of")

	err = (&ProjectsCreateCmd{Title: "Robot Arm", Start: "2026-03-01", End: "2026-01-01"}).Run(ctx, g)
	require.ErrorContains(t, err, "timeline: end date must not be before start date")
}

func TestProjectsCreateInteractive(t *testing.T) {
	e := newEnv(t)

	// An empty title fails the first step and the prompt repeats; "<" goes
	// back from details to basics.
	input := strings.Join([]string{
		"", "",
		"Robot Arm", "",
		"<",
		"", "",
		"hardware", "beginner", "4",
		"", "",
	}, "\n") + "\n"
	g, out := e.as(t, e.seed.Mentor, input)

	require.NoError(t, (&ProjectsCreateCmd{Interactive: true}).Run(context.Background(), g))
	require.Contains(t, out.String(), "basics: title is required")
	require.Contains(t, out.String(), "Step 3/3: timeline")
	require.Contains(t, out.String(), "✓ Project created")
}

func TestProjectsCreateRejectsDuplicateTitle(t *testing.T) {
	e := newEnv(t)
	g, out := e.as(t, e.seed.Mentor, "")

	err := (&ProjectsCreateCmd{Title: e.seed.Project.Title}).Run(context.Background(), g)
	require.Error(t, err)
	require.Contains(t, out.String(), "✗ ")
}

func TestContactsStatusThroughModal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	g, out := e.as(t, e.seed.Admin, "")

	contacts := e.store.Contacts(fakeapi.ContactFilter{Status: models.ContactNew})
	require.NotEmpty(t, contacts.Contacts)
	id := contacts.Contacts[0].ID

	require.NoError(t, (&ContactsStatusCmd{ContactID: id, Status: "resolved", Notes: "Sent the brochure"}).Run(ctx, g))
	require.Contains(t, out.String(), "✓ Contact marked Resolved")

	c, err := e.store.Contact(id)
	require.NoError(t, err)
	require.Equal(t, models.ContactResolved, c.Status)
	require.Equal(t, "Sent the brochure", c.Notes)

	err = (&ContactsStatusCmd{ContactID: "missing", Status: "resolved"}).Run(ctx, g)
	require.EqualError(t, err, "Contact not found")
}

func TestContactsDeleteDeclined(t *testing.T) {
	e := newEnv(t)
	g, out := e.as(t, e.seed.Admin, "no\n")

	id := e.store.Contacts(fakeapi.ContactFilter{}).Contacts[0].ID
	require.NoError(t, (&ContactsDeleteCmd{ContactID: id}).Run(context.Background(), g))
	require.Contains(t, out.String(), "Cancelled.")

	_, err := e.store.Contact(id)
	require.NoError(t, err)
}

func TestEndpointsPrintsInvalidationGraph(t *testing.T) {
	out := &bytes.Buffer{}
	g := &Globals{Out: out}

	require.NoError(t, (&EndpointsCmd{}).Run(context.Background(), g))
	require.Contains(t, out.String(), "getUsers")
	require.Contains(t, out.String(), "bulkToggleUserStatus -> ")

	out.Reset()
	require.NoError(t, (&EndpointsCmd{Graph: true}).Run(context.Background(), g))
	require.NotContains(t, out.String(), "NAME")
	require.Contains(t, out.String(), "updateUserStatus -> ")
}

func TestAdminDashboard(t *testing.T) {
	e := newEnv(t)
	g, out := e.as(t, e.seed.Admin, "")

	require.NoError(t, (&DashboardAdminCmd{}).Run(context.Background(), g))
	require.Contains(t, out.String(), "5 total, 4 active, 1 disabled")
	require.Contains(t, out.String(), "2 open")
	require.Contains(t, out.String(), "1 workspaces")
}

func TestLearnerDashboardSectionsFailIndependently(t *testing.T) {
	e := newEnv(t)
	g, out := e.as(t, e.seed.Learner, "")

	require.NoError(t, (&DashboardLearnerCmd{}).Run(context.Background(), g))
	require.Contains(t, out.String(), "My projects\n  "+e.seed.Project.Title)
	require.Contains(t, out.String(), "Invitations\n  ")
	require.NotContains(t, out.String(), "unavailable")
}

func TestWorkspacesMembers(t *testing.T) {
	e := newEnv(t)
	g, out := e.as(t, e.seed.Mentor, "")

	require.NoError(t, (&WorkspacesMembersCmd{WorkspaceID: e.seed.Workspace.ID}).Run(context.Background(), g))
	require.Contains(t, out.String(), "Grace Mentor")
}
