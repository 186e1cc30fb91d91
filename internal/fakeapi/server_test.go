package fakeapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mentorhub/internal/api"
	"github.com/wolfeidau/mentorhub/internal/auth"
	"github.com/wolfeidau/mentorhub/internal/client"
	"github.com/wolfeidau/mentorhub/internal/models"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type testServer struct {
	*httptest.Server
	store *Store
	seed  *Seeded
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, seed := seeded(t)
	v, err := auth.NewVerifier(testSecret)
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(store, Options{Verifier: v, Logger: zerolog.Nop()}))
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, store: store, seed: seed}
}

func (ts *testServer) token(t *testing.T, u models.User) string {
	t.Helper()
	tok, err := auth.IssueToken(testSecret, u, time.Hour)
	require.NoError(t, err)
	return tok
}

func (ts *testServer) do(t *testing.T, method, path, token, body string, header ...string) *http.Response {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rdr)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func message(t *testing.T, res *http.Response) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body.Message
}

func TestHealthzNeedsNoToken(t *testing.T) {
	ts := newTestServer(t)

	res := ts.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotEmpty(t, res.Header.Get("X-Request-Id"))
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	ts := newTestServer(t)

	res := ts.do(t, http.MethodGet, "/api/projects", "", "")
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	require.Equal(t, "missing bearer token", message(t, res))
}

func TestRoleGuards(t *testing.T) {
	ts := newTestServer(t)
	learner := ts.token(t, ts.seed.Learner)

	res := ts.do(t, http.MethodGet, "/api/users", learner, "")
	require.Equal(t, http.StatusForbidden, res.StatusCode)
	require.Equal(t, "You do not have permission to perform this action", message(t, res))

	res = ts.do(t, http.MethodPost, "/api/projects", learner, `{"title":"Sneaky"}`)
	require.Equal(t, http.StatusForbidden, res.StatusCode)

	res = ts.do(t, http.MethodGet, "/api/users", ts.token(t, ts.seed.Admin), "")
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestUnknownRouteIsJSON(t *testing.T) {
	ts := newTestServer(t)

	res := ts.do(t, http.MethodGet, "/api/nowhere", ts.token(t, ts.seed.Admin), "")
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	require.Equal(t, "Route not found", message(t, res))
}

func TestStoreErrorsKeepTheirMessage(t *testing.T) {
	ts := newTestServer(t)
	learner := ts.token(t, ts.seed.Learner)

	res := ts.do(t, http.MethodPost, "/api/learning-paths/"+ts.seed.Path.ID+"/enroll", learner, "")
	require.Equal(t, http.StatusConflict, res.StatusCode)
	require.Equal(t, "You are already enrolled in this learning path", message(t, res))

	res = ts.do(t, http.MethodGet, "/api/projects/missing", learner, "")
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	require.Equal(t, "Project not found", message(t, res))

	res = ts.do(t, http.MethodPost, "/api/communications/messages", learner, `{"toId":`)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Contains(t, message(t, res), "Invalid JSON body")
}

func TestBulkRejectsEmptyIDs(t *testing.T) {
	ts := newTestServer(t)

	res := ts.do(t, http.MethodPost, "/api/users/bulk/status", ts.token(t, ts.seed.Admin), `{"userIds":[],"disabled":true}`)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, "userIds must not be empty", message(t, res))
}

func TestETagRevalidation(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, ts.seed.Admin)

	res := ts.do(t, http.MethodGet, "/api/projects", admin, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	etag := res.Header.Get("ETag")
	require.NotEmpty(t, etag)
	require.Equal(t, "private, no-cache", res.Header.Get("Cache-Control"))

	res = ts.do(t, http.MethodGet, "/api/projects", admin, "", "If-None-Match", etag)
	require.Equal(t, http.StatusNotModified, res.StatusCode)

	_, err := ts.store.JoinProject(Principal(ts.seed.Newcomer), ts.seed.Project.ID)
	require.NoError(t, err)

	res = ts.do(t, http.MethodGet, "/api/projects", admin, "", "If-None-Match", etag)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotEqual(t, etag, res.Header.Get("ETag"))
}

func newAPI(t *testing.T, ts *testServer, u models.User) *api.API {
	t.Helper()

	cfg := client.DefaultConfig()
	cfg.BaseURL = ts.URL + "/api"
	cfg.RetryInterval = time.Millisecond
	cfg.RateLimit = 0
	cfg.Token = ts.token(t, u)

	c, err := client.New(cfg, client.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	return api.New(c, nil)
}

func TestBulkToggleEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	a := newAPI(t, ts, ts.seed.Admin)
	ctx := context.Background()

	res, err := a.BulkToggleUserStatus(ctx, api.BulkUserStatusArgs{
		UserIDs:  []string{ts.seed.Learner.ID, ts.seed.Admin.ID},
		Disabled: true,
	})
	require.NoError(t, err)
	require.Equal(t, []string{ts.seed.Learner.ID}, res.Results.Success)
	require.Len(t, res.Results.Failed, 1)
	require.Equal(t, ts.seed.Admin.ID, res.Results.Failed[0].ID)

	disabled := true
	users, err := a.GetUsers(ctx, api.UsersArgs{Disabled: &disabled})
	require.NoError(t, err)
	require.Len(t, users.Users, 2)
}

func TestMutationRefreshesCachedQuery(t *testing.T) {
	ts := newTestServer(t)
	learner := newAPI(t, ts, ts.seed.Learner)
	ctx := context.Background()

	before, err := learner.GetUserInvitations(ctx, api.UserInvitationsArgs{Status: models.InvitationPending})
	require.NoError(t, err)
	require.Len(t, before.Invitations, 1)

	_, err = learner.RespondToInvitation(ctx, api.RespondToInvitationArgs{InvitationID: before.Invitations[0].ID, Accept: true})
	require.NoError(t, err)

	after, err := learner.GetUserInvitations(ctx, api.UserInvitationsArgs{Status: models.InvitationPending})
	require.NoError(t, err)
	require.Empty(t, after.Invitations)

	members, err := learner.GetWorkspaceMembers(ctx, ts.seed.Workspace.ID)
	require.NoError(t, err)
	require.Len(t, members.Members, 2)
}

func TestForbiddenSurfacesThroughClient(t *testing.T) {
	ts := newTestServer(t)
	a := newAPI(t, ts, ts.seed.Learner)

	_, err := a.GetUsers(context.Background(), api.UsersArgs{})
	require.Error(t, err)
	require.Equal(t, http.StatusForbidden, client.StatusOf(err))
	require.Equal(t, "You do not have permission to perform this action", client.MessageOf(err, ""))
}
