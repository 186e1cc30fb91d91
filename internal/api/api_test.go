package api

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mentorhub/internal/cache"
	"github.com/wolfeidau/mentorhub/internal/client"
	"github.com/wolfeidau/mentorhub/internal/models"
)

type recordedPost struct {
	path string
	body any
}

type fakeDoer struct {
	mu        sync.Mutex
	gets      []string
	posts     []recordedPost
	responses map[string]string
	getErr    error
	postErr   error
}

func newFakeDoer() *fakeDoer {
	return &fakeDoer{responses: map[string]string{}}
}

func (f *fakeDoer) Get(_ context.Context, path string, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gets = append(f.gets, path)
	if f.getErr != nil {
		return f.getErr
	}
	body, ok := f.responses[path]
	if !ok {
		body = "{}"
	}
	return json.Unmarshal([]byte(body), out)
}

func (f *fakeDoer) Post(_ context.Context, path string, body, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.posts = append(f.posts, recordedPost{path: path, body: body})
	if f.postErr != nil {
		return f.postErr
	}
	data, ok := f.responses[path]
	if !ok {
		data = "{}"
	}
	return json.Unmarshal([]byte(data), out)
}

func (f *fakeDoer) getCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.gets)
}

func TestCancelInvitationInvalidatesInvitationTagsOnly(t *testing.T) {
	cancel := cache.Strings(CancelInvitation.Tags("abc", nil))
	require.Equal(t, []string{"Invitation:LIST", "Invitation:USER"}, cancel)
	require.NotContains(t, cancel, "WorkspaceMember:LIST")

	respond := cache.Strings(RespondToInvitation.Tags(RespondToInvitationArgs{InvitationID: "abc", Accept: true}, nil))
	require.Subset(t, respond, cancel)
	require.Greater(t, len(respond), len(cancel))
}

func TestRespondToInvitationInvalidatesMembership(t *testing.T) {
	tags := RespondToInvitation.Tags(RespondToInvitationArgs{InvitationID: "abc", Accept: true}, nil)
	require.Equal(t, []string{
		"Invitation:LIST",
		"Invitation:USER",
		"Workspace:LIST",
		"WorkspaceMember:LIST",
	}, cache.Strings(tags))
}

func TestWorkspaceInvitationsPath(t *testing.T) {
	tests := []struct {
		name string
		args WorkspaceInvitationsArgs
		want string
	}{
		{name: "no status", args: WorkspaceInvitationsArgs{WorkspaceID: "w1"}, want: "/workspacesInvites/w1/invitations"},
		{name: "status", args: WorkspaceInvitationsArgs{WorkspaceID: "w1", Status: models.InvitationPending}, want: "/workspacesInvites/w1/invitations?status=pending"},
		{name: "paged", args: WorkspaceInvitationsArgs{WorkspaceID: "w1", Page: 2, Limit: 20}, want: "/workspacesInvites/w1/invitations?limit=20&page=2"},
		{name: "escaped id", args: WorkspaceInvitationsArgs{WorkspaceID: "a/b"}, want: "/workspacesInvites/a%2Fb/invitations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GetWorkspaceInvitations.Path(tt.args))
		})
	}
}

func TestUserInvitationsDefaultsToPending(t *testing.T) {
	require.Equal(t, "/invitations/user?status=pending", GetUserInvitations.Path(UserInvitationsArgs{}))
	require.Equal(t, "/invitations/user?status=accepted", GetUserInvitations.Path(UserInvitationsArgs{Status: models.InvitationAccepted}))
}

func mustKey[A, R any](t *testing.T, q Query[A, R], args A) cache.Key {
	t.Helper()
	key, err := q.Key(args)
	require.NoError(t, err)
	return key
}

func TestUserInvitationsDefaultShareCacheEntry(t *testing.T) {
	ctx := context.Background()
	doer := newFakeDoer()
	doer.responses["/invitations/user?status=pending"] = `{"invitations":[]}`
	a := New(doer, nil)

	_, err := a.GetUserInvitations(ctx, UserInvitationsArgs{})
	require.NoError(t, err)
	_, err = a.GetUserInvitations(ctx, UserInvitationsArgs{Status: models.InvitationPending})
	require.NoError(t, err)
	require.Equal(t, 1, doer.getCount())
	require.Len(t, a.Cache().Entries(), 1)

	require.Equal(t,
		mustKey(t, GetUserInvitations, UserInvitationsArgs{}),
		mustKey(t, GetUserInvitations, UserInvitationsArgs{Status: models.InvitationPending}))
}

func TestWorkspaceInvitationsProvidesWorkspaceTag(t *testing.T) {
	tags := GetWorkspaceInvitations.tags(WorkspaceInvitationsArgs{WorkspaceID: "w1"}, nil)
	require.Equal(t, []string{"Invitation:LIST", "Workspace:w1"}, cache.Strings(tags))

	created := CreateInvitation.Tags(CreateInvitationArgs{WorkspaceID: "w1"}, nil)
	require.True(t, cache.Intersects(created, tags))
}

func TestMutationInvalidatesIntersectingQueries(t *testing.T) {
	ctx := context.Background()
	doer := newFakeDoer()
	doer.responses["/invitations/user?status=pending"] = `{"invitations":[{"id":"abc","status":"pending"}]}`
	a := New(doer, nil)

	res, err := a.GetUserInvitations(ctx, UserInvitationsArgs{})
	require.NoError(t, err)
	require.Len(t, res.Invitations, 1)

	_, err = a.GetUsers(ctx, UsersArgs{})
	require.NoError(t, err)

	_, err = a.GetUserInvitations(ctx, UserInvitationsArgs{})
	require.NoError(t, err)
	require.Equal(t, 2, doer.getCount(), "second query is served from cache")

	_, err = a.RespondToInvitation(ctx, RespondToInvitationArgs{InvitationID: "abc", Accept: true})
	require.NoError(t, err)

	snap, err := a.Cache().Peek(mustKey(t, GetUserInvitations, UserInvitationsArgs{}))
	require.NoError(t, err)
	require.True(t, snap.Stale)

	users, err := a.Cache().Peek(cache.MustKey(GetUsers.Name, UsersArgs{}))
	require.NoError(t, err)
	require.False(t, users.Stale, "users do not provide invitation tags")

	_, err = a.GetUserInvitations(ctx, UserInvitationsArgs{})
	require.NoError(t, err)
	require.Equal(t, 3, doer.getCount())
}

func TestFailedMutationLeavesCacheFresh(t *testing.T) {
	ctx := context.Background()
	doer := newFakeDoer()
	a := New(doer, nil)

	_, err := a.GetUserInvitations(ctx, UserInvitationsArgs{})
	require.NoError(t, err)

	doer.postErr = &client.Error{Kind: client.KindHTTP, Status: 409, Message: "Invitation already accepted"}
	_, err = a.CancelInvitation(ctx, "abc")
	require.Error(t, err)
	require.Equal(t, "Invitation already accepted", client.MessageOf(err, "Failed to cancel invitation"))

	snap, err := a.Cache().Peek(mustKey(t, GetUserInvitations, UserInvitationsArgs{}))
	require.NoError(t, err)
	require.False(t, snap.Stale)
}

func TestValidationFailsBeforeRequest(t *testing.T) {
	doer := newFakeDoer()
	a := New(doer, nil)

	_, err := a.CreateInvitation(context.Background(), CreateInvitationArgs{WorkspaceID: "w1", Role: models.WorkspaceRoleMember})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "invitee", verr.Field)
	require.Equal(t, "invitee needs an email or a user id", client.MessageOf(err, "fallback"))
	require.Empty(t, doer.posts)
}

func TestCreateInvitationBody(t *testing.T) {
	doer := newFakeDoer()
	a := New(doer, nil)

	_, err := a.CreateInvitation(context.Background(), CreateInvitationArgs{
		WorkspaceID: "w1",
		Email:       "sam@example.com",
		Role:        models.WorkspaceRoleMentor,
	})
	require.NoError(t, err)
	require.Len(t, doer.posts, 1)
	require.Equal(t, "/workspacesInvites/w1/invitations", doer.posts[0].path)

	data, err := json.Marshal(doer.posts[0].body)
	require.NoError(t, err)
	require.JSONEq(t, `{"email":"sam@example.com","role":"mentor"}`, string(data))
}

func TestQueryErrorKeepsTagsForInvalidation(t *testing.T) {
	ctx := context.Background()
	doer := newFakeDoer()
	doer.getErr = errors.New("boom")
	a := New(doer, nil)

	_, err := a.GetProjects(ctx, ProjectsArgs{})
	require.Error(t, err)

	key := cache.MustKey(GetProjects.Name, ProjectsArgs{})
	snap, err := a.Cache().Peek(key)
	require.NoError(t, err)
	require.Equal(t, cache.StatusRejected, snap.Status)

	affected := a.Cache().Invalidate(ctx, CreateProject.Tags(CreateProjectArgs{Title: "x"}, nil)...)
	require.Equal(t, []cache.Key{key}, affected)
}

func TestBulkMutationTags(t *testing.T) {
	status := BulkToggleUserStatus.Tags(BulkUserStatusArgs{UserIDs: []string{"u1", "u2"}, Disabled: true}, nil)
	require.Equal(t, []string{"User:LIST", "User:u1", "User:u2"}, cache.Strings(status))

	del := BulkDeleteUsers.Tags(BulkDeleteUsersArgs{UserIDs: []string{"u1"}}, nil)
	require.Equal(t, []string{"User:LIST", "User:u1", "WorkspaceMember:LIST"}, cache.Strings(del))

	require.Error(t, BulkDeleteUsers.Validate(BulkDeleteUsersArgs{}))
	require.Error(t, BulkDeleteUsers.Validate(BulkDeleteUsersArgs{UserIDs: []string{"u1", " "}}))
}

func TestUpdateTaskStatusInvalidatesProgress(t *testing.T) {
	tags := UpdateTaskStatus.Tags(UpdateTaskStatusArgs{ProjectID: "p1", TaskID: "t1", Status: models.TaskDone}, nil)
	require.Equal(t, []string{"Project:LIST", "Project:p1", "ProjectArea:p1", "Task:t1"}, cache.Strings(tags))
	require.Equal(t, "/projects/p1/tasks/t1/status", UpdateTaskStatus.Path(UpdateTaskStatusArgs{ProjectID: "p1", TaskID: "t1"}))
}

func TestReviewApplicationApprovalInvalidatesUsers(t *testing.T) {
	approved := ReviewApplication.Tags(ReviewApplicationArgs{ApplicationID: "a1", Status: models.ApplicationApproved}, nil)
	assert.Contains(t, cache.Strings(approved), "User:LIST")

	rejected := ReviewApplication.Tags(ReviewApplicationArgs{ApplicationID: "a1", Status: models.ApplicationRejected}, nil)
	assert.NotContains(t, cache.Strings(rejected), "User:LIST")
}

func TestUsersPathAndProvides(t *testing.T) {
	disabled := true
	require.Equal(t, "/users?disabled=true&role=mentor", GetUsers.Path(UsersArgs{Role: models.RoleMentor, Disabled: &disabled}))
	require.Equal(t, "/users", GetUsers.Path(UsersArgs{}))

	res := &models.UsersResponse{Users: []models.User{{ID: "u1"}, {ID: "u2"}}}
	require.Equal(t, []string{"User:LIST", "User:u1", "User:u2"}, cache.Strings(GetUsers.tags(UsersArgs{}, res)))
}

func TestSessionStatusRequiresReasonWhenRejecting(t *testing.T) {
	err := UpdateSessionStatus.Validate(UpdateSessionStatusArgs{SessionID: "s1", Status: models.SessionRejected})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "reason", verr.Field)

	require.NoError(t, UpdateSessionStatus.Validate(UpdateSessionStatusArgs{SessionID: "s1", Status: models.SessionAccepted}))
}

func TestRevalidationUsesFreshFetch(t *testing.T) {
	ctx := context.Background()
	doer := newFakeDoer()
	a := New(doer, nil)

	_, err := a.GetContacts(ctx, ContactsArgs{})
	require.NoError(t, err)
	_, err = Refetch(ctx, a, GetContacts, ContactsArgs{})
	require.NoError(t, err)
	require.Equal(t, 2, doer.getCount())
}

func TestEndpointsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, ep := range Endpoints() {
		require.False(t, seen[ep.Name], "duplicate endpoint %s", ep.Name)
		seen[ep.Name] = true
		require.NotEmpty(t, ep.Template, ep.Name)
		if ep.Kind == KindQuery {
			require.NotEmpty(t, ep.Tags, "%s provides no tags", ep.Name)
		}
	}
}

func TestGraphReflectsBlastRadius(t *testing.T) {
	graph := Graph()

	require.ElementsMatch(t, []string{"getUserInvitations", "getWorkspaceInvitations"}, graph["cancelInvitation"])
	require.Contains(t, graph["createInvitation"], "getWorkspaceJoinRequests", "workspace tag is shared")
	require.Contains(t, graph["updateTaskStatus"], "getProjectAreas")
	require.Contains(t, graph["updateTaskStatus"], "getProjects")
	require.NotContains(t, graph["respondToInvitation"], "getUsers")
	require.Contains(t, graph["updateUserStatus"], "getUser")
}

func TestAcceptingInvitationRefreshesWorkspaces(t *testing.T) {
	graph := Graph()

	require.Contains(t, graph["respondToInvitation"], "getWorkspaces")
	require.Contains(t, graph["respondToInvitation"], "getWorkspaceMembers")
	require.Contains(t, graph["respondToJoinRequest"], "getWorkspaceMembers")
	require.NotContains(t, graph["cancelInvitation"], "getWorkspaces")
}

func TestWorkspaceMembersPath(t *testing.T) {
	doer := newFakeDoer()
	a := New(doer, nil)

	_, err := a.GetWorkspaceMembers(context.Background(), "ws 1")
	require.NoError(t, err)
	require.Equal(t, []string{"/workspacesInvites/ws%201/members"}, doer.gets)

	tags := GetWorkspaceMembers.Provides("ws-1", nil)
	require.ElementsMatch(t, []cache.Tag{cache.ListTag(TagWorkspaceMember), cache.IDTag(TagWorkspace, "ws-1")}, tags)
}
