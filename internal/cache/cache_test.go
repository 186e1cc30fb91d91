package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type counter struct {
	calls atomic.Int32
}

func (c *counter) fetch(value any, tags ...Tag) FetchFunc {
	return func(ctx context.Context) (any, []Tag, error) {
		c.calls.Add(1)
		return value, tags, nil
	}
}

func TestQueryCachesFreshValue(t *testing.T) {
	ctx := context.Background()
	c := New()
	key := MustKey("getProjects", map[string]string{"status": "active"})

	var cnt counter
	v, err := c.Query(ctx, key, cnt.fetch("first", ListTag("Project")))
	require.NoError(t, err)
	require.Equal(t, "first", v)

	v, err = c.Query(ctx, key, cnt.fetch("second", ListTag("Project")))
	require.NoError(t, err)
	require.Equal(t, "first", v, "fresh entry must be served from cache")
	require.Equal(t, int32(1), cnt.calls.Load())
}

func TestInvalidateMarksIntersectingEntriesStale(t *testing.T) {
	ctx := context.Background()
	c := New()

	invitations := MustKey("getWorkspaceInvitations", map[string]string{"workspaceId": "w1"})
	members := MustKey("getWorkspaceMembers", map[string]string{"workspaceId": "w1"})
	users := MustKey("getUsers", nil)

	var cnt counter
	_, err := c.Query(ctx, invitations, cnt.fetch("inv", ListTag("Invitation"), IDTag("Workspace", "w1")))
	require.NoError(t, err)
	_, err = c.Query(ctx, members, cnt.fetch("mem", ListTag("WorkspaceMember")))
	require.NoError(t, err)
	_, err = c.Query(ctx, users, cnt.fetch("usr", ListTag("User")))
	require.NoError(t, err)
	require.Equal(t, int32(3), cnt.calls.Load())

	affected := c.Invalidate(ctx, ListTag("Invitation"), UserTag("Invitation"))
	require.Equal(t, []Key{invitations}, affected)

	snap, err := c.Peek(invitations)
	require.NoError(t, err)
	require.True(t, snap.Stale)
	require.Equal(t, "inv", snap.Value, "stale data stays readable")

	snap, err = c.Peek(members)
	require.NoError(t, err)
	require.False(t, snap.Stale)

	// Next access refetches only the stale entry.
	v, err := c.Query(ctx, invitations, cnt.fetch("inv2", ListTag("Invitation")))
	require.NoError(t, err)
	require.Equal(t, "inv2", v)
	_, err = c.Query(ctx, members, cnt.fetch("mem2", ListTag("WorkspaceMember")))
	require.NoError(t, err)
	require.Equal(t, int32(4), cnt.calls.Load())
}

func TestInvalidateByEntityID(t *testing.T) {
	ctx := context.Background()
	c := New()

	w1 := MustKey("getWorkspaceInvitations", map[string]string{"workspaceId": "w1"})
	w2 := MustKey("getWorkspaceInvitations", map[string]string{"workspaceId": "w2"})

	var cnt counter
	_, _ = c.Query(ctx, w1, cnt.fetch("a", IDTag("Workspace", "w1")))
	_, _ = c.Query(ctx, w2, cnt.fetch("b", IDTag("Workspace", "w2")))

	require.Equal(t, []Key{w2}, c.Invalidate(ctx, IDTag("Workspace", "w2")))
	require.Len(t, c.Invalidate(ctx, TypeTag("Workspace")), 2)
}

func TestEqualArgumentsShareKey(t *testing.T) {
	type params struct {
		Status   string `json:"status,omitempty"`
		Category string `json:"category,omitempty"`
		Limit    int    `json:"limit,omitempty"`
	}

	build := func() params { return params{Status: "active", Limit: 10} }

	k1 := MustKey("getProjects", build())
	k2 := MustKey("getProjects", build())
	k3 := MustKey("getProjects", &params{Status: "active", Limit: 10})
	require.Equal(t, k1, k2)
	require.Equal(t, k1, k3)
	require.Equal(t, k1.Digest(), k2.Digest())

	other := MustKey("getProjects", params{Status: "completed", Limit: 10})
	require.NotEqual(t, k1, other)

	ctx := context.Background()
	c := New()
	var cnt counter
	_, _ = c.Query(ctx, k1, cnt.fetch("x"))
	_, _ = c.Query(ctx, k2, cnt.fetch("y"))
	require.Equal(t, int32(1), cnt.calls.Load(), "rebuilt arguments must not churn the cache")
}

func TestEmptyArgumentsKey(t *testing.T) {
	require.Equal(t, "getUsers()", MustKey("getUsers", nil).String())
	require.Equal(t, "getUsers()", MustKey("getUsers", struct{}{}).String())
}

func TestFetchErrorIsRetriedAndKeepsData(t *testing.T) {
	ctx := context.Background()
	c := New()
	key := MustKey("getContacts", nil)

	_, err := c.Query(ctx, key, func(context.Context) (any, []Tag, error) {
		return "contacts", []Tag{ListTag("Contact")}, nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = c.Refetch(ctx, key, func(context.Context) (any, []Tag, error) {
		return nil, []Tag{ListTag("Contact")}, boom
	})
	require.ErrorIs(t, err, boom)

	snap, err := c.Peek(key)
	require.NoError(t, err)
	require.Equal(t, StatusRejected, snap.Status)
	require.Equal(t, "contacts", snap.Value)
	require.ErrorIs(t, snap.Err, boom)

	var revalidated bool
	v, err := c.Query(ctx, key, func(ctx context.Context) (any, []Tag, error) {
		revalidated = Revalidating(ctx)
		return "contacts v2", []Tag{ListTag("Contact")}, nil
	})
	require.NoError(t, err)
	require.Equal(t, "contacts v2", v)
	require.True(t, revalidated)
}

func TestFirstFetchIsNotRevalidation(t *testing.T) {
	c := New()
	_, err := c.Query(context.Background(), MustKey("getUsers", nil), func(ctx context.Context) (any, []Tag, error) {
		require.False(t, Revalidating(ctx))
		return 1, nil, nil
	})
	require.NoError(t, err)
}

func TestConcurrentQueriesShareFetch(t *testing.T) {
	ctx := context.Background()
	c := New()
	key := MustKey("getSessions", nil)

	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(context.Context) (any, []Tag, error) {
		calls.Add(1)
		<-release
		return "sessions", nil, nil
	}

	var wg sync.WaitGroup
	results := make([]any, 5)
	errs := make([]error, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Query(ctx, key, fetch)
		}(i)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load())
	for i, v := range results {
		require.NoError(t, errs[i])
		require.Equal(t, "sessions", v)
	}
}

func TestInvalidationDuringFetchLeavesEntryStale(t *testing.T) {
	ctx := context.Background()
	c := New()
	key := MustKey("getUsers", nil)

	_, err := c.Query(ctx, key, func(context.Context) (any, []Tag, error) {
		return "v1", []Tag{ListTag("User")}, nil
	})
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Refetch(ctx, key, func(context.Context) (any, []Tag, error) {
			close(started)
			<-release
			return "v2-pre-mutation", []Tag{ListTag("User")}, nil
		})
	}()

	<-started
	c.Invalidate(ctx, ListTag("User"))
	close(release)
	<-done

	snap, err := c.Peek(key)
	require.NoError(t, err)
	require.Equal(t, "v2-pre-mutation", snap.Value)
	require.True(t, snap.Stale, "response raced with an invalidation and must be refetched")
}

func TestSubscriptionReceivesEvents(t *testing.T) {
	ctx := context.Background()
	c := New()
	key := MustKey("getUserInvitations", map[string]string{"status": "pending"})

	sub := c.Subscribe(key)
	defer sub.Close()

	_, err := c.Query(ctx, key, func(context.Context) (any, []Tag, error) {
		return "invites", []Tag{UserTag("Invitation")}, nil
	})
	require.NoError(t, err)
	require.Equal(t, EventUpdated, <-sub.Events())

	c.Invalidate(ctx, UserTag("Invitation"))
	require.Equal(t, EventInvalidated, <-sub.Events())

	// Unrelated tags do not notify.
	c.Invalidate(ctx, ListTag("Project"))
	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event %s", ev)
	default:
	}
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	c := New()
	sub := c.Subscribe(MustKey("getUsers", nil))
	sub.Close()
	sub.Close()

	_, open := <-sub.Events()
	require.False(t, open)
}

func TestPruneEvictsUnusedEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(WithKeepUnusedFor(time.Minute), WithPruneInterval(0), WithClock(func() time.Time { return now }))

	unused := MustKey("getContacts", nil)
	watched := MustKey("getUsers", nil)

	_, _ = c.Query(ctx, unused, func(context.Context) (any, []Tag, error) { return 1, nil, nil })
	_, _ = c.Query(ctx, watched, func(context.Context) (any, []Tag, error) { return 2, nil, nil })
	sub := c.Subscribe(watched)

	require.Equal(t, 0, c.Prune(now.Add(30*time.Second)))
	require.Equal(t, 1, c.Prune(now.Add(2*time.Minute)))

	_, err := c.Peek(unused)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = c.Peek(watched)
	require.NoError(t, err)

	sub.Close()
	require.Equal(t, 1, c.Prune(now.Add(2*time.Minute)))
	require.Empty(t, c.Entries())
}

func TestBackgroundSweepEvictsUnsubscribedEntries(t *testing.T) {
	ctx := context.Background()
	c := New(WithKeepUnusedFor(10*time.Millisecond), WithPruneInterval(5*time.Millisecond))
	t.Cleanup(c.Close)

	unused := MustKey("getContacts", nil)
	watched := MustKey("getUsers", nil)

	_, _ = c.Query(ctx, unused, func(context.Context) (any, []Tag, error) { return 1, nil, nil })
	_, _ = c.Query(ctx, watched, func(context.Context) (any, []Tag, error) { return 2, nil, nil })
	sub := c.Subscribe(watched)
	defer sub.Close()

	require.Eventually(t, func() bool {
		_, err := c.Peek(unused)
		return errors.Is(err, ErrNotFound)
	}, time.Second, 5*time.Millisecond)

	_, err := c.Peek(watched)
	require.NoError(t, err, "subscribed entries are never swept")
}

func TestCloseIsIdempotent(t *testing.T) {
	c := New(WithKeepUnusedFor(time.Millisecond), WithPruneInterval(time.Millisecond))
	c.Close()
	c.Close()

	key := MustKey("getContacts", nil)
	_, err := c.Query(context.Background(), key, func(context.Context) (any, []Tag, error) { return 1, nil, nil })
	require.NoError(t, err)
}
