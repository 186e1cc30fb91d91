package bulk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mentorhub/internal/client"
	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/notify"
)

func result(success []string, failed ...models.BulkFailure) Executor {
	return func(context.Context, []string) (*models.BulkResult, error) {
		return &models.BulkResult{Success: success, Failed: failed}, nil
	}
}

func TestPartialFailureSurfacesEveryID(t *testing.T) {
	var rec notify.Recorder
	flow := NewFlow("user", "disabled", &rec)

	require.NoError(t, flow.Open([]string{"u1", "u2", "u3"}))
	require.Equal(t, StateConfirming, flow.State())

	outcome, err := flow.Confirm(context.Background(), result(
		[]string{"u1", "u2"},
		models.BulkFailure{ID: "u3", Error: "user is an owner"},
	))
	require.NoError(t, err)
	require.Equal(t, StateResult, flow.State())

	require.Equal(t, []Item{
		{ID: "u1", Status: ItemSucceeded},
		{ID: "u2", Status: ItemSucceeded},
		{ID: "u3", Status: ItemFailed, Error: "user is an owner"},
	}, outcome.Items)
	require.Equal(t, 2, outcome.Succeeded)
	require.Equal(t, 1, outcome.Failed)
	require.True(t, outcome.Partial())
	require.Equal(t, []Item{{ID: "u3", Status: ItemFailed, Error: "user is an owner"}}, outcome.Failures())

	require.Equal(t, []notify.Toast{{Level: notify.LevelWarning, Message: "2 users disabled, 1 failed"}}, rec.Toasts())

	require.NoError(t, flow.Dismiss())
	require.Equal(t, StateIdle, flow.State())
}

func TestAllSucceeded(t *testing.T) {
	var rec notify.Recorder
	flow := NewFlow("user", "deleted", &rec)

	require.NoError(t, flow.Open([]string{"u1"}))
	_, err := flow.Confirm(context.Background(), result([]string{"u1"}))
	require.NoError(t, err)

	last, _ := rec.Last()
	require.Equal(t, notify.Toast{Level: notify.LevelSuccess, Message: "1 user deleted"}, last)
}

func TestTotalFailureIsAnError(t *testing.T) {
	var rec notify.Recorder
	flow := NewFlow("user", "enabled", &rec)

	require.NoError(t, flow.Open([]string{"u1", "u2"}))
	_, err := flow.Confirm(context.Background(), result(nil, models.BulkFailure{ID: "u1"}, models.BulkFailure{ID: "u2"}))
	require.NoError(t, err)

	last, _ := rec.Last()
	require.Equal(t, notify.Toast{Level: notify.LevelError, Message: "No users enabled, 2 failed"}, last)
}

func TestUnreportedIDsAreUnknown(t *testing.T) {
	var rec notify.Recorder
	flow := NewFlow("user", "disabled", &rec)

	require.NoError(t, flow.Open([]string{"u1", "u2"}))
	outcome, err := flow.Confirm(context.Background(), result([]string{"u1", "stranger"}))
	require.NoError(t, err)

	require.Equal(t, 1, outcome.Unknown)
	require.Equal(t, ItemUnknown, outcome.Items[1].Status)
	require.Len(t, outcome.Items, 2, "ids never selected are ignored")

	last, _ := rec.Last()
	require.Equal(t, notify.Toast{Level: notify.LevelWarning, Message: "1 user disabled, 1 unknown"}, last)
}

func TestRequestErrorMarksEverythingUnknown(t *testing.T) {
	var rec notify.Recorder
	flow := NewFlow("user", "deleted", &rec)

	require.NoError(t, flow.Open([]string{"u1", "u2"}))
	apiErr := &client.Error{Kind: client.KindHTTP, Status: 403, Message: "Admins only"}
	outcome, err := flow.Confirm(context.Background(), func(context.Context, []string) (*models.BulkResult, error) {
		return nil, apiErr
	})
	require.ErrorIs(t, err, apiErr)
	require.Equal(t, 2, outcome.Unknown)
	require.Equal(t, "Admins only", outcome.Items[0].Error)

	got, gotErr := flow.Result()
	require.Equal(t, outcome, got)
	require.ErrorIs(t, gotErr, apiErr)

	last, _ := rec.Last()
	require.Equal(t, notify.Toast{Level: notify.LevelError, Message: "Admins only"}, last)
}

func TestCancelHasNoSideEffect(t *testing.T) {
	var rec notify.Recorder
	flow := NewFlow("user", "deleted", &rec)

	require.NoError(t, flow.Open([]string{"u1"}))
	require.NoError(t, flow.Cancel())
	require.Equal(t, StateIdle, flow.State())
	require.Empty(t, flow.Selected())
	require.Empty(t, rec.Toasts())

	_, err := flow.Confirm(context.Background(), func(context.Context, []string) (*models.BulkResult, error) {
		t.Fatal("executor must not run")
		return nil, nil
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestInvalidTransitions(t *testing.T) {
	flow := NewFlow("user", "disabled", &notify.Recorder{})

	require.ErrorIs(t, flow.Cancel(), ErrInvalidTransition)
	require.ErrorIs(t, flow.Dismiss(), ErrInvalidTransition)
	require.ErrorIs(t, flow.Open(nil), ErrInvalidTransition)
	require.ErrorIs(t, flow.Open([]string{"", ""}), ErrInvalidTransition)

	require.NoError(t, flow.Open([]string{"u1", "u1", "u2"}))
	require.Equal(t, []string{"u1", "u2"}, flow.Selected())
	require.ErrorIs(t, flow.Open([]string{"u3"}), ErrInvalidTransition)
}

func TestExecutionIgnoresCallerCancellation(t *testing.T) {
	flow := NewFlow("user", "disabled", &notify.Recorder{})
	require.NoError(t, flow.Open([]string{"u1"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := flow.Confirm(ctx, func(ctx context.Context, ids []string) (*models.BulkResult, error) {
		if ctx.Err() != nil {
			return nil, errors.New("cancelled")
		}
		return &models.BulkResult{Success: ids}, nil
	})
	require.NoError(t, err)
}
