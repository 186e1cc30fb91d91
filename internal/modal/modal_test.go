package modal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mentorhub/internal/models"
)

type statusForm struct {
	Status models.ContactStatus
	Notes  string
}

type harness struct {
	closes  int
	updates []statusForm
	lock    Counter
	fail    error
	modal   *Modal[models.Contact, statusForm]
	release chan struct{}
	started chan struct{}
}

func newHarness() *harness {
	h := &harness{}
	h.modal = New(Config[models.Contact, statusForm]{
		Init: func(c models.Contact) statusForm {
			return statusForm{Status: c.Status, Notes: c.Notes}
		},
		Validate: func(f statusForm) error {
			if !f.Status.Valid() {
				return errors.New("pick a status")
			}
			return nil
		},
		OnUpdate: func(ctx context.Context, f statusForm) error {
			if h.started != nil {
				close(h.started)
				<-h.release
			}
			h.updates = append(h.updates, f)
			return h.fail
		},
		OnClose:  func() { h.closes++ },
		Resource: &h.lock,
	})
	return h
}

func contact() models.Contact {
	return models.Contact{ID: "c1", Status: models.ContactNew, Notes: "called once"}
}

func TestEscapeBeforeEditClosesOnceWithoutUpdate(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.modal.Open(contact()))
	require.Equal(t, 1, h.lock.Held())

	require.True(t, h.modal.Escape())
	require.False(t, h.modal.Escape(), "already closed")

	require.Equal(t, 1, h.closes)
	require.Empty(t, h.updates)
	require.Equal(t, StateClosed, h.modal.State())
	require.Zero(t, h.lock.Held())
}

func TestBackdropMatchesEscape(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.modal.Open(contact()))
	require.True(t, h.modal.Backdrop())
	require.Equal(t, 1, h.closes)
	require.Empty(t, h.updates)
}

func TestFormInitialisedFromEntity(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.modal.Open(contact()))
	require.Equal(t, statusForm{Status: models.ContactNew, Notes: "called once"}, h.modal.Form())
}

func TestSuccessfulSubmitUpdatesThenCloses(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.modal.Open(contact()))
	require.NoError(t, h.modal.Edit(func(f *statusForm) { f.Status = models.ContactResolved }))

	require.NoError(t, h.modal.Submit(context.Background()))
	require.Equal(t, []statusForm{{Status: models.ContactResolved, Notes: "called once"}}, h.updates)
	require.Equal(t, 1, h.closes)
	require.Equal(t, StateClosed, h.modal.State())
	require.Zero(t, h.lock.Held())
}

func TestSubmitErrorKeepsDataAndLock(t *testing.T) {
	h := newHarness()
	h.fail = errors.New("server said no")

	require.NoError(t, h.modal.Open(contact()))
	require.NoError(t, h.modal.Edit(func(f *statusForm) { f.Notes = "typed by hand" }))

	err := h.modal.Submit(context.Background())
	require.ErrorIs(t, err, h.fail)
	require.Equal(t, StateOpen, h.modal.State())
	require.Equal(t, "typed by hand", h.modal.Form().Notes)
	require.Equal(t, h.fail, h.modal.Err())
	require.Equal(t, 1, h.lock.Held())
	require.Zero(t, h.closes)

	require.True(t, h.modal.Escape())
	require.Zero(t, h.lock.Held())
	require.Equal(t, 1, h.closes)
}

func TestValidationFailureSendsNothing(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.modal.Open(contact()))
	require.NoError(t, h.modal.Edit(func(f *statusForm) { f.Status = "bogus" }))

	require.Error(t, h.modal.Submit(context.Background()))
	require.Empty(t, h.updates)
	require.Equal(t, StateOpen, h.modal.State())
	require.EqualError(t, h.modal.Err(), "pick a status")
}

func TestEscapeRefusedWhileSubmitting(t *testing.T) {
	h := newHarness()
	h.started = make(chan struct{})
	h.release = make(chan struct{})

	require.NoError(t, h.modal.Open(contact()))

	done := make(chan error, 1)
	go func() { done <- h.modal.Submit(context.Background()) }()
	<-h.started

	require.Equal(t, StateSubmitting, h.modal.State())
	require.False(t, h.modal.Escape())
	require.False(t, h.modal.Backdrop())
	require.ErrorIs(t, h.modal.Edit(func(*statusForm) {}), ErrBusy)
	require.ErrorIs(t, h.modal.Submit(context.Background()), ErrBusy)

	close(h.release)
	require.NoError(t, <-done)
	require.Equal(t, 1, h.closes)
}

func TestDisposeReleasesWithoutClose(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.modal.Open(contact()))

	h.modal.Dispose()
	require.Zero(t, h.lock.Held())
	require.Zero(t, h.closes)

	h.modal.Dispose()
	require.Zero(t, h.lock.Held())
}

func TestDisposeDuringSubmit(t *testing.T) {
	tests := []struct {
		name string
		fail error
	}{
		{name: "failed update", fail: errors.New("conflict")},
		{name: "successful update"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.fail = tt.fail
			h.started = make(chan struct{})
			h.release = make(chan struct{})

			require.NoError(t, h.modal.Open(contact()))

			done := make(chan error, 1)
			go func() { done <- h.modal.Submit(context.Background()) }()
			<-h.started

			h.modal.Dispose()
			close(h.release)

			err := <-done
			if tt.fail != nil {
				require.ErrorIs(t, err, tt.fail)
			} else {
				require.NoError(t, err)
			}

			require.Equal(t, StateClosed, h.modal.State())
			require.Zero(t, h.lock.Held())
			require.Zero(t, h.closes, "a disposed modal never reports a close")

			require.ErrorIs(t, h.modal.Open(contact()), ErrNotOpen)
			require.ErrorIs(t, h.modal.Edit(func(*statusForm) {}), ErrDisposed)
			require.ErrorIs(t, h.modal.Submit(context.Background()), ErrDisposed)
			require.False(t, h.modal.Close())
			require.Zero(t, h.lock.Held())
		})
	}
}

func TestOperationsOnClosedModal(t *testing.T) {
	h := newHarness()
	require.ErrorIs(t, h.modal.Submit(context.Background()), ErrNotOpen)
	require.ErrorIs(t, h.modal.Edit(func(*statusForm) {}), ErrNotOpen)
	require.False(t, h.modal.Close())

	require.NoError(t, h.modal.Open(contact()))
	require.Error(t, h.modal.Open(contact()))
}

type projectDraft struct {
	Title string
	Start string
	End   string
}

func newProjectWizard() *Wizard[projectDraft] {
	return NewWizard(projectDraft{},
		Step[projectDraft]{Name: "basics", Validate: func(d projectDraft) error {
			if d.Title == "" {
				return errors.New("title is required")
			}
			return nil
		}},
		Step[projectDraft]{Name: "timeline", Validate: func(d projectDraft) error {
			if d.End < d.Start {
				return errors.New("end before start")
			}
			return nil
		}},
		Step[projectDraft]{Name: "review"},
	)
}

func TestWizardSteps(t *testing.T) {
	w := newProjectWizard()

	require.EqualError(t, w.Next(), "basics: title is required")
	require.Equal(t, "basics", w.Current().Name)

	w.Data().Title = "Garden planner"
	require.NoError(t, w.Next())
	require.Equal(t, "timeline", w.Current().Name)

	require.NoError(t, w.Back())
	require.ErrorIs(t, w.Back(), ErrFirstStep)
	require.NoError(t, w.Next())

	w.Data().Start, w.Data().End = "2025-02-01", "2025-01-01"
	require.Error(t, w.Next())

	w.Data().End = "2025-03-01"
	require.NoError(t, w.Next())
	require.True(t, w.IsLast())
	require.ErrorIs(t, w.Next(), ErrLastStep)

	step, total := w.Position()
	require.Equal(t, 3, step)
	require.Equal(t, 3, total)
}

func TestWizardNeedsSteps(t *testing.T) {
	require.Panics(t, func() { NewWizard(projectDraft{}) })
}

func TestWizardComplete(t *testing.T) {
	w := newProjectWizard()
	ctx := context.Background()

	var submitted []projectDraft
	submit := func(_ context.Context, d projectDraft) error {
		submitted = append(submitted, d)
		return nil
	}

	require.ErrorIs(t, w.Complete(ctx, submit), ErrNotLast)

	w.Data().Title = "Quiz engine"
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())

	failing := errors.New("conflict")
	require.ErrorIs(t, w.Complete(ctx, func(context.Context, projectDraft) error { return failing }), failing)
	require.False(t, w.Completed())
	require.Equal(t, "Quiz engine", w.Data().Title)

	require.NoError(t, w.Complete(ctx, submit))
	require.True(t, w.Completed())
	require.Len(t, submitted, 1)
	require.ErrorIs(t, w.Complete(ctx, submit), ErrCompleted)

	w.Reset()
	require.False(t, w.Completed())
	require.Equal(t, "basics", w.Current().Name)
	require.Empty(t, w.Data().Title)
}
