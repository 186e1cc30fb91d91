// Package bulk drives the confirm-then-execute flow for actions applied to a
// selection of ids.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dustin/go-humanize/english"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mentorhub/internal/client"
	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/notify"
	"github.com/wolfeidau/mentorhub/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type State int

const (
	StateIdle State = iota
	StateConfirming
	StateExecuting
	StateResult
)

func (s State) String() string {
	switch s {
	case StateConfirming:
		return "confirming"
	case StateExecuting:
		return "executing"
	case StateResult:
		return "result"
	default:
		return "idle"
	}
}

// ErrInvalidTransition is returned when an action is not allowed in the
// current state.
var ErrInvalidTransition = errors.New("invalid bulk transition")

// Executor performs the bulk request for ids.
type Executor func(ctx context.Context, ids []string) (*models.BulkResult, error)

// Flow is the state machine behind a bulk action dialog:
// Idle → Confirming → Executing → Result → Idle.
type Flow struct {
	noun     string
	verb     string
	notifier notify.Notifier

	mu       sync.Mutex
	state    State
	selected []string
	outcome  Outcome
	err      error
}

// NewFlow creates a flow. noun and verb phrase the toasts, e.g. "user" and
// "disabled" give "2 users disabled".
func NewFlow(noun, verb string, n notify.Notifier) *Flow {
	return &Flow{noun: noun, verb: verb, notifier: n}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Selected returns the ids awaiting confirmation or last executed.
func (f *Flow) Selected() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.selected)
}

// Result returns the last outcome and request error.
func (f *Flow) Result() (Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome, f.err
}

// Open asks for confirmation of the action on ids. Duplicates and empty ids
// are dropped.
func (f *Flow) Open(ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateIdle {
		return fmt.Errorf("%w: open from %s", ErrInvalidTransition, f.state)
	}

	selected := dedupe(ids)
	if len(selected) == 0 {
		return fmt.Errorf("%w: nothing selected", ErrInvalidTransition)
	}

	f.selected = selected
	f.outcome = Outcome{}
	f.err = nil
	f.state = StateConfirming
	return nil
}

// Cancel abandons the confirmation without any request.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateConfirming {
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, f.state)
	}
	f.selected = nil
	f.state = StateIdle
	return nil
}

// Confirm runs exec on the selection. Once started the request is not
// cancelled by ctx. The outcome is toasted: success when every id succeeded,
// a warning on partial failure and an error otherwise.
func (f *Flow) Confirm(ctx context.Context, exec Executor) (Outcome, error) {
	f.mu.Lock()
	if f.state != StateConfirming {
		state := f.state
		f.mu.Unlock()
		return Outcome{}, fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, state)
	}
	f.state = StateExecuting
	selected := slices.Clone(f.selected)
	f.mu.Unlock()

	res, err := exec(context.WithoutCancel(ctx), selected)

	var outcome Outcome
	switch {
	case err != nil:
		outcome = unknownOutcome(selected, client.MessageOf(err, ""))
	case res == nil:
		outcome = unknownOutcome(selected, "")
	default:
		outcome = NewOutcome(selected, *res)
	}

	f.mu.Lock()
	f.outcome = outcome
	f.err = err
	f.state = StateResult
	f.mu.Unlock()

	f.report(ctx, outcome, err)

	return outcome, err
}

func (f *Flow) report(ctx context.Context, o Outcome, err error) {
	if o.Failed > 0 {
		telemetry.GetMetrics().BulkFailuresTotal.Add(ctx, int64(o.Failed),
			metric.WithAttributes(attribute.String("action", f.verb)))
	}

	if err != nil {
		fallback := "Failed to update " + english.Plural(o.Total(), f.noun, "")
		notify.MutationResult(f.notifier, err, "", fallback)
		return
	}

	log.Info().
		Str("action", f.verb).
		Int("succeeded", o.Succeeded).
		Int("failed", o.Failed).
		Int("unknown", o.Unknown).
		Msg("bulk action complete")

	summary := o.Summary(f.noun, f.verb)
	switch {
	case o.Succeeded == o.Total():
		f.notifier.Success(summary)
	case o.Succeeded > 0:
		f.notifier.Warning(summary)
	default:
		f.notifier.Error(summary)
	}
}

// Dismiss closes the result dialog.
func (f *Flow) Dismiss() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateResult {
		return fmt.Errorf("%w: dismiss from %s", ErrInvalidTransition, f.state)
	}
	f.state = StateIdle
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
