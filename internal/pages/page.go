// Package pages holds the containers behind each screen: local filter state,
// the query it drives, client-side narrowing and the refresh and watch
// affordances. Query failures are returned inside the view so callers can
// render an inline retry instead of aborting.
package pages

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mentorhub/internal/api"
	"github.com/wolfeidau/mentorhub/internal/cache"
	"github.com/wolfeidau/mentorhub/internal/client"
	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/notify"
	"github.com/wolfeidau/mentorhub/internal/views"
)

// View is the rendered state of a list page.
type View[T any] struct {
	// Items are the fetched rows after client-side filtering.
	Items []T
	// Fetched is the number of rows the server returned.
	Fetched    int
	Pagination models.Pagination
	// Err is set when the query failed. Message is the text to show and
	// Retryable whether offering "Try Again" makes sense.
	Err       error
	Message   string
	Retryable bool
}

// Empty reports whether a successful load produced no rows.
func (v View[T]) Empty() bool { return v.Err == nil && len(v.Items) == 0 }

func failed[T any](err error, what string) View[T] {
	return View[T]{
		Err:       err,
		Message:   client.MessageOf(err, "Failed to load "+what),
		Retryable: retryable(err),
	}
}

// retryable reports whether repeating a failed query could succeed.
// Validation failures never do; HTTP failures defer to the client's rules.
func retryable(err error) bool {
	var verr *api.ValidationError
	if errors.As(err, &verr) {
		return false
	}
	var cerr *client.Error
	if errors.As(err, &cerr) {
		return cerr.Retryable()
	}
	return !errors.Is(err, context.Canceled)
}

// list binds a list query to the extraction of its rows.
type list[A, R, T any] struct {
	api   *api.API
	query api.Query[A, R]
	what  string
	rows  func(*R) []T
	pages func(*R) models.Pagination
}

func (l list[A, R, T]) load(ctx context.Context, p views.Pipeline[A, T], force bool) View[T] {
	run := api.RunQuery[A, R]
	if force {
		run = api.Refetch[A, R]
	}

	res, err := run(ctx, l.api, l.query, p.Server)
	if err != nil {
		log.Warn().Err(err).Str("page", l.what).Msg("query failed")
		return failed[T](err, l.what)
	}

	rows := l.rows(res)
	v := View[T]{Items: p.Apply(rows), Fetched: len(rows)}
	if l.pages != nil {
		v.Pagination = l.pages(res)
	}
	return v
}

// refresh forces a refetch and reports it with an info toast.
func (l list[A, R, T]) refresh(ctx context.Context, n notify.Notifier, p views.Pipeline[A, T]) View[T] {
	v := l.load(ctx, p, true)
	if v.Err == nil {
		n.Info("Refreshed " + l.what)
	}
	return v
}

// watch calls reload once, then again whenever the entry for args is
// invalidated and, when every is positive, on each tick. It returns when ctx
// is done.
func watch[A, R any](ctx context.Context, a *api.API, q api.Query[A, R], args A, every time.Duration, reload func(ctx context.Context, force bool)) error {
	sub, err := api.Subscribe(a, q, args)
	if err != nil {
		return err
	}
	defer sub.Close()

	var tick <-chan time.Time
	if every > 0 {
		t := time.NewTicker(every)
		defer t.Stop()
		tick = t.C
	}

	reload(ctx, false)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			// updates are our own fetches landing
			if ev == cache.EventInvalidated {
				reload(ctx, false)
			}
		case <-tick:
			reload(ctx, true)
		}
	}
}

func notFoundOr(err error, notFound, fallback string) string {
	if client.IsNotFound(err) {
		return notFound
	}
	return client.MessageOf(err, fallback)
}

// pipeliner is a filter state that splits into server and client stages.
type pipeliner[A, T any] interface {
	Pipeline() views.Pipeline[A, T]
}

// base is the filter state and list query shared by the list pages.
type base[F pipeliner[A, T], A, R, T any] struct {
	api      *api.API
	notifier notify.Notifier
	list     list[A, R, T]

	mu      sync.Mutex
	filters F
}

// Filters returns the current filter state.
func (b *base[F, A, R, T]) Filters() F {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filters
}

// SetFilters replaces the filter state. Only the server stage decides which
// cache entry the next load reads.
func (b *base[F, A, R, T]) SetFilters(f F) {
	b.mu.Lock()
	b.filters = f
	b.mu.Unlock()
}

func (b *base[F, A, R, T]) view(ctx context.Context, force bool) View[T] {
	return b.list.load(ctx, b.Filters().Pipeline(), force)
}

func (b *base[F, A, R, T]) refreshed(ctx context.Context) View[T] {
	return b.list.refresh(ctx, b.notifier, b.Filters().Pipeline())
}

func (b *base[F, A, R, T]) watch(ctx context.Context, every time.Duration, reload func(ctx context.Context, force bool)) error {
	return watch(ctx, b.api, b.list.query, b.Filters().Pipeline().Server, every, reload)
}

func serverOnly[A, T any](args A) views.Pipeline[A, T] {
	return views.Pipeline[A, T]{Server: args}
}
