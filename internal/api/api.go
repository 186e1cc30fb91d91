// Package api declares the REST endpoints the platform exposes, grouped by
// resource family. Each query declares the cache tags its result provides and
// each mutation declares the tags it invalidates once it succeeds.
package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mentorhub/internal/cache"
	"github.com/wolfeidau/mentorhub/internal/client"
	"github.com/wolfeidau/mentorhub/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Doer is the base query used by every endpoint.
type Doer interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

var _ Doer = (*client.Client)(nil)

// API binds endpoint definitions to a base query and a query cache.
type API struct {
	doer  Doer
	cache *cache.Cache
}

// New creates an API over doer. A nil cache gets a fresh one.
func New(doer Doer, c *cache.Cache) *API {
	if c == nil {
		c = cache.New()
	}
	return &API{doer: doer, cache: c}
}

// Cache returns the query cache shared by all endpoints.
func (a *API) Cache() *cache.Cache { return a.cache }

// Query describes a GET endpoint.
type Query[A, R any] struct {
	Name     string
	Template string
	Path     func(args A) string
	// Provides returns the tags for a result. res is nil when the fetch failed.
	Provides func(args A, res *R) []cache.Tag
	// Defaults fills in server-side defaults so that args meaning the same
	// request share one cache entry.
	Defaults func(args A) A
}

func (q Query[A, R]) normalize(args A) A {
	if q.Defaults == nil {
		return args
	}
	return q.Defaults(args)
}

// Key returns the cache key for args.
func (q Query[A, R]) Key(args A) (cache.Key, error) {
	return cache.NewKey(q.Name, q.normalize(args))
}

func (q Query[A, R]) tags(args A, res *R) []cache.Tag {
	if q.Provides == nil {
		return nil
	}
	return q.Provides(args, res)
}

func (q Query[A, R]) fetcher(a *API, args A) cache.FetchFunc {
	return func(ctx context.Context) (any, []cache.Tag, error) {
		if cache.Revalidating(ctx) {
			ctx = client.WithNoCache(ctx)
		}

		out := new(R)
		if err := a.doer.Get(ctx, q.Path(args), out); err != nil {
			return nil, q.tags(args, nil), fmt.Errorf("%s: %w", q.Name, err)
		}
		return out, q.tags(args, out), nil
	}
}

// Mutation describes a POST endpoint.
type Mutation[A, R any] struct {
	Name     string
	Template string
	Path     func(args A) string
	Body     func(args A) any
	// Validate runs before any request is sent.
	Validate func(args A) error
	// Invalidates returns the tags to invalidate after a successful call.
	Invalidates func(args A, res *R) []cache.Tag
}

// Tags returns the invalidation set for args and a successful result.
func (m Mutation[A, R]) Tags(args A, res *R) []cache.Tag {
	if m.Invalidates == nil {
		return nil
	}
	return m.Invalidates(args, res)
}

// RunQuery returns the cached result for args, fetching it when missing or
// stale. The returned value is shared with the cache and must not be modified.
func RunQuery[A, R any](ctx context.Context, a *API, q Query[A, R], args A) (*R, error) {
	args = q.normalize(args)
	key, err := q.Key(args)
	if err != nil {
		return nil, err
	}

	v, err := a.cache.Query(ctx, key, q.fetcher(a, args))
	if err != nil {
		return nil, err
	}
	return v.(*R), nil
}

// Refetch fetches args unconditionally, bypassing both caches.
func Refetch[A, R any](ctx context.Context, a *API, q Query[A, R], args A) (*R, error) {
	args = q.normalize(args)
	key, err := q.Key(args)
	if err != nil {
		return nil, err
	}

	v, err := a.cache.Refetch(ctx, key, q.fetcher(a, args))
	if err != nil {
		return nil, err
	}
	return v.(*R), nil
}

// Subscribe observes the cache entry for args.
func Subscribe[A, R any](a *API, q Query[A, R], args A) (*cache.Subscription, error) {
	key, err := q.Key(args)
	if err != nil {
		return nil, err
	}
	return a.cache.Subscribe(key), nil
}

// RunMutation validates args, performs the request and, only once it has
// succeeded, invalidates the mutation's tags.
func RunMutation[A, R any](ctx context.Context, a *API, m Mutation[A, R], args A) (*R, error) {
	if m.Validate != nil {
		if err := m.Validate(args); err != nil {
			return nil, err
		}
	}

	var body any
	if m.Body != nil {
		body = m.Body(args)
	}

	telemetry.GetMetrics().MutationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", m.Name)))

	out := new(R)
	if err := a.doer.Post(ctx, m.Path(args), body, out); err != nil {
		return nil, fmt.Errorf("%s: %w", m.Name, err)
	}

	tags := m.Tags(args, out)
	affected := a.cache.Invalidate(ctx, tags...)

	log.Debug().
		Str("endpoint", m.Name).
		Strs("invalidated", cache.Strings(tags)).
		Int("entries", len(affected)).
		Msg("mutation complete")

	return out, nil
}

// pathf builds a path from a format string, escaping every argument as a
// path segment.
func pathf(format string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, args...)
}

// params accumulates query string parameters, skipping empty values.
type params url.Values

func (p params) str(key, value string) params {
	if value != "" {
		url.Values(p).Set(key, value)
	}
	return p
}

func (p params) int(key string, value int) params {
	if value > 0 {
		url.Values(p).Set(key, strconv.Itoa(value))
	}
	return p
}

func (p params) boolPtr(key string, value *bool) params {
	if value != nil {
		url.Values(p).Set(key, strconv.FormatBool(*value))
	}
	return p
}

// withQuery appends the encoded parameters to path, if there are any.
func withQuery(path string, p params) string {
	if len(p) == 0 {
		return path
	}
	return path + "?" + url.Values(p).Encode()
}

func idTags(typ string, ids []string) []cache.Tag {
	tags := make([]cache.Tag, 0, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			continue
		}
		tags = append(tags, cache.IDTag(typ, id))
	}
	return tags
}
