package client

import (
	"context"
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// NewHTTPCache returns the response store used beneath the query cache.
// GET responses carrying ETag or Cache-Control validators are revalidated with
// conditional requests instead of being downloaded again.
func NewHTTPCache(cacheDir string) httpcache.Cache {
	if cacheDir == "" {
		return httpcache.NewMemoryCache()
	}

	// Disk cache persists across CLI invocations.
	return diskcache.New(cacheDir)
}

// newCachingTransport wraps next with an HTTP cache. Responses served from the
// cache are marked with the X-From-Cache header.
func newCachingTransport(cache httpcache.Cache, next http.RoundTripper) http.RoundTripper {
	t := httpcache.NewTransport(cache)
	t.Transport = next
	return t
}

type noCacheKey struct{}

// WithNoCache marks requests made with ctx to bypass fresh HTTP cache entries.
// The query cache sets it when refetching data it has invalidated.
func WithNoCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, noCacheKey{}, true)
}

func noCache(ctx context.Context) bool {
	v, _ := ctx.Value(noCacheKey{}).(bool)
	return v
}
