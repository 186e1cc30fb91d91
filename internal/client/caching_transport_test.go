package client

import (
	"testing"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPCache(t *testing.T) {
	_, ok := NewHTTPCache("").(*httpcache.MemoryCache)
	require.True(t, ok, "empty dir uses the in-memory cache")

	dir := t.TempDir()
	c := NewHTTPCache(dir)
	_, ok = c.(*diskcache.Cache)
	require.True(t, ok)

	c.Set("k", []byte("v"))
	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, []byte("v"), got)
}
