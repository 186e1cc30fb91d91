package credentials

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mentorhub/internal/auth"
	"github.com/wolfeidau/mentorhub/internal/models"
)

var testSecret = []byte("credentials-test-secret-0123456789")

func issue(t *testing.T, id string, role models.Role, ttl time.Duration) string {
	t.Helper()
	tok, err := auth.IssueToken(testSecret, models.User{ID: id, Role: role, FullName: "Test " + id, Email: id + "@example.com"}, ttl)
	require.NoError(t, err)
	return tok
}

func TestNewStore(t *testing.T) {
	t.Run("creates directory with correct permissions", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "profiles")

		store, err := NewStore(dir)
		require.NoError(t, err)
		assert.NotNil(t, store)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
	})

	t.Run("creates profiles.json on initialization", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewStore(dir)
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(dir, "profiles.json"))
		require.NoError(t, err)

		cfg, err := store.loadConfig()
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Version)
		assert.Empty(t, cfg.DefaultProfile)
		assert.Empty(t, cfg.Profiles)
	})
}

func TestStore_Create(t *testing.T) {
	t.Run("records token claims", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		token := issue(t, "u1", models.RoleAdmin, time.Hour)
		p, err := store.Create("local", "http://localhost:8080/api", token)
		require.NoError(t, err)

		assert.Equal(t, "local", p.Name)
		assert.Equal(t, "http://localhost:8080/api", p.APIURL)
		assert.Equal(t, "u1", p.Subject)
		assert.Equal(t, "admin", p.Role)
		assert.Equal(t, "u1@example.com", p.Email)
		assert.Equal(t, Fingerprint(token), p.Fingerprint)
		assert.False(t, p.ExpiresAt.IsZero())
		assert.False(t, p.Expired(time.Now()))
	})

	t.Run("writes the token with owner-only permissions", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewStore(dir)
		require.NoError(t, err)

		_, err = store.Create("local", "http://localhost:8080/api", issue(t, "u1", models.RoleAdmin, time.Hour))
		require.NoError(t, err)

		info, err := os.Stat(filepath.Join(dir, "local.token"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("first profile becomes default", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		_, err = store.Create("first", "http://a", issue(t, "u1", models.RoleAdmin, time.Hour))
		require.NoError(t, err)
		_, err = store.Create("second", "http://b", issue(t, "u2", models.RoleMentor, time.Hour))
		require.NoError(t, err)

		def, err := store.GetDefault()
		require.NoError(t, err)
		assert.Equal(t, "first", def.Name)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		_, err = store.Create("local", "http://a", issue(t, "u1", models.RoleAdmin, time.Hour))
		require.NoError(t, err)
		_, err = store.Create("local", "http://a", issue(t, "u1", models.RoleAdmin, time.Hour))
		require.ErrorIs(t, err, ErrProfileExists)
	})

	t.Run("rejects malformed tokens and names", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		_, err = store.Create("local", "http://a", "not-a-jwt")
		require.ErrorIs(t, err, ErrInvalidToken)

		_, err = store.Create("../escape", "http://a", issue(t, "u1", models.RoleAdmin, time.Hour))
		require.ErrorIs(t, err, ErrInvalidName)

		profiles, err := store.List()
		require.NoError(t, err)
		assert.Empty(t, profiles)
	})
}

func TestStore_ListSetDefaultDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := store.Create(name, "http://"+name, issue(t, name, models.RoleLearner, time.Hour))
		require.NoError(t, err)
	}

	profiles, err := store.List()
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, []string{profiles[0].Name, profiles[1].Name, profiles[2].Name})

	require.NoError(t, store.SetDefault("mid"))
	p, err := store.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "mid", p.Name)

	require.ErrorIs(t, store.SetDefault("missing"), ErrProfileNotFound)

	require.NoError(t, store.Delete("mid"))
	_, err = store.GetDefault()
	require.ErrorIs(t, err, ErrNoDefaultProfile)
	_, err = store.LoadToken("mid")
	require.ErrorIs(t, err, ErrProfileNotFound)

	require.ErrorIs(t, store.Delete("mid"), ErrProfileNotFound)
}

func TestStore_SetTokenAndLoad(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	first := issue(t, "u1", models.RoleLearner, time.Hour)
	_, err = store.Create("local", "http://a", first)
	require.NoError(t, err)

	loaded, err := store.LoadToken("local")
	require.NoError(t, err)
	assert.Equal(t, first, loaded)

	second := issue(t, "u1", models.RoleMentor, 2*time.Hour)
	p, err := store.SetToken("local", second)
	require.NoError(t, err)
	assert.Equal(t, "mentor", p.Role)
	assert.Equal(t, Fingerprint(second), p.Fingerprint)

	loaded, err = store.LoadToken("local")
	require.NoError(t, err)
	assert.Equal(t, second, loaded)

	_, err = store.SetToken("missing", second)
	require.ErrorIs(t, err, ErrProfileNotFound)
}
