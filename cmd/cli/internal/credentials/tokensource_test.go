package credentials

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mentorhub/internal/models"
)

func TestTokenSource(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	token := issue(t, "u1", models.RoleAdmin, time.Hour)
	_, err = store.Create("local", "http://a", token)
	require.NoError(t, err)

	tok, err := NewTokenSource(store, "local").Token()
	require.NoError(t, err)
	assert.Equal(t, token, tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.True(t, tok.Valid())
}

func TestTokenSourceExpired(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Create("old", "http://a", issue(t, "u1", models.RoleAdmin, -time.Minute))
	require.NoError(t, err)

	_, err = NewTokenSource(store, "old").Token()
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenSourceMissingProfile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = NewTokenSource(store, "nope").Token()
	require.ErrorIs(t, err, ErrProfileNotFound)
}
