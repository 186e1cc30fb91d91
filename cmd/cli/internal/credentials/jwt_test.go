package credentials

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mentorhub/internal/auth"
	"github.com/wolfeidau/mentorhub/internal/models"
)

func TestInspect(t *testing.T) {
	token := issue(t, "user-1", models.RoleMentor, time.Hour)

	info, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", info.Subject)
	assert.Equal(t, "mentor", info.Role)
	assert.Equal(t, "Test user-1", info.Name)
	assert.Equal(t, auth.Issuer, info.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), info.ExpiresAt, time.Minute)
	assert.Equal(t, Fingerprint(token), info.Fingerprint)
}

func TestInspectDoesNotVerify(t *testing.T) {
	// signed with a secret the CLI never sees, and already expired
	tok, err := auth.IssueToken([]byte("some-other-secret-0123456789abcdef"), models.User{ID: "x", Role: models.RoleAdmin}, -time.Hour)
	require.NoError(t, err)

	info, err := Inspect(tok)
	require.NoError(t, err)
	assert.Equal(t, "x", info.Subject)
	assert.True(t, info.ExpiresAt.Before(time.Now()))
}

func TestInspectRejectsGarbage(t *testing.T) {
	for _, tok := range []string{"", "abc", "a.b.c"} {
		_, err := Inspect(tok)
		require.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("token-a")
	assert.Equal(t, a, Fingerprint("token-a"))
	assert.NotEqual(t, a, Fingerprint("token-b"))
	assert.NotContains(t, a, "token")
}
