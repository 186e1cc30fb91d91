package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mentorhub/internal/auth"
	"github.com/wolfeidau/mentorhub/internal/fakeapi"
	"github.com/wolfeidau/mentorhub/internal/models"
)

const testSecret = "server-test-secret-0123456789abcdef"

func TestServeValidate(t *testing.T) {
	require.Error(t, (&ServeCmd{Secret: "short"}).Validate())
	require.NoError(t, (&ServeCmd{NoAuth: true}).Validate())
	require.NoError(t, (&ServeCmd{Secret: testSecret}).Validate())
	require.ErrorContains(t, (&ServeCmd{NoAuth: true, Cert: "cert.pem"}).Validate(), "both --cert and --key")
}

func TestTokenCmdSignsVerifiableToken(t *testing.T) {
	buf := &bytes.Buffer{}
	stdout = buf
	t.Cleanup(func() { stdout = os.Stdout })

	cmd := &TokenCmd{Secret: testSecret, UserID: "u-1", Role: "mentor", Name: "Grace", TTL: time.Minute}
	require.NoError(t, cmd.Run(context.Background(), &Globals{}))

	v, err := auth.NewVerifier([]byte(testSecret))
	require.NoError(t, err)
	p, err := v.Verify(strings.TrimSpace(buf.String()))
	require.NoError(t, err)
	require.Equal(t, "u-1", p.UserID)
	require.Equal(t, models.RoleMentor, p.Role)
}

func TestLogSeedTokens(t *testing.T) {
	store := fakeapi.NewStore()
	seeded, err := fakeapi.Seed(store)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, logSeedTokens(zerolog.New(buf), []byte(testSecret), time.Minute, seeded))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[0], seeded.Admin.ID)
	require.Contains(t, lines[0], `"token":"`)
}

func TestWithCORSPreflight(t *testing.T) {
	h := withCORS([]string{"http://localhost:3000"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
