package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mentorhub/internal/models"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testUser() models.User {
	return models.User{ID: "u-1", FullName: "Ada Lovelace", Email: "ada@example.com", Role: models.RoleMentor}
}

func TestIssueAndVerify(t *testing.T) {
	tok, err := IssueToken(testSecret, testUser(), time.Hour)
	require.NoError(t, err)

	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	p, err := v.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, &Principal{UserID: "u-1", Role: models.RoleMentor, Name: "Ada Lovelace", Email: "ada@example.com"}, p)
}

func TestVerifierRejectsShortSecret(t *testing.T) {
	_, err := NewVerifier([]byte("short"))
	require.Error(t, err)
}

func TestVerifyRejects(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	expired, err := IssueToken(testSecret, testUser(), -time.Minute)
	require.NoError(t, err)

	otherKey, err := IssueToken([]byte("ffffffffffffffffffffffffffffffff"), testUser(), time.Hour)
	require.NoError(t, err)

	bad := testUser()
	bad.Role = "superuser"
	badRole, err := IssueToken(testSecret, bad, time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: models.RoleAdmin,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong key", otherKey},
		{"unknown role", badRole},
		{"unsigned", none},
		{"garbage", "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func TestMiddleware(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	var seen *Principal
	h := v.Middleware(writeJSONError)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.JSONEq(t, `{"message":"missing bearer token"}`, rec.Body.String())
	})

	t.Run("basic scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.SetBasicAuth("a", "b")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		tok, err := IssueToken(testSecret, testUser(), time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Authorization", "bearer "+tok)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, seen)
		require.Equal(t, "u-1", seen.UserID)
	})
}

func TestStaticMiddleware(t *testing.T) {
	admin := &Principal{UserID: "dev", Role: models.RoleAdmin}
	var seen *Principal
	h := StaticMiddleware(admin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PrincipalFromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Same(t, admin, seen)
}
