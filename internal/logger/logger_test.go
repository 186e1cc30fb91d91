package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestTransportLogsRequest(t *testing.T) {
	var buf bytes.Buffer
	log := SetupWriter(&buf, false)

	rt := NewTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		rec := httptest.NewRecorder()
		rec.WriteHeader(http.StatusNotFound)
		return rec.Result(), nil
	}), log)

	req := httptest.NewRequest(http.MethodGet, "http://api.test/invitations/user", nil)
	req.Header.Set(RequestIDHeader, "req-1")

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "GET", entry["method"])
	require.Equal(t, "/invitations/user", entry["path"])
	require.Equal(t, "req-1", entry["request_id"])
	require.EqualValues(t, 404, entry["status"])
}

func TestTransportLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	log := SetupWriter(&buf, false)

	boom := errors.New("connection refused")
	rt := NewTransport(roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	}), log)

	_, err := rt.RoundTrip(httptest.NewRequest(http.MethodPost, "http://api.test/invitations/i1/cancel", nil))
	require.ErrorIs(t, err, boom)
	require.Contains(t, buf.String(), `"level":"error"`)
	require.Contains(t, buf.String(), "connection refused")
}

func TestSetupLevels(t *testing.T) {
	var buf bytes.Buffer
	require.Equal(t, "info", SetupWriter(&buf, false).GetLevel().String())
	require.Equal(t, "debug", SetupWriter(&buf, true).GetLevel().String())
}
