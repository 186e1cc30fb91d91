package logger

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-Id"

func Setup(dev bool) zerolog.Logger {
	return SetupWriter(os.Stderr, dev)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, dev bool) zerolog.Logger {
	var logger zerolog.Logger
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger = zerolog.New(w).Level(level).With().Timestamp().Caller().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(level).With().Stack().Logger()
	}

	return logger
}

var _ http.RoundTripper = (*Transport)(nil)

// Transport logs every API request made through it.
type Transport struct {
	next   http.RoundTripper
	logger zerolog.Logger
}

func NewTransport(next http.RoundTripper, logger zerolog.Logger) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Transport{next: next, logger: logger}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()

	l := t.logger.With().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("request_id", req.Header.Get(RequestIDHeader)).
		Logger()

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		l.Error().
			Err(err).
			Dur("duration", time.Since(started)).
			Msg("api request")

		return resp, err
	}

	ev := l.Info()
	if resp.StatusCode >= http.StatusBadRequest {
		ev = l.Warn()
	}

	ev.Int("status", resp.StatusCode).
		Bool("from_cache", resp.Header.Get("X-From-Cache") != "").
		Dur("duration", time.Since(started)).
		Msg("api request")

	return resp, nil
}
