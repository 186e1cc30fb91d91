package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/mentorhub/internal/auth"
	"github.com/wolfeidau/mentorhub/internal/fakeapi"
	"github.com/wolfeidau/mentorhub/internal/logger"
	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ServeCmd runs the development backend over an in-memory, seeded store.
type ServeCmd struct {
	Listen string `help:"HTTP server listen address" default:"127.0.0.1:8080" env:"MENTORHUB_SERVER_LISTEN"`
	Cert   string `help:"path to TLS cert file" default:"" env:"MENTORHUB_SERVER_TLS_CERT"`
	Key    string `help:"path to TLS key file" default:"" env:"MENTORHUB_SERVER_TLS_KEY"`

	CORSOrigins []string `help:"allowed CORS origins" default:"http://localhost:3000" env:"MENTORHUB_SERVER_CORS_ORIGINS"`

	// Authentication
	Secret   string        `help:"HMAC secret for bearer tokens, at least 32 bytes" env:"MENTORHUB_SERVER_SECRET"`
	NoAuth   bool          `help:"serve every request as a development admin" env:"MENTORHUB_SERVER_NO_AUTH"`
	TokenTTL time.Duration `help:"lifetime of the tokens printed for seeded users" default:"24h" env:"MENTORHUB_SERVER_TOKEN_TTL"`

	RateLimit float64 `help:"requests per second per client IP, 0 disables" default:"0" env:"MENTORHUB_SERVER_RATE_LIMIT"`
	Burst     int     `help:"rate limit burst" default:"20" env:"MENTORHUB_SERVER_BURST"`
	NoSeed    bool    `help:"start with an empty store" env:"MENTORHUB_SERVER_NO_SEED"`
	Tracing   bool    `help:"enable tracing" default:"false" env:"MENTORHUB_SERVER_TRACING"`

	ShutdownTimeout time.Duration `help:"graceful shutdown timeout" default:"10s"`
}

func (c *ServeCmd) Validate() error {
	if !c.NoAuth && len(c.Secret) < 32 {
		return errors.New("a token secret of at least 32 bytes is required (--secret or MENTORHUB_SERVER_SECRET), or run with --no-auth")
	}
	if (c.Cert == "") != (c.Key == "") {
		return errors.New("TLS needs both --cert and --key")
	}
	return nil
}

func (c *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	if c.Tracing {
		log.Info().Msg("Tracing is enabled")
		shutdown, err := telemetry.InitTelemetry(ctx, "mentorhub-server", globals.Version)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
			shutdown = func(ctx context.Context) error { return nil }
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown telemetry")
			}
		}()
	}

	store := fakeapi.NewStore()
	var seeded *fakeapi.Seeded
	if !c.NoSeed {
		var err error
		seeded, err = fakeapi.Seed(store)
		if err != nil {
			return fmt.Errorf("failed to seed store: %w", err)
		}
	}

	opts := fakeapi.Options{Logger: log, RateLimit: c.RateLimit, Burst: c.Burst}
	if !c.NoAuth {
		v, err := auth.NewVerifier([]byte(c.Secret))
		if err != nil {
			return fmt.Errorf("failed to create token verifier: %w", err)
		}
		opts.Verifier = v
		if seeded != nil {
			if err := logSeedTokens(log, []byte(c.Secret), c.TokenTTL, seeded); err != nil {
				return err
			}
		}
	} else {
		log.Warn().Msg("Authentication disabled, every request runs as a development admin")
	}

	var handler http.Handler = withCORS(c.CORSOrigins, fakeapi.NewRouter(store, opts))
	if c.Tracing {
		handler = otelhttp.NewHandler(handler, "mentorhub-api")
	}

	srv := configureHTTPServer(c.Listen, handler)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", c.Listen).Bool("auth", !c.NoAuth).Bool("tls", c.Cert != "").Msg("Listening")
		if c.Cert != "" {
			errCh <- srv.ListenAndServeTLS(c.Cert, c.Key)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// logSeedTokens prints a ready-to-use token for each seeded account so a
// developer can add CLI profiles without a login flow.
func logSeedTokens(log zerolog.Logger, secret []byte, ttl time.Duration, s *fakeapi.Seeded) error {
	for _, u := range []models.User{s.Admin, s.Mentor, s.Learner, s.Newcomer} {
		tok, err := auth.IssueToken(secret, u, ttl)
		if err != nil {
			return fmt.Errorf("failed to issue token for %s: %w", u.Email, err)
		}
		log.Info().
			Str("user_id", u.ID).
			Str("email", u.Email).
			Str("role", string(u.Role)).
			Str("token", tok).
			Msg("Seeded user")
	}
	return nil
}

// withCORS lets a browser front end on another origin call the API with a
// bearer token and revalidate with ETags.
func withCORS(allowedOrigins []string, h http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "If-None-Match", "X-Request-Id"},
		ExposedHeaders: []string{"ETag", "X-Request-Id", "Retry-After"},
		MaxAge:         300,
	})
	return middleware.Handler(h)
}
