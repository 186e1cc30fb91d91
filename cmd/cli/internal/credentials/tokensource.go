package credentials

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// ErrTokenExpired is returned when a profile's stored token has expired.
var ErrTokenExpired = errors.New("token expired")

// NewTokenSource returns an oauth2.TokenSource that reads the profile's
// token from the store. The token is cached until it expires.
func NewTokenSource(store *Store, profile string) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &profileTokenSource{store: store, profile: profile, now: time.Now})
}

type profileTokenSource struct {
	store   *Store
	profile string
	now     func() time.Time
}

func (ts *profileTokenSource) Token() (*oauth2.Token, error) {
	raw, err := ts.store.LoadToken(ts.profile)
	if err != nil {
		return nil, err
	}

	info, err := Inspect(raw)
	if err != nil {
		return nil, err
	}

	if !info.ExpiresAt.IsZero() && !ts.now().Before(info.ExpiresAt) {
		return nil, fmt.Errorf("%w: profile %q expired %s, store a new one with: mentorhub profiles token %s <token>",
			ErrTokenExpired, ts.profile, info.ExpiresAt.Format(time.RFC3339), ts.profile)
	}

	log.Debug().
		Str("profile", ts.profile).
		Str("fingerprint", info.Fingerprint).
		Time("expiry", info.ExpiresAt).
		Msg("loaded profile token")

	return &oauth2.Token{AccessToken: raw, TokenType: "Bearer", Expiry: info.ExpiresAt}, nil
}
