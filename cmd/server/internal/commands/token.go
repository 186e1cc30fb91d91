package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wolfeidau/mentorhub/internal/auth"
	"github.com/wolfeidau/mentorhub/internal/models"
)

var stdout io.Writer = os.Stdout

// TokenCmd signs a bearer token for an existing user id. Combine with the
// ids logged by serve to script against a running dev server.
type TokenCmd struct {
	Secret string        `help:"HMAC secret shared with the server" required:"" env:"MENTORHUB_SERVER_SECRET"`
	UserID string        `help:"User id (sub claim)" required:""`
	Role   string        `help:"Platform role" enum:"admin,mentor,learner,user" default:"learner"`
	Name   string        `help:"Display name"`
	Email  string        `help:"Email address"`
	TTL    time.Duration `help:"Token lifetime" default:"24h"`
}

func (c *TokenCmd) Run(ctx context.Context, globals *Globals) error {
	if len(c.Secret) < 32 {
		return errors.New("secret must be at least 32 bytes")
	}
	tok, err := auth.IssueToken([]byte(c.Secret), models.User{
		ID:       c.UserID,
		Role:     models.Role(c.Role),
		FullName: c.Name,
		Email:    c.Email,
	}, c.TTL)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	fmt.Fprintln(stdout, tok)
	return nil
}
