package credentials

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"
	"github.com/wolfeidau/mentorhub/internal/auth"
)

// ErrInvalidToken is returned when a token cannot be parsed as a JWT.
var ErrInvalidToken = errors.New("invalid token")

// TokenInfo is what the CLI can learn from a bearer token without the
// signing secret.
type TokenInfo struct {
	Fingerprint string
	Subject     string
	Role        string
	Name        string
	Email       string
	Issuer      string
	ExpiresAt   time.Time
}

// Inspect parses token without verifying its signature. The server remains
// the authority on validity; this only feeds display and expiry checks.
func Inspect(token string) (*TokenInfo, error) {
	claims := &auth.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	info := &TokenInfo{
		Fingerprint: Fingerprint(token),
		Subject:     claims.Subject,
		Role:        string(claims.Role),
		Name:        claims.Name,
		Email:       claims.Email,
		Issuer:      claims.Issuer,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}

	return info, nil
}

// Fingerprint is the base58 encoded SHA-256 of token, safe to display.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base58.Encode(sum[:])
}

func (i *TokenInfo) apply(p *Profile) {
	p.Fingerprint = i.Fingerprint
	p.Subject = i.Subject
	p.Role = i.Role
	p.Email = i.Email
	p.ExpiresAt = i.ExpiresAt
}
