package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wolfeidau/mentorhub/internal/models"
)

// Issuer identifies tokens minted for the platform API.
const Issuer = "mentorhub"

// Claims are the JWT claims carried by API bearer tokens.
type Claims struct {
	jwt.RegisteredClaims
	Role  models.Role `json:"role"`
	Name  string      `json:"name,omitempty"`
	Email string      `json:"email,omitempty"`
}

// IssueToken creates an HS256 token for user with the given lifetime.
func IssueToken(secret []byte, user models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    Issuer,
		},
		Role:  user.Role,
		Name:  user.FullName,
		Email: user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
