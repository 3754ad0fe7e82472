package ports

import (
	"github.com/chatly/user-service/internal/core/domain/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims is the minimal identity embedded in a session token.
// Tokens are stateless and never persisted server-side; there is no
// revocation, only expiry.
type SessionClaims struct {
	UserID uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer produces and verifies signed, time-bound session credentials.
type TokenIssuer interface {
	Issue(u *user.User) (string, error)
	Verify(token string) (*SessionClaims, error)
}
