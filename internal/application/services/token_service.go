package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chatly/user-service/configs"
	"github.com/chatly/user-service/internal/core/domain/user"
	"github.com/chatly/user-service/internal/core/ports"
)

// TokenService implements ports.TokenIssuer with HS256 JWTs. Tokens are
// stateless; compromise mitigation relies solely on the configured expiry.
type TokenService struct {
	cfg *configs.JWTConfig
}

func NewTokenService(cfg *configs.JWTConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

func (s *TokenService) Issue(u *user.User) (string, error) {
	now := time.Now()
	claims := &ports.SessionClaims{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Verify(tokenString string) (*ports.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ports.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC (prevent alg confusion)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*ports.SessionClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
