package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid indicates a token that failed signature or claims validation.
var ErrTokenInvalid = errors.New("admin token: invalid")

// AdminClaims are the registered claims carried by administrative tokens.
type AdminClaims struct {
	Subject string `json:"sub"`
	jwt.RegisteredClaims
}

// AdminTokenManager issues and verifies HS256 bearer tokens for the
// administrative API.
type AdminTokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewAdminTokenManager(secret string, ttl time.Duration) *AdminTokenManager {
	return &AdminTokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue mints a token for the supplied administrative subject.
func (m *AdminTokenManager) Issue(subject string, now time.Time) (string, error) {
	claims := AdminClaims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
func (m *AdminTokenManager) Verify(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
