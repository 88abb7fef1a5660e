package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	claimUsername    = "username"
	claimIsAdmin     = "isAdmin"
	claimIdentityKey = "sub"
)

// SessionClaims is what a bearer token asserts about its holder. Tokens are not
// stored server-side; the signature and expiry are the whole session.
type SessionClaims struct {
	Username    string
	IsAdmin     bool
	IdentityKey string // empty for the local admin path
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// TokenManager issues and verifies HS256 tokens with a single server secret.
type TokenManager struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{
		auth: jwtauth.New("HS256", secret, nil),
		ttl:  ttl,
		now:  time.Now,
	}
}

// JWTAuth exposes the verifier for jwtauth.Verifier on the router.
func (m *TokenManager) JWTAuth() *jwtauth.JWTAuth {
	return m.auth
}

// Issue signs a token for the given identity, valid for the manager's TTL.
func (m *TokenManager) Issue(username string, isAdmin bool, identityKey string) (string, error) {
	if username == "" {
		return "", errors.New("security: refusing to issue token without username")
	}
	now := m.now()
	claims := jwt.MapClaims{
		claimUsername: username,
		claimIsAdmin:  isAdmin,
		"jti":         uuid.NewString(),
		"iat":         now.Unix(),
		"exp":         now.Add(m.ttl).Unix(),
	}
	if identityKey != "" {
		claims[claimIdentityKey] = identityKey
	}
	_, tokenString, err := m.auth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("security: sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature and expiry, then extracts the session claims. It is the
// same path the router's Verifier takes; there is no unverified decode.
func (m *TokenManager) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwtauth.VerifyToken(m.auth, tokenString)
	if err != nil {
		return nil, err
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		return nil, err
	}
	return SessionFromClaims(claims)
}

// SessionFromClaims reads the session fields out of an already verified claim set.
func SessionFromClaims(claims map[string]interface{}) (*SessionClaims, error) {
	username, ok := claims[claimUsername].(string)
	if !ok || username == "" {
		return nil, errors.New("username claim is missing or not a string")
	}
	isAdmin, ok := claims[claimIsAdmin].(bool)
	if !ok {
		return nil, errors.New("isAdmin claim is missing or not a boolean")
	}
	session := &SessionClaims{Username: username, IsAdmin: isAdmin}
	if sub, ok := claims[claimIdentityKey].(string); ok {
		session.IdentityKey = sub
	}
	if iat, ok := claims["iat"].(time.Time); ok {
		session.IssuedAt = iat
	}
	if exp, ok := claims["exp"].(time.Time); ok {
		session.ExpiresAt = exp
	}
	return session, nil
}
