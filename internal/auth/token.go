// Package auth issues and verifies the signed session tokens used by the
// admin back office. Tokens embed the user id, email and role, but the role
// claim is advisory: every privileged request re-reads the user document and
// checks the stored role.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Cookie names set at login. The http-only cookie authenticates requests; the
// readable twin lets the admin UI know a session exists.
const (
	CookieName       = "admin_token"
	ClientCookieName = "admin_token_client"
)

// TokenTTL is the session token lifetime.
const TokenTTL = 7 * 24 * time.Hour

// CookieMaxAge is TokenTTL in seconds, the cookie max-age set at login.
const CookieMaxAge = int(TokenTTL / time.Second)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the session claims embedded in the signed token.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// NewClaims builds session claims for a user with a fresh 7-day expiry.
func NewClaims(userID, email, role string) *Claims {
	now := time.Now().UTC()
	return &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "promptadmin",
		},
	}
}

// Sign produces the HS256-signed token string for the claims.
func (c *Claims) Sign(secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the signature and expiry of a raw token string and
// returns its claims. Expired or malformed tokens return ErrInvalidToken.
func ParseToken(raw, secret string) (*Claims, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt != nil && time.Now().UTC().After(claims.ExpiresAt.Time) {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}
