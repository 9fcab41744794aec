// tokens.go - Bearer token issuance and verification.
//
// Tokens are HS256-signed JWTs binding a user identity for a fixed validity
// window. The signing secret is process-wide, set once at startup, and never
// rotated; verification is stateless, so a restart revokes nothing.
package server

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	errTokenMissing = errors.New("token missing")
	errTokenInvalid = errors.New("token invalid")
	errTokenExpired = errors.New("token expired")
)

// AuthConfig holds the signing secret and validity window for bearer tokens.
// Unit tests can construct this directly.
type AuthConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

func (a AuthConfig) ttl() time.Duration {
	if a.TokenTTL <= 0 {
		return time.Hour
	}
	return a.TokenTTL
}

func (a AuthConfig) secretBytes() []byte {
	return []byte(a.TokenSecret)
}

// issueToken signs a token for userID, valid from now until now+TTL.
func (a AuthConfig) issueToken(userID string) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(a.ttl())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(a.secretBytes())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// verifyToken checks signature and expiry and returns the bound user ID.
// Failures collapse to errTokenInvalid except expiry, which is reported as
// errTokenExpired so callers can distinguish the two.
func (a AuthConfig) verifyToken(tokenString string) (string, error) {
	claims := &tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errTokenInvalid
		}
		return a.secretBytes(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errTokenExpired
		}
		return "", errTokenInvalid
	}

	if !token.Valid || claims.UserID == "" {
		return "", errTokenInvalid
	}
	return claims.UserID, nil
}
