// Package auth signs and verifies the HS256 session tokens the app sends
// as "Authorization: Bearer".
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultIssuer = "makeup-backend"
	sessionTTL    = 24 * time.Hour
	clockSkew     = 30 * time.Second
	devSecret     = "dev-secret"
)

// Claims is the signed-in identity carried by a session token.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

var (
	ErrInvalidToken  = errors.New("invalid token")
	errMissingSecret = errors.New("jwt secret not configured")
)

// SignJWT issues a token for claims.Subject. Issuer, issued-at and expiry
// are filled in when unset.
func SignJWT(claims Claims) (string, error) {
	secret, err := signingSecret()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("subject is required")
	}

	now := time.Now().UTC()
	if claims.Issuer == "" {
		claims.Issuer = issuer()
	}
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(sessionTTL))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyJWT checks signature, issuer and expiry and returns the claims.
// Every failure maps to ErrInvalidToken.
func VerifyJWT(raw string) (Claims, error) {
	secret, err := signingSecret()
	if err != nil {
		return Claims{}, err
	}

	var claims Claims
	_, err = jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer()),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	)
	if err != nil || strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func issuer() string {
	if v := strings.TrimSpace(os.Getenv("MAKEUP_JWT_ISSUER")); v != "" {
		return v
	}
	return defaultIssuer
}

// signingSecret reads JWT_SECRET, falling back to a fixed dev secret
// everywhere except production.
func signingSecret() ([]byte, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret != "" {
		return []byte(secret), nil
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ENV"))) {
	case "production", "prod":
		return nil, fmt.Errorf("%w: JWT_SECRET required in production", errMissingSecret)
	}
	return []byte(devSecret), nil
}
