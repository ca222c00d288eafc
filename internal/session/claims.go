package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token fields the client reads. The client never holds the
// signing secret, so tokens are decoded without verification.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// ParseClaims decodes a JWT without verifying its signature.
func ParseClaims(token string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, err
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid token claims")
	}

	var c Claims
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if sub, err := mc.GetSubject(); err == nil && sub != "" {
		c.Subject = sub
	} else if id, ok := mc["id"].(string); ok {
		c.Subject = id
	}
	if role, ok := mc["role"].(string); ok {
		c.Role = role
	}
	return c, nil
}

// Expired reports whether the token carries an exp claim before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
