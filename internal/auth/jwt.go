// Package auth issues and checks sessions: bcrypt passwords, HS256 tokens
// backed by a revocable session record, and role-based dashboard routing.
package auth

import (
	"errors"
	"fmt"
	"time"

	"ethereal/backend/internal/config"
	"ethereal/backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "ethereal-nexus"

// Claims are the JWT claims embedded in each session token.
// ID (the jti) names the session record that sign-out revokes.
type Claims struct {
	UserID string           `json:"user_id"`
	Roles  []models.AppRole `json:"roles"`
	jwt.RegisteredClaims
}

// Elevated reports whether the token carries a staff role.
func (c *Claims) Elevated() bool {
	return IsElevated(c.Roles)
}

// GenerateToken signs a new token for the user and returns it with its claims.
func GenerateToken(userID string, roles []models.AppRole, secret string, now time.Time) (string, *Claims, error) {
	claims := &Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(config.SessionDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// ParseToken checks the signature and expiry and returns the claims.
func ParseToken(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		// Reject "alg:none" and asymmetric tokens.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
