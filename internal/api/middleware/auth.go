// Package middleware holds the gin middleware shared by the API and page routes.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ethereal/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie carries the token for page routes.
	SessionCookie = "session"

	claimsKey = "auth_claims"
)

// Authenticator validates a session token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// TokenFromRequest reads "Authorization: Bearer <token>", then the session cookie.
func TokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// Authenticate rejects requests without a live session with 401.
// A session already attached by OptionalAuth is reused.
func Authenticate(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ClaimsFrom(c); ok {
			c.Next()
			return
		}
		claims, err := a.Authenticate(c.Request.Context(), TokenFromRequest(c))
		if err != nil {
			kind := "unauthenticated"
			if errors.Is(err, auth.ErrSessionRevoked) {
				kind = "session_revoked"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": kind})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalAuth attaches the session when there is a valid one and never rejects.
func OptionalAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := TokenFromRequest(c); token != "" {
			if claims, err := a.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(claimsKey, claims)
			}
		}
		c.Next()
	}
}

// RequireElevated lets only staff roles through. Must run after Authenticate.
func RequireElevated() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		if !claims.Elevated() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the session attached by Authenticate or OptionalAuth.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}
