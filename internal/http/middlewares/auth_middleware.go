package middlewares

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Small interfaces so tests can fake the pieces easily.

type TokenVerifier interface {
	VerifySessionToken(token string) (*auth.Claims, error)
	HashSessionToken(raw string) string
}

type SessionChecker interface {
	// Active returns the stored token hash for a live session jti.
	Active(ctx context.Context, jti string) (string, error)
}

type UserLoader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AuthMiddleware struct {
	jwt      TokenVerifier
	sessions SessionChecker
	users    UserLoader
}

func NewAuthMiddleware(jwt TokenVerifier, sessions SessionChecker, users UserLoader) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, sessions: sessions, users: users}
}

// RequireAuth resolves the acting identity. A valid signature alone is not
// enough: the token's jti must still be in the user's active session set.
// Every failure mode collapses into the same 401 so callers cannot probe
// which check tripped.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)

		if raw == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := m.jwt.VerifySessionToken(raw)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		storedHash, err := m.sessions.Active(ctx, claims.JTI)
		if err != nil || storedHash != m.jwt.HashSessionToken(raw) {
			abortUnauthorized(c)
			return
		}

		u, err := m.users.GetByID(ctx, claims.UserID)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		// Stash the resolved identity and the raw token for handlers.
		c.Set(CtxUser, u)
		c.Set(CtxUserID, u.ID)
		c.Set(CtxToken, raw)

		c.Next()
	}
}

// bearerToken pulls the credential from the Authorization header, falling
// back to the session cookie.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer")); raw != "" {
			return raw
		}
	}

	cookie, err := c.Cookie("token")
	if err != nil {
		return ""
	}
	return cookie
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  false,
		"message": "Please authenticate",
		"error":   "unauthorized",
	})
}

// Helpers so handlers don't need to know the magic keys.

func UserFromContext(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func TokenFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxToken)
	if !ok {
		return "", false
	}
	t, ok := v.(string)
	return t, ok
}
