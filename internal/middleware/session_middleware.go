package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"promptadmin-backend-go/internal/auth"
	"promptadmin-backend-go/internal/core"
	"promptadmin-backend-go/internal/models"
)

// Gin context keys set by RequireAdmin for downstream handlers.
const (
	ContextActorIDKey = "actorID"
	ContextActorKey   = "actor"
)

// RequireAdmin gates a route group behind a verified admin session. The token
// is read from the session cookie, with an Authorization bearer fallback for
// non-browser clients. Every request re-reads the user document and re-checks
// the stored role, so a demoted or trashed admin is cut off immediately.
func RequireAdmin(authService core.AuthService) gin.HandlerFunc {
	if authService == nil {
		panic("RequireAdmin requires a non-nil AuthService instance")
	}
	return func(c *gin.Context) {
		rawToken := tokenFromRequest(c)
		if rawToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, err := authService.VerifySession(c.Request.Context(), rawToken)
		if err != nil {
			switch {
			case errors.Is(err, core.ErrNotAdmin):
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			case errors.Is(err, core.ErrUserNotFound):
				// The token checked out but the user document is gone.
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			default:
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			}
			return
		}

		c.Set(ContextActorIDKey, user.ID)
		c.Set(ContextActorKey, user)
		c.Next()
	}
}

// ActorID returns the authenticated admin's user id from the gin context.
func ActorID(c *gin.Context) string {
	if id, ok := c.Get(ContextActorIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// Actor returns the authenticated admin's profile from the gin context.
func Actor(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextActorKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(auth.CookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
