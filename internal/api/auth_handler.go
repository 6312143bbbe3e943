package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"promptadmin-backend-go/internal/auth"
	"promptadmin-backend-go/internal/core"
	"promptadmin-backend-go/internal/models"
)

// AuthHandler handles API endpoints for admin sign-in and session management.
type AuthHandler struct {
	authService core.AuthService
	// secureCookies controls the Secure flag; off only for plain-HTTP local
	// development.
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as core.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: as, secureCookies: secureCookies}
}

// Login handles POST /api/auth/login. On success it sets two cookies with the
// same token: an httpOnly one the browser sends back, and a script-readable
// one the frontend uses to know a session exists.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	deviceID := c.GetHeader("X-Device-ID")
	deviceInfo := map[string]string{
		"userAgent": c.Request.UserAgent(),
		"ip":        c.ClientIP(),
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password, deviceID, deviceInfo)
	if err != nil {
		// No cookies on failure, including the non-admin case.
		mapServiceErrorToStatus(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(auth.CookieName, result.Token, auth.CookieMaxAge, "/", "", h.secureCookies, true)
	c.SetCookie(auth.ClientCookieName, result.Token, auth.CookieMaxAge, "/", "", h.secureCookies, false)

	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Message: "Login successful",
		User:    result.User,
		Token:   result.Token,
	})
}

// Verify handles GET /api/auth/verify. It re-derives identity from the cookie
// (or bearer token) so the frontend can trust its cached session.
func (h *AuthHandler) Verify(c *gin.Context) {
	rawToken, err := c.Cookie(auth.CookieName)
	if err != nil || rawToken == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	user, err := h.authService.VerifySession(c.Request.Context(), rawToken)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotAdmin):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: core.ErrNotAdmin.Error()})
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired session"})
		default:
			// A valid token whose user document no longer exists maps to 404
			// through the shared mapper.
			mapServiceErrorToStatus(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, VerifyResponse{Success: true, User: user})
}

// Logout handles POST /api/auth/logout by expiring both session cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", h.secureCookies, true)
	c.SetCookie(auth.ClientCookieName, "", -1, "/", "", h.secureCookies, false)
	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged out"})
}
