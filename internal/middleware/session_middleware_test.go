package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptadmin-backend-go/internal/auth"
	"promptadmin-backend-go/internal/core"
	"promptadmin-backend-go/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthService struct {
	user      *models.User
	err       error
	lastToken string
}

func (s *stubAuthService) Login(context.Context, string, string, string, map[string]string) (*core.LoginResult, error) {
	return nil, core.ErrInvalidCredentials
}

func (s *stubAuthService) VerifySession(_ context.Context, rawToken string) (*models.User, error) {
	s.lastToken = rawToken
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func newGatedRouter(svc core.AuthService) *gin.Engine {
	router := gin.New()
	router.GET("/protected", RequireAdmin(svc), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"actorId": ActorID(c)})
	})
	return router
}

func TestRequireAdminAcceptsCookie(t *testing.T) {
	svc := &stubAuthService{user: &models.User{ID: "admin-1", Role: models.RoleAdmin}}
	router := newGatedRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "cookie-token"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cookie-token", svc.lastToken)
	assert.Contains(t, w.Body.String(), "admin-1")
}

func TestRequireAdminAcceptsBearerFallback(t *testing.T) {
	svc := &stubAuthService{user: &models.User{ID: "admin-1", Role: models.RoleAdmin}}
	router := newGatedRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "header-token", svc.lastToken)
}

func TestRequireAdminPrefersCookieOverHeader(t *testing.T) {
	svc := &stubAuthService{user: &models.User{ID: "admin-1", Role: models.RoleAdmin}}
	router := newGatedRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cookie-token", svc.lastToken)
}

func TestRequireAdminRejections(t *testing.T) {
	cases := []struct {
		name       string
		token      string
		verifyErr  error
		wantStatus int
	}{
		{"no token at all", "", nil, http.StatusUnauthorized},
		{"invalid token", "garbage", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"deleted user", "stale", core.ErrUserNotFound, http.StatusNotFound},
		{"not an admin", "demoted", core.ErrNotAdmin, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubAuthService{
				user: &models.User{ID: "admin-1", Role: models.RoleAdmin},
				err:  tc.verifyErr,
			}
			router := newGatedRouter(svc)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.token != "" {
				req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tc.token})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestActorHelpersOutsideGate(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, ActorID(c))
	assert.Nil(t, Actor(c))
}
