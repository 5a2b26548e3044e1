package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-medicine-tracker/internal/application"
	"github.com/oksasatya/go-medicine-tracker/internal/infrastructure/memory"
	"github.com/oksasatya/go-medicine-tracker/pkg/helpers"
)

type authFixture struct {
	auth    *application.AuthService
	revoke  *application.RevocationService
	engine  *gin.Engine
	token   string
	userID  string
	expires time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()
	jwt, err := helpers.NewJWTManager("middleware-secret-middleware-secret", time.Hour)
	require.NoError(t, err)

	st := memory.NewStore()
	f := &authFixture{
		auth:   application.NewAuthService(st.Users(), jwt, logger),
		revoke: application.NewRevocationService(st.RevokedTokens(), logger),
	}
	res, err := f.auth.Register(context.Background(), "ada@example.com", "password1")
	require.NoError(t, err)
	f.token, f.userID, f.expires = res.Token, res.UserID, res.ExpiresAt

	r := gin.New()
	r.Use(Authenticate(f.auth, f.revoke, logger))
	whoami := func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		ctxID, _ := IdentityFromContext(c.Request.Context())
		c.String(http.StatusOK, id.UserID+"|"+ctxID.Email+"|"+c.GetString(CtxUserIDKey))
	}
	r.GET("/open", whoami)
	r.GET("/api/auth/ping", whoami)
	r.GET("/api/global-medicines", whoami)
	r.POST("/api/global-medicines", whoami)
	r.GET("/api/private", RequireAuth(), whoami)
	f.engine = r
	return f
}

func (f *authFixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestIsPublic(t *testing.T) {
	cases := []struct {
		method, path string
		want         bool
	}{
		{http.MethodGet, "/", true},
		{http.MethodGet, "/health", true},
		{http.MethodPost, "/api/auth/login", true},
		{http.MethodGet, "/api/global-medicines", true},
		{http.MethodHead, "/api/global-medicines/search", true},
		{http.MethodPost, "/api/global-medicines", false},
		{http.MethodDelete, "/api/global-medicines/1", false},
		{http.MethodGet, "/api/global-medicines-extra", false},
		{http.MethodGet, "/api/profiles", false},
		{http.MethodGet, "/api/authx", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsPublic(tc.method, tc.path), "%s %s", tc.method, tc.path)
	}
}

func TestAuthenticateSetsIdentity(t *testing.T) {
	f := newAuthFixture(t)

	w := f.do(http.MethodGet, "/open", f.token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, f.userID+"|ada@example.com|"+f.userID, w.Body.String())
}

func TestAuthenticateAnonymousPassesThrough(t *testing.T) {
	f := newAuthFixture(t)

	assert.Equal(t, "anonymous", f.do(http.MethodGet, "/open", "").Body.String())
	assert.Equal(t, "anonymous", f.do(http.MethodGet, "/open", "not-a-jwt").Body.String())
}

func TestAuthenticateSkipsPublicRoutes(t *testing.T) {
	f := newAuthFixture(t)

	assert.Equal(t, "anonymous", f.do(http.MethodGet, "/api/auth/ping", f.token).Body.String())
	assert.Equal(t, "anonymous", f.do(http.MethodGet, "/api/global-medicines", f.token).Body.String())
	assert.Contains(t, f.do(http.MethodPost, "/api/global-medicines", f.token).Body.String(), f.userID)
}

func TestRequireAuth(t *testing.T) {
	f := newAuthFixture(t)

	w := f.do(http.MethodGet, "/api/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_REQUIRED")

	w = f.do(http.MethodGet, "/api/private", f.token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticateRejectsRevokedToken(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.revoke.Revoke(context.Background(), f.token, f.userID, f.expires))

	w := f.do(http.MethodGet, "/open", f.token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestAuthenticateIgnoresTokenAfterPasswordReset(t *testing.T) {
	f := newAuthFixture(t)
	res, err := f.auth.ResetPassword(context.Background(), "ada@example.com", "password2")
	require.NoError(t, err)

	assert.Equal(t, "anonymous", f.do(http.MethodGet, "/open", f.token).Body.String())
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/private", f.token).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/private", res.Token).Code)
}

func TestBearerTokenCaseInsensitiveScheme(t *testing.T) {
	f := newAuthFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "bearer "+f.token)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), f.userID)
}
