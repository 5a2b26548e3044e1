package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-medicine-tracker/internal/application"
	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	"github.com/oksasatya/go-medicine-tracker/pkg/response"
)

const (
	CtxUserIDKey   = "userID"
	CtxIdentityKey = "identity"
)

type identityCtxKey struct{}

// IdentityFromContext returns the identity stored by Authenticate, if any.
func IdentityFromContext(ctx context.Context) (*entity.Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(*entity.Identity)
	return id, ok
}

// IdentityFrom returns the caller's identity from the Gin context.
func IdentityFrom(c *gin.Context) (*entity.Identity, bool) {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*entity.Identity)
	return id, ok
}

// UserID returns the caller's user id or "".
func UserID(c *gin.Context) string {
	if id, ok := IdentityFrom(c); ok {
		return id.UserID
	}
	return ""
}

// IsPublic reports whether a request skips token processing: the health
// endpoints, everything under /api/auth/, and catalog reads.
func IsPublic(method, path string) bool {
	switch {
	case path == "/" || path == "/health":
		return true
	case strings.HasPrefix(path, "/api/auth/"):
		return true
	case path == "/api/global-medicines" || strings.HasPrefix(path, "/api/global-medicines/"):
		return method == http.MethodGet || method == http.MethodHead
	}
	return false
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// Authenticate resolves the bearer token into an identity. It never rejects
// a request for a missing or invalid token; RequireAuth does that on
// protected groups. A revoked token is rejected outright.
func Authenticate(auth *application.AuthService, revocations *application.RevocationService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsPublic(c.Request.Method, c.Request.URL.Path) {
			c.Next()
			return
		}
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		revoked, err := revocations.IsRevoked(ctx, token)
		if err != nil {
			logger.WithError(err).Error("revocation lookup failed")
			response.Error(c, http.StatusInternalServerError, "internal server error", response.ErrorBody{Code: "INTERNAL"})
			return
		}
		if revoked {
			response.Error(c, http.StatusUnauthorized, "token has been revoked", response.ErrorBody{Code: "TOKEN_REVOKED"})
			return
		}

		id, err := auth.Identify(ctx, token)
		if err != nil {
			if !errors.Is(err, application.ErrInvalidToken) {
				logger.WithError(err).Warn("token identification failed")
			}
			c.Next()
			return
		}

		c.Set(CtxIdentityKey, id)
		c.Set(CtxUserIDKey, id.UserID)
		c.Request = c.Request.WithContext(context.WithValue(ctx, identityCtxKey{}, id))
		c.Next()
	}
}

// RequireAuth rejects requests that Authenticate left anonymous.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c); !ok {
			response.Error(c, http.StatusUnauthorized, application.ErrAuthRequired.Error(), response.ErrorBody{Code: "AUTH_REQUIRED"})
			return
		}
		c.Next()
	}
}
