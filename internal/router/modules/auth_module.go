package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-medicine-tracker/internal/container"
	handlers "github.com/oksasatya/go-medicine-tracker/internal/interface/http"
	"github.com/oksasatya/go-medicine-tracker/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/forgot-password", resetLimiter, m.Handler.ForgotPassword)

	auth := rg.Group("/")
	auth.Use(protected()...)
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}
