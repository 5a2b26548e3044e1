package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-medicine-tracker/internal/interface/http"
)

// UserModule serves the caller's own account.
// Protected: GET /api/users/me, PUT|POST /api/users/fcm-token
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	auth.Use(protected()...)
	{
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/fcm-token", m.Handler.UpdateDeviceToken)
		auth.POST("/fcm-token", m.Handler.UpdateDeviceToken)
	}
}
