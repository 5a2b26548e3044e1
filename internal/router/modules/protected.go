package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-medicine-tracker/internal/container"
	"github.com/oksasatya/go-medicine-tracker/internal/interface/middleware"
)

// protected is the middleware stack of every authenticated group: the auth
// gate, then a soft per-IP limit and a per-user limit.
func protected() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		middleware.RequireAuth(),
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	}
}
