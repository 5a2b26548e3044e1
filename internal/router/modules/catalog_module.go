package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-medicine-tracker/internal/container"
	handlers "github.com/oksasatya/go-medicine-tracker/internal/interface/http"
	"github.com/oksasatya/go-medicine-tracker/internal/interface/middleware"
)

// CatalogModule serves the shared medicine catalog.
// Public: GET /api/global-medicines[/search|/category/:category|/:id]
// Protected: POST, PUT /:id, DELETE /:id
type CatalogModule struct {
	Handler *handlers.CatalogHandler
}

func NewCatalogModule(h *handlers.CatalogHandler) *CatalogModule {
	return &CatalogModule{Handler: h}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)

	g := rg.Group("/global-medicines")
	g.GET("", readLimiter, m.Handler.List)
	g.GET("/search", readLimiter, m.Handler.Search)
	g.GET("/category/:category", readLimiter, m.Handler.ByCategory)
	g.GET("/:id", readLimiter, m.Handler.Get)

	auth := g.Group("")
	auth.Use(protected()...)
	{
		auth.POST("", m.Handler.Create)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
