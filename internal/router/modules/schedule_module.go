package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-medicine-tracker/internal/interface/http"
)

type ScheduleModule struct {
	Handler *handlers.ScheduleHandler
}

func NewScheduleModule(h *handlers.ScheduleHandler) *ScheduleModule {
	return &ScheduleModule{Handler: h}
}

func (m *ScheduleModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/schedules")
	g.Use(protected()...)
	{
		g.GET("", m.Handler.List)
		g.GET("/:id", m.Handler.Get)
		g.PUT("/:id", m.Handler.Update)
		g.DELETE("/:id", m.Handler.Delete)
	}
}
