package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-medicine-tracker/internal/container"
	handlers "github.com/oksasatya/go-medicine-tracker/internal/interface/http"
	"github.com/oksasatya/go-medicine-tracker/internal/interface/middleware"
)

type MedicineModule struct {
	Medicines *handlers.MedicineHandler
	Schedules *handlers.ScheduleHandler
}

func NewMedicineModule(m *handlers.MedicineHandler, s *handlers.ScheduleHandler) *MedicineModule {
	return &MedicineModule{Medicines: m, Schedules: s}
}

func (m *MedicineModule) Register(rg *gin.RouterGroup) {
	uploadLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByUserID(), nil)

	g := rg.Group("/medicines")
	g.Use(protected()...)
	{
		g.GET("", m.Medicines.List)
		g.GET("/:id", m.Medicines.Get)
		g.POST("/upload-image", uploadLimiter, m.Medicines.UploadImage)

		g.POST("/:id/schedules", m.Schedules.Create)
		g.GET("/:id/schedules", m.Schedules.ListByMedicine)
	}
}
