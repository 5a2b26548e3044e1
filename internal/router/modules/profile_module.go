package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-medicine-tracker/internal/interface/http"
)

// ProfileModule owns everything under /api/profiles, including the
// profile-scoped medicine and schedule routes.
type ProfileModule struct {
	Profiles  *handlers.ProfileHandler
	Medicines *handlers.MedicineHandler
	Schedules *handlers.ScheduleHandler
}

func NewProfileModule(p *handlers.ProfileHandler, m *handlers.MedicineHandler, s *handlers.ScheduleHandler) *ProfileModule {
	return &ProfileModule{Profiles: p, Medicines: m, Schedules: s}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/profiles")
	g.Use(protected()...)
	{
		g.POST("", m.Profiles.Create)
		g.GET("", m.Profiles.List)
		g.GET("/:id", m.Profiles.Get)
		g.PUT("/:id", m.Profiles.Update)
		g.DELETE("/:id", m.Profiles.Delete)

		g.POST("/:id/medicines", m.Medicines.Create)
		g.GET("/:id/medicines", m.Medicines.ListByProfile)
		g.PUT("/:id/medicines/:medicineId", m.Medicines.Update)
		g.DELETE("/:id/medicines/:medicineId", m.Medicines.Delete)
		g.POST("/:id/medicines/:medicineId/takedose", m.Medicines.TakeDose)

		g.GET("/:id/schedules", m.Schedules.ListByProfile)
	}
}
