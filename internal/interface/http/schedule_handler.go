package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-medicine-tracker/internal/application"
	"github.com/oksasatya/go-medicine-tracker/internal/interface/middleware"
	"github.com/oksasatya/go-medicine-tracker/pkg/response"
)

type ScheduleHandler struct {
	Svc    *application.ScheduleService
	Logger *logrus.Logger
}

func NewScheduleHandler(svc *application.ScheduleService, logger *logrus.Logger) *ScheduleHandler {
	return &ScheduleHandler{Svc: svc, Logger: logger}
}

// Create POST /api/medicines/:id/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	s, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.toInput())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toScheduleResponse(s), "schedule created", nil)
}

func (h *ScheduleHandler) list(c *gin.Context, q application.ScheduleQuery) {
	q.IncludeInactive = queryBool(c, "include_inactive")
	ss, err := h.Svc.List(c.Request.Context(), middleware.UserID(c), q)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toScheduleResponses(ss), "schedules", response.ListMeta{Count: len(ss)})
}

// ListByMedicine GET /api/medicines/:id/schedules
func (h *ScheduleHandler) ListByMedicine(c *gin.Context) {
	h.list(c, application.ScheduleQuery{MedicineID: c.Param("id")})
}

// ListByProfile GET /api/profiles/:id/schedules
func (h *ScheduleHandler) ListByProfile(c *gin.Context) {
	h.list(c, application.ScheduleQuery{ProfileID: c.Param("id")})
}

// List GET /api/schedules
func (h *ScheduleHandler) List(c *gin.Context) {
	h.list(c, application.ScheduleQuery{})
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	s, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toScheduleResponse(s), "schedule", nil)
}

// Update PUT /api/schedules/:id; absent fields are left unchanged.
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req schedulePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	s, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.toPatch())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toScheduleResponse(s), "schedule updated", nil)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
