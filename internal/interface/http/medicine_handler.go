package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-medicine-tracker/internal/application"
	"github.com/oksasatya/go-medicine-tracker/internal/interface/middleware"
	"github.com/oksasatya/go-medicine-tracker/pkg/response"
)

type MedicineHandler struct {
	Svc    *application.MedicineService
	Logger *logrus.Logger
}

func NewMedicineHandler(svc *application.MedicineService, logger *logrus.Logger) *MedicineHandler {
	return &MedicineHandler{Svc: svc, Logger: logger}
}

func queryBool(c *gin.Context, key string) bool {
	b, _ := strconv.ParseBool(c.Query(key))
	return b
}

// Create POST /api/profiles/:id/medicines
func (h *MedicineHandler) Create(c *gin.Context) {
	var req medicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	m, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.toInput())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toMedicineResponse(m), "medicine created", nil)
}

// ListByProfile GET /api/profiles/:id/medicines
func (h *MedicineHandler) ListByProfile(c *gin.Context) {
	ms, err := h.Svc.List(c.Request.Context(), middleware.UserID(c), application.MedicineQuery{
		ProfileID:       c.Param("id"),
		IncludeInactive: queryBool(c, "include_inactive"),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toMedicineResponses(ms), "medicines", response.ListMeta{Count: len(ms)})
}

// List GET /api/medicines[?with_profile=true][&include_inactive=true]
func (h *MedicineHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	uid := middleware.UserID(c)
	if queryBool(c, "with_profile") {
		ms, err := h.Svc.ListWithProfile(ctx, uid)
		if err != nil {
			fail(c, h.Logger, err)
			return
		}
		response.Success(c, http.StatusOK, toMedicineWithProfileResponses(ms), "medicines", response.ListMeta{Count: len(ms)})
		return
	}
	ms, err := h.Svc.List(ctx, uid, application.MedicineQuery{IncludeInactive: queryBool(c, "include_inactive")})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toMedicineResponses(ms), "medicines", response.ListMeta{Count: len(ms)})
}

// Get GET /api/medicines/:id
func (h *MedicineHandler) Get(c *gin.Context) {
	m, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"), queryBool(c, "include_inactive"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toMedicineResponse(m), "medicine", nil)
}

// Update PUT /api/profiles/:id/medicines/:medicineId
func (h *MedicineHandler) Update(c *gin.Context) {
	var req medicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	m, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("medicineId"), req.toInput())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toMedicineResponse(m), "medicine updated", nil)
}

// Delete DELETE /api/profiles/:id/medicines/:medicineId
func (h *MedicineHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("medicineId")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TakeDose POST /api/profiles/:id/medicines/:medicineId/takedose
func (h *MedicineHandler) TakeDose(c *gin.Context) {
	m, err := h.Svc.TakeDose(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("medicineId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toMedicineResponse(m), "dose taken", nil)
}

// UploadImage POST /api/medicines/upload-image (multipart field "medicineImage")
func (h *MedicineHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("medicineImage")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "medicineImage file is required", response.ErrorBody{Code: "VALIDATION_FAILED"})
		return
	}
	if fh.Size > application.MaxImageSize {
		response.Error(c, http.StatusRequestEntityTooLarge, "image exceeds 5 MiB", response.ErrorBody{Code: "VALIDATION_FAILED"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, application.MaxImageSize+1))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}

	url, err := h.Svc.UploadImage(c.Request.Context(), middleware.UserID(c), data, ct)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"image_url": url}, "image uploaded", nil)
}
