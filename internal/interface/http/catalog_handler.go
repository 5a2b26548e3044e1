package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-medicine-tracker/internal/application"
	"github.com/oksasatya/go-medicine-tracker/internal/interface/middleware"
	"github.com/oksasatya/go-medicine-tracker/pkg/response"
)

type CatalogHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewCatalogHandler(svc *application.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

func queryInt(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}

// List GET /api/global-medicines?limit=&offset=
func (h *CatalogHandler) List(c *gin.Context) {
	gs, err := h.Svc.List(c.Request.Context(), queryInt(c, "limit"), queryInt(c, "offset"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, nonNilCatalog(gs), "global medicines", response.ListMeta{Count: len(gs)})
}

func (h *CatalogHandler) Get(c *gin.Context) {
	g, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, g, "global medicine", nil)
}

// Search GET /api/global-medicines/search?q=
func (h *CatalogHandler) Search(c *gin.Context) {
	gs, err := h.Svc.Search(c.Request.Context(), c.Query("q"), queryInt(c, "limit"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, nonNilCatalog(gs), "search results", response.ListMeta{Count: len(gs)})
}

// ByCategory GET /api/global-medicines/category/:category
func (h *CatalogHandler) ByCategory(c *gin.Context) {
	gs, err := h.Svc.ByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, nonNilCatalog(gs), "global medicines", response.ListMeta{Count: len(gs)})
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req globalMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	g, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), req.toEntity())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, g, "global medicine created", nil)
}

func (h *CatalogHandler) Update(c *gin.Context) {
	var req globalMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	g, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.toEntity())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, g, "global medicine updated", nil)
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
