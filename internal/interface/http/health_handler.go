package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-medicine-tracker/pkg/response"
)

// Check reports the health of one dependency.
type Check func(ctx context.Context) error

type HealthHandler struct {
	Service string
	Version string
	Checks  map[string]Check
}

func NewHealthHandler(service, version string, checks map[string]Check) *HealthHandler {
	return &HealthHandler{Service: service, Version: version, Checks: checks}
}

type healthResponse struct {
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Health GET / and GET /health
// A failing dependency degrades the status but still answers 200.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	res := healthResponse{Service: h.Service, Version: h.Version, Status: "UP"}
	if len(h.Checks) > 0 {
		res.Dependencies = make(map[string]string, len(h.Checks))
		for name, check := range h.Checks {
			if err := check(ctx); err != nil {
				res.Dependencies[name] = "DOWN"
				res.Status = "DEGRADED"
				continue
			}
			res.Dependencies[name] = "UP"
		}
	}
	response.Success(c, http.StatusOK, res, "ok", nil)
}
