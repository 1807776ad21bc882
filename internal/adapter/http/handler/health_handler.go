package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/hatecheck/internal/domain/service"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	classifier service.HealthChecker
}

// NewHealthHandler creates a new health handler.
// A nil checker reports the classifier as not configured.
func NewHealthHandler(classifier service.HealthChecker) *HealthHandler {
	return &HealthHandler{
		classifier: classifier,
	}
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string)
	healthy := true

	if h.classifier != nil {
		if err := h.classifier.Ping(ctx); err != nil {
			components["classifier"] = "error: " + err.Error()
			healthy = false
		} else {
			components["classifier"] = "ok"
		}
	} else {
		components["classifier"] = "not configured"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthStatus{
		Status:     status,
		Components: components,
	})
}

// Ready handles GET /ready.
// The service can serve pages without the classifier, so readiness only
// reflects whether the process accepts requests.
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
