package controllers

import (
	"net/http"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/services"
	"github.com/gin-gonic/gin"
)

type HealthController struct {
	service services.HealthService
}

func NewHealthController(service services.HealthService) *HealthController {
	return &HealthController{service: service}
}

// Health handles GET /health. It answers 503 when a critical dependency is down.
func (hc *HealthController) Health(c *gin.Context) {
	report := hc.service.Check(c.Request.Context())
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
