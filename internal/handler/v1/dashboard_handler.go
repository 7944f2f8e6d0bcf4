package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/healthsys/clinic-api/internal/service"
)

type DashboardHandler struct {
	dashboardSvc *service.DashboardService
}

func NewDashboardHandler(dashboardSvc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardSvc.Summary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, summary)
}
