package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Xtown-XT/va-erp-sub000/internal/dto"
	"github.com/Xtown-XT/va-erp-sub000/internal/service"
	"github.com/Xtown-XT/va-erp-sub000/pkg/response"
)

// MaintenanceHandler alerts and schedules
type MaintenanceHandler struct {
	schedulerSvc service.SchedulerService
}

// NewMaintenanceHandler creates a MaintenanceHandler
func NewMaintenanceHandler(schedulerSvc service.SchedulerService) *MaintenanceHandler {
	return &MaintenanceHandler{schedulerSvc: schedulerSvc}
}

// ListAlerts fleet-wide due and overdue services
// GET /api/v1/maintenance/alerts
func (h *MaintenanceHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.schedulerSvc.ComputeMaintenanceAlerts(c.Request.Context())
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OK(c, gin.H{"list": alerts})
}

// AssetAlerts GET /api/v1/assets/:id/alerts
func (h *MaintenanceHandler) AssetAlerts(c *gin.Context) {
	alerts, err := h.schedulerSvc.ComputeAssetAlerts(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OK(c, gin.H{"list": alerts})
}

// ReplaceSchedule PUT /api/v1/assets/:id/schedule
func (h *MaintenanceHandler) ReplaceSchedule(c *gin.Context) {
	var req dto.ReplaceScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 20001, "invalid parameters", err.Error())
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	schedule, err := h.schedulerSvc.ReplaceSchedule(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OK(c, schedule)
}
