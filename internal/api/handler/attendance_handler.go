package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Xtown-XT/va-erp-sub000/internal/dto"
	"github.com/Xtown-XT/va-erp-sub000/internal/service"
	"github.com/Xtown-XT/va-erp-sub000/pkg/response"
)

// AttendanceHandler attendance HTTP handler
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler creates an AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// Upsert one (employee, date) record
// POST /api/v1/attendance
func (h *AttendanceHandler) Upsert(c *gin.Context) {
	var req dto.UpsertAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 20001, "invalid parameters", err.Error())
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.attendanceSvc.Upsert(c.Request.Context(), &req, callerID)
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OK(c, record)
}

// UpsertBatch many workers for one date
// POST /api/v1/attendance/batch
func (h *AttendanceHandler) UpsertBatch(c *gin.Context) {
	var req dto.BatchAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 20001, "invalid parameters", err.Error())
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	summary, err := h.attendanceSvc.UpsertBatch(c.Request.Context(), &req, callerID)
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OK(c, summary)
}
