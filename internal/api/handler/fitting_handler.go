package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Xtown-XT/va-erp-sub000/internal/dto"
	"github.com/Xtown-XT/va-erp-sub000/internal/service"
	"github.com/Xtown-XT/va-erp-sub000/pkg/response"
)

// FittingHandler item fit/remove HTTP handler
type FittingHandler struct {
	fittingSvc service.FittingService
}

// NewFittingHandler creates a FittingHandler
func NewFittingHandler(fittingSvc service.FittingService) *FittingHandler {
	return &FittingHandler{fittingSvc: fittingSvc}
}

// FitItem POST /api/v1/fittings
func (h *FittingHandler) FitItem(c *gin.Context) {
	var req dto.FitItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 20001, "invalid parameters", err.Error())
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.fittingSvc.FitItem(c.Request.Context(), &req, callerID)
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.Created(c, record)
}

// RemoveItem POST /api/v1/fittings/:id/remove
func (h *FittingHandler) RemoveItem(c *gin.Context) {
	var req dto.RemoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 20001, "invalid parameters", err.Error())
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.fittingSvc.RemoveItem(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OK(c, record)
}

// List GET /api/v1/fittings?asset_id=&status=
func (h *FittingHandler) List(c *gin.Context) {
	var req dto.FittingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 20001, "invalid parameters", err.Error())
		return
	}

	records, err := h.fittingSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OK(c, gin.H{"list": records})
}
