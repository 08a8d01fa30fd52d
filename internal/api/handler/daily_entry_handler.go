package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Xtown-XT/va-erp-sub000/internal/dto"
	"github.com/Xtown-XT/va-erp-sub000/internal/service"
	pkgerrors "github.com/Xtown-XT/va-erp-sub000/pkg/errors"
	"github.com/Xtown-XT/va-erp-sub000/pkg/response"
)

// DailyEntryHandler daily entry HTTP handler
type DailyEntryHandler struct {
	entrySvc service.DailyEntryService
}

// NewDailyEntryHandler creates a DailyEntryHandler
func NewDailyEntryHandler(entrySvc service.DailyEntryService) *DailyEntryHandler {
	return &DailyEntryHandler{entrySvc: entrySvc}
}

// Create records one shift
// POST /api/v1/daily-entries
func (h *DailyEntryHandler) Create(c *gin.Context) {
	var req dto.CreateDailyEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 20001, "invalid parameters", err.Error())
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.entrySvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.Created(c, entry)
}

// Update patches a shift entry
// PUT /api/v1/daily-entries/:id
func (h *DailyEntryHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req dto.UpdateDailyEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 20001, "invalid parameters", err.Error())
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.entrySvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OK(c, entry)
}

// Get shift entry with roster and fittings
// GET /api/v1/daily-entries/:id
func (h *DailyEntryHandler) Get(c *gin.Context) {
	entry, err := h.entrySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OK(c, entry)
}

// List shift entries
// GET /api/v1/daily-entries
func (h *DailyEntryHandler) List(c *gin.Context) {
	var req dto.DailyEntryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 20001, "invalid parameters", err.Error())
		return
	}

	entries, total, err := h.entrySvc.List(c.Request.Context(), &req)
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OKPage(c, entries, total, req.GetPage(), req.GetPageSize())
}

// ListEvents audit trail of one entry
// GET /api/v1/daily-entries/:id/events
func (h *DailyEntryHandler) ListEvents(c *gin.Context) {
	events, err := h.entrySvc.ListEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OK(c, gin.H{"list": events})
}

// GenerateReferenceCode previews the next reference code
// GET /api/v1/daily-entries/reference-code
func (h *DailyEntryHandler) GenerateReferenceCode(c *gin.Context) {
	ref, err := h.entrySvc.GenerateReferenceCode(c.Request.Context())
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OK(c, dto.ReferenceCodeResponse{RefNo: ref})
}

// handleLedgerError maps service errors to status and business code.
// Every ledger handler shares it because one daily entry can fail in any component.
func handleLedgerError(c *gin.Context, err error) {
	var short *service.InsufficientBalanceError
	switch {
	// ── 400 rejected input ──
	case errors.Is(err, service.ErrMissingOperator):
		response.BadRequest(c, 20002, "roster needs an operator in the entry's shift")
	case errors.Is(err, service.ErrMissingRequiredField):
		response.ErrorWithDetails(c, http.StatusBadRequest, 20003, "missing required field", err.Error())
	case errors.Is(err, service.ErrInvalidDate):
		response.ErrorWithDetails(c, http.StatusBadRequest, 20004, "invalid date", err.Error())
	case errors.Is(err, service.ErrInvalidShift):
		response.BadRequest(c, 20005, "shift must be 1 or 2")
	case errors.Is(err, service.ErrNoCompressor):
		response.BadRequest(c, 20006, "compressor items need a compressor on the entry")
	case errors.Is(err, service.ErrInvalidItemAction):
		response.ErrorWithDetails(c, http.StatusBadRequest, 20007, "invalid item action", err.Error())
	case errors.Is(err, service.ErrDuplicateEmployee):
		response.ErrorWithDetails(c, http.StatusBadRequest, 20008, "employee listed more than once", err.Error())
	case errors.Is(err, service.ErrNegativeSalary):
		response.BadRequest(c, 20009, "salary must not be negative")
	case errors.Is(err, service.ErrAssetKindMismatch):
		response.ErrorWithDetails(c, http.StatusBadRequest, 20010, "asset kind mismatch", err.Error())
	case errors.Is(err, service.ErrFittingAssetMismatch):
		response.ErrorWithDetails(c, http.StatusBadRequest, 20011, "fitting is on a different asset", err.Error())
	case errors.Is(err, service.ErrInvalidQuantity):
		response.BadRequest(c, 20012, "quantity must be positive")
	case errors.Is(err, service.ErrInvalidSchedule):
		response.ErrorWithDetails(c, http.StatusBadRequest, 20013, "invalid maintenance schedule", err.Error())

	// ── 404 ──
	case errors.Is(err, service.ErrShiftEntryNotFound):
		response.NotFound(c, 20101, "shift entry not found")
	case errors.Is(err, service.ErrSiteNotFound):
		response.NotFound(c, 20102, "site not found")
	case errors.Is(err, service.ErrAssetNotFound):
		response.ErrorWithDetails(c, http.StatusNotFound, 20103, "asset not found", err.Error())
	case errors.Is(err, service.ErrItemNotFound):
		response.ErrorWithDetails(c, http.StatusNotFound, 20104, "inventory item not found", err.Error())
	case errors.Is(err, service.ErrFittingNotFound):
		response.NotFound(c, 20105, "fitting record not found")
	case errors.Is(err, service.ErrWorkerNotFound):
		response.ErrorWithDetails(c, http.StatusNotFound, 20106, "worker not found", err.Error())

	// ── 409 ──
	case errors.Is(err, service.ErrDuplicateReference):
		response.Conflict(c, 20201, "reference code already in use")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 20202, "record was changed concurrently, reload and retry")
	case errors.Is(err, service.ErrNotFitted):
		response.Conflict(c, 20203, "fitting record is already removed")

	// ── 422 ──
	case errors.As(err, &short):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, 20301, "insufficient stock", short.Error())

	default:
		response.InternalError(c)
	}
}
