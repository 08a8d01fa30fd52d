package handler

import "github.com/Xtown-XT/va-erp-sub000/internal/service"

// Handler aggregate entry point for every handler
type Handler struct {
	DailyEntry  *DailyEntryHandler
	Fitting     *FittingHandler
	Attendance  *AttendanceHandler
	Maintenance *MaintenanceHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		DailyEntry:  NewDailyEntryHandler(svc.DailyEntry),
		Fitting:     NewFittingHandler(svc.Fitting),
		Attendance:  NewAttendanceHandler(svc.Attendance),
		Maintenance: NewMaintenanceHandler(svc.Scheduler),
	}
}
