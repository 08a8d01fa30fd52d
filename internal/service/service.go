package service

import (
	"go.uber.org/zap"

	"github.com/Xtown-XT/va-erp-sub000/config"
	"github.com/Xtown-XT/va-erp-sub000/internal/repository"
	"github.com/Xtown-XT/va-erp-sub000/pkg/metrics"
)

// Service aggregate entry point for every service
type Service struct {
	DailyEntry DailyEntryService
	Fitting    FittingService
	Attendance AttendanceService
	Scheduler  SchedulerService
}

// NewService wires the components so the coordinator and the direct
// endpoints share one implementation of each. cache and m may be nil.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache AlertCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	scheduler := newSchedulerService(repo, cache, m, &cfg.Ledger, logger)
	inventory := newInventoryLedger(logger)
	fittings := newFittingService(repo, inventory, scheduler, m, logger)
	attendance := newAttendanceService(repo, m, logger)
	refs := newReferenceGenerator(&cfg.Ledger, logger)

	return &Service{
		DailyEntry: newDailyEntryService(repo, refs, scheduler, fittings, attendance, m, logger),
		Fitting:    fittings,
		Attendance: attendance,
		Scheduler:  scheduler,
	}
}
