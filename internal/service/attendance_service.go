package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xtown-XT/va-erp-sub000/internal/dto"
	"github.com/Xtown-XT/va-erp-sub000/internal/model"
	"github.com/Xtown-XT/va-erp-sub000/internal/repository"
	"github.com/Xtown-XT/va-erp-sub000/pkg/metrics"
)

// ── Attendance errors ──

var (
	ErrWorkerNotFound    = errors.New("worker not found")
	ErrNegativeSalary    = errors.New("salary must not be negative")
	ErrDuplicateEmployee = errors.New("employee listed more than once")
)

// AttendanceService attendance upserts and the wage-advance rule
type AttendanceService interface {
	Upsert(ctx context.Context, req *dto.UpsertAttendanceRequest, callerID string) (*dto.AttendanceResponse, error)
	UpsertBatch(ctx context.Context, req *dto.BatchAttendanceRequest, callerID string) (*dto.AttendanceSummary, error)
}

type attendanceService struct {
	repo    *repository.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func newAttendanceService(repo *repository.Repository, m *metrics.Metrics, logger *zap.Logger) *attendanceService {
	return &attendanceService{repo: repo, metrics: m, logger: logger}
}

// DeductAdvance applies a salary change to an advance balance.
// Only a salary increase is deducted, and the balance floors at zero.
// A decrease leaves the balance where it is.
func DeductAdvance(advance, previousSalary, newSalary decimal.Decimal) (remaining, deducted decimal.Decimal) {
	diff := newSalary.Sub(previousSalary)
	if !diff.IsPositive() || !advance.IsPositive() {
		return advance, decimal.Zero
	}
	if diff.GreaterThanOrEqual(advance) {
		return decimal.Zero, advance
	}
	return advance.Sub(diff), diff
}

// attendanceParams salary nil keeps the stored salary (zero for a new row)
type attendanceParams struct {
	employeeID   string
	date         time.Time
	presence     model.Presence
	workStatus   model.WorkStatus
	salary       *decimal.Decimal
	siteID       *string
	machineID    *string
	shiftEntryID *string
	callerID     string
}

type attendanceOutcome struct {
	record   *model.AttendanceRecord
	worker   *model.Worker
	created  bool
	deducted decimal.Decimal
}

// ════════════════════ upsert: single (employee, date) ════════════════════

func (s *attendanceService) upsert(ctx context.Context, repo *repository.Repository, p attendanceParams) (*attendanceOutcome, error) {
	// the worker row lock also serializes concurrent upserts for the same employee
	worker, err := repo.Worker.GetByIDForUpdate(ctx, p.employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrWorkerNotFound, p.employeeID)
		}
		s.logger.Error("lock worker failed", zap.String("employee_id", p.employeeID), zap.Error(err))
		return nil, err
	}

	record, err := repo.Attendance.GetByEmployeeDate(ctx, p.employeeID, p.date)
	created := false
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		created = true
		record = &model.AttendanceRecord{
			EmployeeID: p.employeeID,
			Date:       p.date,
			Presence:   model.PresencePresent,
			WorkStatus: model.WorkStatusWorking,
			Salary:     decimal.Zero,
			BaseModel:  model.BaseModel{CreatedBy: &p.callerID},
		}
	default:
		s.logger.Error("get attendance failed", zap.String("employee_id", p.employeeID), zap.Error(err))
		return nil, err
	}

	previous := record.Salary
	applyAttendance(record, p.presence, p.workStatus, p.salary, p.siteID, p.machineID, p.shiftEntryID, p.callerID)

	if created {
		err = repo.Attendance.Create(ctx, record)
	} else {
		err = repo.Attendance.Update(ctx, record)
	}
	if err != nil {
		s.logger.Error("write attendance failed", zap.String("employee_id", p.employeeID), zap.Error(err))
		return nil, err
	}

	remaining, deducted := DeductAdvance(worker.AdvancedAmount, previous, record.Salary)
	if deducted.IsPositive() {
		worker.AdvancedAmount = remaining
		worker.UpdatedBy = &p.callerID
		if err := repo.Worker.UpdateAdvance(ctx, worker); err != nil {
			s.logger.Error("update advance failed", zap.String("employee_id", p.employeeID), zap.Error(err))
			return nil, err
		}
	}

	return &attendanceOutcome{record: record, worker: worker, created: created, deducted: deducted}, nil
}

// ════════════════════ Upsert ════════════════════

func (s *attendanceService) Upsert(ctx context.Context, req *dto.UpsertAttendanceRequest, callerID string) (*dto.AttendanceResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if req.Salary.IsNegative() {
		return nil, ErrNegativeSalary
	}

	salary := req.Salary
	var out *attendanceOutcome
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		out, err = s.upsert(ctx, txRepo, attendanceParams{
			employeeID: req.EmployeeID,
			date:       date,
			presence:   model.Presence(req.Presence),
			workStatus: model.WorkStatus(req.WorkStatus),
			salary:     &salary,
			siteID:     req.SiteID,
			machineID:  req.MachineID,
			callerID:   callerID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddAttendance("single", 1)
	return toAttendanceResponse(out), nil
}

// ════════════════════ UpsertBatch: one date, two bulk writes ════════════════════

func (s *attendanceService) UpsertBatch(ctx context.Context, req *dto.BatchAttendanceRequest, callerID string) (*dto.AttendanceSummary, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(req.Records))
	seen := make(map[string]bool, len(req.Records))
	for _, r := range req.Records {
		if r.Salary.IsNegative() {
			return nil, fmt.Errorf("%w: %s", ErrNegativeSalary, r.EmployeeID)
		}
		if seen[r.EmployeeID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEmployee, r.EmployeeID)
		}
		seen[r.EmployeeID] = true
		ids = append(ids, r.EmployeeID)
	}

	summary := &dto.AttendanceSummary{Date: date.Format(model.DateLayout), AdvanceDeducted: decimal.Zero}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		workers, err := txRepo.Worker.LockByIDs(ctx, ids)
		if err != nil {
			s.logger.Error("lock workers failed", zap.Error(err))
			return err
		}
		workerByID := make(map[string]*model.Worker, len(workers))
		for i := range workers {
			workerByID[workers[i].EmployeeID] = &workers[i]
		}

		existing, err := txRepo.Attendance.ListByEmployeesDates(ctx, ids, []time.Time{date})
		if err != nil {
			s.logger.Error("prefetch attendance failed", zap.Error(err))
			return err
		}
		existingByID := make(map[string]*model.AttendanceRecord, len(existing))
		for i := range existing {
			existingByID[existing[i].EmployeeID] = &existing[i]
		}

		records := make([]model.AttendanceRecord, 0, len(req.Records))
		var changed []model.Worker
		for _, r := range req.Records {
			worker, ok := workerByID[r.EmployeeID]
			if !ok {
				return fmt.Errorf("%w: %s", ErrWorkerNotFound, r.EmployeeID)
			}

			record := model.AttendanceRecord{
				EmployeeID: r.EmployeeID,
				Date:       date,
				Presence:   model.PresencePresent,
				WorkStatus: model.WorkStatusWorking,
				Salary:     decimal.Zero,
				BaseModel:  model.BaseModel{CreatedBy: &callerID},
			}
			if prev, ok := existingByID[r.EmployeeID]; ok {
				record = *prev
				// the upsert matches on (employee_id, date), not the primary key
				record.AttendanceID = ""
				summary.Updated++
			} else {
				summary.Created++
			}

			previous := record.Salary
			salary := r.Salary
			applyAttendance(&record, model.Presence(r.Presence), model.WorkStatus(r.WorkStatus), &salary, r.SiteID, r.MachineID, nil, callerID)
			record.UpdatedAt = time.Now().UTC()
			records = append(records, record)

			remaining, deducted := DeductAdvance(worker.AdvancedAmount, previous, record.Salary)
			if deducted.IsPositive() {
				worker.AdvancedAmount = remaining
				changed = append(changed, *worker)
				summary.AdvanceDeducted = summary.AdvanceDeducted.Add(deducted)
			}
		}

		if err := txRepo.Attendance.UpsertMany(ctx, records); err != nil {
			s.logger.Error("upsert attendance batch failed", zap.Error(err))
			return err
		}
		if err := txRepo.Worker.UpdateAdvances(ctx, changed, callerID); err != nil {
			s.logger.Error("update advances failed", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddAttendance("batch", len(req.Records))
	return summary, nil
}

// ── helpers ──

func applyAttendance(record *model.AttendanceRecord, presence model.Presence, workStatus model.WorkStatus, salary *decimal.Decimal, siteID, machineID, shiftEntryID *string, callerID string) {
	if presence != "" {
		record.Presence = presence
	}
	if workStatus != "" {
		record.WorkStatus = workStatus
	}
	if salary != nil {
		record.Salary = *salary
	}
	if siteID != nil {
		record.SiteID = siteID
	}
	if machineID != nil {
		record.MachineID = machineID
	}
	if shiftEntryID != nil {
		record.ShiftEntryID = shiftEntryID
	}
	record.UpdatedBy = &callerID
}

func toAttendanceResponse(out *attendanceOutcome) *dto.AttendanceResponse {
	r := out.record
	return &dto.AttendanceResponse{
		ID:             r.AttendanceID,
		EmployeeID:     r.EmployeeID,
		Date:           r.Date.Format(model.DateLayout),
		Presence:       string(r.Presence),
		WorkStatus:     string(r.WorkStatus),
		Salary:         r.Salary,
		SiteID:         r.SiteID,
		MachineID:      r.MachineID,
		Created:        out.created,
		AdvanceBalance: out.worker.AdvancedAmount,
	}
}
