package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Xtown-XT/va-erp-sub000/internal/dto"
	"github.com/Xtown-XT/va-erp-sub000/internal/model"
	"github.com/Xtown-XT/va-erp-sub000/internal/repository"
	pkgerrors "github.com/Xtown-XT/va-erp-sub000/pkg/errors"
	"github.com/Xtown-XT/va-erp-sub000/pkg/metrics"
)

// ── Daily entry errors ──

var (
	ErrShiftEntryNotFound   = errors.New("shift entry not found")
	ErrMissingOperator      = errors.New("roster needs at least one operator in the entry's shift")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidDate          = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidShift         = errors.New("shift must be 1 or 2")
	ErrSiteNotFound         = errors.New("site not found")
	ErrNoCompressor         = errors.New("compressor items and drilling tools need a compressor on the entry")
)

// DailyEntryService the daily entry transaction coordinator
type DailyEntryService interface {
	Create(ctx context.Context, req *dto.CreateDailyEntryRequest, callerID string) (*dto.ShiftEntryResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDailyEntryRequest, callerID string) (*dto.ShiftEntryResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ShiftEntryResponse, error)
	List(ctx context.Context, req *dto.DailyEntryListRequest) ([]dto.ShiftEntryResponse, int64, error)
	ListEvents(ctx context.Context, id string) ([]dto.EntryEventResponse, error)
	GenerateReferenceCode(ctx context.Context) (string, error)
}

type dailyEntryService struct {
	repo       *repository.Repository
	refs       *referenceGenerator
	scheduler  *schedulerService
	fittings   *fittingService
	attendance *attendanceService
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func newDailyEntryService(
	repo *repository.Repository,
	refs *referenceGenerator,
	scheduler *schedulerService,
	fittings *fittingService,
	attendance *attendanceService,
	m *metrics.Metrics,
	logger *zap.Logger,
) *dailyEntryService {
	return &dailyEntryService{
		repo:       repo,
		refs:       refs,
		scheduler:  scheduler,
		fittings:   fittings,
		attendance: attendance,
		metrics:    m,
		logger:     logger,
	}
}

// rosterMember a roster row plus the attendance to record for it
type rosterMember struct {
	employeeID string
	role       model.RosterRole
	shift      int
	presence   model.Presence
	workStatus model.WorkStatus
	salary     *decimal.Decimal
}

// entryActions item actions of one submission, by class
type entryActions struct {
	machine       []itemAction
	compressor    []itemAction
	drillingTools []itemAction
}

func (a entryActions) empty() bool {
	return len(a.machine) == 0 && len(a.compressor) == 0 && len(a.drillingTools) == 0
}

// usagePlan counter deltas and service names for one transaction; an empty name records nothing
type usagePlan struct {
	machineDelta          float64
	compressorDelta       float64
	machineServiceName    string
	compressorServiceName string
}

// ════════════════════ Create ════════════════════

func (s *dailyEntryService) Create(ctx context.Context, req *dto.CreateDailyEntryRequest, callerID string) (*dto.ShiftEntryResponse, error) {
	start := time.Now()
	resp, err := s.create(ctx, req, callerID)
	s.metrics.ObserveSubmission("create", outcomeLabel(err), time.Since(start))
	return resp, err
}

func (s *dailyEntryService) create(ctx context.Context, req *dto.CreateDailyEntryRequest, callerID string) (*dto.ShiftEntryResponse, error) {
	// ── validation, no writes ──
	if strings.TrimSpace(req.Date) == "" {
		return nil, fmt.Errorf("%w: date", ErrMissingRequiredField)
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	entry := &model.ShiftEntry{
		RefNo:                 strings.TrimSpace(req.RefNo),
		Date:                  date,
		Shift:                 req.Shift,
		SiteID:                req.SiteID,
		MachineID:             req.MachineID,
		CompressorID:          nonEmpty(req.CompressorID),
		MachineOpeningRPM:     req.MachineOpeningRPM,
		MachineClosingRPM:     req.MachineClosingRPM,
		CompressorOpeningRPM:  req.CompressorOpeningRPM,
		CompressorClosingRPM:  req.CompressorClosingRPM,
		MachineHSD:            req.MachineHSD,
		CompressorHSD:         req.CompressorHSD,
		MeterReading:          req.MeterReading,
		NoOfHoles:             req.NoOfHoles,
		MachineServiceDone:    req.MachineServiceDone,
		MachineServiceName:    strings.TrimSpace(req.MachineServiceName),
		CompressorServiceDone: req.CompressorServiceDone,
		CompressorServiceName: strings.TrimSpace(req.CompressorServiceName),
		Notes:                 req.Notes,
	}
	entry.CreatedBy = &callerID
	entry.UpdatedBy = &callerID

	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	roster := normalizeRoster(req.Roster, req.EmployeeID, entry.Shift)
	if err := validateRoster(roster, entry.Shift); err != nil {
		return nil, err
	}

	actions, err := parseEntryActions(req.MachineItems, req.CompressorItems, req.DrillingTools, entry.CompressorID != nil)
	if err != nil {
		return nil, err
	}

	plan := usagePlan{
		machineDelta:    CounterDelta(entry.MachineOpeningRPM, entry.MachineClosingRPM),
		compressorDelta: CounterDelta(entry.CompressorOpeningRPM, entry.CompressorClosingRPM),
	}
	if entry.MachineServiceDone {
		plan.machineServiceName = entry.MachineServiceName
	}
	if entry.CompressorServiceDone {
		plan.compressorServiceName = entry.CompressorServiceName
	}

	// ── one transaction ──
	var events *eventRecorder
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := s.checkSite(ctx, txRepo, entry.SiteID); err != nil {
			return err
		}

		if entry.RefNo == "" {
			ref, err := s.refs.next(ctx, txRepo)
			if err != nil {
				return err
			}
			entry.RefNo = ref
		}

		if err := txRepo.ShiftEntry.Create(ctx, entry); err != nil {
			if pkgerrors.IsUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrDuplicateReference, entry.RefNo)
			}
			s.logger.Error("create shift entry failed", zap.String("ref_no", entry.RefNo), zap.Error(err))
			return err
		}

		events = newEventRecorder(entry.ShiftEntryID, callerID)
		events.add(model.EntryEventCreated, datatypes.JSONMap{"ref_no": entry.RefNo, "shift": entry.Shift})

		return s.applyEntry(ctx, txRepo, entry, roster, true, plan, actions, events, callerID)
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, events)
	return s.reload(ctx, entry), nil
}

// ════════════════════ Update: patch, diff, same invariants ════════════════════

func (s *dailyEntryService) Update(ctx context.Context, id string, req *dto.UpdateDailyEntryRequest, callerID string) (*dto.ShiftEntryResponse, error) {
	start := time.Now()
	resp, err := s.update(ctx, id, req, callerID)
	s.metrics.ObserveSubmission("update", outcomeLabel(err), time.Since(start))
	return resp, err
}

func (s *dailyEntryService) update(ctx context.Context, id string, req *dto.UpdateDailyEntryRequest, callerID string) (*dto.ShiftEntryResponse, error) {
	var newDate *time.Time
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		newDate = &d
	}

	var (
		entry  *model.ShiftEntry
		events *eventRecorder
	)
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		entry, err = txRepo.ShiftEntry.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrShiftEntryNotFound
			}
			s.logger.Error("lock shift entry failed", zap.String("id", id), zap.Error(err))
			return err
		}
		if req.Version != nil && *req.Version != entry.Version {
			return pkgerrors.ErrOptimisticLock
		}

		old := *entry
		changed := applyEntryPatch(entry, req, newDate)
		entry.UpdatedBy = &callerID

		// ── validation against the merged entry, before any write ──
		if err := validateEntry(entry); err != nil {
			return err
		}

		replaceRoster := req.Roster != nil || req.EmployeeID != nil
		var roster []rosterMember
		if replaceRoster {
			legacy := ""
			if req.EmployeeID != nil {
				legacy = *req.EmployeeID
			}
			roster = normalizeRoster(req.Roster, legacy, entry.Shift)
		} else {
			rows, err := txRepo.Roster.ListByEntry(ctx, entry.ShiftEntryID)
			if err != nil {
				s.logger.Error("list roster failed", zap.String("id", id), zap.Error(err))
				return err
			}
			roster = rosterFromRows(rows)
			entry.Roster = rows
		}
		if err := validateRoster(roster, entry.Shift); err != nil {
			return err
		}

		actions, err := parseEntryActions(req.MachineItems, req.CompressorItems, req.DrillingTools, entry.CompressorID != nil)
		if err != nil {
			return err
		}

		if changed["site_id"] {
			if err := s.checkSite(ctx, txRepo, entry.SiteID); err != nil {
				return err
			}
		}

		plan := usagePlan{
			machineDelta: diffDelta(old.MachineID == entry.MachineID,
				CounterDelta(old.MachineOpeningRPM, old.MachineClosingRPM),
				CounterDelta(entry.MachineOpeningRPM, entry.MachineClosingRPM)),
		}
		if entry.CompressorID != nil {
			sameCompressor := old.CompressorID != nil && *old.CompressorID == *entry.CompressorID
			plan.compressorDelta = diffDelta(sameCompressor,
				CounterDelta(old.CompressorOpeningRPM, old.CompressorClosingRPM),
				CounterDelta(entry.CompressorOpeningRPM, entry.CompressorClosingRPM))
		}
		if req.MachineServiceDone != nil && *req.MachineServiceDone {
			plan.machineServiceName = entry.MachineServiceName
		}
		if req.CompressorServiceDone != nil && *req.CompressorServiceDone {
			plan.compressorServiceName = entry.CompressorServiceName
		}

		// ── writes ──
		if err := txRepo.ShiftEntry.Update(ctx, entry); err != nil {
			if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
				s.logger.Error("update shift entry failed", zap.String("id", id), zap.Error(err))
			}
			return err
		}

		events = newEventRecorder(entry.ShiftEntryID, callerID)
		events.add(model.EntryEventUpdated, datatypes.JSONMap{
			"version":         entry.Version,
			"fields":          sortedKeys(changed),
			"roster_replaced": replaceRoster,
		})

		return s.applyEntry(ctx, txRepo, entry, roster, replaceRoster, plan, actions, events, callerID)
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, events)
	return s.reload(ctx, entry), nil
}

// reload re-reads the committed entry with its roster workers and fittings.
// The commit already happened, so a failed read falls back to the written state.
func (s *dailyEntryService) reload(ctx context.Context, entry *model.ShiftEntry) *dto.ShiftEntryResponse {
	fresh, err := s.repo.ShiftEntry.GetByID(ctx, entry.ShiftEntryID)
	if err != nil {
		s.logger.Warn("reload shift entry failed, returning written state",
			zap.String("id", entry.ShiftEntryID), zap.Error(err))
		return toShiftEntryResponse(entry)
	}
	return toShiftEntryResponse(fresh)
}

// ════════════════════ applyEntry: roster, counters, items, attendance ════════════════════
// Shared by create and update; runs after the entry row is written, in the fixed order:
// roster, machine then compressor usage, machine/compressor/drilling-tool items, attendance.

func (s *dailyEntryService) applyEntry(
	ctx context.Context,
	repo *repository.Repository,
	entry *model.ShiftEntry,
	roster []rosterMember,
	writeRoster bool,
	plan usagePlan,
	actions entryActions,
	events *eventRecorder,
	callerID string,
) error {
	if writeRoster {
		rows := make([]model.RosterAssignment, 0, len(roster))
		for _, m := range roster {
			rows = append(rows, model.RosterAssignment{
				ShiftEntryID: entry.ShiftEntryID,
				EmployeeID:   m.employeeID,
				Role:         m.role,
				Shift:        m.shift,
			})
		}
		if err := repo.Roster.ReplaceForEntry(ctx, entry.ShiftEntryID, rows); err != nil {
			s.logger.Error("replace roster failed", zap.String("id", entry.ShiftEntryID), zap.Error(err))
			return err
		}
		entry.Roster = rows
	}

	machine, err := s.applyUsage(ctx, repo, entry.MachineID, model.AssetKindMachine, plan.machineDelta, plan.machineServiceName, events, callerID)
	if err != nil {
		return err
	}

	var compressor *model.Asset
	if entry.CompressorID != nil {
		compressor, err = s.applyUsage(ctx, repo, *entry.CompressorID, model.AssetKindCompressor, plan.compressorDelta, plan.compressorServiceName, events, callerID)
		if err != nil {
			return err
		}
	}

	if !actions.empty() {
		groups := []struct {
			class   ItemClass
			asset   *model.Asset
			actions []itemAction
		}{
			{ItemClassMachine, machine, actions.machine},
			{ItemClassCompressor, compressor, actions.compressor},
			{ItemClassDrillingTool, compressor, actions.drillingTools},
		}
		for _, g := range groups {
			for _, a := range g.actions {
				record, err := s.applyItemAction(ctx, repo, entry, g.class, g.asset, a, events, callerID)
				if err != nil {
					return err
				}
				entry.Fittings = append(entry.Fittings, *record)
			}
		}
	}

	if writeRoster {
		for _, m := range roster {
			out, err := s.attendance.upsert(ctx, repo, attendanceParams{
				employeeID:   m.employeeID,
				date:         entry.Date,
				presence:     m.presence,
				workStatus:   m.workStatus,
				salary:       m.salary,
				siteID:       &entry.SiteID,
				machineID:    &entry.MachineID,
				shiftEntryID: &entry.ShiftEntryID,
				callerID:     callerID,
			})
			if err != nil {
				return err
			}
			events.add(model.EntryEventAttendanceUpserted, datatypes.JSONMap{
				"employee_id":      m.employeeID,
				"created":          out.created,
				"salary":           out.record.Salary.String(),
				"advance_deducted": out.deducted.String(),
			})
		}
	}

	if err := repo.EntryEvent.BatchCreate(ctx, events.events); err != nil {
		s.logger.Error("write entry events failed", zap.String("id", entry.ShiftEntryID), zap.Error(err))
		return err
	}
	return nil
}

// applyUsage locks the asset, advances its counter, then records the service
// (if named) at the advanced reading.
func (s *dailyEntryService) applyUsage(
	ctx context.Context,
	repo *repository.Repository,
	assetID string,
	kind model.AssetKind,
	delta float64,
	serviceName string,
	events *eventRecorder,
	callerID string,
) (*model.Asset, error) {
	asset, err := s.scheduler.lockAsset(ctx, repo, assetID, kind)
	if err != nil {
		return nil, err
	}

	before := asset.CurrentRPM
	if err := s.scheduler.advance(ctx, repo, asset, delta, callerID); err != nil {
		return nil, err
	}
	if asset.CurrentRPM != before {
		events.add(model.EntryEventCounterAdvanced, datatypes.JSONMap{
			"asset_id":    asset.AssetID,
			"delta":       asset.CurrentRPM - before,
			"current_rpm": asset.CurrentRPM,
		})
	}

	if serviceName != "" {
		matched, err := s.scheduler.recordService(ctx, repo, asset, serviceName, asset.CurrentRPM, callerID)
		if err != nil {
			return nil, err
		}
		eventType := model.EntryEventServiceRecorded
		if !matched {
			eventType = model.EntryEventServiceUnmatched
		}
		events.add(eventType, datatypes.JSONMap{
			"asset_id":     asset.AssetID,
			"service_name": serviceName,
			"at_rpm":       asset.CurrentRPM,
		})
	}
	return asset, nil
}

func (s *dailyEntryService) applyItemAction(
	ctx context.Context,
	repo *repository.Repository,
	entry *model.ShiftEntry,
	class ItemClass,
	asset *model.Asset,
	action itemAction,
	events *eventRecorder,
	callerID string,
) (*model.FittingRecord, error) {
	switch a := action.(type) {
	case fitAction:
		record, err := s.fittings.fit(ctx, repo, fitParams{
			itemID:       a.itemID,
			asset:        asset,
			class:        class,
			shiftEntryID: &entry.ShiftEntryID,
			quantity:     a.quantity,
			date:         entry.Date,
			atRPM:        asset.CurrentRPM,
			atMeter:      entry.MeterReading,
			callerID:     callerID,
		})
		if err != nil {
			return nil, err
		}
		events.add(model.EntryEventItemFitted, datatypes.JSONMap{
			"fitting_id": record.FittingID,
			"item_id":    record.ItemID,
			"class":      class.String(),
			"quantity":   record.Quantity,
			"at_rpm":     record.FittedRPM,
		})
		return record, nil

	case removeAction:
		record, err := s.fittings.remove(ctx, repo, removeParams{
			fittingID:    a.fittingID,
			assetID:      asset.AssetID,
			shiftEntryID: &entry.ShiftEntryID,
			date:         entry.Date,
			atRPM:        asset.CurrentRPM,
			atMeter:      entry.MeterReading,
		})
		if err != nil {
			return nil, err
		}
		events.add(model.EntryEventItemRemoved, datatypes.JSONMap{
			"fitting_id":    record.FittingID,
			"class":         class.String(),
			"total_rpm_run": *record.TotalRPMRun,
		})
		return record, nil
	}
	return nil, fmt.Errorf("%w: unsupported action %T", ErrInvalidItemAction, action)
}

func (s *dailyEntryService) checkSite(ctx context.Context, repo *repository.Repository, siteID string) error {
	if _, err := repo.Site.GetByID(ctx, siteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrSiteNotFound, siteID)
		}
		s.logger.Error("get site failed", zap.String("site_id", siteID), zap.Error(err))
		return err
	}
	return nil
}

// afterCommit side effects that must not run for a rolled back transaction
func (s *dailyEntryService) afterCommit(ctx context.Context, events *eventRecorder) {
	s.scheduler.invalidateAlerts(ctx)
	if events == nil {
		return
	}
	for i := 0; i < events.count(model.EntryEventItemFitted); i++ {
		s.metrics.IncFitting("fit")
	}
	for i := 0; i < events.count(model.EntryEventItemRemoved); i++ {
		s.metrics.IncFitting("remove")
	}
	s.metrics.AddAttendance("entry", events.count(model.EntryEventAttendanceUpserted))
}

// ════════════════════ Read paths ════════════════════

func (s *dailyEntryService) GetByID(ctx context.Context, id string) (*dto.ShiftEntryResponse, error) {
	entry, err := s.repo.ShiftEntry.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftEntryNotFound
		}
		s.logger.Error("get shift entry failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toShiftEntryResponse(entry), nil
}

func (s *dailyEntryService) List(ctx context.Context, req *dto.DailyEntryListRequest) ([]dto.ShiftEntryResponse, int64, error) {
	filter := repository.ShiftEntryFilter{
		SiteID:    req.SiteID,
		MachineID: req.MachineID,
		Offset:    req.GetOffset(),
		Limit:     req.GetPageSize(),
	}
	if req.DateFrom != "" {
		d, err := parseDate(req.DateFrom)
		if err != nil {
			return nil, 0, err
		}
		filter.DateFrom = &d
	}
	if req.DateTo != "" {
		d, err := parseDate(req.DateTo)
		if err != nil {
			return nil, 0, err
		}
		filter.DateTo = &d
	}

	entries, total, err := s.repo.ShiftEntry.List(ctx, filter)
	if err != nil {
		s.logger.Error("list shift entries failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ShiftEntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, *toShiftEntryResponse(&entries[i]))
	}
	return result, total, nil
}

func (s *dailyEntryService) ListEvents(ctx context.Context, id string) ([]dto.EntryEventResponse, error) {
	if _, err := s.repo.ShiftEntry.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftEntryNotFound
		}
		s.logger.Error("get shift entry failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	events, err := s.repo.EntryEvent.ListByEntry(ctx, id)
	if err != nil {
		s.logger.Error("list entry events failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	result := make([]dto.EntryEventResponse, 0, len(events))
	for i := range events {
		result = append(result, toEntryEventResponse(&events[i]))
	}
	return result, nil
}

func (s *dailyEntryService) GenerateReferenceCode(ctx context.Context) (string, error) {
	return s.refs.preview(ctx, s.repo)
}

// ── helpers ──

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

func validateEntry(e *model.ShiftEntry) error {
	switch {
	case e.Shift != 1 && e.Shift != 2:
		return ErrInvalidShift
	case strings.TrimSpace(e.SiteID) == "":
		return fmt.Errorf("%w: site_id", ErrMissingRequiredField)
	case strings.TrimSpace(e.MachineID) == "":
		return fmt.Errorf("%w: machine_id", ErrMissingRequiredField)
	case e.MachineServiceDone && e.MachineServiceName == "":
		return fmt.Errorf("%w: machine_service_name", ErrMissingRequiredField)
	case e.CompressorServiceDone && e.CompressorServiceName == "":
		return fmt.Errorf("%w: compressor_service_name", ErrMissingRequiredField)
	case e.CompressorServiceDone && e.CompressorID == nil:
		return fmt.Errorf("%w: compressor_id", ErrMissingRequiredField)
	}
	return nil
}

// normalizeRoster falls back to the legacy single-employee field as the shift's operator.
func normalizeRoster(members []dto.RosterMemberRequest, legacyEmployeeID string, shift int) []rosterMember {
	if len(members) == 0 {
		if legacyEmployeeID == "" {
			return nil
		}
		return []rosterMember{{employeeID: legacyEmployeeID, role: model.RosterRoleOperator, shift: shift}}
	}

	roster := make([]rosterMember, 0, len(members))
	for _, m := range members {
		roster = append(roster, rosterMember{
			employeeID: m.EmployeeID,
			role:       model.RosterRole(m.Role),
			shift:      m.Shift,
			presence:   model.Presence(m.Presence),
			workStatus: model.WorkStatus(m.WorkStatus),
			salary:     m.Salary,
		})
	}
	return roster
}

func rosterFromRows(rows []model.RosterAssignment) []rosterMember {
	roster := make([]rosterMember, 0, len(rows))
	for _, r := range rows {
		roster = append(roster, rosterMember{employeeID: r.EmployeeID, role: r.Role, shift: r.Shift})
	}
	return roster
}

func validateRoster(roster []rosterMember, shift int) error {
	seen := make(map[string]bool, len(roster))
	operators := 0
	for _, m := range roster {
		if seen[m.employeeID] {
			return fmt.Errorf("%w: %s", ErrDuplicateEmployee, m.employeeID)
		}
		seen[m.employeeID] = true
		if m.salary != nil && m.salary.IsNegative() {
			return fmt.Errorf("%w: %s", ErrNegativeSalary, m.employeeID)
		}
		if m.role == model.RosterRoleOperator && m.shift == shift {
			operators++
		}
	}
	if operators == 0 {
		return ErrMissingOperator
	}
	return nil
}

// parseEntryActions rejects a fitting removed twice in one submission.
func parseEntryActions(machine, compressor, drilling []dto.ItemActionRequest, hasCompressor bool) (entryActions, error) {
	var (
		out entryActions
		err error
	)
	if out.machine, err = parseItemActions(ItemClassMachine, machine); err != nil {
		return out, err
	}
	if out.compressor, err = parseItemActions(ItemClassCompressor, compressor); err != nil {
		return out, err
	}
	if out.drillingTools, err = parseItemActions(ItemClassDrillingTool, drilling); err != nil {
		return out, err
	}
	if !hasCompressor && (len(out.compressor) > 0 || len(out.drillingTools) > 0) {
		return out, ErrNoCompressor
	}

	removed := make(map[string]bool)
	for _, group := range [][]itemAction{out.machine, out.compressor, out.drillingTools} {
		for _, a := range group {
			if r, ok := a.(removeAction); ok {
				if removed[r.fittingID] {
					return out, fmt.Errorf("%w: fitting %s removed twice", ErrInvalidItemAction, r.fittingID)
				}
				removed[r.fittingID] = true
			}
		}
	}
	return out, nil
}

// diffDelta on update the same asset only gets the growth of its delta;
// a newly referenced asset gets the full delta.
func diffDelta(sameAsset bool, oldDelta, newDelta float64) float64 {
	if !sameAsset {
		return newDelta
	}
	if d := newDelta - oldDelta; d > 0 {
		return d
	}
	return 0
}

// applyEntryPatch copies the non-nil patch fields and reports which ones changed.
func applyEntryPatch(e *model.ShiftEntry, req *dto.UpdateDailyEntryRequest, date *time.Time) map[string]bool {
	changed := make(map[string]bool)

	if date != nil && !date.Equal(e.Date) {
		e.Date = *date
		changed["date"] = true
	}
	if req.Shift != nil && *req.Shift != e.Shift {
		e.Shift = *req.Shift
		changed["shift"] = true
	}
	if req.SiteID != nil && *req.SiteID != e.SiteID {
		e.SiteID = *req.SiteID
		changed["site_id"] = true
	}
	if req.MachineID != nil && *req.MachineID != e.MachineID {
		e.MachineID = *req.MachineID
		changed["machine_id"] = true
	}
	if req.CompressorID != nil {
		e.CompressorID = nonEmpty(req.CompressorID)
		changed["compressor_id"] = true
	}

	patchFloat(&e.MachineOpeningRPM, req.MachineOpeningRPM, "machine_opening_rpm", changed)
	patchFloat(&e.MachineClosingRPM, req.MachineClosingRPM, "machine_closing_rpm", changed)
	patchFloat(&e.CompressorOpeningRPM, req.CompressorOpeningRPM, "compressor_opening_rpm", changed)
	patchFloat(&e.CompressorClosingRPM, req.CompressorClosingRPM, "compressor_closing_rpm", changed)
	patchFloat(&e.MachineHSD, req.MachineHSD, "machine_hsd", changed)
	patchFloat(&e.CompressorHSD, req.CompressorHSD, "compressor_hsd", changed)
	patchFloat(&e.MeterReading, req.MeterReading, "meter_reading", changed)

	if req.NoOfHoles != nil {
		e.NoOfHoles = *req.NoOfHoles
		changed["no_of_holes"] = true
	}
	if req.MachineServiceDone != nil {
		e.MachineServiceDone = *req.MachineServiceDone
		changed["machine_service_done"] = true
	}
	if req.MachineServiceName != nil {
		e.MachineServiceName = strings.TrimSpace(*req.MachineServiceName)
		changed["machine_service_name"] = true
	}
	if req.CompressorServiceDone != nil {
		e.CompressorServiceDone = *req.CompressorServiceDone
		changed["compressor_service_done"] = true
	}
	if req.CompressorServiceName != nil {
		e.CompressorServiceName = strings.TrimSpace(*req.CompressorServiceName)
		changed["compressor_service_name"] = true
	}
	if req.Notes != nil {
		e.Notes = *req.Notes
		changed["notes"] = true
	}
	return changed
}

func patchFloat(dst **float64, v *float64, key string, changed map[string]bool) {
	if v == nil {
		return
	}
	val := *v
	*dst = &val
	changed[key] = true
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}

func toShiftEntryResponse(e *model.ShiftEntry) *dto.ShiftEntryResponse {
	resp := &dto.ShiftEntryResponse{
		ID:                    e.ShiftEntryID,
		RefNo:                 e.RefNo,
		Date:                  e.Date.Format(model.DateLayout),
		Shift:                 e.Shift,
		SiteID:                e.SiteID,
		MachineID:             e.MachineID,
		CompressorID:          e.CompressorID,
		MachineOpeningRPM:     e.MachineOpeningRPM,
		MachineClosingRPM:     e.MachineClosingRPM,
		CompressorOpeningRPM:  e.CompressorOpeningRPM,
		CompressorClosingRPM:  e.CompressorClosingRPM,
		MachineHSD:            e.MachineHSD,
		CompressorHSD:         e.CompressorHSD,
		MeterReading:          e.MeterReading,
		NoOfHoles:             e.NoOfHoles,
		MachineServiceDone:    e.MachineServiceDone,
		MachineServiceName:    e.MachineServiceName,
		CompressorServiceDone: e.CompressorServiceDone,
		CompressorServiceName: e.CompressorServiceName,
		Notes:                 e.Notes,
		Roster:                make([]dto.RosterResponse, 0, len(e.Roster)),
		Version:               e.Version,
		CreatedAt:             e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             e.UpdatedAt.Format(time.RFC3339),
	}
	for _, r := range e.Roster {
		rr := dto.RosterResponse{EmployeeID: r.EmployeeID, Role: string(r.Role), Shift: r.Shift}
		if r.Worker != nil {
			rr.Name = r.Worker.Name
		}
		resp.Roster = append(resp.Roster, rr)
	}
	for i := range e.Fittings {
		resp.Fittings = append(resp.Fittings, *toFittingResponse(&e.Fittings[i]))
	}
	return resp
}
