package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Xtown-XT/va-erp-sub000/internal/model"
	"github.com/Xtown-XT/va-erp-sub000/internal/repository"
	pkgerrors "github.com/Xtown-XT/va-erp-sub000/pkg/errors"
)

// ── memStore: every table in maps of values, so a snapshot is a map copy ──

type memStore struct {
	sites      map[string]model.Site
	workers    map[string]model.Worker
	assets     map[string]model.Asset
	schedules  map[string]model.ServiceSchedule
	items      map[string]model.InventoryItem
	fittings   map[string]model.FittingRecord
	attendance map[string]model.AttendanceRecord
	entries    map[string]model.ShiftEntry
	roster     map[string][]model.RosterAssignment
	sequences  map[string]model.ReferenceSequence
	events     []model.ShiftEntryEvent
	nextID     int

	failEvents error // returned by EntryEvent.BatchCreate when set
}

func newMemStore() *memStore {
	return &memStore{
		sites:      make(map[string]model.Site),
		workers:    make(map[string]model.Worker),
		assets:     make(map[string]model.Asset),
		schedules:  make(map[string]model.ServiceSchedule),
		items:      make(map[string]model.InventoryItem),
		fittings:   make(map[string]model.FittingRecord),
		attendance: make(map[string]model.AttendanceRecord),
		entries:    make(map[string]model.ShiftEntry),
		roster:     make(map[string][]model.RosterAssignment),
		sequences:  make(map[string]model.ReferenceSequence),
	}
}

func (s *memStore) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() *memStore {
	snap := &memStore{
		sites:      copyMap(s.sites),
		workers:    copyMap(s.workers),
		assets:     copyMap(s.assets),
		schedules:  copyMap(s.schedules),
		items:      copyMap(s.items),
		fittings:   copyMap(s.fittings),
		attendance: copyMap(s.attendance),
		entries:    copyMap(s.entries),
		roster:     make(map[string][]model.RosterAssignment, len(s.roster)),
		sequences:  copyMap(s.sequences),
		events:     append([]model.ShiftEntryEvent(nil), s.events...),
		nextID:     s.nextID,
		failEvents: s.failEvents,
	}
	for k, v := range s.roster {
		snap.roster[k] = append([]model.RosterAssignment(nil), v...)
	}
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.sites = snap.sites
	s.workers = snap.workers
	s.assets = snap.assets
	s.schedules = snap.schedules
	s.items = snap.items
	s.fittings = snap.fittings
	s.attendance = snap.attendance
	s.entries = snap.entries
	s.roster = snap.roster
	s.sequences = snap.sequences
	s.events = snap.events
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

func sameDay(a, b time.Time) bool {
	return a.Format(model.DateLayout) == b.Format(model.DateLayout)
}

// newMockRepository binds every repository to store; Transaction restores the
// snapshot taken before fn when fn fails.
func newMockRepository(store *memStore) *repository.Repository {
	repo := &repository.Repository{
		Site:              &mockSiteRepo{store},
		Worker:            &mockWorkerRepo{store},
		Asset:             &mockAssetRepo{store},
		Inventory:         &mockInventoryRepo{store},
		Fitting:           &mockFittingRepo{store},
		Attendance:        &mockAttendanceRepo{store},
		ShiftEntry:        &mockShiftEntryRepo{store},
		Roster:            &mockRosterRepo{store},
		ReferenceSequence: &mockReferenceSequenceRepo{store},
		EntryEvent:        &mockEntryEventRepo{store},
	}
	repo.Transactor = &mockTransactor{store: store, repo: repo}
	return repo
}

type mockTransactor struct {
	store *memStore
	repo  *repository.Repository
}

func (m *mockTransactor) Transaction(_ context.Context, fn func(txRepo *repository.Repository) error) error {
	snap := m.store.snapshot()
	if err := fn(m.repo); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// ── Mock SiteRepository ──

type mockSiteRepo struct{ s *memStore }

func (m *mockSiteRepo) GetByID(_ context.Context, id string) (*model.Site, error) {
	if site, ok := m.s.sites[id]; ok {
		return &site, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock WorkerRepository ──

type mockWorkerRepo struct{ s *memStore }

func (m *mockWorkerRepo) GetByID(_ context.Context, id string) (*model.Worker, error) {
	if w, ok := m.s.workers[id]; ok {
		return &w, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkerRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Worker, error) {
	return m.GetByID(ctx, id)
}

func (m *mockWorkerRepo) LockByIDs(_ context.Context, ids []string) ([]model.Worker, error) {
	var result []model.Worker
	for _, id := range ids {
		if w, ok := m.s.workers[id]; ok {
			result = append(result, w)
		}
	}
	return result, nil
}

func (m *mockWorkerRepo) UpdateAdvance(_ context.Context, worker *model.Worker) error {
	stored, ok := m.s.workers[worker.EmployeeID]
	if !ok || stored.Version != worker.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.AdvancedAmount = worker.AdvancedAmount
	stored.UpdatedBy = worker.UpdatedBy
	stored.Version++
	m.s.workers[worker.EmployeeID] = stored
	worker.Version = stored.Version
	return nil
}

func (m *mockWorkerRepo) UpdateAdvances(_ context.Context, workers []model.Worker, updatedBy string) error {
	for _, w := range workers {
		stored, ok := m.s.workers[w.EmployeeID]
		if !ok {
			continue
		}
		stored.AdvancedAmount = w.AdvancedAmount
		stored.UpdatedBy = &updatedBy
		stored.Version++
		m.s.workers[w.EmployeeID] = stored
	}
	return nil
}

// ── Mock AssetRepository ──

type mockAssetRepo struct{ s *memStore }

func (m *mockAssetRepo) withSchedules(a model.Asset) *model.Asset {
	a.Schedules = nil
	for _, sched := range m.s.schedules {
		if sched.AssetID == a.AssetID {
			a.Schedules = append(a.Schedules, sched)
		}
	}
	sort.Slice(a.Schedules, func(i, j int) bool { return a.Schedules[i].Position < a.Schedules[j].Position })
	return &a
}

func (m *mockAssetRepo) GetByID(_ context.Context, id string) (*model.Asset, error) {
	if a, ok := m.s.assets[id]; ok {
		return m.withSchedules(a), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssetRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Asset, error) {
	return m.GetByID(ctx, id)
}

func (m *mockAssetRepo) List(_ context.Context) ([]model.Asset, error) {
	var result []model.Asset
	for _, a := range m.s.assets {
		result = append(result, *m.withSchedules(a))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockAssetRepo) UpdateCounter(_ context.Context, asset *model.Asset) error {
	stored, ok := m.s.assets[asset.AssetID]
	if !ok || stored.Version != asset.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.CurrentRPM = asset.CurrentRPM
	stored.Version++
	m.s.assets[asset.AssetID] = stored
	asset.Version = stored.Version
	return nil
}

func (m *mockAssetRepo) UpdateScheduleService(_ context.Context, schedule *model.ServiceSchedule) error {
	stored, ok := m.s.schedules[schedule.ScheduleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.LastServiceAtRPM = schedule.LastServiceAtRPM
	m.s.schedules[schedule.ScheduleID] = stored
	return nil
}

func (m *mockAssetRepo) ReplaceSchedules(_ context.Context, assetID string, schedules []model.ServiceSchedule) error {
	for id, sched := range m.s.schedules {
		if sched.AssetID == assetID {
			delete(m.s.schedules, id)
		}
	}
	for i := range schedules {
		schedules[i].ScheduleID = m.s.id("sch")
		m.s.schedules[schedules[i].ScheduleID] = schedules[i]
	}
	return nil
}

// ── Mock InventoryRepository ──

type mockInventoryRepo struct{ s *memStore }

func (m *mockInventoryRepo) GetByID(_ context.Context, id string) (*model.InventoryItem, error) {
	if item, ok := m.s.items[id]; ok {
		return &item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInventoryRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.InventoryItem, error) {
	return m.GetByID(ctx, id)
}

func (m *mockInventoryRepo) UpdateStock(_ context.Context, item *model.InventoryItem) error {
	if item.Balance < 0 {
		return errors.New("violates check constraint inventory_items_balance_check")
	}
	stored, ok := m.s.items[item.ItemID]
	if !ok || stored.Version != item.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Balance = item.Balance
	stored.Inward = item.Inward
	stored.Outward = item.Outward
	stored.Version++
	m.s.items[item.ItemID] = stored
	item.Version = stored.Version
	return nil
}

// ── Mock FittingRepository ──

type mockFittingRepo struct{ s *memStore }

func (m *mockFittingRepo) Create(_ context.Context, record *model.FittingRecord) error {
	if (record.MachineID == nil) == (record.CompressorID == nil) {
		return errors.New("violates check constraint chk_fitting_single_asset")
	}
	record.FittingID = m.s.id("fit")
	stored := *record
	stored.Item = nil
	m.s.fittings[record.FittingID] = stored
	return nil
}

func (m *mockFittingRepo) GetByID(_ context.Context, id string) (*model.FittingRecord, error) {
	r, ok := m.s.fittings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if item, ok := m.s.items[r.ItemID]; ok {
		r.Item = &item
	}
	return &r, nil
}

func (m *mockFittingRepo) GetByIDForUpdate(_ context.Context, id string) (*model.FittingRecord, error) {
	if r, ok := m.s.fittings[id]; ok {
		return &r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFittingRepo) MarkRemoved(_ context.Context, record *model.FittingRecord) error {
	stored, ok := m.s.fittings[record.FittingID]
	if !ok || stored.Status != model.FittingStatusFitted {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Status = model.FittingStatusRemoved
	stored.RemovedDate = record.RemovedDate
	stored.RemovedRPM = record.RemovedRPM
	stored.RemovedMeter = record.RemovedMeter
	stored.RemovedShiftEntryID = record.RemovedShiftEntryID
	stored.TotalRPMRun = record.TotalRPMRun
	stored.TotalMeterRun = record.TotalMeterRun
	m.s.fittings[record.FittingID] = stored
	record.Status = model.FittingStatusRemoved
	return nil
}

func (m *mockFittingRepo) List(_ context.Context, filter repository.FittingFilter) ([]model.FittingRecord, error) {
	var result []model.FittingRecord
	for _, r := range m.s.fittings {
		if filter.AssetID != "" && r.AssetID() != filter.AssetID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FittingID < result[j].FittingID })
	return result, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct{ s *memStore }

func (m *mockAttendanceRepo) find(employeeID string, date time.Time) (model.AttendanceRecord, bool) {
	for _, r := range m.s.attendance {
		if r.EmployeeID == employeeID && sameDay(r.Date, date) {
			return r, true
		}
	}
	return model.AttendanceRecord{}, false
}

func (m *mockAttendanceRepo) GetByEmployeeDate(_ context.Context, employeeID string, date time.Time) (*model.AttendanceRecord, error) {
	if r, ok := m.find(employeeID, date); ok {
		return &r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ListByEmployeesDates(_ context.Context, employeeIDs []string, dates []time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, id := range employeeIDs {
		for _, d := range dates {
			if r, ok := m.find(id, d); ok {
				result = append(result, r)
			}
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) Create(_ context.Context, record *model.AttendanceRecord) error {
	if _, ok := m.find(record.EmployeeID, record.Date); ok {
		return uniqueViolation()
	}
	record.AttendanceID = m.s.id("att")
	m.s.attendance[record.AttendanceID] = *record
	return nil
}

func (m *mockAttendanceRepo) Update(_ context.Context, record *model.AttendanceRecord) error {
	if _, ok := m.s.attendance[record.AttendanceID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.s.attendance[record.AttendanceID] = *record
	return nil
}

func (m *mockAttendanceRepo) UpsertMany(_ context.Context, records []model.AttendanceRecord) error {
	for i := range records {
		r := records[i]
		if existing, ok := m.find(r.EmployeeID, r.Date); ok {
			r.AttendanceID = existing.AttendanceID
			r.CreatedAt = existing.CreatedAt
		} else {
			r.AttendanceID = m.s.id("att")
		}
		records[i].AttendanceID = r.AttendanceID
		m.s.attendance[r.AttendanceID] = r
	}
	return nil
}

// ── Mock ShiftEntryRepository / RosterRepository ──

type mockShiftEntryRepo struct{ s *memStore }

func (m *mockShiftEntryRepo) Create(_ context.Context, entry *model.ShiftEntry) error {
	for _, e := range m.s.entries {
		if e.RefNo == entry.RefNo {
			return uniqueViolation()
		}
	}
	entry.ShiftEntryID = m.s.id("entry")
	if entry.Version == 0 {
		entry.Version = 1
	}
	stored := *entry
	stored.Roster = nil
	stored.Fittings = nil
	m.s.entries[entry.ShiftEntryID] = stored
	return nil
}

func (m *mockShiftEntryRepo) GetByID(_ context.Context, id string) (*model.ShiftEntry, error) {
	e, ok := m.s.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	e.Roster = append([]model.RosterAssignment(nil), m.s.roster[id]...)
	for i := range e.Roster {
		if w, ok := m.s.workers[e.Roster[i].EmployeeID]; ok {
			e.Roster[i].Worker = &w
		}
	}
	e.Fittings = nil
	for _, f := range m.s.fittings {
		if f.ShiftEntryID != nil && *f.ShiftEntryID == id {
			e.Fittings = append(e.Fittings, f)
		}
	}
	// creation order: ids are "fit-<n>"
	sort.Slice(e.Fittings, func(i, j int) bool {
		a, b := e.Fittings[i].FittingID, e.Fittings[j].FittingID
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
	return &e, nil
}

func (m *mockShiftEntryRepo) GetByIDForUpdate(_ context.Context, id string) (*model.ShiftEntry, error) {
	if e, ok := m.s.entries[id]; ok {
		return &e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftEntryRepo) Update(_ context.Context, entry *model.ShiftEntry) error {
	stored, ok := m.s.entries[entry.ShiftEntryID]
	if !ok || stored.Version != entry.Version {
		return pkgerrors.ErrOptimisticLock
	}
	updated := *entry
	updated.Roster = nil
	updated.Fittings = nil
	updated.Version = stored.Version + 1
	m.s.entries[entry.ShiftEntryID] = updated
	entry.Version = updated.Version
	return nil
}

func (m *mockShiftEntryRepo) List(_ context.Context, filter repository.ShiftEntryFilter) ([]model.ShiftEntry, int64, error) {
	var result []model.ShiftEntry
	for _, e := range m.s.entries {
		if filter.SiteID != "" && e.SiteID != filter.SiteID {
			continue
		}
		if filter.MachineID != "" && e.MachineID != filter.MachineID {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RefNo < result[j].RefNo })
	return result, int64(len(result)), nil
}

func (m *mockShiftEntryRepo) CountByRefPrefix(_ context.Context, prefix string) (int64, error) {
	var n int64
	for _, e := range m.s.entries {
		if strings.HasPrefix(e.RefNo, prefix) {
			n++
		}
	}
	return n, nil
}

func (m *mockShiftEntryRepo) ExistsByRefNo(_ context.Context, refNo string) (bool, error) {
	for _, e := range m.s.entries {
		if e.RefNo == refNo {
			return true, nil
		}
	}
	return false, nil
}

type mockRosterRepo struct{ s *memStore }

func (m *mockRosterRepo) ReplaceForEntry(_ context.Context, entryID string, rows []model.RosterAssignment) error {
	stored := make([]model.RosterAssignment, 0, len(rows))
	for i := range rows {
		rows[i].RosterID = m.s.id("roster")
		stored = append(stored, rows[i])
	}
	m.s.roster[entryID] = stored
	return nil
}

func (m *mockRosterRepo) ListByEntry(_ context.Context, entryID string) ([]model.RosterAssignment, error) {
	return append([]model.RosterAssignment(nil), m.s.roster[entryID]...), nil
}

// ── Mock ReferenceSequenceRepository ──

type mockReferenceSequenceRepo struct{ s *memStore }

func (m *mockReferenceSequenceRepo) Get(_ context.Context, prefix string) (*model.ReferenceSequence, error) {
	if seq, ok := m.s.sequences[prefix]; ok {
		return &seq, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReferenceSequenceRepo) Lock(_ context.Context, prefix string) (*model.ReferenceSequence, error) {
	seq, ok := m.s.sequences[prefix]
	if !ok {
		seq = model.ReferenceSequence{Prefix: prefix}
		m.s.sequences[prefix] = seq
	}
	return &seq, nil
}

func (m *mockReferenceSequenceRepo) SetLastValue(_ context.Context, prefix string, value int64) error {
	m.s.sequences[prefix] = model.ReferenceSequence{Prefix: prefix, LastValue: value}
	return nil
}

// ── Mock EntryEventRepository ──

type mockEntryEventRepo struct{ s *memStore }

func (m *mockEntryEventRepo) BatchCreate(_ context.Context, events []model.ShiftEntryEvent) error {
	if m.s.failEvents != nil {
		return m.s.failEvents
	}
	for i := range events {
		events[i].EventID = m.s.id("evt")
		m.s.events = append(m.s.events, events[i])
	}
	return nil
}

func (m *mockEntryEventRepo) ListByEntry(_ context.Context, entryID string) ([]model.ShiftEntryEvent, error) {
	var result []model.ShiftEntryEvent
	for _, e := range m.s.events {
		if e.ShiftEntryID == entryID {
			result = append(result, e)
		}
	}
	return result, nil
}
