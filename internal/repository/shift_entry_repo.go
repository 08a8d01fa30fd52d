package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Xtown-XT/va-erp-sub000/internal/model"
	pkgerrors "github.com/Xtown-XT/va-erp-sub000/pkg/errors"
)

// ShiftEntryFilter list filter; zero values match everything
type ShiftEntryFilter struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	SiteID    string
	MachineID string
	Offset    int
	Limit     int
}

// ShiftEntryRepository daily shift entries
type ShiftEntryRepository interface {
	Create(ctx context.Context, entry *model.ShiftEntry) error
	GetByID(ctx context.Context, id string) (*model.ShiftEntry, error)
	GetByIDForUpdate(ctx context.Context, id string) (*model.ShiftEntry, error)
	Update(ctx context.Context, entry *model.ShiftEntry) error
	List(ctx context.Context, filter ShiftEntryFilter) ([]model.ShiftEntry, int64, error)
	CountByRefPrefix(ctx context.Context, prefix string) (int64, error)
	ExistsByRefNo(ctx context.Context, refNo string) (bool, error)
}

// RosterRepository roster rows of a shift entry
type RosterRepository interface {
	ReplaceForEntry(ctx context.Context, entryID string, rows []model.RosterAssignment) error
	ListByEntry(ctx context.Context, entryID string) ([]model.RosterAssignment, error)
}

// ── ShiftEntry ──

type shiftEntryRepo struct {
	db *gorm.DB
}

func NewShiftEntryRepo(db *gorm.DB) ShiftEntryRepository {
	return &shiftEntryRepo{db: db}
}

func (r *shiftEntryRepo) Create(ctx context.Context, entry *model.ShiftEntry) error {
	return r.db.WithContext(ctx).Omit("Roster", "Fittings").Create(entry).Error
}

func (r *shiftEntryRepo) GetByID(ctx context.Context, id string) (*model.ShiftEntry, error) {
	var entry model.ShiftEntry
	err := r.db.WithContext(ctx).
		Preload("Roster", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Roster.Worker").
		Preload("Fittings", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, fitting_id ASC") }).
		Preload("Fittings.Item").
		Where("shift_entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *shiftEntryRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.ShiftEntry, error) {
	var entry model.ShiftEntry
	err := forUpdate(r.db.WithContext(ctx)).Where("shift_entry_id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *shiftEntryRepo) Update(ctx context.Context, entry *model.ShiftEntry) error {
	oldVersion := entry.Version
	result := r.db.WithContext(ctx).
		Model(&model.ShiftEntry{}).
		Where("shift_entry_id = ? AND version = ?", entry.ShiftEntryID, oldVersion).
		Updates(map[string]interface{}{
			"date":                    entry.Date,
			"shift":                   entry.Shift,
			"site_id":                 entry.SiteID,
			"machine_id":              entry.MachineID,
			"compressor_id":           entry.CompressorID,
			"machine_opening_rpm":     entry.MachineOpeningRPM,
			"machine_closing_rpm":     entry.MachineClosingRPM,
			"compressor_opening_rpm":  entry.CompressorOpeningRPM,
			"compressor_closing_rpm":  entry.CompressorClosingRPM,
			"machine_hsd":             entry.MachineHSD,
			"compressor_hsd":          entry.CompressorHSD,
			"meter_reading":           entry.MeterReading,
			"no_of_holes":             entry.NoOfHoles,
			"machine_service_done":    entry.MachineServiceDone,
			"machine_service_name":    entry.MachineServiceName,
			"compressor_service_done": entry.CompressorServiceDone,
			"compressor_service_name": entry.CompressorServiceName,
			"notes":                   entry.Notes,
			"updated_by":              entry.UpdatedBy,
			"version":                 oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Version = oldVersion + 1
	return nil
}

func (r *shiftEntryRepo) List(ctx context.Context, filter ShiftEntryFilter) ([]model.ShiftEntry, int64, error) {
	var entries []model.ShiftEntry
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ShiftEntry{})
	if filter.DateFrom != nil {
		q = q.Where("date >= ?", filter.DateFrom.Format(model.DateLayout))
	}
	if filter.DateTo != nil {
		q = q.Where("date <= ?", filter.DateTo.Format(model.DateLayout))
	}
	if filter.SiteID != "" {
		q = q.Where("site_id = ?", filter.SiteID)
	}
	if filter.MachineID != "" {
		q = q.Where("machine_id = ?", filter.MachineID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Roster").
		Order("date DESC, shift DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// CountByRefPrefix counts entries, deleted ones included, whose ref_no starts with prefix.
func (r *shiftEntryRepo) CountByRefPrefix(ctx context.Context, prefix string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&model.ShiftEntry{}).
		Where("ref_no LIKE ?", prefix+"%").
		Count(&n).Error
	return n, err
}

// ExistsByRefNo reports whether any entry, deleted ones included, holds refNo.
func (r *shiftEntryRepo) ExistsByRefNo(ctx context.Context, refNo string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&model.ShiftEntry{}).
		Where("ref_no = ?", refNo).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}

// ── Roster ──

type rosterRepo struct {
	db *gorm.DB
}

func NewRosterRepo(db *gorm.DB) RosterRepository {
	return &rosterRepo{db: db}
}

// ReplaceForEntry deletes the entry's roster and inserts rows.
func (r *rosterRepo) ReplaceForEntry(ctx context.Context, entryID string, rows []model.RosterAssignment) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("shift_entry_id = ?", entryID).Delete(&model.RosterAssignment{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return db.Omit("Worker").Create(&rows).Error
}

func (r *rosterRepo) ListByEntry(ctx context.Context, entryID string) ([]model.RosterAssignment, error) {
	var rows []model.RosterAssignment
	err := r.db.WithContext(ctx).
		Preload("Worker").
		Where("shift_entry_id = ?", entryID).
		Order("role DESC, created_at ASC").
		Find(&rows).Error
	return rows, err
}
