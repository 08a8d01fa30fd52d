package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Xtown-XT/va-erp-sub000/internal/model"
	pkgerrors "github.com/Xtown-XT/va-erp-sub000/pkg/errors"
)

// FittingFilter list filter; empty fields match everything
type FittingFilter struct {
	AssetID string
	Status  model.FittingStatus
}

// FittingRepository fitting records
type FittingRepository interface {
	Create(ctx context.Context, record *model.FittingRecord) error
	GetByID(ctx context.Context, id string) (*model.FittingRecord, error)
	GetByIDForUpdate(ctx context.Context, id string) (*model.FittingRecord, error)
	MarkRemoved(ctx context.Context, record *model.FittingRecord) error
	List(ctx context.Context, filter FittingFilter) ([]model.FittingRecord, error)
}

type fittingRepo struct {
	db *gorm.DB
}

func NewFittingRepo(db *gorm.DB) FittingRepository {
	return &fittingRepo{db: db}
}

func (r *fittingRepo) Create(ctx context.Context, record *model.FittingRecord) error {
	return r.db.WithContext(ctx).Omit("Item").Create(record).Error
}

func (r *fittingRepo) GetByID(ctx context.Context, id string) (*model.FittingRecord, error) {
	var record model.FittingRecord
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("fitting_id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *fittingRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.FittingRecord, error) {
	var record model.FittingRecord
	err := forUpdate(r.db.WithContext(ctx)).Where("fitting_id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarkRemoved flips a fitted record to removed. A record that is no longer
// fitted matches nothing and reports ErrOptimisticLock.
func (r *fittingRepo) MarkRemoved(ctx context.Context, record *model.FittingRecord) error {
	result := r.db.WithContext(ctx).
		Model(&model.FittingRecord{}).
		Where("fitting_id = ? AND status = ?", record.FittingID, model.FittingStatusFitted).
		Updates(map[string]interface{}{
			"status":                 model.FittingStatusRemoved,
			"removed_date":           record.RemovedDate,
			"removed_rpm":            record.RemovedRPM,
			"removed_meter":          record.RemovedMeter,
			"removed_shift_entry_id": record.RemovedShiftEntryID,
			"total_rpm_run":          record.TotalRPMRun,
			"total_meter_run":        record.TotalMeterRun,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	record.Status = model.FittingStatusRemoved
	return nil
}

func (r *fittingRepo) List(ctx context.Context, filter FittingFilter) ([]model.FittingRecord, error) {
	var records []model.FittingRecord
	q := r.db.WithContext(ctx).Preload("Item")
	if filter.AssetID != "" {
		q = q.Where("machine_id = ? OR compressor_id = ?", filter.AssetID, filter.AssetID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	err := q.Order("fitted_date DESC, created_at DESC").Find(&records).Error
	return records, err
}
