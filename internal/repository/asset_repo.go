package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Xtown-XT/va-erp-sub000/internal/model"
	pkgerrors "github.com/Xtown-XT/va-erp-sub000/pkg/errors"
)

// AssetRepository machines, compressors and their service schedules
type AssetRepository interface {
	GetByID(ctx context.Context, id string) (*model.Asset, error)
	GetByIDForUpdate(ctx context.Context, id string) (*model.Asset, error)
	List(ctx context.Context) ([]model.Asset, error)
	UpdateCounter(ctx context.Context, asset *model.Asset) error
	UpdateScheduleService(ctx context.Context, schedule *model.ServiceSchedule) error
	ReplaceSchedules(ctx context.Context, assetID string, schedules []model.ServiceSchedule) error
}

type assetRepo struct {
	db *gorm.DB
}

func NewAssetRepo(db *gorm.DB) AssetRepository {
	return &assetRepo{db: db}
}

func (r *assetRepo) GetByID(ctx context.Context, id string) (*model.Asset, error) {
	var asset model.Asset
	err := r.db.WithContext(ctx).
		Preload("Schedules", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("asset_id = ?", id).
		First(&asset).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetByIDForUpdate locks the asset row, then loads schedules with a plain read.
func (r *assetRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Asset, error) {
	var asset model.Asset
	db := r.db.WithContext(ctx)
	if err := forUpdate(db).Where("asset_id = ?", id).First(&asset).Error; err != nil {
		return nil, err
	}
	if err := db.Where("asset_id = ?", id).Order("position ASC").Find(&asset.Schedules).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepo) List(ctx context.Context) ([]model.Asset, error) {
	var assets []model.Asset
	err := r.db.WithContext(ctx).
		Preload("Schedules", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("name ASC").
		Find(&assets).Error
	return assets, err
}

func (r *assetRepo) UpdateCounter(ctx context.Context, asset *model.Asset) error {
	oldVersion := asset.Version
	result := r.db.WithContext(ctx).
		Model(&model.Asset{}).
		Where("asset_id = ? AND version = ?", asset.AssetID, oldVersion).
		Updates(map[string]interface{}{
			"current_rpm": asset.CurrentRPM,
			"updated_by":  asset.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	asset.Version = oldVersion + 1
	return nil
}

func (r *assetRepo) UpdateScheduleService(ctx context.Context, schedule *model.ServiceSchedule) error {
	return r.db.WithContext(ctx).
		Model(&model.ServiceSchedule{}).
		Where("schedule_id = ?", schedule.ScheduleID).
		Updates(map[string]interface{}{
			"last_service_at_rpm": schedule.LastServiceAtRPM,
			"updated_by":          schedule.UpdatedBy,
		}).Error
}

// ReplaceSchedules deletes the asset's schedule rows and inserts the new list.
func (r *assetRepo) ReplaceSchedules(ctx context.Context, assetID string, schedules []model.ServiceSchedule) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("asset_id = ?", assetID).Delete(&model.ServiceSchedule{}).Error; err != nil {
		return err
	}
	if len(schedules) == 0 {
		return nil
	}
	return db.Create(&schedules).Error
}
