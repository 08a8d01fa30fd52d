package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Xtown-XT/va-erp-sub000/internal/model"
	pkgerrors "github.com/Xtown-XT/va-erp-sub000/pkg/errors"
)

// InventoryRepository item catalog and stock balances
type InventoryRepository interface {
	GetByID(ctx context.Context, id string) (*model.InventoryItem, error)
	GetByIDForUpdate(ctx context.Context, id string) (*model.InventoryItem, error)
	UpdateStock(ctx context.Context, item *model.InventoryItem) error
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db: db}
}

func (r *inventoryRepo) GetByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.WithContext(ctx).Where("item_id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := forUpdate(r.db.WithContext(ctx)).Where("item_id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) UpdateStock(ctx context.Context, item *model.InventoryItem) error {
	oldVersion := item.Version
	result := r.db.WithContext(ctx).
		Model(&model.InventoryItem{}).
		Where("item_id = ? AND version = ?", item.ItemID, oldVersion).
		Updates(map[string]interface{}{
			"balance":    item.Balance,
			"inward":     item.Inward,
			"outward":    item.Outward,
			"updated_by": item.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	item.Version = oldVersion + 1
	return nil
}
