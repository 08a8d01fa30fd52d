package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Xtown-XT/va-erp-sub000/internal/model"
)

// EntryEventRepository append-only audit trail of shift entries
type EntryEventRepository interface {
	BatchCreate(ctx context.Context, events []model.ShiftEntryEvent) error
	ListByEntry(ctx context.Context, entryID string) ([]model.ShiftEntryEvent, error)
}

type entryEventRepo struct {
	db *gorm.DB
}

func NewEntryEventRepo(db *gorm.DB) EntryEventRepository {
	return &entryEventRepo{db: db}
}

func (r *entryEventRepo) BatchCreate(ctx context.Context, events []model.ShiftEntryEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&events).Error
}

func (r *entryEventRepo) ListByEntry(ctx context.Context, entryID string) ([]model.ShiftEntryEvent, error) {
	var events []model.ShiftEntryEvent
	err := r.db.WithContext(ctx).
		Where("shift_entry_id = ?", entryID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}
