package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xtown-XT/va-erp-sub000/internal/model"
)

// ReferenceSequenceRepository counters behind reference codes
type ReferenceSequenceRepository interface {
	Get(ctx context.Context, prefix string) (*model.ReferenceSequence, error)
	Lock(ctx context.Context, prefix string) (*model.ReferenceSequence, error)
	SetLastValue(ctx context.Context, prefix string, value int64) error
}

type referenceSequenceRepo struct {
	db *gorm.DB
}

func NewReferenceSequenceRepo(db *gorm.DB) ReferenceSequenceRepository {
	return &referenceSequenceRepo{db: db}
}

func (r *referenceSequenceRepo) Get(ctx context.Context, prefix string) (*model.ReferenceSequence, error) {
	var seq model.ReferenceSequence
	err := r.db.WithContext(ctx).Where("prefix = ?", prefix).First(&seq).Error
	if err != nil {
		return nil, err
	}
	return &seq, nil
}

// Lock ensures the row exists and holds FOR UPDATE on it until the transaction ends.
func (r *referenceSequenceRepo) Lock(ctx context.Context, prefix string) (*model.ReferenceSequence, error) {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ReferenceSequence{Prefix: prefix, UpdatedAt: time.Now().UTC()}).Error
	if err != nil {
		return nil, err
	}

	var seq model.ReferenceSequence
	if err := forUpdate(db).Where("prefix = ?", prefix).First(&seq).Error; err != nil {
		return nil, err
	}
	return &seq, nil
}

func (r *referenceSequenceRepo) SetLastValue(ctx context.Context, prefix string, value int64) error {
	return r.db.WithContext(ctx).
		Model(&model.ReferenceSequence{}).
		Where("prefix = ?", prefix).
		Updates(map[string]interface{}{
			"last_value": value,
			"updated_at": time.Now().UTC(),
		}).Error
}
