package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Xtown-XT/va-erp-sub000/internal/model"
	pkgerrors "github.com/Xtown-XT/va-erp-sub000/pkg/errors"
)

// WorkerRepository worker rows and their advance balance
type WorkerRepository interface {
	GetByID(ctx context.Context, id string) (*model.Worker, error)
	GetByIDForUpdate(ctx context.Context, id string) (*model.Worker, error)
	LockByIDs(ctx context.Context, ids []string) ([]model.Worker, error)
	UpdateAdvance(ctx context.Context, worker *model.Worker) error
	UpdateAdvances(ctx context.Context, workers []model.Worker, updatedBy string) error
}

type workerRepo struct {
	db *gorm.DB
}

func NewWorkerRepo(db *gorm.DB) WorkerRepository {
	return &workerRepo{db: db}
}

func (r *workerRepo) GetByID(ctx context.Context, id string) (*model.Worker, error) {
	var w model.Worker
	err := r.db.WithContext(ctx).Where("employee_id = ?", id).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *workerRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Worker, error) {
	var w model.Worker
	err := forUpdate(r.db.WithContext(ctx)).Where("employee_id = ?", id).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// LockByIDs locks the rows in primary key order so concurrent batches cannot deadlock.
func (r *workerRepo) LockByIDs(ctx context.Context, ids []string) ([]model.Worker, error) {
	var workers []model.Worker
	if len(ids) == 0 {
		return workers, nil
	}
	err := forUpdate(r.db.WithContext(ctx)).
		Where("employee_id IN ?", ids).
		Order("employee_id").
		Find(&workers).Error
	return workers, err
}

func (r *workerRepo) UpdateAdvance(ctx context.Context, worker *model.Worker) error {
	oldVersion := worker.Version
	result := r.db.WithContext(ctx).
		Model(&model.Worker{}).
		Where("employee_id = ? AND version = ?", worker.EmployeeID, oldVersion).
		Updates(map[string]interface{}{
			"advanced_amount": worker.AdvancedAmount,
			"updated_by":      worker.UpdatedBy,
			"version":         oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	worker.Version = oldVersion + 1
	return nil
}

// UpdateAdvances writes every worker's advance in one statement, stamped with updatedBy.
// Callers hold the row locks from LockByIDs, so no version check is made.
func (r *workerRepo) UpdateAdvances(ctx context.Context, workers []model.Worker, updatedBy string) error {
	if len(workers) == 0 {
		return nil
	}

	var sb strings.Builder
	args := make([]interface{}, 0, len(workers)*2)
	ids := make([]string, 0, len(workers))

	sb.WriteString("CASE employee_id")
	for _, w := range workers {
		sb.WriteString(" WHEN ? THEN ?::numeric")
		args = append(args, w.EmployeeID, w.AdvancedAmount)
		ids = append(ids, w.EmployeeID)
	}
	sb.WriteString(" END")

	return r.db.WithContext(ctx).
		Model(&model.Worker{}).
		Where("employee_id IN ?", ids).
		Updates(map[string]interface{}{
			"advanced_amount": gorm.Expr(sb.String(), args...),
			"updated_by":      updatedBy,
			"version":         gorm.Expr("version + 1"),
		}).Error
}
