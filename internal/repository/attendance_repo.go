package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xtown-XT/va-erp-sub000/internal/model"
)

// AttendanceRepository one attendance row per (employee, date)
type AttendanceRepository interface {
	GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (*model.AttendanceRecord, error)
	ListByEmployeesDates(ctx context.Context, employeeIDs []string, dates []time.Time) ([]model.AttendanceRecord, error)
	Create(ctx context.Context, record *model.AttendanceRecord) error
	Update(ctx context.Context, record *model.AttendanceRecord) error
	UpsertMany(ctx context.Context, records []model.AttendanceRecord) error
}

type attendanceRepo struct {
	db *gorm.DB
}

func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", employeeID, date.Format(model.DateLayout)).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByEmployeesDates returns rows whose employee and date are each in the given sets.
// Callers pick exact (employee, date) pairs from the result.
func (r *attendanceRepo) ListByEmployeesDates(ctx context.Context, employeeIDs []string, dates []time.Time) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	if len(employeeIDs) == 0 || len(dates) == 0 {
		return records, nil
	}
	days := make([]string, 0, len(dates))
	for _, d := range dates {
		days = append(days, d.Format(model.DateLayout))
	}
	err := r.db.WithContext(ctx).
		Where("employee_id IN ? AND date IN ?", employeeIDs, days).
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) Create(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Omit("Worker").Create(record).Error
}

func (r *attendanceRepo) Update(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("attendance_id = ?", record.AttendanceID).
		Updates(map[string]interface{}{
			"presence":       record.Presence,
			"work_status":    record.WorkStatus,
			"salary":         record.Salary,
			"site_id":        record.SiteID,
			"machine_id":     record.MachineID,
			"shift_entry_id": record.ShiftEntryID,
			"updated_by":     record.UpdatedBy,
			"updated_at":     time.Now().UTC(),
		}).Error
}

// UpsertMany inserts or overwrites rows keyed by (employee_id, date) in one statement.
func (r *attendanceRepo) UpsertMany(ctx context.Context, records []model.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Omit("Worker").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"presence", "work_status", "salary", "site_id", "machine_id",
				"shift_entry_id", "updated_by", "updated_at",
			}),
		}).
		Create(&records).Error
}
