package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Presence present | absent
type Presence string

const (
	PresencePresent Presence = "present"
	PresenceAbsent  Presence = "absent"
)

// WorkStatus working | non-working
type WorkStatus string

const (
	WorkStatusWorking    WorkStatus = "working"
	WorkStatusNonWorking WorkStatus = "non-working"
)

// AttendanceRecord one row per (employee, date), table attendance_records.
// Hard rows, upserted, no delete path.
type AttendanceRecord struct {
	AttendanceID string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"         json:"attendance_id"`
	EmployeeID   string          `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_employee_date" json:"employee_id"`
	Date         time.Time       `gorm:"type:date;not null;uniqueIndex:uq_attendance_employee_date" json:"date"`
	Presence     Presence        `gorm:"type:varchar(10);not null;default:'present'"            json:"presence"`
	WorkStatus   WorkStatus      `gorm:"type:varchar(12);not null;default:'working'"            json:"work_status"`
	Salary       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"                  json:"salary"`
	SiteID       *string         `gorm:"type:uuid"                                              json:"site_id,omitempty"`
	MachineID    *string         `gorm:"type:uuid"                                              json:"machine_id,omitempty"`
	ShiftEntryID *string         `gorm:"type:uuid"                                              json:"shift_entry_id,omitempty"`
	BaseModel

	Worker *Worker `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"worker,omitempty"`
}

func (AttendanceRecord) TableName() string { return "attendance_records" }
