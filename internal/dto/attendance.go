package dto

import "github.com/shopspring/decimal"

// ── Attendance DTOs ──

// UpsertAttendanceRequest one (employee, date) record
type UpsertAttendanceRequest struct {
	EmployeeID string          `json:"employee_id" binding:"required,uuid"`
	Date       string          `json:"date"        binding:"required"`
	Presence   string          `json:"presence"    binding:"omitempty,oneof=present absent"`
	WorkStatus string          `json:"work_status" binding:"omitempty,oneof=working non-working"`
	Salary     decimal.Decimal `json:"salary"`
	SiteID     *string         `json:"site_id"     binding:"omitempty,uuid"`
	MachineID  *string         `json:"machine_id"  binding:"omitempty,uuid"`
}

// BatchAttendanceItem one worker inside a batch
type BatchAttendanceItem struct {
	EmployeeID string          `json:"employee_id" binding:"required,uuid"`
	Presence   string          `json:"presence"    binding:"omitempty,oneof=present absent"`
	WorkStatus string          `json:"work_status" binding:"omitempty,oneof=working non-working"`
	Salary     decimal.Decimal `json:"salary"`
	SiteID     *string         `json:"site_id"     binding:"omitempty,uuid"`
	MachineID  *string         `json:"machine_id"  binding:"omitempty,uuid"`
}

// BatchAttendanceRequest records for a single date
type BatchAttendanceRequest struct {
	Date    string                `json:"date"    binding:"required"`
	Records []BatchAttendanceItem `json:"records" binding:"required,min=1,dive"`
}

// AttendanceResponse attendance record
type AttendanceResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	Date           string          `json:"date"`
	Presence       string          `json:"presence"`
	WorkStatus     string          `json:"work_status"`
	Salary         decimal.Decimal `json:"salary"`
	SiteID         *string         `json:"site_id,omitempty"`
	MachineID      *string         `json:"machine_id,omitempty"`
	Created        bool            `json:"created"`
	AdvanceBalance decimal.Decimal `json:"advance_balance"`
}

// AttendanceSummary outcome of a batch upsert
type AttendanceSummary struct {
	Date            string          `json:"date"`
	Created         int             `json:"created"`
	Updated         int             `json:"updated"`
	AdvanceDeducted decimal.Decimal `json:"advance_deducted"`
}
