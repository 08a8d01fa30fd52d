package model

import "time"

// ShiftEntry one shift's readings, table shift_entries
type ShiftEntry struct {
	ShiftEntryID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_entry_id"`
	RefNo        string    `gorm:"type:varchar(40);not null;uniqueIndex"          json:"ref_no"`
	Date         time.Time `gorm:"type:date;not null"                             json:"date"`
	Shift        int       `gorm:"type:smallint;not null"                         json:"shift"` // 1 | 2
	SiteID       string    `gorm:"type:uuid;not null"                             json:"site_id"`
	MachineID    string    `gorm:"type:uuid;not null"                             json:"machine_id"`
	CompressorID *string   `gorm:"type:uuid"                                      json:"compressor_id,omitempty"`

	MachineOpeningRPM    *float64 `gorm:"type:numeric(14,2)" json:"machine_opening_rpm,omitempty"`
	MachineClosingRPM    *float64 `gorm:"type:numeric(14,2)" json:"machine_closing_rpm,omitempty"`
	CompressorOpeningRPM *float64 `gorm:"type:numeric(14,2)" json:"compressor_opening_rpm,omitempty"`
	CompressorClosingRPM *float64 `gorm:"type:numeric(14,2)" json:"compressor_closing_rpm,omitempty"`
	MachineHSD           *float64 `gorm:"type:numeric(10,2)" json:"machine_hsd,omitempty"`
	CompressorHSD        *float64 `gorm:"type:numeric(10,2)" json:"compressor_hsd,omitempty"`
	MeterReading         *float64 `gorm:"type:numeric(14,2)" json:"meter_reading,omitempty"`
	NoOfHoles            int      `gorm:"not null;default:0" json:"no_of_holes"`

	MachineServiceDone    bool   `gorm:"not null;default:false" json:"machine_service_done"`
	MachineServiceName    string `gorm:"type:varchar(100)"      json:"machine_service_name,omitempty"`
	CompressorServiceDone bool   `gorm:"not null;default:false" json:"compressor_service_done"`
	CompressorServiceName string `gorm:"type:varchar(100)"      json:"compressor_service_name,omitempty"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`
	VersionedModel

	Roster   []RosterAssignment `gorm:"foreignKey:ShiftEntryID;references:ShiftEntryID" json:"roster,omitempty"`
	Fittings []FittingRecord    `gorm:"foreignKey:ShiftEntryID;references:ShiftEntryID" json:"fittings,omitempty"`
}

func (ShiftEntry) TableName() string { return "shift_entries" }

// RosterRole operator | helper
type RosterRole string

const (
	RosterRoleOperator RosterRole = "operator"
	RosterRoleHelper   RosterRole = "helper"
)

// RosterAssignment worker ↔ shift entry join, table roster_assignments.
// Replaced wholesale whenever the roster changes.
type RosterAssignment struct {
	RosterID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"roster_id"`
	ShiftEntryID string     `gorm:"type:uuid;not null;index"                       json:"shift_entry_id"`
	EmployeeID   string     `gorm:"type:uuid;not null"                             json:"employee_id"`
	Role         RosterRole `gorm:"type:varchar(10);not null"                      json:"role"`
	Shift        int        `gorm:"type:smallint;not null"                         json:"shift"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Worker *Worker `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"worker,omitempty"`
}

func (RosterAssignment) TableName() string { return "roster_assignments" }
