package model

import "time"

// ServiceType which class of asset a fitting belongs to
type ServiceType string

const (
	ServiceTypeMachine      ServiceType = "machine"
	ServiceTypeCompressor   ServiceType = "compressor"
	ServiceTypeDrillingTool ServiceType = "drilling_tool"
)

// FittingStatus fitted → removed, one way
type FittingStatus string

const (
	FittingStatusFitted  FittingStatus = "fitted"
	FittingStatusRemoved FittingStatus = "removed"
)

// FittingRecord an item instance attached to a machine or a compressor, table fitting_records.
// Hard rows: never deleted.
type FittingRecord struct {
	FittingID    string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"fitting_id"`
	ItemID       string        `gorm:"type:uuid;not null"                             json:"item_id"`
	ShiftEntryID *string       `gorm:"type:uuid"                                      json:"shift_entry_id,omitempty"`
	MachineID    *string       `gorm:"type:uuid"                                      json:"machine_id,omitempty"`
	CompressorID *string       `gorm:"type:uuid"                                      json:"compressor_id,omitempty"`
	ServiceType  ServiceType   `gorm:"type:varchar(20);not null"                      json:"service_type"`
	Quantity     int           `gorm:"not null"                                       json:"quantity"`
	Status       FittingStatus `gorm:"type:varchar(10);not null;default:'fitted'"     json:"status"`

	FittedDate  time.Time `gorm:"type:date;not null"          json:"fitted_date"`
	FittedRPM   float64   `gorm:"type:numeric(14,2);not null" json:"fitted_rpm"`
	FittedMeter *float64  `gorm:"type:numeric(14,2)"          json:"fitted_meter,omitempty"`

	RemovedDate         *time.Time `gorm:"type:date"          json:"removed_date,omitempty"`
	RemovedRPM          *float64   `gorm:"type:numeric(14,2)" json:"removed_rpm,omitempty"`
	RemovedMeter        *float64   `gorm:"type:numeric(14,2)" json:"removed_meter,omitempty"`
	RemovedShiftEntryID *string    `gorm:"type:uuid"          json:"removed_shift_entry_id,omitempty"`
	TotalRPMRun         *float64   `gorm:"type:numeric(14,2)" json:"total_rpm_run,omitempty"`
	TotalMeterRun       *float64   `gorm:"type:numeric(14,2)" json:"total_meter_run,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Item *InventoryItem `gorm:"foreignKey:ItemID;references:ItemID" json:"item,omitempty"`
}

func (FittingRecord) TableName() string { return "fitting_records" }

// AssetID the machine or compressor the record is attached to.
func (f *FittingRecord) AssetID() string {
	if f.MachineID != nil {
		return *f.MachineID
	}
	if f.CompressorID != nil {
		return *f.CompressorID
	}
	return ""
}
