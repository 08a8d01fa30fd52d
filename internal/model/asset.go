package model

// AssetKind machine | compressor
type AssetKind string

const (
	AssetKindMachine    AssetKind = "machine"
	AssetKindCompressor AssetKind = "compressor"
)

// Asset a machine or compressor with a cumulative RPM counter, table assets
type Asset struct {
	AssetID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"asset_id"`
	Kind       AssetKind `gorm:"type:varchar(20);not null"                      json:"kind"`
	Name       string    `gorm:"type:varchar(150);not null"                     json:"name"`
	RegNumber  string    `gorm:"type:varchar(50)"                               json:"reg_number,omitempty"`
	SiteID     *string   `gorm:"type:uuid"                                      json:"site_id,omitempty"`
	CurrentRPM float64   `gorm:"type:numeric(14,2);not null;default:0"          json:"current_rpm"` // never decreases
	VersionedModel

	Schedules []ServiceSchedule `gorm:"foreignKey:AssetID;references:AssetID" json:"schedules,omitempty"`
}

func (Asset) TableName() string { return "assets" }

// ScheduleByName finds the schedule entry with exactly this name.
func (a *Asset) ScheduleByName(name string) *ServiceSchedule {
	for i := range a.Schedules {
		if a.Schedules[i].ServiceName == name {
			return &a.Schedules[i]
		}
	}
	return nil
}

// ServiceSchedule one maintenance cycle rule of an asset, table asset_service_schedules
type ServiceSchedule struct {
	ScheduleID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	AssetID          string  `gorm:"type:uuid;not null"                             json:"asset_id"`
	Position         int     `gorm:"not null;default:0"                             json:"position"`
	ServiceName      string  `gorm:"type:varchar(100);not null"                     json:"service_name"`
	CycleLength      float64 `gorm:"type:numeric(14,2);not null"                    json:"cycle_length"`
	LastServiceAtRPM float64 `gorm:"type:numeric(14,2);not null;default:0"          json:"last_service_at_rpm"`
	BaseModel
}

func (ServiceSchedule) TableName() string { return "asset_service_schedules" }

// NextDueRPM lastServiceAtRPM + cycleLength
func (s ServiceSchedule) NextDueRPM() float64 {
	return s.LastServiceAtRPM + s.CycleLength
}
