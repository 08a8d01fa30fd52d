package dto

import "github.com/shopspring/decimal"

// ── Daily entry DTOs ──

// RosterMemberRequest one worker on the shift, with the attendance to record for them
type RosterMemberRequest struct {
	EmployeeID string           `json:"employee_id" binding:"required,uuid"`
	Role       string           `json:"role"        binding:"required,oneof=operator helper"`
	Shift      int              `json:"shift"       binding:"required,oneof=1 2"`
	Presence   string           `json:"presence"    binding:"omitempty,oneof=present absent"`
	WorkStatus string           `json:"work_status" binding:"omitempty,oneof=working non-working"`
	Salary     *decimal.Decimal `json:"salary"` // nil keeps the stored salary
}

// ItemActionRequest action is "fit" (item_id, quantity) or "remove" (fitting_id)
type ItemActionRequest struct {
	Action    string `json:"action"     binding:"required"`
	ItemID    string `json:"item_id"    binding:"omitempty,uuid"`
	Quantity  int    `json:"quantity"   binding:"omitempty,min=1"`
	FittingID string `json:"fitting_id" binding:"omitempty,uuid"`
}

// CreateDailyEntryRequest one shift submission
type CreateDailyEntryRequest struct {
	RefNo        string  `json:"ref_no"        binding:"omitempty,max=40"`
	Date         string  `json:"date"` // 2006-01-02
	Shift        int     `json:"shift"`
	SiteID       string  `json:"site_id"       binding:"omitempty,uuid"`
	MachineID    string  `json:"machine_id"    binding:"omitempty,uuid"`
	CompressorID *string `json:"compressor_id" binding:"omitempty,uuid"`

	MachineOpeningRPM    *float64 `json:"machine_opening_rpm"`
	MachineClosingRPM    *float64 `json:"machine_closing_rpm"`
	CompressorOpeningRPM *float64 `json:"compressor_opening_rpm"`
	CompressorClosingRPM *float64 `json:"compressor_closing_rpm"`
	MachineHSD           *float64 `json:"machine_hsd"`
	CompressorHSD        *float64 `json:"compressor_hsd"`
	MeterReading         *float64 `json:"meter_reading"`
	NoOfHoles            int      `json:"no_of_holes" binding:"min=0"`

	MachineServiceDone    bool   `json:"machine_service_done"`
	MachineServiceName    string `json:"machine_service_name"    binding:"max=100"`
	CompressorServiceDone bool   `json:"compressor_service_done"`
	CompressorServiceName string `json:"compressor_service_name" binding:"max=100"`
	Notes                 string `json:"notes"`

	Roster     []RosterMemberRequest `json:"roster"      binding:"omitempty,dive"`
	EmployeeID string                `json:"employee_id" binding:"omitempty,uuid"` // legacy single operator

	MachineItems    []ItemActionRequest `json:"machine_items"    binding:"omitempty,dive"`
	CompressorItems []ItemActionRequest `json:"compressor_items" binding:"omitempty,dive"`
	DrillingTools   []ItemActionRequest `json:"drilling_tools"   binding:"omitempty,dive"`
}

// UpdateDailyEntryRequest partial update; nil fields keep their stored value.
// Roster is replaced only when roster or employee_id is present.
type UpdateDailyEntryRequest struct {
	Version      *int    `json:"version"`
	Date         *string `json:"date"`
	Shift        *int    `json:"shift"`
	SiteID       *string `json:"site_id"       binding:"omitempty,uuid"`
	MachineID    *string `json:"machine_id"    binding:"omitempty,uuid"`
	CompressorID *string `json:"compressor_id" binding:"omitempty,uuid|len=0"` // "" detaches the compressor

	MachineOpeningRPM    *float64 `json:"machine_opening_rpm"`
	MachineClosingRPM    *float64 `json:"machine_closing_rpm"`
	CompressorOpeningRPM *float64 `json:"compressor_opening_rpm"`
	CompressorClosingRPM *float64 `json:"compressor_closing_rpm"`
	MachineHSD           *float64 `json:"machine_hsd"`
	CompressorHSD        *float64 `json:"compressor_hsd"`
	MeterReading         *float64 `json:"meter_reading"`
	NoOfHoles            *int     `json:"no_of_holes" binding:"omitempty,min=0"`

	MachineServiceDone    *bool   `json:"machine_service_done"`
	MachineServiceName    *string `json:"machine_service_name"    binding:"omitempty,max=100"`
	CompressorServiceDone *bool   `json:"compressor_service_done"`
	CompressorServiceName *string `json:"compressor_service_name" binding:"omitempty,max=100"`
	Notes                 *string `json:"notes"`

	Roster     []RosterMemberRequest `json:"roster"      binding:"omitempty,dive"`
	EmployeeID *string               `json:"employee_id" binding:"omitempty,uuid"`

	MachineItems    []ItemActionRequest `json:"machine_items"    binding:"omitempty,dive"`
	CompressorItems []ItemActionRequest `json:"compressor_items" binding:"omitempty,dive"`
	DrillingTools   []ItemActionRequest `json:"drilling_tools"   binding:"omitempty,dive"`
}

// DailyEntryListRequest list filter
type DailyEntryListRequest struct {
	PaginationRequest
	DateFrom  string `form:"date_from"`
	DateTo    string `form:"date_to"`
	SiteID    string `form:"site_id"    binding:"omitempty,uuid"`
	MachineID string `form:"machine_id" binding:"omitempty,uuid"`
}

// RosterResponse roster row
type RosterResponse struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role"`
	Shift      int    `json:"shift"`
}

// ShiftEntryResponse persisted shift entry with its associations
type ShiftEntryResponse struct {
	ID           string  `json:"id"`
	RefNo        string  `json:"ref_no"`
	Date         string  `json:"date"`
	Shift        int     `json:"shift"`
	SiteID       string  `json:"site_id"`
	MachineID    string  `json:"machine_id"`
	CompressorID *string `json:"compressor_id,omitempty"`

	MachineOpeningRPM    *float64 `json:"machine_opening_rpm,omitempty"`
	MachineClosingRPM    *float64 `json:"machine_closing_rpm,omitempty"`
	CompressorOpeningRPM *float64 `json:"compressor_opening_rpm,omitempty"`
	CompressorClosingRPM *float64 `json:"compressor_closing_rpm,omitempty"`
	MachineHSD           *float64 `json:"machine_hsd,omitempty"`
	CompressorHSD        *float64 `json:"compressor_hsd,omitempty"`
	MeterReading         *float64 `json:"meter_reading,omitempty"`
	NoOfHoles            int      `json:"no_of_holes"`

	MachineServiceDone    bool   `json:"machine_service_done"`
	MachineServiceName    string `json:"machine_service_name,omitempty"`
	CompressorServiceDone bool   `json:"compressor_service_done"`
	CompressorServiceName string `json:"compressor_service_name,omitempty"`
	Notes                 string `json:"notes,omitempty"`

	Roster   []RosterResponse  `json:"roster"`
	Fittings []FittingResponse `json:"fittings,omitempty"`
	Version  int               `json:"version"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// EntryEventResponse audit trail row
type EntryEventResponse struct {
	ID        string                 `json:"id"`
	EventType string                 `json:"event_type"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	CreatedBy *string                `json:"created_by,omitempty"`
	CreatedAt string                 `json:"created_at"`
}
