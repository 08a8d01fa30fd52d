package dto

// ── Fitting DTOs ──

// FitItemRequest attach an item to an asset outside a daily entry
type FitItemRequest struct {
	ItemID       string   `json:"item_id"        binding:"required,uuid"`
	AssetID      string   `json:"asset_id"       binding:"required,uuid"`
	ItemClass    string   `json:"item_class"     binding:"required,oneof=machine compressor drilling_tool"`
	ShiftEntryID *string  `json:"shift_entry_id" binding:"omitempty,uuid"`
	Quantity     int      `json:"quantity"       binding:"required,min=1"`
	Date         string   `json:"date"           binding:"required"`
	AtRPM        *float64 `json:"at_rpm"` // defaults to the asset's current counter
	AtMeter      *float64 `json:"at_meter"`
}

// RemoveItemRequest close a fitting
type RemoveItemRequest struct {
	Date         string   `json:"date"           binding:"required"`
	ShiftEntryID *string  `json:"shift_entry_id" binding:"omitempty,uuid"`
	AtRPM        *float64 `json:"at_rpm"` // defaults to the asset's current counter
	AtMeter      *float64 `json:"at_meter"`
}

// FittingListRequest list filter
type FittingListRequest struct {
	AssetID string `form:"asset_id" binding:"omitempty,uuid"`
	Status  string `form:"status"   binding:"omitempty,oneof=fitted removed"`
}

// ItemBrief item summary embedded in fitting responses
type ItemBrief struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PartNumber string `json:"part_number,omitempty"`
	Balance    int    `json:"balance"`
}

// FittingResponse fitting record
type FittingResponse struct {
	ID           string     `json:"id"`
	ItemID       string     `json:"item_id"`
	Item         *ItemBrief `json:"item,omitempty"`
	ShiftEntryID *string    `json:"shift_entry_id,omitempty"`
	MachineID    *string    `json:"machine_id,omitempty"`
	CompressorID *string    `json:"compressor_id,omitempty"`
	ServiceType  string     `json:"service_type"`
	Quantity     int        `json:"quantity"`
	Status       string     `json:"status"`

	FittedDate  string   `json:"fitted_date"`
	FittedRPM   float64  `json:"fitted_rpm"`
	FittedMeter *float64 `json:"fitted_meter,omitempty"`

	RemovedDate   *string  `json:"removed_date,omitempty"`
	RemovedRPM    *float64 `json:"removed_rpm,omitempty"`
	RemovedMeter  *float64 `json:"removed_meter,omitempty"`
	TotalRPMRun   *float64 `json:"total_rpm_run,omitempty"`
	TotalMeterRun *float64 `json:"total_meter_run,omitempty"`
}
