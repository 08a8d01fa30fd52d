package dto

// ── Maintenance DTOs ──

// MaintenanceAlert one due or overdue schedule entry
type MaintenanceAlert struct {
	AssetID          string  `json:"asset_id"`
	AssetName        string  `json:"asset_name"`
	AssetKind        string  `json:"asset_kind"`
	ServiceName      string  `json:"service_name"`
	CycleLength      float64 `json:"cycle_length"`
	LastServiceAtRPM float64 `json:"last_service_at_rpm"`
	CurrentRPM       float64 `json:"current_rpm"`
	NextDueRPM       float64 `json:"next_due_rpm"`
	Remaining        float64 `json:"remaining"`
	Severity         string  `json:"severity"` // warning | critical
}

// ScheduleEntryRequest one cycle rule
type ScheduleEntryRequest struct {
	ServiceName      string  `json:"service_name"        binding:"required,max=100"`
	CycleLength      float64 `json:"cycle_length"`
	LastServiceAtRPM float64 `json:"last_service_at_rpm"`
}

// ReplaceScheduleRequest the asset's full ordered schedule
type ReplaceScheduleRequest struct {
	Entries []ScheduleEntryRequest `json:"entries" binding:"dive"`
}

// ScheduleEntryResponse cycle rule with derived values
type ScheduleEntryResponse struct {
	ServiceName      string  `json:"service_name"`
	CycleLength      float64 `json:"cycle_length"`
	LastServiceAtRPM float64 `json:"last_service_at_rpm"`
	NextDueRPM       float64 `json:"next_due_rpm"`
	Remaining        float64 `json:"remaining"`
}

// AssetScheduleResponse asset with its schedule
type AssetScheduleResponse struct {
	AssetID    string                  `json:"asset_id"`
	Name       string                  `json:"name"`
	Kind       string                  `json:"kind"`
	CurrentRPM float64                 `json:"current_rpm"`
	Schedules  []ScheduleEntryResponse `json:"schedules"`
}
