package model

import (
	"time"

	"gorm.io/datatypes"
)

// EntryEventType what happened inside a daily entry transaction
type EntryEventType string

const (
	EntryEventCreated            EntryEventType = "created"
	EntryEventUpdated            EntryEventType = "updated"
	EntryEventCounterAdvanced    EntryEventType = "counter_advanced"
	EntryEventServiceRecorded    EntryEventType = "service_recorded"
	EntryEventServiceUnmatched   EntryEventType = "service_unmatched"
	EntryEventItemFitted         EntryEventType = "item_fitted"
	EntryEventItemRemoved        EntryEventType = "item_removed"
	EntryEventAttendanceUpserted EntryEventType = "attendance_upserted"
)

// ShiftEntryEvent audit trail row, table shift_entry_events (append-only)
type ShiftEntryEvent struct {
	EventID      string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	ShiftEntryID string            `gorm:"type:uuid;not null;index"                       json:"shift_entry_id"`
	EventType    EntryEventType    `gorm:"type:varchar(30);not null"                      json:"event_type"`
	Payload      datatypes.JSONMap `gorm:"type:jsonb"                                     json:"payload,omitempty"`
	CreatedBy    *string           `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (ShiftEntryEvent) TableName() string { return "shift_entry_events" }
