package model

import "time"

// ReferenceSequence last issued reference number per prefix, table reference_sequences
type ReferenceSequence struct {
	Prefix    string    `gorm:"type:varchar(20);primaryKey"        json:"prefix"`
	LastValue int64     `gorm:"not null;default:0"                 json:"last_value"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ReferenceSequence) TableName() string { return "reference_sequences" }
