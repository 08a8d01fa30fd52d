package model

// ItemCategory spare | service_item | drilling_tool
type ItemCategory string

const (
	ItemCategorySpare        ItemCategory = "spare"
	ItemCategoryServiceItem  ItemCategory = "service_item"
	ItemCategoryDrillingTool ItemCategory = "drilling_tool"
)

// InventoryItem consumable/tool catalog entry with on-hand balance, table inventory_items
//
// balance never goes below zero; outward and inward are cumulative.
type InventoryItem struct {
	ItemID     string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"item_id"`
	Name       string       `gorm:"type:varchar(150);not null"                     json:"name"`
	PartNumber string       `gorm:"type:varchar(60)"                               json:"part_number,omitempty"`
	Category   ItemCategory `gorm:"type:varchar(20);not null"                      json:"category"`
	Units      string       `gorm:"type:varchar(20);not null;default:'nos'"        json:"units"`
	Balance    int          `gorm:"not null;default:0"                             json:"balance"`
	Inward     int          `gorm:"not null;default:0"                             json:"inward"`
	Outward    int          `gorm:"not null;default:0"                             json:"outward"`
	VersionedModel
}

func (InventoryItem) TableName() string { return "inventory_items" }
