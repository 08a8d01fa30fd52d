package model

// Site drilling site, reference data owned by the master-data service
type Site struct {
	SiteID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"site_id"`
	Name     string `gorm:"type:varchar(150);not null"                     json:"name"`
	Code     string `gorm:"type:varchar(30)"                               json:"code,omitempty"`
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName maps Site to sites
func (Site) TableName() string { return "sites" }
