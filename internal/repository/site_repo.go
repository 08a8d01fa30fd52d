package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Xtown-XT/va-erp-sub000/internal/model"
)

// SiteRepository site reference data
type SiteRepository interface {
	GetByID(ctx context.Context, id string) (*model.Site, error)
}

type siteRepo struct {
	db *gorm.DB
}

func NewSiteRepo(db *gorm.DB) SiteRepository {
	return &siteRepo{db: db}
}

func (r *siteRepo) GetByID(ctx context.Context, id string) (*model.Site, error) {
	var site model.Site
	err := r.db.WithContext(ctx).Where("site_id = ?", id).First(&site).Error
	if err != nil {
		return nil, err
	}
	return &site, nil
}
