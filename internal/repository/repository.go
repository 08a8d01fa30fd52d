package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository aggregate entry point for every repository
type Repository struct {
	Transactor Transactor

	Site              SiteRepository
	Worker            WorkerRepository
	Asset             AssetRepository
	Inventory         InventoryRepository
	Fitting           FittingRepository
	Attendance        AttendanceRepository
	ShiftEntry        ShiftEntryRepository
	Roster            RosterRepository
	ReferenceSequence ReferenceSequenceRepository
	EntryEvent        EntryEventRepository
}

// Transactor runs fn inside one database transaction.
// fn receives a Repository bound to that transaction; returning an error rolls it back.
type Transactor interface {
	Transaction(ctx context.Context, fn func(txRepo *Repository) error) error
}

// NewRepository builds the aggregate on db (which may itself be a transaction).
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Transactor:        &gormTransactor{db: db},
		Site:              NewSiteRepo(db),
		Worker:            NewWorkerRepo(db),
		Asset:             NewAssetRepo(db),
		Inventory:         NewInventoryRepo(db),
		Fitting:           NewFittingRepo(db),
		Attendance:        NewAttendanceRepo(db),
		ShiftEntry:        NewShiftEntryRepo(db),
		Roster:            NewRosterRepo(db),
		ReferenceSequence: NewReferenceSequenceRepo(db),
		EntryEvent:        NewEntryEventRepo(db),
	}
}

// Transaction runs fn atomically. Without a Transactor fn runs against r directly.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.Transactor == nil {
		return fn(r)
	}
	return r.Transactor.Transaction(ctx, fn)
}

type gormTransactor struct {
	db *gorm.DB
}

func (t *gormTransactor) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// forUpdate adds SELECT ... FOR UPDATE.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
