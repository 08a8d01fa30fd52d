package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xtown-XT/va-erp-sub000/internal/dto"
	"github.com/Xtown-XT/va-erp-sub000/internal/model"
	"github.com/Xtown-XT/va-erp-sub000/internal/repository"
	pkgerrors "github.com/Xtown-XT/va-erp-sub000/pkg/errors"
	"github.com/Xtown-XT/va-erp-sub000/pkg/metrics"
)

// ── Fitting lifecycle errors ──

var (
	ErrFittingNotFound      = errors.New("fitting record not found")
	ErrNotFitted            = errors.New("fitting record is already removed")
	ErrFittingAssetMismatch = errors.New("fitting record is attached to a different asset")
	ErrInvalidItemAction    = errors.New("invalid item action")
)

// FittingService fit/remove of items on machines and compressors
type FittingService interface {
	FitItem(ctx context.Context, req *dto.FitItemRequest, callerID string) (*dto.FittingResponse, error)
	RemoveItem(ctx context.Context, fittingID string, req *dto.RemoveItemRequest, callerID string) (*dto.FittingResponse, error)
	List(ctx context.Context, req *dto.FittingListRequest) ([]dto.FittingResponse, error)
}

type fittingService struct {
	repo      *repository.Repository
	inventory *inventoryLedger
	scheduler *schedulerService
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func newFittingService(repo *repository.Repository, inventory *inventoryLedger, scheduler *schedulerService, m *metrics.Metrics, logger *zap.Logger) *fittingService {
	return &fittingService{repo: repo, inventory: inventory, scheduler: scheduler, metrics: m, logger: logger}
}

// fitParams a fit on an already locked asset
type fitParams struct {
	itemID       string
	asset        *model.Asset
	class        ItemClass
	shiftEntryID *string
	quantity     int
	date         time.Time
	atRPM        float64
	atMeter      *float64
	callerID     string
}

// removeParams assetID, when set, must be the asset the record is attached to
type removeParams struct {
	fittingID    string
	assetID      string
	shiftEntryID *string
	date         time.Time
	atRPM        float64
	atMeter      *float64
}

// ════════════════════ fit: fitted record + inventory consumption ════════════════════

func (s *fittingService) fit(ctx context.Context, repo *repository.Repository, p fitParams) (*model.FittingRecord, error) {
	if p.asset.Kind != p.class.AssetKind() {
		return nil, fmt.Errorf("%w: %s items cannot be fitted to %s %s",
			ErrAssetKindMismatch, p.class, p.asset.Kind, p.asset.Name)
	}

	item, err := s.inventory.consume(ctx, repo, p.itemID, p.quantity, p.callerID)
	if err != nil {
		return nil, err
	}

	record := &model.FittingRecord{
		ItemID:       item.ItemID,
		ShiftEntryID: p.shiftEntryID,
		ServiceType:  p.class.ServiceType(),
		Quantity:     p.quantity,
		Status:       model.FittingStatusFitted,
		FittedDate:   p.date,
		FittedRPM:    p.atRPM,
		FittedMeter:  p.atMeter,
	}
	assetID := p.asset.AssetID
	if p.asset.Kind == model.AssetKindMachine {
		record.MachineID = &assetID
	} else {
		record.CompressorID = &assetID
	}

	if err := repo.Fitting.Create(ctx, record); err != nil {
		s.logger.Error("create fitting record failed", zap.String("item_id", item.ItemID), zap.Error(err))
		return nil, err
	}
	record.Item = item
	return record, nil
}

// ════════════════════ remove: fitted → removed, no restock ════════════════════

func (s *fittingService) remove(ctx context.Context, repo *repository.Repository, p removeParams) (*model.FittingRecord, error) {
	record, err := repo.Fitting.GetByIDForUpdate(ctx, p.fittingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrFittingNotFound, p.fittingID)
		}
		s.logger.Error("lock fitting record failed", zap.String("fitting_id", p.fittingID), zap.Error(err))
		return nil, err
	}

	if record.Status != model.FittingStatusFitted {
		return nil, fmt.Errorf("%w: %s", ErrNotFitted, p.fittingID)
	}
	if p.assetID != "" && record.AssetID() != p.assetID {
		return nil, fmt.Errorf("%w: %s", ErrFittingAssetMismatch, p.fittingID)
	}

	date := p.date
	atRPM := p.atRPM
	totalRPM := atRPM - record.FittedRPM
	record.RemovedDate = &date
	record.RemovedRPM = &atRPM
	record.RemovedMeter = p.atMeter
	record.RemovedShiftEntryID = p.shiftEntryID
	record.TotalRPMRun = &totalRPM
	if record.FittedMeter != nil && p.atMeter != nil {
		totalMeter := *p.atMeter - *record.FittedMeter
		record.TotalMeterRun = &totalMeter
	}

	if err := repo.Fitting.MarkRemoved(ctx, record); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, fmt.Errorf("%w: %s", ErrNotFitted, p.fittingID)
		}
		s.logger.Error("remove fitting failed", zap.String("fitting_id", p.fittingID), zap.Error(err))
		return nil, err
	}
	return record, nil
}

// ════════════════════ FitItem: direct fit outside a daily entry ════════════════════

func (s *fittingService) FitItem(ctx context.Context, req *dto.FitItemRequest, callerID string) (*dto.FittingResponse, error) {
	class, err := ParseItemClass(req.ItemClass)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	var record *model.FittingRecord
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		asset, err := s.scheduler.lockAsset(ctx, txRepo, req.AssetID, class.AssetKind())
		if err != nil {
			return err
		}
		atRPM := asset.CurrentRPM
		if req.AtRPM != nil {
			atRPM = *req.AtRPM
		}
		record, err = s.fit(ctx, txRepo, fitParams{
			itemID:       req.ItemID,
			asset:        asset,
			class:        class,
			shiftEntryID: req.ShiftEntryID,
			quantity:     req.Quantity,
			date:         date,
			atRPM:        atRPM,
			atMeter:      req.AtMeter,
			callerID:     callerID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncFitting("fit")
	return toFittingResponse(record), nil
}

// ════════════════════ RemoveItem: direct removal ════════════════════

func (s *fittingService) RemoveItem(ctx context.Context, fittingID string, req *dto.RemoveItemRequest, callerID string) (*dto.FittingResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	var record *model.FittingRecord
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var atRPM float64
		if req.AtRPM != nil {
			atRPM = *req.AtRPM
		} else {
			current, err := txRepo.Fitting.GetByID(ctx, fittingID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrFittingNotFound, fittingID)
				}
				return err
			}
			asset, err := s.scheduler.lockAsset(ctx, txRepo, current.AssetID(), "")
			if err != nil {
				return err
			}
			atRPM = asset.CurrentRPM
		}

		var err error
		record, err = s.remove(ctx, txRepo, removeParams{
			fittingID:    fittingID,
			shiftEntryID: req.ShiftEntryID,
			date:         date,
			atRPM:        atRPM,
			atMeter:      req.AtMeter,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncFitting("remove")
	return toFittingResponse(record), nil
}

// ════════════════════ List ════════════════════

func (s *fittingService) List(ctx context.Context, req *dto.FittingListRequest) ([]dto.FittingResponse, error) {
	records, err := s.repo.Fitting.List(ctx, repository.FittingFilter{
		AssetID: req.AssetID,
		Status:  model.FittingStatus(req.Status),
	})
	if err != nil {
		s.logger.Error("list fittings failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.FittingResponse, 0, len(records))
	for i := range records {
		result = append(result, *toFittingResponse(&records[i]))
	}
	return result, nil
}

func toFittingResponse(r *model.FittingRecord) *dto.FittingResponse {
	resp := &dto.FittingResponse{
		ID:            r.FittingID,
		ItemID:        r.ItemID,
		ShiftEntryID:  r.ShiftEntryID,
		MachineID:     r.MachineID,
		CompressorID:  r.CompressorID,
		ServiceType:   string(r.ServiceType),
		Quantity:      r.Quantity,
		Status:        string(r.Status),
		FittedDate:    r.FittedDate.Format(model.DateLayout),
		FittedRPM:     r.FittedRPM,
		FittedMeter:   r.FittedMeter,
		RemovedRPM:    r.RemovedRPM,
		RemovedMeter:  r.RemovedMeter,
		TotalRPMRun:   r.TotalRPMRun,
		TotalMeterRun: r.TotalMeterRun,
	}
	if r.RemovedDate != nil {
		d := r.RemovedDate.Format(model.DateLayout)
		resp.RemovedDate = &d
	}
	if r.Item != nil {
		resp.Item = &dto.ItemBrief{
			ID:         r.Item.ItemID,
			Name:       r.Item.Name,
			PartNumber: r.Item.PartNumber,
			Balance:    r.Item.Balance,
		}
	}
	return resp
}
