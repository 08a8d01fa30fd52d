package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xtown-XT/va-erp-sub000/config"
	"github.com/Xtown-XT/va-erp-sub000/internal/dto"
	"github.com/Xtown-XT/va-erp-sub000/internal/model"
	"github.com/Xtown-XT/va-erp-sub000/internal/repository"
	"github.com/Xtown-XT/va-erp-sub000/pkg/metrics"
	pkgredis "github.com/Xtown-XT/va-erp-sub000/pkg/redis"
)

// ── Usage counter & maintenance errors ──

var (
	ErrAssetNotFound     = errors.New("asset not found")
	ErrAssetKindMismatch = errors.New("asset kind does not match the requested use")
	ErrInvalidSchedule   = errors.New("invalid maintenance schedule")
)

// Alert severities
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

const (
	alertCachePrefix = "alerts:"
	fleetAlertsKey   = alertCachePrefix + "fleet"
)

// AlertCache stores computed alert lists between commits.
type AlertCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// SchedulerService maintenance schedules and alerts
type SchedulerService interface {
	ComputeMaintenanceAlerts(ctx context.Context) ([]dto.MaintenanceAlert, error)
	ComputeAssetAlerts(ctx context.Context, assetID string) ([]dto.MaintenanceAlert, error)
	ReplaceSchedule(ctx context.Context, assetID string, req *dto.ReplaceScheduleRequest, callerID string) (*dto.AssetScheduleResponse, error)
}

type schedulerService struct {
	repo      *repository.Repository
	cache     AlertCache
	metrics   *metrics.Metrics
	threshold float64
	cacheTTL  time.Duration
	logger    *zap.Logger
}

func newSchedulerService(repo *repository.Repository, cache AlertCache, m *metrics.Metrics, cfg *config.LedgerConfig, logger *zap.Logger) *schedulerService {
	return &schedulerService{
		repo:      repo,
		cache:     cache,
		metrics:   m,
		threshold: cfg.WarningThreshold,
		cacheTTL:  cfg.AlertCacheTTL,
		logger:    logger,
	}
}

// NewSchedulerService creates a SchedulerService. cache may be nil.
func NewSchedulerService(repo *repository.Repository, cache AlertCache, m *metrics.Metrics, cfg *config.LedgerConfig, logger *zap.Logger) SchedulerService {
	return newSchedulerService(repo, cache, m, cfg, logger)
}

// CounterDelta is max(0, closing − opening). A missing or non-finite reading contributes nothing.
func CounterDelta(opening, closing *float64) float64 {
	if opening == nil || closing == nil {
		return 0
	}
	d := *closing - *opening
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return 0
	}
	return d
}

// ════════════════════ lockAsset / advance / recordService ════════════════════
// Write-side steps; they run on the caller's transaction.

func (s *schedulerService) lockAsset(ctx context.Context, repo *repository.Repository, assetID string, kind model.AssetKind) (*model.Asset, error) {
	asset, err := repo.Asset.GetByIDForUpdate(ctx, assetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, assetID)
		}
		s.logger.Error("lock asset failed", zap.String("asset_id", assetID), zap.Error(err))
		return nil, err
	}
	if kind != "" && asset.Kind != kind {
		return nil, fmt.Errorf("%w: %s is a %s, expected %s", ErrAssetKindMismatch, asset.Name, asset.Kind, kind)
	}
	return asset, nil
}

// advance adds delta to the counter; non-positive deltas leave it untouched.
func (s *schedulerService) advance(ctx context.Context, repo *repository.Repository, asset *model.Asset, delta float64, callerID string) error {
	if !(delta > 0) || math.IsInf(delta, 0) {
		return nil
	}
	asset.CurrentRPM += delta
	asset.UpdatedBy = &callerID
	if err := repo.Asset.UpdateCounter(ctx, asset); err != nil {
		s.logger.Error("advance counter failed", zap.String("asset_id", asset.AssetID), zap.Error(err))
		return err
	}
	return nil
}

// recordService sets lastServiceAtRPM on the schedule entry named serviceName.
// It reports false, writing nothing, when no entry has that exact name.
func (s *schedulerService) recordService(ctx context.Context, repo *repository.Repository, asset *model.Asset, serviceName string, atRPM float64, callerID string) (bool, error) {
	sched := asset.ScheduleByName(serviceName)
	if sched == nil {
		s.logger.Warn("service name not in asset schedule",
			zap.String("asset_id", asset.AssetID), zap.String("service_name", serviceName))
		return false, nil
	}
	sched.LastServiceAtRPM = atRPM
	sched.UpdatedBy = &callerID
	if err := repo.Asset.UpdateScheduleService(ctx, sched); err != nil {
		s.logger.Error("record service failed", zap.String("schedule_id", sched.ScheduleID), zap.Error(err))
		return false, err
	}
	return true, nil
}

// ════════════════════ ComputeMaintenanceAlerts: fleet-wide ════════════════════

func (s *schedulerService) ComputeMaintenanceAlerts(ctx context.Context) ([]dto.MaintenanceAlert, error) {
	if s.cache != nil {
		var cached []dto.MaintenanceAlert
		err := s.cache.GetJSON(ctx, fleetAlertsKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, pkgredis.ErrCacheMiss) {
			s.logger.Warn("read alert cache failed", zap.Error(err))
		}
	}

	assets, err := s.repo.Asset.List(ctx)
	if err != nil {
		s.logger.Error("list assets failed", zap.Error(err))
		return nil, err
	}

	alerts := make([]dto.MaintenanceAlert, 0)
	for i := range assets {
		alerts = append(alerts, alertsForAsset(&assets[i], s.threshold)...)
	}
	sortAlerts(alerts)

	counts := map[string]int{SeverityWarning: 0, SeverityCritical: 0}
	for _, a := range alerts {
		counts[a.Severity]++
	}
	s.metrics.SetAlerts(counts)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, fleetAlertsKey, alerts, s.cacheTTL); err != nil {
			s.logger.Warn("write alert cache failed", zap.Error(err))
		}
	}

	return alerts, nil
}

// ════════════════════ ComputeAssetAlerts: single asset ════════════════════

func (s *schedulerService) ComputeAssetAlerts(ctx context.Context, assetID string) ([]dto.MaintenanceAlert, error) {
	asset, err := s.repo.Asset.GetByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		s.logger.Error("get asset failed", zap.String("asset_id", assetID), zap.Error(err))
		return nil, err
	}

	alerts := alertsForAsset(asset, s.threshold)
	sortAlerts(alerts)
	return alerts, nil
}

// ════════════════════ ReplaceSchedule: wholesale schedule write ════════════════════

func (s *schedulerService) ReplaceSchedule(ctx context.Context, assetID string, req *dto.ReplaceScheduleRequest, callerID string) (*dto.AssetScheduleResponse, error) {
	seen := make(map[string]bool, len(req.Entries))
	schedules := make([]model.ServiceSchedule, 0, len(req.Entries))
	for i, e := range req.Entries {
		name := strings.TrimSpace(e.ServiceName)
		switch {
		case name == "":
			return nil, fmt.Errorf("%w: entry %d has no service name", ErrInvalidSchedule, i)
		case seen[name]:
			return nil, fmt.Errorf("%w: duplicate service name %q", ErrInvalidSchedule, name)
		case !validCycle(e.CycleLength):
			return nil, fmt.Errorf("%w: %q cycle length must be positive", ErrInvalidSchedule, name)
		case math.IsNaN(e.LastServiceAtRPM) || e.LastServiceAtRPM < 0:
			return nil, fmt.Errorf("%w: %q last service reading must not be negative", ErrInvalidSchedule, name)
		}
		seen[name] = true
		schedules = append(schedules, model.ServiceSchedule{
			AssetID:          assetID,
			Position:         i,
			ServiceName:      name,
			CycleLength:      e.CycleLength,
			LastServiceAtRPM: e.LastServiceAtRPM,
			BaseModel:        model.BaseModel{CreatedBy: &callerID, UpdatedBy: &callerID},
		})
	}

	var asset *model.Asset
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		asset, err = s.lockAsset(ctx, txRepo, assetID, "")
		if err != nil {
			return err
		}
		if err := txRepo.Asset.ReplaceSchedules(ctx, assetID, schedules); err != nil {
			s.logger.Error("replace schedules failed", zap.String("asset_id", assetID), zap.Error(err))
			return err
		}
		asset.Schedules = schedules
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateAlerts(ctx)
	return toAssetScheduleResponse(asset), nil
}

func (s *schedulerService) invalidateAlerts(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, alertCachePrefix); err != nil {
		s.logger.Warn("invalidate alert cache failed", zap.Error(err))
	}
}

// ── helpers ──

func validCycle(c float64) bool {
	return c > 0 && !math.IsInf(c, 0)
}

// classifyRemaining critical at or past due, warning within threshold, otherwise no alert.
func classifyRemaining(remaining, threshold float64) (string, bool) {
	switch {
	case remaining <= 0:
		return SeverityCritical, true
	case remaining <= threshold:
		return SeverityWarning, true
	}
	return "", false
}

// alertsForAsset skips schedule entries with an unusable cycle length.
func alertsForAsset(asset *model.Asset, threshold float64) []dto.MaintenanceAlert {
	var alerts []dto.MaintenanceAlert
	for _, sched := range asset.Schedules {
		if !validCycle(sched.CycleLength) || math.IsNaN(sched.LastServiceAtRPM) {
			continue
		}
		nextDue := sched.NextDueRPM()
		remaining := nextDue - asset.CurrentRPM
		severity, ok := classifyRemaining(remaining, threshold)
		if !ok {
			continue
		}
		alerts = append(alerts, dto.MaintenanceAlert{
			AssetID:          asset.AssetID,
			AssetName:        asset.Name,
			AssetKind:        string(asset.Kind),
			ServiceName:      sched.ServiceName,
			CycleLength:      sched.CycleLength,
			LastServiceAtRPM: sched.LastServiceAtRPM,
			CurrentRPM:       asset.CurrentRPM,
			NextDueRPM:       nextDue,
			Remaining:        remaining,
			Severity:         severity,
		})
	}
	return alerts
}

// sortAlerts most overdue first
func sortAlerts(alerts []dto.MaintenanceAlert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Remaining != alerts[j].Remaining {
			return alerts[i].Remaining < alerts[j].Remaining
		}
		if alerts[i].AssetName != alerts[j].AssetName {
			return alerts[i].AssetName < alerts[j].AssetName
		}
		return alerts[i].ServiceName < alerts[j].ServiceName
	})
}

func toAssetScheduleResponse(asset *model.Asset) *dto.AssetScheduleResponse {
	resp := &dto.AssetScheduleResponse{
		AssetID:    asset.AssetID,
		Name:       asset.Name,
		Kind:       string(asset.Kind),
		CurrentRPM: asset.CurrentRPM,
		Schedules:  make([]dto.ScheduleEntryResponse, 0, len(asset.Schedules)),
	}
	for _, sched := range asset.Schedules {
		resp.Schedules = append(resp.Schedules, dto.ScheduleEntryResponse{
			ServiceName:      sched.ServiceName,
			CycleLength:      sched.CycleLength,
			LastServiceAtRPM: sched.LastServiceAtRPM,
			NextDueRPM:       sched.NextDueRPM(),
			Remaining:        sched.NextDueRPM() - asset.CurrentRPM,
		})
	}
	return resp
}
