package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Xtown-XT/va-erp-sub000/config"
	"github.com/Xtown-XT/va-erp-sub000/internal/model"
	"github.com/Xtown-XT/va-erp-sub000/internal/repository"
	"github.com/Xtown-XT/va-erp-sub000/pkg/metrics"
	pkgredis "github.com/Xtown-XT/va-erp-sub000/pkg/redis"
)

// ── fakeCache ──

type fakeCache struct {
	data    map[string][]byte
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, dst interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return pkgredis.ErrCacheMiss
	}
	return json.Unmarshal(raw, dst)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *fakeCache) DeletePrefix(_ context.Context, prefix string) error {
	c.deletes++
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

// ── fixture ──

type fixture struct {
	store *memStore
	repo  *repository.Repository
	cache *fakeCache
	cfg   *config.Config
	svc   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	repo := newMockRepository(store)
	cache := newFakeCache()
	cfg := &config.Config{
		Ledger: config.LedgerConfig{
			ReferencePrefix:  "VA-",
			ReferenceWidth:   3,
			WarningThreshold: 50,
			AlertCacheTTL:    time.Minute,
		},
	}
	return &fixture{
		store: store,
		repo:  repo,
		cache: cache,
		cfg:   cfg,
		svc:   NewService(cfg, repo, cache, metrics.New(), zap.NewNop()),
	}
}

func versioned() model.VersionedModel {
	return model.VersionedModel{Version: 1}
}

func (f *fixture) seedSite(id string) {
	f.store.sites[id] = model.Site{SiteID: id, Name: "Site " + id, IsActive: true, VersionedModel: versioned()}
}

func (f *fixture) seedAsset(id string, kind model.AssetKind, name string, rpm float64) {
	f.store.assets[id] = model.Asset{AssetID: id, Kind: kind, Name: name, CurrentRPM: rpm, VersionedModel: versioned()}
}

func (f *fixture) seedSchedule(assetID, name string, cycle, last float64) {
	id := f.store.id("sch")
	pos := 0
	for _, s := range f.store.schedules {
		if s.AssetID == assetID {
			pos++
		}
	}
	f.store.schedules[id] = model.ServiceSchedule{
		ScheduleID:       id,
		AssetID:          assetID,
		Position:         pos,
		ServiceName:      name,
		CycleLength:      cycle,
		LastServiceAtRPM: last,
	}
}

func (f *fixture) seedItem(id, name string, balance int) {
	f.store.items[id] = model.InventoryItem{
		ItemID:         id,
		Name:           name,
		Category:       model.ItemCategorySpare,
		Units:          "nos",
		Balance:        balance,
		Inward:         balance,
		VersionedModel: versioned(),
	}
}

func (f *fixture) seedWorker(id, name string, advance int64) {
	f.store.workers[id] = model.Worker{
		EmployeeID:     id,
		Name:           name,
		AdvancedAmount: decimal.NewFromInt(advance),
		VersionedModel: versioned(),
	}
}

func (f *fixture) schedule(assetID, name string) model.ServiceSchedule {
	for _, s := range f.store.schedules {
		if s.AssetID == assetID && s.ServiceName == name {
			return s
		}
	}
	return model.ServiceSchedule{}
}

func (f *fixture) eventsOf(entryID string, eventType model.EntryEventType) int {
	n := 0
	for _, e := range f.store.events {
		if e.ShiftEntryID == entryID && e.EventType == eventType {
			n++
		}
	}
	return n
}

func ptr[T any](v T) *T {
	return &v
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
