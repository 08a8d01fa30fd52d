package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xtown-XT/va-erp-sub000/internal/dto"
	"github.com/Xtown-XT/va-erp-sub000/internal/model"
	pkgerrors "github.com/Xtown-XT/va-erp-sub000/pkg/errors"
)

func setupDailyEntryFixture(t *testing.T) *fixture {
	f := newFixture(t)
	f.seedSite("site-1")
	f.seedAsset("m-1", model.AssetKindMachine, "Rig 1", 1000)
	f.seedSchedule("m-1", "Engine Oil", 250, 900)
	f.seedAsset("c-1", model.AssetKindCompressor, "Comp 1", 500)
	f.seedSchedule("c-1", "Air Filter", 500, 0)
	f.seedItem("bit-1", "Button Bit 115mm", 5)
	f.seedItem("oil-1", "Engine Oil 15W40", 10)
	f.seedWorker("w-1", "Ravi", 500)
	f.seedWorker("w-2", "Kumar", 0)
	return f
}

func baseCreateRequest() *dto.CreateDailyEntryRequest {
	return &dto.CreateDailyEntryRequest{
		Date:                 "2026-03-01",
		Shift:                1,
		SiteID:               "site-1",
		MachineID:            "m-1",
		CompressorID:         ptr("c-1"),
		MachineOpeningRPM:    ptr(1000.0),
		MachineClosingRPM:    ptr(1012.5),
		CompressorOpeningRPM: ptr(500.0),
		CompressorClosingRPM: ptr(508.0),
		MeterReading:         ptr(120.0),
		NoOfHoles:            14,
		Roster: []dto.RosterMemberRequest{
			{EmployeeID: "w-1", Role: "operator", Shift: 1, Salary: dec(300)},
			{EmployeeID: "w-2", Role: "helper", Shift: 1, Salary: dec(200)},
		},
	}
}

func TestDailyEntryService_Create_FullFlow(t *testing.T) {
	f := setupDailyEntryFixture(t)
	req := baseCreateRequest()
	req.MachineServiceDone = true
	req.MachineServiceName = "Engine Oil"
	req.MachineItems = []dto.ItemActionRequest{{Action: "fit", ItemID: "oil-1", Quantity: 1}}
	req.DrillingTools = []dto.ItemActionRequest{{Action: "fit", ItemID: "bit-1", Quantity: 2}}

	resp, err := f.svc.DailyEntry.Create(context.Background(), req, "u-1")
	require.NoError(t, err)

	assert.Equal(t, "VA-001", resp.RefNo)
	assert.Equal(t, 1, resp.Version)
	assert.Len(t, resp.Roster, 2)
	require.Len(t, resp.Fittings, 2)

	// counters
	assert.Equal(t, 1012.5, f.store.assets["m-1"].CurrentRPM)
	assert.Equal(t, 508.0, f.store.assets["c-1"].CurrentRPM)

	// service recorded at the advanced reading
	assert.Equal(t, 1012.5, f.schedule("m-1", "Engine Oil").LastServiceAtRPM)
	assert.Equal(t, 0.0, f.schedule("c-1", "Air Filter").LastServiceAtRPM)

	// fittings carry the entry's link and the advanced counter
	oil, bit := resp.Fittings[0], resp.Fittings[1]
	assert.Equal(t, "machine", oil.ServiceType)
	assert.Equal(t, 1012.5, oil.FittedRPM)
	assert.Equal(t, "drilling_tool", bit.ServiceType)
	require.NotNil(t, bit.CompressorID)
	assert.Equal(t, "c-1", *bit.CompressorID)
	assert.Equal(t, 508.0, bit.FittedRPM)
	require.NotNil(t, bit.FittedMeter)
	assert.Equal(t, 120.0, *bit.FittedMeter)
	require.NotNil(t, bit.ShiftEntryID)
	assert.Equal(t, resp.ID, *bit.ShiftEntryID)

	assert.Equal(t, 3, f.store.items["bit-1"].Balance)
	assert.Equal(t, 9, f.store.items["oil-1"].Balance)

	// attendance and advance
	require.Len(t, f.store.attendance, 2)
	for _, a := range f.store.attendance {
		require.NotNil(t, a.ShiftEntryID)
		assert.Equal(t, resp.ID, *a.ShiftEntryID)
		assert.Equal(t, "site-1", *a.SiteID)
	}
	assert.Equal(t, "200", f.store.workers["w-1"].AdvancedAmount.String())
	assert.True(t, f.store.workers["w-2"].AdvancedAmount.IsZero())

	// audit trail
	assert.Equal(t, 1, f.eventsOf(resp.ID, model.EntryEventCreated))
	assert.Equal(t, 2, f.eventsOf(resp.ID, model.EntryEventCounterAdvanced))
	assert.Equal(t, 1, f.eventsOf(resp.ID, model.EntryEventServiceRecorded))
	assert.Equal(t, 2, f.eventsOf(resp.ID, model.EntryEventItemFitted))
	assert.Equal(t, 2, f.eventsOf(resp.ID, model.EntryEventAttendanceUpserted))

	assert.Equal(t, 1, f.cache.deletes)
}

func TestDailyEntryService_Create_InsufficientBalanceRollsBack(t *testing.T) {
	f := setupDailyEntryFixture(t)
	req := baseCreateRequest()
	req.MachineServiceDone = true
	req.MachineServiceName = "Engine Oil"
	req.MachineItems = []dto.ItemActionRequest{{Action: "fit", ItemID: "oil-1", Quantity: 1}}
	req.DrillingTools = []dto.ItemActionRequest{{Action: "fit", ItemID: "bit-1", Quantity: 10}}

	_, err := f.svc.DailyEntry.Create(context.Background(), req, "u-1")
	require.Error(t, err)

	var short *InsufficientBalanceError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, "Button Bit 115mm", short.ItemName)

	assert.Empty(t, f.store.entries)
	assert.Empty(t, f.store.fittings)
	assert.Empty(t, f.store.attendance)
	assert.Empty(t, f.store.events)
	assert.Empty(t, f.store.sequences)
	assert.Equal(t, 1000.0, f.store.assets["m-1"].CurrentRPM)
	assert.Equal(t, 500.0, f.store.assets["c-1"].CurrentRPM)
	assert.Equal(t, 900.0, f.schedule("m-1", "Engine Oil").LastServiceAtRPM)
	assert.Equal(t, 10, f.store.items["oil-1"].Balance)
	assert.Equal(t, 5, f.store.items["bit-1"].Balance)
	assert.Equal(t, "500", f.store.workers["w-1"].AdvancedAmount.String())
	assert.Equal(t, 0, f.cache.deletes)

	// the reference code that was rolled back is issued again
	req.DrillingTools = nil
	resp, err := f.svc.DailyEntry.Create(context.Background(), req, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "VA-001", resp.RefNo)
}

func TestDailyEntryService_Create_EventWriteFailureRollsBack(t *testing.T) {
	f := setupDailyEntryFixture(t)
	f.store.failEvents = errors.New("connection reset")

	_, err := f.svc.DailyEntry.Create(context.Background(), baseCreateRequest(), "u-1")
	require.Error(t, err)

	assert.Empty(t, f.store.entries)
	assert.Empty(t, f.store.attendance)
	assert.Equal(t, 1000.0, f.store.assets["m-1"].CurrentRPM)
}

func TestDailyEntryService_Create_ValidationWritesNothing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *dto.CreateDailyEntryRequest)
		want   error
	}{
		{"no roster", func(r *dto.CreateDailyEntryRequest) { r.Roster = nil }, ErrMissingOperator},
		{"helpers only", func(r *dto.CreateDailyEntryRequest) { r.Roster = r.Roster[1:] }, ErrMissingOperator},
		{"operator on other shift", func(r *dto.CreateDailyEntryRequest) { r.Roster[0].Shift = 2 }, ErrMissingOperator},
		{"missing date", func(r *dto.CreateDailyEntryRequest) { r.Date = "" }, ErrMissingRequiredField},
		{"missing site", func(r *dto.CreateDailyEntryRequest) { r.SiteID = "" }, ErrMissingRequiredField},
		{"missing machine", func(r *dto.CreateDailyEntryRequest) { r.MachineID = "" }, ErrMissingRequiredField},
		{"service without name", func(r *dto.CreateDailyEntryRequest) { r.MachineServiceDone = true }, ErrMissingRequiredField},
		{"bad date", func(r *dto.CreateDailyEntryRequest) { r.Date = "2026-02-30" }, ErrInvalidDate},
		{"bad shift", func(r *dto.CreateDailyEntryRequest) { r.Shift = 3 }, ErrInvalidShift},
		{"duplicate employee", func(r *dto.CreateDailyEntryRequest) { r.Roster[1].EmployeeID = "w-1" }, ErrDuplicateEmployee},
		{"negative salary", func(r *dto.CreateDailyEntryRequest) { r.Roster[1].Salary = dec(-1) }, ErrNegativeSalary},
		{"unknown site", func(r *dto.CreateDailyEntryRequest) { r.SiteID = "site-9" }, ErrSiteNotFound},
		{"unknown worker", func(r *dto.CreateDailyEntryRequest) { r.Roster[1].EmployeeID = "w-9" }, ErrWorkerNotFound},
		{"machine is a compressor", func(r *dto.CreateDailyEntryRequest) { r.MachineID = "c-1" }, ErrAssetKindMismatch},
		{"drilling tools without compressor", func(r *dto.CreateDailyEntryRequest) {
			r.CompressorID = nil
			r.DrillingTools = []dto.ItemActionRequest{{Action: "fit", ItemID: "bit-1", Quantity: 1}}
		}, ErrNoCompressor},
		{"unknown action", func(r *dto.CreateDailyEntryRequest) {
			r.MachineItems = []dto.ItemActionRequest{{Action: "swap", ItemID: "oil-1", Quantity: 1}}
		}, ErrInvalidItemAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupDailyEntryFixture(t)
			req := baseCreateRequest()
			tt.mutate(req)

			_, err := f.svc.DailyEntry.Create(context.Background(), req, "u-1")
			assert.ErrorIs(t, err, tt.want)

			assert.Empty(t, f.store.entries)
			assert.Empty(t, f.store.attendance)
			assert.Equal(t, 1000.0, f.store.assets["m-1"].CurrentRPM)
			assert.Equal(t, "500", f.store.workers["w-1"].AdvancedAmount.String())
		})
	}
}

func TestDailyEntryService_Create_LegacyEmployeeField(t *testing.T) {
	f := setupDailyEntryFixture(t)
	req := baseCreateRequest()
	req.Roster = nil
	req.EmployeeID = "w-2"

	resp, err := f.svc.DailyEntry.Create(context.Background(), req, "u-1")
	require.NoError(t, err)

	require.Len(t, resp.Roster, 1)
	assert.Equal(t, "w-2", resp.Roster[0].EmployeeID)
	assert.Equal(t, "operator", resp.Roster[0].Role)
	assert.Equal(t, 1, resp.Roster[0].Shift)
	require.Len(t, f.store.attendance, 1)
}

func TestDailyEntryService_Create_UnmatchedServiceIsNoop(t *testing.T) {
	f := setupDailyEntryFixture(t)
	req := baseCreateRequest()
	req.CompressorServiceDone = true
	req.CompressorServiceName = "Valve Overhaul"

	resp, err := f.svc.DailyEntry.Create(context.Background(), req, "u-1")
	require.NoError(t, err)

	assert.Equal(t, 0.0, f.schedule("c-1", "Air Filter").LastServiceAtRPM)
	assert.Equal(t, 1, f.eventsOf(resp.ID, model.EntryEventServiceUnmatched))
	assert.Equal(t, 0, f.eventsOf(resp.ID, model.EntryEventServiceRecorded))
}

func TestDailyEntryService_Create_ReadingsWithoutProgress(t *testing.T) {
	f := setupDailyEntryFixture(t)
	req := baseCreateRequest()
	req.MachineClosingRPM = ptr(990.0)
	req.CompressorClosingRPM = nil

	resp, err := f.svc.DailyEntry.Create(context.Background(), req, "u-1")
	require.NoError(t, err)

	assert.Equal(t, 1000.0, f.store.assets["m-1"].CurrentRPM)
	assert.Equal(t, 500.0, f.store.assets["c-1"].CurrentRPM)
	assert.Equal(t, 0, f.eventsOf(resp.ID, model.EntryEventCounterAdvanced))
}

func TestDailyEntryService_ReferenceCodes(t *testing.T) {
	f := setupDailyEntryFixture(t)
	f.store.entries["old-1"] = model.ShiftEntry{ShiftEntryID: "old-1", RefNo: "VA-001"}
	f.store.entries["old-2"] = model.ShiftEntry{ShiftEntryID: "old-2", RefNo: "VA-002"}
	ctx := context.Background()

	preview, err := f.svc.DailyEntry.GenerateReferenceCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "VA-003", preview)

	// preview does not claim the code
	again, err := f.svc.DailyEntry.GenerateReferenceCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "VA-003", again)

	resp, err := f.svc.DailyEntry.Create(ctx, baseCreateRequest(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "VA-003", resp.RefNo)

	next, err := f.svc.DailyEntry.GenerateReferenceCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "VA-004", next)
}

func TestDailyEntryService_ReferenceCodes_SkipsSuppliedCodes(t *testing.T) {
	f := setupDailyEntryFixture(t)
	ctx := context.Background()

	first, err := f.svc.DailyEntry.Create(ctx, baseCreateRequest(), "u-1")
	require.NoError(t, err)
	require.Equal(t, "VA-001", first.RefNo)

	supplied := baseCreateRequest()
	supplied.Date = "2026-03-02"
	supplied.RefNo = "VA-003"
	_, err = f.svc.DailyEntry.Create(ctx, supplied, "u-1")
	require.NoError(t, err)

	// count is 2, so the sequence lands on VA-003 and must move past it
	preview, err := f.svc.DailyEntry.GenerateReferenceCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "VA-004", preview)

	want := []string{"VA-004", "VA-005"}
	for i, ref := range want {
		req := baseCreateRequest()
		req.Date = fmt.Sprintf("2026-03-%02d", 3+i)
		resp, err := f.svc.DailyEntry.Create(ctx, req, "u-1")
		require.NoError(t, err)
		assert.Equal(t, ref, resp.RefNo)
	}
}

func TestDailyEntryService_Create_DuplicateReference(t *testing.T) {
	f := setupDailyEntryFixture(t)
	f.store.entries["old-1"] = model.ShiftEntry{ShiftEntryID: "old-1", RefNo: "VA-001"}

	req := baseCreateRequest()
	req.RefNo = "VA-001"

	_, err := f.svc.DailyEntry.Create(context.Background(), req, "u-1")
	assert.ErrorIs(t, err, ErrDuplicateReference)
	assert.Len(t, f.store.entries, 1)
	assert.Equal(t, 1000.0, f.store.assets["m-1"].CurrentRPM)
}

func TestDailyEntryService_Update_CounterDiff(t *testing.T) {
	f := setupDailyEntryFixture(t)
	ctx := context.Background()
	req := baseCreateRequest()
	req.MachineClosingRPM = ptr(1010.0)

	created, err := f.svc.DailyEntry.Create(ctx, req, "u-1")
	require.NoError(t, err)
	require.Equal(t, 1010.0, f.store.assets["m-1"].CurrentRPM)

	updated, err := f.svc.DailyEntry.Update(ctx, created.ID, &dto.UpdateDailyEntryRequest{
		MachineClosingRPM: ptr(1015.0),
	}, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, 1015.0, f.store.assets["m-1"].CurrentRPM)

	// a shrinking reading never moves the counter back
	_, err = f.svc.DailyEntry.Update(ctx, created.ID, &dto.UpdateDailyEntryRequest{
		MachineClosingRPM: ptr(1012.0),
	}, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 1015.0, f.store.assets["m-1"].CurrentRPM)
	assert.Equal(t, 1012.0, *f.store.entries[created.ID].MachineClosingRPM)
}

func TestDailyEntryService_Update_RosterRetained(t *testing.T) {
	f := setupDailyEntryFixture(t)
	ctx := context.Background()

	req := baseCreateRequest()
	req.MachineItems = []dto.ItemActionRequest{{Action: "fit", ItemID: "oil-1", Quantity: 1}}
	created, err := f.svc.DailyEntry.Create(ctx, req, "u-1")
	require.NoError(t, err)
	require.Len(t, created.Fittings, 1)

	updated, err := f.svc.DailyEntry.Update(ctx, created.ID, &dto.UpdateDailyEntryRequest{
		Notes: ptr("bit changed mid-shift"),
	}, "u-1")
	require.NoError(t, err)

	assert.Equal(t, "bit changed mid-shift", updated.Notes)
	require.Len(t, updated.Roster, 2)
	assert.Equal(t, "Ravi", updated.Roster[0].Name)
	assert.Equal(t, "Kumar", updated.Roster[1].Name)

	// untouched fittings of the entry are still part of the response
	require.Len(t, updated.Fittings, 1)
	assert.Equal(t, created.Fittings[0].ID, updated.Fittings[0].ID)
	assert.Len(t, f.store.roster[created.ID], 2)
	assert.Equal(t, 2, f.eventsOf(created.ID, model.EntryEventAttendanceUpserted))
	assert.Equal(t, 1, f.eventsOf(created.ID, model.EntryEventUpdated))
}

func TestDailyEntryService_Update_DetachCompressor(t *testing.T) {
	f := setupDailyEntryFixture(t)
	ctx := context.Background()

	created, err := f.svc.DailyEntry.Create(ctx, baseCreateRequest(), "u-1")
	require.NoError(t, err)
	require.NotNil(t, created.CompressorID)

	updated, err := f.svc.DailyEntry.Update(ctx, created.ID, &dto.UpdateDailyEntryRequest{
		CompressorID: ptr(""),
	}, "u-1")
	require.NoError(t, err)

	assert.Nil(t, updated.CompressorID)
	assert.Nil(t, f.store.entries[created.ID].CompressorID)
	assert.Equal(t, 508.0, f.store.assets["c-1"].CurrentRPM)
}

func TestDailyEntryService_Update_RosterReplaced(t *testing.T) {
	f := setupDailyEntryFixture(t)
	f.seedWorker("w-3", "Arun", 0)
	ctx := context.Background()

	created, err := f.svc.DailyEntry.Create(ctx, baseCreateRequest(), "u-1")
	require.NoError(t, err)

	updated, err := f.svc.DailyEntry.Update(ctx, created.ID, &dto.UpdateDailyEntryRequest{
		Roster: []dto.RosterMemberRequest{
			{EmployeeID: "w-3", Role: "operator", Shift: 1, Salary: dec(350)},
			{EmployeeID: "w-1", Role: "helper", Shift: 1},
		},
	}, "u-1")
	require.NoError(t, err)

	require.Len(t, updated.Roster, 2)
	assert.Equal(t, "w-3", updated.Roster[0].EmployeeID)
	assert.Len(t, f.store.roster[created.ID], 2)
	assert.Len(t, f.store.attendance, 3)

	// w-1 was upserted without a salary, so the stored 300 stands and nothing more is deducted
	assert.Equal(t, "200", f.store.workers["w-1"].AdvancedAmount.String())
}

func TestDailyEntryService_Update_ShiftChangeNeedsOperator(t *testing.T) {
	f := setupDailyEntryFixture(t)
	ctx := context.Background()

	created, err := f.svc.DailyEntry.Create(ctx, baseCreateRequest(), "u-1")
	require.NoError(t, err)

	_, err = f.svc.DailyEntry.Update(ctx, created.ID, &dto.UpdateDailyEntryRequest{Shift: ptr(2)}, "u-1")
	assert.ErrorIs(t, err, ErrMissingOperator)
	assert.Equal(t, 1, f.store.entries[created.ID].Shift)
	assert.Equal(t, 1, f.store.entries[created.ID].Version)
}

func TestDailyEntryService_Update_StaleVersion(t *testing.T) {
	f := setupDailyEntryFixture(t)
	ctx := context.Background()

	created, err := f.svc.DailyEntry.Create(ctx, baseCreateRequest(), "u-1")
	require.NoError(t, err)

	_, err = f.svc.DailyEntry.Update(ctx, created.ID, &dto.UpdateDailyEntryRequest{Version: ptr(7), Notes: ptr("x")}, "u-1")
	assert.ErrorIs(t, err, pkgerrors.ErrOptimisticLock)

	_, err = f.svc.DailyEntry.Update(ctx, "missing", &dto.UpdateDailyEntryRequest{}, "u-1")
	assert.ErrorIs(t, err, ErrShiftEntryNotFound)
}

func TestDailyEntryService_Update_RemovesFitting(t *testing.T) {
	f := setupDailyEntryFixture(t)
	ctx := context.Background()
	req := baseCreateRequest()
	req.MachineItems = []dto.ItemActionRequest{{Action: "fit", ItemID: "oil-1", Quantity: 1}}

	created, err := f.svc.DailyEntry.Create(ctx, req, "u-1")
	require.NoError(t, err)
	require.Len(t, created.Fittings, 1)
	fittingID := created.Fittings[0].ID

	// the fitting is on the machine, not the compressor
	_, err = f.svc.DailyEntry.Update(ctx, created.ID, &dto.UpdateDailyEntryRequest{
		CompressorItems: []dto.ItemActionRequest{{Action: "remove", FittingID: fittingID}},
	}, "u-1")
	assert.ErrorIs(t, err, ErrFittingAssetMismatch)

	_, err = f.svc.DailyEntry.Update(ctx, created.ID, &dto.UpdateDailyEntryRequest{
		MachineItems: []dto.ItemActionRequest{
			{Action: "remove", FittingID: fittingID},
			{Action: "remove", FittingID: fittingID},
		},
	}, "u-1")
	assert.ErrorIs(t, err, ErrInvalidItemAction)
	assert.Equal(t, model.FittingStatusFitted, f.store.fittings[fittingID].Status)

	updated, err := f.svc.DailyEntry.Update(ctx, created.ID, &dto.UpdateDailyEntryRequest{
		MachineClosingRPM: ptr(1040.0),
		MachineItems:      []dto.ItemActionRequest{{Action: "remove", FittingID: fittingID}},
	}, "u-1")
	require.NoError(t, err)
	require.Len(t, updated.Fittings, 1)

	record := f.store.fittings[fittingID]
	assert.Equal(t, model.FittingStatusRemoved, record.Status)
	require.NotNil(t, record.TotalRPMRun)
	assert.Equal(t, 27.5, *record.TotalRPMRun)
	require.NotNil(t, record.RemovedShiftEntryID)
	assert.Equal(t, created.ID, *record.RemovedShiftEntryID)
}

func TestDailyEntryService_ReadPaths(t *testing.T) {
	f := setupDailyEntryFixture(t)
	ctx := context.Background()

	created, err := f.svc.DailyEntry.Create(ctx, baseCreateRequest(), "u-1")
	require.NoError(t, err)

	got, err := f.svc.DailyEntry.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "VA-001", got.RefNo)
	assert.Len(t, got.Roster, 2)

	list, total, err := f.svc.DailyEntry.List(ctx, &dto.DailyEntryListRequest{SiteID: "site-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	events, err := f.svc.DailyEntry.ListEvents(ctx, created.ID)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, "created", events[0].EventType)

	_, err = f.svc.DailyEntry.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrShiftEntryNotFound)
	_, err = f.svc.DailyEntry.ListEvents(ctx, "missing")
	assert.ErrorIs(t, err, ErrShiftEntryNotFound)
	_, _, err = f.svc.DailyEntry.List(ctx, &dto.DailyEntryListRequest{DateFrom: "yesterday"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDiffDelta(t *testing.T) {
	assert.Equal(t, 5.0, diffDelta(true, 10, 15))
	assert.Equal(t, 0.0, diffDelta(true, 15, 10))
	assert.Equal(t, 10.0, diffDelta(false, 15, 10))
}
