package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-portal/models"
)

func newTenants(t *testing.T) (*TenantsWorkflow, *fakeTenantAPI, *fakeRoomAPI, *recordingNotifier) {
	t.Helper()
	tenants := &fakeTenantAPI{tenants: []*models.Tenant{
		{ID: "t1", Name: "Asha", Email: "asha@x.io", RoomNo: "101"},
		{ID: "t2", Name: "Ravi", Email: "ravi@x.io", RoomNo: "R10"},
	}}
	rooms := &fakeRoomAPI{rooms: []*models.Room{
		{ID: "1", RoomNo: "101", Capacity: 2, AllocatedCount: 1},
		{ID: "2", RoomNo: "R10", Capacity: 1, AllocatedCount: 1},
		{ID: "3", RoomNo: "R2", Capacity: 0},
	}}
	notifier := &recordingNotifier{}
	w := NewTenantsWorkflow(tenants, rooms, NewMutationController(notifier), notifier, clockAt(fixedNow))
	require.NoError(t, w.Load(context.Background()))
	return w, tenants, rooms, notifier
}

func TestTenantsSearch(t *testing.T) {
	w, _, _, _ := newTenants(t)

	assert.Len(t, w.Search(""), 2)
	assert.Len(t, w.Search("  ASHA "), 1)
	found := w.Search("r10")
	require.Len(t, found, 1)
	assert.Equal(t, "t2", found[0].ID)
	assert.Empty(t, w.Search("nobody"))
}

func TestTenantsLoadFailureKeepsRooms(t *testing.T) {
	tenants := &fakeTenantAPI{listErr: errBackend}
	rooms := &fakeRoomAPI{rooms: []*models.Room{{ID: "1", RoomNo: "101", Capacity: 1}}}
	notifier := &recordingNotifier{}
	w := NewTenantsWorkflow(tenants, rooms, NewMutationController(notifier), notifier, clockAt(fixedNow))

	assert.ErrorIs(t, w.Load(context.Background()), errBackend)
	assert.Empty(t, w.Search(""))
	assert.Len(t, w.RoomOptions("t1"), 1)
	assert.Equal(t, "📡 Unable to load tenants.", notifier.last().Message)
}

func TestTenantsRenewalDateInPastIsRejected(t *testing.T) {
	w, api, _, notifier := newTenants(t)
	before := w.Search("")

	past := fixedNow.AddDate(0, 0, -2)
	res := w.ChangeRenewalDate(context.Background(), "t1", &past)

	assert.Equal(t, MutationRejected, res.State)
	assert.Empty(t, api.profileUpdates)
	assert.Equal(t, before, w.Search(""))
	n := notifier.last()
	assert.Equal(t, models.LevelWarning, n.Level)
	assert.Contains(t, n.Message, "cannot be in the past")
}

func TestTenantsRenewalDateUpdate(t *testing.T) {
	w, api, _, _ := newTenants(t)
	ctx := context.Background()

	next := fixedNow.AddDate(0, 0, 3)
	res := w.ChangeRenewalDate(ctx, "t1", &next)

	require.Equal(t, MutationCommitted, res.State)
	require.Len(t, api.profileUpdates, 1)
	update := api.profileUpdates[0]
	require.NotNil(t, update.RenewalDate.Time)
	local := next.In(time.Local)
	assert.Equal(t, time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC), *update.RenewalDate.Time)
	assert.False(t, *update.Due)

	stored := *w.Search("asha")[0].RenewalDate
	assert.Equal(t, MutationSkipped, w.ChangeRenewalDate(ctx, "t1", &stored).State)

	cleared := w.ClearRenewalDate(ctx, "t1")
	require.Equal(t, MutationCommitted, cleared.State)
	assert.Nil(t, api.profileUpdates[1].RenewalDate.Time)
	assert.Nil(t, w.Search("asha")[0].RenewalDate)
}

func TestTenantsChangeRoom(t *testing.T) {
	w, api, rooms, _ := newTenants(t)
	ctx := context.Background()

	assert.Equal(t, MutationSkipped, w.ChangeRoom(ctx, "t1", " 101 ").State)

	full := w.ChangeRoom(ctx, "t1", "R10")
	assert.Equal(t, MutationRejected, full.State)
	assert.EqualError(t, full.Err, "Room R10 is full.")

	listsBefore := rooms.listCalls
	res := w.ChangeRoom(ctx, "t1", "R2")
	require.Equal(t, MutationCommitted, res.State)
	assert.Equal(t, "R2", w.Search("asha")[0].RoomNo)
	assert.Equal(t, listsBefore+1, rooms.listCalls)

	res = w.ChangeRoom(ctx, "t1", "")
	require.Equal(t, MutationCommitted, res.State)
	assert.Nil(t, api.roomUpdates[len(api.roomUpdates)-1])

	missing := w.ChangeRoom(ctx, "", "R2")
	assert.Equal(t, MutationRejected, missing.State)
}

func TestTenantsChangeRoomFailureLeavesList(t *testing.T) {
	w, api, _, notifier := newTenants(t)
	api.updateErr = errBackend

	res := w.ChangeRoom(context.Background(), "t1", "R2")

	assert.Equal(t, MutationRolledBack, res.State)
	assert.Equal(t, "101", w.Search("asha")[0].RoomNo)
	assert.Equal(t, models.LevelError, notifier.last().Level)
	assert.False(t, w.Updating("t1"))
}

func TestTenantsRoomOptions(t *testing.T) {
	w, _, _, _ := newTenants(t)

	assert.Equal(t, []RoomOption{
		{RoomNo: "101", Label: "101 (1/2)", Disabled: false},
		{RoomNo: "R2", Label: "R2", Disabled: false},
		{RoomNo: "R10", Label: "R10 (1/1)", Disabled: true},
	}, w.RoomOptions("t1"))

	// a tenant's own room is never disabled
	opts := w.RoomOptions("t2")
	assert.False(t, opts[2].Disabled)
}

func TestRoomLabel(t *testing.T) {
	assert.Equal(t, "Unknown", RoomLabel(nil))
	assert.Equal(t, "7 (0/3)", RoomLabel(&models.Room{RoomNo: "7", Capacity: 3, AllocatedCount: -2}))
}
