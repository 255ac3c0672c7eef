package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"pg-portal/config"
	"pg-portal/models"
)

// RoomOption is one entry of the room picker on the tenants page.
type RoomOption struct {
	RoomNo   string `json:"roomNo"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// TenantsWorkflow backs the admin tenants page: room assignment, renewal dates and search.
type TenantsWorkflow struct {
	tenants  TenantAPI
	rooms    RoomAPI
	muts     *MutationController
	notifier Notifier
	now      func() time.Time

	mu       sync.Mutex
	list     []*models.Tenant
	roomList []*models.Room
}

func NewTenantsWorkflow(tenants TenantAPI, rooms RoomAPI, muts *MutationController, notifier Notifier, now func() time.Time) *TenantsWorkflow {
	if now == nil {
		now = time.Now
	}
	return &TenantsWorkflow{tenants: tenants, rooms: rooms, muts: muts, notifier: notifier, now: now}
}

// Load fetches tenants and rooms side by side. A failed half leaves the other usable.
func (w *TenantsWorkflow) Load(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return w.LoadTenants(ctx) })
	g.Go(func() error { return w.LoadRooms(ctx) })
	return g.Wait()
}

func (w *TenantsWorkflow) LoadTenants(ctx context.Context) error {
	tenants, err := w.tenants.List(ctx)
	if err != nil {
		config.Log.WithError(err).Error("📡 Error fetching tenants")
		w.notifier.Notify(models.LevelError, "📡 Unable to load tenants.")
		tenants = []*models.Tenant{}
	}
	w.mu.Lock()
	w.list = tenants
	w.mu.Unlock()
	return err
}

func (w *TenantsWorkflow) LoadRooms(ctx context.Context) error {
	rooms, err := w.rooms.List(ctx)
	if err != nil {
		config.Log.WithError(err).Error("🚪 Error fetching rooms")
		w.notifier.Notify(models.LevelError, "🚪 Unable to load rooms.")
		return err
	}
	SortRoomsByNumber(rooms)
	w.mu.Lock()
	w.roomList = rooms
	w.mu.Unlock()
	return nil
}

// Search returns the tenants whose name or room contains term, ignoring case.
// A blank term returns every tenant.
func (w *TenantsWorkflow) Search(term string) []*models.Tenant {
	term = strings.ToLower(strings.TrimSpace(term))

	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*models.Tenant, 0, len(w.list))
	for _, t := range w.list {
		if term == "" ||
			strings.Contains(strings.ToLower(t.Name), term) ||
			strings.Contains(strings.ToLower(t.RoomNo), term) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Updating reports whether tenant id has a write in flight.
func (w *TenantsWorkflow) Updating(id string) bool {
	return id != "" && w.muts.Busy(tenantKey(id))
}

func tenantKey(id string) string {
	return "tenant:" + id
}

func (w *TenantsWorkflow) findLocked(id string) *models.Tenant {
	for _, t := range w.list {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (w *TenantsWorkflow) replace(updated *models.Tenant) {
	if updated == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, t := range w.list {
		if t.ID == updated.ID {
			w.list[i] = updated.Clone()
		}
	}
}

func normalizeRoomNo(roomNo string) string {
	return strings.TrimSpace(roomNo)
}

var errMissingTenantID = &ValidationError{
	Message: "Tenant identifier is missing.",
	Notice:  "⚠️ Tenant identifier is missing.",
}

// ChangeRoom moves a tenant to roomNo; a blank roomNo unassigns. Rooms are reloaded on success
// so occupancy counts follow the move.
func (w *TenantsWorkflow) ChangeRoom(ctx context.Context, id, roomNo string) MutationResult[*models.Tenant] {
	next := normalizeRoomNo(roomNo)

	res := RunMutation(ctx, w.muts, Mutation[*models.Tenant]{
		Key: tenantKey(id),
		Validate: func() error {
			w.mu.Lock()
			defer w.mu.Unlock()
			tenant := w.findLocked(id)
			if id == "" || tenant == nil {
				return errMissingTenantID
			}
			current := normalizeRoomNo(tenant.RoomNo)
			if current == next {
				return ErrNoChange
			}
			for _, r := range w.roomList {
				if normalizeRoomNo(r.RoomNo) == next && IsRoomDisabled(r, tenant) {
					return &ValidationError{
						Message: fmt.Sprintf("Room %s is full.", next),
						Notice:  fmt.Sprintf("⚠️ Room %s is full.", next),
					}
				}
			}
			return nil
		},
		Call: func(ctx context.Context) (*models.Tenant, error) {
			var target *string
			if next != "" {
				target = &next
			}
			return w.tenants.UpdateRoom(ctx, id, target)
		},
		Commit:  w.replace,
		Success: "✅ Room assignment updated.",
		Failure: "❌ Unable to update room assignment. Please try again.",
	})

	if res.State == MutationCommitted {
		_ = w.LoadRooms(ctx)
	}
	return res
}

// StartOfToday is local midnight of the current day.
func (w *TenantsWorkflow) StartOfToday() time.Time {
	return localMidnight(w.now())
}

func localMidnight(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return localMidnight(*a).Equal(localMidnight(*b))
}

// ChangeRenewalDate sets the tenant's renewal date, or clears it when date is nil.
// Dates before today are refused. A new date also clears the payment-due flag.
func (w *TenantsWorkflow) ChangeRenewalDate(ctx context.Context, id string, date *time.Time) MutationResult[*models.Tenant] {
	return RunMutation(ctx, w.muts, Mutation[*models.Tenant]{
		Key: tenantKey(id),
		Validate: func() error {
			w.mu.Lock()
			defer w.mu.Unlock()
			tenant := w.findLocked(id)
			if id == "" || tenant == nil {
				return errMissingTenantID
			}
			if date != nil && localMidnight(*date).Before(w.StartOfToday()) {
				return &ValidationError{
					Message: "Renewal date cannot be in the past.",
					Notice:  "⚠️ Renewal date cannot be in the past.",
				}
			}
			if sameDay(tenant.RenewalDate, date) {
				return ErrNoChange
			}
			return nil
		},
		Call: func(ctx context.Context) (*models.Tenant, error) {
			due := false
			update := models.ProfileUpdate{RenewalDate: &models.NullTime{}, Due: &due}
			if date != nil {
				d := date.In(time.Local)
				utc := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
				update.RenewalDate.Time = &utc
			}
			return w.tenants.UpdateProfile(ctx, id, update)
		},
		Commit:  w.replace,
		Success: "✅ Renewal date updated.",
		Failure: "❌ Unable to update renewal date. Please try again.",
	})
}

func (w *TenantsWorkflow) ClearRenewalDate(ctx context.Context, id string) MutationResult[*models.Tenant] {
	return w.ChangeRenewalDate(ctx, id, nil)
}

// RoomOptions lists the room picker entries for a tenant, in natural room order.
func (w *TenantsWorkflow) RoomOptions(tenantID string) []RoomOption {
	w.mu.Lock()
	defer w.mu.Unlock()

	tenant := w.findLocked(tenantID)
	if tenant == nil {
		tenant = &models.Tenant{}
	}
	out := make([]RoomOption, 0, len(w.roomList))
	for _, r := range w.roomList {
		out = append(out, RoomOption{
			RoomNo:   normalizeRoomNo(r.RoomNo),
			Label:    RoomLabel(r),
			Disabled: IsRoomDisabled(r, tenant),
		})
	}
	return out
}

// IsRoomDisabled reports whether room is full for tenant. The tenant's own room and rooms
// without a capacity are never disabled.
func IsRoomDisabled(room *models.Room, tenant *models.Tenant) bool {
	if room == nil {
		return false
	}
	option := normalizeRoomNo(room.RoomNo)
	if option == "" {
		return false
	}
	if tenant != nil && option == normalizeRoomNo(tenant.RoomNo) {
		return false
	}
	capacity := max(room.Capacity, 0)
	if capacity == 0 {
		return false
	}
	return max(room.AllocatedCount, 0) >= capacity
}

// RoomLabel renders "R1 (allocated/capacity)", or the bare room number when capacity is unknown.
func RoomLabel(room *models.Room) string {
	if room == nil {
		return "Unknown"
	}
	if room.Capacity <= 0 {
		return room.RoomNo
	}
	return fmt.Sprintf("%s (%d/%d)", room.RoomNo, max(room.AllocatedCount, 0), room.Capacity)
}
