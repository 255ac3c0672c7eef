package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"pg-portal/config"
	"pg-portal/models"
)

var roomNoPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// SetupWorkflow backs the room setup page: edit capacity and comments, add rooms, delete empty rooms.
type SetupWorkflow struct {
	rooms    RoomAPI
	muts     *MutationController
	notifier Notifier

	mu   sync.Mutex
	list []*models.Room
}

func NewSetupWorkflow(rooms RoomAPI, muts *MutationController, notifier Notifier) *SetupWorkflow {
	return &SetupWorkflow{rooms: rooms, muts: muts, notifier: notifier}
}

// Load refreshes the room list from the backend.
func (w *SetupWorkflow) Load(ctx context.Context) ([]*models.Room, error) {
	rooms, err := w.rooms.List(ctx)
	if err != nil {
		config.Log.WithError(err).Error("🚧 Failed to load rooms list")
		w.notifier.Notify(models.LevelError, "🚧 Unable to load rooms. Please refresh and try again.")
		return nil, err
	}
	SortRoomsByNumber(rooms)

	w.mu.Lock()
	w.list = rooms
	w.mu.Unlock()
	return w.Rooms(), nil
}

// Rooms returns a copy of the cached rooms in room-number order.
func (w *SetupWorkflow) Rooms() []*models.Room {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*models.Room, len(w.list))
	for i, r := range w.list {
		out[i] = r.Clone()
	}
	return out
}

// Room looks up a cached room by id.
func (w *SetupWorkflow) Room(id string) (*models.Room, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r := w.findLocked(id)
	return r.Clone(), r != nil
}

func (w *SetupWorkflow) findLocked(id string) *models.Room {
	if id == "" {
		return nil
	}
	for _, r := range w.list {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// CapacityError is the inline message for a capacity below the room's allocation, or "".
func CapacityError(room *models.Room, capacity int) string {
	if room != nil && capacity < room.AllocatedCount {
		return fmt.Sprintf("Capacity cannot be less than allocated count (%d).", room.AllocatedCount)
	}
	return ""
}

func normalizeComment(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func sameComment(a, b *string) bool {
	a, b = normalizeComment(a), normalizeComment(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// UpdateRoom saves a new capacity and comment for the room.
func (w *SetupWorkflow) UpdateRoom(ctx context.Context, id string, capacity int, comments *string) MutationResult[*models.Room] {
	return RunMutation(ctx, w.muts, Mutation[*models.Room]{
		Key: "room:" + id,
		Validate: func() error {
			w.mu.Lock()
			defer w.mu.Unlock()
			original := w.findLocked(id)
			if original == nil {
				return invalid("Selected room could not be found.")
			}
			if capacity < 1 {
				return invalid("Capacity must be at least 1.")
			}
			if msg := CapacityError(original, capacity); msg != "" {
				return invalid("%s", msg)
			}
			if capacity == original.Capacity && sameComment(comments, original.Comments) {
				return ErrNoChange
			}
			return nil
		},
		Call: func(ctx context.Context) (*models.Room, error) {
			return w.rooms.Update(ctx, id, models.RoomUpdate{Capacity: &capacity, Comments: normalizeComment(comments)})
		},
		Commit: func(updated *models.Room) {
			w.mu.Lock()
			defer w.mu.Unlock()
			for i, r := range w.list {
				if r.ID == id {
					w.list[i] = mergeRoom(r, updated)
				}
			}
		},
		Success: "✅ Room details updated successfully.",
		Failure: "❌ Failed to update room. Please try again.",
	})
}

func mergeRoom(base, update *models.Room) *models.Room {
	merged := update.Clone()
	if merged.ID == "" {
		merged.ID = base.ID
	}
	if merged.TenantIDs == nil {
		merged.TenantIDs = base.TenantIDs
	}
	return merged
}

// ParseRoomNumbers splits a comma separated list, dropping blanks.
func ParseRoomNumbers(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// AddRooms creates every room listed in roomNumbers on the given floor.
func (w *SetupWorkflow) AddRooms(ctx context.Context, floor, roomNumbers string, capacity int) MutationResult[[]*models.Room] {
	var (
		floorNo string
		numbers []string
	)

	return RunMutation(ctx, w.muts, Mutation[[]*models.Room]{
		Key: "rooms:create",
		Validate: func() error {
			f, err := strconv.ParseFloat(strings.TrimSpace(floor), 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return invalid("Provide a valid floor number.")
			}
			floorNo = strconv.FormatFloat(f, 'f', -1, 64)

			if capacity < 1 {
				return invalid("Capacity must be at least 1.")
			}

			numbers = ParseRoomNumbers(roomNumbers)
			if len(numbers) == 0 {
				return invalid("Enter at least one room number.")
			}
			var bad []string
			for _, n := range numbers {
				if !roomNoPattern.MatchString(n) {
					bad = append(bad, n)
				}
			}
			if len(bad) > 0 {
				return invalid("Invalid room number format: %s", strings.Join(bad, ", "))
			}
			return nil
		},
		Call: func(ctx context.Context) ([]*models.Room, error) {
			payloads := make([]models.CreateRoom, len(numbers))
			for i, n := range numbers {
				payloads[i] = models.CreateRoom{RoomNo: n, Capacity: capacity, FloorNo: floorNo}
			}
			return w.rooms.CreateMany(ctx, payloads)
		},
		Commit: func(created []*models.Room) {
			switch len(created) {
			case 0:
				w.notifier.Notify(models.LevelInfo, "ℹ️ No rooms were created.")
				return
			case 1:
				w.notifier.Notify(models.LevelSuccess, fmt.Sprintf("🏠 Room %s added.", created[0].RoomNo))
			default:
				w.notifier.Notify(models.LevelSuccess, fmt.Sprintf("🏠 %d rooms added successfully.", len(created)))
			}
			w.addLocal(created)
		},
		Revert: func(err error) {
			// created rooms exist on the backend even though the batch failed
			var bulk *BulkCreateError
			if errors.As(err, &bulk) && bulk.Partial() {
				w.addLocal(bulk.Created)
				w.notifier.Notify(models.LevelWarning, fmt.Sprintf(
					"⚠️ %d of %d rooms were created. Not created: %s.",
					len(bulk.Created), len(bulk.Created)+len(bulk.Failed), strings.Join(bulk.Failed, ", ")))
			}
		},
		Failure: "❌ Unable to create rooms. Please try again.",
	})
}

func (w *SetupWorkflow) addLocal(rooms []*models.Room) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range rooms {
		if r != nil {
			w.list = append(w.list, r.Clone())
		}
	}
	SortRoomsByNumber(w.list)
}

// DeleteRoom removes an empty room. Occupied rooms are refused without calling the backend.
func (w *SetupWorkflow) DeleteRoom(ctx context.Context, id string) MutationResult[struct{}] {
	var room *models.Room

	return RunMutation(ctx, w.muts, Mutation[struct{}]{
		Key: "room:" + id,
		Validate: func() error {
			if id == "" {
				return invalid("Select a room to delete.")
			}
			w.mu.Lock()
			room = w.findLocked(id).Clone()
			w.mu.Unlock()
			if room == nil {
				return invalid("Selected room could not be found.")
			}
			if room.AllocatedCount > 0 {
				return &ValidationError{
					Message: fmt.Sprintf("Room %s has %d tenant(s). Move them before deleting.", room.RoomNo, room.AllocatedCount),
					Notice:  "⚠️ Move the tenants assigned to this room before deleting it.",
				}
			}
			return nil
		},
		Call: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, w.rooms.Delete(ctx, id)
		},
		Commit: func(struct{}) {
			w.mu.Lock()
			kept := w.list[:0]
			for _, r := range w.list {
				if r.ID != id {
					kept = append(kept, r)
				}
			}
			w.list = kept
			w.mu.Unlock()
			w.notifier.Notify(models.LevelSuccess, fmt.Sprintf("🗑️ Room %s deleted successfully.", room.RoomNo))
		},
		Failure: "❌ Failed to delete room. Please try again.",
	})
}

// FloorOptions lists the distinct non-blank floors of the cached rooms in natural order.
func (w *SetupWorkflow) FloorOptions() []string {
	w.mu.Lock()
	seen := make(map[string]bool)
	var floors []string
	for _, r := range w.list {
		if strings.TrimSpace(r.FloorNo) == "" || seen[r.FloorNo] {
			continue
		}
		seen[r.FloorNo] = true
		floors = append(floors, r.FloorNo)
	}
	w.mu.Unlock()

	col := newNaturalCollator()
	sort.SliceStable(floors, func(i, j int) bool {
		return col.CompareString(floors[i], floors[j]) < 0
	})
	return floors
}

// DeleteOptions lists the rooms on floor that can be picked for deletion.
func (w *SetupWorkflow) DeleteOptions(floor string) []*models.Room {
	if floor == "" {
		return []*models.Room{}
	}
	w.mu.Lock()
	out := []*models.Room{}
	for _, r := range w.list {
		if r.FloorNo == floor {
			out = append(out, r.Clone())
		}
	}
	w.mu.Unlock()
	SortRoomsByNumber(out)
	return out
}
