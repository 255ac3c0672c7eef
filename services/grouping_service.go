package services

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"pg-portal/models"
)

const (
	UnknownFloor = "Unknown"
	AllFloors    = "ALL"
)

var digitRun = regexp.MustCompile(`\d+`)

// newNaturalCollator compares "R2" before "R10" and ignores case and accents.
// Collators are not safe for concurrent use, so each caller builds its own.
func newNaturalCollator() *collate.Collator {
	return collate.New(language.Und, collate.Numeric, collate.Loose)
}

// CompareRoomNumbers orders room numbers naturally.
func CompareRoomNumbers(a, b string) int {
	return newNaturalCollator().CompareString(a, b)
}

// SortRoomsByNumber sorts rooms in place by natural room number.
func SortRoomsByNumber(rooms []*models.Room) {
	col := newNaturalCollator()
	sort.SliceStable(rooms, func(i, j int) bool {
		return col.CompareString(rooms[i].RoomNo, rooms[j].RoomNo) < 0
	})
}

// GroupRoomsByFloor buckets rooms by trimmed floor number. Rooms inside a group are in
// natural room order; groups are ordered by the first number in their floor, floors
// without a number last.
func GroupRoomsByFloor(rooms []*models.Room) []models.FloorGroup {
	type bucket struct {
		floor string
		rooms []*models.Room
	}

	var buckets []*bucket
	index := make(map[string]*bucket)
	for _, room := range rooms {
		if room == nil {
			continue
		}
		key := strings.TrimSpace(room.FloorNo)
		b, ok := index[key]
		if !ok {
			b = &bucket{floor: key}
			index[key] = b
			buckets = append(buckets, b)
		}
		b.rooms = append(b.rooms, room)
	}

	col := newNaturalCollator()
	type sortable struct {
		group models.FloorGroup
		order float64
	}
	groups := make([]sortable, 0, len(buckets))
	for _, b := range buckets {
		sorted := append([]*models.Room(nil), b.rooms...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return col.CompareString(sorted[i].RoomNo, sorted[j].RoomNo) < 0
		})
		groups = append(groups, sortable{
			group: models.FloorGroup{FloorLabel: FloorLabel(b.floor), Rooms: sorted},
			order: floorSortValue(b.floor),
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].order != groups[j].order {
			return groups[i].order < groups[j].order
		}
		return col.CompareString(groups[i].group.FloorLabel, groups[j].group.FloorLabel) < 0
	})

	out := make([]models.FloorGroup, len(groups))
	for i, g := range groups {
		out[i] = g.group
	}
	return out
}

// FloorLabel is the display label of a floor value.
func FloorLabel(floor string) string {
	trimmed := strings.TrimSpace(floor)
	if trimmed == "" {
		return UnknownFloor
	}
	if n, ok := firstNumber(trimmed); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return trimmed
}

func floorSortValue(floor string) float64 {
	if n, ok := firstNumber(floor); ok {
		return n
	}
	return math.Inf(1)
}

func firstNumber(s string) (float64, bool) {
	run := digitRun.FindString(s)
	if run == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(run, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// OccupancyAlpha is the share of beds taken, clamped to [0, 1] with two decimals.
// A room without capacity reports "0.00".
func OccupancyAlpha(room *models.Room) string {
	if room == nil || room.Capacity <= 0 {
		return "0.00"
	}
	occupied := min(max(room.AllocatedCount, 0), room.Capacity)
	ratio := float64(occupied) / float64(room.Capacity)
	return strconv.FormatFloat(min(max(ratio, 0), 1), 'f', 2, 64)
}

// FilterFloors keeps the group with the selected label, or all groups for AllFloors.
func FilterFloors(groups []models.FloorGroup, selected string) []models.FloorGroup {
	if selected == "" || selected == AllFloors {
		return groups
	}
	var out []models.FloorGroup
	for _, g := range groups {
		if g.FloorLabel == selected {
			out = append(out, g)
		}
	}
	return out
}

// ResolveFloorSelection falls back to AllFloors when selected no longer names a group.
func ResolveFloorSelection(groups []models.FloorGroup, selected string) string {
	if selected == "" || selected == AllFloors {
		return AllFloors
	}
	for _, g := range groups {
		if g.FloorLabel == selected {
			return selected
		}
	}
	return AllFloors
}
