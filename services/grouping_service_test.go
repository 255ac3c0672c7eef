package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-portal/models"
)

func roomNumbers(rooms []*models.Room) []string {
	out := make([]string, len(rooms))
	for i, r := range rooms {
		out[i] = r.RoomNo
	}
	return out
}

func floorLabels(groups []models.FloorGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.FloorLabel
	}
	return out
}

func flatten(groups []models.FloorGroup) []*models.Room {
	var out []*models.Room
	for _, g := range groups {
		out = append(out, g.Rooms...)
	}
	return out
}

func TestGroupRoomsByFloorScenario(t *testing.T) {
	groups := GroupRoomsByFloor([]*models.Room{
		{RoomNo: "R2", FloorNo: "1"},
		{RoomNo: "R10", FloorNo: "1"},
		{RoomNo: "A1", FloorNo: ""},
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "1", groups[0].FloorLabel)
	assert.Equal(t, []string{"R2", "R10"}, roomNumbers(groups[0].Rooms))
	assert.Equal(t, "Unknown", groups[1].FloorLabel)
	assert.Equal(t, []string{"A1"}, roomNumbers(groups[1].Rooms))
}

func TestGroupRoomsByFloorOrdersNumericFloorsFirst(t *testing.T) {
	groups := GroupRoomsByFloor([]*models.Room{
		{RoomNo: "X1", FloorNo: "  "},
		{RoomNo: "1001", FloorNo: "10"},
		{RoomNo: "201", FloorNo: "2"},
		{RoomNo: "G1", FloorNo: "Ground"},
		{RoomNo: "202", FloorNo: " 2 "},
	})

	assert.Equal(t, []string{"2", "10", "Ground", "Unknown"}, floorLabels(groups))
	assert.Equal(t, []string{"201", "202"}, roomNumbers(groups[0].Rooms))
}

func TestGroupRoomsByFloorIsIdempotent(t *testing.T) {
	rooms := []*models.Room{
		{RoomNo: "R10", FloorNo: "3"},
		{RoomNo: "r2", FloorNo: "3"},
		{RoomNo: "B7", FloorNo: ""},
		{RoomNo: "101", FloorNo: "1"},
		{RoomNo: "R1", FloorNo: "3"},
		nil,
	}

	first := GroupRoomsByFloor(rooms)
	second := GroupRoomsByFloor(flatten(first))

	assert.Equal(t, floorLabels(first), floorLabels(second))
	for i := range first {
		assert.Equal(t, roomNumbers(first[i].Rooms), roomNumbers(second[i].Rooms))
	}
	assert.Equal(t, []string{"R1", "r2", "R10"}, roomNumbers(first[1].Rooms))
}

func TestGroupRoomsByFloorEmpty(t *testing.T) {
	assert.Empty(t, GroupRoomsByFloor(nil))
}

func TestFloorLabel(t *testing.T) {
	assert.Equal(t, "Unknown", FloorLabel(""))
	assert.Equal(t, "Unknown", FloorLabel("   "))
	assert.Equal(t, "2", FloorLabel(" 2 "))
	assert.Equal(t, "3", FloorLabel("Floor 03"))
	assert.Equal(t, "Terrace", FloorLabel("Terrace"))
}

func TestOccupancyAlpha(t *testing.T) {
	tests := []struct {
		capacity, allocated int
		want                string
	}{
		{0, 0, "0.00"},
		{0, 5, "0.00"},
		{-1, 2, "0.00"},
		{4, 1, "0.25"},
		{3, 2, "0.67"},
		{2, 5, "1.00"},
		{2, -1, "0.00"},
	}
	for _, tt := range tests {
		got := OccupancyAlpha(&models.Room{Capacity: tt.capacity, AllocatedCount: tt.allocated})
		assert.Equal(t, tt.want, got, "capacity=%d allocated=%d", tt.capacity, tt.allocated)
	}
	assert.Equal(t, "0.00", OccupancyAlpha(nil))
}

func TestFloorSelection(t *testing.T) {
	groups := GroupRoomsByFloor([]*models.Room{
		{RoomNo: "101", FloorNo: "1"},
		{RoomNo: "201", FloorNo: "2"},
	})

	assert.Len(t, FilterFloors(groups, AllFloors), 2)
	filtered := FilterFloors(groups, "2")
	require.Len(t, filtered, 1)
	assert.Equal(t, "2", filtered[0].FloorLabel)

	assert.Equal(t, "2", ResolveFloorSelection(groups, "2"))
	assert.Equal(t, AllFloors, ResolveFloorSelection(groups, "9"))
	assert.Equal(t, AllFloors, ResolveFloorSelection(groups, ""))
}

func TestCompareRoomNumbers(t *testing.T) {
	assert.Negative(t, CompareRoomNumbers("R2", "R10"))
	assert.Positive(t, CompareRoomNumbers("B1", "A9"))
	assert.Zero(t, CompareRoomNumbers("r1", "R1"))
}
