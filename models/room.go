package models

// Room is a bookable unit with a bed capacity.
type Room struct {
	ID             string   `json:"id,omitempty"`
	RoomNo         string   `json:"roomNo"`
	Capacity       int      `json:"capacity"`
	FloorNo        string   `json:"floorNo"`
	Comments       *string  `json:"comments,omitempty"`
	AllocatedCount int      `json:"allocatedCount"`
	TenantIDs      []string `json:"tenantIds,omitempty"`
}

// Clone returns a deep copy of the room.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	c := *r
	if r.Comments != nil {
		s := *r.Comments
		c.Comments = &s
	}
	if r.TenantIDs != nil {
		c.TenantIDs = append([]string(nil), r.TenantIDs...)
	}
	return &c
}

// RoomUpdate is the body of PATCH /api/rooms/{id}. A nil Comments is sent as null and clears the note.
type RoomUpdate struct {
	Capacity *int    `json:"capacity,omitempty"`
	Comments *string `json:"comments"`
}

// CreateRoom is the body of POST /api/rooms.
type CreateRoom struct {
	RoomNo         string  `json:"roomNo"`
	Capacity       int     `json:"capacity"`
	FloorNo        string  `json:"floorNo"`
	Comments       *string `json:"comments"`
	AllocatedCount *int    `json:"allocatedCount,omitempty"`
}

// FloorGroup is a display bucket of rooms sharing a floor.
type FloorGroup struct {
	FloorLabel string  `json:"floorLabel"`
	Rooms      []*Room `json:"rooms"`
}
