package models

import "time"

// Occupant statuses that count toward a room's occupancy
const (
	OccupantStatusApproved  = "approved"
	OccupantStatusCheckedIn = "checked_in"
)

// Room is the canonical room record
type Room struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
	// Capacity is 0 when upstream omitted it or sent something unusable
	Capacity       int        `json:"capacity"`
	Classification string     `json:"classification"`
	RentalType     string     `json:"rental_type"`
	Occupants      []Occupant `json:"occupants"`
}

// Occupant is an occupancy entry embedded in a room payload
type Occupant struct {
	TenantID  string     `json:"tenant_id"`
	BookingID string     `json:"booking_id"`
	RoomID    string     `json:"room_id"`
	Status    string     `json:"status"`
	CheckIn   *time.Time `json:"check_in"`
	CheckOut  *time.Time `json:"check_out"`
}
