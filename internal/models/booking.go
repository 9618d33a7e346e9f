package models

import "time"

// BookingStatusApproved is the status every temporal window requires
const BookingStatusApproved = "approved"

// Booking is the canonical booking record
type Booking struct {
	BookingID     string     `json:"booking_id"`
	TenantID      string     `json:"tenant_id"`
	RoomID        string     `json:"room_id"`
	Status        string     `json:"status"`
	CheckIn       *time.Time `json:"check_in"`
	CheckOut      *time.Time `json:"check_out"`
	PaymentStatus string     `json:"payment_status"`
	CreatedAt     *time.Time `json:"created_at"`
}

// AsOccupant views the booking as an occupancy interval
func (b Booking) AsOccupant() Occupant {
	return Occupant{
		TenantID:  b.TenantID,
		BookingID: b.BookingID,
		RoomID:    b.RoomID,
		Status:    b.Status,
		CheckIn:   b.CheckIn,
		CheckOut:  b.CheckOut,
	}
}
