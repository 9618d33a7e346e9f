package models

import "time"

// Tenant type values as reported by the Tenant API
const (
	TenantTypeMahasiswa    = "mahasiswa"
	TenantTypeNonMahasiswa = "non_mahasiswa"
)

// TenantStatusActive is the only explicit status that counts a tenant as resident
const TenantStatusActive = "active"

// Tenant is the canonical tenant record
type Tenant struct {
	TenantID   string `json:"tenant_id"`
	Name       string `json:"name"`
	TenantType string `json:"tenant_type"`
	IsAfirmasi bool   `json:"is_afirmasi"`
	// Status is empty when upstream omitted it
	Status string `json:"status"`
	// CurrentAssignmentRoomID comes from currentRoomAssignment.roomId
	CurrentAssignmentRoomID string `json:"current_assignment_room_id"`
	// RoomID comes from a flat roomId field
	RoomID string `json:"room_id"`
	// CurrentRoomID comes from current_room.roomId
	CurrentRoomID    string     `json:"current_room_id"`
	Documents        []Document `json:"documents"`
	DistanceToCampus *float64   `json:"distance_to_campus"`
	CreatedAt        *time.Time `json:"created_at"`
}

// Document is a tenant document with its verification status
type Document struct {
	DocumentID string `json:"document_id"`
	Type       string `json:"type"`
	Status     string `json:"status"`
}
