// Package occupancy derives per-room occupant counts from tenant and room data
// whose upstream consistency is not guaranteed.
package occupancy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"rusunawa-recon-svc/internal/models"
	"rusunawa-recon-svc/internal/models/response"
)

// DefaultCapacity is assumed for rooms that arrive without a usable capacity
const DefaultCapacity = 4

// Strategy names, reported as RoomOccupancyState.Source
const (
	SourceOccupants     = "occupants"
	SourceAssignment    = "assignment"
	SourceRoomReference = "room_reference"
	SourceNone          = "none"
)

// Policy holds the configurable defaults of the reconciler
type Policy struct {
	// MissingStatusActive counts tenants without a status as active
	MissingStatusActive bool
	// DefaultCapacity replaces a missing room capacity
	DefaultCapacity int
}

// DefaultPolicy is the inclusive policy the dashboard has always used
func DefaultPolicy() Policy {
	return Policy{MissingStatusActive: true, DefaultCapacity: DefaultCapacity}
}

// Reconciler computes RoomOccupancyState values
type Reconciler struct {
	policy Policy
}

// NewReconciler creates a reconciler; a non-positive default capacity falls back to DefaultCapacity
func NewReconciler(policy Policy) *Reconciler {
	if policy.DefaultCapacity <= 0 {
		policy.DefaultCapacity = DefaultCapacity
	}
	return &Reconciler{policy: policy}
}

// TenantActive applies the active-or-unknown rule
func (r *Reconciler) TenantActive(t models.Tenant) bool {
	if t.Status == "" {
		return r.policy.MissingStatusActive
	}
	return t.Status == models.TenantStatusActive
}

// ReconcileRoom counts the occupants of one room.
//
// A non-empty occupants list is authoritative on its own. Otherwise tenant
// assignments are counted, then flat or current_room references.
func (r *Reconciler) ReconcileRoom(room models.Room, tenants []models.Tenant) response.RoomOccupancyState {
	capacity := room.Capacity
	if capacity <= 0 {
		capacity = r.policy.DefaultCapacity
	}

	count, source := r.count(room, tenants)

	state := response.RoomOccupancyState{
		RoomID:         room.RoomID,
		Name:           room.Name,
		Classification: room.Classification,
		Capacity:       capacity,
		OccupantCount:  count,
		Source:         source,
		Status:         Classify(count, capacity),
	}
	if state.Status == response.RoomStatusOverCapacity {
		state.Anomaly = fmt.Sprintf("Over-capacity: %d > %d", count, capacity)
	}
	return state
}

func (r *Reconciler) count(room models.Room, tenants []models.Tenant) (int, string) {
	if len(room.Occupants) > 0 {
		n := 0
		for _, occ := range room.Occupants {
			if occ.Status == models.OccupantStatusApproved || occ.Status == models.OccupantStatusCheckedIn {
				n++
			}
		}
		return n, SourceOccupants
	}
	if room.RoomID == "" {
		return 0, SourceNone
	}

	if n := r.countTenants(tenants, func(t models.Tenant) bool {
		return t.CurrentAssignmentRoomID == room.RoomID
	}); n > 0 {
		return n, SourceAssignment
	}

	if n := r.countTenants(tenants, func(t models.Tenant) bool {
		return t.RoomID == room.RoomID || t.CurrentRoomID == room.RoomID
	}); n > 0 {
		return n, SourceRoomReference
	}

	return 0, SourceNone
}

func (r *Reconciler) countTenants(tenants []models.Tenant, match func(models.Tenant) bool) int {
	n := 0
	for _, t := range tenants {
		if match(t) && r.TenantActive(t) {
			n++
		}
	}
	return n
}

// ReconcileRooms reconciles every room and accumulates the building totals
func (r *Reconciler) ReconcileRooms(rooms []models.Room, tenants []models.Tenant) ([]response.RoomOccupancyState, response.OccupancySummary) {
	states := make([]response.RoomOccupancyState, 0, len(rooms))
	var summary response.OccupancySummary

	for _, room := range rooms {
		state := r.ReconcileRoom(room, tenants)
		states = append(states, state)

		summary.TotalRooms++
		summary.TotalCapacity += state.Capacity
		summary.TotalOccupants += state.OccupantCount

		switch state.Status {
		case response.RoomStatusAvailable:
			summary.AvailableRooms++
		case response.RoomStatusPartial:
			summary.PartialRooms++
		case response.RoomStatusFull:
			summary.FullRooms++
		case response.RoomStatusOverCapacity:
			summary.OverCapacityRooms++
		}
	}

	summary.OccupiedRooms = summary.TotalRooms - summary.AvailableRooms
	summary.OccupancyRate = Rate(summary.TotalOccupants, summary.TotalCapacity)
	return states, summary
}

// Classify maps an occupant count against a capacity onto a room status
func Classify(count, capacity int) string {
	switch {
	case count <= 0:
		return response.RoomStatusAvailable
	case count > capacity:
		return response.RoomStatusOverCapacity
	case count == capacity:
		return response.RoomStatusFull
	default:
		return response.RoomStatusPartial
	}
}

// Rate returns part/whole as a percentage rounded to one decimal, 0 for an empty whole
func Rate(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(whole))).
		Round(1)
	return pct.InexactFloat64()
}
