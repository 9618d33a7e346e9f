package occupancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rusunawa-recon-svc/internal/models"
	"rusunawa-recon-svc/internal/models/response"
)

func occupants(n int, status string) []models.Occupant {
	out := make([]models.Occupant, n)
	for i := range out {
		out[i] = models.Occupant{Status: status}
	}
	return out
}

func TestReconcileRoomOverCapacity(t *testing.T) {
	r := NewReconciler(DefaultPolicy())
	state := r.ReconcileRoom(models.Room{RoomID: "1", Capacity: 4, Occupants: occupants(5, "approved")}, nil)

	assert.Equal(t, response.RoomStatusOverCapacity, state.Status)
	assert.Equal(t, 5, state.OccupantCount)
	require.NotEmpty(t, state.Anomaly)
	assert.Contains(t, state.Anomaly, "5")
	assert.Contains(t, state.Anomaly, "4")
	assert.Equal(t, "Over-capacity: 5 > 4", state.Anomaly)
}

func TestOccupantsListIsAuthoritative(t *testing.T) {
	r := NewReconciler(DefaultPolicy())
	tenants := []models.Tenant{
		{TenantID: "a", CurrentAssignmentRoomID: "1", Status: "active"},
		{TenantID: "b", RoomID: "1"},
	}
	room := models.Room{
		RoomID:    "1",
		Capacity:  2,
		Occupants: []models.Occupant{{Status: "pending"}, {Status: "checked_out"}},
	}

	state := r.ReconcileRoom(room, tenants)

	assert.Equal(t, SourceOccupants, state.Source)
	assert.Equal(t, 0, state.OccupantCount)
	assert.Equal(t, response.RoomStatusAvailable, state.Status)
}

func TestOccupantStatusesCounted(t *testing.T) {
	r := NewReconciler(DefaultPolicy())
	room := models.Room{RoomID: "1", Capacity: 4, Occupants: []models.Occupant{
		{Status: "approved"}, {Status: "checked_in"}, {Status: "pending"}, {Status: "rejected"},
	}}
	state := r.ReconcileRoom(room, nil)
	assert.Equal(t, 2, state.OccupantCount)
	assert.Equal(t, response.RoomStatusPartial, state.Status)
}

func TestTenantFallbackStrategies(t *testing.T) {
	r := NewReconciler(DefaultPolicy())
	tenants := []models.Tenant{
		{TenantID: "1", CurrentAssignmentRoomID: "10", Status: "active"},
		{TenantID: "2", CurrentAssignmentRoomID: "10"},
		{TenantID: "3", CurrentAssignmentRoomID: "10", Status: "inactive"},
		{TenantID: "4", RoomID: "20"},
		{TenantID: "5", CurrentRoomID: "20", Status: "active"},
		{TenantID: "6", RoomID: "20", Status: "moved_out"},
	}

	assignment := r.ReconcileRoom(models.Room{RoomID: "10", Capacity: 2}, tenants)
	assert.Equal(t, SourceAssignment, assignment.Source)
	assert.Equal(t, 2, assignment.OccupantCount)
	assert.Equal(t, response.RoomStatusFull, assignment.Status)

	reference := r.ReconcileRoom(models.Room{RoomID: "20", Capacity: 3}, tenants)
	assert.Equal(t, SourceRoomReference, reference.Source)
	assert.Equal(t, 2, reference.OccupantCount)

	empty := r.ReconcileRoom(models.Room{RoomID: "30", Capacity: 3}, tenants)
	assert.Equal(t, SourceNone, empty.Source)
	assert.Equal(t, 0, empty.OccupantCount)
	assert.Equal(t, response.RoomStatusAvailable, empty.Status)
}

func TestMissingStatusPolicy(t *testing.T) {
	tenants := []models.Tenant{{TenantID: "1", CurrentAssignmentRoomID: "10"}}

	inclusive := NewReconciler(Policy{MissingStatusActive: true})
	assert.Equal(t, 1, inclusive.ReconcileRoom(models.Room{RoomID: "10"}, tenants).OccupantCount)

	strict := NewReconciler(Policy{MissingStatusActive: false})
	assert.Equal(t, 0, strict.ReconcileRoom(models.Room{RoomID: "10"}, tenants).OccupantCount)
}

func TestMissingCapacityDefaults(t *testing.T) {
	r := NewReconciler(Policy{})
	state := r.ReconcileRoom(models.Room{RoomID: "1"}, nil)
	assert.Equal(t, DefaultCapacity, state.Capacity)

	custom := NewReconciler(Policy{DefaultCapacity: 2})
	assert.Equal(t, 2, custom.ReconcileRoom(models.Room{RoomID: "1"}, nil).Capacity)
}

func TestReconcileRoomsScenario(t *testing.T) {
	r := NewReconciler(DefaultPolicy())
	rooms := []models.Room{
		{RoomID: "1", Capacity: 2},
		{RoomID: "2", Capacity: 2, Occupants: occupants(3, "approved")},
		{RoomID: "3", Capacity: 4, Occupants: occupants(4, "checked_in")},
	}

	states, summary := r.ReconcileRooms(rooms, nil)

	require.Len(t, states, 3)
	assert.Equal(t, 1, summary.AvailableRooms)
	assert.Equal(t, 2, summary.OccupiedRooms)
	assert.Equal(t, 1, summary.OverCapacityRooms)
	assert.Equal(t, 1, summary.FullRooms)
	assert.Equal(t, response.RoomStatusOverCapacity, states[1].Status)
	assert.Equal(t, 7, summary.TotalOccupants)
	assert.Equal(t, 8, summary.TotalCapacity)
	assert.Equal(t, 87.5, summary.OccupancyRate)
}

func TestClassifyAndRate(t *testing.T) {
	assert.Equal(t, response.RoomStatusAvailable, Classify(0, 4))
	assert.Equal(t, response.RoomStatusPartial, Classify(3, 4))
	assert.Equal(t, response.RoomStatusFull, Classify(4, 4))
	assert.Equal(t, response.RoomStatusOverCapacity, Classify(5, 4))

	assert.Equal(t, 0.0, Rate(3, 0))
	assert.Equal(t, 33.3, Rate(1, 3))
	assert.Equal(t, 66.7, Rate(2, 3))
}
