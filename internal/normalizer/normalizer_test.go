package normalizer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, payload string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return raw
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 3, 14, 8, 30, 0, 0, time.UTC)
	native := want

	tests := []struct {
		name string
		in   any
		want *time.Time
	}{
		{"rfc3339", "2025-03-14T08:30:00Z", &want},
		{"rfc3339 with offset", "2025-03-14T15:30:00+07:00", &want},
		{"zoneless datetime", "2025-03-14 08:30:00", &want},
		{"native", want, &want},
		{"native pointer", &native, &want},
		{"seconds object", map[string]any{"seconds": float64(want.Unix())}, &want},
		{"seconds as string", map[string]any{"seconds": "1741941000"}, &want},
		{"epoch millis", float64(want.UnixMilli()), &want},
		{"garbage", "next tuesday", nil},
		{"empty", "", nil},
		{"go zero time", "0001-01-01T00:00:00Z", nil},
		{"object without seconds", map[string]any{"nanos": 5}, nil},
		{"unsupported type", []string{"2025"}, nil},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTimestamp(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s", got)
		})
	}
}

func TestParseTimestampDateOnly(t *testing.T) {
	got := ParseTimestamp("2025-03-14")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), *got)
}

func TestNormalizeTenantCamelAndSnake(t *testing.T) {
	camel := NormalizeTenant(decode(t, `{
		"tenantId": 42,
		"tenantType": {"name": "Mahasiswa"},
		"isAfirmasi": true,
		"status": " Active ",
		"currentRoomAssignment": {"roomId": "10"},
		"documents": [{"id": 1, "status": "VERIFIED"}, {"id": 2, "status": "pending"}],
		"distanceToCampus": "12.5",
		"user": {"fullName": "Siti"}
	}`))
	snake := NormalizeTenant(decode(t, `{
		"tenant_id": "42",
		"tenant_type": "non-mahasiswa",
		"is_afirmasi": "false",
		"current_room": {"room_id": 10.0},
		"distance_to_campus": 3
	}`))

	assert.Equal(t, "42", camel.TenantID)
	assert.Equal(t, "Siti", camel.Name)
	assert.Equal(t, "mahasiswa", camel.TenantType)
	assert.True(t, camel.IsAfirmasi)
	assert.Equal(t, "active", camel.Status)
	assert.Equal(t, "10", camel.CurrentAssignmentRoomID)
	require.Len(t, camel.Documents, 2)
	assert.Equal(t, "verified", camel.Documents[0].Status)
	require.NotNil(t, camel.DistanceToCampus)
	assert.Equal(t, 12.5, *camel.DistanceToCampus)

	assert.Equal(t, "42", snake.TenantID)
	assert.Equal(t, "non_mahasiswa", snake.TenantType)
	assert.False(t, snake.IsAfirmasi)
	assert.Equal(t, "", snake.Status)
	assert.Equal(t, "10", snake.CurrentRoomID)
	assert.Empty(t, snake.CurrentAssignmentRoomID)
}

func TestNormalizeRoomWithOccupants(t *testing.T) {
	room := NormalizeRoom(decode(t, `{
		"room_id": 7,
		"name": "B-204",
		"capacity": "2",
		"classification": {"name": "perempuan"},
		"rental_type": "Harian",
		"occupants": [
			{"tenant_id": 1, "booking_id": 11, "status": "APPROVED", "check_in": {"seconds": 1735689600}, "check_out": "2025-06-30"},
			{"tenantId": "2", "status": "checked_in", "checkIn": "broken"},
			"not an object"
		]
	}`))

	assert.Equal(t, "7", room.RoomID)
	assert.Equal(t, 2, room.Capacity)
	assert.Equal(t, "perempuan", room.Classification)
	assert.Equal(t, "harian", room.RentalType)
	require.Len(t, room.Occupants, 2)
	assert.Equal(t, "7", room.Occupants[0].RoomID)
	assert.Equal(t, "approved", room.Occupants[0].Status)
	require.NotNil(t, room.Occupants[0].CheckIn)
	assert.Equal(t, 2025, room.Occupants[0].CheckIn.Year())
	assert.Nil(t, room.Occupants[1].CheckIn)
}

func TestNormalizeRoomMissingCapacity(t *testing.T) {
	room := NormalizeRoom(decode(t, `{"id": "3", "capacity": "lots"}`))
	assert.Equal(t, 0, room.Capacity)
}

func TestNormalizeBooking(t *testing.T) {
	b := NormalizeBooking(decode(t, `{
		"bookingId": 5, "tenantId": 9, "roomId": 10, "status": "Approved",
		"checkInDate": "2025-01-01T00:00:00Z", "check_out": {"seconds": "1767139200"},
		"payment_status": "PAID", "createdAt": "2024-12-20T10:00:00Z"
	}`))

	assert.Equal(t, "5", b.BookingID)
	assert.Equal(t, "9", b.TenantID)
	assert.Equal(t, "10", b.RoomID)
	assert.Equal(t, "approved", b.Status)
	require.NotNil(t, b.CheckIn)
	require.NotNil(t, b.CheckOut)
	assert.Equal(t, 2025, b.CheckOut.Year())
	assert.Equal(t, "paid", b.PaymentStatus)
	require.NotNil(t, b.CreatedAt)
}

func TestNormalizePaymentAndInvoice(t *testing.T) {
	p := NormalizePayment(decode(t, `{
		"payment_id": 1, "amount": "1500000.50", "status": "Verified",
		"payment_method": {"name": "Bank Transfer"}, "created_at": "2025-03-02T00:00:00Z"
	}`))
	assert.True(t, p.AmountValid)
	assert.True(t, decimal.RequireFromString("1500000.5").Equal(p.Amount))
	assert.Equal(t, "verified", p.Status)
	assert.Equal(t, "bank_transfer", p.PaymentMethod)
	assert.Nil(t, p.PaidAt)
	require.NotNil(t, p.EffectiveAt())
	assert.Equal(t, time.March, p.EffectiveAt().Month())

	bad := NormalizePayment(decode(t, `{"amount": "n/a"}`))
	assert.False(t, bad.AmountValid)
	assert.True(t, bad.Amount.IsZero())

	inv := NormalizeInvoice(decode(t, `{"invoiceId": 3, "totalAmount": 750000, "status": "PAID", "createdAt": "2025-03-01"}`))
	assert.Equal(t, "3", inv.InvoiceID)
	assert.True(t, inv.AmountValid)
	assert.Equal(t, int64(750000), inv.Amount.IntPart())
	assert.Equal(t, "paid", inv.Status)
}

func TestNormalizeCollectionsSkipNil(t *testing.T) {
	tenants := NormalizeTenants([]map[string]any{{"id": 1}, nil, {"id": 2}})
	assert.Len(t, tenants, 2)
	assert.Empty(t, NormalizeRooms(nil))
	assert.NotNil(t, NormalizeRooms(nil))
}

func TestRowIDIsBookingIDOnlyForBookings(t *testing.T) {
	room := NormalizeRoom(decode(t, `{"roomId": 5, "occupants": [{"id": 900, "tenantId": 20}]}`))
	require.Len(t, room.Occupants, 1)
	assert.Empty(t, room.Occupants[0].BookingID)

	b := NormalizeBooking(decode(t, `{"id": 60, "tenantId": 20}`))
	assert.Equal(t, "60", b.BookingID)
}
