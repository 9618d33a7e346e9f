// Package normalizer maps the loosely shaped records of the Rusunawa REST API
// onto the canonical models. Every alias table below is the single place where
// upstream naming variants are known; downstream code reads canonical fields only.
package normalizer

import (
	"time"

	"rusunawa-recon-svc/internal/models"
)

var tenantFields = struct {
	ID, Name, Type, Afirmasi, Status, AssignmentRoom, RoomID, CurrentRoom, Documents, Distance, CreatedAt aliases
}{
	ID:       aliases{"tenantId", "tenant_id", "id"},
	Name:     aliases{"name", "fullName", "full_name", "user.fullName", "user.full_name", "user.name"},
	Type:     aliases{"tenantType", "tenant_type", "type", "tenantTypeName", "tenant_type_name"},
	Afirmasi: aliases{"isAfirmasi", "is_afirmasi", "afirmasi"},
	Status:   aliases{"status", "tenantStatus", "tenant_status"},
	AssignmentRoom: aliases{
		"currentRoomAssignment.roomId", "currentRoomAssignment.room_id",
		"current_room_assignment.room_id", "current_room_assignment.roomId",
	},
	RoomID: aliases{"roomId", "room_id"},
	CurrentRoom: aliases{
		"current_room.roomId", "current_room.room_id",
		"currentRoom.roomId", "currentRoom.room_id",
	},
	Documents: aliases{"documents", "tenantDocuments", "tenant_documents"},
	Distance:  aliases{"distanceToCampus", "distance_to_campus"},
	CreatedAt: aliases{"createdAt", "created_at"},
}

var documentFields = struct {
	ID, Type, Status aliases
}{
	ID:     aliases{"documentId", "document_id", "id"},
	Type:   aliases{"documentType", "document_type", "type", "docType", "doc_type"},
	Status: aliases{"status", "documentStatus", "document_status"},
}

var roomFields = struct {
	ID, Name, Capacity, Classification, RentalType, Occupants aliases
}{
	ID:             aliases{"roomId", "room_id", "id"},
	Name:           aliases{"name", "roomName", "room_name", "roomNumber", "room_number"},
	Capacity:       aliases{"capacity", "maxCapacity", "max_capacity"},
	Classification: aliases{"classification", "classificationName", "classification_name", "roomClassification", "room_classification"},
	RentalType:     aliases{"rentalType", "rental_type", "rentalTypeName", "rental_type_name"},
	Occupants:      aliases{"occupants", "roomOccupants", "room_occupants"},
}

var occupancyFields = struct {
	TenantID, BookingID, RoomID, Status, CheckIn, CheckOut aliases
}{
	TenantID:  aliases{"tenantId", "tenant_id", "tenant.tenantId", "tenant.id"},
	BookingID: aliases{"bookingId", "booking_id"},
	RoomID:    aliases{"roomId", "room_id", "room.roomId", "room.id"},
	Status:    aliases{"status", "bookingStatus", "booking_status"},
	CheckIn:   aliases{"checkIn", "check_in", "checkInDate", "check_in_date", "startDate", "start_date"},
	CheckOut:  aliases{"checkOut", "check_out", "checkOutDate", "check_out_date", "endDate", "end_date"},
}

var bookingFields = struct {
	ID, PaymentStatus, CreatedAt aliases
}{
	ID:            aliases{"bookingId", "booking_id", "id"},
	PaymentStatus: aliases{"paymentStatus", "payment_status"},
	CreatedAt:     aliases{"createdAt", "created_at", "bookingDate", "booking_date"},
}

var paymentFields = struct {
	ID, InvoiceID, BookingID, TenantID, Amount, Status, Method, PaidAt, CreatedAt aliases
}{
	ID:        aliases{"paymentId", "payment_id", "id"},
	InvoiceID: aliases{"invoiceId", "invoice_id"},
	BookingID: aliases{"bookingId", "booking_id"},
	TenantID:  aliases{"tenantId", "tenant_id"},
	Amount:    aliases{"amount", "totalAmount", "total_amount"},
	Status:    aliases{"status", "paymentStatus", "payment_status"},
	Method:    aliases{"paymentMethod", "payment_method", "method", "paymentMethodName", "payment_method_name"},
	PaidAt:    aliases{"paidAt", "paid_at", "paymentDate", "payment_date"},
	CreatedAt: aliases{"createdAt", "created_at"},
}

var invoiceFields = struct {
	ID, BookingID, TenantID, Amount, Status, CreatedAt, PaidAt, DueDate aliases
}{
	ID:        aliases{"invoiceId", "invoice_id", "id"},
	BookingID: aliases{"bookingId", "booking_id"},
	TenantID:  aliases{"tenantId", "tenant_id"},
	Amount:    aliases{"amount", "totalAmount", "total_amount", "total"},
	Status:    aliases{"status", "invoiceStatus", "invoice_status"},
	CreatedAt: aliases{"createdAt", "created_at", "issuedAt", "issued_at"},
	PaidAt:    aliases{"paidAt", "paid_at"},
	DueDate:   aliases{"dueDate", "due_date"},
}

// NormalizeTenant produces the canonical tenant record
func NormalizeTenant(raw map[string]any) models.Tenant {
	tenant := models.Tenant{
		TenantID:                identifier(raw, tenantFields.ID),
		Name:                    text(raw, tenantFields.Name),
		TenantType:              category(raw, tenantFields.Type),
		IsAfirmasi:              boolean(raw, tenantFields.Afirmasi),
		Status:                  status(raw, tenantFields.Status),
		CurrentAssignmentRoomID: identifier(raw, tenantFields.AssignmentRoom),
		RoomID:                  identifier(raw, tenantFields.RoomID),
		CurrentRoomID:           identifier(raw, tenantFields.CurrentRoom),
		DistanceToCampus:        floatPtr(raw, tenantFields.Distance),
		CreatedAt:               timestamp(raw, tenantFields.CreatedAt),
	}
	if tenant.TenantType == "nonmahasiswa" {
		tenant.TenantType = models.TenantTypeNonMahasiswa
	}
	for _, doc := range objects(raw, tenantFields.Documents) {
		tenant.Documents = append(tenant.Documents, models.Document{
			DocumentID: identifier(doc, documentFields.ID),
			Type:       category(doc, documentFields.Type),
			Status:     status(doc, documentFields.Status),
		})
	}
	return tenant
}

// NormalizeRoom produces the canonical room record with its embedded occupants
func NormalizeRoom(raw map[string]any) models.Room {
	room := models.Room{
		RoomID:         identifier(raw, roomFields.ID),
		Name:           text(raw, roomFields.Name),
		Capacity:       integer(raw, roomFields.Capacity),
		Classification: category(raw, roomFields.Classification),
		RentalType:     category(raw, roomFields.RentalType),
	}
	if room.Capacity < 0 {
		room.Capacity = 0
	}
	for _, occ := range objects(raw, roomFields.Occupants) {
		occupant := normalizeOccupancy(occ)
		if occupant.RoomID == "" {
			occupant.RoomID = room.RoomID
		}
		room.Occupants = append(room.Occupants, occupant)
	}
	return room
}

// NormalizeBooking produces the canonical booking record
func NormalizeBooking(raw map[string]any) models.Booking {
	occ := normalizeOccupancy(raw)
	return models.Booking{
		BookingID:     identifier(raw, bookingFields.ID),
		TenantID:      occ.TenantID,
		RoomID:        occ.RoomID,
		Status:        occ.Status,
		CheckIn:       occ.CheckIn,
		CheckOut:      occ.CheckOut,
		PaymentStatus: status(raw, bookingFields.PaymentStatus),
		CreatedAt:     timestamp(raw, bookingFields.CreatedAt),
	}
}

// NormalizePayment produces the canonical payment record
func NormalizePayment(raw map[string]any) models.Payment {
	amt, ok := amount(raw, paymentFields.Amount)
	return models.Payment{
		PaymentID:     identifier(raw, paymentFields.ID),
		InvoiceID:     identifier(raw, paymentFields.InvoiceID),
		BookingID:     identifier(raw, paymentFields.BookingID),
		TenantID:      identifier(raw, paymentFields.TenantID),
		Amount:        amt,
		AmountValid:   ok,
		Status:        status(raw, paymentFields.Status),
		PaymentMethod: category(raw, paymentFields.Method),
		PaidAt:        timestamp(raw, paymentFields.PaidAt),
		CreatedAt:     timestamp(raw, paymentFields.CreatedAt),
	}
}

// NormalizeInvoice produces the canonical invoice record
func NormalizeInvoice(raw map[string]any) models.Invoice {
	amt, ok := amount(raw, invoiceFields.Amount)
	return models.Invoice{
		InvoiceID:   identifier(raw, invoiceFields.ID),
		BookingID:   identifier(raw, invoiceFields.BookingID),
		TenantID:    identifier(raw, invoiceFields.TenantID),
		Amount:      amt,
		AmountValid: ok,
		Status:      status(raw, invoiceFields.Status),
		CreatedAt:   timestamp(raw, invoiceFields.CreatedAt),
		PaidAt:      timestamp(raw, invoiceFields.PaidAt),
		DueDate:     timestamp(raw, invoiceFields.DueDate),
	}
}

// NormalizeTenants normalizes a collection, skipping nil entries
func NormalizeTenants(raw []map[string]any) []models.Tenant {
	return normalizeAll(raw, NormalizeTenant)
}

// NormalizeRooms normalizes a collection, skipping nil entries
func NormalizeRooms(raw []map[string]any) []models.Room {
	return normalizeAll(raw, NormalizeRoom)
}

// NormalizeBookings normalizes a collection, skipping nil entries
func NormalizeBookings(raw []map[string]any) []models.Booking {
	return normalizeAll(raw, NormalizeBooking)
}

// NormalizePayments normalizes a collection, skipping nil entries
func NormalizePayments(raw []map[string]any) []models.Payment {
	return normalizeAll(raw, NormalizePayment)
}

// NormalizeInvoices normalizes a collection, skipping nil entries
func NormalizeInvoices(raw []map[string]any) []models.Invoice {
	return normalizeAll(raw, NormalizeInvoice)
}

func normalizeAll[T any](raw []map[string]any, fn func(map[string]any) T) []T {
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		if item == nil {
			continue
		}
		out = append(out, fn(item))
	}
	return out
}

func normalizeOccupancy(raw map[string]any) models.Occupant {
	return models.Occupant{
		TenantID:  identifier(raw, occupancyFields.TenantID),
		BookingID: identifier(raw, occupancyFields.BookingID),
		RoomID:    identifier(raw, occupancyFields.RoomID),
		Status:    status(raw, occupancyFields.Status),
		CheckIn:   timestamp(raw, occupancyFields.CheckIn),
		CheckOut:  timestamp(raw, occupancyFields.CheckOut),
	}
}

func timestamp(raw map[string]any, names aliases) *time.Time {
	v, ok := lookup(raw, names)
	if !ok {
		return nil
	}
	return ParseTimestamp(v)
}
