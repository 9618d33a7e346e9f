// Package anomaly surfaces data-integrity signals found while reconciling.
package anomaly

import (
	"sort"
	"time"

	"rusunawa-recon-svc/internal/models"
	"rusunawa-recon-svc/internal/models/response"
	"rusunawa-recon-svc/internal/temporal"
)

// Detector flags duplicate concurrent bookings and over-capacity rooms
type Detector struct {
	classifier temporal.Classifier
}

// NewDetector creates a detector that filters occupants with classifier
func NewDetector(classifier temporal.Classifier) *Detector {
	return &Detector{classifier: classifier}
}

// DetectDuplicateBookings groups the occupants inside window by tenant and
// returns every tenant holding more than one booking, ordered by tenant id.
// Several distinct tenants in one room is ordinary multi-bed occupancy.
func (d *Detector) DetectDuplicateBookings(occupants []models.Occupant, window temporal.Window, now time.Time) ([]response.DuplicateBooking, error) {
	inWindow, err := d.classifier.Filter(occupants, window, now)
	if err != nil {
		return nil, err
	}

	byTenant := make(map[string][]models.Occupant)
	for _, occ := range inWindow {
		if occ.TenantID == "" {
			continue
		}
		byTenant[occ.TenantID] = append(byTenant[occ.TenantID], occ)
	}

	duplicates := make([]response.DuplicateBooking, 0)
	for tenantID, group := range byTenant {
		if len(group) <= 1 {
			continue
		}
		dup := response.DuplicateBooking{TenantID: tenantID, Count: len(group)}
		for _, occ := range group {
			if occ.BookingID != "" {
				dup.BookingIDs = append(dup.BookingIDs, occ.BookingID)
			}
			if occ.RoomID != "" {
				dup.RoomIDs = appendUnique(dup.RoomIDs, occ.RoomID)
			}
		}
		sort.Strings(dup.BookingIDs)
		sort.Strings(dup.RoomIDs)
		duplicates = append(duplicates, dup)
	}

	sort.Slice(duplicates, func(i, j int) bool {
		return duplicates[i].TenantID < duplicates[j].TenantID
	})
	return duplicates, nil
}

// OverCapacityRooms re-surfaces rooms the occupancy reconciler flagged
func OverCapacityRooms(states []response.RoomOccupancyState) []response.RoomOccupancyState {
	flagged := make([]response.RoomOccupancyState, 0)
	for _, s := range states {
		if s.Status == response.RoomStatusOverCapacity {
			flagged = append(flagged, s)
		}
	}
	return flagged
}

// RevenueMismatch reports the disagreement behind a reconciled month, nil when both sources agree
func RevenueMismatch(m response.MonthlyRevenue) *response.RevenueMismatch {
	if !m.Mismatch {
		return nil
	}
	resolved := "payments"
	if m.IsCalculatedFromInvoices {
		resolved = "invoices"
	}
	diff := m.InvoiceRevenue - m.PaymentRevenue
	if diff < 0 {
		diff = -diff
	}
	return &response.RevenueMismatch{
		Year:           m.Year,
		Month:          m.Month,
		PaymentRevenue: m.PaymentRevenue,
		InvoiceRevenue: m.InvoiceRevenue,
		Difference:     diff,
		Resolved:       resolved,
	}
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
