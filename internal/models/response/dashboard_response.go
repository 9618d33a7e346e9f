package response

import "time"

// Room occupancy states
const (
	RoomStatusAvailable    = "available"
	RoomStatusPartial      = "partial"
	RoomStatusFull         = "full"
	RoomStatusOverCapacity = "over_capacity"
)

// Source keys used in AggregateReport.Errors
const (
	TenantsError  = "tenantsError"
	BookingsError = "bookingsError"
	RoomsError    = "roomsError"
	PaymentsError = "paymentsError"
	InvoicesError = "invoicesError"
)

// RoomOccupancyState is the derived occupancy of one room
type RoomOccupancyState struct {
	RoomID         string `json:"room_id" example:"10"`
	Name           string `json:"name,omitempty" example:"A-101"`
	Classification string `json:"classification,omitempty" example:"perempuan"`
	Capacity       int    `json:"capacity" example:"4"`
	OccupantCount  int    `json:"occupant_count" example:"3"`
	Status         string `json:"status" example:"partial"`
	// Source names the strategy that produced OccupantCount
	Source  string `json:"source" example:"occupants"`
	Anomaly string `json:"anomaly,omitempty" example:"Over-capacity: 5 > 4"`
}

// OccupancySummary accumulates room states across the whole building
type OccupancySummary struct {
	TotalRooms        int     `json:"total_rooms" example:"3"`
	AvailableRooms    int     `json:"available_rooms" example:"1"`
	OccupiedRooms     int     `json:"occupied_rooms" example:"2"`
	PartialRooms      int     `json:"partial_rooms" example:"0"`
	FullRooms         int     `json:"full_rooms" example:"1"`
	OverCapacityRooms int     `json:"over_capacity_rooms" example:"1"`
	TotalCapacity     int     `json:"total_capacity" example:"8"`
	TotalOccupants    int     `json:"total_occupants" example:"7"`
	OccupancyRate     float64 `json:"occupancy_rate" example:"87.5"`
}

// PeriodStats describes occupancy inside one temporal window
type PeriodStats struct {
	Period         string  `json:"period" example:"current"`
	Count          int     `json:"count" example:"12"`
	Percentage     float64 `json:"percentage" example:"75"`
	Status         string  `json:"status" example:"partial"`
	IsOverCapacity bool    `json:"is_over_capacity" example:"false"`
}

// OverallMetrics are the headline dashboard figures
type OverallMetrics struct {
	OccupancySummary
	TotalTenants        int     `json:"total_tenants" example:"40"`
	ActiveTenants       int     `json:"active_tenants" example:"38"`
	MahasiswaTenants    int     `json:"mahasiswa_tenants" example:"30"`
	NonMahasiswaTenants int     `json:"non_mahasiswa_tenants" example:"10"`
	AfirmasiTenants     int     `json:"afirmasi_tenants" example:"6"`
	AverageDistanceKm   float64 `json:"average_distance_km" example:"12.4"`
	TotalBookings       int     `json:"total_bookings" example:"55"`
	ApprovedBookings    int     `json:"approved_bookings" example:"41"`
	PendingBookings     int     `json:"pending_bookings" example:"9"`
	TotalRevenue        float64 `json:"total_revenue" example:"25000000"`
	VerifiedPayments    int     `json:"verified_payments" example:"50"`
	PendingPayments     int     `json:"pending_payments" example:"4"`
	FailedPayments      int     `json:"failed_payments" example:"1"`
	PendingDocuments    int     `json:"pending_documents" example:"3"`
}

// DailyMetrics covers the calendar day of the report's reference time
type DailyMetrics struct {
	Date        string  `json:"date" example:"2025-03-14"`
	NewBookings int     `json:"new_bookings" example:"2"`
	CheckIns    int     `json:"check_ins" example:"1"`
	CheckOuts   int     `json:"check_outs" example:"0"`
	Payments    int     `json:"payments" example:"3"`
	Revenue     float64 `json:"revenue" example:"1500000"`
}

// MonthlyRevenue is the reconciled revenue of one calendar month
type MonthlyRevenue struct {
	Year                     int     `json:"year" example:"2025"`
	Month                    int     `json:"month" example:"3"`
	Revenue                  float64 `json:"monthly_revenue" example:"1500000"`
	MonthlyPayments          int     `json:"monthly_payments" example:"3"`
	PaidInvoices             int     `json:"paid_invoices" example:"3"`
	UnpaidInvoices           int     `json:"unpaid_invoices" example:"1"`
	PaymentRevenue           float64 `json:"payment_revenue" example:"1000000"`
	InvoiceRevenue           float64 `json:"invoice_revenue" example:"1500000"`
	IsCalculatedFromInvoices bool    `json:"is_calculated_from_invoices" example:"true"`
	Mismatch                 bool    `json:"mismatch" example:"true"`
}

// MonthlyMetrics holds the current month plus the month before it
type MonthlyMetrics struct {
	MonthlyRevenue
	LastMonthRevenue float64 `json:"last_month_revenue" example:"1200000"`
	RevenueGrowth    float64 `json:"revenue_growth" example:"25"`
	NewBookings      int     `json:"new_bookings" example:"8"`
	NewTenants       int     `json:"new_tenants" example:"5"`
}

// TrendDeltas are month-over-month growth percentages
type TrendDeltas struct {
	RevenueGrowth float64 `json:"revenue_growth" example:"25"`
	BookingGrowth float64 `json:"booking_growth" example:"-12.5"`
	TenantGrowth  float64 `json:"tenant_growth" example:"0"`
}

// Distributions are category→count histograms
type Distributions struct {
	PaymentMethod      map[string]int `json:"payment_method"`
	PaymentStatus      map[string]int `json:"payment_status"`
	TenantType         map[string]int `json:"tenant_type"`
	RoomClassification map[string]int `json:"room_classification"`
	RentalType         map[string]int `json:"rental_type"`
	BookingStatus      map[string]int `json:"booking_status"`
	DocumentStatus     map[string]int `json:"document_status"`
}

// DuplicateBooking flags one tenant holding several concurrent bookings
type DuplicateBooking struct {
	TenantID   string   `json:"tenant_id" example:"42"`
	Count      int      `json:"count" example:"2"`
	BookingIDs []string `json:"booking_ids,omitempty"`
	RoomIDs    []string `json:"room_ids,omitempty"`
}

// RevenueMismatch records a payment/invoice disagreement for a month
type RevenueMismatch struct {
	Year           int     `json:"year" example:"2025"`
	Month          int     `json:"month" example:"3"`
	PaymentRevenue float64 `json:"payment_revenue" example:"1000000"`
	InvoiceRevenue float64 `json:"invoice_revenue" example:"1500000"`
	Difference     float64 `json:"difference" example:"500000"`
	Resolved       string  `json:"resolved" example:"invoices"`
}

// Anomalies groups every reconciliation mismatch surfaced by a report
type Anomalies struct {
	Window            string               `json:"window" example:"current"`
	OverCapacityRooms []RoomOccupancyState `json:"over_capacity_rooms"`
	DuplicateBookings []DuplicateBooking   `json:"duplicate_bookings"`
	RevenueMismatch   *RevenueMismatch     `json:"revenue_mismatch,omitempty"`
}

// AggregateReport is the complete output of one aggregation run
type AggregateReport struct {
	GeneratedAt     time.Time            `json:"generated_at"`
	Overall         OverallMetrics       `json:"overall"`
	Daily           DailyMetrics         `json:"daily"`
	Monthly         MonthlyMetrics       `json:"monthly"`
	Periods         []PeriodStats        `json:"periods"`
	Rooms           []RoomOccupancyState `json:"rooms"`
	Distributions   Distributions        `json:"distributions"`
	RevenueByMethod map[string]float64   `json:"revenue_by_method"`
	Trends          TrendDeltas          `json:"trends"`
	Anomalies       Anomalies            `json:"anomalies"`
	// Errors maps "<source>Error" to the fetch failure message
	Errors map[string]string `json:"errors"`
}

// HasErrors reports whether any upstream source failed
func (r *AggregateReport) HasErrors() bool {
	return len(r.Errors) > 0
}
