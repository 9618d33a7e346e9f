package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"rusunawa-recon-svc/internal/models/response"
)

// metricRow is one label/value pair of the summary section
type metricRow struct {
	Label string
	Value string
}

// summaryRows flattens the headline figures shared by every format
func summaryRows(r response.AggregateReport) []metricRow {
	o := r.Overall
	m := r.Monthly
	return []metricRow{
		{"Generated At", r.GeneratedAt.Format(time.RFC3339)},
		{"Total Rooms", formatInt(o.TotalRooms)},
		{"Available Rooms", formatInt(o.AvailableRooms)},
		{"Occupied Rooms", formatInt(o.OccupiedRooms)},
		{"Over-capacity Rooms", formatInt(o.OverCapacityRooms)},
		{"Total Capacity", formatInt(o.TotalCapacity)},
		{"Total Occupants", formatInt(o.TotalOccupants)},
		{"Occupancy Rate (%)", formatFloat(o.OccupancyRate)},
		{"Total Tenants", formatInt(o.TotalTenants)},
		{"Active Tenants", formatInt(o.ActiveTenants)},
		{"Mahasiswa Tenants", formatInt(o.MahasiswaTenants)},
		{"Non-mahasiswa Tenants", formatInt(o.NonMahasiswaTenants)},
		{"Afirmasi Tenants", formatInt(o.AfirmasiTenants)},
		{"Average Distance (km)", formatFloat(o.AverageDistanceKm)},
		{"Pending Documents", formatInt(o.PendingDocuments)},
		{"Total Bookings", formatInt(o.TotalBookings)},
		{"Approved Bookings", formatInt(o.ApprovedBookings)},
		{"Pending Bookings", formatInt(o.PendingBookings)},
		{"Total Revenue", formatFloat(o.TotalRevenue)},
		{"Verified Payments", formatInt(o.VerifiedPayments)},
		{"Pending Payments", formatInt(o.PendingPayments)},
		{"Failed Payments", formatInt(o.FailedPayments)},
		{"Report Month", strconv.Itoa(m.Year) + "-" + twoDigits(m.Month)},
		{"Monthly Revenue", formatFloat(m.Revenue)},
		{"Revenue From Invoices", strconv.FormatBool(m.IsCalculatedFromInvoices)},
		{"Last Month Revenue", formatFloat(m.LastMonthRevenue)},
		{"Revenue Growth (%)", formatFloat(m.RevenueGrowth)},
		{"Paid Invoices", formatInt(m.PaidInvoices)},
		{"Unpaid Invoices", formatInt(m.UnpaidInvoices)},
		{"New Bookings", formatInt(m.NewBookings)},
		{"New Tenants", formatInt(m.NewTenants)},
		{"Today", r.Daily.Date},
		{"Today Check-ins", formatInt(r.Daily.CheckIns)},
		{"Today Check-outs", formatInt(r.Daily.CheckOuts)},
		{"Today Revenue", formatFloat(r.Daily.Revenue)},
	}
}

func twoDigits(n int) string {
	if n >= 0 && n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// distSection is one named histogram
type distSection struct {
	Name string
	Dist map[string]int
}

// distributionSections names each histogram in output order
func distributionSections(d response.Distributions) []distSection {
	return []distSection{
		{"Payment Method", d.PaymentMethod},
		{"Payment Status", d.PaymentStatus},
		{"Tenant Type", d.TenantType},
		{"Room Classification", d.RoomClassification},
		{"Rental Type", d.RentalType},
		{"Booking Status", d.BookingStatus},
		{"Document Status", d.DocumentStatus},
	}
}

// WriteCSV writes the report as a key/value summary followed by tabular sections
func WriteCSV(w io.Writer, report response.AggregateReport) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	records := [][]string{{"Metric", "Value"}}
	for _, row := range summaryRows(report) {
		records = append(records, []string{row.Label, row.Value})
	}

	records = append(records, nil, []string{"Room", "Name", "Classification", "Capacity", "Occupants", "Status", "Source", "Anomaly"})
	for _, room := range report.Rooms {
		records = append(records, []string{
			room.RoomID, room.Name, room.Classification,
			formatInt(room.Capacity), formatInt(room.OccupantCount),
			room.Status, room.Source, room.Anomaly,
		})
	}

	records = append(records, nil, []string{"Period", "Count", "Percentage", "Status", "Over Capacity"})
	for _, p := range report.Periods {
		records = append(records, []string{
			p.Period, formatInt(p.Count), formatFloat(p.Percentage), p.Status, strconv.FormatBool(p.IsOverCapacity),
		})
	}

	records = append(records, nil, []string{"Distribution", "Category", "Count", "Percentage"})
	for _, section := range distributionSections(report.Distributions) {
		for _, point := range ChartSeries(section.Dist) {
			records = append(records, []string{section.Name, point.Name, formatInt(point.Value), formatFloat(point.Percentage)})
		}
	}

	records = append(records, nil, []string{"Payment Method", "Revenue"})
	for _, method := range sortedKeys(report.RevenueByMethod) {
		records = append(records, []string{method, formatFloat(report.RevenueByMethod[method])})
	}

	records = append(records, nil, []string{"Anomaly", "Subject", "Detail"})
	for _, room := range report.Anomalies.OverCapacityRooms {
		records = append(records, []string{"over_capacity", room.RoomID, room.Anomaly})
	}
	for _, dup := range report.Anomalies.DuplicateBookings {
		records = append(records, []string{"duplicate_booking", dup.TenantID, formatInt(dup.Count) + " concurrent bookings"})
	}
	if mm := report.Anomalies.RevenueMismatch; mm != nil {
		records = append(records, []string{"revenue_mismatch", strconv.Itoa(mm.Year) + "-" + twoDigits(mm.Month),
			"payments " + formatFloat(mm.PaymentRevenue) + " vs invoices " + formatFloat(mm.InvoiceRevenue)})
	}

	if report.HasErrors() {
		records = append(records, nil, []string{"Source", "Error"})
		for _, key := range sortedKeys(report.Errors) {
			records = append(records, []string{key, report.Errors[key]})
		}
	}

	for _, record := range records {
		if record == nil {
			record = []string{}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
