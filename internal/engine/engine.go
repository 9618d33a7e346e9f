// Package engine composes the normalizer and reconcilers into a single
// AggregateReport. Compute is pure: identical sources and reference time give
// an identical report.
package engine

import (
	"time"

	jnow "github.com/jinzhu/now"
	"github.com/shopspring/decimal"

	"rusunawa-recon-svc/internal/anomaly"
	"rusunawa-recon-svc/internal/distribution"
	"rusunawa-recon-svc/internal/models"
	"rusunawa-recon-svc/internal/models/response"
	"rusunawa-recon-svc/internal/normalizer"
	"rusunawa-recon-svc/internal/occupancy"
	"rusunawa-recon-svc/internal/revenue"
	"rusunawa-recon-svc/internal/temporal"
)

// Source names one upstream collection
type Source string

const (
	SourceTenants  Source = "tenants"
	SourceBookings Source = "bookings"
	SourceRooms    Source = "rooms"
	SourcePayments Source = "payments"
	SourceInvoices Source = "invoices"
)

// AllSources lists the collections in fetch order
var AllSources = []Source{SourceTenants, SourceBookings, SourceRooms, SourcePayments, SourceInvoices}

// ErrorKey is the AggregateReport.Errors key for the source
func (s Source) ErrorKey() string {
	return string(s) + "Error"
}

// anomaliesErrorKey records an anomaly pass that could not run
const anomaliesErrorKey = "anomaliesError"

// Sources carries the raw collections of one aggregation run.
// A source listed in Failures is treated as empty.
type Sources struct {
	Tenants  []map[string]any
	Bookings []map[string]any
	Rooms    []map[string]any
	Payments []map[string]any
	Invoices []map[string]any
	Failures map[Source]error
}

// Fail records a failed fetch
func (s *Sources) Fail(src Source, err error) {
	if s.Failures == nil {
		s.Failures = make(map[Source]error)
	}
	s.Failures[src] = err
}

// Config holds the policies of an engine
type Config struct {
	Occupancy       occupancy.Policy
	Revenue         revenue.Policy
	Classifier      temporal.Classifier
	DuplicateWindow temporal.Window
}

// DefaultConfig mirrors the dashboard's long-standing behaviour
func DefaultConfig() Config {
	return Config{
		Occupancy:       occupancy.DefaultPolicy(),
		Revenue:         revenue.DefaultPolicy(),
		Classifier:      temporal.Classifier{UnknownWindow: temporal.FallbackCurrent},
		DuplicateWindow: temporal.Current,
	}
}

// Options are the per-run inputs besides the data
type Options struct {
	// Now is the reference time; its location defines day, month and year boundaries
	Now time.Time
	// Year and Month select the revenue month; zero means the month of Now
	Year  int
	Month int
	// Window overrides the duplicate-booking window when set
	Window temporal.Window
}

// Engine computes aggregate reports
type Engine struct {
	cfg        Config
	occupancy  *occupancy.Reconciler
	revenue    *revenue.Reconciler
	detector   *anomaly.Detector
	classifier temporal.Classifier
}

// New creates an engine with the given policies
func New(cfg Config) *Engine {
	if cfg.DuplicateWindow == "" {
		cfg.DuplicateWindow = temporal.Current
	}
	return &Engine{
		cfg:        cfg,
		occupancy:  occupancy.NewReconciler(cfg.Occupancy),
		revenue:    revenue.NewReconciler(cfg.Revenue),
		detector:   anomaly.NewDetector(cfg.Classifier),
		classifier: cfg.Classifier,
	}
}

// Config returns the policies the engine was built with
func (e *Engine) Config() Config {
	return e.cfg
}

// dataset is one run's normalized input
type dataset struct {
	tenants  []models.Tenant
	bookings []models.Booking
	rooms    []models.Room
	payments []models.Payment
	invoices []models.Invoice
	roster   []models.Occupant
}

// Compute derives the complete AggregateReport. It never fails: source
// failures are recorded in Errors and their sections fall back to zero values.
func (e *Engine) Compute(src Sources, opts Options) response.AggregateReport {
	now := opts.Now
	report := response.AggregateReport{
		GeneratedAt:     now,
		Periods:         make([]response.PeriodStats, 0, len(temporal.Windows)),
		RevenueByMethod: map[string]float64{},
		Errors:          map[string]string{},
	}
	for source, err := range src.Failures {
		if err != nil {
			report.Errors[source.ErrorKey()] = err.Error()
		}
	}

	data := e.normalize(src)

	states, summary := e.occupancy.ReconcileRooms(data.rooms, data.tenants)
	report.Rooms = states
	report.Overall.OccupancySummary = summary

	e.tenantMetrics(&report, data)
	e.bookingMetrics(&report, data)
	e.revenueMetrics(&report, data, opts)
	e.dailyMetrics(&report, data, now)
	e.periodStats(&report, data, summary.TotalCapacity, now)
	e.distributions(&report, data)
	e.anomalies(&report, data, states, opts)

	return report
}

func (e *Engine) normalize(src Sources) dataset {
	data := dataset{
		tenants:  normalizer.NormalizeTenants(src.collection(SourceTenants, src.Tenants)),
		bookings: normalizer.NormalizeBookings(src.collection(SourceBookings, src.Bookings)),
		rooms:    normalizer.NormalizeRooms(src.collection(SourceRooms, src.Rooms)),
		payments: normalizer.NormalizePayments(src.collection(SourcePayments, src.Payments)),
		invoices: normalizer.NormalizeInvoices(src.collection(SourceInvoices, src.Invoices)),
	}
	data.roster = buildRoster(data.bookings, data.rooms)
	return data
}

func (s Sources) collection(source Source, raw []map[string]any) []map[string]any {
	if err, failed := s.Failures[source]; failed && err != nil {
		return nil
	}
	return raw
}

// buildRoster merges bookings with room-embedded occupants. An embedded
// occupant is skipped when its booking id already appeared among the
// bookings, or, lacking a booking id, when a booking covers the same
// tenant, room and check-in.
func buildRoster(bookings []models.Booking, rooms []models.Room) []models.Occupant {
	seenIDs := make(map[string]struct{}, len(bookings))
	seenStays := make(map[string]struct{}, len(bookings))
	roster := make([]models.Occupant, 0, len(bookings))
	for _, b := range bookings {
		occ := b.AsOccupant()
		roster = append(roster, occ)
		if b.BookingID != "" {
			seenIDs[b.BookingID] = struct{}{}
		}
		if b.TenantID != "" {
			seenStays[stayKey(occ)] = struct{}{}
		}
	}
	for _, room := range rooms {
		for _, occ := range room.Occupants {
			if occ.BookingID != "" {
				if _, dup := seenIDs[occ.BookingID]; dup {
					continue
				}
				seenIDs[occ.BookingID] = struct{}{}
			} else if occ.TenantID != "" {
				key := stayKey(occ)
				if _, dup := seenStays[key]; dup {
					continue
				}
				seenStays[key] = struct{}{}
			}
			roster = append(roster, occ)
		}
	}
	return roster
}

// stayKey identifies a stay by tenant, room and check-in day
func stayKey(occ models.Occupant) string {
	checkIn := ""
	if occ.CheckIn != nil {
		checkIn = occ.CheckIn.UTC().Format(time.DateOnly)
	}
	return occ.TenantID + "|" + occ.RoomID + "|" + checkIn
}

func (e *Engine) tenantMetrics(report *response.AggregateReport, data dataset) {
	overall := &report.Overall
	overall.TotalTenants = len(data.tenants)

	distanceSum := decimal.Zero
	distanceCount := 0
	for _, t := range data.tenants {
		if e.occupancy.TenantActive(t) {
			overall.ActiveTenants++
		}
		switch t.TenantType {
		case models.TenantTypeMahasiswa:
			overall.MahasiswaTenants++
		case models.TenantTypeNonMahasiswa:
			overall.NonMahasiswaTenants++
		}
		if t.IsAfirmasi {
			overall.AfirmasiTenants++
		}
		if t.DistanceToCampus != nil {
			distanceSum = distanceSum.Add(decimal.NewFromFloat(*t.DistanceToCampus))
			distanceCount++
		}
		for _, doc := range t.Documents {
			if doc.Status == "pending" {
				overall.PendingDocuments++
			}
		}
	}
	if distanceCount > 0 {
		overall.AverageDistanceKm = distanceSum.Div(decimal.NewFromInt(int64(distanceCount))).Round(2).InexactFloat64()
	}
}

func (e *Engine) bookingMetrics(report *response.AggregateReport, data dataset) {
	overall := &report.Overall
	overall.TotalBookings = len(data.bookings)
	for _, b := range data.bookings {
		switch b.Status {
		case models.BookingStatusApproved:
			overall.ApprovedBookings++
		case "pending":
			overall.PendingBookings++
		}
	}
}

func (e *Engine) revenueMetrics(report *response.AggregateReport, data dataset, opts Options) {
	loc := opts.Now.Location()
	year, month := opts.Year, opts.Month
	if year == 0 || month < 1 || month > 12 {
		year, month = opts.Now.Year(), int(opts.Now.Month())
	}
	lastYear, lastMonth := revenue.PreviousMonth(year, month)

	totals := e.revenue.Totals(data.payments)
	report.Overall.TotalRevenue = totals.Revenue.InexactFloat64()
	report.Overall.VerifiedPayments = totals.Verified
	report.Overall.PendingPayments = totals.Pending
	report.Overall.FailedPayments = totals.Failed

	current := e.revenue.ReconcileMonthlyRevenue(data.payments, data.invoices, year, month, loc)
	previous := e.revenue.ReconcileMonthlyRevenue(data.payments, data.invoices, lastYear, lastMonth, loc)

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	lastStart := time.Date(lastYear, time.Month(lastMonth), 1, 0, 0, 0, 0, loc)

	newBookings := countCreated(data.bookings, func(b models.Booking) *time.Time { return b.CreatedAt }, monthStart)
	lastBookings := countCreated(data.bookings, func(b models.Booking) *time.Time { return b.CreatedAt }, lastStart)
	newTenants := countCreated(data.tenants, func(t models.Tenant) *time.Time { return t.CreatedAt }, monthStart)
	lastTenants := countCreated(data.tenants, func(t models.Tenant) *time.Time { return t.CreatedAt }, lastStart)

	report.Monthly = response.MonthlyMetrics{
		MonthlyRevenue:   current,
		LastMonthRevenue: previous.Revenue,
		RevenueGrowth:    revenue.Growth(current.Revenue, previous.Revenue),
		NewBookings:      newBookings,
		NewTenants:       newTenants,
	}
	report.Trends = response.TrendDeltas{
		RevenueGrowth: report.Monthly.RevenueGrowth,
		BookingGrowth: revenue.Growth(float64(newBookings), float64(lastBookings)),
		TenantGrowth:  revenue.Growth(float64(newTenants), float64(lastTenants)),
	}
}

// countCreated counts items created in the calendar month starting at monthStart
func countCreated[T any](items []T, createdAt func(T) *time.Time, monthStart time.Time) int {
	end := jnow.With(monthStart).EndOfMonth()
	n := 0
	for _, item := range items {
		if t := createdAt(item); t != nil && !t.Before(monthStart) && !t.After(end) {
			n++
		}
	}
	return n
}

func (e *Engine) dailyMetrics(report *response.AggregateReport, data dataset, now time.Time) {
	day := jnow.With(now)
	start, end := day.BeginningOfDay(), day.EndOfDay()
	onDay := func(t *time.Time) bool {
		return t != nil && !t.Before(start) && !t.After(end)
	}

	daily := response.DailyMetrics{Date: start.Format("2006-01-02")}
	for _, b := range data.bookings {
		if onDay(b.CreatedAt) {
			daily.NewBookings++
		}
		if b.Status != models.BookingStatusApproved {
			continue
		}
		if onDay(b.CheckIn) {
			daily.CheckIns++
		}
		if onDay(b.CheckOut) {
			daily.CheckOuts++
		}
	}
	sum, count := e.revenue.Between(data.payments, start, end)
	daily.Payments = count
	daily.Revenue = sum.InexactFloat64()
	report.Daily = daily
}

func (e *Engine) periodStats(report *response.AggregateReport, data dataset, totalCapacity int, now time.Time) {
	for _, w := range temporal.Windows {
		count := 0
		for _, occ := range data.roster {
			if ok, _ := e.classifier.Classify(occ, w, now); ok {
				count++
			}
		}
		stats := response.PeriodStats{
			Period:     string(w),
			Count:      count,
			Percentage: occupancy.Rate(count, totalCapacity),
		}
		if totalCapacity > 0 {
			stats.Status = occupancy.Classify(count, totalCapacity)
			stats.IsOverCapacity = count > totalCapacity
		} else if count == 0 {
			stats.Status = response.RoomStatusAvailable
		} else {
			stats.Status = periodStatusUnknown
		}
		report.Periods = append(report.Periods, stats)
	}
}

// periodStatusUnknown marks a window with occupants but no known capacity
const periodStatusUnknown = "unknown"

func (e *Engine) distributions(report *response.AggregateReport, data dataset) {
	report.Distributions = response.Distributions{
		PaymentMethod:      distribution.GroupBy(data.payments, func(p models.Payment) string { return p.PaymentMethod }),
		PaymentStatus:      distribution.GroupBy(data.payments, func(p models.Payment) string { return p.Status }),
		TenantType:         distribution.GroupBy(data.tenants, func(t models.Tenant) string { return t.TenantType }),
		RoomClassification: distribution.GroupBy(data.rooms, func(r models.Room) string { return r.Classification }),
		RentalType:         distribution.GroupBy(data.rooms, func(r models.Room) string { return r.RentalType }),
		BookingStatus:      distribution.GroupBy(data.bookings, func(b models.Booking) string { return b.Status }),
		DocumentStatus: distribution.Flatten(data.tenants, func(t models.Tenant) []string {
			statuses := make([]string, 0, len(t.Documents))
			for _, d := range t.Documents {
				statuses = append(statuses, d.Status)
			}
			return statuses
		}),
	}

	succeeded := make([]models.Payment, 0, len(data.payments))
	for _, p := range data.payments {
		if models.PaymentSucceeded(p.Status) && p.AmountValid {
			succeeded = append(succeeded, p)
		}
	}
	report.RevenueByMethod = distribution.Floats(distribution.SumBy(succeeded,
		func(p models.Payment) string { return p.PaymentMethod },
		func(p models.Payment) decimal.Decimal { return p.Amount },
	))
}

func (e *Engine) anomalies(report *response.AggregateReport, data dataset, states []response.RoomOccupancyState, opts Options) {
	window := opts.Window
	if window == "" {
		window = e.cfg.DuplicateWindow
	}

	report.Anomalies = response.Anomalies{
		Window:            string(window),
		OverCapacityRooms: anomaly.OverCapacityRooms(states),
		DuplicateBookings: []response.DuplicateBooking{},
		RevenueMismatch:   anomaly.RevenueMismatch(report.Monthly.MonthlyRevenue),
	}

	duplicates, err := e.detector.DetectDuplicateBookings(data.roster, window, opts.Now)
	if err != nil {
		report.Errors[anomaliesErrorKey] = err.Error()
		return
	}
	report.Anomalies.DuplicateBookings = duplicates
}
