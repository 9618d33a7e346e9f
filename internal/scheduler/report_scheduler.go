package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"rusunawa-recon-svc/internal/models/response"
	"rusunawa-recon-svc/internal/service"
	"rusunawa-recon-svc/pkg/logger"
)

// SnapshotCode identifies the report snapshot job in logs
const SnapshotCode = "REPORT_SNAPSHOT"

// Run statuses
const (
	StatusStart   = "START"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// RunRecord describes the latest snapshot run
type RunRecord struct {
	RunID      string    `json:"run_id"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	// Anomalies counts every anomaly the run logged
	Anomalies int `json:"anomalies"`
}

// ReportScheduler periodically refreshes the source cache and recomputes the report
type ReportScheduler struct {
	reportService  service.ReportService
	logger         *logger.Logger
	cron           *cron.Cron
	cronExpression string
	timeout        time.Duration

	mu      sync.RWMutex
	lastRun *RunRecord
}

// NewReportScheduler creates a new report scheduler
func NewReportScheduler(reportService service.ReportService, logger *logger.Logger, cronExpression string, timeout time.Duration) *ReportScheduler {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())
	if timeout <= 0 {
		timeout = time.Minute
	}

	return &ReportScheduler{
		reportService:  reportService,
		logger:         logger,
		cron:           c,
		cronExpression: cronExpression,
		timeout:        timeout,
	}
}

// Start schedules the snapshot job and starts the cron runner
func (s *ReportScheduler) Start() error {
	s.logger.Info("Starting report scheduler...")

	// Cron format: "seconds minutes hours day-of-month month day-of-week"
	s.logger.WithField("cron_expression", s.cronExpression).Info("Scheduling report snapshot job")
	_, err := s.cron.AddFunc(s.cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.RunSnapshot(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule report snapshot job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Report scheduler started successfully")

	return nil
}

// Stop gracefully stops the scheduler
func (s *ReportScheduler) Stop() {
	s.logger.Info("Stopping report scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Report scheduler stopped successfully")
}

// LastRun returns a copy of the latest run record, nil before the first run
func (s *ReportScheduler) LastRun() *RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastRun == nil {
		return nil
	}
	run := *s.lastRun
	return &run
}

// RunSnapshot drops cached sources, recomputes the report and logs every anomaly
func (s *ReportScheduler) RunSnapshot(ctx context.Context) {
	run := &RunRecord{RunID: uuid.New().String(), StartedAt: time.Now()}
	entry := s.logger.WithComponent("report_scheduler").WithFields(map[string]interface{}{
		"scheduler_code": SnapshotCode,
		"run_id":         run.RunID,
	})

	s.record(run, StatusStart, "Starting scheduled report snapshot")
	entry.WithField("status", StatusStart).Info("Starting scheduled report snapshot")

	// A failed invalidation only means the snapshot may reuse cached sources
	if err := s.reportService.InvalidateSources(ctx); err != nil {
		entry.WithError(err).Warn("Snapshot continues with possibly cached sources")
	}

	report, err := s.reportService.GetAggregateReport(ctx, service.ReportFilter{})
	if err != nil {
		s.record(run, StatusFailed, fmt.Sprintf("Failed to compute report: %v", err))
		entry.WithError(err).WithField("status", StatusFailed).Error("Failed to compute report snapshot")
		return
	}

	run.Anomalies = s.logAnomalies(entry, report)
	for key, msg := range report.Errors {
		entry.WithField("source_error", key).Warn(msg)
	}

	message := fmt.Sprintf("Report snapshot computed: %d rooms, occupancy %.1f%%, %d failed sources, %d anomalies",
		report.Overall.TotalRooms, report.Overall.OccupancyRate, len(report.Errors), run.Anomalies)
	s.record(run, StatusSuccess, message)
	entry.WithField("status", StatusSuccess).Info(message)
}

func (s *ReportScheduler) logAnomalies(entry *logrus.Entry, report *response.AggregateReport) int {
	count := 0
	for _, room := range report.Anomalies.OverCapacityRooms {
		entry.WithField("room_id", room.RoomID).Warn(room.Anomaly)
		count++
	}
	for _, dup := range report.Anomalies.DuplicateBookings {
		entry.WithFields(map[string]interface{}{
			"tenant_id":   dup.TenantID,
			"booking_ids": dup.BookingIDs,
			"window":      report.Anomalies.Window,
		}).Warnf("Tenant holds %d concurrent bookings", dup.Count)
		count++
	}
	if mm := report.Anomalies.RevenueMismatch; mm != nil {
		entry.WithFields(map[string]interface{}{
			"year":            mm.Year,
			"month":           mm.Month,
			"payment_revenue": mm.PaymentRevenue,
			"invoice_revenue": mm.InvoiceRevenue,
			"resolved":        mm.Resolved,
		}).Warn("Payment and invoice revenue disagree")
		count++
	}
	return count
}

func (s *ReportScheduler) record(run *RunRecord, status, message string) {
	run.Status = status
	run.Message = message
	if status != StatusStart {
		run.FinishedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *run
	s.lastRun = &copied
}
