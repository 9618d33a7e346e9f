package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"rusunawa-recon-svc/internal/engine"
	"rusunawa-recon-svc/internal/models/response"
	"rusunawa-recon-svc/internal/repository"
	"rusunawa-recon-svc/internal/temporal"
	"rusunawa-recon-svc/pkg/logger"
)

// ErrInvalidFilter marks a caller-supplied filter that cannot be served
var ErrInvalidFilter = errors.New("invalid report filter")

// ReportFilter holds the optional request parameters of a report
type ReportFilter struct {
	// Now overrides the reference time; nil means the service clock
	Now *time.Time
	// Tahun and Bulan select the revenue month
	Tahun  *int
	Bulan  *int
	Window string
}

// ReportService interface defines report service methods
type ReportService interface {
	GetAggregateReport(ctx context.Context, filter ReportFilter) (*response.AggregateReport, error)
	InvalidateSources(ctx context.Context) error
}

// invalidator is implemented by cached repositories
type invalidator interface {
	Invalidate(ctx context.Context) error
}

// reportService implements ReportService interface
type reportService struct {
	sourceRepo repository.SourceRepository
	engine     *engine.Engine
	logger     *logger.Logger
	now        func() time.Time
}

// NewReportService creates a new report service
func NewReportService(sourceRepo repository.SourceRepository, eng *engine.Engine, logger *logger.Logger) ReportService {
	return &reportService{
		sourceRepo: sourceRepo,
		engine:     eng,
		logger:     logger,
		now:        time.Now,
	}
}

// GetAggregateReport fetches every source concurrently and computes the report.
// A failed source never fails the call; it is recorded in the report's errors.
func (s *reportService) GetAggregateReport(ctx context.Context, filter ReportFilter) (*response.AggregateReport, error) {
	opts, err := s.options(filter)
	if err != nil {
		s.logger.WithError(err).Error("Invalid report filter")
		return nil, err
	}

	src := s.fetchSources(ctx)

	started := time.Now()
	report := s.engine.Compute(src, opts)

	logFields := map[string]interface{}{
		"generated_at":        report.GeneratedAt.Format(time.RFC3339),
		"rooms":               report.Overall.TotalRooms,
		"occupancy_rate":      report.Overall.OccupancyRate,
		"monthly_revenue":     report.Monthly.Revenue,
		"failed_sources":      len(report.Errors),
		"compute_duration_ms": time.Since(started).Milliseconds(),
	}
	if report.HasErrors() {
		s.logger.WithComponent("report_service").WithFields(logFields).WithField("errors", report.Errors).Warn("Aggregate report computed with failed sources")
	} else {
		s.logger.WithComponent("report_service").WithFields(logFields).Info("Aggregate report computed successfully")
	}

	return &report, nil
}

// InvalidateSources drops cached upstream collections when the repository caches them
func (s *reportService) InvalidateSources(ctx context.Context) error {
	inv, ok := s.sourceRepo.(invalidator)
	if !ok {
		return nil
	}
	if err := inv.Invalidate(ctx); err != nil {
		s.logger.WithError(err).Error("Failed to invalidate source cache")
		return err
	}
	s.logger.Info("Source cache invalidated successfully")
	return nil
}

func (s *reportService) options(filter ReportFilter) (engine.Options, error) {
	opts := engine.Options{Now: s.now()}
	if filter.Now != nil {
		opts.Now = *filter.Now
	}

	if filter.Bulan != nil && (*filter.Bulan < 1 || *filter.Bulan > 12) {
		return opts, fmt.Errorf("%w: bulan must be between 1-12", ErrInvalidFilter)
	}
	if filter.Tahun != nil && *filter.Tahun <= 0 {
		return opts, fmt.Errorf("%w: tahun must be positive", ErrInvalidFilter)
	}
	if filter.Tahun != nil {
		opts.Year = *filter.Tahun
		opts.Month = int(opts.Now.Month())
	}
	if filter.Bulan != nil {
		opts.Month = *filter.Bulan
		if opts.Year == 0 {
			opts.Year = opts.Now.Year()
		}
	}

	if filter.Window != "" {
		w, err := temporal.ParseWindow(filter.Window)
		if err != nil && s.engine.Config().Classifier.UnknownWindow == temporal.Reject {
			return opts, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		opts.Window = w
	}
	return opts, nil
}

// fetchSources issues every upstream fetch in parallel. Goroutines never
// return an error so one failure cannot cancel its siblings.
func (s *reportService) fetchSources(ctx context.Context) engine.Sources {
	var (
		g   errgroup.Group
		mu  sync.Mutex
		src engine.Sources
	)

	for _, source := range engine.AllSources {
		source := source
		g.Go(func() error {
			records, err := repository.Fetch(ctx, s.sourceRepo, source)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.WithError(err).WithField("source", source).Warn("Failed to fetch source collection")
				src.Fail(source, err)
				return nil
			}
			switch source {
			case engine.SourceTenants:
				src.Tenants = records
			case engine.SourceBookings:
				src.Bookings = records
			case engine.SourceRooms:
				src.Rooms = records
			case engine.SourcePayments:
				src.Payments = records
			case engine.SourceInvoices:
				src.Invoices = records
			}
			return nil
		})
	}
	_ = g.Wait()

	return src
}
