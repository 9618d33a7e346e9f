package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rusunawa-recon-svc/internal/models/response"
	"rusunawa-recon-svc/internal/service"
	"rusunawa-recon-svc/pkg/logger"
)

type stubReportService struct {
	report      response.AggregateReport
	err         error
	invalidated int
	calls       int
}

func (s *stubReportService) GetAggregateReport(context.Context, service.ReportFilter) (*response.AggregateReport, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	r := s.report
	return &r, nil
}

func (s *stubReportService) InvalidateSources(context.Context) error {
	s.invalidated++
	return nil
}

func newTestScheduler(svc service.ReportService) (*ReportScheduler, *test.Hook) {
	log := logger.NewLogger("debug", "text")
	log.SetOutput(io.Discard)
	hook := test.NewLocal(log.Logger)
	return NewReportScheduler(svc, log, "0 */15 * * * *", time.Second), hook
}

func TestRunSnapshotLogsAnomalies(t *testing.T) {
	report := response.AggregateReport{Errors: map[string]string{"invoicesError": "timeout"}}
	report.Overall.TotalRooms = 3
	report.Anomalies = response.Anomalies{
		Window:            "current",
		OverCapacityRooms: []response.RoomOccupancyState{{RoomID: "2", Anomaly: "Over-capacity: 3 > 2"}},
		DuplicateBookings: []response.DuplicateBooking{{TenantID: "4", Count: 2}},
		RevenueMismatch:   &response.RevenueMismatch{Year: 2025, Month: 3, Resolved: "invoices"},
	}
	svc := &stubReportService{report: report}
	s, hook := newTestScheduler(svc)

	s.RunSnapshot(context.Background())

	assert.Equal(t, 1, svc.invalidated)
	assert.Equal(t, 1, svc.calls)

	run := s.LastRun()
	require.NotNil(t, run)
	assert.Equal(t, StatusSuccess, run.Status)
	assert.Equal(t, 3, run.Anomalies)
	assert.NotEmpty(t, run.RunID)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
			assert.Equal(t, run.RunID, e.Data["run_id"])
			assert.Equal(t, "report_scheduler", e.Data["component"])
		}
	}
	assert.Equal(t, 4, warnings)
	assert.Equal(t, "Over-capacity: 3 > 2", hook.AllEntries()[1].Message)
}

func TestRunSnapshotRecordsFailure(t *testing.T) {
	svc := &stubReportService{err: errors.New("invalid report filter")}
	s, hook := newTestScheduler(svc)

	assert.Nil(t, s.LastRun())
	s.RunSnapshot(context.Background())

	run := s.LastRun()
	require.NotNil(t, run)
	assert.Equal(t, StatusFailed, run.Status)
	assert.Contains(t, run.Message, "invalid report filter")
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestStartRejectsInvalidExpression(t *testing.T) {
	log := logger.NewLogger("error", "text")
	log.SetOutput(io.Discard)
	s := NewReportScheduler(&stubReportService{}, log, "every day", time.Second)
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	s, _ := newTestScheduler(&stubReportService{})
	require.NoError(t, s.Start())
	s.Stop()
}
