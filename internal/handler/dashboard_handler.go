package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rusunawa-recon-svc/internal/export"
	"rusunawa-recon-svc/internal/models/response"
	"rusunawa-recon-svc/internal/service"
	"rusunawa-recon-svc/pkg/logger"
	"rusunawa-recon-svc/pkg/utils"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	reportService service.ReportService
	logger        *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(reportService service.ReportService, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// RoomsResponse is the payload of GET /dashboard/rooms
type RoomsResponse struct {
	Summary response.OccupancySummary     `json:"summary"`
	Rooms   []response.RoomOccupancyState `json:"rooms"`
	Errors  map[string]string             `json:"errors"`
}

// PeriodsResponse is the payload of GET /dashboard/periods
type PeriodsResponse struct {
	Periods []response.PeriodStats `json:"periods"`
	Errors  map[string]string      `json:"errors"`
}

// RevenueResponse is the payload of GET /dashboard/revenue
type RevenueResponse struct {
	Monthly         response.MonthlyMetrics `json:"monthly"`
	Daily           response.DailyMetrics   `json:"daily"`
	RevenueByMethod map[string]float64      `json:"revenue_by_method"`
	PaymentMethods  []export.ChartPoint     `json:"payment_methods"`
	Trends          response.TrendDeltas    `json:"trends"`
	Errors          map[string]string       `json:"errors"`
}

// AnomaliesResponse is the payload of GET /dashboard/anomalies
type AnomaliesResponse struct {
	Anomalies response.Anomalies `json:"anomalies"`
	Errors    map[string]string  `json:"errors"`
}

// GetReport handles GET /api/v1/dashboard/report
// @Summary Get aggregate report
// @Description Reconciled occupancy, revenue, distributions and anomalies. Failed upstream sources are listed in errors; the report is still returned.
// @Tags dashboard
// @Produce json
// @Param now query string false "Reference time (RFC3339 or YYYY-MM-DD), defaults to server time"
// @Param tahun query int false "Revenue year"
// @Param bulan query int false "Revenue month (1-12)"
// @Param window query string false "Duplicate booking window: current, this_year, last_6_months, future, all"
// @Success 200 {object} utils.APIResponse{data=response.AggregateReport}
// @Failure 400 {object} utils.APIResponse "Bad request - invalid parameter"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/dashboard/report [get]
func (h *DashboardHandler) GetReport(c *gin.Context) {
	report, ok := h.loadReport(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, "Aggregate report retrieved successfully", report)
}

// GetRooms handles GET /api/v1/dashboard/rooms
// @Summary Get room occupancy
// @Tags dashboard
// @Produce json
// @Param now query string false "Reference time (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} utils.APIResponse{data=RoomsResponse}
// @Failure 400 {object} utils.APIResponse "Bad request - invalid parameter"
// @Router /api/v1/dashboard/rooms [get]
func (h *DashboardHandler) GetRooms(c *gin.Context) {
	report, ok := h.loadReport(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, "Room occupancy retrieved successfully", RoomsResponse{
		Summary: report.Overall.OccupancySummary,
		Rooms:   report.Rooms,
		Errors:  report.Errors,
	})
}

// GetPeriods handles GET /api/v1/dashboard/periods
// @Summary Get occupancy per temporal window
// @Tags dashboard
// @Produce json
// @Param now query string false "Reference time (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} utils.APIResponse{data=PeriodsResponse}
// @Router /api/v1/dashboard/periods [get]
func (h *DashboardHandler) GetPeriods(c *gin.Context) {
	report, ok := h.loadReport(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, "Period statistics retrieved successfully", PeriodsResponse{
		Periods: report.Periods,
		Errors:  report.Errors,
	})
}

// GetRevenue handles GET /api/v1/dashboard/revenue
// @Summary Get reconciled monthly revenue
// @Tags dashboard
// @Produce json
// @Param tahun query int false "Revenue year"
// @Param bulan query int false "Revenue month (1-12)"
// @Success 200 {object} utils.APIResponse{data=RevenueResponse}
// @Failure 400 {object} utils.APIResponse "Bad request - invalid parameter"
// @Router /api/v1/dashboard/revenue [get]
func (h *DashboardHandler) GetRevenue(c *gin.Context) {
	report, ok := h.loadReport(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, "Revenue retrieved successfully", RevenueResponse{
		Monthly:         report.Monthly,
		Daily:           report.Daily,
		RevenueByMethod: report.RevenueByMethod,
		PaymentMethods:  export.ChartSeries(report.Distributions.PaymentMethod),
		Trends:          report.Trends,
		Errors:          report.Errors,
	})
}

// GetAnomalies handles GET /api/v1/dashboard/anomalies
// @Summary Get reconciliation anomalies
// @Tags dashboard
// @Produce json
// @Param window query string false "Duplicate booking window"
// @Success 200 {object} utils.APIResponse{data=AnomaliesResponse}
// @Failure 400 {object} utils.APIResponse "Bad request - invalid parameter"
// @Router /api/v1/dashboard/anomalies [get]
func (h *DashboardHandler) GetAnomalies(c *gin.Context) {
	report, ok := h.loadReport(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, "Anomalies retrieved successfully", AnomaliesResponse{
		Anomalies: report.Anomalies,
		Errors:    report.Errors,
	})
}

// ExportReport handles GET /api/v1/dashboard/export
// @Summary Download the aggregate report
// @Tags dashboard
// @Produce octet-stream
// @Param format query string false "csv (default), html or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} utils.APIResponse "Bad request - unsupported format"
// @Router /api/v1/dashboard/export [get]
func (h *DashboardHandler) ExportReport(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "html" && format != "xlsx" {
		utils.BadRequestResponse(c, "Unsupported export format", fmt.Errorf("format must be csv, html or xlsx, got %q", format))
		return
	}

	report, ok := h.loadReport(c)
	if !ok {
		return
	}

	stamp := report.GeneratedAt.Format("20060102_150405")
	var (
		buf         bytes.Buffer
		data        []byte
		filename    string
		contentType string
		err         error
	)
	switch format {
	case "csv":
		err = export.WriteCSV(&buf, *report)
		data, filename, contentType = buf.Bytes(), "rusunawa_report_"+stamp+".csv", "text/csv; charset=utf-8"
	case "html":
		err = export.RenderHTML(&buf, *report)
		data, filename, contentType = buf.Bytes(), "rusunawa_report_"+stamp+".html", "text/html; charset=utf-8"
	case "xlsx":
		data, filename, err = export.WriteXLSX(*report)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		h.logger.WithError(err).WithField("format", format).Error("Failed to export report")
		utils.InternalServerErrorResponse(c, "Failed to export report", err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"format": format,
		"bytes":  len(data),
	}).Info("Report exported successfully")

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// InvalidateCache handles POST /api/v1/dashboard/cache/invalidate
// @Summary Drop cached upstream collections
// @Tags dashboard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/dashboard/cache/invalidate [post]
func (h *DashboardHandler) InvalidateCache(c *gin.Context) {
	if err := h.reportService.InvalidateSources(c.Request.Context()); err != nil {
		utils.InternalServerErrorResponse(c, "Failed to invalidate cache", err)
		return
	}
	utils.SuccessResponse(c, "Cache invalidated successfully", nil)
}

// loadReport parses the shared query parameters and computes the report.
// It writes the error response itself and reports false on failure.
func (h *DashboardHandler) loadReport(c *gin.Context) (*response.AggregateReport, bool) {
	filter, err := parseReportFilter(c)
	if err != nil {
		h.logger.WithError(err).Error("Invalid report query parameter")
		utils.BadRequestResponse(c, "Invalid query parameter", err)
		return nil, false
	}

	report, err := h.reportService.GetAggregateReport(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilter) {
			utils.BadRequestResponse(c, "Invalid query parameter", err)
			return nil, false
		}
		h.logger.WithError(err).Error("Failed to compute aggregate report")
		utils.InternalServerErrorResponse(c, "Failed to compute aggregate report", err)
		return nil, false
	}
	return report, true
}

func parseReportFilter(c *gin.Context) (service.ReportFilter, error) {
	var filter service.ReportFilter
	var err error

	if filter.Now, err = utils.GetOptionalTimeQuery(c, "now"); err != nil {
		return filter, err
	}
	if filter.Tahun, err = utils.GetOptionalIntQuery(c, "tahun"); err != nil {
		return filter, err
	}
	if filter.Bulan, err = utils.GetOptionalIntQuery(c, "bulan"); err != nil {
		return filter, err
	}
	filter.Window = c.Query("window")
	return filter, nil
}
