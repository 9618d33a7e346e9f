package handler

import (
	"github.com/gin-gonic/gin"

	"rusunawa-recon-svc/internal/service"
	"rusunawa-recon-svc/pkg/logger"
)

// SetupRoutes sets up all API routes
func SetupRoutes(
	router *gin.Engine,
	reportService service.ReportService,
	logger *logger.Logger,
) {
	dashboardHandler := NewDashboardHandler(reportService, logger)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", HealthCheck)

		// Dashboard routes
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/report", dashboardHandler.GetReport)
			dashboard.GET("/rooms", dashboardHandler.GetRooms)
			dashboard.GET("/periods", dashboardHandler.GetPeriods)
			dashboard.GET("/revenue", dashboardHandler.GetRevenue)
			dashboard.GET("/anomalies", dashboardHandler.GetAnomalies)
			dashboard.GET("/export", dashboardHandler.ExportReport)
			dashboard.POST("/cache/invalidate", dashboardHandler.InvalidateCache)
		}
	}
}

// HealthCheck handles GET /api/v1/health
func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"message": "Server is running",
		"service": "Rusunawa Reconciliation Service",
	})
}
