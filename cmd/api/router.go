package main

import (
	"context"
	"net/http"
	"time"

	"school-library-backend/internal/shared/middleware"
	"school-library-backend/pkg/container"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", healthCheckHandler(c))
		api.POST("/auth/login", c.AuthHandler.Login)

		protected := api.Group("")
		if c.Config.Auth.Enabled {
			protected.Use(middleware.AuthMiddleware(c.JWTManager))
		}

		setupReportRoutes(protected, c)
		setupBookRoutes(protected, c)
		setupStudentRoutes(protected, c)
		setupBorrowRoutes(protected, c)
		setupLedgerRoutes(protected, c)
	}

	return router
}

// ========================================
// DASHBOARD / REPORT ROUTES
// ========================================
func setupReportRoutes(api *gin.RouterGroup, c *container.Container) {
	api.GET("/stats", c.ReportHandler.GetStats)
	api.GET("/recent-activities", c.ReportHandler.GetRecentActivities)
	api.GET("/overdue-items", c.ReportHandler.GetOverdueItems)

	reports := api.Group("/reports")
	{
		reports.GET("/overdue.xlsx", c.ReportHandler.ExportOverdue)
		reports.GET("/history.xlsx", c.ReportHandler.ExportHistory)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(api *gin.RouterGroup, c *container.Container) {
	books := api.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.POST("", c.BookHandler.CreateBook)
		books.GET("/export.xlsx", c.BookHandler.ExportBooks)
		books.POST("/import", c.BookHandler.ImportBooks)
		books.GET("/:id", c.BookHandler.GetBook)
		books.PUT("/:id", c.BookHandler.UpdateBook)
		books.PATCH("/:id", c.BookHandler.UpdateBook)
		books.DELETE("/:id", c.BookHandler.DeleteBook)
		books.GET("/:id/availability", c.BookHandler.GetAvailability)
	}
}

// ========================================
// STUDENT ROUTES
// ========================================
func setupStudentRoutes(api *gin.RouterGroup, c *container.Container) {
	students := api.Group("/students")
	{
		students.GET("", c.StudentHandler.ListStudents)
		students.POST("", c.StudentHandler.CreateStudent)
		students.GET("/:id", c.StudentHandler.GetStudent)
		students.PUT("/:id", c.StudentHandler.UpdateStudent)
		students.PATCH("/:id", c.StudentHandler.UpdateStudent)
		students.DELETE("/:id", c.StudentHandler.DeleteStudent)
		students.GET("/:id/borrow-count", c.StudentHandler.GetBorrowCount)
	}
}

// ========================================
// BORROW RECORD ROUTES
// ========================================
func setupBorrowRoutes(api *gin.RouterGroup, c *container.Container) {
	records := api.Group("/borrow-records")
	{
		records.GET("", c.BorrowHandler.ListRecords)
		records.POST("", c.BorrowHandler.Borrow)
		records.GET("/:id", c.BorrowHandler.GetRecord)
		records.POST("/:id/return", c.BorrowHandler.Return)
	}
}

// ========================================
// LEDGER ROUTES
// ========================================
func setupLedgerRoutes(api *gin.RouterGroup, c *container.Container) {
	api.GET("/ledger/audit", c.LedgerHandler.Audit)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": appCtx.Clock.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := gin.H{"driver": appCtx.DB.Driver, "status": "ok"}
		statusCode := http.StatusOK
		if err := appCtx.DB.Ping(ctx); err != nil {
			dbStatus["status"] = "error"
			dbStatus["error"] = err.Error()
			health["status"] = "degraded"
			statusCode = http.StatusServiceUnavailable
		} else if stats, err := appCtx.DB.Stats(); err == nil {
			dbStatus["open_connections"] = stats.OpenConns
			dbStatus["in_use"] = stats.InUse
			dbStatus["idle"] = stats.Idle
		}
		health["database"] = dbStatus

		c.JSON(statusCode, health)
	}
}
