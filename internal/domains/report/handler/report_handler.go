package handler

import (
	"net/http"
	"strconv"

	"school-library-backend/internal/domains/report/service"
	"school-library-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// GetStats - GET /api/stats
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// GetRecentActivities - GET /api/recent-activities?limit=
// A missing or bad limit falls back to the default; large ones are capped.
func (h *Handler) GetRecentActivities(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	activities, err := h.service.RecentActivities(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, activities)
}

// GetOverdueItems - GET /api/overdue-items
func (h *Handler) GetOverdueItems(c *gin.Context) {
	items, err := h.service.OverdueItems(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// ExportOverdue - GET /api/reports/overdue.xlsx
func (h *Handler) ExportOverdue(c *gin.Context) {
	f, err := h.service.ExportOverdueExcel(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Excel(c, f, "overdue.xlsx")
}

// ExportHistory - GET /api/reports/history.xlsx
func (h *Handler) ExportHistory(c *gin.Context) {
	f, err := h.service.ExportHistoryExcel(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Excel(c, f, "history.xlsx")
}
