package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"school-library-backend/internal/domains/borrow/model"
	"school-library-backend/internal/domains/borrow/service"
	"school-library-backend/internal/shared/response"
	"school-library-backend/pkg/clock"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service    service.ServiceInterface
	clock      clock.Clock
	loanPeriod time.Duration
}

func NewHandler(service service.ServiceInterface, clk clock.Clock, loanPeriod time.Duration) *Handler {
	if loanPeriod <= 0 {
		loanPeriod = model.DefaultLoanPeriod
	}
	return &Handler{service: service, clock: clk, loanPeriod: loanPeriod}
}

// ListRecords - GET /api/borrow-records?studentId=&bookId=&active=true
// Filters combine with AND.
func (h *Handler) ListRecords(c *gin.Context) {
	filter := model.RecordFilter{
		StudentID: c.Query("studentId"),
		BookID:    c.Query("bookId"),
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			response.BadRequest(c, "active must be true or false")
			return
		}
		filter.ActiveOnly = active
	}

	records, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.ToResponses(records, h.clock.Now()))
}

// GetRecord - GET /api/borrow-records/:id
func (h *Handler) GetRecord(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.ToResponse(record, h.clock.Now()))
}

// Borrow - POST /api/borrow-records
// dueDate defaults to now + loan period.
func (h *Handler) Borrow(c *gin.Context) {
	var req model.CreateBorrowRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, fmt.Sprintf("Invalid request data: %v", err))
		return
	}

	record, err := h.service.Borrow(c.Request.Context(), req.ToBorrowRequest(h.clock.Now(), h.loanPeriod))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, model.ToResponse(record, h.clock.Now()))
}

// Return - POST /api/borrow-records/:id/return
func (h *Handler) Return(c *gin.Context) {
	record, err := h.service.Return(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.ToResponse(record, h.clock.Now()))
}
