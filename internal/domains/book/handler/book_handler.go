package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"school-library-backend/internal/domains/book/model"
	service "school-library-backend/internal/domains/book/service"
	"school-library-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Handler - HTTP Handler (single file)
type Handler struct {
	service service.ServiceInterface
	importS service.BulkImportServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface, importService service.BulkImportServiceInterface) *Handler {
	return &Handler{
		service: service,
		importS: importService,
	}
}

// ListBooks - GET /api/books?search=
func (h *Handler) ListBooks(c *gin.Context) {
	books, err := h.service.ListBooks(c.Request.Context(), model.BookFilter{Search: c.Query("search")})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, books)
}

// GetBook - GET /api/books/:id
func (h *Handler) GetBook(c *gin.Context) {
	book, err := h.service.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, book)
}

// CreateBook - POST /api/books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest

	// 1. Bind (field validation happens in the service)
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, fmt.Sprintf("Invalid request data: %v", err))
		return
	}

	// 2. Create
	book, err := h.service.CreateBook(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, book)
}

// UpdateBook - PUT/PATCH /api/books/:id
// Both verbs merge; absent fields keep their value.
func (h *Handler) UpdateBook(c *gin.Context) {
	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, fmt.Sprintf("Invalid request data: %v", err))
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, book)
}

// DeleteBook - DELETE /api/books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id := c.Param("id")

	result, err := h.service.DeleteBook(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !result.Deleted {
		response.FromError(c, model.NewBookNotFoundError(id))
		return
	}
	c.Status(http.StatusNoContent)
}

// GetAvailability - GET /api/books/:id/availability
func (h *Handler) GetAvailability(c *gin.Context) {
	availability, err := h.service.GetAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, availability)
}

// ExportBooks - GET /api/books/export.xlsx?search=
func (h *Handler) ExportBooks(c *gin.Context) {
	f, err := h.service.ExportBooksToExcel(c.Request.Context(), model.BookFilter{Search: c.Query("search")})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Excel(c, f, "books.xlsx")
}

// ImportBooks - POST /api/books/import (multipart field "file", .csv or .xlsx)
func (h *Handler) ImportBooks(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "cannot open uploaded file")
		return
	}
	defer src.Close()

	var rows []model.ImportBookRow
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".csv":
		rows, err = h.importS.ParseCSV(src)
	case ".xlsx":
		rows, err = h.importS.ParseXLSX(src)
	default:
		response.BadRequest(c, "only .csv and .xlsx files are supported")
		return
	}
	if err != nil {
		response.FromError(c, err)
		return
	}

	result, err := h.importS.ImportBooks(c.Request.Context(), rows)
	if err != nil {
		response.FromError(c, err)
		return
	}

	status := http.StatusCreated
	if !result.Success {
		status = http.StatusBadRequest
	}
	response.Success(c, status, result)
}
