package service

import (
	"context"
	"io"

	"school-library-backend/internal/domains/book/model"

	"github.com/jmoiron/sqlx"
	"github.com/xuri/excelize/v2"
)

// ServiceInterface - book catalogue operations
type ServiceInterface interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)
	GetBook(ctx context.Context, id string) (*model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, id string) (*model.DeleteBookResponse, error)
	GetAvailability(ctx context.Context, id string) (*model.AvailabilityResponse, error)
	ExportBooksToExcel(ctx context.Context, filter model.BookFilter) (*excelize.File, error)
}

// BulkImportServiceInterface - CSV/XLSX catalogue import
type BulkImportServiceInterface interface {
	ParseCSV(r io.Reader) ([]model.ImportBookRow, error)
	ParseXLSX(r io.Reader) ([]model.ImportBookRow, error)
	// ImportBooks is all-or-nothing: any invalid row aborts the whole import
	ImportBooks(ctx context.Context, rows []model.ImportBookRow) (*model.BulkImportResult, error)
}

// LoanCounter reports open loans for a book; implemented by the borrow record store
type LoanCounter interface {
	CountActiveByBook(ctx context.Context, q sqlx.QueryerContext, bookID string) (int, error)
}
