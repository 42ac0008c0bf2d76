package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"school-library-backend/internal/domains/book/model"
	"school-library-backend/internal/domains/book/repository"
	ledger "school-library-backend/internal/domains/ledger/service"
	"school-library-backend/internal/shared/apperr"
	"school-library-backend/internal/shared/utils"
	"school-library-backend/pkg/clock"
	"school-library-backend/pkg/database"
	"school-library-backend/pkg/logger"

	"github.com/jmoiron/sqlx"
	"github.com/xuri/excelize/v2"
)

// BookService - Implements ServiceInterface
type BookService struct {
	db     *sqlx.DB
	repo   repository.RepositoryInterface
	ledger ledger.ServiceInterface
	loans  LoanCounter
	clock  clock.Clock
}

// NewService - Constructor with DI
func NewService(
	db *sqlx.DB,
	repo repository.RepositoryInterface,
	ledger ledger.ServiceInterface,
	loans LoanCounter,
	clk clock.Clock,
) ServiceInterface {
	return &BookService{
		db:     db,
		repo:   repo,
		ledger: ledger,
		loans:  loans,
		clock:  clk,
	}
}

// CreateBook seeds available = quantity; afterwards only the ledger moves it
func (s *BookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err)
	}

	book := newBookFromRequest(req, s.clock.Now())
	if err := s.repo.Create(ctx, s.db, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	logger.Info("Book created", map[string]interface{}{
		"book_id":  book.ID,
		"title":    book.Title,
		"quantity": book.Quantity,
	})
	return book, nil
}

func newBookFromRequest(req model.CreateBookRequest, now time.Time) *model.Book {
	return &model.Book{
		ID:              utils.NewID(),
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Publisher:       req.Publisher,
		Category:        req.Category,
		PublicationYear: req.PublicationYear,
		Description:     req.Description,
		Quantity:        req.Quantity,
		Available:       req.Quantity,
		CreatedAt:       now.UTC().Truncate(time.Microsecond),
	}
}

func (s *BookService) GetBook(ctx context.Context, id string) (*model.Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BookService) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	return s.repo.List(ctx, filter)
}

// UpdateBook merges the request into the stored book.
// A quantity change is handed to the ledger in the same transaction, so a
// rejected resize leaves the descriptive fields untouched too.
func (s *BookService) UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (*model.Book, error) {
	return database.WithTransactionResult(ctx, s.db, func(tx *sqlx.Tx) (*model.Book, error) {
		// 1. Lock existing book
		existing, err := s.repo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return nil, err
		}

		// 2. Merge + validate
		req.Apply(existing)
		if req.Quantity != nil {
			existing.Quantity = *req.Quantity
		}
		if err := model.ValidateBook(existing); err != nil {
			return nil, apperr.Validation(err)
		}

		// 3. Descriptive fields
		if err := s.repo.UpdateDetails(ctx, tx, existing); err != nil {
			return nil, err
		}

		// 4. Counters through the ledger
		if req.Quantity != nil {
			counts, err := s.ledger.Resize(ctx, tx, id, *req.Quantity)
			if err != nil {
				return nil, err
			}
			existing.Quantity = counts.Quantity
			existing.Available = counts.Available
		}

		return existing, nil
	})
}

// DeleteBook removes a book with no open loans.
// Deleted=false means there was nothing to delete.
func (s *BookService) DeleteBook(ctx context.Context, id string) (*model.DeleteBookResponse, error) {
	deleted, err := database.WithTransactionResult(ctx, s.db, func(tx *sqlx.Tx) (bool, error) {
		if _, err := s.repo.GetByIDForUpdate(ctx, tx, id); err != nil {
			if errors.Is(err, model.ErrBookNotFound) {
				return false, nil
			}
			return false, err
		}

		active, err := s.loans.CountActiveByBook(ctx, tx, id)
		if err != nil {
			return false, fmt.Errorf("failed to check active loans: %w", err)
		}
		if active > 0 {
			return false, model.NewBookHasActiveLoansError(id, active)
		}

		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}

	if deleted {
		logger.Info("Book deleted", map[string]interface{}{"book_id": id})
	}
	return &model.DeleteBookResponse{ID: id, Deleted: deleted}, nil
}

func (s *BookService) GetAvailability(ctx context.Context, id string) (*model.AvailabilityResponse, error) {
	counts, err := s.ledger.Snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.AvailabilityResponse{
		BookID:    counts.BookID,
		Quantity:  counts.Quantity,
		Available: counts.Available,
		Borrowed:  counts.Borrowed(),
	}, nil
}

// ExportBooksToExcel builds the catalogue sheet
func (s *BookService) ExportBooksToExcel(ctx context.Context, filter model.BookFilter) (*excelize.File, error) {
	books, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	f, err := buildBooksExcelFile(books)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, nil
}

func buildBooksExcelFile(books []model.Book) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "도서 목록"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	// Row 1: Header
	headers := []string{
		"ID", "제목", "저자", "ISBN", "출판사", "분류",
		"출판연도", "보유", "대여 가능", "대여 중", "등록일",
	}
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(headers))
		f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle)
	}

	// Data rows from row 2
	for i, b := range books {
		rowNum := i + 2
		cell := func(col int) string {
			name, _ := excelize.CoordinatesToCellName(col, rowNum)
			return name
		}

		f.SetCellValue(sheetName, cell(1), b.ID)
		f.SetCellValue(sheetName, cell(2), b.Title)
		f.SetCellValue(sheetName, cell(3), b.Author)
		f.SetCellValue(sheetName, cell(4), derefString(b.ISBN))
		f.SetCellValue(sheetName, cell(5), derefString(b.Publisher))
		f.SetCellValue(sheetName, cell(6), model.CategoryLabel(b.Category))
		if b.PublicationYear != nil {
			f.SetCellValue(sheetName, cell(7), *b.PublicationYear)
		}
		f.SetCellValue(sheetName, cell(8), b.Quantity)
		f.SetCellValue(sheetName, cell(9), b.Available)
		f.SetCellValue(sheetName, cell(10), b.Borrowed())
		f.SetCellValue(sheetName, cell(11), b.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	_ = f.SetColWidth(sheetName, "A", "K", 18)
	return f, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
