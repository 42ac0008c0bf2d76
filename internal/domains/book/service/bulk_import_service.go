package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"school-library-backend/internal/domains/book/model"
	"school-library-backend/internal/domains/book/repository"
	"school-library-backend/internal/shared/apperr"
	"school-library-backend/pkg/clock"
	"school-library-backend/pkg/database"
	"school-library-backend/pkg/logger"

	"github.com/jmoiron/sqlx"
	"github.com/xuri/excelize/v2"
)

// MaxImportRows caps a single import file
const MaxImportRows = 1000

type bulkImportService struct {
	db    *sqlx.DB
	repo  repository.RepositoryInterface
	clock clock.Clock
}

// NewBulkImportService creates a new bulk import service
func NewBulkImportService(db *sqlx.DB, repo repository.RepositoryInterface, clk clock.Clock) BulkImportServiceInterface {
	return &bulkImportService{db: db, repo: repo, clock: clk}
}

// ImportBooks validates every row first and only then creates them, in one transaction
func (s *bulkImportService) ImportBooks(ctx context.Context, rows []model.ImportBookRow) (*model.BulkImportResult, error) {
	totalRows := len(rows)
	logger.Info("Starting bulk import books", map[string]interface{}{"total_rows": totalRows})

	if totalRows == 0 {
		return nil, apperr.Validationf("import file has no data rows")
	}
	if totalRows > MaxImportRows {
		return &model.BulkImportResult{
			Success:   false,
			TotalRows: totalRows,
			Errors: []model.ImportValidationError{
				{Row: 0, Field: "file", Error: fmt.Sprintf("file exceeds %d rows limit", MaxImportRows)},
			},
		}, nil
	}

	// PHASE 1: validate all rows, insert nothing
	requests, validationErrors := s.validateAllRows(rows)
	if len(validationErrors) > 0 {
		logger.Warn("Bulk import validation failed", map[string]interface{}{
			"error_count": len(validationErrors),
		})
		return &model.BulkImportResult{
			Success:    false,
			TotalRows:  totalRows,
			FailedRows: countFailedRows(validationErrors),
			Errors:     validationErrors,
		}, nil
	}

	// PHASE 2: create in one transaction
	now := s.clock.Now()
	created, err := database.WithTransactionResult(ctx, s.db, func(tx *sqlx.Tx) ([]string, error) {
		ids := make([]string, 0, len(requests))
		for _, req := range requests {
			book := newBookFromRequest(req, now)
			if err := s.repo.Create(ctx, tx, book); err != nil {
				return nil, err
			}
			ids = append(ids, book.ID)
		}
		return ids, nil
	})
	if err != nil {
		return nil, fmt.Errorf("bulk import transaction: %w", err)
	}

	logger.Info("Bulk import completed successfully", map[string]interface{}{"success_count": len(created)})
	return &model.BulkImportResult{
		Success:      true,
		TotalRows:    totalRows,
		SuccessRows:  len(created),
		CreatedBooks: created,
	}, nil
}

// ParseCSV reads a header row followed by data rows
func (s *bulkImportService) ParseCSV(r io.Reader) ([]model.ImportBookRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperr.Validationf("failed to read CSV: %v", err)
	}
	return parseRecords(records)
}

// ParseXLSX reads the first sheet of a workbook with the same layout as the CSV
func (s *bulkImportService) ParseXLSX(r io.Reader) ([]model.ImportBookRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Validationf("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.Validationf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperr.Validationf("failed to read sheet %q: %v", sheets[0], err)
	}
	return parseRecords(records)
}

func parseRecords(records [][]string) ([]model.ImportBookRow, error) {
	if len(records) < 2 {
		return nil, apperr.Validationf("import file is empty (no data rows)")
	}

	colIndexMap := buildColumnIndexMap(records[0])
	for _, required := range []string{"title", "author", "category", "quantity"} {
		if _, ok := colIndexMap[required]; !ok {
			return nil, apperr.Validationf("missing column %q", required)
		}
	}

	rows := make([]model.ImportBookRow, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		// Row number starts from 2 (1 is the header)
		rows = append(rows, parseRow(record, colIndexMap, i+2))
	}
	return rows, nil
}

// buildColumnIndexMap maps lower-cased column name to index
func buildColumnIndexMap(header []string) map[string]int {
	colMap := make(map[string]int)
	for i, colName := range header {
		colMap[strings.TrimSpace(strings.ToLower(colName))] = i
	}
	return colMap
}

// parseRow keeps unparseable numbers as zero; validateRow reports them
func parseRow(record []string, colMap map[string]int, rowNum int) model.ImportBookRow {
	row := model.ImportBookRow{Row: rowNum}

	getCol := func(name string) string {
		if idx, ok := colMap[name]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	row.Title = getCol("title")
	row.Author = getCol("author")
	row.Category = getCol("category")

	if v, err := strconv.Atoi(getCol("quantity")); err == nil {
		row.Quantity = v
	}
	if val := getCol("publication_year"); val != "" {
		if year, err := strconv.Atoi(val); err == nil {
			row.PublicationYear = &year
		}
	}

	if val := getCol("isbn"); val != "" {
		row.ISBN = &val
	}
	if val := getCol("publisher"); val != "" {
		row.Publisher = &val
	}
	if val := getCol("description"); val != "" {
		row.Description = &val
	}
	return row
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// validateAllRows returns the create requests, or every error found
func (s *bulkImportService) validateAllRows(rows []model.ImportBookRow) ([]model.CreateBookRequest, []model.ImportValidationError) {
	var errs []model.ImportValidationError
	requests := make([]model.CreateBookRequest, 0, len(rows))

	// ISBN -> first row
	isbnMap := make(map[string]int)

	for _, row := range rows {
		req, rowErrors := validateRow(row)
		errs = append(errs, rowErrors...)
		if len(rowErrors) == 0 {
			requests = append(requests, req)
		}

		if row.ISBN != nil {
			if firstRow, exists := isbnMap[*row.ISBN]; exists {
				errs = append(errs, model.ImportValidationError{
					Row:   row.Row,
					Field: "isbn",
					Value: *row.ISBN,
					Error: fmt.Sprintf("duplicate ISBN (also at row %d)", firstRow),
				})
			} else {
				isbnMap[*row.ISBN] = row.Row
			}
		}
	}
	return requests, errs
}

func validateRow(row model.ImportBookRow) (model.CreateBookRequest, []model.ImportValidationError) {
	var errs []model.ImportValidationError
	fail := func(field, value, msg string) {
		errs = append(errs, model.ImportValidationError{Row: row.Row, Field: field, Value: value, Error: msg})
	}

	if row.Title == "" {
		fail("title", "", "required field")
	}
	if row.Author == "" {
		fail("author", "", "required field")
	}

	category, ok := model.ParseCategory(row.Category)
	if !ok {
		fail("category", row.Category, "unknown category")
	}
	if row.Quantity < 1 {
		fail("quantity", strconv.Itoa(row.Quantity), "must be a whole number of at least 1")
	}

	req := model.CreateBookRequest{
		Title:           row.Title,
		Author:          row.Author,
		ISBN:            row.ISBN,
		Publisher:       row.Publisher,
		Category:        category,
		PublicationYear: row.PublicationYear,
		Quantity:        row.Quantity,
		Description:     row.Description,
	}
	if len(errs) == 0 {
		req.Normalize()
		if err := req.Validate(); err != nil {
			fail("row", "", err.Error())
		}
	}
	return req, errs
}

func countFailedRows(errs []model.ImportValidationError) int {
	seen := make(map[int]struct{})
	for _, e := range errs {
		seen[e.Row] = struct{}{}
	}
	return len(seen)
}
