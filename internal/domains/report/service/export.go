package service

import (
	"context"
	"fmt"

	borrowModel "school-library-backend/internal/domains/borrow/model"
	"school-library-backend/internal/domains/report/model"

	"github.com/xuri/excelize/v2"
)

const excelTimeLayout = "2006-01-02 15:04"

// ExportOverdueExcel writes the current overdue list to a single sheet
func (s *Service) ExportOverdueExcel(ctx context.Context) (*excelize.File, error) {
	items, err := s.OverdueItems(ctx)
	if err != nil {
		return nil, err
	}

	headers := []string{"대여 ID", "학생", "도서", "반납 예정일", "연체 일수"}
	rows := make([][]interface{}, 0, len(items))
	for _, it := range items {
		rows = append(rows, []interface{}{
			it.ID, it.StudentName, it.BookTitle, it.DueDate.Format(excelTimeLayout), it.DaysOverdue,
		})
	}

	f, err := buildSheet("연체 목록", headers, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build overdue sheet: %w", err)
	}
	return f, nil
}

// ExportHistoryExcel writes every borrow record, newest borrow first
func (s *Service) ExportHistoryExcel(ctx context.Context) (*excelize.File, error) {
	loans, err := s.repo.History(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	headers := []string{"대여 ID", "학생", "도서", "대여일", "반납 예정일", "반납일", "상태"}
	rows := make([][]interface{}, 0, len(loans))
	for i := range loans {
		row := &loans[i]
		returned := ""
		if row.ReturnDate != nil {
			returned = row.ReturnDate.Format(excelTimeLayout)
		}
		rows = append(rows, []interface{}{
			row.ID,
			studentLabel(row),
			orPlaceholder(row.BookTitle),
			row.BorrowDate.Format(excelTimeLayout),
			row.DueDate.Format(excelTimeLayout),
			returned,
			statusLabel(toRecord(row).EffectiveStatus(now)),
		})
	}

	f, err := buildSheet("대여 기록", headers, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build history sheet: %w", err)
	}
	return f, nil
}

func statusLabel(s borrowModel.Status) string {
	switch s {
	case borrowModel.StatusBorrowed:
		return model.ActionLabel(model.ActionBorrow) + " 중"
	case borrowModel.StatusReturned:
		return "반납 완료"
	case borrowModel.StatusOverdue:
		return "연체"
	default:
		return string(s)
	}
}

// buildSheet: header in row 1 (bold), data from row 2
func buildSheet(sheetName string, headers []string, rows [][]interface{}) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheetName, "A1", lastCell, headerStyle)
	}

	for i, values := range rows {
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, i+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(sheetName, "A", lastCol, 20)
	return f, nil
}
