package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	borrowModel "school-library-backend/internal/domains/borrow/model"
	"school-library-backend/internal/domains/report/model"
	"school-library-backend/internal/domains/report/repository"
	studentModel "school-library-backend/internal/domains/student/model"
	"school-library-backend/pkg/clock"

	"github.com/xuri/excelize/v2"
)

// ServiceInterface - read-side aggregation. Nothing here writes.
type ServiceInterface interface {
	Stats(ctx context.Context) (*model.Stats, error)
	RecentActivities(ctx context.Context, limit int) ([]model.Activity, error)
	OverdueItems(ctx context.Context) ([]model.OverdueItem, error)
	ExportOverdueExcel(ctx context.Context) (*excelize.File, error)
	ExportHistoryExcel(ctx context.Context) (*excelize.File, error)
}

type Service struct {
	repo  repository.RepositoryInterface
	clock clock.Clock

	defaultLimit int
	maxLimit     int
}

func NewService(repo repository.RepositoryInterface, clk clock.Clock, defaultLimit, maxLimit int) ServiceInterface {
	if defaultLimit <= 0 {
		defaultLimit = model.DefaultActivitiesLimit
	}
	if maxLimit <= 0 {
		maxLimit = model.MaxActivitiesLimit
	}
	return &Service{repo: repo, clock: clk, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

func (s *Service) Stats(ctx context.Context) (*model.Stats, error) {
	now := s.clock.Now()

	total, err := s.repo.CountBooks(ctx)
	if err != nil {
		return nil, err
	}
	borrowed, err := s.repo.CountActiveLoans(ctx)
	if err != nil {
		return nil, err
	}
	overdue, err := s.repo.CountOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	return &model.Stats{TotalBooks: total, BorrowedBooks: borrowed, OverdueBooks: overdue}, nil
}

// RecentActivities merges borrow and return events, newest first.
// The newest N events are always among the newest N borrows plus the newest N returns.
func (s *Service) RecentActivities(ctx context.Context, limit int) ([]model.Activity, error) {
	limit = s.clampLimit(limit)

	borrows, err := s.repo.RecentBorrows(ctx, limit)
	if err != nil {
		return nil, err
	}
	returns, err := s.repo.RecentReturns(ctx, limit)
	if err != nil {
		return nil, err
	}

	activities := make([]model.Activity, 0, len(borrows)+len(returns))
	for i := range borrows {
		activities = append(activities, newActivity(&borrows[i], model.ActionBorrow, borrows[i].BorrowDate))
	}
	for i := range returns {
		activities = append(activities, newActivity(&returns[i], model.ActionReturn, *returns[i].ReturnDate))
	}

	sort.SliceStable(activities, func(i, j int) bool {
		a, b := activities[i], activities[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.ID < b.ID
	})

	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func newActivity(row *model.LoanRow, action model.Action, at time.Time) model.Activity {
	return model.Activity{
		ID:          fmt.Sprintf("%s-%s", row.ID, action),
		RecordID:    row.ID,
		Action:      action,
		ActionLabel: model.ActionLabel(action),
		StudentName: orPlaceholder(row.StudentName),
		BookTitle:   orPlaceholder(row.BookTitle),
		Timestamp:   at,
	}
}

// OverdueItems lists open loans past due, earliest due date first
func (s *Service) OverdueItems(ctx context.Context) ([]model.OverdueItem, error) {
	now := s.clock.Now()

	rows, err := s.repo.Overdue(ctx, now)
	if err != nil {
		return nil, err
	}

	items := make([]model.OverdueItem, 0, len(rows))
	for i := range rows {
		items = append(items, newOverdueItem(&rows[i], now))
	}
	return items, nil
}

func newOverdueItem(row *model.LoanRow, now time.Time) model.OverdueItem {
	record := toRecord(row)
	return model.OverdueItem{
		ID:          row.ID,
		StudentID:   row.StudentID,
		BookID:      row.BookID,
		StudentName: studentLabel(row),
		BookTitle:   orPlaceholder(row.BookTitle),
		DueDate:     row.DueDate,
		DaysOverdue: record.DaysOverdue(now),
	}
}

func toRecord(row *model.LoanRow) *borrowModel.BorrowRecord {
	return &borrowModel.BorrowRecord{
		ID:         row.ID,
		StudentID:  row.StudentID,
		BookID:     row.BookID,
		BorrowDate: row.BorrowDate,
		DueDate:    row.DueDate,
		ReturnDate: row.ReturnDate,
		Status:     borrowModel.Status(row.Status),
	}
}

func studentLabel(row *model.LoanRow) string {
	if row.StudentName == nil || row.StudentGrade == nil || row.StudentClass == nil {
		return model.Placeholder
	}
	return studentModel.DisplayLabel(&studentModel.Student{
		Name:  *row.StudentName,
		Grade: *row.StudentGrade,
		Class: *row.StudentClass,
	})
}

func orPlaceholder(s *string) string {
	if s == nil {
		return model.Placeholder
	}
	return *s
}
