package service

import (
	"context"
	"testing"
	"time"

	bookModel "school-library-backend/internal/domains/book/model"
	bookRepo "school-library-backend/internal/domains/book/repository"
	borrowModel "school-library-backend/internal/domains/borrow/model"
	borrowRepo "school-library-backend/internal/domains/borrow/repository"
	"school-library-backend/internal/domains/report/model"
	"school-library-backend/internal/domains/report/repository"
	studentModel "school-library-backend/internal/domains/student/model"
	studentRepo "school-library-backend/internal/domains/student/repository"
	"school-library-backend/internal/infrastructure/database"
	"school-library-backend/internal/infrastructure/database/dbtest"
	"school-library-backend/internal/shared/utils"
	"school-library-backend/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

type fixture struct {
	db  *database.DB
	svc ServiceInterface
}

func newFixture(t *testing.T, defaultLimit, maxLimit int) *fixture {
	t.Helper()
	db := dbtest.New(t)
	return &fixture{db: db, svc: NewService(repository.NewRepository(db), clock.Fixed(now), defaultLimit, maxLimit)}
}

func (f *fixture) book(t *testing.T, title string) string {
	t.Helper()
	b := &bookModel.Book{
		ID: utils.NewID(), Title: title, Author: "a", Category: bookModel.CategoryEtc,
		Quantity: 10, Available: 10, CreatedAt: now,
	}
	require.NoError(t, bookRepo.NewRepository(f.db).Create(context.Background(), f.db, b))
	return b.ID
}

func (f *fixture) student(t *testing.T, name string, grade, class int) string {
	t.Helper()
	s := &studentModel.Student{ID: utils.NewID(), Name: name, Grade: grade, Class: class, Number: 1, CreatedAt: now}
	require.NoError(t, studentRepo.NewRepository(f.db).Create(context.Background(), f.db, s))
	return s.ID
}

// record inserts a loan as it would look after the engine ran; returned is nil for open loans
func (f *fixture) record(t *testing.T, studentID, bookID string, borrowed, due time.Time, returned *time.Time) string {
	t.Helper()
	rec := &borrowModel.BorrowRecord{
		ID: utils.NewID(), StudentID: studentID, BookID: bookID,
		BorrowDate: borrowed, DueDate: due, Status: borrowModel.StatusBorrowed, CreatedAt: borrowed,
	}
	if returned != nil {
		rec.Status = borrowModel.StatusReturned
		rec.ReturnDate = returned
	}
	require.NoError(t, borrowRepo.NewRepository(f.db).Create(context.Background(), f.db, rec))
	return rec.ID
}

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestStats(t *testing.T) {
	f := newFixture(t, 10, 100)
	ctx := context.Background()

	book1, book2 := f.book(t, "one"), f.book(t, "two")
	s := f.student(t, "김민수", 3, 2)

	f.record(t, s, book1, now.Add(-days(20)), now.Add(-days(6)), nil) // overdue
	f.record(t, s, book2, now.Add(-days(2)), now.Add(days(12)), nil)  // on time
	f.record(t, s, book1, now.Add(-days(30)), now.Add(-days(16)), at(-days(17)))

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{TotalBooks: 2, BorrowedBooks: 2, OverdueBooks: 1}, *stats)
}

func TestRecentActivities_ReturnedRecordYieldsTwoEvents(t *testing.T) {
	f := newFixture(t, 10, 100)
	ctx := context.Background()

	bookID := f.book(t, "어린 왕자")
	s := f.student(t, "김민수", 3, 2)

	openID := f.record(t, s, bookID, now.Add(-days(1)), now.Add(days(13)), nil)
	closedID := f.record(t, s, bookID, now.Add(-days(5)), now.Add(days(9)), at(-days(3)))

	activities, err := f.svc.RecentActivities(ctx, 0)
	require.NoError(t, err)
	require.Len(t, activities, 3)

	assert.Equal(t, openID, activities[0].RecordID)
	assert.Equal(t, model.ActionBorrow, activities[0].Action)
	assert.Equal(t, "대여", activities[0].ActionLabel)

	assert.Equal(t, closedID, activities[1].RecordID)
	assert.Equal(t, model.ActionReturn, activities[1].Action)
	assert.Equal(t, "반납", activities[1].ActionLabel)
	assert.Equal(t, closedID+"-return", activities[1].ID)

	assert.Equal(t, closedID, activities[2].RecordID)
	assert.Equal(t, model.ActionBorrow, activities[2].Action)

	for _, a := range activities {
		assert.Equal(t, "김민수", a.StudentName)
		assert.Equal(t, "어린 왕자", a.BookTitle)
	}
}

func TestRecentActivities_Limit(t *testing.T) {
	f := newFixture(t, 3, 5)
	ctx := context.Background()

	bookID := f.book(t, "b")
	s := f.student(t, "s", 1, 1)
	for i := 1; i <= 4; i++ {
		f.record(t, s, bookID, now.Add(-days(10*i)), now.Add(-days(10*i-7)), at(-days(10*i-2)))
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, 3},
		{"negative uses default", -4, 3},
		{"within range", 4, 4},
		{"capped at max", 50, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activities, err := f.svc.RecentActivities(ctx, tt.limit)
			require.NoError(t, err)
			assert.Len(t, activities, tt.want)
			for i := 1; i < len(activities); i++ {
				assert.False(t, activities[i].Timestamp.After(activities[i-1].Timestamp), "newest first")
			}
		})
	}
}

func TestRecentActivities_DeletedEntitiesUsePlaceholder(t *testing.T) {
	f := newFixture(t, 10, 100)
	ctx := context.Background()

	// neither the student nor the book exists any more
	f.record(t, "gone-student", "gone-book", now.Add(-days(1)), now.Add(days(1)), nil)

	activities, err := f.svc.RecentActivities(ctx, 10)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, model.Placeholder, activities[0].StudentName)
	assert.Equal(t, model.Placeholder, activities[0].BookTitle)

	items, err := f.svc.OverdueItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOverdueItems(t *testing.T) {
	f := newFixture(t, 10, 100)
	ctx := context.Background()

	bookID := f.book(t, "코스모스")
	s := f.student(t, "이서연", 2, 4)

	lessLate := f.record(t, s, bookID, now.Add(-days(16)), now.Add(-days(2)-time.Hour), nil)
	mostLate := f.record(t, s, bookID, now.Add(-days(30)), now.Add(-days(16)), nil)
	f.record(t, "gone", "gone", now.Add(-days(20)), now.Add(-days(6)), nil)
	f.record(t, s, bookID, now.Add(-days(30)), now.Add(-days(16)), at(-days(1))) // returned late, not overdue now
	f.record(t, s, bookID, now.Add(-days(1)), now.Add(days(13)), nil)            // not yet due

	items, err := f.svc.OverdueItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, mostLate, items[0].ID, "earliest due date first")
	assert.Equal(t, 16, items[0].DaysOverdue)
	assert.Equal(t, "이서연 (2학년 4반)", items[0].StudentName)
	assert.Equal(t, "코스모스", items[0].BookTitle)

	assert.Equal(t, model.Placeholder, items[1].StudentName)
	assert.Equal(t, model.Placeholder, items[1].BookTitle)
	assert.Equal(t, 6, items[1].DaysOverdue)

	assert.Equal(t, lessLate, items[2].ID)
	assert.Equal(t, 2, items[2].DaysOverdue, "partial days are not counted")
}

func TestExportSheets(t *testing.T) {
	f := newFixture(t, 10, 100)
	ctx := context.Background()

	bookID := f.book(t, "b")
	s := f.student(t, "s", 1, 1)
	f.record(t, s, bookID, now.Add(-days(20)), now.Add(-days(6)), nil)
	f.record(t, s, bookID, now.Add(-days(9)), now.Add(days(5)), at(-days(2)))

	overdue, err := f.svc.ExportOverdueExcel(ctx)
	require.NoError(t, err)
	defer overdue.Close()
	rows, err := overdue.GetRows(overdue.GetSheetList()[0])
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	history, err := f.svc.ExportHistoryExcel(ctx)
	require.NoError(t, err)
	defer history.Close()
	rows, err = history.GetRows(history.GetSheetList()[0])
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
