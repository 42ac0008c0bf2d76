package service

import (
	"context"
	"sync"
	"testing"
	"time"

	bookModel "school-library-backend/internal/domains/book/model"
	bookRepo "school-library-backend/internal/domains/book/repository"
	"school-library-backend/internal/domains/borrow/model"
	"school-library-backend/internal/domains/borrow/repository"
	ledgerModel "school-library-backend/internal/domains/ledger/model"
	ledgerRepo "school-library-backend/internal/domains/ledger/repository"
	ledgerService "school-library-backend/internal/domains/ledger/service"
	studentModel "school-library-backend/internal/domains/student/model"
	studentRepo "school-library-backend/internal/domains/student/repository"
	"school-library-backend/internal/infrastructure/database"
	"school-library-backend/internal/infrastructure/database/dbtest"
	"school-library-backend/internal/shared/apperr"
	"school-library-backend/internal/shared/utils"
	"school-library-backend/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

type fixture struct {
	db     *database.DB
	svc    ServiceInterface
	ledger ledgerService.ServiceInterface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	ledger := ledgerService.NewService(db.DB, ledgerRepo.NewRepository(db))
	svc := NewService(db.DB, repository.NewRepository(db), studentRepo.NewRepository(db), ledger, clock.Fixed(now))
	return &fixture{db: db, svc: svc, ledger: ledger}
}

func (f *fixture) book(t *testing.T, quantity int) string {
	t.Helper()
	b := &bookModel.Book{
		ID: utils.NewID(), Title: "해리 포터", Author: "J.K. 롤링", Category: bookModel.CategoryFiction,
		Quantity: quantity, Available: quantity, CreatedAt: now,
	}
	require.NoError(t, bookRepo.NewRepository(f.db).Create(context.Background(), f.db, b))
	return b.ID
}

func (f *fixture) student(t *testing.T, name string) string {
	t.Helper()
	s := &studentModel.Student{ID: utils.NewID(), Name: name, Grade: 1, Class: 1, Number: 1, CreatedAt: now}
	require.NoError(t, studentRepo.NewRepository(f.db).Create(context.Background(), f.db, s))
	return s.ID
}

func (f *fixture) available(t *testing.T, bookID string) int {
	t.Helper()
	counts, err := f.ledger.Snapshot(context.Background(), bookID)
	require.NoError(t, err)
	return counts.Available
}

func dueIn(days int) time.Time {
	return now.Add(time.Duration(days) * 24 * time.Hour)
}

func TestBorrow_ConsumesCopiesUntilUnavailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bookID := f.book(t, 3)
	studentID := f.student(t, "김민수")

	for i := 0; i < 3; i++ {
		rec, err := f.svc.Borrow(ctx, model.BorrowRequest{StudentID: studentID, BookID: bookID, DueDate: dueIn(14)})
		require.NoError(t, err)
		assert.Equal(t, model.StatusBorrowed, rec.Status)
		assert.True(t, rec.BorrowDate.Equal(now))
		assert.Nil(t, rec.ReturnDate)
	}
	assert.Equal(t, 0, f.available(t, bookID))

	_, err := f.svc.Borrow(ctx, model.BorrowRequest{StudentID: studentID, BookID: bookID, DueDate: dueIn(14)})
	assert.ErrorIs(t, err, ledgerModel.ErrBookUnavailable)
	assert.Equal(t, 0, f.available(t, bookID))

	active, err := f.svc.List(ctx, model.RecordFilter{BookID: bookID, ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

func TestBorrow_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bookID := f.book(t, 1)
	studentID := f.student(t, "이서연")

	tests := []struct {
		name    string
		req     model.BorrowRequest
		wantErr error
	}{
		{"missing student id", model.BorrowRequest{BookID: bookID, DueDate: dueIn(1)}, apperr.ErrValidation},
		{"missing due date", model.BorrowRequest{StudentID: studentID, BookID: bookID}, apperr.ErrValidation},
		{"unknown student", model.BorrowRequest{StudentID: "ghost", BookID: bookID, DueDate: dueIn(1)}, studentModel.ErrStudentNotFound},
		{"unknown book", model.BorrowRequest{StudentID: studentID, BookID: "ghost", DueDate: dueIn(1)}, bookModel.ErrBookNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Borrow(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// nothing leaked from the failed attempts
	assert.Equal(t, 1, f.available(t, bookID))
	records, err := f.svc.List(ctx, model.RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestBorrow_ConcurrentLastCopy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bookID := f.book(t, 1)

	const workers = 8
	students := make([]string, workers)
	for i := range students {
		students[i] = f.student(t, "학생")
	}

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		successes   int
		unavailable int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(studentID string) {
			defer wg.Done()
			_, err := f.svc.Borrow(ctx, model.BorrowRequest{StudentID: studentID, BookID: bookID, DueDate: dueIn(7)})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperr.IsConflict(err):
				unavailable++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(students[i])
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, unavailable)
	assert.Equal(t, 0, f.available(t, bookID))
}

func TestReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bookID := f.book(t, 2)
	studentID := f.student(t, "박지훈")

	rec, err := f.svc.Borrow(ctx, model.BorrowRequest{StudentID: studentID, BookID: bookID, DueDate: dueIn(14)})
	require.NoError(t, err)
	assert.Equal(t, 1, f.available(t, bookID))

	returned, err := f.svc.Return(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	assert.True(t, returned.ReturnDate.Equal(now))
	assert.Equal(t, 2, f.available(t, bookID))

	stored, err := f.svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReturned, stored.Status)

	_, err = f.svc.Return(ctx, rec.ID)
	assert.ErrorIs(t, err, model.ErrAlreadyReturned)
	assert.Equal(t, 2, f.available(t, bookID))

	_, err = f.svc.Return(ctx, "ghost")
	assert.ErrorIs(t, err, model.ErrRecordNotFound)
}

func TestBorrow_PastDueIsOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bookID := f.book(t, 1)
	studentID := f.student(t, "최유진")

	rec, err := f.svc.Borrow(ctx, model.BorrowRequest{StudentID: studentID, BookID: bookID, DueDate: dueIn(-3)})
	require.NoError(t, err)

	assert.Equal(t, model.StatusBorrowed, rec.Status, "overdue is derived, never stored")
	assert.Equal(t, model.StatusOverdue, rec.EffectiveStatus(now))
	assert.Equal(t, 3, rec.DaysOverdue(now))

	returned, err := f.svc.Return(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReturned, returned.EffectiveStatus(now))
	assert.Zero(t, returned.DaysOverdue(now))
}

func TestList_FiltersCombine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	book1, book2 := f.book(t, 5), f.book(t, 5)
	alice, bob := f.student(t, "Alice"), f.student(t, "Bob")

	borrow := func(studentID, bookID string, due time.Time) *model.BorrowRecord {
		rec, err := f.svc.Borrow(ctx, model.BorrowRequest{StudentID: studentID, BookID: bookID, DueDate: due})
		require.NoError(t, err)
		return rec
	}
	late := borrow(alice, book1, dueIn(10))
	early := borrow(alice, book1, dueIn(2))
	borrow(alice, book2, dueIn(5))
	returned := borrow(bob, book1, dueIn(1))
	_, err := f.svc.Return(ctx, returned.ID)
	require.NoError(t, err)

	records, err := f.svc.List(ctx, model.RecordFilter{StudentID: alice, BookID: book1})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = f.svc.List(ctx, model.RecordFilter{BookID: book1, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, early.ID, records[0].ID, "active records come soonest due first")
	assert.Equal(t, late.ID, records[1].ID)

	records, err = f.svc.List(ctx, model.RecordFilter{StudentID: bob})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.StatusReturned, records[0].Status)
}
