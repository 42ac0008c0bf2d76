package service

import (
	"context"
	"testing"
	"time"

	"school-library-backend/internal/domains/book/model"
	"school-library-backend/internal/domains/book/repository"
	borrowModel "school-library-backend/internal/domains/borrow/model"
	borrowRepo "school-library-backend/internal/domains/borrow/repository"
	ledgerModel "school-library-backend/internal/domains/ledger/model"
	ledgerRepo "school-library-backend/internal/domains/ledger/repository"
	ledgerService "school-library-backend/internal/domains/ledger/service"
	"school-library-backend/internal/infrastructure/database"
	"school-library-backend/internal/infrastructure/database/dbtest"
	"school-library-backend/internal/shared/apperr"
	"school-library-backend/internal/shared/utils"
	"school-library-backend/pkg/clock"
	dbtx "school-library-backend/pkg/database"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db     *database.DB
	svc    ServiceInterface
	ledger ledgerService.ServiceInterface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	ledger := ledgerService.NewService(db.DB, ledgerRepo.NewRepository(db))
	svc := NewService(db.DB, repository.NewRepository(db), ledger, borrowRepo.NewRepository(db), clock.Fixed(now))
	return &fixture{db: db, svc: svc, ledger: ledger}
}

// lend takes n copies through the ledger and records the loans
func (f *fixture) lend(t *testing.T, bookID string, n int) {
	t.Helper()
	ctx := context.Background()
	records := borrowRepo.NewRepository(f.db)
	for i := 0; i < n; i++ {
		err := dbtx.WithTransaction(ctx, f.db.DB, func(tx *sqlx.Tx) error {
			if err := f.ledger.Checkout(ctx, tx, bookID); err != nil {
				return err
			}
			return records.Create(ctx, tx, &borrowModel.BorrowRecord{
				ID: utils.NewID(), StudentID: utils.NewID(), BookID: bookID,
				BorrowDate: now, DueDate: now.Add(7 * 24 * time.Hour),
				Status: borrowModel.StatusBorrowed, CreatedAt: now,
			})
		})
		require.NoError(t, err)
	}
}

func ptr[T any](v T) *T { return &v }

func validRequest() model.CreateBookRequest {
	return model.CreateBookRequest{
		Title:    " 어린 왕자 ",
		Author:   "생텍쥐페리",
		Category: model.CategoryFiction,
		Quantity: 5,
		ISBN:     ptr("  "),
	}
}

func TestCreateBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	book, err := f.svc.CreateBook(ctx, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "어린 왕자", book.Title)
	assert.Equal(t, 5, book.Available)
	assert.Nil(t, book.ISBN, "blank optional is dropped")

	stored, err := f.svc.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.Title, stored.Title)
	assert.Equal(t, 5, stored.Quantity)
	assert.True(t, stored.CreatedAt.Equal(now))
}

func TestCreateBook_Invalid(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(r *model.CreateBookRequest)
	}{
		{"blank title", func(r *model.CreateBookRequest) { r.Title = "  " }},
		{"zero quantity", func(r *model.CreateBookRequest) { r.Quantity = 0 }},
		{"unknown category", func(r *model.CreateBookRequest) { r.Category = "poetry" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := f.svc.CreateBook(context.Background(), req)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestListBooks_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, req := range []model.CreateBookRequest{
		{Title: "코스모스", Author: "칼 세이건", Category: model.CategoryScience, Quantity: 1},
		{Title: "Sapiens", Author: "Yuval Harari", Category: model.CategoryHistory, Quantity: 1},
		{Title: "Cosmos", Author: "Carl Sagan", Category: model.CategoryScience, Quantity: 1},
	} {
		_, err := f.svc.CreateBook(ctx, req)
		require.NoError(t, err)
	}

	byTitle, err := f.svc.ListBooks(ctx, model.BookFilter{Search: "cosmos"})
	require.NoError(t, err)
	assert.Len(t, byTitle, 1)

	byLabel, err := f.svc.ListBooks(ctx, model.BookFilter{Search: "과학"})
	require.NoError(t, err)
	assert.Len(t, byLabel, 2)

	all, err := f.svc.ListBooks(ctx, model.BookFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateBook_Quantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	book, err := f.svc.CreateBook(ctx, validRequest())
	require.NoError(t, err)
	f.lend(t, book.ID, 3)

	updated, err := f.svc.UpdateBook(ctx, book.ID, model.UpdateBookRequest{Quantity: ptr(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)
	assert.Equal(t, 4, updated.Available)

	// below the three copies on loan: rejected, nothing changes
	_, err = f.svc.UpdateBook(ctx, book.ID, model.UpdateBookRequest{Title: ptr("바뀐 제목"), Quantity: ptr(2)})
	assert.ErrorIs(t, err, ledgerModel.ErrQuantityBelowBorrowed)

	stored, err := f.svc.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "어린 왕자", stored.Title)
	assert.Equal(t, 7, stored.Quantity)
	assert.Equal(t, 4, stored.Available)

	avail, err := f.svc.GetAvailability(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, avail.Borrowed)
}

func TestUpdateBook_DetailsOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	book, err := f.svc.CreateBook(ctx, validRequest())
	require.NoError(t, err)

	updated, err := f.svc.UpdateBook(ctx, book.ID, model.UpdateBookRequest{Author: ptr("Antoine de Saint-Exupéry")})
	require.NoError(t, err)
	assert.Equal(t, "Antoine de Saint-Exupéry", updated.Author)
	assert.Equal(t, 5, updated.Available)

	_, err = f.svc.UpdateBook(ctx, "ghost", model.UpdateBookRequest{Author: ptr("x")})
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestDeleteBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	book, err := f.svc.CreateBook(ctx, validRequest())
	require.NoError(t, err)
	f.lend(t, book.ID, 1)

	_, err = f.svc.DeleteBook(ctx, book.ID)
	assert.ErrorIs(t, err, model.ErrBookHasActiveLoans)

	free, err := f.svc.CreateBook(ctx, validRequest())
	require.NoError(t, err)

	resp, err := f.svc.DeleteBook(ctx, free.ID)
	require.NoError(t, err)
	assert.True(t, resp.Deleted)

	resp, err = f.svc.DeleteBook(ctx, free.ID)
	require.NoError(t, err)
	assert.False(t, resp.Deleted)
}

func TestExportBooksToExcel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateBook(ctx, validRequest())
	require.NoError(t, err)

	file, err := f.svc.ExportBooksToExcel(ctx, model.BookFilter{})
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows(file.GetSheetList()[0])
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one book")
	assert.Contains(t, rows[1], "어린 왕자")
}
