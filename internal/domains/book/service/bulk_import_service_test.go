package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"school-library-backend/internal/domains/book/model"
	"school-library-backend/internal/domains/book/repository"
	"school-library-backend/internal/infrastructure/database/dbtest"
	"school-library-backend/internal/shared/apperr"
	"school-library-backend/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newImportFixture(t *testing.T) (BulkImportServiceInterface, repository.RepositoryInterface) {
	t.Helper()
	db := dbtest.New(t)
	repo := repository.NewRepository(db)
	return NewBulkImportService(db.DB, repo, clock.Fixed(now)), repo
}

const validCSV = `Title,Author,Category,Quantity,ISBN,publication_year
코스모스,칼 세이건,과학,3,978-89-8371-154-5,2006

Sapiens,Yuval Harari,history,2,,2015
`

func TestParseCSV(t *testing.T) {
	svc, _ := newImportFixture(t)

	rows, err := svc.ParseCSV(strings.NewReader(validCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2, "blank lines are skipped")

	assert.Equal(t, 2, rows[0].Row)
	assert.Equal(t, "코스모스", rows[0].Title)
	assert.Equal(t, 3, rows[0].Quantity)
	require.NotNil(t, rows[0].ISBN)
	require.NotNil(t, rows[0].PublicationYear)
	assert.Equal(t, 2006, *rows[0].PublicationYear)
	assert.Nil(t, rows[1].ISBN)
}

func TestParseCSV_MissingColumn(t *testing.T) {
	svc, _ := newImportFixture(t)

	_, err := svc.ParseCSV(strings.NewReader("title,author,quantity\nx,y,1\n"))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.ParseCSV(strings.NewReader("title,author,category,quantity\n"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestParseXLSX(t *testing.T) {
	svc, _ := newImportFixture(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"title", "author", "category", "quantity"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"어린 왕자", "생텍쥐페리", "문학", 4}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rows, err := svc.ParseXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "어린 왕자", rows[0].Title)
	assert.Equal(t, "문학", rows[0].Category)
	assert.Equal(t, 4, rows[0].Quantity)
}

func TestImportBooks_AllOrNothing(t *testing.T) {
	ctx := context.Background()

	t.Run("valid file creates every row", func(t *testing.T) {
		svc, repo := newImportFixture(t)
		rows, err := svc.ParseCSV(strings.NewReader(validCSV))
		require.NoError(t, err)

		result, err := svc.ImportBooks(ctx, rows)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 2, result.SuccessRows)
		require.Len(t, result.CreatedBooks, 2)

		book, err := repo.GetByID(ctx, result.CreatedBooks[0])
		require.NoError(t, err)
		assert.Equal(t, model.CategoryScience, book.Category)
		assert.Equal(t, book.Quantity, book.Available)
	})

	t.Run("one bad row creates nothing", func(t *testing.T) {
		svc, repo := newImportFixture(t)
		rows, err := svc.ParseCSV(strings.NewReader(
			"title,author,category,quantity,isbn\n" +
				"A,x,fiction,1,111\n" +
				",x,poetry,0,\n" +
				"C,x,art,1,111\n"))
		require.NoError(t, err)

		result, err := svc.ImportBooks(ctx, rows)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, 2, result.FailedRows)

		fields := map[string]bool{}
		for _, e := range result.Errors {
			fields[e.Field] = true
		}
		assert.True(t, fields["title"])
		assert.True(t, fields["category"])
		assert.True(t, fields["quantity"])
		assert.True(t, fields["isbn"], "duplicate ISBN is reported")

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("empty input", func(t *testing.T) {
		svc, _ := newImportFixture(t)
		_, err := svc.ImportBooks(ctx, nil)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("too many rows", func(t *testing.T) {
		svc, _ := newImportFixture(t)
		rows := make([]model.ImportBookRow, MaxImportRows+1)
		result, err := svc.ImportBooks(ctx, rows)
		require.NoError(t, err)
		assert.False(t, result.Success)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "file", result.Errors[0].Field)
	})
}
