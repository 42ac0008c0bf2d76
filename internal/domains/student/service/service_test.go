package service

import (
	"context"
	"testing"
	"time"

	borrowModel "school-library-backend/internal/domains/borrow/model"
	borrowRepo "school-library-backend/internal/domains/borrow/repository"
	"school-library-backend/internal/domains/student/model"
	"school-library-backend/internal/domains/student/repository"
	"school-library-backend/internal/infrastructure/database"
	"school-library-backend/internal/infrastructure/database/dbtest"
	"school-library-backend/internal/shared/apperr"
	"school-library-backend/internal/shared/utils"
	"school-library-backend/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*database.DB, ServiceInterface) {
	t.Helper()
	db := dbtest.New(t)
	return db, NewService(db.DB, repository.NewRepository(db), borrowRepo.NewRepository(db), clock.Fixed(now))
}

func openLoan(t *testing.T, db *database.DB, studentID string, status borrowModel.Status) {
	t.Helper()
	rec := &borrowModel.BorrowRecord{
		ID: utils.NewID(), StudentID: studentID, BookID: utils.NewID(),
		BorrowDate: now, DueDate: now.Add(24 * time.Hour), Status: status, CreatedAt: now,
	}
	if status == borrowModel.StatusReturned {
		rec.ReturnDate = &now
	}
	require.NoError(t, borrowRepo.NewRepository(db).Create(context.Background(), db, rec))
}

func ptr[T any](v T) *T { return &v }

func TestCreateStudent(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	s, err := svc.CreateStudent(ctx, model.CreateStudentRequest{Name: "  김민수 ", Grade: 3, Class: 2, Number: 15})
	require.NoError(t, err)
	assert.Equal(t, "김민수", s.Name)
	assert.True(t, s.CreatedAt.Equal(now))

	got, err := svc.GetStudent(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Name, got.Name)
	assert.Equal(t, 15, got.Number)

	_, err = svc.CreateStudent(ctx, model.CreateStudentRequest{Name: "   ", Grade: 1, Class: 1, Number: 1})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.CreateStudent(ctx, model.CreateStudentRequest{Name: "x", Grade: 0, Class: 1, Number: 1})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestListStudents_Search(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	for _, name := range []string{"김민수", "이민호", "박지훈"} {
		_, err := svc.CreateStudent(ctx, model.CreateStudentRequest{Name: name, Grade: 1, Class: 1, Number: 1})
		require.NoError(t, err)
	}

	all, err := svc.ListStudents(ctx, model.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	found, err := svc.ListStudents(ctx, model.StudentFilter{Search: "민"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestUpdateStudent(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	s, err := svc.CreateStudent(ctx, model.CreateStudentRequest{Name: "김민수", Grade: 3, Class: 2, Number: 15})
	require.NoError(t, err)

	updated, err := svc.UpdateStudent(ctx, s.ID, model.UpdateStudentRequest{Grade: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Grade)
	assert.Equal(t, "김민수", updated.Name, "unset fields are kept")

	_, err = svc.UpdateStudent(ctx, s.ID, model.UpdateStudentRequest{Class: ptr(0)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.UpdateStudent(ctx, "ghost", model.UpdateStudentRequest{Grade: ptr(1)})
	assert.ErrorIs(t, err, model.ErrStudentNotFound)
}

func TestDeleteStudent(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()

	t.Run("refused with open loans", func(t *testing.T) {
		s, err := svc.CreateStudent(ctx, model.CreateStudentRequest{Name: "대출중", Grade: 1, Class: 1, Number: 1})
		require.NoError(t, err)
		openLoan(t, db, s.ID, borrowModel.StatusBorrowed)

		_, err = svc.DeleteStudent(ctx, s.ID)
		assert.ErrorIs(t, err, model.ErrStudentHasActiveLoans)

		_, err = svc.GetStudent(ctx, s.ID)
		assert.NoError(t, err)
	})

	t.Run("allowed with only returned loans", func(t *testing.T) {
		s, err := svc.CreateStudent(ctx, model.CreateStudentRequest{Name: "반납완료", Grade: 1, Class: 1, Number: 2})
		require.NoError(t, err)
		openLoan(t, db, s.ID, borrowModel.StatusReturned)

		resp, err := svc.DeleteStudent(ctx, s.ID)
		require.NoError(t, err)
		assert.True(t, resp.Deleted)

		_, err = svc.GetStudent(ctx, s.ID)
		assert.ErrorIs(t, err, model.ErrStudentNotFound)
	})

	t.Run("missing student", func(t *testing.T) {
		resp, err := svc.DeleteStudent(ctx, "ghost")
		require.NoError(t, err)
		assert.False(t, resp.Deleted)
	})
}

func TestGetBorrowCount(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()

	s, err := svc.CreateStudent(ctx, model.CreateStudentRequest{Name: "김민수", Grade: 3, Class: 2, Number: 15})
	require.NoError(t, err)
	openLoan(t, db, s.ID, borrowModel.StatusBorrowed)
	openLoan(t, db, s.ID, borrowModel.StatusBorrowed)
	openLoan(t, db, s.ID, borrowModel.StatusReturned)

	resp, err := svc.GetBorrowCount(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.BorrowedCount)
	assert.Equal(t, s.ID, resp.ID)

	_, err = svc.GetBorrowCount(ctx, "ghost")
	assert.ErrorIs(t, err, model.ErrStudentNotFound)
}
