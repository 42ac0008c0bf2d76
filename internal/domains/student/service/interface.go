package service

import (
	"context"

	"school-library-backend/internal/domains/student/model"

	"github.com/jmoiron/sqlx"
)

// ServiceInterface - student roster operations
type ServiceInterface interface {
	CreateStudent(ctx context.Context, req model.CreateStudentRequest) (*model.Student, error)
	GetStudent(ctx context.Context, id string) (*model.Student, error)
	ListStudents(ctx context.Context, filter model.StudentFilter) ([]model.Student, error)
	UpdateStudent(ctx context.Context, id string, req model.UpdateStudentRequest) (*model.Student, error)
	DeleteStudent(ctx context.Context, id string) (*model.DeleteStudentResponse, error)
	GetBorrowCount(ctx context.Context, id string) (*model.BorrowCountResponse, error)
}

// LoanCounter reports open loans for a student
type LoanCounter interface {
	CountActiveByStudent(ctx context.Context, q sqlx.QueryerContext, studentID string) (int, error)
}
