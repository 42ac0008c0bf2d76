package repository

import (
	"context"

	"school-library-backend/internal/domains/student/model"
	dbtx "school-library-backend/pkg/database"

	"github.com/jmoiron/sqlx"
)

// RepositoryInterface - data access for students
type RepositoryInterface interface {
	Create(ctx context.Context, q dbtx.Querier, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	// GetByIDForShare keeps the row from being deleted until tx ends (Postgres only)
	GetByIDForShare(ctx context.Context, tx *sqlx.Tx, id string) (*model.Student, error)
	GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*model.Student, error)
	List(ctx context.Context, filter model.StudentFilter) ([]model.Student, error)
	Update(ctx context.Context, q dbtx.Querier, student *model.Student) error
	Delete(ctx context.Context, q dbtx.Querier, id string) (bool, error)
}
