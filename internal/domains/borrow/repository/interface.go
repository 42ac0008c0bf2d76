package repository

import (
	"context"
	"time"

	"school-library-backend/internal/domains/borrow/model"
	dbtx "school-library-backend/pkg/database"

	"github.com/jmoiron/sqlx"
)

// RepositoryInterface - data access for borrow records
type RepositoryInterface interface {
	Create(ctx context.Context, q dbtx.Querier, record *model.BorrowRecord) error
	GetByID(ctx context.Context, id string) (*model.BorrowRecord, error)
	GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*model.BorrowRecord, error)
	List(ctx context.Context, filter model.RecordFilter) ([]model.BorrowRecord, error)
	// MarkReturned flips a borrowed record to returned; false if it was not borrowed
	MarkReturned(ctx context.Context, tx *sqlx.Tx, id string, returnedAt time.Time) (bool, error)
	CountActiveByStudent(ctx context.Context, q sqlx.QueryerContext, studentID string) (int, error)
	CountActiveByBook(ctx context.Context, q sqlx.QueryerContext, bookID string) (int, error)
}
