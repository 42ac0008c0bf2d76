package repository

import (
	"context"

	"school-library-backend/internal/domains/book/model"
	dbtx "school-library-backend/pkg/database"

	"github.com/jmoiron/sqlx"
)

// RepositoryInterface - data access for books.
// Methods taking a Querier run on whatever handle the caller passes (db or tx).
type RepositoryInterface interface {
	Create(ctx context.Context, q dbtx.Querier, book *model.Book) error
	GetByID(ctx context.Context, id string) (*model.Book, error)
	// GetByIDForUpdate locks the row for the rest of tx (Postgres only)
	GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*model.Book, error)
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	// UpdateDetails writes descriptive fields; quantity/available belong to the ledger
	UpdateDetails(ctx context.Context, q dbtx.Querier, book *model.Book) error
	Delete(ctx context.Context, q dbtx.Querier, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}
