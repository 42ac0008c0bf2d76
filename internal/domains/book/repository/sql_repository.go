package repository

import (
	"context"
	"fmt"
	"strings"

	"school-library-backend/internal/domains/book/model"
	"school-library-backend/internal/infrastructure/database"
	"school-library-backend/internal/shared/utils"
	dbtx "school-library-backend/pkg/database"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
)

const booksTable = "books"

var bookColumns = []interface{}{
	"id", "title", "author", "isbn", "publisher", "category",
	"publication_year", "description", "quantity", "available", "created_at",
}

// sqlRepository - goqu statements over sqlx, dialect picked from the DB handle
type sqlRepository struct {
	db *database.DB
}

// NewRepository - Constructor
func NewRepository(db *database.DB) RepositoryInterface {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) Create(ctx context.Context, q dbtx.Querier, book *model.Book) error {
	query, args, err := r.db.Builder().
		Insert(booksTable).
		Rows(goqu.Record{
			"id":               book.ID,
			"title":            book.Title,
			"author":           book.Author,
			"isbn":             utils.Nullable(book.ISBN),
			"publisher":        utils.Nullable(book.Publisher),
			"category":         string(book.Category),
			"publication_year": utils.Nullable(book.PublicationYear),
			"description":      utils.Nullable(book.Description),
			"quantity":         book.Quantity,
			"available":        book.Available,
			"created_at":       book.CreatedAt.UTC(),
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert book: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *sqlRepository) GetByID(ctx context.Context, id string) (*model.Book, error) {
	return r.getOne(ctx, r.db, id, r.selectByID(id))
}

func (r *sqlRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*model.Book, error) {
	ds := r.selectByID(id)
	if r.db.RowLocks() {
		ds = ds.ForUpdate(exp.Wait)
	}
	return r.getOne(ctx, tx, id, ds)
}

func (r *sqlRepository) selectByID(id string) *goqu.SelectDataset {
	return r.db.Builder().
		From(booksTable).
		Select(bookColumns...).
		Where(goqu.C("id").Eq(id))
}

func (r *sqlRepository) getOne(ctx context.Context, q dbtx.Querier, id string, ds *goqu.SelectDataset) (*model.Book, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select book: %w", err)
	}

	var book model.Book
	if err := sqlx.GetContext(ctx, q, &book, query, args...); err != nil {
		if utils.IsNoRows(err) {
			return nil, model.NewBookNotFoundError(id)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}

// List returns every matching book, oldest first
func (r *sqlRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	ds := r.db.Builder().
		From(booksTable).
		Select(bookColumns...).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc())

	if text := strings.TrimSpace(filter.Search); text != "" {
		conds := []exp.Expression{
			utils.ContainsFold("title", text),
			utils.ContainsFold("author", text),
			utils.ContainsFold("category", text),
		}
		// Also match the Korean category label
		if cats := categoriesMatchingLabel(text); len(cats) > 0 {
			conds = append(conds, goqu.C("category").In(cats))
		}
		ds = ds.Where(goqu.Or(conds...))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list books: %w", err)
	}

	books := []model.Book{}
	if err := sqlx.SelectContext(ctx, r.db, &books, query, args...); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (r *sqlRepository) UpdateDetails(ctx context.Context, q dbtx.Querier, book *model.Book) error {
	query, args, err := r.db.Builder().
		Update(booksTable).
		Set(goqu.Record{
			"title":            book.Title,
			"author":           book.Author,
			"isbn":             utils.Nullable(book.ISBN),
			"publisher":        utils.Nullable(book.Publisher),
			"category":         string(book.Category),
			"publication_year": utils.Nullable(book.PublicationYear),
			"description":      utils.Nullable(book.Description),
		}).
		Where(goqu.C("id").Eq(book.ID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update book: %w", err)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.NewBookNotFoundError(book.ID)
	}
	return nil
}

func (r *sqlRepository) Delete(ctx context.Context, q dbtx.Querier, id string) (bool, error) {
	query, args, err := r.db.Builder().
		Delete(booksTable).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete book: %w", err)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete book: %w", err)
	}
	return n > 0, nil
}

func (r *sqlRepository) Count(ctx context.Context) (int, error) {
	query, args, err := r.db.Builder().
		From(booksTable).
		Select(goqu.COUNT("*")).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count books: %w", err)
	}

	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

func categoriesMatchingLabel(text string) []string {
	var out []string
	for _, c := range model.Categories() {
		if strings.Contains(model.CategoryLabel(c), text) {
			out = append(out, string(c))
		}
	}
	return out
}
