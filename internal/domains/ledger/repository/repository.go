package repository

import (
	"context"
	"fmt"

	bookModel "school-library-backend/internal/domains/book/model"
	"school-library-backend/internal/domains/ledger/model"
	"school-library-backend/internal/infrastructure/database"
	"school-library-backend/internal/shared/utils"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
)

// RepositoryInterface - counter access on the books table.
// Every write is guarded in SQL so a stale read can never push a counter out of range.
type RepositoryInterface interface {
	LockCounts(ctx context.Context, tx *sqlx.Tx, bookID string) (*model.Counts, error)
	GetCounts(ctx context.Context, bookID string) (*model.Counts, error)
	// ShiftAvailable adds delta to available; false when the guard refused it
	ShiftAvailable(ctx context.Context, tx *sqlx.Tx, bookID string, delta int) (bool, error)
	// Resize sets both counters keeping borrowed fixed; false when borrowed changed underneath
	Resize(ctx context.Context, tx *sqlx.Tx, bookID string, quantity, available, borrowed int) (bool, error)
	SetAvailable(ctx context.Context, tx *sqlx.Tx, bookID string, available int) (bool, error)
	ListCounts(ctx context.Context) ([]model.Counts, error)
	ActiveLoansByBook(ctx context.Context, q sqlx.QueryerContext) (map[string]int, error)
	CountActiveLoans(ctx context.Context, tx *sqlx.Tx, bookID string) (int, error)
}

type repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) RepositoryInterface {
	return &repository{db: db}
}

var countColumns = []interface{}{"id", "title", "quantity", "available"}

func (r *repository) LockCounts(ctx context.Context, tx *sqlx.Tx, bookID string) (*model.Counts, error) {
	ds := r.db.Builder().
		From("books").
		Select(countColumns...).
		Where(goqu.C("id").Eq(bookID))
	if r.db.RowLocks() {
		ds = ds.ForUpdate(exp.Wait)
	}
	return r.getCounts(ctx, tx, bookID, ds)
}

func (r *repository) GetCounts(ctx context.Context, bookID string) (*model.Counts, error) {
	ds := r.db.Builder().
		From("books").
		Select(countColumns...).
		Where(goqu.C("id").Eq(bookID))
	return r.getCounts(ctx, r.db, bookID, ds)
}

func (r *repository) getCounts(ctx context.Context, q sqlx.QueryerContext, bookID string, ds *goqu.SelectDataset) (*model.Counts, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select counts: %w", err)
	}

	var c model.Counts
	if err := sqlx.GetContext(ctx, q, &c, query, args...); err != nil {
		if utils.IsNoRows(err) {
			return nil, bookModel.NewBookNotFoundError(bookID)
		}
		return nil, fmt.Errorf("select counts: %w", err)
	}
	return &c, nil
}

func (r *repository) ShiftAvailable(ctx context.Context, tx *sqlx.Tx, bookID string, delta int) (bool, error) {
	query, args, err := r.db.Builder().
		Update("books").
		Set(goqu.Record{"available": goqu.L("available + ?", delta)}).
		Where(
			goqu.C("id").Eq(bookID),
			goqu.L("available + ? BETWEEN 0 AND quantity", delta),
		).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build shift available: %w", err)
	}
	return r.execOne(ctx, tx, query, args)
}

func (r *repository) Resize(ctx context.Context, tx *sqlx.Tx, bookID string, quantity, available, borrowed int) (bool, error) {
	query, args, err := r.db.Builder().
		Update("books").
		Set(goqu.Record{"quantity": quantity, "available": available}).
		Where(
			goqu.C("id").Eq(bookID),
			goqu.L("quantity - available = ?", borrowed),
		).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build resize: %w", err)
	}
	return r.execOne(ctx, tx, query, args)
}

func (r *repository) SetAvailable(ctx context.Context, tx *sqlx.Tx, bookID string, available int) (bool, error) {
	query, args, err := r.db.Builder().
		Update("books").
		Set(goqu.Record{"available": available}).
		Where(
			goqu.C("id").Eq(bookID),
			goqu.C("quantity").Gte(available),
		).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build set available: %w", err)
	}
	return r.execOne(ctx, tx, query, args)
}

func (r *repository) execOne(ctx context.Context, tx *sqlx.Tx, query string, args []interface{}) (bool, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update counters: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update counters: %w", err)
	}
	return n == 1, nil
}

func (r *repository) ListCounts(ctx context.Context) ([]model.Counts, error) {
	query, args, err := r.db.Builder().
		From("books").
		Select(countColumns...).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list counts: %w", err)
	}

	counts := []model.Counts{}
	if err := sqlx.SelectContext(ctx, r.db, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("list counts: %w", err)
	}
	return counts, nil
}

type loanCount struct {
	BookID string `db:"book_id"`
	Count  int    `db:"active"`
}

func (r *repository) ActiveLoansByBook(ctx context.Context, q sqlx.QueryerContext) (map[string]int, error) {
	query, args, err := r.db.Builder().
		From("borrow_records").
		Select(goqu.C("book_id"), goqu.COUNT("*").As("active")).
		Where(goqu.C("status").Eq("borrowed")).
		GroupBy("book_id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build active loans: %w", err)
	}

	var rows []loanCount
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("active loans: %w", err)
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.BookID] = row.Count
	}
	return out, nil
}

func (r *repository) CountActiveLoans(ctx context.Context, tx *sqlx.Tx, bookID string) (int, error) {
	query, args, err := r.db.Builder().
		From("borrow_records").
		Select(goqu.COUNT("*")).
		Where(goqu.C("book_id").Eq(bookID), goqu.C("status").Eq("borrowed")).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count active loans: %w", err)
	}

	var n int
	if err := sqlx.GetContext(ctx, tx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count active loans: %w", err)
	}
	return n, nil
}
