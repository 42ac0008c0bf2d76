package repository

import (
	"context"
	"fmt"
	"time"

	"school-library-backend/internal/domains/report/model"
	"school-library-backend/internal/infrastructure/database"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
)

// RepositoryInterface - read-only queries for dashboards and exports
type RepositoryInterface interface {
	CountBooks(ctx context.Context) (int, error)
	CountActiveLoans(ctx context.Context) (int, error)
	CountOverdue(ctx context.Context, now time.Time) (int, error)
	RecentBorrows(ctx context.Context, limit int) ([]model.LoanRow, error)
	RecentReturns(ctx context.Context, limit int) ([]model.LoanRow, error)
	Overdue(ctx context.Context, now time.Time) ([]model.LoanRow, error)
	History(ctx context.Context) ([]model.LoanRow, error)
}

type repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) RepositoryInterface {
	return &repository{db: db}
}

const statusBorrowed = "borrowed"

func (r *repository) CountBooks(ctx context.Context) (int, error) {
	return r.count(ctx, r.db.Builder().From("books"))
}

func (r *repository) CountActiveLoans(ctx context.Context) (int, error) {
	return r.count(ctx, r.db.Builder().
		From("borrow_records").
		Where(goqu.C("status").Eq(statusBorrowed)))
}

func (r *repository) CountOverdue(ctx context.Context, now time.Time) (int, error) {
	return r.count(ctx, r.db.Builder().
		From("borrow_records").
		Where(goqu.C("status").Eq(statusBorrowed), goqu.C("due_date").Lt(now.UTC())))
}

func (r *repository) count(ctx context.Context, ds *goqu.SelectDataset) (int, error) {
	query, args, err := ds.Select(goqu.COUNT("*")).Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// loans selects records LEFT JOINed to students and books; missing entities come back NULL
func (r *repository) loans() *goqu.SelectDataset {
	return r.db.Builder().
		From(goqu.T("borrow_records").As("r")).
		LeftJoin(goqu.T("students").As("s"), goqu.On(goqu.I("s.id").Eq(goqu.I("r.student_id")))).
		LeftJoin(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("r.book_id")))).
		Select(
			goqu.I("r.id"),
			goqu.I("r.student_id"),
			goqu.I("r.book_id"),
			goqu.I("r.borrow_date"),
			goqu.I("r.due_date"),
			goqu.I("r.return_date"),
			goqu.I("r.status"),
			goqu.I("s.name").As("student_name"),
			goqu.I("s.grade").As("student_grade"),
			goqu.I("s.class").As("student_class"),
			goqu.I("b.title").As("book_title"),
		)
}

func (r *repository) RecentBorrows(ctx context.Context, limit int) ([]model.LoanRow, error) {
	return r.selectLoans(ctx, r.loans().
		Order(goqu.I("r.borrow_date").Desc(), goqu.I("r.id").Asc()).
		Limit(uint(limit)))
}

func (r *repository) RecentReturns(ctx context.Context, limit int) ([]model.LoanRow, error) {
	return r.selectLoans(ctx, r.loans().
		Where(goqu.I("r.return_date").IsNotNull()).
		Order(goqu.I("r.return_date").Desc(), goqu.I("r.id").Asc()).
		Limit(uint(limit)))
}

func (r *repository) Overdue(ctx context.Context, now time.Time) ([]model.LoanRow, error) {
	return r.selectLoans(ctx, r.loans().
		Where(goqu.I("r.status").Eq(statusBorrowed), goqu.I("r.due_date").Lt(now.UTC())).
		Order(goqu.I("r.due_date").Asc(), goqu.I("r.id").Asc()))
}

func (r *repository) History(ctx context.Context) ([]model.LoanRow, error) {
	return r.selectLoans(ctx, r.loans().
		Order(goqu.I("r.borrow_date").Desc(), goqu.I("r.id").Asc()))
}

func (r *repository) selectLoans(ctx context.Context, ds *goqu.SelectDataset) ([]model.LoanRow, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build loans query: %w", err)
	}

	rows := []model.LoanRow{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select loans: %w", err)
	}
	return rows, nil
}
