package repository

import (
	"context"
	"fmt"
	"time"

	"school-library-backend/internal/domains/borrow/model"
	"school-library-backend/internal/infrastructure/database"
	"school-library-backend/internal/shared/utils"
	dbtx "school-library-backend/pkg/database"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
)

const recordsTable = "borrow_records"

var recordColumns = []interface{}{
	"id", "student_id", "book_id", "borrow_date", "due_date", "return_date", "status", "created_at",
}

type sqlRepository struct {
	db *database.DB
}

func NewRepository(db *database.DB) RepositoryInterface {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) Create(ctx context.Context, q dbtx.Querier, record *model.BorrowRecord) error {
	query, args, err := r.db.Builder().
		Insert(recordsTable).
		Rows(goqu.Record{
			"id":          record.ID,
			"student_id":  record.StudentID,
			"book_id":     record.BookID,
			"borrow_date": record.BorrowDate.UTC(),
			"due_date":    record.DueDate.UTC(),
			"status":      string(record.Status),
			"created_at":  record.CreatedAt.UTC(),
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert record: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (r *sqlRepository) GetByID(ctx context.Context, id string) (*model.BorrowRecord, error) {
	return r.getOne(ctx, r.db, id, r.selectByID(id))
}

func (r *sqlRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*model.BorrowRecord, error) {
	ds := r.selectByID(id)
	if r.db.RowLocks() {
		ds = ds.ForUpdate(exp.Wait)
	}
	return r.getOne(ctx, tx, id, ds)
}

func (r *sqlRepository) selectByID(id string) *goqu.SelectDataset {
	return r.db.Builder().
		From(recordsTable).
		Select(recordColumns...).
		Where(goqu.C("id").Eq(id))
}

func (r *sqlRepository) getOne(ctx context.Context, q dbtx.Querier, id string, ds *goqu.SelectDataset) (*model.BorrowRecord, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select record: %w", err)
	}

	var record model.BorrowRecord
	if err := sqlx.GetContext(ctx, q, &record, query, args...); err != nil {
		if utils.IsNoRows(err) {
			return nil, model.NewRecordNotFoundError(id)
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return &record, nil
}

// List returns records newest borrow first; the active-only list is ordered by due date
func (r *sqlRepository) List(ctx context.Context, filter model.RecordFilter) ([]model.BorrowRecord, error) {
	ds := r.db.Builder().
		From(recordsTable).
		Select(recordColumns...)

	if filter.StudentID != "" {
		ds = ds.Where(goqu.C("student_id").Eq(filter.StudentID))
	}
	if filter.BookID != "" {
		ds = ds.Where(goqu.C("book_id").Eq(filter.BookID))
	}
	if filter.ActiveOnly {
		ds = ds.Where(goqu.C("status").Eq(string(model.StatusBorrowed))).
			Order(goqu.C("due_date").Asc(), goqu.C("id").Asc())
	} else {
		ds = ds.Order(goqu.C("borrow_date").Desc(), goqu.C("id").Asc())
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list records: %w", err)
	}

	records := []model.BorrowRecord{}
	if err := sqlx.SelectContext(ctx, r.db, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

func (r *sqlRepository) MarkReturned(ctx context.Context, tx *sqlx.Tx, id string, returnedAt time.Time) (bool, error) {
	query, args, err := r.db.Builder().
		Update(recordsTable).
		Set(goqu.Record{
			"status":      string(model.StatusReturned),
			"return_date": returnedAt.UTC(),
		}).
		Where(
			goqu.C("id").Eq(id),
			goqu.C("status").Eq(string(model.StatusBorrowed)),
		).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build mark returned: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("mark returned: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark returned: %w", err)
	}
	return n == 1, nil
}

func (r *sqlRepository) CountActiveByStudent(ctx context.Context, q sqlx.QueryerContext, studentID string) (int, error) {
	return r.countActive(ctx, q, goqu.C("student_id").Eq(studentID))
}

func (r *sqlRepository) CountActiveByBook(ctx context.Context, q sqlx.QueryerContext, bookID string) (int, error) {
	return r.countActive(ctx, q, goqu.C("book_id").Eq(bookID))
}

func (r *sqlRepository) countActive(ctx context.Context, q sqlx.QueryerContext, by exp.Expression) (int, error) {
	query, args, err := r.db.Builder().
		From(recordsTable).
		Select(goqu.COUNT("*")).
		Where(by, goqu.C("status").Eq(string(model.StatusBorrowed))).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count active: %w", err)
	}

	var n int
	if err := sqlx.GetContext(ctx, q, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count active: %w", err)
	}
	return n, nil
}
