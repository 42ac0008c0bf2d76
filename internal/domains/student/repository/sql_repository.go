package repository

import (
	"context"
	"fmt"
	"strings"

	"school-library-backend/internal/domains/student/model"
	"school-library-backend/internal/infrastructure/database"
	"school-library-backend/internal/shared/utils"
	dbtx "school-library-backend/pkg/database"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
)

const studentsTable = "students"

var studentColumns = []interface{}{"id", "name", "grade", "class", "number", "created_at"}

type sqlRepository struct {
	db *database.DB
}

func NewRepository(db *database.DB) RepositoryInterface {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) Create(ctx context.Context, q dbtx.Querier, student *model.Student) error {
	query, args, err := r.db.Builder().
		Insert(studentsTable).
		Rows(goqu.Record{
			"id":         student.ID,
			"name":       student.Name,
			"grade":      student.Grade,
			"class":      student.Class,
			"number":     student.Number,
			"created_at": student.CreatedAt.UTC(),
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert student: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

func (r *sqlRepository) GetByID(ctx context.Context, id string) (*model.Student, error) {
	return r.getOne(ctx, r.db, id, r.selectByID(id))
}

func (r *sqlRepository) GetByIDForShare(ctx context.Context, tx *sqlx.Tx, id string) (*model.Student, error) {
	ds := r.selectByID(id)
	if r.db.RowLocks() {
		ds = ds.ForShare(exp.Wait)
	}
	return r.getOne(ctx, tx, id, ds)
}

func (r *sqlRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*model.Student, error) {
	ds := r.selectByID(id)
	if r.db.RowLocks() {
		ds = ds.ForUpdate(exp.Wait)
	}
	return r.getOne(ctx, tx, id, ds)
}

func (r *sqlRepository) selectByID(id string) *goqu.SelectDataset {
	return r.db.Builder().
		From(studentsTable).
		Select(studentColumns...).
		Where(goqu.C("id").Eq(id))
}

func (r *sqlRepository) getOne(ctx context.Context, q dbtx.Querier, id string, ds *goqu.SelectDataset) (*model.Student, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select student: %w", err)
	}

	var student model.Student
	if err := sqlx.GetContext(ctx, q, &student, query, args...); err != nil {
		if utils.IsNoRows(err) {
			return nil, model.NewStudentNotFoundError(id)
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &student, nil
}

// List returns students in roster order: grade, class, number
func (r *sqlRepository) List(ctx context.Context, filter model.StudentFilter) ([]model.Student, error) {
	ds := r.db.Builder().
		From(studentsTable).
		Select(studentColumns...).
		Order(
			goqu.C("grade").Asc(),
			goqu.C("class").Asc(),
			goqu.C("number").Asc(),
			goqu.C("id").Asc(),
		)

	if text := strings.TrimSpace(filter.Search); text != "" {
		ds = ds.Where(utils.ContainsFold("name", text))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list students: %w", err)
	}

	students := []model.Student{}
	if err := sqlx.SelectContext(ctx, r.db, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

func (r *sqlRepository) Update(ctx context.Context, q dbtx.Querier, student *model.Student) error {
	query, args, err := r.db.Builder().
		Update(studentsTable).
		Set(goqu.Record{
			"name":   student.Name,
			"grade":  student.Grade,
			"class":  student.Class,
			"number": student.Number,
		}).
		Where(goqu.C("id").Eq(student.ID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update student: %w", err)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.NewStudentNotFoundError(student.ID)
	}
	return nil
}

func (r *sqlRepository) Delete(ctx context.Context, q dbtx.Querier, id string) (bool, error) {
	query, args, err := r.db.Builder().
		Delete(studentsTable).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete student: %w", err)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete student: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete student: %w", err)
	}
	return n > 0, nil
}
