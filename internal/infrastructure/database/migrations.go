package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	txutil "school-library-backend/pkg/database"
)

// migration holds one schema step rendered per dialect
type migration struct {
	Version  int
	Name     string
	Postgres []string
	SQLite   []string
}

var migrations = []migration{
	{
		Version: 1,
		Name:    "create_books",
		Postgres: []string{`
CREATE TABLE IF NOT EXISTS books (
    id               VARCHAR(36) PRIMARY KEY,
    title            VARCHAR(255) NOT NULL,
    author           VARCHAR(255) NOT NULL,
    isbn             VARCHAR(32),
    publisher        VARCHAR(255),
    category         VARCHAR(16) NOT NULL,
    publication_year INTEGER,
    quantity         INTEGER NOT NULL,
    available        INTEGER NOT NULL,
    description      TEXT,
    created_at       TIMESTAMPTZ NOT NULL,
    CONSTRAINT books_quantity_positive CHECK (quantity >= 1),
    CONSTRAINT books_available_range CHECK (available >= 0 AND available <= quantity)
)`,
			`CREATE INDEX IF NOT EXISTS idx_books_created_at ON books (created_at, id)`,
		},
		SQLite: []string{`
CREATE TABLE IF NOT EXISTS books (
    id               TEXT PRIMARY KEY,
    title            TEXT NOT NULL,
    author           TEXT NOT NULL,
    isbn             TEXT,
    publisher        TEXT,
    category         TEXT NOT NULL,
    publication_year INTEGER,
    quantity         INTEGER NOT NULL CHECK (quantity >= 1),
    available        INTEGER NOT NULL,
    description      TEXT,
    created_at       TIMESTAMP NOT NULL,
    CHECK (available >= 0 AND available <= quantity)
)`,
			`CREATE INDEX IF NOT EXISTS idx_books_created_at ON books (created_at, id)`,
		},
	},
	{
		Version: 2,
		Name:    "create_students",
		Postgres: []string{`
CREATE TABLE IF NOT EXISTS students (
    id         VARCHAR(36) PRIMARY KEY,
    name       VARCHAR(100) NOT NULL,
    grade      INTEGER NOT NULL CHECK (grade >= 1),
    "class"    INTEGER NOT NULL CHECK ("class" >= 1),
    "number"   INTEGER NOT NULL CHECK ("number" >= 1),
    created_at TIMESTAMPTZ NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS idx_students_roster ON students (grade, "class", "number")`,
		},
		SQLite: []string{`
CREATE TABLE IF NOT EXISTS students (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    grade      INTEGER NOT NULL CHECK (grade >= 1),
    "class"    INTEGER NOT NULL CHECK ("class" >= 1),
    "number"   INTEGER NOT NULL CHECK ("number" >= 1),
    created_at TIMESTAMP NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS idx_students_roster ON students (grade, "class", "number")`,
		},
	},
	{
		// No foreign keys: returned history outlives deleted books and students.
		Version: 3,
		Name:    "create_borrow_records",
		Postgres: []string{`
CREATE TABLE IF NOT EXISTS borrow_records (
    id          VARCHAR(36) PRIMARY KEY,
    student_id  VARCHAR(36) NOT NULL,
    book_id     VARCHAR(36) NOT NULL,
    borrow_date TIMESTAMPTZ NOT NULL,
    due_date    TIMESTAMPTZ NOT NULL,
    return_date TIMESTAMPTZ,
    status      VARCHAR(16) NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL,
    CONSTRAINT borrow_records_status CHECK (status IN ('borrowed', 'returned')),
    CONSTRAINT borrow_records_return_date CHECK ((status = 'returned') = (return_date IS NOT NULL))
)`,
			`CREATE INDEX IF NOT EXISTS idx_borrow_records_book_status ON borrow_records (book_id, status)`,
			`CREATE INDEX IF NOT EXISTS idx_borrow_records_student_status ON borrow_records (student_id, status)`,
			`CREATE INDEX IF NOT EXISTS idx_borrow_records_borrow_date ON borrow_records (borrow_date DESC)`,
		},
		SQLite: []string{`
CREATE TABLE IF NOT EXISTS borrow_records (
    id          TEXT PRIMARY KEY,
    student_id  TEXT NOT NULL,
    book_id     TEXT NOT NULL,
    borrow_date TIMESTAMP NOT NULL,
    due_date    TIMESTAMP NOT NULL,
    return_date TIMESTAMP,
    status      TEXT NOT NULL CHECK (status IN ('borrowed', 'returned')),
    created_at  TIMESTAMP NOT NULL,
    CHECK ((status = 'returned') = (return_date IS NOT NULL))
)`,
			`CREATE INDEX IF NOT EXISTS idx_borrow_records_book_status ON borrow_records (book_id, status)`,
			`CREATE INDEX IF NOT EXISTS idx_borrow_records_student_status ON borrow_records (student_id, status)`,
			`CREATE INDEX IF NOT EXISTS idx_borrow_records_borrow_date ON borrow_records (borrow_date DESC)`,
		},
	},
}

const schemaMigrationsDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    INTEGER PRIMARY KEY,
    name       VARCHAR(255) NOT NULL,
    applied_at TIMESTAMP NOT NULL
)`

// Migrate applies every pending migration, each in its own transaction.
// Returns the number of migrations applied.
func Migrate(ctx context.Context, db *DB) (int, error) {
	if _, err := db.ExecContext(ctx, schemaMigrationsDDL); err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		stmts := m.Postgres
		if db.Dialect == DialectSQLite {
			stmts = m.SQLite
		}

		err := txutil.WithTransaction(ctx, db.DB, func(tx *sqlx.Tx) error {
			for _, stmt := range stmts {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}

			query, args, err := db.Builder().
				Insert("schema_migrations").
				Rows(goqu.Record{
					"version":    m.Version,
					"name":       m.Name,
					"applied_at": time.Now().UTC(),
				}).
				Prepared(true).
				ToSQL()
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, query, args...)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}

		log.Printf("[DATABASE] Applied migration %d_%s", m.Version, m.Name)
		count++
	}

	return count, nil
}

func appliedVersions(ctx context.Context, db *DB) (map[int]bool, error) {
	query, args, err := db.Builder().
		From("schema_migrations").
		Select("version").
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var versions []int
	if err := db.SelectContext(ctx, &versions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}

	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}
