package database

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"
)

const (
	DriverPgx    = "pgx"
	DriverPQ     = "pq"
	DriverSQLite = "sqlite3"

	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// DBConfig centralises every connection parameter for all supported backends
type DBConfig struct {
	Driver string // pgx | pq | sqlite3

	// Postgres
	Host     string
	Port     int
	Username string
	Password string
	DBName   string
	SSLMode  string

	// SQLite
	SQLitePath string

	// Connection pool
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration

	// Retry
	MaxRetries     int
	RetryDelay     time.Duration
	ConnectTimeout time.Duration
}

// DB is the handle every repository works with: a sqlx connection plus the
// goqu dialect statements must be rendered in.
type DB struct {
	*sqlx.DB
	Driver  string
	Dialect string

	pg *PostgresDB
}

// Builder returns the goqu dialect for this backend.
// Statements are always prepared so values travel as driver args.
func (db *DB) Builder() goqu.DialectWrapper {
	return goqu.Dialect(db.Dialect)
}

// RowLocks reports whether SELECT ... FOR UPDATE is meaningful.
// SQLite serialises writers at BEGIN IMMEDIATE instead.
func (db *DB) RowLocks() bool {
	return db.Dialect == DialectPostgres
}

// Open connects to the configured backend
func Open(ctx context.Context, cfg *DBConfig) (*DB, error) {
	switch cfg.Driver {
	case DriverPgx, "":
		pg := NewPostgresDB(cfg)
		if err := pg.Connect(ctx); err != nil {
			return nil, err
		}
		sqlxDB, err := pg.SQLX()
		if err != nil {
			pg.Pool.Close()
			return nil, err
		}
		return &DB{DB: sqlxDB, Driver: DriverPgx, Dialect: DialectPostgres, pg: pg}, nil

	case DriverPQ:
		sqlxDB, err := openPQ(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &DB{DB: sqlxDB, Driver: DriverPQ, Dialect: DialectPostgres}, nil

	case DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
