package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"
)

// MemoryDSN keeps the whole database inside the process.
const MemoryDSN = ":memory:"

//go:embed migrations/*.sql
var migrationsFS embed.FS

type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

type Options struct {
	DSN       string
	LogWriter io.Writer
	LogLevel  zerolog.Level
}

// NewDB opens a traced and logged SQLite database and migrates it.
//
// A ":memory:" database lives on one connection, so the pool is pinned to a
// single connection that is never recycled.
func NewDB(opts Options) (*DB, error) {
	if opts.DSN == "" {
		opts.DSN = MemoryDSN
	}

	if opts.LogWriter == nil {
		opts.LogWriter = io.Discard
	}

	tracedDB, err := otelsql.Open("sqlite3", opts.DSN,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("todoapi"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	drv := tracedDB.Driver()
	tracedDB.Close()

	logger := zerolog.New(opts.LogWriter).Level(opts.LogLevel).With().
		Timestamp().
		Str("component", "sqlite").
		Logger()

	sqlDB := sqldblogger.OpenDriver(opts.DSN, drv, zerologadapter.New(logger))

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	if err := RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &queryBuilder,
	}, nil
}

// RunMigrations applies the embedded migrations. It does not close db.
func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	defer source.Close()

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
