// Package repomanager vends repositories bound to a dbx.DBTX for the
// configured database dialect and runs the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/dmitrijs2005/credkeeper/internal/dbx"
	"github.com/dmitrijs2005/credkeeper/internal/filex"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/migrations"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/metadata"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Metadata(db dbx.DBTX) metadata.Repository
}

// Dialect names accepted by New.
const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "pgx"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, migrations.SQLite, DialectSQLite, "sqlite")
}

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, migrations.Postgres, DialectPostgres, "postgres")
}

// gooseLogger sends goose output to the logger carried by the migration
// context; without one it is dropped.
type gooseLogger struct {
	ctx context.Context
	l   logging.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.l.Info(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.l.Error(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}

func migrate(ctx context.Context, db *sql.DB, fsys fs.FS, dialect, dir string) error {
	goose.SetLogger(gooseLogger{ctx: ctx, l: logging.FromContext(ctx, logging.Discard()).With("module", "migrations")})
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect %s: %w", dialect, err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// New returns the manager for dialect.
func New(dialect string) (RepositoryManager, error) {
	switch dialect {
	case DialectSQLite, "sqlite":
		return &SQLiteRepositoryManager{}, nil
	case DialectPostgres, "postgres":
		return &PostgresRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

// DialectFor picks the dialect from a DSN: postgres URLs go to pgx,
// anything else is treated as a sqlite path.
func DialectFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// isSQLiteFile reports whether dsn names a plain file path rather than an
// in-memory database or a file: URI.
func isSQLiteFile(dsn string) bool {
	return dsn != ":memory:" && !strings.HasPrefix(dsn, "file:")
}

// Open connects to dsn, runs migrations and returns the manager to use with it.
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	dialect := DialectFor(dsn)
	driver := "sqlite"
	if dialect == DialectPostgres {
		driver = "pgx"
	} else if isSQLiteFile(dsn) {
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if dialect == DialectSQLite {
		// a single connection keeps ":memory:" databases coherent
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	m, err := New(dialect)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, m, nil
}
