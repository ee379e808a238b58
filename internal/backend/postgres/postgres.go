// Package postgres implements the transactional SQL backend (spec §4.6):
// materialization runs inside a transaction, using database/sql's pooled
// connections (held open via the pgx stdlib driver) for the backend's
// lifetime, the way the teacher's postgres adapter connects.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/PowerSQL/PowerSQL/internal/engine"
	"github.com/PowerSQL/PowerSQL/internal/sqlast"
)

// Ensure Backend implements engine.Executor.
var _ engine.Executor = (*Backend)(nil)

// Backend materializes models against a PostgreSQL-compatible database.
type Backend struct {
	db     *sql.DB
	logger *slog.Logger
}

// New opens a connection from PG_HOSTNAME, PG_PORT, PG_USERNAME,
// PG_PASSWORD, PG_DATABASE (spec §4.6). If logger is nil, a discard logger
// is used.
func New(ctx context.Context, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dsn := buildDSN()
	logger.Debug("connecting to postgres", slog.String("host", os.Getenv("PG_HOSTNAME")), slog.String("database", os.Getenv("PG_DATABASE")))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	return &Backend{db: db, logger: logger}, nil
}

// WithDB wraps an already-open *sql.DB, bypassing environment-based
// connection setup; used by tests to inject a go-sqlmock database.
func WithDB(db *sql.DB, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{db: db, logger: logger}
}

func buildDSN() string {
	host := os.Getenv("PG_HOSTNAME")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("PG_PORT")
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, os.Getenv("PG_USERNAME"), os.Getenv("PG_PASSWORD"), os.Getenv("PG_DATABASE"),
	)
}

// Execute idempotently (re)materializes name inside a transaction: drops
// any existing view or table (cascading, tolerating failure), then runs the
// model's statement text, then commits (spec §4.6).
func (b *Backend) Execute(ctx context.Context, name string, stmt sqlast.Statement) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction for %s: %w", name, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP VIEW IF EXISTS %s CASCADE", name)); err != nil {
		b.logger.Debug("drop view best-effort failed", slog.String("model", name), slog.Any("error", err))
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", name)); err != nil {
		b.logger.Debug("drop table best-effort failed", slog.String("model", name), slog.Any("error", err))
	}

	materializeSQL := materializeStatement(name, stmt)
	if _, err := tx.ExecContext(ctx, materializeSQL); err != nil {
		return fmt.Errorf("materializing %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", name, err)
	}
	return nil
}

// QueryBool executes a single-column, single-row boolean query.
func (b *Backend) QueryBool(ctx context.Context, sql string) (bool, error) {
	var result bool
	if err := b.db.QueryRowContext(ctx, sql).Scan(&result); err != nil {
		return false, fmt.Errorf("querying bool: %w", err)
	}
	return result, nil
}

// Close releases the connection.
func (b *Backend) Close(ctx context.Context) error {
	return b.db.Close()
}

// materializeStatement renders a model's CREATE statement back to SQL text.
func materializeStatement(name string, stmt sqlast.Statement) string {
	switch s := stmt.(type) {
	case *sqlast.CreateViewStmt:
		kw := "VIEW"
		if s.Materialized {
			kw = "MATERIALIZED VIEW"
		}
		return fmt.Sprintf("CREATE %s %s AS %s", kw, name, sqlast.RenderQuery(s.Query))
	case *sqlast.CreateTableStmt:
		return fmt.Sprintf("CREATE TABLE %s AS %s", name, sqlast.RenderQuery(s.Query))
	default:
		return ""
	}
}
